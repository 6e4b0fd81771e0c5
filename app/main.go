package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mosammunjapara-afk/newsguard/app/api"
	"github.com/mosammunjapara-afk/newsguard/app/cfg"
	"github.com/mosammunjapara-afk/newsguard/app/collector"
	"github.com/mosammunjapara-afk/newsguard/app/database"
	"github.com/mosammunjapara-afk/newsguard/app/impact"
	"github.com/mosammunjapara-afk/newsguard/app/sources"
	"github.com/mosammunjapara-afk/newsguard/app/tasks"
	"github.com/mosammunjapara-afk/newsguard/app/verify"
)

func main() {
	// .env is optional, environment variables win either way
	_ = godotenv.Load()

	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if c == nil {
		// Help was shown
		return
	}

	logLevel := slog.LevelInfo
	if c.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Starting NewsGuard", "version", c.Version)

	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", c.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Database ready", "path", c.DBPath)

	articleRepo := database.NewArticleRepository(db)
	statsRepo := database.NewStatsRepository(db)
	claimRepo := database.NewClaimRepository(db)

	httpClient := &http.Client{
		Timeout: time.Duration(c.RequestTimeout) * time.Second,
	}

	credibility := verify.NewCredibility()
	if c.CredibilityFile != "" {
		if err := credibility.LoadOverrides(c.CredibilityFile); err != nil {
			slog.Error("Failed to load credibility overrides", "path", c.CredibilityFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Credibility overrides loaded", "path", c.CredibilityFile)
	}

	kb := verify.NewWikipediaKB(c.WikipediaURL, httpClient)

	var classifier verify.Classifier
	if c.ClassifierURL != "" {
		classifier = verify.NewMLClient(c.ClassifierURL, c.ClassifierAPIKey, httpClient)
		slog.Info("Using remote classifier", "endpoint", c.ClassifierURL)
	} else {
		classifier = verify.KeywordClassifier{}
		slog.Info("CLASSIFIER_URL not set, using keyword heuristic classifier")
	}

	factChecker := verify.NewGoogleFactChecker(c.FactCheckAPIKey, httpClient)
	verifier := verify.NewVerifier(kb, classifier, factChecker, credibility)

	annotator := impact.NewAnnotator(c.OpenAIAPIKey)
	if !annotator.Enabled() {
		slog.Info("OPENAI_API_KEY not set, using default impact annotations")
	}

	backoff := sources.FixedBackoff{RateLimitDelay: 30 * time.Second}
	adapters := []sources.Adapter{
		sources.NewGNewsAdapter(c.GNewsAPIKey, c.PageSize, httpClient, backoff),
		sources.NewNewsDataAdapter(c.NewsDataAPIKey, httpClient, backoff),
		sources.NewNewsAPIAdapter(c.NewsAPIKey, httpClient, backoff),
		sources.NewRSSAdapter(c.RSSFeedURL, c.UserAgent),
	}
	for _, a := range adapters {
		slog.Info("News source", "name", a.Name(), "enabled", a.Enabled())
	}

	coll := collector.New(adapters, verifier, annotator, articleRepo, statsRepo)

	scheduler := tasks.NewScheduler(coll)
	if coll.HasConfiguredSources() {
		if err := scheduler.Start(); err != nil {
			slog.Error("Failed to start scheduler", "error", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
	} else {
		slog.Warn("No news sources configured, scheduled collection disabled")
	}

	handler := api.NewHandler(coll, verifier, articleRepo, statsRepo, claimRepo)
	server := api.NewServer(handler, c.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
