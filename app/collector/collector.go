package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mosammunjapara-afk/newsguard/app/database"
	"github.com/mosammunjapara-afk/newsguard/app/sources"
	"github.com/mosammunjapara-afk/newsguard/app/verify"
)

// Collector drives all source adapters, deduplicates their output against
// the current batch and the persisted history, verifies and annotates each
// surviving article, and persists outcomes with batch statistics.
//
// Exactly one collection runs at a time: scheduled and manual triggers
// serialize on an internal mutex. Overlapping runs would race on the
// content-fingerprint pre-check and double external-API spend.
type Collector struct {
	adapters  []sources.Adapter
	verifier  ArticleVerifier
	annotator Annotator
	articles  ArticleStore
	stats     StatsStore

	mu    sync.Mutex
	sleep func(time.Duration)
}

func New(adapters []sources.Adapter, verifier ArticleVerifier, annotator Annotator,
	articles ArticleStore, stats StatsStore) *Collector {
	return &Collector{
		adapters:  adapters,
		verifier:  verifier,
		annotator: annotator,
		articles:  articles,
		stats:     stats,
		sleep:     time.Sleep,
	}
}

// HasConfiguredSources reports whether at least one adapter is able to run.
func (c *Collector) HasConfiguredSources() bool {
	for _, adapter := range c.adapters {
		if adapter.Enabled() {
			return true
		}
	}
	return false
}

// CollectOnce runs one full collection batch and returns how many articles
// were stored and how many of those were flagged fake. Zero articles across
// all adapters is a degraded outcome, not an error; a store failure aborts
// the batch.
func (c *Collector) CollectOnce(ctx context.Context) (int, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	started := time.Now()
	slog.Info("Collection started", "adapters", len(c.adapters))

	raw := c.fetchAll(ctx)
	if len(raw) == 0 {
		slog.Warn("Collection fetched zero articles",
			"reason", "no credentials configured or all sources failed")
		return 0, 0, nil
	}

	unique := dedupeByURL(raw)
	slog.Info("Batch collected", "raw", len(raw), "unique", len(unique))

	stored, fake, dupes := 0, 0, len(raw)-len(unique)

	for _, article := range unique {
		outcome, err := c.process(ctx, article)
		if err != nil {
			return stored, fake, err
		}

		switch outcome {
		case outcomeStored:
			stored++
		case outcomeStoredFake:
			stored++
			fake++
		case outcomeDuplicate:
			dupes++
		case outcomeSkipped:
		}
	}

	if err := c.stats.InsertRun(len(raw), stored, dupes, fake); err != nil {
		return stored, fake, fmt.Errorf("failed to record batch statistics: %w", err)
	}

	slog.Info("Collection completed",
		"duration", time.Since(started).Round(time.Millisecond),
		"fetched", len(raw),
		"stored", stored,
		"duplicates", dupes,
		"fake", fake)

	return stored, fake, nil
}

// fetchAll accumulates articles from every enabled adapter, pacing
// consecutive calls to the same adapter to respect per-source limits.
func (c *Collector) fetchAll(ctx context.Context) []sources.Article {
	var all []sources.Article

	for _, adapter := range c.adapters {
		if !adapter.Enabled() {
			slog.Info("Source skipped, no credential configured", "source", adapter.Name())
			continue
		}

		queries := adapter.Queries()
		for i, query := range queries {
			all = append(all, adapter.Fetch(ctx, query)...)
			if i < len(queries)-1 {
				c.sleep(adapter.Pace())
			}
		}
	}

	return all
}

type outcome int

const (
	outcomeStored outcome = iota
	outcomeStoredFake
	outcomeDuplicate
	outcomeSkipped
)

func (c *Collector) process(ctx context.Context, article sources.Article) (outcome, error) {
	if article.Title == "" || article.Title == sources.RemovedTitle || article.URL == "" {
		return outcomeSkipped, nil
	}

	dup, err := c.isDuplicate(article)
	if err != nil {
		return outcomeSkipped, err
	}
	if dup {
		return outcomeDuplicate, nil
	}

	fingerprint := ContentFingerprint(article.Title, article.PublishedAt)

	result, err := c.verifier.VerifyArticle(ctx, article)
	if err != nil {
		// One bad article never aborts the batch.
		slog.Warn("Verification failed, skipping article",
			"url", article.URL, "error", err)
		return outcomeSkipped, nil
	}

	impacts := c.annotator.Generate(ctx, article.Title, article.Description, result.IsFake())
	impactsJSON, err := json.Marshal(impacts)
	if err != nil {
		slog.Warn("Impacts serialization failed, storing without impacts",
			"url", article.URL, "error", err)
		impactsJSON = nil
	}

	ok, err := c.articles.Insert(toRecord(article, result, string(impactsJSON), fingerprint))
	if err != nil {
		return outcomeSkipped, fmt.Errorf("failed to store article: %w", err)
	}
	if !ok {
		// Insert is the authoritative backstop: the URL appeared between
		// the pre-check and the insert.
		return outcomeDuplicate, nil
	}

	slog.Info("Article stored",
		"verdict", result.Verdict,
		"confidence", result.Confidence,
		"source", article.SourceName,
		"title", truncate(article.Title, 70))

	if result.IsFake() {
		return outcomeStoredFake, nil
	}
	return outcomeStored, nil
}

// isDuplicate checks the two persisted existence predicates: exact URL and
// fuzzy content fingerprint.
func (c *Collector) isDuplicate(article sources.Article) (bool, error) {
	exists, err := c.articles.URLExists(article.URL)
	if err != nil {
		return false, fmt.Errorf("failed to check url existence: %w", err)
	}
	if exists {
		return true, nil
	}

	exists, err = c.articles.ContentHashExists(ContentFingerprint(article.Title, article.PublishedAt))
	if err != nil {
		return false, fmt.Errorf("failed to check content fingerprint existence: %w", err)
	}
	return exists, nil
}

// dedupeByURL removes same-URL repeats within one batch, first occurrence
// wins, source order preserved. Catches an adapter returning the same
// story twice.
func dedupeByURL(articles []sources.Article) []sources.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]sources.Article, 0, len(articles))

	for _, article := range articles {
		if article.URL == "" {
			unique = append(unique, article)
			continue
		}
		if _, ok := seen[article.URL]; ok {
			continue
		}
		seen[article.URL] = struct{}{}
		unique = append(unique, article)
	}

	return unique
}

func toRecord(article sources.Article, result verify.Result, impactsJSON, fingerprint string) database.CollectedArticle {
	return database.CollectedArticle{
		Headline:    article.Title,
		Description: article.Description,
		Source:      article.SourceName,
		URL:         article.URL,
		PublishedAt: article.PublishedAt,
		Verdict:     string(result.Verdict),
		Confidence:  result.Confidence,
		Explanation: result.Explanation,
		Impacts:     impactsJSON,
		ContentHash: fingerprint,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
