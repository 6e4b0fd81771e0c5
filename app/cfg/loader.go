package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./newsguard.db" description:"Path to the SQLite database file"`

	// HTTP server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// News source credentials; a missing key disables that source
	GNewsAPIKey    string `long:"gnews-api-key" env:"GNEWS_API_KEY" description:"GNews API key"`
	NewsDataAPIKey string `long:"newsdata-api-key" env:"NEWSDATA_API_KEY" description:"NewsData.io API key"`
	NewsAPIKey     string `long:"newsapi-key" env:"NEWS_API_KEY" description:"NewsAPI.org API key"`
	RSSFeedURL     string `long:"rss-feed-url" env:"RSS_FEED_URL" description:"Optional keyless RSS source (e.g. Google News feed URL)"`

	// Verification backends
	ClassifierURL    string `long:"classifier-url" env:"CLASSIFIER_URL" description:"Base URL of the text classification service"`
	ClassifierAPIKey string `long:"classifier-api-key" env:"CLASSIFIER_API_KEY" description:"API key for the classification service (optional)"`
	FactCheckAPIKey  string `long:"factcheck-api-key" env:"GOOGLE_FACT_API_KEY" description:"Google Fact Check Tools API key (optional)"`
	WikipediaURL     string `long:"wikipedia-url" env:"WIKIPEDIA_URL" default:"https://en.wikipedia.org/w/api.php" description:"Wikipedia API endpoint for knowledge-base checks"`
	CredibilityFile  string `long:"credibility-file" env:"CREDIBILITY_FILE" description:"YAML file with publisher trust score overrides (optional)"`

	// Impact generation
	OpenAIAPIKey string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key for impact generation (optional)"`

	// Collection schedule
	CollectEveryHours int    `long:"collect-every" env:"COLLECT_EVERY_HOURS" default:"3" description:"Collection interval in hours"`
	CollectTimes      string `long:"collect-times" env:"COLLECT_TIMES" default:"06:00,09:00,12:00,15:00,18:00,21:00" description:"Comma-separated fixed times of day for collection runs"`
	PageSize          int    `long:"page-size" env:"PAGE_SIZE" default:"10" description:"Articles requested per source call"`
	RequestTimeout    int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"15" description:"Timeout in seconds for upstream HTTP requests"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"NewsGuard/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Kolkata)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		Port:              raw.Port,
		APIAccessKey:      raw.APIAccessKey,
		GNewsAPIKey:       raw.GNewsAPIKey,
		NewsDataAPIKey:    raw.NewsDataAPIKey,
		NewsAPIKey:        raw.NewsAPIKey,
		RSSFeedURL:        raw.RSSFeedURL,
		ClassifierURL:     raw.ClassifierURL,
		ClassifierAPIKey:  raw.ClassifierAPIKey,
		FactCheckAPIKey:   raw.FactCheckAPIKey,
		WikipediaURL:      raw.WikipediaURL,
		CredibilityFile:   raw.CredibilityFile,
		OpenAIAPIKey:      raw.OpenAIAPIKey,
		CollectEveryHours: raw.CollectEveryHours,
		CollectTimes:      raw.CollectTimes,
		PageSize:          raw.PageSize,
		RequestTimeout:    raw.RequestTimeout,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
