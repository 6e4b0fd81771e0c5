package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	newsAPIHeadlinesEndpoint  = "https://newsapi.org/v2/top-headlines"
	newsAPIEverythingEndpoint = "https://newsapi.org/v2/everything"

	// Free-plan top-headlines lags by 24h; the /everything fallback
	// queries the same window explicitly.
	newsAPIRecencyWindow = 24 * time.Hour
)

// NewsAPICategories are the categories fetched each collection cycle.
var NewsAPICategories = []string{
	"general", "business", "technology", "health", "sports",
}

// newsAPIFallbackQueries maps a category to the search query used when the
// plan rejects the top-headlines endpoint.
var newsAPIFallbackQueries = map[string]string{
	"general":       "india today",
	"business":      "india economy finance",
	"technology":    "india tech startup AI",
	"health":        "india health",
	"sports":        "india cricket IPL",
	"entertainment": "bollywood india",
}

// NewsAPIAdapter fetches from NewsAPI.org. When the plan rejects
// top-headlines (401/426) it degrades to the broader /everything endpoint
// with an explicit 24h recency window.
type NewsAPIAdapter struct {
	apiKey             string
	headlinesEndpoint  string
	everythingEndpoint string
	pageSize           int
	client             *http.Client
	backoff            Backoff
	sleep              func(time.Duration)
	now                func() time.Time
}

var _ Adapter = (*NewsAPIAdapter)(nil)

func NewNewsAPIAdapter(apiKey string, client *http.Client, backoff Backoff) *NewsAPIAdapter {
	return &NewsAPIAdapter{
		apiKey:             apiKey,
		headlinesEndpoint:  newsAPIHeadlinesEndpoint,
		everythingEndpoint: newsAPIEverythingEndpoint,
		pageSize:           20,
		client:             client,
		backoff:            backoff,
		sleep:              time.Sleep,
		now:                time.Now,
	}
}

func (a *NewsAPIAdapter) Name() string        { return "newsapi" }
func (a *NewsAPIAdapter) Enabled() bool       { return a.apiKey != "" }
func (a *NewsAPIAdapter) Queries() []string   { return NewsAPICategories }
func (a *NewsAPIAdapter) Pace() time.Duration { return 500 * time.Millisecond }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

func (a *NewsAPIAdapter) Fetch(ctx context.Context, category string) []Article {
	if !a.Enabled() {
		return nil
	}

	params := url.Values{}
	params.Set("country", "in")
	params.Set("category", category)
	params.Set("pageSize", strconv.Itoa(a.pageSize))
	params.Set("apiKey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.headlinesEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		slog.Error("NewsAPI request build failed", "category", category, "error", err)
		return nil
	}

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Error("NewsAPI request failed", "category", category, "error", err)
		return nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var data newsAPIResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			slog.Error("NewsAPI response decode failed", "category", category, "error", err)
			return nil
		}
		if data.Status != "ok" {
			slog.Warn("NewsAPI reported failure", "category", category)
			return nil
		}

		articles := a.normalize(data)
		slog.Info("NewsAPI fetch completed", "category", category, "articles", len(articles))
		return articles

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusUpgradeRequired:
		// Plan restriction on top-headlines; the broader search endpoint
		// still works on the free tier.
		slog.Warn("NewsAPI plan rejected top-headlines, falling back to /everything",
			"category", category, "status", resp.StatusCode)
		return a.fetchEverything(ctx, category)

	case resp.StatusCode == http.StatusTooManyRequests:
		slog.Warn("NewsAPI rate limit hit", "category", category)
		a.sleep(a.backoff.Delay(ErrorKindRateLimit))
		return nil

	default:
		slog.Warn("NewsAPI unexpected status, falling back to /everything",
			"category", category, "status", resp.StatusCode)
		return a.fetchEverything(ctx, category)
	}
}

func (a *NewsAPIAdapter) fetchEverything(ctx context.Context, category string) []Article {
	query, ok := newsAPIFallbackQueries[category]
	if !ok {
		query = "india news"
	}
	from := a.now().UTC().Add(-newsAPIRecencyWindow).Format("2006-01-02T15:04:05")

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", from)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(a.pageSize))
	params.Set("apiKey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.everythingEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		slog.Error("NewsAPI everything request build failed", "category", category, "error", err)
		return nil
	}

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Error("NewsAPI everything request failed", "category", category, "error", err)
		return nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data newsAPIResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			slog.Error("NewsAPI everything decode failed", "category", category, "error", err)
			return nil
		}
		if data.Status != "ok" {
			slog.Warn("NewsAPI everything reported failure", "category", category)
			return nil
		}

		articles := a.normalize(data)
		slog.Info("NewsAPI everything fetch completed", "category", category, "articles", len(articles))
		return articles

	case http.StatusTooManyRequests:
		slog.Warn("NewsAPI everything rate limit hit", "category", category)
		a.sleep(a.backoff.Delay(ErrorKindRateLimit))

	default:
		slog.Warn("NewsAPI everything unexpected status", "category", category, "status", resp.StatusCode)
	}

	return nil
}

func (a *NewsAPIAdapter) normalize(data newsAPIResponse) []Article {
	articles := make([]Article, 0, len(data.Articles))
	for _, raw := range data.Articles {
		if raw.Title == "" {
			continue
		}
		sourceName := raw.Source.Name
		if sourceName == "" {
			sourceName = "Unknown"
		}
		articles = append(articles, Article{
			Title:       raw.Title,
			Description: raw.Description,
			Content:     raw.Content,
			URL:         raw.URL,
			PublishedAt: raw.PublishedAt,
			SourceName:  sourceName,
		})
	}
	return articles
}
