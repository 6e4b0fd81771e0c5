package sources

import (
	"cmp"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const newsDataEndpoint = "https://newsdata.io/api/1/news"

// NewsDataCategories are the categories fetched each collection cycle.
var NewsDataCategories = []string{
	"top", "politics", "business", "technology", "sports", "health",
}

// NewsDataAdapter fetches latest news from the NewsData.io API.
type NewsDataAdapter struct {
	apiKey   string
	endpoint string
	client   *http.Client
	backoff  Backoff
	sleep    func(time.Duration)
	titler   cases.Caser
}

var _ Adapter = (*NewsDataAdapter)(nil)

func NewNewsDataAdapter(apiKey string, client *http.Client, backoff Backoff) *NewsDataAdapter {
	return &NewsDataAdapter{
		apiKey:   apiKey,
		endpoint: newsDataEndpoint,
		client:   client,
		backoff:  backoff,
		sleep:    time.Sleep,
		titler:   cases.Title(language.English),
	}
}

func (a *NewsDataAdapter) Name() string        { return "newsdata" }
func (a *NewsDataAdapter) Enabled() bool       { return a.apiKey != "" }
func (a *NewsDataAdapter) Queries() []string   { return NewsDataCategories }
func (a *NewsDataAdapter) Pace() time.Duration { return 800 * time.Millisecond }

type newsDataResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		Link        string `json:"link"`
		PubDate     string `json:"pubDate"`
		SourceID    string `json:"source_id"`
	} `json:"results"`
}

func (a *NewsDataAdapter) Fetch(ctx context.Context, category string) []Article {
	if !a.Enabled() {
		return nil
	}

	params := url.Values{}
	params.Set("apikey", a.apiKey)
	params.Set("country", "in")
	params.Set("language", "en")
	params.Set("category", category)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		slog.Error("NewsData request build failed", "category", category, "error", err)
		return nil
	}

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Error("NewsData request failed", "category", category, "error", err)
		return nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data newsDataResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			slog.Error("NewsData response decode failed", "category", category, "error", err)
			return nil
		}

		// NewsData signals API-level failures inside a 200 payload.
		if data.Status != "success" {
			slog.Warn("NewsData reported failure", "category", category,
				"message", cmp.Or(data.Message, "unknown error"))
			return nil
		}

		articles := make([]Article, 0, len(data.Results))
		for _, raw := range data.Results {
			if raw.Title == "" {
				continue
			}
			articles = append(articles, Article{
				Title:       raw.Title,
				Description: cmp.Or(raw.Description, raw.Content),
				Content:     raw.Content,
				URL:         raw.Link,
				PublishedAt: raw.PubDate,
				SourceName:  a.sourceName(raw.SourceID),
			})
		}

		slog.Info("NewsData fetch completed", "category", category, "articles", len(articles))
		return articles

	case http.StatusUnprocessableEntity:
		slog.Warn("NewsData rejected category", "category", category)

	case http.StatusTooManyRequests:
		slog.Warn("NewsData rate limit hit", "category", category)
		a.sleep(a.backoff.Delay(ErrorKindRateLimit))

	default:
		slog.Warn("NewsData unexpected status", "category", category, "status", resp.StatusCode)
	}

	return nil
}

// sourceName turns a NewsData source slug like "the-hindu" into a display
// name like "The Hindu" for credibility lookups.
func (a *NewsDataAdapter) sourceName(sourceID string) string {
	if sourceID == "" {
		return "NewsData"
	}
	return a.titler.String(strings.ReplaceAll(sourceID, "-", " "))
}
