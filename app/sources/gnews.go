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

const gnewsEndpoint = "https://gnews.io/api/v4/top-headlines"

// GNewsTopics are the topics fetched each collection cycle.
var GNewsTopics = []string{
	"breaking-news", "nation", "business",
	"technology", "sports", "health", "entertainment", "science",
}

// GNewsAdapter fetches top headlines from the GNews API. The free plan
// allows 100 requests per day with up to 10 articles per request.
type GNewsAdapter struct {
	apiKey   string
	endpoint string
	pageSize int
	client   *http.Client
	backoff  Backoff
	sleep    func(time.Duration)
}

var _ Adapter = (*GNewsAdapter)(nil)

func NewGNewsAdapter(apiKey string, pageSize int, client *http.Client, backoff Backoff) *GNewsAdapter {
	return &GNewsAdapter{
		apiKey:   apiKey,
		endpoint: gnewsEndpoint,
		pageSize: pageSize,
		client:   client,
		backoff:  backoff,
		sleep:    time.Sleep,
	}
}

func (a *GNewsAdapter) Name() string        { return "gnews" }
func (a *GNewsAdapter) Enabled() bool       { return a.apiKey != "" }
func (a *GNewsAdapter) Queries() []string   { return GNewsTopics }
func (a *GNewsAdapter) Pace() time.Duration { return time.Second }

type gnewsResponse struct {
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

func (a *GNewsAdapter) Fetch(ctx context.Context, topic string) []Article {
	if !a.Enabled() {
		return nil
	}

	params := url.Values{}
	params.Set("token", a.apiKey)
	params.Set("country", "in")
	params.Set("lang", "en")
	params.Set("topic", topic)
	params.Set("max", strconv.Itoa(a.pageSize))
	params.Set("sortby", "publishedAt")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		slog.Error("GNews request build failed", "topic", topic, "error", err)
		return nil
	}

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Error("GNews request failed", "topic", topic, "error", err)
		return nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var data gnewsResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			slog.Error("GNews response decode failed", "topic", topic, "error", err)
			return nil
		}

		articles := make([]Article, 0, len(data.Articles))
		for _, raw := range data.Articles {
			if raw.Title == "" {
				continue
			}
			sourceName := raw.Source.Name
			if sourceName == "" {
				sourceName = "GNews"
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

		slog.Info("GNews fetch completed", "topic", topic, "articles", len(articles))
		return articles

	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		slog.Warn("GNews rejected API key", "topic", topic, "status", resp.StatusCode)

	case resp.StatusCode == http.StatusTooManyRequests:
		slog.Warn("GNews daily limit reached", "topic", topic)
		a.sleep(a.backoff.Delay(ErrorKindRateLimit))

	default:
		slog.Warn("GNews unexpected status", "topic", topic, "status", resp.StatusCode)
	}

	return nil
}
