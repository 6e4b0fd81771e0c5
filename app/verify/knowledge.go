package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// KnowledgeBase matches a claim against an external reference corpus.
// Implementations never fail past their boundary: an unavailable backend
// reports no match.
type KnowledgeBase interface {
	Verify(ctx context.Context, text string) bool
}

const (
	// wikiOverlapThreshold is the minimum word overlap between the claim
	// and a page extract to count as a knowledge-base match.
	wikiOverlapThreshold = 3

	wikiSearchLimit = 3
	wikiClaimWords  = 50
	wikiPageWords   = 500
)

// WikipediaKB verifies claims against Wikipedia via the MediaWiki API:
// search for candidate pages, then compare word overlap between the claim
// and each page extract.
type WikipediaKB struct {
	endpoint string
	client   *http.Client
}

var _ KnowledgeBase = (*WikipediaKB)(nil)

func NewWikipediaKB(endpoint string, client *http.Client) *WikipediaKB {
	return &WikipediaKB{
		endpoint: endpoint,
		client:   client,
	}
}

func (w *WikipediaKB) Verify(ctx context.Context, text string) bool {
	if text == "" {
		return false
	}

	query := text
	if len(query) > 100 {
		query = query[:100]
	}

	titles, err := w.search(ctx, query)
	if err != nil {
		slog.Debug("Wikipedia search failed", "error", err)
		return false
	}

	claimWords := wordSet(text, wikiClaimWords)

	for i, title := range titles {
		if i >= 2 {
			break
		}

		extract, err := w.extract(ctx, title)
		if err != nil {
			slog.Debug("Wikipedia extract failed", "title", title, "error", err)
			continue
		}

		pageWords := wordSet(extract, wikiPageWords)
		if overlap(claimWords, pageWords) >= wikiOverlapThreshold {
			return true
		}
	}

	return false
}

func (w *WikipediaKB) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", "3")
	params.Set("format", "json")

	var data struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}

	if err := w.get(ctx, params, &data); err != nil {
		return nil, err
	}

	titles := make([]string, 0, wikiSearchLimit)
	for _, result := range data.Query.Search {
		titles = append(titles, result.Title)
	}
	return titles, nil
}

func (w *WikipediaKB) extract(ctx context.Context, title string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts")
	params.Set("explaintext", "1")
	params.Set("exintro", "1")
	params.Set("titles", title)
	params.Set("format", "json")

	var data struct {
		Query struct {
			Pages map[string]struct {
				Extract string `json:"extract"`
			} `json:"pages"`
		} `json:"query"`
	}

	if err := w.get(ctx, params, &data); err != nil {
		return "", err
	}

	for _, page := range data.Query.Pages {
		if page.Extract != "" {
			return page.Extract, nil
		}
	}
	return "", nil
}

func (w *WikipediaKB) get(ctx context.Context, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func wordSet(text string, limit int) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	if len(words) > limit {
		words = words[:limit]
	}

	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	count := 0
	for word := range a {
		if _, ok := b[word]; ok {
			count++
		}
	}
	return count
}
