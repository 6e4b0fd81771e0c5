package sources

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSAdapter is an optional keyless source fed by any RSS/Atom feed,
// typically a Google News feed. Google News item titles carry the
// publisher as a " - Publisher" suffix, which is split off into the
// source name so credibility lookups still work.
type RSSAdapter struct {
	feedURL string
	parser  *gofeed.Parser
}

var _ Adapter = (*RSSAdapter)(nil)

func NewRSSAdapter(feedURL string, userAgent string) *RSSAdapter {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &RSSAdapter{
		feedURL: feedURL,
		parser:  parser,
	}
}

func (a *RSSAdapter) Name() string        { return "rss" }
func (a *RSSAdapter) Enabled() bool       { return a.feedURL != "" }
func (a *RSSAdapter) Queries() []string   { return []string{"top"} }
func (a *RSSAdapter) Pace() time.Duration { return time.Second }

func (a *RSSAdapter) Fetch(ctx context.Context, _ string) []Article {
	if !a.Enabled() {
		return nil
	}

	feed, err := a.parser.ParseURLWithContext(a.feedURL, ctx)
	if err != nil {
		slog.Error("RSS fetch failed", "url", a.feedURL, "error", err)
		return nil
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" {
			continue
		}

		title, sourceName := splitPublisherSuffix(item.Title)
		if sourceName == "" {
			sourceName = feed.Title
		}

		publishedAt := item.Published
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
		}

		articles = append(articles, Article{
			Title:       title,
			Description: item.Description,
			URL:         item.Link,
			PublishedAt: publishedAt,
			SourceName:  sourceName,
		})
	}

	slog.Info("RSS fetch completed", "url", a.feedURL, "articles", len(articles))
	return articles
}

func splitPublisherSuffix(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 || idx+3 >= len(title) {
		return title, ""
	}
	return strings.TrimSpace(title[:idx]), strings.TrimSpace(title[idx+3:])
}
