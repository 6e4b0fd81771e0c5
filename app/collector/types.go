package collector

import (
	"context"

	"github.com/mosammunjapara-afk/newsguard/app/database"
	"github.com/mosammunjapara-afk/newsguard/app/impact"
	"github.com/mosammunjapara-afk/newsguard/app/sources"
	"github.com/mosammunjapara-afk/newsguard/app/verify"
)

// ArticleStore is the slice of the persisted store the collector needs.
type ArticleStore interface {
	Insert(a database.CollectedArticle) (bool, error)
	URLExists(url string) (bool, error)
	ContentHashExists(hash string) (bool, error)
}

var _ ArticleStore = (*database.ArticleRepository)(nil)

// StatsStore records append-only batch statistics.
type StatsStore interface {
	InsertRun(fetched, stored, duplicates, fake int) error
}

var _ StatsStore = (*database.StatsRepository)(nil)

// ArticleVerifier produces a verdict for one article.
type ArticleVerifier interface {
	VerifyArticle(ctx context.Context, a sources.Article) (verify.Result, error)
}

var _ ArticleVerifier = (*verify.Verifier)(nil)

// Annotator enriches a verdict with impact commentary.
type Annotator interface {
	Generate(ctx context.Context, headline, description string, isFake bool) []impact.Impact
}

var _ Annotator = (*impact.Annotator)(nil)
