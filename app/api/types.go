package api

import (
	"context"
	"time"

	"github.com/mosammunjapara-afk/newsguard/app/collector"
	"github.com/mosammunjapara-afk/newsguard/app/database"
	"github.com/mosammunjapara-afk/newsguard/app/verify"
)

type CollectorInterface interface {
	CollectOnce(ctx context.Context) (stored int, fake int, err error)
	HasConfiguredSources() bool
}

var _ CollectorInterface = (*collector.Collector)(nil)

type ClaimVerifierInterface interface {
	VerifyClaim(ctx context.Context, claim string) (verify.Result, error)
}

var _ ClaimVerifierInterface = (*verify.Verifier)(nil)

type ArticleReader interface {
	GetRecent(limit int) ([]database.CollectedArticle, error)
	NewestCollectedAt() (*time.Time, error)
	Count() (int, error)
	DeleteOlderThan(days int) (int64, error)
}

var _ ArticleReader = (*database.ArticleRepository)(nil)

type RunReader interface {
	Latest() (*database.CollectionRun, error)
	Recent(limit int) ([]database.CollectionRun, error)
}

var _ RunReader = (*database.StatsRepository)(nil)

type ClaimStore interface {
	Insert(check database.ClaimCheck) error
	Recent(limit int) ([]database.ClaimCheck, error)
}

var _ ClaimStore = (*database.ClaimRepository)(nil)

type Handler struct {
	collector CollectorInterface
	verifier  ClaimVerifierInterface
	articles  ArticleReader
	runs      RunReader
	claims    ClaimStore
}
