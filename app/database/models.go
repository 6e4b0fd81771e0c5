package database

import (
	"time"
)

// CollectedArticle is one persisted outcome of the collection pipeline.
// URL is unique; the insert no-ops on conflict, which is the enforcement
// backstop for duplicate URLs.
type CollectedArticle struct {
	ID          int64
	Headline    string
	Description string
	Source      string
	URL         string
	PublishedAt string // timestamp string as reported by the source
	Verdict     string
	Confidence  float64
	Explanation string
	Impacts     string // serialized JSON list, empty when not generated
	URLHash     string
	ContentHash string
	CollectedAt time.Time
}

// CollectionRun is one append-only batch statistics row.
type CollectionRun struct {
	ID                int64
	RunAt             time.Time
	ArticlesFetched   int
	ArticlesStored    int
	DuplicatesSkipped int
	FakeDetected      int
}

// ClaimCheck records a single user-submitted claim verification.
type ClaimCheck struct {
	ID          int64
	Claim       string
	Verdict     string
	Confidence  float64
	Explanation string
	ClaimType   string
	ClientIP    string
	IsFake      bool
	CheckedAt   time.Time
}
