package sources

import (
	"context"
	"time"
)

// RemovedTitle is the sentinel some providers substitute for articles they
// have taken down. Such articles are unusable and skipped downstream.
const RemovedTitle = "[Removed]"

// Article is the common shape every adapter normalizes provider responses
// into. It lives in memory for one collection cycle only.
type Article struct {
	Title       string
	Description string
	Content     string
	URL         string
	PublishedAt string
	SourceName  string
}

// Adapter fetches one page of articles for a topic or category. Fetch never
// returns an error: every transport, quota and parse failure is handled
// inside the adapter and degrades to an empty result with a logged reason.
type Adapter interface {
	Name() string

	// Enabled reports whether the adapter has what it needs to run
	// (typically an API credential). A disabled adapter contributes
	// zero articles without being an error.
	Enabled() bool

	// Queries lists the categories or topics this adapter is fetched for
	// during a collection cycle.
	Queries() []string

	// Pace is the delay the collector inserts between consecutive calls
	// to this adapter, respecting per-source rate limits.
	Pace() time.Duration

	Fetch(ctx context.Context, query string) []Article
}

// ErrorKind classifies a failed upstream call for backoff decisions.
type ErrorKind int

const (
	ErrorKindTransport ErrorKind = iota
	ErrorKindRateLimit
	ErrorKindAuth
)

// Backoff decides how long an adapter waits after a failed call before
// giving up on it for this cycle. Tests inject a zero-delay policy.
type Backoff interface {
	Delay(kind ErrorKind) time.Duration
}

// FixedBackoff waits a constant interval after rate-limit responses and
// nothing otherwise; the next scheduled cycle is the retry.
type FixedBackoff struct {
	RateLimitDelay time.Duration
}

func (b FixedBackoff) Delay(kind ErrorKind) time.Duration {
	if kind == ErrorKindRateLimit {
		return b.RateLimitDelay
	}
	return 0
}

// NoBackoff never waits. Used in tests.
type NoBackoff struct{}

func (NoBackoff) Delay(ErrorKind) time.Duration { return 0 }
