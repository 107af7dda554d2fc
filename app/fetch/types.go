package fetch

import (
	"context"
	"time"

	"github.com/moonmap/refcomb/app/target"
)

// Status values folded into a platform record by the update pipeline.
const (
	StatusActive  = "Active"
	StatusError   = "Error"
	StatusUnknown = "Unknown"
)

// FallbackDeals is the degraded deal description substituted when live
// enrichment fails.
const FallbackDeals = "Check platform for current offers"

// Outcome distinguishes a clean fetch from a degraded fallback. Hard
// failures (context cancellation) are returned as errors instead.
type Outcome int

const (
	OutcomeFetched Outcome = iota
	OutcomeDegraded
)

// Fragment is one element matched by a page selector.
type Fragment struct {
	Text string
	Href string
}

// Result is the transient outcome of fetching one target. Only selected
// fields are folded into a platform record, the rest is discarded.
type Result struct {
	Platform     string
	Status       string
	CurrentDeals string
	Fragments    map[string][]Fragment
	FetchedAt    time.Time
	Outcome      Outcome
}

func (r *Result) Degraded() bool {
	return r.Outcome == OutcomeDegraded
}

type Fetcher interface {
	Fetch(ctx context.Context, t *target.Target) (*Result, error)
}

// Extractor maps a raw API response body to a status and deal description.
// Registered per target name for endpoints whose response must be
// inspected; targets without one map any 2xx to Active.
type Extractor func(body []byte) (status string, deals string, err error)

func degradedResult(platform string) *Result {
	return &Result{
		Platform:     platform,
		Status:       StatusError,
		CurrentDeals: FallbackDeals,
		FetchedAt:    time.Now().UTC(),
		Outcome:      OutcomeDegraded,
	}
}
