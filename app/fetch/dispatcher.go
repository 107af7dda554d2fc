package fetch

import (
	"context"
	"fmt"

	"github.com/moonmap/refcomb/app/target"
)

var _ Fetcher = (*Dispatcher)(nil)

// Dispatcher routes a target to the fetcher implementing its strategy.
// Which strategy applies is static per-target configuration, never runtime
// detection.
type Dispatcher struct {
	prober Fetcher
	page   Fetcher
	html   Fetcher
	feed   Fetcher
}

func NewDispatcher(userAgent string, extractors map[string]Extractor) *Dispatcher {
	return &Dispatcher{
		prober: NewProber(userAgent, extractors),
		page:   NewPageScraper(userAgent),
		html:   NewHTMLScraper(userAgent),
		feed:   NewFeedProber(userAgent),
	}
}

func (d *Dispatcher) Fetch(ctx context.Context, t *target.Target) (*Result, error) {
	switch t.Strategy {
	case target.StrategyAPI:
		return d.prober.Fetch(ctx, t)
	case target.StrategyPage:
		if t.Page.Render {
			return d.page.Fetch(ctx, t)
		}
		return d.html.Fetch(ctx, t)
	case target.StrategyFeed:
		return d.feed.Fetch(ctx, t)
	default:
		return nil, fmt.Errorf("no fetcher for strategy %q", t.Strategy)
	}
}
