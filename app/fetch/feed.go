package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/moonmap/refcomb/app/target"
)

var _ Fetcher = (*FeedProber)(nil)

// FeedProber reads a platform's announcements RSS/Atom feed and reports the
// newest entry title as the current deal. A parseable feed implies the
// platform is up, so status follows the feed, not a separate liveness call.
type FeedProber struct {
	parser *gofeed.Parser
}

func NewFeedProber(userAgent string) *FeedProber {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent

	return &FeedProber{parser: parser}
}

func (f *FeedProber) Fetch(ctx context.Context, t *target.Target) (*Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Settings.Timeout)*time.Second)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(t.Feed.URL, reqCtx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Error("Feed probe failed", "target", t.Name, "url", t.Feed.URL, "error", err)
		return degradedResult(t.Name), nil
	}

	result := &Result{
		Platform:  t.Name,
		FetchedAt: time.Now().UTC(),
		Outcome:   OutcomeFetched,
	}

	if len(feed.Items) == 0 {
		result.Status = StatusUnknown
		result.CurrentDeals = FallbackDeals
		return result, nil
	}

	result.Status = StatusActive
	result.CurrentDeals = NormalizeText(feed.Items[0].Title)
	if result.CurrentDeals == "" {
		result.CurrentDeals = FallbackDeals
	}

	return result, nil
}
