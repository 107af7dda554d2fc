package fetch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/moonmap/refcomb/app/target"
)

var _ Fetcher = (*Prober)(nil)

// Prober checks a platform's public REST endpoint with a single timed GET.
// Any failure (timeout, non-2xx, network error) degrades to a fixed Error
// record instead of propagating, the detail is only logged.
type Prober struct {
	client     *resty.Client
	extractors map[string]Extractor
}

func NewProber(userAgent string, extractors map[string]Extractor) *Prober {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Prober{
		client:     client,
		extractors: extractors,
	}
}

func (p *Prober) Fetch(ctx context.Context, t *target.Target) (*Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Settings.Timeout)*time.Second)
	defer cancel()

	resp, err := p.client.R().SetContext(reqCtx).Get(t.API.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		slog.Error("API probe failed", "target", t.Name, "url", t.API.URL, "error", err)
		return degradedResult(t.Name), nil
	}

	if !resp.IsSuccess() {
		slog.Error("API probe returned non-2xx", "target", t.Name, "url", t.API.URL, "status_code", resp.StatusCode())
		return degradedResult(t.Name), nil
	}

	status := StatusActive
	deals := t.API.Deals

	if extract, ok := p.extractors[strings.ToLower(t.Name)]; ok {
		extractedStatus, extractedDeals, err := extract(resp.Body())
		if err != nil {
			slog.Error("API response extraction failed", "target", t.Name, "error", err)
			return degradedResult(t.Name), nil
		}
		status = extractedStatus
		deals = extractedDeals
	}

	if deals == "" {
		deals = FallbackDeals
	}

	return &Result{
		Platform:     t.Name,
		Status:       status,
		CurrentDeals: deals,
		FetchedAt:    time.Now().UTC(),
		Outcome:      OutcomeFetched,
	}, nil
}
