package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/moonmap/refcomb/app/target"
)

var _ Fetcher = (*HTMLScraper)(nil)

// HTMLScraper extracts promo text from pages that render server-side: a
// plain GET and a goquery pass over the configured selectors. Targets whose
// content is JavaScript-driven use PageScraper instead.
type HTMLScraper struct {
	client *resty.Client
}

func NewHTMLScraper(userAgent string) *HTMLScraper {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &HTMLScraper{client: client}
}

func (s *HTMLScraper) Fetch(ctx context.Context, t *target.Target) (*Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fragments := make(map[string][]Fragment)
	succeeded := 0

	for _, page := range t.Page.URLs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if err := s.scrapeURL(ctx, t, page, fragments); err != nil {
			slog.Error("Page scrape failed", "target", t.Name, "url", page.URL, "error", err)
			continue
		}
		succeeded++
	}

	return resultFromFragments(t, fragments, succeeded), nil
}

func (s *HTMLScraper) scrapeURL(ctx context.Context, t *target.Target, page target.PageURL, fragments map[string][]Fragment) error {
	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Settings.Timeout)*time.Second)
	defer cancel()

	resp, err := s.client.R().SetContext(reqCtx).Get(page.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("HTTP error: %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	for field, selector := range page.Selectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			fragment := Fragment{Text: NormalizeText(sel.Text())}
			if href, ok := sel.Attr("href"); ok {
				fragment.Href = href
			}
			if fragment.Text == "" && fragment.Href == "" {
				return
			}
			fragments[field] = append(fragments[field], fragment)
		})
	}

	return nil
}
