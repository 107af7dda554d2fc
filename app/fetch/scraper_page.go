package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/moonmap/refcomb/app/target"
)

var _ Fetcher = (*PageScraper)(nil)

// PageScraper renders promo pages in headless Chrome before evaluating
// selectors, for targets whose content is built by JavaScript. A browser is
// launched per target and closed when the target is done. Per-URL failures
// are logged and skipped; the result is the union of whatever URLs loaded.
type PageScraper struct {
	userAgent string
}

func NewPageScraper(userAgent string) *PageScraper {
	return &PageScraper{userAgent: userAgent}
}

func (s *PageScraper) Fetch(ctx context.Context, t *target.Target) (*Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	controlURL, err := launcher.New().Headless(true).NoSandbox(true).Launch()
	if err != nil {
		slog.Error("Failed to launch browser", "target", t.Name, "error", err)
		return degradedResult(t.Name), nil
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		slog.Error("Failed to connect to browser", "target", t.Name, "error", err)
		return degradedResult(t.Name), nil
	}
	defer browser.Close()

	fragments := make(map[string][]Fragment)
	succeeded := 0

	for _, page := range t.Page.URLs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if err := s.scrapeURL(ctx, browser, t, page, fragments); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Error("Page scrape failed", "target", t.Name, "url", page.URL, "error", err)
			continue
		}
		succeeded++
	}

	return resultFromFragments(t, fragments, succeeded), nil
}

func (s *PageScraper) scrapeURL(ctx context.Context, browser *rod.Browser, t *target.Target, pageCfg target.PageURL, fragments map[string][]Fragment) error {
	page, err := stealth.Page(browser)
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	if s.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.userAgent}); err != nil {
			slog.Warn("Failed to set user agent", "target", t.Name, "error", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, time.Duration(t.Settings.Timeout)*time.Second)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageCfg.URL); err != nil {
		return fmt.Errorf("failed to navigate: %w", err)
	}

	if err := page.Context(navCtx).WaitLoad(); err != nil {
		slog.Warn("Page load wait failed", "target", t.Name, "url", pageCfg.URL, "error", err)
	}

	// Fixed settle time for JavaScript-driven content.
	select {
	case <-time.After(time.Duration(t.Settings.Settle) * time.Second):
	case <-ctx.Done():
		return ctx.Err()
	}

	for field, selector := range pageCfg.Selectors {
		elements, err := page.Context(navCtx).Elements(selector)
		if err != nil {
			slog.Debug("Selector evaluation failed", "target", t.Name, "selector", selector, "error", err)
			continue
		}

		for _, el := range elements {
			text, err := el.Text()
			if err != nil {
				continue
			}

			fragment := Fragment{Text: NormalizeText(text)}
			if href, err := el.Attribute("href"); err == nil && href != nil {
				fragment.Href = *href
			}
			if fragment.Text == "" && fragment.Href == "" {
				continue
			}
			fragments[field] = append(fragments[field], fragment)
		}
	}

	return nil
}
