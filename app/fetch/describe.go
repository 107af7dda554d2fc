package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	readability "github.com/go-shiori/go-readability"
)

const maxDescriptionLength = 280

// Describer extracts a short description from a platform's official
// website, used to fill records whose Description column is empty.
type Describer struct {
	client *resty.Client
}

func NewDescriber(userAgent string) *Describer {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Describer{client: client}
}

func (d *Describer) Run(ctx context.Context, website string) (string, error) {
	if website == "" {
		return "", fmt.Errorf("website is empty")
	}

	resp, err := d.client.R().SetContext(ctx).Get(website)
	if err != nil {
		return "", fmt.Errorf("failed to fetch website: %w", err)
	}

	if !resp.IsSuccess() {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode())
	}

	article, err := readability.FromReader(bytes.NewReader(resp.Body()), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	description := NormalizeText(article.Excerpt)
	if description == "" {
		description = NormalizeText(article.TextContent)
	}
	if description == "" {
		return "", fmt.Errorf("no content extracted from %s", website)
	}

	runes := []rune(description)
	if len(runes) > maxDescriptionLength {
		description = string(runes[:maxDescriptionLength])
	}

	slog.Debug("Description extracted", "website", website, "length", len(description))

	return description, nil
}
