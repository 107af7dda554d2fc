package fetch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const maxFragmentLength = 500

// NormalizeText folds scraped text into a compact single-line form: NFC
// normalization, width folding, collapsed whitespace, capped length.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	s = width.Fold.String(s)
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxFragmentLength {
		s = string(runes[:maxFragmentLength])
	}

	return s
}
