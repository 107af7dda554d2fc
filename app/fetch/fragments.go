package fetch

import (
	"time"

	"github.com/moonmap/refcomb/app/target"
)

// Logical selector field names shared by both page scrapers.
const (
	FieldBonus = "bonus"
	FieldOffer = "offer"
	FieldLink  = "link"
)

// resultFromFragments folds per-selector fragments into a Result. A target
// where every URL failed degrades; a target where pages loaded but nothing
// matched is Unknown rather than Error.
func resultFromFragments(t *target.Target, fragments map[string][]Fragment, succeeded int) *Result {
	if succeeded == 0 {
		return degradedResult(t.Name)
	}

	result := &Result{
		Platform:  t.Name,
		Fragments: fragments,
		FetchedAt: time.Now().UTC(),
		Outcome:   OutcomeFetched,
	}

	if deals := firstDealText(fragments); deals != "" {
		result.Status = StatusActive
		result.CurrentDeals = deals
	} else {
		result.Status = StatusUnknown
		result.CurrentDeals = FallbackDeals
	}

	return result
}

// firstDealText picks the deal description from matched fragments. Bonus
// text wins over offer text.
func firstDealText(fragments map[string][]Fragment) string {
	for _, field := range []string{FieldBonus, FieldOffer} {
		for _, fragment := range fragments[field] {
			if fragment.Text != "" {
				return fragment.Text
			}
		}
	}
	return ""
}
