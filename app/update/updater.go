package update

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/moonmap/refcomb/app/fetch"
	"github.com/moonmap/refcomb/app/store"
	"github.com/moonmap/refcomb/app/target"
)

// Deal descriptions for records without a configured fetcher target.
const (
	DealsReferral   = "Referral link available"
	DealsNoReferral = "Check platform for offers"
)

// Describer fills empty descriptions from a platform's website.
type Describer interface {
	Run(ctx context.Context, website string) (string, error)
}

type Options struct {
	// Delay is the fixed throttle between fetched targets.
	Delay time.Duration
	// EnrichDescriptions enables the description pass over records with an
	// empty Description column.
	EnrichDescriptions bool
}

// Updater runs the full read-enrich-write cycle over the record store:
// load all rows, enrich the ones with a configured fetcher target, stamp
// the rest, then write everything back in a single save. Strictly
// sequential; the write happens once after all targets are processed, so
// a failure before that point leaves the file untouched.
type Updater struct {
	store     *store.Store
	targets   *target.Cache
	fetcher   fetch.Fetcher
	describer Describer
	opts      Options
}

func NewUpdater(st *store.Store, targets *target.Cache, fetcher fetch.Fetcher, describer Describer, opts Options) *Updater {
	return &Updater{
		store:     st,
		targets:   targets,
		fetcher:   fetcher,
		describer: describer,
		opts:      opts,
	}
}

func (u *Updater) Run(ctx context.Context) error {
	started := time.Now()

	records, err := u.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load record store: %w", err)
	}

	enriched := 0
	degraded := 0
	stamped := 0

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		t, ok := u.targets.GetTarget(record.Name())
		if !ok {
			u.stamp(record)
			stamped++
			continue
		}

		result, err := u.fetcher.Fetch(ctx, t)
		if err != nil {
			return fmt.Errorf("failed to fetch target %s: %w", t.Name, err)
		}

		u.merge(record, result)
		if result.Degraded() {
			degraded++
		} else {
			enriched++
		}

		select {
		case <-time.After(u.opts.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if u.opts.EnrichDescriptions && u.describer != nil {
		u.describeRecords(ctx, records)
	}

	if err := u.store.Save(records); err != nil {
		return fmt.Errorf("failed to save record store: %w", err)
	}

	slog.Info("Update completed",
		"duration", time.Since(started),
		"records", len(records),
		"enriched", enriched,
		"degraded", degraded,
		"stamped", stamped)

	return nil
}

// merge folds a fetch result into a record. Fetched fields overwrite the
// same keys wholesale, everything else is preserved.
func (u *Updater) merge(record *store.Record, result *fetch.Result) {
	record.Set(store.ColLiveStatus, result.Status)
	record.Set(store.ColCurrentDeals, result.CurrentDeals)
	record.Set(store.ColLastUpdated, result.FetchedAt.Format(time.RFC3339))
}

// stamp refreshes a record without a configured target: a new timestamp
// and a deal description derived from referral-link presence.
func (u *Updater) stamp(record *store.Record) {
	record.Set(store.ColLastUpdated, time.Now().UTC().Format(time.RFC3339))

	if record.Get(store.ColReferral) != "" {
		record.Set(store.ColCurrentDeals, DealsReferral)
	} else {
		record.Set(store.ColCurrentDeals, DealsNoReferral)
	}
}

func (u *Updater) describeRecords(ctx context.Context, records []*store.Record) {
	for _, record := range records {
		if ctx.Err() != nil {
			return
		}

		if record.Get(store.ColDescription) != "" {
			continue
		}
		website := record.Get(store.ColWebsite)
		if website == "" {
			continue
		}

		description, err := u.describer.Run(ctx, website)
		if err != nil {
			slog.Warn("Description enrichment failed", "platform", record.Name(), "website", website, "error", err)
			continue
		}

		record.Set(store.ColDescription, description)
	}
}
