package api

import (
	"context"
	"time"

	"github.com/moonmap/refcomb/app/store"
	"github.com/moonmap/refcomb/app/update"
)

// UpdateRunner runs the merge/update procedure synchronously.
type UpdateRunner interface {
	Run(ctx context.Context) error
}

var _ UpdateRunner = (*update.Updater)(nil)

type Handler struct {
	store   *store.Store
	updater UpdateRunner
	started time.Time
}
