package client

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Refresher is the explicit refresh policy for the listing cache: a fixed
// interval plus on-demand triggers, instead of refetching as a side effect
// of rendering. Every refresh goes through the store's generation guard, so
// a refresh that raced a command cannot roll the cache back.
type Refresher struct {
	api      *Client
	store    *ListingStore
	interval time.Duration
	trigger  chan struct{}
	logger   *zap.Logger
}

// NewRefresher creates a Refresher with the given interval.
func NewRefresher(apiClient *Client, store *ListingStore, interval time.Duration, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		api:      apiClient,
		store:    store,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		logger:   logger,
	}
}

// Trigger requests an immediate refresh. A trigger while one is already
// queued is collapsed into it.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// RefreshOnce fetches a full car snapshot and offers it to the store.
// Returns whether the snapshot was applied.
func (r *Refresher) RefreshOnce(ctx context.Context) (bool, error) {
	gen := r.store.BeginFetch()
	cars, err := r.api.ListCars(ctx)
	if err != nil {
		return false, err
	}
	applied := r.store.ApplyCarSnapshot(gen, cars)
	if !applied {
		r.logger.Debug("discarded stale listing snapshot")
	}
	return applied, nil
}

// Run refreshes on the interval and on demand until ctx is cancelled.
// Failed refreshes are logged and retried on the next tick; the cache keeps
// its last good state in between.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-r.trigger:
		}
		if _, err := r.RefreshOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("listing refresh failed", zap.Error(err))
		}
	}
}
