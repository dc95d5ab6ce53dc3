// Package cache holds the in-process Snapshot Cache of spec.md §4.D: the
// single mutable shared state in the API process, protected by atomic
// pointer-swap semantics.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"fxrateproxy/internal/app/fxrate/entity"
	"fxrateproxy/pkg/logger"
	"fxrateproxy/pkg/metrics"
)

// StoreReader is the subset of the Shared Store Adapter the cache needs.
type StoreReader interface {
	GetRates(ctx context.Context) (entity.RateTable, error)
}

// Cache holds the current rate table in-process. Nil until the first
// successful sync.
type Cache struct {
	snapshot  atomic.Pointer[entity.RateTable]
	updatedAt atomic.Pointer[time.Time]
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{}
}

// GetRates returns the current snapshot, or nil before the first successful
// sync. Never blocks on a sync in progress.
func (c *Cache) GetRates() entity.RateTable {
	p := c.snapshot.Load()
	if p == nil {
		return nil
	}
	return *p
}

// UpdateRates atomically replaces the snapshot. Used only by the sync job.
func (c *Cache) UpdateRates(table entity.RateTable) {
	c.snapshot.Store(&table)
	now := time.Now()
	c.updatedAt.Store(&now)
	metrics.SnapshotAgeSeconds.Set(0)
}

// Ready reports whether the cache has completed at least one sync, for the
// API role's readiness probe.
func (c *Cache) Ready() bool {
	return c.snapshot.Load() != nil
}

// SyncJob is the deferred background task returned by Make: one initial sync
// followed by one sync per received notification, all run serially.
type SyncJob struct {
	cache   *Cache
	store   StoreReader
	trigger <-chan struct{}
}

// Make builds the cache cell and a not-yet-started SyncJob wired to trigger.
func Make(store StoreReader, trigger <-chan struct{}) (*Cache, *SyncJob) {
	c := New()
	job := &SyncJob{cache: c, store: store, trigger: trigger}
	return c, job
}

// Run performs the initial sync, then consumes trigger until ctx is done.
// At most one sync runs at a time: the trigger channel is drained serially
// in this single goroutine. Any sync error is logged and swallowed — the
// job must never crash the API process.
func (j *SyncJob) Run(ctx context.Context) {
	j.sync(ctx)

	ageTicker := time.NewTicker(time.Second)
	defer ageTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ageTicker.C:
			if t := j.cache.updatedAt.Load(); t != nil {
				metrics.SnapshotAgeSeconds.Set(time.Since(*t).Seconds())
			}
		case _, ok := <-j.trigger:
			if !ok {
				return
			}
			metrics.NotificationsReceived.Inc()
			j.sync(ctx)
		}
	}
}

func (j *SyncJob) sync(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("snapshot sync panicked, swallowing")
			metrics.SnapshotSyncsTotal.WithLabelValues("error").Inc()
		}
	}()

	start := time.Now()

	table, err := j.store.GetRates(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("snapshot sync failed")
		metrics.SnapshotSyncsTotal.WithLabelValues("error").Inc()
		return
	}

	if table == nil {
		// Cold read: keep the existing snapshot rather than overwriting it
		// with empty.
		logger.Warn().Msg("snapshot sync found no rates in store, keeping existing snapshot")
		metrics.SnapshotSyncsTotal.WithLabelValues("kept_stale").Inc()
		return
	}

	j.cache.UpdateRates(table)
	logger.Info().
		Int("count", len(table)).
		Dur("elapsed", time.Since(start)).
		Msg("snapshot sync applied")
	metrics.SnapshotSyncsTotal.WithLabelValues("applied").Inc()
}
