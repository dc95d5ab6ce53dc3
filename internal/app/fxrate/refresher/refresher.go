// Package refresher implements the Refresher cycle of spec.md §4.C:
// fetch upstream, write the shared store, publish a notification.
package refresher

import (
	"context"
	"fmt"

	"fxrateproxy/internal/app/fxrate/entity"
	"fxrateproxy/pkg/logger"
	"fxrateproxy/pkg/metrics"
)

// Upstream is the subset of the Upstream Client the refresher needs.
type Upstream interface {
	FetchAll(ctx context.Context) ([]entity.Rate, error)
}

// Store is the subset of the Shared Store Adapter the refresher needs.
type Store interface {
	SetRates(ctx context.Context, table entity.RateTable) error
	PublishRatesUpdated(ctx context.Context) error
}

// Refresher orchestrates one fetch-store-publish cycle. Stateless between
// invocations: concurrent calls are safe since the store write is
// last-writer-wins.
type Refresher struct {
	upstream Upstream
	store    Store
}

// New builds a Refresher.
func New(upstream Upstream, store Store) *Refresher {
	return &Refresher{upstream: upstream, store: store}
}

// Refresh runs one cycle. On upstream failure the store is left untouched —
// staleness is preferred over emptiness. On success, SetRates happens-before
// PublishRatesUpdated; any panic during that step is recovered and reported
// as a failure, since the store may already be half-updated by then.
func (r *Refresher) Refresh(ctx context.Context) (count int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("unexpected error: %v", rec)
			metrics.RefreshCyclesTotal.WithLabelValues("failure").Inc()
		}
	}()

	fetchTimer := metrics.NewTimer()
	rates, fetchErr := r.upstream.FetchAll(ctx)
	metrics.UpstreamFetchDuration.Observe(fetchTimer.Seconds())

	if fetchErr != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("failure").Inc()
		metrics.RefreshCyclesTotal.WithLabelValues("failure").Inc()
		logger.Error().Err(fetchErr).Msg("refresh cycle failed: upstream fetch")
		return 0, fmt.Errorf("fetch upstream: %w", fetchErr)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("success").Inc()

	table := entity.RateTable(rates)
	if err := r.store.SetRates(ctx, table); err != nil {
		metrics.RefreshCyclesTotal.WithLabelValues("failure").Inc()
		logger.Error().Err(err).Msg("refresh cycle failed: store write")
		return 0, fmt.Errorf("set rates: %w", err)
	}

	if err := r.store.PublishRatesUpdated(ctx); err != nil {
		// SetRates already committed; the store is half-updated. Readers
		// recover on the next cycle or by reconnecting their subscription.
		metrics.RefreshCyclesTotal.WithLabelValues("failure").Inc()
		logger.Error().Err(err).Msg("refresh cycle: store updated but publish failed")
		return 0, fmt.Errorf("publish rates_updated: %w", err)
	}

	metrics.RefreshCyclesTotal.WithLabelValues("success").Inc()
	metrics.RefreshRatesCount.Set(float64(len(rates)))
	logger.Info().Int("count", len(rates)).Msg("refresh cycle completed")

	return len(rates), nil
}
