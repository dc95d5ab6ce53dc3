// Package store is the Shared Store Adapter of spec.md §4.B: a single-key
// JSON blob plus a fire-and-forget notification channel, backed by Redis.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fxrateproxy/internal/app/fxrate/entity"
	"fxrateproxy/pkg/metrics"
)

const (
	ratesKey            = "rates"
	ratesUpdatedChannel = "rates_updated"
)

// Store implements the Shared Store Adapter. GetRates/SetRates run over the
// command client; PublishRatesUpdated and SubscribeRatesUpdated each take a
// dedicated connection per SPEC_FULL.md §4.B — a subscribed Redis connection
// cannot also serve ordinary commands.
type Store struct {
	commandClient *redis.Client
	pubClient     *redis.Client
	subClient     *redis.Client
}

// New opens three logical connections against the same Redis URI: one for
// GET/SET commands, one dedicated to PUBLISH, one dedicated to SUBSCRIBE.
func New(uri string) (*Store, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse valkey uri: %w", err)
	}

	return &Store{
		commandClient: redis.NewClient(opts),
		pubClient:     redis.NewClient(opts),
		subClient:     redis.NewClient(opts),
	}, nil
}

// Close releases all three connections. Safe to call once, on shutdown.
func (s *Store) Close() error {
	var firstErr error
	for _, c := range []*redis.Client{s.commandClient, s.pubClient, s.subClient} {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetRates reads the `rates` key. A missing key or a value that fails to
// parse both surface as (nil, nil): the caller treats both as cold state,
// never as an error to propagate.
func (s *Store) GetRates(ctx context.Context) (entity.RateTable, error) {
	timer := metrics.NewStoreTimer(metrics.StoreOpGetRates)
	defer timer.ObserveDuration()

	data, err := s.commandClient.Get(ctx, ratesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		metrics.RecordStoreError(metrics.StoreOpGetRates)
		return nil, fmt.Errorf("get rates: %w", err)
	}

	var table entity.RateTable
	if err := table.UnmarshalJSON(data); err != nil {
		// Parse failure is cold state, not an adapter error: the contract
		// in spec.md §4.B requires this must not throw.
		return nil, nil
	}

	return table, nil
}

// SetRates overwrites the `rates` key with table, atomically from readers'
// perspective (a single key replacement). No TTL.
func (s *Store) SetRates(ctx context.Context, table entity.RateTable) error {
	timer := metrics.NewStoreTimer(metrics.StoreOpSetRates)
	defer timer.ObserveDuration()

	data, err := table.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal rate table: %w", err)
	}

	if err := s.commandClient.Set(ctx, ratesKey, data, 0).Err(); err != nil {
		metrics.RecordStoreError(metrics.StoreOpSetRates)
		return fmt.Errorf("set rates: %w", err)
	}
	return nil
}

// PublishRatesUpdated fires one notification on rates_updated. Non-blocking
// with respect to subscribers: a message with no live subscribers is lost,
// and the call never waits for delivery acknowledgement.
func (s *Store) PublishRatesUpdated(ctx context.Context) error {
	timer := metrics.NewStoreTimer(metrics.StoreOpPublish)
	defer timer.ObserveDuration()

	if err := s.pubClient.Publish(ctx, ratesUpdatedChannel, "1").Err(); err != nil {
		metrics.RecordStoreError(metrics.StoreOpPublish)
		return fmt.Errorf("publish rates_updated: %w", err)
	}
	return nil
}

// Subscription wraps a live subscribe connection. Restartable by the caller
// (call SubscribeRatesUpdated again) but the returned channel is single-use.
type Subscription struct {
	pubsub *redis.PubSub
	ch     <-chan *redis.Message
}

// SubscribeRatesUpdated opens a blocking subscription on the dedicated
// subscribe connection and returns an indefinite stream of notifications.
// Payloads are ignored; only the fact of a message matters.
func (s *Store) SubscribeRatesUpdated(ctx context.Context) *Subscription {
	pubsub := s.subClient.Subscribe(ctx, ratesUpdatedChannel)
	return &Subscription{pubsub: pubsub, ch: pubsub.Channel()}
}

// Notifications returns the unit-value stream. Each receive corresponds to
// one upstream PUBLISH; duplicates and lost messages are both tolerated by
// the caller (the Snapshot Cache re-reads the store on every signal).
func (sub *Subscription) Notifications() <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		for range sub.ch {
			out <- struct{}{}
		}
	}()
	return out
}

// Close releases the subscription without touching the underlying connection
// pool owned by the Store.
func (sub *Subscription) Close() error {
	return sub.pubsub.Close()
}

// Ping verifies the command connection. The API role's readiness probe does
// not call it; readiness reflects only the Snapshot Cache's first sync.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.commandClient.Ping(ctx).Err()
}
