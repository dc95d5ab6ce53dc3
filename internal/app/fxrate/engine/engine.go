// Package engine is the Derivation Engine of spec.md §4.E: pure computation
// over a snapshot, no I/O of its own.
package engine

import (
	"errors"

	"fxrateproxy/internal/app/fxrate/entity"
	"fxrateproxy/pkg/metrics"
)

// ErrServiceUnavailable signals the snapshot has not yet been populated.
var ErrServiceUnavailable = errors.New("engine: service unavailable")

// ErrPairNotFound signals the snapshot is populated but the pair cannot be
// derived from it.
var ErrPairNotFound = errors.New("engine: pair not found")

const usdBase = entity.Currency("USD")

// SnapshotReader is the subset of the Snapshot Cache the engine needs.
type SnapshotReader interface {
	GetRates() entity.RateTable
}

// Engine computes the rate for any ordered pair from the current snapshot.
type Engine struct {
	snapshot SnapshotReader
}

// New builds an Engine over the given snapshot source.
func New(snapshot SnapshotReader) *Engine {
	return &Engine{snapshot: snapshot}
}

// Get implements the algorithm of spec.md §4.E steps 1-6.
func (e *Engine) Get(pair entity.Pair) (entity.Rate, error) {
	if pair.Same() {
		metrics.DerivationLookupsTotal.WithLabelValues("identity").Inc()
		return entity.IdentityRate(pair.From), nil
	}

	table := e.snapshot.GetRates()
	if table == nil {
		metrics.DerivationLookupsTotal.WithLabelValues("service_unavailable").Inc()
		return entity.Rate{}, ErrServiceUnavailable
	}

	index := indexByPair(table)

	if r, ok := index[pair]; ok {
		metrics.DerivationLookupsTotal.WithLabelValues("direct").Inc()
		return r, nil
	}

	fromUSD, okFrom := index[entity.Pair{From: usdBase, To: pair.From}]
	toUSD, okTo := index[entity.Pair{From: usdBase, To: pair.To}]
	if okFrom && okTo && !fromUSD.Price.IsZero() {
		price := toUSD.Price.Div(fromUSD.Price)
		ts := fromUSD.Timestamp
		if toUSD.Timestamp.After(ts) {
			ts = toUSD.Timestamp
		}
		metrics.DerivationLookupsTotal.WithLabelValues("cross").Inc()
		return entity.Rate{Pair: pair, Price: price, Timestamp: ts}, nil
	}

	metrics.DerivationLookupsTotal.WithLabelValues("pair_not_found").Inc()
	return entity.Rate{}, ErrPairNotFound
}

func indexByPair(table entity.RateTable) map[entity.Pair]entity.Rate {
	idx := make(map[entity.Pair]entity.Rate, len(table))
	for _, r := range table {
		idx[r.Pair] = r
	}
	return idx
}
