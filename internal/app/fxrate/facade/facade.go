// Package facade is the Rate Service Facade of spec.md §4.F: the thin
// contract the HTTP layer talks to. Every engine error collapses to one
// variant — distinguishing cold-cache from unknown-pair at the boundary
// would leak operational state to clients.
package facade

import (
	"errors"
	"fmt"

	"fxrateproxy/internal/app/fxrate/entity"
)

// ErrLookupFailed is the single error variant the facade exposes.
var ErrLookupFailed = errors.New("facade: lookup failed")

// Engine is the subset of the Derivation Engine the facade needs.
type Engine interface {
	Get(pair entity.Pair) (entity.Rate, error)
}

// Facade connects the HTTP layer to the Derivation Engine.
type Facade struct {
	engine Engine
}

// New builds a Facade over eng.
func New(eng Engine) *Facade {
	return &Facade{engine: eng}
}

// Get returns the rate for pair, or ErrLookupFailed wrapping the engine's
// underlying error for operator-visible logs.
func (f *Facade) Get(pair entity.Pair) (entity.Rate, error) {
	rate, err := f.engine.Get(pair)
	if err != nil {
		return entity.Rate{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	return rate, nil
}
