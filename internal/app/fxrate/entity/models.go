package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Pair is an ordered currency pair. (A, B) and (B, A) are distinct.
type Pair struct {
	From Currency `json:"from"`
	To   Currency `json:"to"`
}

// Same reports whether the pair is a same-currency identity pair.
func (p Pair) Same() bool {
	return p.From == p.To
}

func (p Pair) String() string {
	return string(p.From) + string(p.To)
}

// Rate is an immutable (Pair, Price, Timestamp) triple. Updates produce a new
// value; nothing in this package ever mutates a Rate in place.
type Rate struct {
	Pair      Pair
	Price     decimal.Decimal
	Timestamp time.Time
}

// RateTable is the canonical ordered sequence of Rates stored under the shared
// store's `rates` key.
type RateTable []Rate

// rateWire is the JSON element shape exchanged with the shared store:
//
//	{"pair":{"from":"USD","to":"EUR"},"price":"0.85","timestamp":"2026-02-10T00:00:00Z"}
//
// Price is serialized as a JSON string to preserve decimal precision through
// store/load round-trips; an implementation that marshals decimal.Decimal as a
// bare JSON number risks losing trailing zero significance on some decoders, so
// this wire type pins it to a string.
type rateWire struct {
	Pair      Pair   `json:"pair"`
	Price     string `json:"price"`
	Timestamp string `json:"timestamp"`
}

// MarshalJSON encodes the table as specified in SPEC_FULL.md §6 / spec.md §4.B.
func (t RateTable) MarshalJSON() ([]byte, error) {
	wire := make([]rateWire, len(t))
	for i, r := range t {
		wire[i] = rateWire{
			Pair:      r.Pair,
			Price:     r.Price.String(),
			Timestamp: r.Timestamp.Format(time.RFC3339Nano),
		}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the table, rejecting any element whose currency codes
// are not in the whitelist. A single bad element fails the whole parse: the
// Shared Store Adapter contract treats that as a cold GetRates (returns no
// table), never a partial one.
func (t *RateTable) UnmarshalJSON(data []byte) error {
	var wire []rateWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode rate table: %w", err)
	}

	table := make(RateTable, 0, len(wire))
	for _, w := range wire {
		if !w.Pair.From.IsValid() || !w.Pair.To.IsValid() {
			return fmt.Errorf("decode rate table: unknown currency in pair %s/%s", w.Pair.From, w.Pair.To)
		}

		price, err := decimal.NewFromString(w.Price)
		if err != nil {
			return fmt.Errorf("decode rate table: invalid price %q: %w", w.Price, err)
		}

		ts, err := time.Parse(time.RFC3339Nano, w.Timestamp)
		if err != nil {
			return fmt.Errorf("decode rate table: invalid timestamp %q: %w", w.Timestamp, err)
		}

		table = append(table, Rate{Pair: w.Pair, Price: price, Timestamp: ts})
	}

	*t = table
	return nil
}

// IdentityRate synthesizes the implicit rate for a same-currency pair: price
// 1.0 at the current instant, never stored.
func IdentityRate(c Currency) Rate {
	return Rate{
		Pair:      Pair{From: c, To: c},
		Price:     decimal.NewFromInt(1),
		Timestamp: time.Now(),
	}
}
