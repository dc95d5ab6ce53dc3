package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxrateproxy/internal/app/fxrate/entity"
)

type fakeSnapshot struct {
	table entity.RateTable
}

func (f fakeSnapshot) GetRates() entity.RateTable { return f.table }

func TestGet_SameCurrency_IdentityRegardlessOfSnapshot(t *testing.T) {
	cases := []entity.RateTable{nil, {{Pair: entity.Pair{From: "USD", To: "EUR"}, Price: decimal.NewFromInt(2), Timestamp: time.Now()}}}
	for _, snap := range cases {
		e := New(fakeSnapshot{table: snap})
		r, err := e.Get(entity.Pair{From: "GBP", To: "GBP"})
		require.NoError(t, err)
		assert.True(t, r.Price.Equal(decimal.NewFromInt(1)))
	}
}

func TestGet_DirectHit(t *testing.T) {
	price := decimal.RequireFromString("0.85")
	ts := time.Now()
	table := entity.RateTable{{Pair: entity.Pair{From: "USD", To: "EUR"}, Price: price, Timestamp: ts}}

	e := New(fakeSnapshot{table: table})
	r, err := e.Get(entity.Pair{From: "USD", To: "EUR"})
	require.NoError(t, err)
	assert.True(t, r.Price.Equal(price))
}

func TestGet_CrossRateViaUSD(t *testing.T) {
	t0 := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	table := entity.RateTable{
		{Pair: entity.Pair{From: "USD", To: "EUR"}, Price: decimal.RequireFromString("0.85"), Timestamp: t0},
		{Pair: entity.Pair{From: "USD", To: "JPY"}, Price: decimal.RequireFromString("110.5"), Timestamp: t1},
	}

	e := New(fakeSnapshot{table: table})
	r, err := e.Get(entity.Pair{From: "EUR", To: "JPY"})
	require.NoError(t, err)

	expected := decimal.RequireFromString("110.5").Div(decimal.RequireFromString("0.85"))
	assert.True(t, r.Price.Equal(expected))
	assert.True(t, r.Timestamp.Equal(t1), "cross-rate timestamp must be the later of the two sources")
}

func TestGet_ColdCache_ServiceUnavailable(t *testing.T) {
	e := New(fakeSnapshot{table: nil})
	_, err := e.Get(entity.Pair{From: "USD", To: "EUR"})
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestGet_PairNotFound(t *testing.T) {
	table := entity.RateTable{{Pair: entity.Pair{From: "USD", To: "EUR"}, Price: decimal.NewFromInt(1), Timestamp: time.Now()}}
	e := New(fakeSnapshot{table: table})
	_, err := e.Get(entity.Pair{From: "EUR", To: "JPY"})
	assert.ErrorIs(t, err, ErrPairNotFound)
}

func TestGet_DivisionByZeroGuard(t *testing.T) {
	table := entity.RateTable{
		{Pair: entity.Pair{From: "USD", To: "EUR"}, Price: decimal.NewFromInt(0), Timestamp: time.Now()},
		{Pair: entity.Pair{From: "USD", To: "JPY"}, Price: decimal.NewFromInt(110), Timestamp: time.Now()},
	}
	e := New(fakeSnapshot{table: table})
	_, err := e.Get(entity.Pair{From: "EUR", To: "JPY"})
	assert.ErrorIs(t, err, ErrPairNotFound)
}

func TestGet_NegativePriceIsValidData(t *testing.T) {
	table := entity.RateTable{{Pair: entity.Pair{From: "USD", To: "EUR"}, Price: decimal.NewFromInt(-1), Timestamp: time.Now()}}
	e := New(fakeSnapshot{table: table})
	r, err := e.Get(entity.Pair{From: "USD", To: "EUR"})
	require.NoError(t, err)
	assert.True(t, r.Price.Equal(decimal.NewFromInt(-1)))
}
