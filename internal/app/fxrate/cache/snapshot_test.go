package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxrateproxy/internal/app/fxrate/entity"
)

type fakeStore struct {
	tables  []fakeResult
	callIdx atomic.Int32
}

type fakeResult struct {
	table entity.RateTable
	err   error
}

func (f *fakeStore) GetRates(ctx context.Context) (entity.RateTable, error) {
	i := f.callIdx.Add(1) - 1
	if int(i) >= len(f.tables) {
		i = int32(len(f.tables) - 1)
	}
	r := f.tables[i]
	return r.table, r.err
}

func sampleTable() entity.RateTable {
	return entity.RateTable{
		{Pair: entity.Pair{From: "USD", To: "EUR"}, Price: decimal.RequireFromString("0.85"), Timestamp: time.Now()},
	}
}

func TestCache_GetRates_NilBeforeFirstSync(t *testing.T) {
	c := New()
	assert.Nil(t, c.GetRates())
	assert.False(t, c.Ready())
}

func TestCache_UpdateRates_ReplacesAtomically(t *testing.T) {
	c := New()
	c.UpdateRates(sampleTable())
	assert.True(t, c.Ready())
	assert.Len(t, c.GetRates(), 1)
}

func TestSyncJob_InitialSyncPopulatesCache(t *testing.T) {
	store := &fakeStore{tables: []fakeResult{{table: sampleTable()}}}
	trigger := make(chan struct{})
	c, job := Make(store, trigger)

	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()

	go job.Run(ctx)
	<-ctx.Done()

	require.NotNil(t, c.GetRates())
	assert.Len(t, c.GetRates(), 1)
}

func TestSyncJob_NilTableKeepsExistingSnapshot(t *testing.T) {
	store := &fakeStore{tables: []fakeResult{{table: sampleTable()}, {table: nil}}}
	trigger := make(chan struct{}, 1)
	c, job := Make(store, trigger)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	go job.Run(ctx)
	time.Sleep(20 * time.Millisecond) // let initial sync land
	firstSnapshot := c.GetRates()
	require.NotNil(t, firstSnapshot)

	trigger <- struct{}{}
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, firstSnapshot, c.GetRates(), "a nil read must not overwrite the existing snapshot")
}

func TestSyncJob_ErrorIsSwallowed(t *testing.T) {
	store := &fakeStore{tables: []fakeResult{{err: errors.New("boom")}, {table: sampleTable()}}}
	trigger := make(chan struct{}, 1)
	c, job := Make(store, trigger)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	go job.Run(ctx)
	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, c.GetRates(), "initial sync errored, cache stays empty")

	trigger <- struct{}{}
	time.Sleep(20 * time.Millisecond)
	assert.NotNil(t, c.GetRates(), "job must keep consuming after a swallowed error")
}

func TestSyncJob_DuplicateNotificationsAreIdempotent(t *testing.T) {
	table := sampleTable()
	store := &fakeStore{tables: []fakeResult{{table: table}, {table: table}, {table: table}}}
	trigger := make(chan struct{}, 2)
	c, job := Make(store, trigger)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	go job.Run(ctx)
	time.Sleep(10 * time.Millisecond)
	trigger <- struct{}{}
	trigger <- struct{}{}
	time.Sleep(30 * time.Millisecond)

	assert.Len(t, c.GetRates(), 1)
}
