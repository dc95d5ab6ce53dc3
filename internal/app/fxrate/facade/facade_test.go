package facade

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxrateproxy/internal/app/fxrate/entity"
)

type fakeEngine struct {
	rate entity.Rate
	err  error
}

func (f fakeEngine) Get(pair entity.Pair) (entity.Rate, error) { return f.rate, f.err }

func TestFacade_Get_Success(t *testing.T) {
	want := entity.Rate{Pair: entity.Pair{From: "USD", To: "EUR"}, Price: decimal.NewFromFloat(0.85), Timestamp: time.Now()}
	f := New(fakeEngine{rate: want})

	got, err := f.Get(entity.Pair{From: "USD", To: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFacade_Get_CollapsesAnyEngineErrorToLookupFailed(t *testing.T) {
	f := New(fakeEngine{err: errors.New("anything")})

	_, err := f.Get(entity.Pair{From: "USD", To: "EUR"})
	assert.ErrorIs(t, err, ErrLookupFailed)
}
