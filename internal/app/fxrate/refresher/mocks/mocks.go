// Package mocks holds hand-written testify mocks for the refresher package's
// collaborator interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fxrateproxy/internal/app/fxrate/entity"
)

// MockUpstream mocks refresher.Upstream.
type MockUpstream struct {
	mock.Mock
}

func (m *MockUpstream) FetchAll(ctx context.Context) ([]entity.Rate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Rate), args.Error(1)
}

// MockStore mocks refresher.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SetRates(ctx context.Context, table entity.RateTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockStore) PublishRatesUpdated(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
