package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListCompanies(ctx context.Context) ([]*Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Company), args.Error(1)
}

func (m *mockStore) GetCompany(ctx context.Context, id int64) (*Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Company), args.Error(1)
}

func (m *mockStore) GetIndicators(ctx context.Context, companyID int64) (*Indicators, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Indicators), args.Error(1)
}

func (m *mockStore) GetProfiles(ctx context.Context, ids []int64) ([]*Profile, error) {
	return assembleProfiles(ctx, m, ids)
}

func (m *mockStore) Close() error { return nil }

func ptr[T any](v T) *T { return &v }

func TestIndicatorValuesOmitsNulls(t *testing.T) {
	ind := &Indicators{
		Revenue:              ptr(100.0),
		PriceToEarningsRatio: ptr(12.5),
		EVToEBITDA:           ptr(8.0),
		Employees:            ptr(int64(4200)),
	}
	got := ind.Values()
	assert.Equal(t, map[string]float64{
		"revenue":                 100,
		"price_to_earnings_ratio": 12.5,
		"EV_to_EBITDA":            8,
		"employees":               4200,
	}, got)
	_, ok := got["profit"]
	assert.False(t, ok, "nil profit must not appear as zero")
}

func TestCachedStoreReadsThrough(t *testing.T) {
	ctx := context.Background()
	next := &mockStore{}
	acme := &Company{ID: 1, Name: "Acme", Symbol: "ACME"}
	next.On("GetCompany", mock.Anything, int64(1)).Return(acme, nil).Once()
	next.On("ListCompanies", mock.Anything).Return([]*Company{acme}, nil).Once()

	s := NewCachedStore(next, time.Minute, time.Minute)

	for i := 0; i < 3; i++ {
		c, err := s.GetCompany(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Acme", c.Name)

		all, err := s.ListCompanies(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	}
	next.AssertExpectations(t)
}

func TestCachedStoreDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	next := &mockStore{}
	next.On("GetCompany", mock.Anything, int64(7)).Return(nil, ErrNotFound).Twice()

	s := NewCachedStore(next, time.Minute, time.Minute)
	for i := 0; i < 2; i++ {
		_, err := s.GetCompany(ctx, 7)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	next.AssertExpectations(t)
}

func TestCachedStoreFlush(t *testing.T) {
	ctx := context.Background()
	next := &mockStore{}
	next.On("GetIndicators", mock.Anything, int64(2)).Return(&Indicators{CompanyID: 2, ROE: ptr(0.2)}, nil).Twice()

	s := NewCachedStore(next, time.Minute, time.Minute)
	_, err := s.GetIndicators(ctx, 2)
	require.NoError(t, err)
	s.Flush()
	_, err = s.GetIndicators(ctx, 2)
	require.NoError(t, err)
	next.AssertExpectations(t)
}

func TestGetProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves order and tolerates missing indicators", func(t *testing.T) {
		next := &mockStore{}
		next.On("GetCompany", mock.Anything, int64(2)).Return(&Company{ID: 2, Name: "Beta"}, nil)
		next.On("GetCompany", mock.Anything, int64(1)).Return(&Company{ID: 1, Name: "Alpha"}, nil)
		next.On("GetIndicators", mock.Anything, int64(2)).Return(&Indicators{Revenue: ptr(5.0)}, nil)
		next.On("GetIndicators", mock.Anything, int64(1)).Return(nil, ErrNotFound)

		profiles, err := NewCachedStore(next, time.Minute, time.Minute).GetProfiles(ctx, []int64{2, 1})
		require.NoError(t, err)
		require.Len(t, profiles, 2)
		assert.Equal(t, "Beta", profiles[0].Company.Name)
		assert.Equal(t, map[string]float64{"revenue": 5}, profiles[0].Values)
		assert.Equal(t, "Alpha", profiles[1].Company.Name)
		assert.Empty(t, profiles[1].Values)
	})

	t.Run("unknown company", func(t *testing.T) {
		next := &mockStore{}
		next.On("GetCompany", mock.Anything, int64(9)).Return(nil, ErrNotFound)

		_, err := next.GetProfiles(ctx, []int64{9})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("indicator failure propagates", func(t *testing.T) {
		boom := errors.New("connection reset")
		next := &mockStore{}
		next.On("GetCompany", mock.Anything, int64(3)).Return(&Company{ID: 3}, nil)
		next.On("GetIndicators", mock.Anything, int64(3)).Return(nil, boom)

		_, err := next.GetProfiles(ctx, []int64{3})
		assert.ErrorIs(t, err, boom)
	})
}
