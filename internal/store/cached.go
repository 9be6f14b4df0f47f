package store

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedStore is a read-through TTL cache in front of another Store. Company
// data changes at ingestion time only, so short staleness is acceptable.
type CachedStore struct {
	next  Store
	cache *cache.Cache
}

func NewCachedStore(next Store, ttl, cleanup time.Duration) *CachedStore {
	return &CachedStore{next: next, cache: cache.New(ttl, cleanup)}
}

const companiesKey = "companies"

func companyKey(id int64) string    { return fmt.Sprintf("company:%d", id) }
func indicatorsKey(id int64) string { return fmt.Sprintf("indicators:%d", id) }

func (s *CachedStore) ListCompanies(ctx context.Context) ([]*Company, error) {
	if v, ok := s.cache.Get(companiesKey); ok {
		return v.([]*Company), nil
	}
	companies, err := s.next.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(companiesKey, companies, cache.DefaultExpiration)
	return companies, nil
}

func (s *CachedStore) GetCompany(ctx context.Context, id int64) (*Company, error) {
	if v, ok := s.cache.Get(companyKey(id)); ok {
		return v.(*Company), nil
	}
	c, err := s.next.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(companyKey(id), c, cache.DefaultExpiration)
	return c, nil
}

func (s *CachedStore) GetIndicators(ctx context.Context, companyID int64) (*Indicators, error) {
	if v, ok := s.cache.Get(indicatorsKey(companyID)); ok {
		return v.(*Indicators), nil
	}
	ind, err := s.next.GetIndicators(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(indicatorsKey(companyID), ind, cache.DefaultExpiration)
	return ind, nil
}

// GetProfiles assembles profiles from the cached per-company lookups.
func (s *CachedStore) GetProfiles(ctx context.Context, ids []int64) ([]*Profile, error) {
	return assembleProfiles(ctx, s, ids)
}

// Flush drops every cached entry.
func (s *CachedStore) Flush() {
	s.cache.Flush()
}

func (s *CachedStore) Close() error {
	s.cache.Flush()
	return s.next.Close()
}
