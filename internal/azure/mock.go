package azure

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockProvider is a scriptable in-memory Provider for tests.
//
// By default it answers from the Regions map; individual calls can be
// overridden through the *Func fields. Call counters let tests assert that
// short-circuit paths skip quota lookups.
type MockProvider struct {
	// Regions maps a region name to the sizes offered there.
	Regions map[string][]VMSize

	// SubscriptionQuotas maps region to the region-wide core pool.
	SubscriptionQuotas map[string]QuotaSnapshot

	// FamilyQuotas maps "region/family" to a family pool.
	FamilyQuotas map[string]QuotaSnapshot

	SizeCoresFunc             func(ctx context.Context, region, name string) (VMSize, error)
	FamilyCandidatesFunc      func(ctx context.Context, region, prefix string, minCores, maxCores int) ([]VMSize, error)
	SubscriptionCoreQuotaFunc func(ctx context.Context, region string) (QuotaSnapshot, error)
	FamilyQuotaFunc           func(ctx context.Context, region, family string) (QuotaSnapshot, error)
	ValidateRegionFunc        func(ctx context.Context, region string) error

	// mu guards the call counters; the search engine drives the mock from
	// several goroutines at once.
	mu                     sync.Mutex
	SizeCoresCalls         int
	SubscriptionQuotaCalls int
	FamilyQuotaCalls       int
}

func (m *MockProvider) count(counter *int) {
	m.mu.Lock()
	*counter++
	m.mu.Unlock()
}

func (m *MockProvider) SizeCores(ctx context.Context, region, name string) (VMSize, error) {
	m.count(&m.SizeCoresCalls)
	if m.SizeCoresFunc != nil {
		return m.SizeCoresFunc(ctx, region, name)
	}
	for _, s := range m.Regions[region] {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return VMSize{}, fmt.Errorf("%q in %q: %w", name, region, ErrNotFound)
}

func (m *MockProvider) FamilyCandidates(ctx context.Context, region, prefix string, minCores, maxCores int) ([]VMSize, error) {
	if m.FamilyCandidatesFunc != nil {
		return m.FamilyCandidatesFunc(ctx, region, prefix, minCores, maxCores)
	}
	return filterSizes(m.Regions[region], prefix, minCores, maxCores), nil
}

func (m *MockProvider) SubscriptionCoreQuota(ctx context.Context, region string) (QuotaSnapshot, error) {
	m.count(&m.SubscriptionQuotaCalls)
	if m.SubscriptionCoreQuotaFunc != nil {
		return m.SubscriptionCoreQuotaFunc(ctx, region)
	}
	snap := m.SubscriptionQuotas[region]
	snap.Scope = ScopeSubscriptionCores
	return snap, nil
}

func (m *MockProvider) FamilyQuota(ctx context.Context, region, family string) (QuotaSnapshot, error) {
	m.count(&m.FamilyQuotaCalls)
	if m.FamilyQuotaFunc != nil {
		return m.FamilyQuotaFunc(ctx, region, family)
	}
	snap := m.FamilyQuotas[region+"/"+family]
	snap.Scope = ScopeVMFamily
	snap.Family = family
	return snap, nil
}

func (m *MockProvider) ValidateRegion(ctx context.Context, region string) error {
	if m.ValidateRegionFunc != nil {
		return m.ValidateRegionFunc(ctx, region)
	}
	if _, ok := m.Regions[region]; !ok {
		return fmt.Errorf("region %q: %w", region, ErrInvalidRegion)
	}
	return nil
}
