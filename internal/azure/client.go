// Package azure wraps the Azure Resource Manager compute APIs behind the
// narrow catalog and quota contracts the resolution engine consumes.
package azure

import (
	"context"
	"errors"
)

// ErrNotFound indicates a VM size is not offered in the queried region.
var ErrNotFound = errors.New("vm size not found in region")

// ErrInvalidRegion indicates the region name is not valid for the
// subscription. Callers treat this as a configuration error, distinct from
// a provider being unreachable.
var ErrInvalidRegion = errors.New("invalid region")

// VMSize describes one VM size offering in a region.
type VMSize struct {
	Name     string
	Cores    int
	MemoryMB int
}

// QuotaScope identifies which quota pool a snapshot describes.
type QuotaScope string

const (
	// ScopeSubscriptionCores is the region-wide total core pool.
	ScopeSubscriptionCores QuotaScope = "subscription-cores"

	// ScopeVMFamily is the pool shared by one VM family in a region.
	ScopeVMFamily QuotaScope = "vm-family"
)

// QuotaSnapshot is a point-in-time usage/limit pair for one quota pool.
//
// A zero or missing limit means the provider returned no usable quota data
// for the pool. That is a distinct "cannot judge" state, not available=0;
// callers must check Known before comparing against Available.
type QuotaSnapshot struct {
	Scope        QuotaScope
	Family       string
	CurrentValue int64
	Limit        int64
}

// Known reports whether the snapshot carries judgeable quota data.
func (q QuotaSnapshot) Known() bool {
	return q.Limit > 0
}

// Available returns the remaining capacity in the pool, or 0 when unknown.
func (q QuotaSnapshot) Available() int64 {
	if !q.Known() {
		return 0
	}
	return q.Limit - q.CurrentValue
}

// CatalogClient answers what VM sizes exist in a region and how big they are.
type CatalogClient interface {
	// SizeCores resolves a named VM size in a region. Returns ErrNotFound
	// when the size is not offered there.
	SizeCores(ctx context.Context, region, name string) (VMSize, error)

	// FamilyCandidates lists sizes whose name starts with prefix and whose
	// core count falls inside [minCores, maxCores], in catalog order.
	// An empty result is not an error.
	FamilyCandidates(ctx context.Context, region, prefix string, minCores, maxCores int) ([]VMSize, error)
}

// QuotaClient answers current usage and limits for core quota pools.
type QuotaClient interface {
	// SubscriptionCoreQuota returns the region-wide total core pool.
	SubscriptionCoreQuota(ctx context.Context, region string) (QuotaSnapshot, error)

	// FamilyQuota returns the pool for one VM family. An unknown family
	// yields a snapshot with Known() == false, not an error.
	FamilyQuota(ctx context.Context, region, family string) (QuotaSnapshot, error)
}

// Provider combines the full surface the resolve handler wires up.
type Provider interface {
	CatalogClient
	QuotaClient

	// ValidateRegion checks that the region name is valid for the
	// subscription before any per-candidate work starts.
	ValidateRegion(ctx context.Context, region string) error
}
