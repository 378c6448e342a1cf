package azure

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v6"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// subscriptionCoresUsageName is the usage entry for the region-wide core
// pool ("Total Regional vCPUs" in the portal).
const subscriptionCoresUsageName = "cores"

// RealClient implements Provider using the Azure Resource Manager APIs.
//
// Catalog and usage listings are fetched at most once per region for the
// lifetime of the client. The client lives for a single resolution run, so
// every run still sees fresh provider data.
type RealClient struct {
	sizes         *armcompute.VirtualMachineSizesClient
	usage         *armcompute.UsageClient
	subscriptions *armsubscriptions.Client

	subscriptionID string
	retryAttempts  uint
	retryDelay     time.Duration
	log            *zap.SugaredLogger

	mu        sync.Mutex
	sizeCache map[string][]VMSize
	usageByRg map[string]map[string]QuotaSnapshot
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithLogger sets the diagnostic logger.
func WithLogger(log *zap.SugaredLogger) ClientOption {
	return func(c *RealClient) {
		c.log = log
	}
}

// WithRetryPolicy overrides the retry attempts and delay for throttled or
// failing provider calls.
func WithRetryPolicy(attempts uint, delay time.Duration) ClientOption {
	return func(c *RealClient) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// NewRealClient creates a provider client for one subscription.
func NewRealClient(subscriptionID string, cred azcore.TokenCredential, opts ...ClientOption) (*RealClient, error) {
	armOpts := &arm.ClientOptions{}

	sizes, err := armcompute.NewVirtualMachineSizesClient(subscriptionID, cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create vm sizes client: %w", err)
	}
	usage, err := armcompute.NewUsageClient(subscriptionID, cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create usage client: %w", err)
	}
	subs, err := armsubscriptions.NewClient(cred, armOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriptions client: %w", err)
	}

	c := &RealClient{
		sizes:          sizes,
		usage:          usage,
		subscriptions:  subs,
		subscriptionID: subscriptionID,
		retryAttempts:  3,
		retryDelay:     2 * time.Second,
		log:            zap.NewNop().Sugar(),
		sizeCache:      make(map[string][]VMSize),
		usageByRg:      make(map[string]map[string]QuotaSnapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SizeCores resolves a named VM size in a region.
func (c *RealClient) SizeCores(ctx context.Context, region, name string) (VMSize, error) {
	sizes, err := c.regionSizes(ctx, region)
	if err != nil {
		return VMSize{}, err
	}
	for _, s := range sizes {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return VMSize{}, fmt.Errorf("%q in %q: %w", name, region, ErrNotFound)
}

// FamilyCandidates lists sizes matching a name prefix and core window.
func (c *RealClient) FamilyCandidates(ctx context.Context, region, prefix string, minCores, maxCores int) ([]VMSize, error) {
	sizes, err := c.regionSizes(ctx, region)
	if err != nil {
		return nil, err
	}
	return filterSizes(sizes, prefix, minCores, maxCores), nil
}

// SubscriptionCoreQuota returns the region-wide total core pool.
func (c *RealClient) SubscriptionCoreQuota(ctx context.Context, region string) (QuotaSnapshot, error) {
	usages, err := c.regionUsage(ctx, region)
	if err != nil {
		return QuotaSnapshot{}, err
	}
	snap := usages[subscriptionCoresUsageName]
	snap.Scope = ScopeSubscriptionCores
	snap.Family = ""
	return snap, nil
}

// FamilyQuota returns the core pool for one VM family. A family with no
// usage entry yields an unknown snapshot, not an error.
func (c *RealClient) FamilyQuota(ctx context.Context, region, family string) (QuotaSnapshot, error) {
	usages, err := c.regionUsage(ctx, region)
	if err != nil {
		return QuotaSnapshot{}, err
	}
	snap := usages[strings.ToLower(family)]
	snap.Scope = ScopeVMFamily
	snap.Family = family
	return snap, nil
}

// ValidateRegion checks the region name against the subscription's
// location list.
func (c *RealClient) ValidateRegion(ctx context.Context, region string) error {
	var names []string
	err := c.withRetry(ctx, "list locations", func() error {
		names = names[:0]
		pager := c.subscriptions.NewListLocationsPager(c.subscriptionID, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return err
			}
			for _, loc := range page.Value {
				if loc.Name != nil {
					names = append(names, *loc.Name)
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list subscription locations: %w", err)
	}

	for _, n := range names {
		if strings.EqualFold(n, region) {
			return nil
		}
	}
	return fmt.Errorf("region %q is not valid for subscription %s: %w", region, c.subscriptionID, ErrInvalidRegion)
}

// regionSizes drains the VM size pager for a region, once per client.
func (c *RealClient) regionSizes(ctx context.Context, region string) ([]VMSize, error) {
	c.mu.Lock()
	cached, ok := c.sizeCache[region]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	var sizes []VMSize
	err := c.withRetry(ctx, "list vm sizes", func() error {
		sizes = sizes[:0]
		pager := c.sizes.NewListPager(region, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return err
			}
			for _, v := range page.Value {
				if v.Name == nil || v.NumberOfCores == nil {
					continue
				}
				s := VMSize{
					Name:  *v.Name,
					Cores: int(*v.NumberOfCores),
				}
				if v.MemoryInMB != nil {
					s.MemoryMB = int(*v.MemoryInMB)
				}
				sizes = append(sizes, s)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list vm sizes in %s: %w", region, err)
	}

	c.log.Debugw("fetched vm size catalog", "region", region, "sizes", len(sizes))

	c.mu.Lock()
	c.sizeCache[region] = sizes
	c.mu.Unlock()
	return sizes, nil
}

// regionUsage drains the compute usage pager for a region, once per client.
// Keys are lower-cased usage names so family lookups are case-insensitive.
func (c *RealClient) regionUsage(ctx context.Context, region string) (map[string]QuotaSnapshot, error) {
	c.mu.Lock()
	cached, ok := c.usageByRg[region]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	usages := make(map[string]QuotaSnapshot)
	err := c.withRetry(ctx, "list compute usage", func() error {
		clear(usages)
		pager := c.usage.NewListPager(region, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return err
			}
			for _, u := range page.Value {
				if u.Name == nil || u.Name.Value == nil {
					continue
				}
				snap := QuotaSnapshot{}
				if u.CurrentValue != nil {
					snap.CurrentValue = int64(*u.CurrentValue)
				}
				if u.Limit != nil {
					snap.Limit = *u.Limit
				}
				usages[strings.ToLower(*u.Name.Value)] = snap
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list compute usage in %s: %w", region, err)
	}

	c.log.Debugw("fetched compute usage", "region", region, "entries", len(usages))

	c.mu.Lock()
	c.usageByRg[region] = usages
	c.mu.Unlock()
	return usages, nil
}

// withRetry repeats transient provider failures with a fixed delay.
func (c *RealClient) withRetry(ctx context.Context, op string, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warnw("retrying provider call", "op", op, "attempt", n+1, "error", err)
		}),
	)
}

// filterSizes applies the prefix and inclusive core-count window.
func filterSizes(sizes []VMSize, prefix string, minCores, maxCores int) []VMSize {
	out := make([]VMSize, 0, len(sizes))
	for _, s := range sizes {
		if !strings.HasPrefix(s.Name, prefix) {
			continue
		}
		if s.Cores < minCores || s.Cores > maxCores {
			continue
		}
		out = append(out, s)
	}
	return out
}
