// Package handlers implements the behavior behind the skufit commands.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"go.uber.org/zap"

	"github.com/skufit/skufit/internal/azure"
	"github.com/skufit/skufit/internal/config"
	"github.com/skufit/skufit/internal/logging"
	"github.com/skufit/skufit/internal/resolve"
)

// UsageError marks configuration mistakes (missing region, bad numeric
// arguments) so main can exit with a distinct code.
type UsageError struct {
	err error
}

func (e *UsageError) Error() string { return e.err.Error() }
func (e *UsageError) Unwrap() error { return e.err }

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{err: err}
}

// ResolveOptions carries the resolve command's flag values. Zero values
// mean "not set on the command line" and defer to env/file/defaults.
type ResolveOptions struct {
	ConfigPath   string
	Region       string
	Subscription string

	Nodes       int
	MinVCPUs    int
	MinVCPUsSet bool

	Limit            int
	MaxFallbackCores int

	Quiet bool
}

// Test injection points.
var (
	newProvider = realProvider
	stdout      io.Writer = os.Stdout
)

// realProvider builds the ARM-backed provider with the default Azure
// credential chain (env, workload identity, managed identity, CLI).
func realProvider(cfg *config.Config, log *zap.SugaredLogger) (azure.Provider, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build azure credential: %w", err)
	}
	return azure.NewRealClient(cfg.SubscriptionID, cred, azure.WithLogger(log))
}

// Resolve runs the full resolution: merge configuration, validate the
// region, drive the two-phase search and print the result in the selected
// output mode. A completed evaluation returns nil even when no size
// qualifies.
func Resolve(ctx context.Context, opts *ResolveOptions) error {
	cfg, err := loadResolveConfig(opts)
	if err != nil {
		return usageError(err)
	}

	log, err := logging.New(cfg.LogLevel, opts.Quiet)
	if err != nil {
		return usageError(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	provider, err := newProvider(cfg, log)
	if err != nil {
		return err
	}

	if err := provider.ValidateRegion(ctx, cfg.Region); err != nil {
		if errors.Is(err, azure.ErrInvalidRegion) {
			return usageError(err)
		}
		return fmt.Errorf("failed to validate region %s: %w", cfg.Region, err)
	}

	req := resolve.ClusterRequirement{
		NodeCount: cfg.NodeCount,
		MinVCPUs:  resolve.BaselineMinimum(cfg.NodeCount),
	}
	if cfg.MinVCPUsSet {
		req.MinVCPUs = resolve.UserMinimum(cfg.MinVCPUs)
	}

	log.Infow("resolving vm sizes",
		"region", cfg.Region,
		"nodes", cfg.NodeCount,
		"minVCPUs", req.MinVCPUs.Total,
		"minEnforced", req.MinVCPUs.Enforced(),
	)

	searcher := resolve.NewSearcher(provider, provider, log)
	result, err := searcher.Run(ctx, resolve.Options{
		Region:           cfg.Region,
		Requirement:      req,
		PreferredSizes:   cfg.PreferredSizes,
		MaxFallbackCores: cfg.MaxFallbackCores,
		Workers:          cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if opts.Quiet {
		for _, name := range result.QualifyingNames(cfg.Limit) {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	fmt.Fprint(stdout, renderResolveReport(result, cfg.Limit))
	return nil
}

// loadResolveConfig merges defaults, file, environment and flags.
func loadResolveConfig(opts *ResolveOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.Region != "" {
		cfg.Region = opts.Region
	}
	if opts.Subscription != "" {
		cfg.SubscriptionID = opts.Subscription
	}
	if opts.Nodes > 0 {
		cfg.NodeCount = opts.Nodes
	}
	if opts.MinVCPUsSet {
		cfg.MinVCPUs = opts.MinVCPUs
		cfg.MinVCPUsSet = true
	}
	if opts.Limit > 0 {
		cfg.Limit = opts.Limit
	}
	if opts.MaxFallbackCores > 0 {
		cfg.MaxFallbackCores = opts.MaxFallbackCores
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
