package resolve

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skufit/skufit/internal/azure"
)

// DefaultPreferredSizes is the fixed preference order: general-purpose
// D-series across three generations, then burstable B-series, then legacy
// DS-series.
var DefaultPreferredSizes = []string{
	"Standard_D2s_v5",
	"Standard_D4s_v5",
	"Standard_D2s_v4",
	"Standard_D4s_v4",
	"Standard_D2s_v3",
	"Standard_D4s_v3",
	"Standard_B2ms",
	"Standard_B4ms",
	"Standard_DS2_v2",
	"Standard_DS3_v2",
}

const (
	// fallbackPrefix is the general-purpose line the broadened search
	// scans when no preferred size qualifies.
	fallbackPrefix = "Standard_D"

	// DefaultMaxFallbackCores caps fallback candidates to exclude
	// oversized, high-cost sizes.
	DefaultMaxFallbackCores = 16

	// DefaultWorkers bounds concurrent candidate evaluations so provider
	// rate limits are respected.
	DefaultWorkers = 4
)

// Options configures one resolution run.
type Options struct {
	Region      string
	Requirement ClusterRequirement

	// PreferredSizes overrides DefaultPreferredSizes when non-empty.
	PreferredSizes []string

	// MaxFallbackCores caps the fallback core window; 0 means the default.
	MaxFallbackCores int

	// Workers bounds evaluation concurrency; 0 means the default.
	Workers int
}

// Result is the complete outcome of one resolution run. It is a plain
// value: the engine keeps no state between runs and can be called
// concurrently.
type Result struct {
	Region      string
	Requirement ClusterRequirement

	// Preferred holds every preferred-list verdict in preference order.
	Preferred []Verdict

	// Qualifying holds the qualifying verdicts sorted ascending by core
	// count; ties keep their preference order. The first entry is the top
	// recommendation.
	Qualifying []Verdict

	// Fallback holds broadened-search verdicts in catalog order. Only
	// populated when no preferred size qualified. Fallback entries are
	// informational and not ranked by cost.
	Fallback     []Verdict
	FallbackUsed bool

	Tally Tally
}

// Recommendation returns the top qualifying verdict, if any. Fallback
// qualifiers count when the preferred list produced none.
func (r *Result) Recommendation() (Verdict, bool) {
	if len(r.Qualifying) > 0 {
		return r.Qualifying[0], true
	}
	for _, v := range r.Fallback {
		if v.Qualifies {
			return v, true
		}
	}
	return Verdict{}, false
}

// QualifyingNames returns up to limit ranked qualifying size names; a
// non-positive limit returns them all.
func (r *Result) QualifyingNames(limit int) []string {
	names := make([]string, 0, len(r.Qualifying))
	for _, v := range r.Qualifying {
		names = append(names, v.Size.Name)
	}
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}

// Searcher drives the evaluator across the preferred list and, when
// nothing qualifies, the broadened family search.
type Searcher struct {
	eval    *Evaluator
	catalog azure.CatalogClient
	log     *zap.SugaredLogger
}

// NewSearcher creates a searcher. A nil logger disables diagnostics.
func NewSearcher(catalog azure.CatalogClient, quotas azure.QuotaClient, log *zap.SugaredLogger) *Searcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Searcher{
		eval:    NewEvaluator(catalog, quotas, log),
		catalog: catalog,
		log:     log,
	}
}

// Run executes the two-phase search: the preferred list first, then, only
// if nothing qualified, the broadened D-series scan. The returned error is
// reserved for whole-run failures (context cancellation, fallback catalog
// listing); per-candidate provider failures surface as verdicts.
func (s *Searcher) Run(ctx context.Context, opts Options) (*Result, error) {
	preferred := opts.PreferredSizes
	if len(preferred) == 0 {
		preferred = DefaultPreferredSizes
	}
	maxCores := opts.MaxFallbackCores
	if maxCores <= 0 {
		maxCores = DefaultMaxFallbackCores
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	res := &Result{
		Region:      opts.Region,
		Requirement: opts.Requirement,
	}

	verdicts, err := s.evaluateAll(ctx, opts.Region, preferred, opts.Requirement, workers)
	if err != nil {
		return nil, err
	}
	res.Preferred = verdicts

	for _, v := range verdicts {
		res.Tally.add(v)
		if v.Qualifies {
			res.Qualifying = append(res.Qualifying, v)
		}
	}

	// Ascending core count is the cost-effectiveness proxy; stable sort
	// keeps preference order between equal sizes.
	sort.SliceStable(res.Qualifying, func(i, j int) bool {
		return res.Qualifying[i].Size.Cores < res.Qualifying[j].Size.Cores
	})

	if len(res.Qualifying) > 0 {
		return res, nil
	}

	// Phase 2: nothing qualified, broaden to the whole general-purpose
	// D line within the core window.
	res.FallbackUsed = true
	floor := 1
	if opts.Requirement.MinVCPUs.Enforced() {
		floor = ceilDiv(opts.Requirement.MinVCPUs.Total, opts.Requirement.NodeCount)
	}
	s.log.Infow("no preferred size qualified, broadening search",
		"region", opts.Region, "minCores", floor, "maxCores", maxCores)

	candidates, err := s.catalog.FamilyCandidates(ctx, opts.Region, fallbackPrefix, floor, maxCores)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(preferred))
	for _, name := range preferred {
		seen[name] = struct{}{}
	}
	fresh := make([]azure.VMSize, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.Name]; dup {
			continue
		}
		fresh = append(fresh, c)
	}

	res.Fallback, err = s.evaluateSizes(ctx, opts.Region, fresh, opts.Requirement, workers)
	if err != nil {
		return nil, err
	}
	for _, v := range res.Fallback {
		res.Tally.add(v)
	}
	return res, nil
}

// evaluateAll evaluates named candidates with bounded concurrency, keeping
// input order regardless of completion order.
func (s *Searcher) evaluateAll(ctx context.Context, region string, names []string, req ClusterRequirement, workers int) ([]Verdict, error) {
	verdicts := make([]Verdict, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = s.eval.Evaluate(gctx, region, name, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

// evaluateSizes is evaluateAll for already-resolved catalog entries.
func (s *Searcher) evaluateSizes(ctx context.Context, region string, sizes []azure.VMSize, req ClusterRequirement, workers int) ([]Verdict, error) {
	verdicts := make([]Verdict, len(sizes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, size := range sizes {
		i, size := i, size
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = s.eval.EvaluateSize(gctx, region, size, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

// ceilDiv returns ceil(a/b) for positive ints.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
