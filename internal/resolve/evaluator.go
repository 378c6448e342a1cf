package resolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skufit/skufit/internal/azure"
)

// Evaluator qualifies a single candidate size against the catalog, the
// cluster requirement and both quota dimensions. It holds no mutable state
// and is safe for concurrent use.
type Evaluator struct {
	catalog azure.CatalogClient
	quotas  azure.QuotaClient
	log     *zap.SugaredLogger
}

// NewEvaluator creates an evaluator. A nil logger disables diagnostics.
func NewEvaluator(catalog azure.CatalogClient, quotas azure.QuotaClient, log *zap.SugaredLogger) *Evaluator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Evaluator{catalog: catalog, quotas: quotas, log: log}
}

// Evaluate resolves a size name through the catalog and qualifies it.
// Catalog absence is a verdict, not an error; provider failures degrade the
// candidate rather than aborting the run.
func (e *Evaluator) Evaluate(ctx context.Context, region, sizeName string, req ClusterRequirement) Verdict {
	size, err := e.catalog.SizeCores(ctx, region, sizeName)
	if err != nil {
		if !azure.IsNotFound(err) {
			e.log.Warnw("catalog lookup failed", "size", sizeName, "region", region, "error", err)
		}
		return Verdict{
			Size:   azure.VMSize{Name: sizeName},
			Reason: ReasonUnavailable,
			Detail: fmt.Sprintf("not offered in %s", region),
		}
	}
	return e.EvaluateSize(ctx, region, size, req)
}

// EvaluateSize qualifies a size already resolved from the catalog.
func (e *Evaluator) EvaluateSize(ctx context.Context, region string, size azure.VMSize, req ClusterRequirement) Verdict {
	v := Verdict{
		Size:       size,
		Family:     FamilyForSize(size.Name),
		TotalVCPUs: size.Cores * req.NodeCount,
	}

	// The aggregate floor is enforced only when the caller asked for it.
	// The derived baseline evaluates every candidate for comparison and
	// never filters.
	if req.MinVCPUs.Enforced() && v.TotalVCPUs < req.MinVCPUs.Total {
		v.Reason = ReasonInsufficientClusterSize
		v.Detail = fmt.Sprintf("%d nodes x %d cores = %d vCPUs, below required %d",
			req.NodeCount, size.Cores, v.TotalVCPUs, req.MinVCPUs.Total)
		return v
	}

	need := int64(v.TotalVCPUs)

	subUnknown := false
	sub, err := e.quotas.SubscriptionCoreQuota(ctx, region)
	switch {
	case err != nil:
		e.log.Warnw("subscription quota lookup failed", "region", region, "error", err)
		subUnknown = true
	case !sub.Known():
		subUnknown = true
	case need > sub.Available():
		v.Reason = ReasonInsufficientSubscriptionQuota
		v.Detail = fmt.Sprintf("needs %d vCPUs, region pool has %d of %d left",
			need, sub.Available(), sub.Limit)
		return v
	}

	// A size whose name matches no family rule skips the family check; the
	// family pool cannot be identified, which is not the same as empty.
	famUnknown := false
	if v.Family != "" {
		fam, err := e.quotas.FamilyQuota(ctx, region, v.Family)
		switch {
		case err != nil:
			e.log.Warnw("family quota lookup failed", "family", v.Family, "region", region, "error", err)
			famUnknown = true
		case !fam.Known():
			famUnknown = true
		case need > fam.Available():
			v.Reason = ReasonInsufficientFamilyQuota
			v.Detail = fmt.Sprintf("needs %d vCPUs, family %s has %d of %d left",
				need, v.Family, fam.Available(), fam.Limit)
			return v
		}
	}

	if subUnknown || famUnknown {
		v.Reason = ReasonUnknownQuota
		v.Detail = quotaUnknownDetail(subUnknown, famUnknown, v.Family)
		return v
	}

	v.Reason = ReasonOK
	v.Qualifies = true
	v.Detail = fmt.Sprintf("%d nodes x %d cores = %d vCPUs fit remaining quota",
		req.NodeCount, size.Cores, v.TotalVCPUs)
	return v
}

func quotaUnknownDetail(subUnknown, famUnknown bool, family string) string {
	switch {
	case subUnknown && famUnknown:
		return "unable to determine subscription and family quota"
	case subUnknown:
		return "unable to determine subscription core quota"
	default:
		return fmt.Sprintf("unable to determine quota for family %s", family)
	}
}
