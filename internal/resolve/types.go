// Package resolve implements the compatible-VM-size resolution engine:
// which sizes a region offers, whether a cluster of N nodes fits the
// subscription's core and family quotas, and which qualifying size is the
// cheapest choice.
package resolve

import "github.com/skufit/skufit/internal/azure"

// MinimumSource tags where a vCPU minimum came from. A user-specified
// minimum is a hard constraint; the derived baseline is informational only
// and never rejects a candidate. The two must never be conflated, even when
// the numbers coincide.
type MinimumSource int

const (
	// MinimumBaseline is the derived default of nodeCount x 2 vCPUs.
	MinimumBaseline MinimumSource = iota

	// MinimumUserSpecified is an explicit caller-supplied floor.
	MinimumUserSpecified
)

// VCPUMinimum is a tagged aggregate vCPU floor for the whole cluster.
type VCPUMinimum struct {
	Total  int
	Source MinimumSource
}

// BaselineMinimum derives the informational default for a node count.
func BaselineMinimum(nodeCount int) VCPUMinimum {
	return VCPUMinimum{Total: nodeCount * 2, Source: MinimumBaseline}
}

// UserMinimum wraps an explicit caller-supplied floor.
func UserMinimum(total int) VCPUMinimum {
	return VCPUMinimum{Total: total, Source: MinimumUserSpecified}
}

// Enforced reports whether the minimum rejects undersized candidates.
func (m VCPUMinimum) Enforced() bool {
	return m.Source == MinimumUserSpecified
}

// ClusterRequirement describes the cluster a caller wants to size.
type ClusterRequirement struct {
	NodeCount int
	MinVCPUs  VCPUMinimum
}

// Reason classifies the outcome of evaluating one candidate size.
type Reason string

const (
	ReasonOK                            Reason = "ok"
	ReasonUnavailable                   Reason = "unavailable"
	ReasonInsufficientClusterSize       Reason = "insufficient-cluster-size"
	ReasonInsufficientSubscriptionQuota Reason = "insufficient-subscription-quota"
	ReasonInsufficientFamilyQuota       Reason = "insufficient-family-quota"
	ReasonUnknownQuota                  Reason = "unknown-quota"
)

// Verdict is the qualification result for one candidate size.
type Verdict struct {
	Size       azure.VMSize
	Family     string
	TotalVCPUs int
	Qualifies  bool
	Reason     Reason

	// Detail is a one-line human explanation for verbose output.
	Detail string
}

// Tally counts evaluated candidates per outcome category.
type Tally struct {
	OK                int
	Unavailable       int
	ClusterSize       int
	SubscriptionQuota int
	FamilyQuota       int
	Unknown           int
}

// add records one verdict in the tally.
func (t *Tally) add(v Verdict) {
	switch v.Reason {
	case ReasonOK:
		t.OK++
	case ReasonUnavailable:
		t.Unavailable++
	case ReasonInsufficientClusterSize:
		t.ClusterSize++
	case ReasonInsufficientSubscriptionQuota:
		t.SubscriptionQuota++
	case ReasonInsufficientFamilyQuota:
		t.FamilyQuota++
	case ReasonUnknownQuota:
		t.Unknown++
	}
}

// Evaluated returns the total number of tallied candidates.
func (t Tally) Evaluated() int {
	return t.OK + t.Unavailable + t.ClusterSize + t.SubscriptionQuota + t.FamilyQuota + t.Unknown
}

// QuotaLimited reports whether any candidate was rejected on quota.
func (t Tally) QuotaLimited() bool {
	return t.SubscriptionQuota > 0 || t.FamilyQuota > 0
}
