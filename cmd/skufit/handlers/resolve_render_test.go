package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skufit/skufit/internal/azure"
	"github.com/skufit/skufit/internal/resolve"
)

func reportFixture() *resolve.Result {
	ok := resolve.Verdict{
		Size:       azure.VMSize{Name: "Standard_D2s_v5", Cores: 2},
		Family:     "standardDSv5Family",
		TotalVCPUs: 6,
		Qualifies:  true,
		Reason:     resolve.ReasonOK,
	}
	rejected := resolve.Verdict{
		Size:       azure.VMSize{Name: "Standard_D4s_v4", Cores: 4},
		Family:     "standardDSv4Family",
		TotalVCPUs: 12,
		Reason:     resolve.ReasonInsufficientFamilyQuota,
		Detail:     "family standardDSv4Family: need 12, available 2",
	}

	res := &resolve.Result{
		Region: "eastus",
		Requirement: resolve.ClusterRequirement{
			NodeCount: 3,
			MinVCPUs:  resolve.BaselineMinimum(3),
		},
		Preferred:  []resolve.Verdict{ok, rejected},
		Qualifying: []resolve.Verdict{ok},
	}
	res.Tally = resolve.Tally{OK: 1, FamilyQuota: 1}
	return res
}

func TestRenderResolveReport(t *testing.T) {
	report := renderResolveReport(reportFixture(), 5)

	assert.Contains(t, report, "skufit resolve: eastus")
	assert.Contains(t, report, "3 nodes, 6 vCPUs minimum (informational baseline)")
	assert.Contains(t, report, "Qualifying Sizes (cheapest first)")
	assert.Contains(t, report, "Standard_D2s_v5")
	assert.Contains(t, report, "Rejected Candidates")
	assert.Contains(t, report, "insufficient-family-quota")
	assert.Contains(t, report, "need 12, available 2")
	assert.Contains(t, report, "ok=1")
	assert.Contains(t, report, "family-quota=1")
	assert.Contains(t, report, "Top recommendation: Standard_D2s_v5 (2 cores/VM, 6 vCPUs total)")
	assert.Contains(t, report, "RECOMMENDED_VM_SIZE=Standard_D2s_v5")
	assert.Contains(t, report, "az vm list-usage --location eastus")
	assert.NotContains(t, report, "Broadened Search")
}

func TestRenderResolveReport_EnforcedMinimum(t *testing.T) {
	res := reportFixture()
	res.Requirement.MinVCPUs = resolve.UserMinimum(30)

	report := renderResolveReport(res, 5)
	assert.Contains(t, report, "30 vCPUs minimum (required)")
}

func TestRenderResolveReport_EmptyFallback(t *testing.T) {
	res := reportFixture()
	res.Preferred = nil
	res.Qualifying = nil
	res.FallbackUsed = true
	res.Tally = resolve.Tally{}

	report := renderResolveReport(res, 5)
	assert.Contains(t, report, "Broadened Search (informational, not ranked)")
	assert.Contains(t, report, "no further candidates within the core window")
	assert.Contains(t, report, "No size qualifies in this region.")
	assert.Contains(t, report, "az vm list-skus --location eastus")
}

func TestRenderResolveReport_MarksEntriesBeyondLimit(t *testing.T) {
	res := reportFixture()
	extra := resolve.Verdict{
		Size:       azure.VMSize{Name: "Standard_D4s_v5", Cores: 4},
		TotalVCPUs: 12,
		Qualifies:  true,
		Reason:     resolve.ReasonOK,
	}
	res.Qualifying = append(res.Qualifying, extra)
	res.Tally = resolve.Tally{OK: 2}

	report := renderResolveReport(res, 1)

	var beyond string
	for _, line := range strings.Split(report, "\n") {
		if strings.Contains(line, "Standard_D4s_v5") && strings.Contains(line, "12") {
			beyond = line
		}
	}
	assert.True(t, strings.HasSuffix(beyond, "·"), "entry beyond the limit should carry the marker: %q", beyond)
}
