package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/skufit/skufit/internal/resolve"
)

var (
	reportColorGreen = lipgloss.Color("#22c55e")
	reportColorRed   = lipgloss.Color("#ef4444")
	reportColorBlue  = lipgloss.Color("#3b82f6")
	reportColorDim   = lipgloss.Color("#6b7280")
	reportColorWhite = lipgloss.Color("#f9fafb")
)

// reportStyles returns the render styles, colored only on a TTY so piped
// output stays clean.
type reportStyleSet struct {
	title   lipgloss.Style
	section lipgloss.Style
	dim     lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
}

func reportStyles() reportStyleSet {
	if !isInteractiveTTY() {
		plain := lipgloss.NewStyle()
		return reportStyleSet{title: plain, section: plain, dim: plain, good: plain, bad: plain}
	}
	return reportStyleSet{
		title:   lipgloss.NewStyle().Bold(true).Foreground(reportColorWhite),
		section: lipgloss.NewStyle().Bold(true).Foreground(reportColorBlue),
		dim:     lipgloss.NewStyle().Foreground(reportColorDim),
		good:    lipgloss.NewStyle().Foreground(reportColorGreen),
		bad:     lipgloss.NewStyle().Foreground(reportColorRed),
	}
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// renderResolveReport produces the verbose resolution report.
func renderResolveReport(res *resolve.Result, limit int) string {
	st := reportStyles()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(st.title.Render(fmt.Sprintf("  skufit resolve: %s", res.Region)))
	b.WriteString("\n")
	b.WriteString(st.dim.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	req := res.Requirement
	minNote := "informational baseline"
	if req.MinVCPUs.Enforced() {
		minNote = "required"
	}
	fmt.Fprintf(&b, "  Cluster: %d nodes, %d vCPUs minimum (%s)\n",
		req.NodeCount, req.MinVCPUs.Total, minNote)

	if len(res.Qualifying) > 0 {
		b.WriteString("\n")
		renderQualifyingSection(&b, st, res, limit)
	}

	rejected := rejectedVerdicts(res.Preferred)
	if len(rejected) > 0 {
		b.WriteString("\n")
		b.WriteString(st.section.Render("  Rejected Candidates"))
		b.WriteString("\n")
		b.WriteString(st.dim.Render("  " + strings.Repeat("─", 50)))
		b.WriteString("\n")
		for _, v := range rejected {
			renderVerdictRow(&b, st, v)
		}
	}

	if res.FallbackUsed {
		b.WriteString("\n")
		b.WriteString(st.section.Render("  Broadened Search (informational, not ranked)"))
		b.WriteString("\n")
		b.WriteString(st.dim.Render("  " + strings.Repeat("─", 50)))
		b.WriteString("\n")
		if len(res.Fallback) == 0 {
			b.WriteString(st.dim.Render("  no further candidates within the core window"))
			b.WriteString("\n")
		}
		for _, v := range res.Fallback {
			renderVerdictRow(&b, st, v)
		}
	}

	b.WriteString("\n")
	b.WriteString(st.section.Render("  Summary"))
	b.WriteString("\n")
	b.WriteString(st.dim.Render("  " + strings.Repeat("─", 50)))
	b.WriteString("\n")
	t := res.Tally
	fmt.Fprintf(&b, "  evaluated=%d ok=%d unavailable=%d cluster-size=%d subscription-quota=%d family-quota=%d unknown=%d\n",
		t.Evaluated(), t.OK, t.Unavailable, t.ClusterSize, t.SubscriptionQuota, t.FamilyQuota, t.Unknown)

	b.WriteString("\n")
	if rec, ok := res.Recommendation(); ok {
		b.WriteString(st.good.Render(fmt.Sprintf("  Top recommendation: %s (%d cores/VM, %d vCPUs total)",
			rec.Size.Name, rec.Size.Cores, rec.TotalVCPUs)))
		b.WriteString("\n")
		// Directive line for feeding a deployment parameter.
		fmt.Fprintf(&b, "  RECOMMENDED_VM_SIZE=%s\n", rec.Size.Name)
	} else {
		b.WriteString(st.bad.Render("  No size qualifies in this region."))
		b.WriteString("\n")
	}

	if guidance := quotaGuidance(res); guidance != "" {
		b.WriteString("\n")
		b.WriteString(st.dim.Render(guidance))
		b.WriteString("\n")
	}

	return b.String()
}

func renderQualifyingSection(b *strings.Builder, st reportStyleSet, res *resolve.Result, limit int) {
	b.WriteString(st.section.Render("  Qualifying Sizes (cheapest first)"))
	b.WriteString("\n")
	b.WriteString(st.dim.Render("  " + strings.Repeat("─", 50)))
	b.WriteString("\n")
	b.WriteString(st.dim.Render(fmt.Sprintf("  %-4s %-20s %9s %14s", "Rank", "Size", "Cores/VM", "Cluster vCPUs")))
	b.WriteString("\n")

	for i, v := range res.Qualifying {
		marker := " "
		if limit > 0 && i >= limit {
			marker = "·" // beyond the reported limit
		}
		fmt.Fprintf(b, "  %-4d %-20s %9d %14d %s\n",
			i+1, v.Size.Name, v.Size.Cores, v.TotalVCPUs, marker)
	}
}

func renderVerdictRow(b *strings.Builder, st reportStyleSet, v resolve.Verdict) {
	indicator := st.bad.Render("✗")
	if v.Qualifies {
		indicator = st.good.Render("✓")
	}
	fmt.Fprintf(b, "  %s %-20s %s: %s\n", indicator, v.Size.Name, v.Reason, v.Detail)
}

func rejectedVerdicts(verdicts []resolve.Verdict) []resolve.Verdict {
	out := make([]resolve.Verdict, 0, len(verdicts))
	for _, v := range verdicts {
		if !v.Qualifies {
			out = append(out, v)
		}
	}
	return out
}

// quotaGuidance explains next steps when quota blocked candidates or
// nothing qualified at all.
func quotaGuidance(res *resolve.Result) string {
	quotaLimited := res.Tally.QuotaLimited()
	empty := res.Tally.OK == 0

	switch {
	case quotaLimited:
		return fmt.Sprintf("  Some sizes were rejected on quota. Request a quota increase for region '%s'\n"+
			"  in the portal, or inspect current usage with 'az vm list-usage --location %s --output table'.",
			res.Region, res.Region)
	case empty:
		return fmt.Sprintf("  No size qualified. Try a different region, or list offerings with\n"+
			"  'az vm list-skus --location %s --output table'.", res.Region)
	default:
		return ""
	}
}
