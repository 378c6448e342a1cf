package commands

import (
	"github.com/spf13/cobra"

	"github.com/skufit/skufit/cmd/skufit/handlers"
)

// Resolve returns the command that runs the VM size resolution.
func Resolve() *cobra.Command {
	var opts handlers.ResolveOptions

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve compatible VM sizes for a cluster in a region",
		Long: `Resolve which VM sizes can host a cluster in an Azure region.

For every candidate size this command checks:
  - whether the size is offered in the region
  - whether N nodes of it satisfy the requested aggregate vCPU floor
  - whether the cluster fits the remaining regional core quota
  - whether the cluster fits the remaining VM-family quota

Qualifying sizes are ranked ascending by core count (the cheapest size that
fits comes first). When no preferred size qualifies, the search broadens to
all general-purpose D-series sizes within the core window.

A completed evaluation exits 0 even when no size qualifies; that is a valid,
reported outcome.
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.MinVCPUsSet = cmd.Flags().Changed("min-vcpus")
			return handlers.Resolve(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (default: skufit.yaml)")
	cmd.Flags().StringVarP(&opts.Region, "region", "r", "", "Azure region to resolve in (required unless configured)")
	cmd.Flags().StringVarP(&opts.Subscription, "subscription", "s", "", "Subscription ID (default: AZURE_SUBSCRIPTION_ID)")
	cmd.Flags().IntVarP(&opts.Nodes, "nodes", "n", 0, "Number of cluster nodes (default 3)")
	cmd.Flags().IntVar(&opts.MinVCPUs, "min-vcpus", 0, "Required aggregate vCPUs for the whole cluster (hard constraint)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "Maximum number of ranked sizes to report (default 5)")
	cmd.Flags().IntVar(&opts.MaxFallbackCores, "max-fallback-cores", 0, "Core ceiling for the broadened search (default 16)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Print only qualifying size names, one per line")

	return cmd
}
