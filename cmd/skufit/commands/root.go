// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the skufit CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skufit",
		Short: "Find Azure VM sizes that fit your cluster and quota",
	}

	cmd.AddCommand(Resolve())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
