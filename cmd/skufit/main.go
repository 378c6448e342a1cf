// Package main is the entry point for the skufit CLI.
//
// skufit resolves which Azure VM sizes can host a cluster of N nodes in a
// region, reconciling the size catalog with the subscription's regional and
// VM-family core quotas, and recommends the most cost-effective choice.
//
// Commands: resolve, version, completion.
//
// For detailed usage information, run:
//
//	skufit --help
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/skufit/skufit/cmd/skufit/commands"
	"github.com/skufit/skufit/cmd/skufit/handlers"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Configuration mistakes and provider/auth failures get distinct
		// exit codes; a completed evaluation always exits 0, even when
		// nothing qualified.
		var usageErr *handlers.UsageError
		if errors.As(err, &usageErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
