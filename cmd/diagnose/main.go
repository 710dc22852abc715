// Package main provides the diagnose CLI: offline questionnaire diagnosis and
// catalog and benchmark inspection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Business readiness diagnosis from questionnaire answers",
		Long: `diagnose scores a questionnaire submission against industry baselines and
prints the full diagnosis report as JSON. No model collaborators are used, so
every narrative section carries its template text.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")

	rootCmd.AddCommand(
		newRunCmd(),
		newCatalogCmd(),
		newBenchmarksCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
