package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

func newBenchmarksCmd() *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "benchmarks",
		Short: "Print the industry baselines in effect",
		Long: `Prints the built-in industry table merged with config overrides. With
--export the table is written as one JSON file per industry, the format read
by "run --baselines".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			table := cfg.BenchmarkTable()

			if exportDir != "" {
				if err := analysis.NewBaselineStore(exportDir).Export(table); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d baselines to %s\n", len(table.Industries())+1, exportDir)
				return nil
			}
			return printBenchmarks(cmd.OutOrStdout(), table)
		},
	}

	cmd.Flags().StringVar(&exportDir, "export", "", "Write baselines to this directory")
	return cmd
}

func printBenchmarks(w io.Writer, table *analysis.BenchmarkTable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tLABEL\tMEAN\tSIGMA")
	rows := append(table.Industries(), table.Fallback())
	for _, b := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\n", b.Key, b.Label, b.Mean, b.Sigma)
	}
	fmt.Fprintln(tw)
	for _, size := range []questionnaire.SizeBucket{questionnaire.SizeSmall, questionnaire.SizeMedium, questionnaire.SizeLarge} {
		fmt.Fprintf(tw, "size %s\t%+.1f\n", size, table.SizeAdjustment(size))
	}
	return tw.Flush()
}
