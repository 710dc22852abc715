package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/config"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/diagnosis"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/encoding"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/quality"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/types"
)

func newRunCmd() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Diagnose one submission",
		Long:  `Reads a submission JSON document (the body of POST /api/v1/diagnoses) and prints the diagnosis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			return runDiagnosis(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "Submission file, - for stdin")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "Catalog variant (20 or 45), overrides the submission")
	cmd.Flags().StringVar(&opts.baselines, "baselines", "", "Directory of exported baseline files to use")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent the JSON output")

	return cmd
}

type runOpts struct {
	configPath string
	input      string
	catalog    string
	baselines  string
	pretty     bool
}

func runDiagnosis(ctx context.Context, stdin io.Reader, stdout io.Writer, opts runOpts) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	data, err := readInput(stdin, opts.input)
	if err != nil {
		return err
	}
	var req types.DiagnosisRequest
	if err := encoding.UnmarshalJSON(data, &req); err != nil {
		return fmt.Errorf("parse submission: %w", err)
	}
	if opts.catalog != "" {
		req.Catalog = opts.catalog
	}

	table := cfg.BenchmarkTable()
	if opts.baselines != "" {
		stored, err := analysis.NewBaselineStore(opts.baselines).LoadAll()
		if err != nil {
			return err
		}
		table = table.With(stored...)
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	assessor, err := quality.NewAssessor(cfg.Rubric(), quality.WithLogger(logger))
	if err != nil {
		return err
	}
	analyzerOpts := []analysis.Option{analysis.WithBenchmarks(table), analysis.WithLogger(logger)}
	if !cfg.Pipeline.Engagement {
		analyzerOpts = append(analyzerOpts, analysis.WithEngagement(nil))
	}
	svc, err := diagnosis.NewService(
		diagnosis.WithAnalyzer(analysis.NewAnalyzer(analyzerOpts...)),
		diagnosis.WithAssessor(assessor),
		diagnosis.WithBrand(cfg.Pipeline.Brand),
		diagnosis.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	res, err := svc.Diagnose(ctx, req.ToRequest())
	if err != nil {
		return err
	}
	return writeJSON(stdout, res, opts.pretty)
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = encoding.Default().MarshalIndent(v, "  ")
	} else {
		data, err = encoding.MarshalJSON(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
