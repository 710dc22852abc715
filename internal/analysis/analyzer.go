package analysis

import (
	"fmt"
	"log/slog"

	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

// Result is the deterministic part of a diagnosis.
type Result struct {
	Scores         ScoreAnalysis        `json:"scoreAnalysis"`
	Benchmark      BenchmarkGap         `json:"benchmark"`
	SWOT           SWOTResult           `json:"detailedAnalysis"`
	PriorityMatrix []PriorityMatrixItem `json:"priorityMatrix"`
	Roadmap        Roadmap              `json:"recommendations"`
	Engagement     *EngagementMetrics   `json:"engagementMetrics,omitempty"`
	Warnings       []apperrors.Warning  `json:"warnings,omitempty"`
}

// Analyzer orchestrates the scoring, benchmark, SWOT and priority stages.
// It holds only read-only tables and is safe for concurrent use.
type Analyzer struct {
	benchmarks *BenchmarkTable
	swot       *SWOTLibrary
	engagement *EngagementModel
	logger     *slog.Logger
}

type Option func(*Analyzer)

// WithBenchmarks replaces the industry baseline table.
func WithBenchmarks(t *BenchmarkTable) Option {
	return func(a *Analyzer) { a.benchmarks = t }
}

// WithSWOTLibrary replaces the SWOT lookups.
func WithSWOTLibrary(l *SWOTLibrary) Option {
	return func(a *Analyzer) { a.swot = l }
}

// WithEngagement enables the engagement sub-score family. A nil model disables it.
func WithEngagement(m *EngagementModel) Option {
	return func(a *Analyzer) { a.engagement = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer creates an analyzer with the built-in tables and engagement enabled.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		benchmarks: DefaultBenchmarkTable(),
		swot:       DefaultSWOTLibrary(),
		engagement: DefaultEngagementModel(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Benchmarks returns the table in use.
func (a *Analyzer) Benchmarks() *BenchmarkTable { return a.benchmarks }

// Analyze runs every deterministic stage over a normalized response set.
func (a *Analyzer) Analyze(set *questionnaire.ResponseSet) *Result {
	scores := Aggregate(set)

	gap := a.benchmarks.CompareToBenchmark(scores, set.Company)
	scores.Percentile = gap.Percentile

	result := &Result{
		Scores:    scores,
		Benchmark: gap,
	}

	if gap.Fallback {
		a.logger.Warn("no baseline for industry, using global default",
			"industry", set.Company.Industry,
			"baseline", gap.Baseline)
		result.Warnings = append(result.Warnings, apperrors.NewWarning(apperrors.WarningBenchmarkUnavailable,
			fmt.Sprintf("no benchmark for industry %q, compared against the global default", set.Company.Industry),
			"industry"))
	}

	result.SWOT = a.swot.Synthesize(scores, set, gap.Industry)
	result.PriorityMatrix = BuildPriorityMatrix(gap, result.SWOT, a.swot)
	result.Roadmap = BuildRoadmap(result.PriorityMatrix)

	if a.engagement != nil {
		result.Engagement = a.engagement.Analyze(set)
	}

	a.logger.Debug("analysis complete",
		"percentage", scores.Percentage,
		"grade", scores.Grade,
		"percentile", scores.Percentile,
		"matrix_items", len(result.PriorityMatrix))

	return result
}
