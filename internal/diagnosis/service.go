// Package diagnosis runs the full questionnaire pipeline: normalization,
// scoring, benchmarking, synthesis, narration and quality assessment.
package diagnosis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/narrative"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/quality"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/report"
)

// Request is one questionnaire submission.
type Request struct {
	Variant    questionnaire.Variant
	Submission questionnaire.Submission
}

// Result is the full diagnosis output.
type Result struct {
	report.Report
	QualityMetrics *quality.Assessment `json:"qualityMetrics"`
}

// Service is stateless between calls; every Diagnose builds a fresh output graph.
type Service struct {
	analyzer *analysis.Analyzer
	assessor *quality.Assessor
	narrator narrative.Narrator
	brand    string
	now      func() time.Time
	newID    func() string
	logger   *slog.Logger
}

type Option func(*Service)

func WithAnalyzer(a *analysis.Analyzer) Option {
	return func(s *Service) { s.analyzer = a }
}

func WithAssessor(a *quality.Assessor) Option {
	return func(s *Service) { s.assessor = a }
}

// WithNarrator enables narration. Narrators that are not already guarded are
// wrapped with the given timeout.
func WithNarrator(n narrative.Narrator, timeout time.Duration) Option {
	return func(s *Service) {
		if n == nil {
			s.narrator = nil
			return
		}
		if _, ok := n.(*narrative.GuardedNarrator); !ok {
			n = narrative.NewGuardedNarrator(n, narrative.Guard{Timeout: timeout})
		}
		s.narrator = n
	}
}

func WithBrand(brand string) Option {
	return func(s *Service) { s.brand = brand }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(opts ...Option) (*Service, error) {
	s := &Service{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.analyzer == nil {
		s.analyzer = analysis.NewAnalyzer(analysis.WithLogger(s.logger))
	}
	if s.assessor == nil {
		a, err := quality.NewAssessor(quality.DefaultRubric(), quality.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.assessor = a
	}
	return s, nil
}

func (s *Service) Analyzer() *analysis.Analyzer { return s.analyzer }

// Diagnose runs the pipeline over one submission. It fails only on invalid
// input or a canceled context; every other problem becomes a warning.
func (s *Service) Diagnose(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	catalog, err := questionnaire.Lookup(req.Variant)
	if err != nil {
		return nil, apperrors.NewValidationErrorWithMap(map[string]string{"catalog": err.Error()})
	}
	set, err := questionnaire.Normalize(catalog, req.Submission)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("diagnosis canceled", err)
	}

	analyzed := s.analyzer.Analyze(set)
	r := report.Build(s.newID(), s.now(), set, analyzed, report.Options{Brand: s.brand})
	s.logger.Debug("Report assembled",
		"diagnosis_id", r.DiagnosisID,
		"catalog", r.CatalogVariant,
		"percentage", r.ScoreAnalysis.Percentage)

	if s.narrator != nil {
		s.narrate(ctx, r)
	}

	assessment := s.assessor.Assess(ctx, r)
	for _, w := range assessment.Warnings {
		r.AddWarning(w)
	}
	// qualityMetrics carries every non-fatal condition of the run, not only the judge's
	assessment.Warnings = append(make([]apperrors.Warning, 0, len(r.Warnings)), r.Warnings...)

	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("diagnosis canceled", err)
	}

	for _, w := range r.Warnings {
		s.logger.Warn("Diagnosis warning",
			"diagnosis_id", r.DiagnosisID,
			"code", w.Code,
			"message", w.Message)
	}
	s.logger.Info("Diagnosis completed",
		"diagnosis_id", r.DiagnosisID,
		"catalog", r.CatalogVariant,
		"percentage", r.ScoreAnalysis.Percentage,
		"grade", r.ScoreAnalysis.Grade,
		"quality_score", assessment.OverallScore,
		"duration_ms", time.Since(start).Milliseconds())

	return &Result{Report: *r, QualityMetrics: assessment}, nil
}

// narrate replaces template text section by section. A failed section keeps
// its template text and is marked unavailable.
func (s *Service) narrate(ctx context.Context, r *report.Report) {
	texts := make([]string, len(r.Narrative))
	errs := make([]error, len(r.Narrative))

	g, gctx := errgroup.WithContext(ctx)
	for i, section := range r.Narrative {
		spec := narrative.SectionSpec{
			Key:   section.Key,
			Title: section.Title,
			Draft: section.Text,
			Facts: section.Facts,
		}
		g.Go(func() error {
			texts[i], errs[i] = s.narrator.Narrate(gctx, spec)
			return nil
		})
	}
	_ = g.Wait()

	for i := range r.Narrative {
		section := &r.Narrative[i]
		if errs[i] != nil {
			section.MarkUnavailable()
			r.AddWarning(apperrors.NewWarning(apperrors.WarningNarrativeUnavailable,
				"narration unavailable for "+section.Key, section.Key))
			continue
		}
		section.Text = texts[i]
		section.Source = report.SourceNarrator
	}
}
