// Package report assembles the analysis stages into the diagnosis report body.
package report

import (
	"time"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

// Required report sections, in presentation order.
const (
	SectionScoreAnalysis    = "scoreAnalysis"
	SectionBenchmark        = "benchmark"
	SectionDetailedAnalysis = "detailedAnalysis"
	SectionRecommendations  = "recommendations"
	SectionPriorityMatrix   = "priorityMatrix"
	SectionCharts           = "charts"
	SectionNarrative        = "narrative"
)

var RequiredSections = []string{
	SectionScoreAnalysis,
	SectionBenchmark,
	SectionDetailedAnalysis,
	SectionRecommendations,
	SectionPriorityMatrix,
	SectionCharts,
	SectionNarrative,
}

// DefaultBrand is used when no brand name is configured.
const DefaultBrand = "Readiness Diagnosis"

type Report struct {
	DiagnosisID       string                        `json:"diagnosisId"`
	GeneratedAt       time.Time                     `json:"generatedAt"`
	Brand             string                        `json:"brand"`
	Title             string                        `json:"title"`
	Footer            string                        `json:"footer"`
	Company           questionnaire.Company         `json:"company"`
	CatalogVariant    questionnaire.Variant         `json:"catalogVariant"`
	ScoreAnalysis     analysis.ScoreAnalysis        `json:"scoreAnalysis"`
	Benchmark         analysis.BenchmarkGap         `json:"benchmark"`
	DetailedAnalysis  analysis.SWOTResult           `json:"detailedAnalysis"`
	Recommendations   analysis.Roadmap              `json:"recommendations"`
	PriorityMatrix    []analysis.PriorityMatrixItem `json:"priorityMatrix"`
	EngagementMetrics *analysis.EngagementMetrics   `json:"engagementMetrics,omitempty"`
	Charts            []ChartSpec                   `json:"charts"`
	Narrative         []NarrativeSection            `json:"narrative"`
	IncompleteFields  []string                      `json:"incompleteFields"`
	AnsweredCount     int                           `json:"answeredCount"`
	QuestionCount     int                           `json:"questionCount"`
	Warnings          []apperrors.Warning           `json:"warnings"`
}

// Options control presentation details of a built report.
type Options struct {
	Brand string
}

// Build assembles a report from a normalized response set and its analysis.
// The narrative sections carry their template text; narration replaces it later.
func Build(id string, generatedAt time.Time, set *questionnaire.ResponseSet, result *analysis.Result, opts Options) *Report {
	brand := opts.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	r := &Report{
		DiagnosisID:       id,
		GeneratedAt:       generatedAt.UTC(),
		Brand:             brand,
		Title:             brand + " - AI Readiness Report for " + set.Company.Name,
		Footer:            "Prepared by " + brand,
		Company:           set.Company,
		CatalogVariant:    set.Catalog().Variant,
		ScoreAnalysis:     result.Scores,
		Benchmark:         result.Benchmark,
		DetailedAnalysis:  result.SWOT,
		Recommendations:   result.Roadmap,
		PriorityMatrix:    result.PriorityMatrix,
		EngagementMetrics: result.Engagement,
		IncompleteFields:  append([]string{}, set.IncompleteFields...),
		AnsweredCount:     set.Answered(),
		QuestionCount:     set.Catalog().Len(),
	}
	if r.PriorityMatrix == nil {
		r.PriorityMatrix = []analysis.PriorityMatrixItem{}
	}

	r.Warnings = make([]apperrors.Warning, 0, len(set.Warnings)+len(result.Warnings))
	r.Warnings = append(r.Warnings, set.Warnings...)
	r.Warnings = append(r.Warnings, result.Warnings...)

	r.Charts = BuildCharts(result)
	r.Narrative = TemplateSections(r)

	return r
}

// DataCompleteness is the share of catalog questions answered, 0-100.
func (r *Report) DataCompleteness() float64 {
	if r.QuestionCount == 0 {
		return 0
	}
	return float64(r.AnsweredCount) / float64(r.QuestionCount) * 100
}

// PresentSections reports which required sections carry content.
func (r *Report) PresentSections() map[string]bool {
	return map[string]bool{
		SectionScoreAnalysis:    len(r.ScoreAnalysis.CategoryScores) > 0,
		SectionBenchmark:        r.Benchmark.Industry != "" && len(r.Benchmark.Categories) > 0,
		SectionDetailedAnalysis: r.DetailedAnalysis.Strengths != nil && r.DetailedAnalysis.Weaknesses != nil,
		SectionRecommendations:  r.Recommendations.Immediate != nil,
		SectionPriorityMatrix:   r.PriorityMatrix != nil,
		SectionCharts:           len(r.Charts) > 0,
		SectionNarrative:        len(r.Narrative) > 0,
	}
}

// AddWarning appends a warning unless one with the same code and message exists.
func (r *Report) AddWarning(w apperrors.Warning) {
	for _, existing := range r.Warnings {
		if existing.Code == w.Code && existing.Message == w.Message {
			return
		}
	}
	r.Warnings = append(r.Warnings, w)
}

// Text returns all narrative and title text, used by keyword checks.
func (r *Report) Text() string {
	text := r.Title + "\n" + r.Footer
	for _, s := range r.Narrative {
		text += "\n" + s.Title + "\n" + s.Text
	}
	return text
}
