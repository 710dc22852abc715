package quality

import (
	"math"
	"strings"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/report"
)

// Rubric category keys.
const (
	CategoryContentCompleteness = "contentCompleteness"
	CategoryDataAccuracy        = "dataAccuracy"
	CategoryVisualQuality       = "visualQuality"
	CategoryNarrativeQuality    = "narrativeQuality"
	CategoryTechnicalCompliance = "technicalCompliance"
)

// DefaultRubric returns the standard report quality rubric.
func DefaultRubric() Rubric {
	return Rubric{Categories: []Category{
		{
			Key: CategoryContentCompleteness, Name: "Content completeness",
			Weight: 0.25, MinimumScore: 85, Flag: "contentComplete",
			Criteria: []Criterion{
				{ID: "sectionCompleteness", Name: "Required sections present", Weight: 0.5,
					Evaluator: Automated{Fn: sectionCompleteness},
					Advice:    "Regenerate the report so every required section carries content."},
				{ID: "dataCompleteness", Name: "Questionnaire answered", Weight: 0.3,
					Evaluator: Automated{Fn: (*report.Report).DataCompleteness},
					Advice:    "Collect answers for the unanswered questions before sharing the report."},
				{ID: "swotCoverage", Name: "SWOT coverage", Weight: 0.2, Threshold: 50,
					Evaluator: Automated{Fn: swotCoverage},
					Advice:    "Extend the SWOT library so the analysis names at least one strength or weakness."},
			},
		},
		{
			Key: CategoryDataAccuracy, Name: "Data accuracy",
			Weight: 0.25, MinimumScore: 90, Flag: "dataAccurate",
			Criteria: []Criterion{
				{ID: "scoreConsistency", Name: "Score consistency", Weight: 0.4,
					Evaluator: Automated{Fn: scoreConsistency},
					Advice:    "Grade and maturity level must be derived from the percentage; recompute the score analysis."},
				{ID: "benchmarkConsistency", Name: "Benchmark consistency", Weight: 0.3,
					Evaluator: Automated{Fn: benchmarkConsistency},
					Advice:    "Recompute the benchmark gaps and percentile from the current baseline table."},
				{ID: "priorityConsistency", Name: "Priority matrix consistency", Weight: 0.3,
					Evaluator: Automated{Fn: priorityConsistency},
					Advice:    "Rebuild the priority matrix; quadrant placement does not match importance and urgency."},
			},
		},
		{
			Key: CategoryVisualQuality, Name: "Visual quality",
			Weight: 0.15, MinimumScore: 80, Flag: "visualsCompliant",
			Criteria: []Criterion{
				{ID: "chartQuality", Name: "Chart quality", Weight: 0.6,
					Evaluator: Automated{Fn: chartQuality},
					Advice:    "Give every chart a title, data and rendering config."},
				{ID: "chartCoverage", Name: "Chart coverage", Weight: 0.4,
					Evaluator: Automated{Fn: chartCoverage},
					Advice:    "Add the missing category, benchmark or priority charts."},
			},
		},
		{
			Key: CategoryNarrativeQuality, Name: "Narrative quality",
			Weight: 0.20, MinimumScore: 75, Flag: "narrativeAcceptable",
			Criteria: []Criterion{
				{ID: "clarity", Name: "Clarity", Weight: 0.4,
					Evaluator: ModelAssisted{
						Guidance: "Is the summary clear, specific to the company and free of jargon?",
						Excerpt:  sectionText(report.NarrativeExecutiveSummary),
						Fallback: DefaultFallbackScore,
					},
					Advice: "Rewrite the executive summary in plain, company-specific language."},
				{ID: "actionability", Name: "Actionability", Weight: 0.3,
					Evaluator: ModelAssisted{
						Guidance: "Does the text give concrete, prioritized next steps?",
						Excerpt:  roadmapExcerpt,
						Fallback: DefaultFallbackScore,
					},
					Advice: "Tie the roadmap commentary to concrete actions with owners and timelines."},
				{ID: "narrativeAvailability", Name: "Narrative availability", Weight: 0.3,
					Evaluator: Automated{Fn: narrativeAvailability},
					Advice:    "Retry narration for the sections marked as unavailable."},
			},
		},
		{
			Key: CategoryTechnicalCompliance, Name: "Technical compliance",
			Weight: 0.15, MinimumScore: 85, Flag: "technicallyCompliant",
			Criteria: []Criterion{
				{ID: "branding", Name: "Branding", Weight: 0.4,
					Evaluator: RuleBased{Expected: brandingTerms, Corpus: titleAndFooter},
					Advice:    "Put the brand, report name and company name in the title and footer."},
				{ID: "terminology", Name: "Terminology", Weight: 0.3,
					Evaluator: RuleBased{Expected: keyTerms, Corpus: (*report.Report).Text},
					Advice:    "State the grade, maturity level, industry and competitive position in the narrative."},
				{ID: "identifiers", Name: "Identifiers and metadata", Weight: 0.3,
					Evaluator: Automated{Fn: identifiers},
					Advice:    "Set the diagnosis id, generation time and catalog variant."},
			},
		},
	}}
}

func ratio(passed, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(passed) / float64(total) * 100
}

func sectionCompleteness(r *report.Report) float64 {
	present := r.PresentSections()
	n := 0
	for _, s := range report.RequiredSections {
		if present[s] {
			n++
		}
	}
	return ratio(n, len(report.RequiredSections))
}

// swotCoverage gives half the score for any strength or weakness and a quarter
// each for opportunities and threats.
func swotCoverage(r *report.Report) float64 {
	d := r.DetailedAnalysis
	score := 0.0
	if len(d.Strengths)+len(d.Weaknesses) > 0 {
		score += 50
	}
	if len(d.Opportunities) > 0 {
		score += 25
	}
	if len(d.Threats) > 0 {
		score += 25
	}
	return score
}

func scoreConsistency(r *report.Report) float64 {
	sa := r.ScoreAnalysis
	checks := []bool{
		sa.Grade == analysis.GradeFor(sa.Percentage),
		sa.MaturityLevel == analysis.MaturityFor(sa.Percentage),
		sa.Percentage >= 0 && sa.Percentage <= 100,
		sa.WeightedScore >= 0 && sa.WeightedScore <= 100,
	}
	if sa.MaxPossible > 0 {
		checks = append(checks, int(math.Round(sa.TotalScore/sa.MaxPossible*100)) == sa.Percentage)
	}
	for _, cs := range sa.CategoryScores {
		checks = append(checks, cs.Normalized >= 0 && cs.Normalized <= 100)
	}
	return ratio(countTrue(checks), len(checks))
}

func benchmarkConsistency(r *report.Report) float64 {
	bm := r.Benchmark
	checks := []bool{
		bm.Percentile == analysis.Percentile(r.ScoreAnalysis.Percentage, bm.Baseline, bm.Sigma),
		bm.CompetitivePosition == analysis.CompetitivePosition(bm.Percentile),
		len(bm.Categories) == len(r.ScoreAnalysis.CategoryScores),
	}
	for _, g := range bm.Categories {
		tier, _ := analysis.TierFor(g.Gap)
		checks = append(checks,
			math.Abs(g.Gap-(g.Benchmark-float64(g.Current))) < 0.05+1e-9,
			g.ImpactTier == tier,
		)
	}
	return ratio(countTrue(checks), len(checks))
}

func priorityConsistency(r *report.Report) float64 {
	var checks []bool
	for _, it := range r.PriorityMatrix {
		q, p := analysis.Place(it.Importance, it.Urgency)
		checks = append(checks,
			it.Importance >= 1 && it.Importance <= 10,
			it.Urgency >= 1 && it.Urgency <= 10,
			it.Quadrant == q && it.Phase == p,
		)
	}
	return ratio(countTrue(checks), len(checks))
}

func chartQuality(r *report.Report) float64 {
	if len(r.Charts) == 0 {
		return 0
	}
	valid := 0
	for _, c := range r.Charts {
		if c.Valid() {
			valid++
		}
	}
	return ratio(valid, len(r.Charts))
}

func chartCoverage(r *report.Report) float64 {
	expected := []string{report.ChartCategoryRadar, report.ChartBenchmarkComparison}
	if len(r.PriorityMatrix) > 0 {
		expected = append(expected, report.ChartPriorityMatrix)
	}
	have := make(map[string]bool, len(r.Charts))
	for _, c := range r.Charts {
		have[c.ID] = true
	}
	n := 0
	for _, id := range expected {
		if have[id] {
			n++
		}
	}
	return ratio(n, len(expected))
}

func narrativeAvailability(r *report.Report) float64 {
	if len(r.Narrative) == 0 {
		return 0
	}
	n := 0
	for _, s := range r.Narrative {
		if !s.DetailsUnavailable {
			n++
		}
	}
	return ratio(n, len(r.Narrative))
}

func identifiers(r *report.Report) float64 {
	_, err := questionnaire.Lookup(r.CatalogVariant)
	checks := []bool{
		r.DiagnosisID != "",
		!r.GeneratedAt.IsZero(),
		r.CatalogVariant != "" && err == nil,
		r.QuestionCount > 0,
	}
	return ratio(countTrue(checks), len(checks))
}

func sectionText(key string) func(r *report.Report) string {
	return func(r *report.Report) string {
		for _, s := range r.Narrative {
			if s.Key == key {
				return s.Text
			}
		}
		return ""
	}
}

func roadmapExcerpt(r *report.Report) string {
	var b strings.Builder
	b.WriteString(sectionText(report.NarrativeRoadmapCommentary)(r))
	for _, it := range r.Recommendations.Immediate {
		b.WriteString("\n- " + it.Title + " (" + it.Timeline + ")")
	}
	for _, it := range r.Recommendations.ShortTerm {
		b.WriteString("\n- " + it.Title + " (" + it.Timeline + ")")
	}
	return b.String()
}

func brandingTerms(r *report.Report) []string {
	return []string{r.Brand, "AI Readiness Report", r.Company.Name}
}

func titleAndFooter(r *report.Report) string {
	return r.Title + "\n" + r.Footer
}

func keyTerms(r *report.Report) []string {
	return []string{
		"grade " + r.ScoreAnalysis.Grade,
		string(r.ScoreAnalysis.MaturityLevel),
		r.Benchmark.IndustryLabel,
		r.Benchmark.CompetitivePosition,
	}
}

// KeywordRatio returns the share of non-empty expected terms found in corpus,
// case-insensitively, as 0-100.
func KeywordRatio(expected []string, corpus string) float64 {
	corpus = strings.ToLower(corpus)
	found, total := 0, 0
	for _, term := range expected {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		total++
		if strings.Contains(corpus, term) {
			found++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(found) / float64(total) * 100
}

func countTrue(checks []bool) int {
	n := 0
	for _, ok := range checks {
		if ok {
			n++
		}
	}
	return n
}
