package report

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"
)

// Narrative section keys.
const (
	NarrativeExecutiveSummary    = "executiveSummary"
	NarrativeBenchmarkCommentary = "benchmarkCommentary"
	NarrativeRoadmapCommentary   = "roadmapCommentary"
)

// Narrative text sources.
const (
	SourceTemplate = "template"
	SourceNarrator = "narrator"
)

// DetailsUnavailableNote is appended to sections whose narration failed.
const DetailsUnavailableNote = "Detailed commentary is unavailable for this section."

type NarrativeSection struct {
	Key                string            `json:"key"`
	Title              string            `json:"title"`
	Text               string            `json:"text"`
	Source             string            `json:"source"`
	DetailsUnavailable bool              `json:"detailsUnavailable,omitempty"`
	Facts              map[string]string `json:"-"`
}

// MarkUnavailable keeps the template text and flags the section.
func (s *NarrativeSection) MarkUnavailable() {
	s.DetailsUnavailable = true
	if !strings.Contains(s.Text, DetailsUnavailableNote) {
		s.Text = strings.TrimSpace(s.Text + " " + DetailsUnavailableNote)
	}
}

// TemplateSections renders the deterministic narrative of a report.
func TemplateSections(r *Report) []NarrativeSection {
	sa := r.ScoreAnalysis
	bm := r.Benchmark

	strongest, weakest := extremes(sa.CategoryScores)
	summary := fmt.Sprintf("%s scored %d%% on the %s-item AI readiness diagnosis, grade %s at the %s maturity level.",
		r.Company.Name, sa.Percentage, r.CatalogVariant, sa.Grade, sa.MaturityLevel)
	if strongest.Category != "" {
		summary += fmt.Sprintf(" The strongest area is %s (%d/100) and the weakest is %s (%d/100).",
			strongest.Label, strongest.Normalized, weakest.Label, weakest.Normalized)
	}

	trailing := 0
	for _, g := range bm.Categories {
		if g.Gap > 10 {
			trailing++
		}
	}
	benchmark := fmt.Sprintf("Against the %s baseline of %.0f, the company sits at the %.1f percentile (%s). %d categories trail the benchmark by more than 10 points.",
		bm.IndustryLabel, bm.Baseline, bm.Percentile, bm.CompetitivePosition, trailing)

	rm := r.Recommendations
	roadmap := fmt.Sprintf("The roadmap holds %d immediate actions, %d short-term actions and %d long-term actions.",
		len(rm.Immediate), len(rm.ShortTerm), len(rm.LongTerm))
	if len(r.PriorityMatrix) > 0 {
		roadmap += " First priority: " + r.PriorityMatrix[0].Item + "."
	} else {
		roadmap += " Every category meets or exceeds its benchmark."
	}

	facts := map[string]string{
		"company":             r.Company.Name,
		"industry":            bm.IndustryLabel,
		"percentage":          fmt.Sprintf("%d", sa.Percentage),
		"grade":               sa.Grade,
		"maturityLevel":       string(sa.MaturityLevel),
		"percentile":          fmt.Sprintf("%.1f", bm.Percentile),
		"competitivePosition": bm.CompetitivePosition,
	}

	return []NarrativeSection{
		{Key: NarrativeExecutiveSummary, Title: "Executive summary", Text: summary, Source: SourceTemplate, Facts: facts},
		{Key: NarrativeBenchmarkCommentary, Title: "Benchmark commentary", Text: benchmark, Source: SourceTemplate, Facts: facts},
		{Key: NarrativeRoadmapCommentary, Title: "Roadmap commentary", Text: roadmap, Source: SourceTemplate, Facts: facts},
	}
}

func extremes(scores []analysis.CategoryScore) (strongest, weakest analysis.CategoryScore) {
	for i, cs := range scores {
		if i == 0 || cs.Normalized > strongest.Normalized {
			strongest = cs
		}
		if i == 0 || cs.Normalized < weakest.Normalized {
			weakest = cs
		}
	}
	return strongest, weakest
}
