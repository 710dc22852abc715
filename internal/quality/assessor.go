package quality

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/narrative"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/report"
)

// Status of a criterion or category against its pass mark.
type Status string

const (
	StatusPass    Status = "Pass"
	StatusWarning Status = "Warning"
	StatusFail    Status = "Fail"
)

// Level is the overall quality label.
type Level string

const (
	LevelExcellent  Level = "Excellent"
	LevelGood       Level = "Good"
	LevelAcceptable Level = "Acceptable"
	LevelPoor       Level = "Poor"
)

// Priority of a recommendation.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
)

// warningBand is the share of the pass mark that still counts as a warning.
const warningBand = 0.8

type CriterionResult struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Method    Method  `json:"method"`
	Weight    float64 `json:"weight"`
	Score     float64 `json:"score"`
	Status    Status  `json:"status"`
	Fallback  bool    `json:"fallback,omitempty"`
	Rationale string  `json:"rationale,omitempty"`
}

type CategoryResult struct {
	Key          string            `json:"key"`
	Name         string            `json:"name"`
	Weight       float64           `json:"weight"`
	MinimumScore float64           `json:"minimumScore"`
	Score        float64           `json:"score"`
	Status       Status            `json:"status"`
	Criteria     []CriterionResult `json:"criteria"`
}

type Recommendation struct {
	Category  string   `json:"category"`
	Criterion string   `json:"criterion"`
	Priority  Priority `json:"priority"`
	Score     float64  `json:"score"`
	Message   string   `json:"message"`
}

// Assessment is the quality result of one report.
type Assessment struct {
	OverallScore     float64             `json:"overallScore"`
	QualityLevel     Level               `json:"qualityLevel"`
	Categories       []CategoryResult    `json:"categories"`
	Recommendations  []Recommendation    `json:"recommendations"`
	ComplianceStatus map[string]bool     `json:"complianceStatus"`
	Warnings         []apperrors.Warning `json:"warnings"`
}

// Category returns the result of one rubric category.
func (a *Assessment) Category(key string) (CategoryResult, bool) {
	for _, c := range a.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return CategoryResult{}, false
}

// Compliant reports whether every compliance flag is set.
func (a *Assessment) Compliant() bool {
	for _, ok := range a.ComplianceStatus {
		if !ok {
			return false
		}
	}
	return true
}

// StatusFor grades a score against a pass mark.
func StatusFor(score, minimum float64) Status {
	switch {
	case score >= minimum:
		return StatusPass
	case score >= warningBand*minimum:
		return StatusWarning
	default:
		return StatusFail
	}
}

func LevelFor(score float64) Level {
	switch {
	case score >= 90:
		return LevelExcellent
	case score >= 80:
		return LevelGood
	case score >= 70:
		return LevelAcceptable
	default:
		return LevelPoor
	}
}

// Assessor evaluates reports against a rubric. It holds no per-report state
// and is safe for concurrent use.
type Assessor struct {
	rubric Rubric
	judge  narrative.Judge
	logger *slog.Logger
}

type Option func(*Assessor)

// WithJudge sets the model-assisted judge. Judges that are not already guarded
// are wrapped with the given timeout.
func WithJudge(j narrative.Judge, timeout time.Duration) Option {
	return func(a *Assessor) {
		if j == nil {
			a.judge = nil
			return
		}
		if _, ok := j.(*narrative.GuardedJudge); !ok {
			j = narrative.NewGuardedJudge(j, narrative.Guard{Timeout: timeout})
		}
		a.judge = j
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Assessor) { a.logger = l }
}

// NewAssessor validates the rubric and returns an assessor.
func NewAssessor(rubric Rubric, opts ...Option) (*Assessor, error) {
	if err := rubric.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError("invalid quality rubric", err)
	}
	a := &Assessor{rubric: rubric.clone(), logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Assessor) Rubric() Rubric { return a.rubric.clone() }

type judged struct {
	score     float64
	fallback  bool
	rationale string
}

// Assess scores r. Model-assisted criteria are judged concurrently; a failed or
// missing judge yields the criterion's fallback score and a warning.
func (a *Assessor) Assess(ctx context.Context, r *report.Report) *Assessment {
	verdicts := a.judgeAll(ctx, r)

	out := &Assessment{
		Categories:       make([]CategoryResult, 0, len(a.rubric.Categories)),
		Recommendations:  []Recommendation{},
		ComplianceStatus: make(map[string]bool, len(a.rubric.Categories)),
		Warnings:         []apperrors.Warning{},
	}

	scores := make(map[string]float64)
	for _, c := range a.rubric.Categories {
		cr := CategoryResult{
			Key:          c.Key,
			Name:         c.Name,
			Weight:       c.Weight,
			MinimumScore: c.MinimumScore,
			Criteria:     make([]CriterionResult, 0, len(c.Criteria)),
		}
		for _, crit := range c.Criteria {
			res := CriterionResult{
				ID:     crit.ID,
				Name:   crit.Name,
				Method: crit.Evaluator.Method(),
				Weight: crit.Weight,
			}
			switch ev := crit.Evaluator.(type) {
			case Automated:
				res.Score = ev.Fn(r)
			case RuleBased:
				res.Score = KeywordRatio(ev.Expected(r), ev.Corpus(r))
			case ModelAssisted:
				v := verdicts[crit.ID]
				res.Score, res.Fallback, res.Rationale = v.score, v.fallback, v.rationale
			}
			res.Score = clamp(res.Score)
			scores[crit.ID] = res.Score

			threshold := crit.Threshold
			if threshold <= 0 {
				threshold = c.MinimumScore
			}
			res.Status = StatusFor(res.Score, threshold)
			if res.Status != StatusPass {
				out.Recommendations = append(out.Recommendations, recommend(c, crit, res))
			}
			res.Score = round1(res.Score)
			cr.Criteria = append(cr.Criteria, res)
		}
		out.Categories = append(out.Categories, cr)
	}

	categoryScores, overall := score(a.rubric, scores)
	for i, c := range a.rubric.Categories {
		s := categoryScores[c.Key]
		out.Categories[i].Score = round1(s)
		out.Categories[i].Status = StatusFor(s, c.MinimumScore)
		out.ComplianceStatus[c.Flag] = s >= c.MinimumScore
	}
	out.OverallScore = round1(overall)
	out.QualityLevel = LevelFor(overall)

	for _, v := range verdicts {
		if v.fallback {
			out.Warnings = append(out.Warnings, apperrors.NewWarning(apperrors.WarningNarrativeUnavailable,
				"narrative quality judge unavailable; neutral fallback score used"))
			break
		}
	}

	a.logger.Debug("Quality assessment completed",
		"diagnosis_id", r.DiagnosisID,
		"overall_score", out.OverallScore,
		"quality_level", out.QualityLevel,
		"recommendations", len(out.Recommendations))
	return out
}

// judgeAll calls the judge for every model-assisted criterion.
func (a *Assessor) judgeAll(ctx context.Context, r *report.Report) map[string]judged {
	type job struct {
		crit Criterion
		ev   ModelAssisted
	}
	var jobs []job
	for _, c := range a.rubric.Categories {
		for _, crit := range c.Criteria {
			if ev, ok := crit.Evaluator.(ModelAssisted); ok {
				jobs = append(jobs, job{crit: crit, ev: ev})
			}
		}
	}

	results := make([]judged, len(jobs))
	if a.judge == nil {
		for i, j := range jobs {
			results[i] = judged{score: j.ev.Fallback, fallback: true, rationale: "no judge configured"}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, j := range jobs {
			g.Go(func() error {
				res, err := a.judge.Judge(gctx, narrative.JudgeRequest{
					CriterionID: j.crit.ID,
					Criterion:   j.crit.Name,
					Guidance:    j.ev.Guidance,
					Excerpt:     j.ev.Excerpt(r),
				})
				if err != nil {
					a.logger.Warn("Model-assisted criterion fell back",
						"criterion", j.crit.ID,
						"fallback_score", j.ev.Fallback,
						"error", err)
					results[i] = judged{score: j.ev.Fallback, fallback: true, rationale: "judge unavailable"}
					return nil
				}
				results[i] = judged{score: res.Score, rationale: res.Rationale}
				return nil
			})
		}
		_ = g.Wait()
	}

	out := make(map[string]judged, len(jobs))
	for i, j := range jobs {
		out[j.crit.ID] = results[i]
	}
	return out
}

// score computes category scores as the weighted sum of criterion scores and
// the overall score as the weighted sum of category scores.
func score(rubric Rubric, criterionScores map[string]float64) (map[string]float64, float64) {
	categories := make(map[string]float64, len(rubric.Categories))
	overall := 0.0
	for _, c := range rubric.Categories {
		s := 0.0
		for _, crit := range c.Criteria {
			s += clamp(criterionScores[crit.ID]) * crit.Weight
		}
		categories[c.Key] = s
		overall += s * c.Weight
	}
	return categories, overall
}

func recommend(c Category, crit Criterion, res CriterionResult) Recommendation {
	priority := PriorityHigh
	if res.Status == StatusFail {
		priority = PriorityCritical
	}
	msg := crit.Advice
	if msg == "" {
		msg = fmt.Sprintf("Improve %s", crit.Name)
	}
	return Recommendation{
		Category:  c.Key,
		Criterion: crit.ID,
		Priority:  priority,
		Score:     round1(res.Score),
		Message:   msg,
	}
}

func clamp(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
