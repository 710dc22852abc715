// Package quality scores an assembled report against a weighted rubric and
// derives compliance flags and improvement recommendations.
package quality

import (
	"fmt"
	"math"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/report"
)

// Method names the evaluation method of a criterion.
type Method string

const (
	MethodAutomated     Method = "automated"
	MethodRuleBased     Method = "ruleBased"
	MethodModelAssisted Method = "modelAssisted"
)

// DefaultFallbackScore is used when a model-assisted criterion cannot be judged.
const DefaultFallbackScore = 80.0

const weightTolerance = 1e-6

// Evaluator is one of Automated, RuleBased or ModelAssisted.
type Evaluator interface {
	Method() Method
	sealed()
}

// Automated scores a structural property of the report, 0-100.
type Automated struct {
	Fn func(r *report.Report) float64
}

// RuleBased scores the share of expected terms found in a text corpus.
type RuleBased struct {
	Expected func(r *report.Report) []string
	Corpus   func(r *report.Report) string
}

// ModelAssisted delegates to the external judge. Fallback is the score used
// when the judge is missing, times out or fails.
type ModelAssisted struct {
	Guidance string
	Excerpt  func(r *report.Report) string
	Fallback float64
}

func (Automated) Method() Method     { return MethodAutomated }
func (RuleBased) Method() Method     { return MethodRuleBased }
func (ModelAssisted) Method() Method { return MethodModelAssisted }

func (Automated) sealed()     {}
func (RuleBased) sealed()     {}
func (ModelAssisted) sealed() {}

type Criterion struct {
	ID        string
	Name      string
	Weight    float64
	Evaluator Evaluator
	// Threshold is the pass mark of the criterion; zero means the category minimum.
	Threshold float64
	// Advice is the recommendation text emitted when the criterion does not pass.
	Advice string
}

type Category struct {
	Key          string
	Name         string
	Weight       float64
	MinimumScore float64
	// Flag is the compliance flag set when the category reaches MinimumScore.
	Flag     string
	Criteria []Criterion
}

// Rubric is an ordered list of weighted categories.
type Rubric struct {
	Categories []Category
}

// Validate checks weights and evaluator wiring.
func (r Rubric) Validate() error {
	if len(r.Categories) == 0 {
		return fmt.Errorf("rubric has no categories")
	}

	seen := make(map[string]bool)
	total := 0.0
	for _, c := range r.Categories {
		total += c.Weight
		if c.Flag == "" {
			return fmt.Errorf("category %s has no compliance flag", c.Key)
		}
		if c.MinimumScore <= 0 || c.MinimumScore > 100 {
			return fmt.Errorf("category %s minimum score %v outside (0, 100]", c.Key, c.MinimumScore)
		}
		if n := len(c.Criteria); n < 2 || n > 4 {
			return fmt.Errorf("category %s has %d criteria, want 2-4", c.Key, n)
		}

		sum := 0.0
		for _, cr := range c.Criteria {
			if seen[cr.ID] {
				return fmt.Errorf("duplicate criterion id %s", cr.ID)
			}
			seen[cr.ID] = true
			if cr.Weight <= 0 {
				return fmt.Errorf("criterion %s has non-positive weight", cr.ID)
			}
			if err := validateEvaluator(cr); err != nil {
				return err
			}
			sum += cr.Weight
		}
		if math.Abs(sum-1) > weightTolerance {
			return fmt.Errorf("criteria weights of %s sum to %v, want 1", c.Key, sum)
		}
	}
	if math.Abs(total-1) > weightTolerance {
		return fmt.Errorf("category weights sum to %v, want 1", total)
	}
	return nil
}

func validateEvaluator(cr Criterion) error {
	switch ev := cr.Evaluator.(type) {
	case Automated:
		if ev.Fn == nil {
			return fmt.Errorf("criterion %s: automated evaluator has no function", cr.ID)
		}
	case RuleBased:
		if ev.Expected == nil || ev.Corpus == nil {
			return fmt.Errorf("criterion %s: rule-based evaluator is incomplete", cr.ID)
		}
	case ModelAssisted:
		if ev.Excerpt == nil {
			return fmt.Errorf("criterion %s: model-assisted evaluator has no excerpt", cr.ID)
		}
		if ev.Fallback < 0 || ev.Fallback > 100 {
			return fmt.Errorf("criterion %s: fallback %v outside 0-100", cr.ID, ev.Fallback)
		}
	default:
		return fmt.Errorf("criterion %s has no evaluator", cr.ID)
	}
	return nil
}

// Category returns a category by key.
func (r Rubric) Category(key string) (Category, bool) {
	for _, c := range r.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

func (r Rubric) clone() Rubric {
	out := Rubric{Categories: make([]Category, len(r.Categories))}
	for i, c := range r.Categories {
		c.Criteria = append([]Criterion(nil), c.Criteria...)
		out.Categories[i] = c
	}
	return out
}

// WithMinimums returns a copy with the minimum scores of the named categories
// replaced. Unknown keys are ignored.
func (r Rubric) WithMinimums(minimums map[string]float64) Rubric {
	out := r.clone()
	for i := range out.Categories {
		if v, ok := minimums[out.Categories[i].Key]; ok {
			out.Categories[i].MinimumScore = v
		}
	}
	return out
}

// WithFallbackScore returns a copy whose model-assisted criteria fall back to score.
func (r Rubric) WithFallbackScore(score float64) Rubric {
	out := r.clone()
	for i := range out.Categories {
		for j, cr := range out.Categories[i].Criteria {
			if ev, ok := cr.Evaluator.(ModelAssisted); ok {
				ev.Fallback = score
				out.Categories[i].Criteria[j].Evaluator = ev
			}
		}
	}
	return out
}
