// Package questionnaire holds the question catalogs and turns raw submissions
// into complete, clamped response sets.
package questionnaire

import (
	"fmt"
	"math"
)

// WeightTolerance is the allowed deviation of a catalog's weight sum from 1.0.
const WeightTolerance = 1e-6

// Variant names a catalog by its item count.
type Variant string

const (
	VariantCore     Variant = "20"
	VariantExtended Variant = "45"
)

// Question is one weighted questionnaire item.
type Question struct {
	ID       string  `json:"id" yaml:"id"`
	Category string  `json:"category" yaml:"category"`
	Text     string  `json:"text" yaml:"text"`
	Weight   float64 `json:"weight" yaml:"weight"`
	ScaleMax float64 `json:"scaleMax" yaml:"scaleMax"`
}

// Category is a named grouping of questions.
type Category struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Catalog is an ordered question set. Question order is the discovery order used
// everywhere a deterministic ordering is needed.
type Catalog struct {
	Variant    Variant    `json:"variant" yaml:"variant"`
	Categories []Category `json:"categories" yaml:"categories"`
	Questions  []Question `json:"questions" yaml:"questions"`

	index map[string]int
}

// NewCatalog builds a catalog and indexes it. It does not validate weights; call Validate.
func NewCatalog(variant Variant, categories []Category, questions []Question) *Catalog {
	c := &Catalog{
		Variant:    variant,
		Categories: categories,
		Questions:  questions,
	}
	c.reindex()
	return c
}

func (c *Catalog) reindex() {
	c.index = make(map[string]int, len(c.Questions))
	for i, q := range c.Questions {
		c.index[q.ID] = i
	}
}

// Len returns the number of questions.
func (c *Catalog) Len() int { return len(c.Questions) }

// Question looks up a question by id.
func (c *Catalog) Question(id string) (Question, bool) {
	if c.index == nil {
		c.reindex()
	}
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.Questions[i], true
}

// QuestionsIn returns the questions of a category in catalog order.
func (c *Catalog) QuestionsIn(category string) []Question {
	var qs []Question
	for _, q := range c.Questions {
		if q.Category == category {
			qs = append(qs, q)
		}
	}
	return qs
}

// CategoryKeys returns category keys in declaration order.
func (c *Catalog) CategoryKeys() []string {
	keys := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		keys[i] = cat.Key
	}
	return keys
}

// Label returns the display label of a category, or the key when unknown.
func (c *Catalog) Label(category string) string {
	for _, cat := range c.Categories {
		if cat.Key == category {
			return cat.Label
		}
	}
	return category
}

// CategoryWeight is the sum of the weights of the category's questions.
func (c *Catalog) CategoryWeight(category string) float64 {
	w := 0.0
	for _, q := range c.Questions {
		if q.Category == category {
			w += q.Weight
		}
	}
	return w
}

// CategoryWeights returns the aggregated weight of every category.
func (c *Catalog) CategoryWeights() map[string]float64 {
	weights := make(map[string]float64, len(c.Categories))
	for _, q := range c.Questions {
		weights[q.Category] += q.Weight
	}
	return weights
}

// MaxPossible is the largest attainable raw total.
func (c *Catalog) MaxPossible() float64 {
	total := 0.0
	for _, q := range c.Questions {
		total += q.ScaleMax
	}
	return total
}

// Validate checks ids, scales, category membership and the weight sum.
func (c *Catalog) Validate() error {
	if len(c.Questions) == 0 {
		return fmt.Errorf("catalog %s has no questions", c.Variant)
	}

	known := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Key == "" {
			return fmt.Errorf("catalog %s has a category without a key", c.Variant)
		}
		known[cat.Key] = true
	}

	seen := make(map[string]bool, len(c.Questions))
	sum := 0.0
	for _, q := range c.Questions {
		if q.ID == "" {
			return fmt.Errorf("catalog %s has a question without an id", c.Variant)
		}
		if seen[q.ID] {
			return fmt.Errorf("catalog %s: duplicate question id %q", c.Variant, q.ID)
		}
		seen[q.ID] = true
		if !known[q.Category] {
			return fmt.Errorf("catalog %s: question %q references unknown category %q", c.Variant, q.ID, q.Category)
		}
		if q.ScaleMax <= 0 {
			return fmt.Errorf("catalog %s: question %q has non-positive scaleMax", c.Variant, q.ID)
		}
		if q.Weight < 0 {
			return fmt.Errorf("catalog %s: question %q has negative weight", c.Variant, q.ID)
		}
		sum += q.Weight
	}

	if math.Abs(sum-1.0) > WeightTolerance {
		return fmt.Errorf("catalog %s: weights sum to %.9f, want 1.0", c.Variant, sum)
	}

	return nil
}
