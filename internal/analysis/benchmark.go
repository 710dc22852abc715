package analysis

import (
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

const (
	// DefaultSigma is the spread of the industry peer distribution.
	DefaultSigma = 15.0
	// DefaultIndustryKey names the global fallback baseline.
	DefaultIndustryKey = "default"

	percentileFloor   = 5.0
	percentileCeiling = 95.0
)

// Competitive position labels, ordered by percentile.
const (
	PositionBehind       = "Behind"
	PositionAverage      = "Average"
	PositionAboveAverage = "Above Average"
	PositionLeader       = "Leader"
)

// IndustryBaseline is the peer distribution of one industry.
type IndustryBaseline struct {
	Key        string             `json:"key" yaml:"key"`
	Label      string             `json:"label" yaml:"label"`
	Mean       float64            `json:"mean" yaml:"mean"`
	Sigma      float64            `json:"sigma" yaml:"sigma"`
	Categories map[string]float64 `json:"categories,omitempty" yaml:"categories,omitempty"`
	Aliases    []string           `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// CategoryBenchmark returns the category baseline, falling back to the overall mean.
func (b IndustryBaseline) CategoryBenchmark(category string) float64 {
	if v, ok := b.Categories[category]; ok {
		return v
	}
	return b.Mean
}

// BenchmarkTable is an immutable industry -> baseline lookup.
type BenchmarkTable struct {
	fallback   IndustryBaseline
	industries map[string]IndustryBaseline
	aliases    map[string]string
	sizeAdjust map[questionnaire.SizeBucket]float64
}

// NewBenchmarkTable builds a table. Baselines without a sigma get DefaultSigma.
func NewBenchmarkTable(fallback IndustryBaseline, industries []IndustryBaseline, sizeAdjust map[questionnaire.SizeBucket]float64) *BenchmarkTable {
	t := &BenchmarkTable{
		fallback:   withDefaults(fallback),
		industries: make(map[string]IndustryBaseline, len(industries)),
		aliases:    make(map[string]string),
		sizeAdjust: make(map[questionnaire.SizeBucket]float64, len(sizeAdjust)),
	}
	for size, adj := range sizeAdjust {
		t.sizeAdjust[size] = adj
	}
	for _, b := range industries {
		t.add(b)
	}
	return t
}

func withDefaults(b IndustryBaseline) IndustryBaseline {
	if b.Sigma <= 0 {
		b.Sigma = DefaultSigma
	}
	if b.Key == "" {
		b.Key = DefaultIndustryKey
	}
	if b.Label == "" {
		b.Label = b.Key
	}
	return b
}

func (t *BenchmarkTable) add(b IndustryBaseline) {
	b = withDefaults(b)
	t.industries[b.Key] = b
	t.aliases[normalizeIndustry(b.Key)] = b.Key
	t.aliases[normalizeIndustry(b.Label)] = b.Key
	for _, alias := range b.Aliases {
		t.aliases[normalizeIndustry(alias)] = b.Key
	}
}

// With returns a copy of the table with the given baselines added or replaced.
// An override keeps the aliases and category values of the entry it replaces
// unless it sets its own.
func (t *BenchmarkTable) With(overrides ...IndustryBaseline) *BenchmarkTable {
	industries := make([]IndustryBaseline, 0, len(t.industries)+len(overrides))
	for _, b := range t.industries {
		industries = append(industries, b)
	}
	next := NewBenchmarkTable(t.fallback, industries, t.sizeAdjust)

	for _, o := range overrides {
		if o.Key == DefaultIndustryKey {
			next.fallback = withDefaults(mergeBaseline(next.fallback, o))
			continue
		}
		if existing, ok := next.industries[o.Key]; ok {
			o = mergeBaseline(existing, o)
		}
		next.add(o)
	}
	return next
}

func mergeBaseline(base, o IndustryBaseline) IndustryBaseline {
	if o.Label == "" {
		o.Label = base.Label
	}
	if o.Sigma <= 0 {
		o.Sigma = base.Sigma
	}
	if o.Mean == 0 {
		o.Mean = base.Mean
	}
	if len(o.Aliases) == 0 {
		o.Aliases = base.Aliases
	}
	if len(o.Categories) == 0 {
		o.Categories = base.Categories
	}
	return o
}

// WithSizeAdjustments returns a copy of the table using the given size offsets.
func (t *BenchmarkTable) WithSizeAdjustments(adj map[questionnaire.SizeBucket]float64) *BenchmarkTable {
	return NewBenchmarkTable(t.fallback, t.Industries(), adj)
}

// Resolve finds the baseline for an industry name or alias. The second return
// is false when the global fallback was used.
func (t *BenchmarkTable) Resolve(industry string) (IndustryBaseline, bool) {
	key, ok := t.aliases[normalizeIndustry(industry)]
	if !ok {
		return t.fallback, false
	}
	return t.industries[key], true
}

// Fallback returns the global default baseline.
func (t *BenchmarkTable) Fallback() IndustryBaseline { return t.fallback }

// Industries returns every baseline sorted by key.
func (t *BenchmarkTable) Industries() []IndustryBaseline {
	out := make([]IndustryBaseline, 0, len(t.industries))
	for _, b := range t.industries {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// SizeAdjustment returns the additive baseline offset of a size bucket.
func (t *BenchmarkTable) SizeAdjustment(size questionnaire.SizeBucket) float64 {
	return t.sizeAdjust[size]
}

func normalizeIndustry(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "")
}

// Percentile places a percentage in a normal peer distribution and returns
// 100*Phi((percentage-mean)/sigma), rounded to one decimal and clamped to [5, 95].
func Percentile(percentage int, mean, sigma float64) float64 {
	if sigma <= 0 {
		sigma = DefaultSigma
	}
	p := round1(100 * normalCDF((float64(percentage)-mean)/sigma))
	return clip(p, percentileFloor, percentileCeiling)
}

// CompetitivePosition labels a percentile.
func CompetitivePosition(percentile float64) string {
	switch {
	case percentile < 25:
		return PositionBehind
	case percentile < 50:
		return PositionAverage
	case percentile <= 75:
		return PositionAboveAverage
	default:
		return PositionLeader
	}
}

// TierFor classifies a category gap (benchmark minus current).
func TierFor(gap float64) (ImpactTier, Phase) {
	switch {
	case gap > 20:
		return TierCritical, PhaseImmediate
	case gap > 10:
		return TierMedium, PhaseShortTerm
	default:
		return TierNone, ""
	}
}

// CompareToBenchmark computes the percentile, competitive position and
// per-category gaps of a score analysis against the company's industry.
func (t *BenchmarkTable) CompareToBenchmark(scores ScoreAnalysis, company questionnaire.Company) BenchmarkGap {
	baseline, found := t.Resolve(company.Industry)
	adj := t.SizeAdjustment(company.Size)
	mean := baseline.Mean + adj

	percentile := Percentile(scores.Percentage, mean, baseline.Sigma)
	result := BenchmarkGap{
		Industry:            baseline.Key,
		IndustryLabel:       baseline.Label,
		Baseline:            mean,
		Sigma:               baseline.Sigma,
		SizeAdjustment:      adj,
		Percentile:          percentile,
		CompetitivePosition: CompetitivePosition(percentile),
		Categories:          make([]CategoryGap, 0, len(scores.CategoryScores)),
		Fallback:            !found,
	}

	for _, cs := range scores.CategoryScores {
		bench := baseline.CategoryBenchmark(cs.Category) + adj
		gap := round1(bench - float64(cs.Normalized))
		tier, phase := TierFor(gap)
		result.Categories = append(result.Categories, CategoryGap{
			Category:   cs.Category,
			Label:      cs.Label,
			Current:    cs.Normalized,
			Benchmark:  bench,
			Gap:        gap,
			ImpactTier: tier,
			Phase:      phase,
			Weight:     cs.Weight,
		})
	}

	return result
}
