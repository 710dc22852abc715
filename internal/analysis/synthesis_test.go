package analysis

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	q "github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

func TestSynthesizeStrengthsAndWeaknesses(t *testing.T) {
	catalog := q.CoreCatalog()
	responses := map[string]any{
		"ca1": 5, "ca2": 5, "ca3": 5, "ca4": 5,
		"or1": 3, "or2": 3, "or3": 3, "or4": 3,
		"ti1": 1, "ti2": 3, "ti3": 3, "ti4": 3,
		"gc1": 4, "gc2": 4, "gc3": 4, "gc4": 3,
		"ec1": 4, "ec2": 5, "ec3": 4, "ec4": 4,
	}
	set := normalizeSet(t, catalog, "finance", "", responses)
	scores := Aggregate(set)

	swot := DefaultSWOTLibrary().Synthesize(scores, set, "finance")

	require.Len(t, swot.Strengths, 3)
	assert.Equal(t, q.CategoryCurrentAI, swot.Strengths[0].Category)
	assert.Equal(t, "ca1", swot.Strengths[0].QuestionID)
	assert.Equal(t, SourceResponse, swot.Strengths[0].Source)
	assert.NotEmpty(t, swot.Strengths[0].ActionItems)

	assert.Equal(t, q.CategoryGoalClarity, swot.Strengths[1].Category)
	assert.Equal(t, "gc1", swot.Strengths[1].QuestionID)

	assert.Equal(t, q.CategoryExecutionCapability, swot.Strengths[2].Category)
	assert.Equal(t, "ec2", swot.Strengths[2].QuestionID)
	assert.Equal(t, SourceCategory, swot.Strengths[2].Source)

	// organizationReadiness sits at 60 but no answer is at or below 2
	require.Len(t, swot.Weaknesses, 1)
	assert.Equal(t, q.CategoryTechInfrastructure, swot.Weaknesses[0].Category)
	assert.Equal(t, "ti1", swot.Weaknesses[0].QuestionID)

	assert.Len(t, swot.Opportunities, 2)
	assert.Len(t, swot.Threats, 3)
	for _, th := range swot.Threats {
		assert.Equal(t, SourceIndustryTemplate, th.Source)
		assert.NotEmpty(t, th.Category)
	}
}

func TestSynthesizeAllZero(t *testing.T) {
	set := uniformSet(t, q.CoreCatalog(), "finance", 0)
	swot := DefaultSWOTLibrary().Synthesize(Aggregate(set), set, "finance")

	assert.Empty(t, swot.Strengths)
	assert.Len(t, swot.Weaknesses, 5)
	// ties resolve to the first question of the category
	assert.Equal(t, "ca1", swot.Weaknesses[0].QuestionID)
}

func TestSynthesizeNoThresholdCrossed(t *testing.T) {
	set := uniformSet(t, q.CoreCatalog(), "unknown", 3.5)
	swot := DefaultSWOTLibrary().Synthesize(Aggregate(set), set, DefaultIndustryKey)

	assert.NotNil(t, swot.Strengths)
	assert.Empty(t, swot.Strengths)
	assert.Empty(t, swot.Weaknesses)
	assert.NotEmpty(t, swot.Opportunities)
}

func TestImportanceAndUrgency(t *testing.T) {
	assert.Equal(t, 10.0, Importance(0.2, 0.2, 60))
	assert.Equal(t, 1.0, Importance(0, 0.2, 0))
	assert.Equal(t, 8.0, Importance(0.2, 0.2, 25))
	assert.Equal(t, 4.4, Importance(0.15, 0.2, 5))

	assert.Equal(t, 8.0, Urgency(TierCritical, false))
	assert.Equal(t, 10.0, Urgency(TierCritical, true))
	assert.Equal(t, 5.0, Urgency(TierMedium, false))
	assert.Equal(t, 7.0, Urgency(TierMedium, true))
	assert.Equal(t, 3.0, Urgency(TierNone, false))
}

func TestPlace(t *testing.T) {
	tests := []struct {
		importance, urgency float64
		quadrant            Quadrant
		phase               Phase
	}{
		{8, 8, QuadrantDoFirst, PhaseImmediate},
		{5.5, 5.5, QuadrantDoFirst, PhaseImmediate},
		{8, 3, QuadrantSchedule, PhaseShortTerm},
		{3, 8, QuadrantDelegate, PhaseLongTerm},
		{5.4, 5.4, QuadrantMonitor, PhaseLongTerm},
	}
	for _, tt := range tests {
		quadrant, phase := Place(tt.importance, tt.urgency)
		assert.Equal(t, tt.quadrant, quadrant)
		assert.Equal(t, tt.phase, phase)
	}
}

func sampleGaps() BenchmarkGap {
	mk := func(cat string, weight, gap float64) CategoryGap {
		tier, phase := TierFor(gap)
		return CategoryGap{Category: cat, Label: cat, Weight: weight, Gap: gap, ImpactTier: tier, Phase: phase}
	}
	return BenchmarkGap{Categories: []CategoryGap{
		mk("lowWeight", 0.15, 5),
		mk("medium", 0.2, 15),
		mk("ahead", 0.2, -3),
		mk("critical", 0.2, 25),
	}}
}

func TestBuildPriorityMatrix(t *testing.T) {
	items := BuildPriorityMatrix(sampleGaps(), SWOTResult{}, nil)

	require.Len(t, items, 3)
	assert.Equal(t, "critical", items[0].Category)
	assert.Equal(t, QuadrantDoFirst, items[0].Quadrant)
	assert.Equal(t, PhaseImmediate, items[0].Phase)

	assert.Equal(t, "medium", items[1].Category)
	assert.Equal(t, 6.6, items[1].Importance)
	assert.Equal(t, QuadrantSchedule, items[1].Quadrant)

	assert.Equal(t, "lowWeight", items[2].Category)
	assert.Equal(t, QuadrantMonitor, items[2].Quadrant)
	assert.Equal(t, PhaseLongTerm, items[2].Phase)
}

func TestBuildPriorityMatrixThreatOverlap(t *testing.T) {
	swot := SWOTResult{Threats: []SWOTItem{{Description: "x", Category: "medium", Source: SourceIndustryTemplate}}}
	items := BuildPriorityMatrix(sampleGaps(), swot, nil)

	require.Len(t, items, 3)
	assert.Equal(t, "medium", items[1].Category)
	assert.Equal(t, 7.0, items[1].Urgency)
	assert.Equal(t, QuadrantDoFirst, items[1].Quadrant)
}

func TestBuildPriorityMatrixTieKeepsCategoryOrder(t *testing.T) {
	gaps := BenchmarkGap{Categories: []CategoryGap{
		{Category: "first", Weight: 0.2, Gap: 15, ImpactTier: TierMedium},
		{Category: "second", Weight: 0.2, Gap: 15, ImpactTier: TierMedium},
		{Category: "third", Weight: 0.2, Gap: 15, ImpactTier: TierMedium},
	}}

	for i := 0; i < 20; i++ {
		items := BuildPriorityMatrix(gaps, SWOTResult{}, nil)
		require.Len(t, items, 3)
		assert.Equal(t, "first", items[0].Category)
		assert.Equal(t, "second", items[1].Category)
		assert.Equal(t, "third", items[2].Category)
	}
}

func TestBuildPriorityMatrixTieOrdersByWeight(t *testing.T) {
	tests := []struct {
		name string
		gaps []CategoryGap
		want []string
	}{
		{
			name: "heavier category first despite discovery order",
			gaps: []CategoryGap{
				{Category: "light", Weight: 0.1, Gap: 20, ImpactTier: TierMedium},
				{Category: "heavy", Weight: 0.2, Gap: 40.0 / 6, ImpactTier: TierMedium},
			},
			want: []string{"heavy", "light"},
		},
		{
			name: "equal weight keeps discovery order after the heavier one",
			gaps: []CategoryGap{
				{Category: "lightA", Weight: 0.1, Gap: 20, ImpactTier: TierMedium},
				{Category: "lightB", Weight: 0.1, Gap: 20, ImpactTier: TierMedium},
				{Category: "heavy", Weight: 0.2, Gap: 40.0 / 6, ImpactTier: TierMedium},
			},
			want: []string{"heavy", "lightA", "lightB"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := BuildPriorityMatrix(BenchmarkGap{Categories: tt.gaps}, SWOTResult{}, nil)
			require.Len(t, items, len(tt.want))

			got := make([]string, len(items))
			for i, it := range items {
				got[i] = it.Category
				assert.Equal(t, 5.5, it.Importance, it.Category)
				assert.Equal(t, 5.0, it.Urgency, it.Category)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildRoadmap(t *testing.T) {
	roadmap := BuildRoadmap(BuildPriorityMatrix(sampleGaps(), SWOTResult{}, DefaultSWOTLibrary()))

	require.Len(t, roadmap.Immediate, 1)
	require.Len(t, roadmap.ShortTerm, 1)
	require.Len(t, roadmap.LongTerm, 1)
	assert.Equal(t, "critical", roadmap.Immediate[0].Category)
	assert.Equal(t, "0-1 months", roadmap.Immediate[0].Timeline)
	assert.Equal(t, "1-3 months", roadmap.ShortTerm[0].Timeline)

	empty := BuildRoadmap(nil)
	assert.NotNil(t, empty.Immediate)
	assert.Empty(t, empty.Immediate)
}

func TestEngagementUniform(t *testing.T) {
	model := DefaultEngagementModel()

	tests := []struct {
		name    string
		value   float64
		overall int
	}{
		{"all max", 5, 100},
		{"all midpoint", 3, 50},
		{"all zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := model.Analyze(uniformSet(t, q.CoreCatalog(), "finance", tt.value))
			require.Len(t, metrics.Metrics, 13)
			assert.Equal(t, tt.overall, metrics.OverallEngagement)
			for _, m := range metrics.Metrics {
				assert.GreaterOrEqual(t, m.Score, 0)
				assert.LessOrEqual(t, m.Score, 100)
			}
		})
	}
}

func TestEngagementSizeAdjustedGaps(t *testing.T) {
	model := DefaultEngagementModel()
	responses := map[string]any{}
	for _, qu := range q.CoreCatalog().Questions {
		responses[qu.ID] = 3
	}

	medium := model.Analyze(normalizeSet(t, q.CoreCatalog(), "finance", "medium", responses))
	lc, ok := medium.Metric(MetricLeadershipCommitment)
	require.True(t, ok)
	assert.Equal(t, 50, lc.Score)
	assert.Equal(t, 65.0, lc.Benchmark)
	assert.Equal(t, PhaseShortTerm, lc.Phase)
	assert.Empty(t, medium.Immediate)
	assert.Contains(t, medium.ShortTerm, MetricLeadershipCommitment)
	assert.NotContains(t, medium.ShortTerm, MetricCognitive)

	small := model.Analyze(normalizeSet(t, q.CoreCatalog(), "finance", "small", responses))
	cog, _ := small.Metric(MetricCognitive)
	assert.Equal(t, 65.0, cog.Benchmark)
	assert.Contains(t, small.ShortTerm, MetricCognitive)

	large := model.Analyze(normalizeSet(t, q.CoreCatalog(), "finance", "large", responses))
	cog, _ = large.Metric(MetricCognitive)
	assert.Equal(t, 57.0, cog.Benchmark)
}

func TestEngagementLowScoresAreImmediate(t *testing.T) {
	set := uniformSet(t, q.CoreCatalog(), "finance", 1)
	metrics := DefaultEngagementModel().Analyze(set)

	cog, _ := metrics.Metric(MetricCognitive)
	assert.Equal(t, 0, cog.Score)
	assert.Contains(t, metrics.Immediate, MetricCognitive)
}

func TestAnalyzerUnknownIndustry(t *testing.T) {
	set := uniformSet(t, q.CoreCatalog(), "space mining", 3)
	result := NewAnalyzer().Analyze(set)

	assert.True(t, result.Benchmark.Fallback)
	assert.Equal(t, 65.0, result.Benchmark.Baseline)
	assert.True(t, apperrors.HasWarning(result.Warnings, apperrors.WarningBenchmarkUnavailable))
	assert.Equal(t, result.Benchmark.Percentile, result.Scores.Percentile)
}

func TestAnalyzerWithoutEngagement(t *testing.T) {
	set := uniformSet(t, q.CoreCatalog(), "finance", 3)
	result := NewAnalyzer(WithEngagement(nil)).Analyze(set)
	assert.Nil(t, result.Engagement)
}

func TestAnalyzerConcurrentRunsAgree(t *testing.T) {
	set := uniformSet(t, q.ExtendedCatalog(), "IT/소프트웨어", 2)
	analyzer := NewAnalyzer()
	want := analyzer.Analyze(set)

	var wg sync.WaitGroup
	results := make([]*Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = analyzer.Analyze(set)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
