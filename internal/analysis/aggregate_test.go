package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

func uniformSet(t testing.TB, catalog *questionnaire.Catalog, industry string, value float64) *questionnaire.ResponseSet {
	t.Helper()
	responses := make(map[string]any, catalog.Len())
	for _, q := range catalog.Questions {
		responses[q.ID] = value
	}
	return normalizeSet(t, catalog, industry, "", responses)
}

func normalizeSet(t testing.TB, catalog *questionnaire.Catalog, industry, size string, responses map[string]any) *questionnaire.ResponseSet {
	t.Helper()
	set, err := questionnaire.Normalize(catalog, questionnaire.Submission{
		CompanyName: "Acme",
		Industry:    industry,
		Size:        size,
		Responses:   responses,
	})
	require.NoError(t, err)
	return set
}

func TestAggregateAllMax(t *testing.T) {
	for _, catalog := range questionnaire.Catalogs() {
		t.Run(string(catalog.Variant), func(t *testing.T) {
			scores := Aggregate(uniformSet(t, catalog, "finance", 5))

			assert.Equal(t, 100, scores.Percentage)
			assert.Equal(t, "A+", scores.Grade)
			assert.Equal(t, MaturityOptimized, scores.MaturityLevel)
			assert.Equal(t, 100.0, scores.WeightedScore)
			for _, cs := range scores.CategoryScores {
				assert.Equal(t, 100, cs.Normalized, cs.Category)
			}
		})
	}
}

func TestAggregateAllZero(t *testing.T) {
	scores := Aggregate(uniformSet(t, questionnaire.CoreCatalog(), "finance", 0))

	assert.Equal(t, 0, scores.Percentage)
	assert.Equal(t, "F", scores.Grade)
	assert.Equal(t, MaturityInitial, scores.MaturityLevel)
	assert.Equal(t, 0.0, scores.TotalScore)
}

func TestAggregateUniformThree(t *testing.T) {
	scores := Aggregate(uniformSet(t, questionnaire.CoreCatalog(), "IT/소프트웨어", 3))

	require.Len(t, scores.CategoryScores, 5)
	for _, cs := range scores.CategoryScores {
		assert.Equal(t, 60, cs.Normalized)
		assert.Equal(t, 4, cs.ItemCount)
		assert.InDelta(t, 0.2, cs.Weight, 1e-9)
		assert.InDelta(t, 3.0, cs.RawMean, 1e-9)
	}
	assert.Equal(t, 60.0, scores.WeightedScore)
	assert.Equal(t, 60, scores.Percentage)
	assert.Equal(t, "C", scores.Grade)
	assert.Equal(t, 100.0, scores.MaxPossible)
}

func TestAggregateExtendedWithUnanswered(t *testing.T) {
	catalog := questionnaire.ExtendedCatalog()
	responses := map[string]any{}
	for _, q := range catalog.Questions[:30] {
		responses[q.ID] = 5
	}
	set := normalizeSet(t, catalog, "manufacturing", "", responses)
	require.Len(t, set.IncompleteFields, 15)

	scores := Aggregate(set)
	assert.Equal(t, 150.0, scores.TotalScore)
	assert.Equal(t, 225.0, scores.MaxPossible)
	assert.Equal(t, 67, scores.Percentage)
	// grading follows the percentage table: 67 is C+
	assert.Equal(t, "C+", scores.Grade)
	assert.Equal(t, MaturityBasic, scores.MaturityLevel)
}

func TestAggregateWeightedScoreUsesCategoryWeights(t *testing.T) {
	catalog := questionnaire.ExtendedCatalog()
	responses := map[string]any{}
	for _, q := range catalog.Questions {
		if q.Category == questionnaire.CategoryCurrentAI {
			responses[q.ID] = 5
		} else {
			responses[q.ID] = 0
		}
	}

	scores := Aggregate(normalizeSet(t, catalog, "finance", "", responses))
	// currentAI carries 0.20 of the weight
	assert.InDelta(t, 20.0, scores.WeightedScore, 1e-9)
	assert.Equal(t, int(math.Round(40.0/225.0*100)), scores.Percentage)
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		percentage int
		grade      string
		maturity   MaturityLevel
	}{
		{100, "A+", MaturityOptimized},
		{95, "A+", MaturityOptimized},
		{94, "A", MaturityOptimized},
		{90, "A", MaturityOptimized},
		{89, "A-", MaturityAdvanced},
		{85, "A-", MaturityAdvanced},
		{80, "B+", MaturityAdvanced},
		{79, "B", MaturityIntermediate},
		{75, "B", MaturityIntermediate},
		{70, "B-", MaturityIntermediate},
		{67, "C+", MaturityBasic},
		{65, "C+", MaturityBasic},
		{60, "C", MaturityBasic},
		{59, "C-", MaturityInitial},
		{55, "C-", MaturityInitial},
		{50, "D+", MaturityInitial},
		{45, "D", MaturityInitial},
		{44, "F", MaturityInitial},
		{0, "F", MaturityInitial},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.grade, GradeFor(tt.percentage), "grade for %d", tt.percentage)
		assert.Equal(t, tt.maturity, MaturityFor(tt.percentage), "maturity for %d", tt.percentage)
	}
}

func TestGradeMonotonic(t *testing.T) {
	rank := map[string]int{"F": 0}
	for i, b := range gradeTable {
		rank[b.grade] = len(gradeTable) - i
	}
	for p := 0; p < 100; p++ {
		assert.LessOrEqual(t, rank[GradeFor(p)], rank[GradeFor(p+1)], "percentage %d", p)
	}
}
