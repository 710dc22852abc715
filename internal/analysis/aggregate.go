package analysis

import (
	"math"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

// Aggregate computes category means, the weighted score and the percentage of a
// response set. Grade and maturity are derived from the percentage; the
// percentile is left for the benchmark stage.
func Aggregate(set *questionnaire.ResponseSet) ScoreAnalysis {
	catalog := set.Catalog()

	result := ScoreAnalysis{
		MaxPossible:    catalog.MaxPossible(),
		CategoryScores: make([]CategoryScore, 0, len(catalog.Categories)),
	}

	weightedSum, weightTotal := 0.0, 0.0
	for _, cat := range catalog.Categories {
		questions := catalog.QuestionsIn(cat.Key)
		if len(questions) == 0 {
			continue
		}

		sum, scaleMax, weight := 0.0, 0.0, 0.0
		for _, q := range questions {
			sum += set.Score(q.ID)
			scaleMax += q.ScaleMax
			weight += q.Weight
		}
		mean := sum / float64(len(questions))
		meanScale := scaleMax / float64(len(questions))

		cs := CategoryScore{
			Category:   cat.Key,
			Label:      cat.Label,
			RawMean:    mean,
			Normalized: int(math.Round(mean * 100 / meanScale)),
			ItemCount:  len(questions),
			Weight:     weight,
		}
		result.CategoryScores = append(result.CategoryScores, cs)

		weightedSum += float64(cs.Normalized) * weight
		weightTotal += weight
		result.TotalScore += sum
	}

	if weightTotal > 0 {
		result.WeightedScore = round1(weightedSum / weightTotal)
	}
	if result.MaxPossible > 0 {
		result.Percentage = int(math.Round(result.TotalScore / result.MaxPossible * 100))
	}

	result.Grade = GradeFor(result.Percentage)
	result.MaturityLevel = MaturityFor(result.Percentage)

	return result
}
