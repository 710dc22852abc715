package analysis

import (
	"math"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

const engagementBaseline = 50.0

// Engagement sub-score names.
const (
	MetricCognitive            = "cognitive"
	MetricEmotional            = "emotional"
	MetricBehavioral           = "behavioral"
	MetricLeadershipCommitment = "leadershipCommitment"
	MetricEmployeeReadiness    = "employeeReadiness"
	MetricChangeAcceptance     = "changeAcceptance"
	MetricLearningOrientation  = "learningOrientation"
	MetricCollaboration        = "collaboration"
	MetricCommunication        = "communication"
	MetricInnovationCulture    = "innovationCulture"
	MetricDataDrivenCulture    = "dataDrivenCulture"
	MetricExecutionMomentum    = "executionMomentum"
	MetricResourceCommitment   = "resourceCommitment"
)

// FieldWeight ties a question to its coefficient in a sub-score.
type FieldWeight struct {
	QuestionID  string  `yaml:"questionId"`
	Coefficient float64 `yaml:"coefficient"`
}

type EngagementDefinition struct {
	Name      string        `yaml:"name"`
	Fields    []FieldWeight `yaml:"fields"`
	Benchmark float64       `yaml:"benchmark"`
}

// EngagementModel computes the engagement sub-score family.
type EngagementModel struct {
	Definitions    []EngagementDefinition
	SizeAdjustment map[questionnaire.SizeBucket]float64
}

// DefaultEngagementModel uses questions present in both catalogs.
func DefaultEngagementModel() *EngagementModel {
	return &EngagementModel{
		Definitions: []EngagementDefinition{
			{MetricCognitive, []FieldWeight{{"ca2", 12}, {"gc2", 10}, {"or3", 8}}, 60},
			{MetricEmotional, []FieldWeight{{"or2", 14}, {"or1", 10}, {"or4", 8}}, 62},
			{MetricBehavioral, []FieldWeight{{"ca1", 12}, {"ec1", 12}, {"ec2", 10}}, 58},
			{MetricLeadershipCommitment, []FieldWeight{{"or1", 20}, {"gc2", 10}}, 65},
			{MetricEmployeeReadiness, []FieldWeight{{"or2", 15}, {"or3", 12}}, 58},
			{MetricChangeAcceptance, []FieldWeight{{"or2", 12}, {"or4", 8}}, 60},
			{MetricLearningOrientation, []FieldWeight{{"or3", 16}, {"ca2", 10}}, 57},
			{MetricCollaboration, []FieldWeight{{"or4", 18}, {"ec3", 8}}, 62},
			{MetricCommunication, []FieldWeight{{"or4", 12}, {"gc4", 8}}, 60},
			{MetricInnovationCulture, []FieldWeight{{"ca3", 12}, {"ec1", 10}, {"or1", 8}}, 55},
			{MetricDataDrivenCulture, []FieldWeight{{"ti1", 12}, {"ti3", 14}, {"ca4", 10}}, 56},
			{MetricExecutionMomentum, []FieldWeight{{"ec1", 14}, {"ec4", 12}}, 58},
			{MetricResourceCommitment, []FieldWeight{{"ec4", 16}, {"ti4", 8}}, 55},
		},
		SizeAdjustment: map[questionnaire.SizeBucket]float64{
			questionnaire.SizeSmall:  5,
			questionnaire.SizeMedium: 0,
			questionnaire.SizeLarge:  -3,
		},
	}
}

// Analyze scores every sub-score as clamp(50 + sum((answer - midpoint) * coefficient), 0, 100)
// and compares each against its size-adjusted benchmark.
func (m *EngagementModel) Analyze(set *questionnaire.ResponseSet) *EngagementMetrics {
	catalog := set.Catalog()
	adj := m.SizeAdjustment[set.Company.Size]

	out := &EngagementMetrics{
		Metrics:   make([]EngagementMetric, 0, len(m.Definitions)),
		Immediate: []string{},
		ShortTerm: []string{},
	}

	scores := make(map[string]float64, len(m.Definitions))
	for _, def := range m.Definitions {
		v := engagementBaseline
		for _, f := range def.Fields {
			q, ok := catalog.Question(f.QuestionID)
			if !ok {
				continue
			}
			midpoint := (q.ScaleMax + 1) / 2
			v += (set.Score(f.QuestionID) - midpoint) * f.Coefficient
		}
		score := int(math.Round(clip(v, 0, 100)))
		scores[def.Name] = float64(score)

		bench := def.Benchmark + adj
		gap := round1(bench - float64(score))
		metric := EngagementMetric{
			Name:      def.Name,
			Score:     score,
			Benchmark: bench,
			Gap:       gap,
		}
		switch {
		case gap > 20:
			metric.Phase = PhaseImmediate
			out.Immediate = append(out.Immediate, def.Name)
		case gap > 10:
			metric.Phase = PhaseShortTerm
			out.ShortTerm = append(out.ShortTerm, def.Name)
		}
		out.Metrics = append(out.Metrics, metric)
	}

	out.OverallEngagement = int(math.Round(
		0.3*scores[MetricCognitive] + 0.3*scores[MetricEmotional] + 0.4*scores[MetricBehavioral]))

	return out
}
