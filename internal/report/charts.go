package report

import "github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"

// Chart ids.
const (
	ChartCategoryRadar       = "categoryRadar"
	ChartBenchmarkComparison = "benchmarkComparison"
	ChartPriorityMatrix      = "priorityMatrix"
)

type DataPoint struct {
	Label  string  `json:"label"`
	Series string  `json:"series,omitempty"`
	Value  float64 `json:"value"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// ChartSpec is a renderer-agnostic chart description.
type ChartSpec struct {
	ID     string            `json:"id"`
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Data   []DataPoint       `json:"data"`
	Config map[string]string `json:"config"`
}

// Valid reports whether the chart has a title, data and config.
func (c ChartSpec) Valid() bool {
	return c.Title != "" && len(c.Data) > 0 && len(c.Config) > 0
}

// BuildCharts derives the chart specs of a report.
func BuildCharts(result *analysis.Result) []ChartSpec {
	radar := ChartSpec{
		ID:     ChartCategoryRadar,
		Type:   "radar",
		Title:  "Category scores",
		Config: map[string]string{"min": "0", "max": "100", "unit": "points"},
	}
	comparison := ChartSpec{
		ID:     ChartBenchmarkComparison,
		Type:   "bar",
		Title:  "Scores against " + result.Benchmark.IndustryLabel + " benchmark",
		Config: map[string]string{"min": "0", "max": "100", "stacked": "false"},
	}
	for _, cs := range result.Scores.CategoryScores {
		radar.Data = append(radar.Data, DataPoint{Label: cs.Label, Value: float64(cs.Normalized)})
	}
	for _, g := range result.Benchmark.Categories {
		comparison.Data = append(comparison.Data,
			DataPoint{Label: g.Label, Series: "company", Value: float64(g.Current)},
			DataPoint{Label: g.Label, Series: "benchmark", Value: g.Benchmark},
		)
	}

	matrix := ChartSpec{
		ID:    ChartPriorityMatrix,
		Type:  "scatter",
		Title: "Priority matrix",
		Config: map[string]string{
			"xAxis":    "urgency",
			"yAxis":    "importance",
			"min":      "1",
			"max":      "10",
			"midpoint": "5.5",
		},
	}
	for _, it := range result.PriorityMatrix {
		matrix.Data = append(matrix.Data, DataPoint{
			Label:  it.Item,
			Series: string(it.Quadrant),
			Value:  it.Gap,
			X:      it.Urgency,
			Y:      it.Importance,
		})
	}

	charts := []ChartSpec{radar, comparison}
	// no gaps means nothing to place on the matrix
	if len(matrix.Data) > 0 {
		charts = append(charts, matrix)
	}
	return charts
}
