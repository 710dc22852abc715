package analysis

// MaturityLevel is the ordinal readiness label derived from the percentage.
type MaturityLevel string

const (
	MaturityInitial      MaturityLevel = "Initial"
	MaturityBasic        MaturityLevel = "Basic"
	MaturityIntermediate MaturityLevel = "Intermediate"
	MaturityAdvanced     MaturityLevel = "Advanced"
	MaturityOptimized    MaturityLevel = "Optimized"
)

// ImpactTier classifies a benchmark gap.
type ImpactTier string

const (
	TierCritical ImpactTier = "critical"
	TierMedium   ImpactTier = "medium"
	TierNone     ImpactTier = "none"
)

// Phase is a roadmap horizon.
type Phase string

const (
	PhaseImmediate Phase = "immediate"
	PhaseShortTerm Phase = "short-term"
	PhaseLongTerm  Phase = "long-term"
)

// Quadrant is one cell of the importance x urgency grid.
type Quadrant string

const (
	QuadrantDoFirst  Quadrant = "Do First"
	QuadrantSchedule Quadrant = "Schedule"
	QuadrantDelegate Quadrant = "Delegate"
	QuadrantMonitor  Quadrant = "Monitor"
)

type CategoryScore struct {
	Category   string  `json:"category"`
	Label      string  `json:"label"`
	RawMean    float64 `json:"rawMean"`
	Normalized int     `json:"normalized"`
	ItemCount  int     `json:"itemCount"`
	Weight     float64 `json:"weight"`
}

type ScoreAnalysis struct {
	TotalScore     float64         `json:"totalScore"`
	MaxPossible    float64         `json:"maxPossible"`
	Percentage     int             `json:"percentage"`
	WeightedScore  float64         `json:"weightedScore"`
	Grade          string          `json:"grade"`
	MaturityLevel  MaturityLevel   `json:"maturityLevel"`
	Percentile     float64         `json:"percentile"`
	CategoryScores []CategoryScore `json:"categoryScores"`
}

// Category returns the score of one category.
func (s ScoreAnalysis) Category(key string) (CategoryScore, bool) {
	for _, cs := range s.CategoryScores {
		if cs.Category == key {
			return cs, true
		}
	}
	return CategoryScore{}, false
}

type CategoryGap struct {
	Category   string     `json:"category"`
	Label      string     `json:"label"`
	Current    int        `json:"current"`
	Benchmark  float64    `json:"benchmark"`
	Gap        float64    `json:"gap"`
	ImpactTier ImpactTier `json:"impactTier"`
	Phase      Phase      `json:"phase,omitempty"`
	Weight     float64    `json:"weight"`
}

type BenchmarkGap struct {
	Industry            string        `json:"industry"`
	IndustryLabel       string        `json:"industryLabel"`
	Baseline            float64       `json:"baseline"`
	Sigma               float64       `json:"sigma"`
	SizeAdjustment      float64       `json:"sizeAdjustment"`
	Percentile          float64       `json:"percentile"`
	CompetitivePosition string        `json:"competitivePosition"`
	Categories          []CategoryGap `json:"categories"`
	Fallback            bool          `json:"fallback"`
}

// Source values for SWOT item provenance.
const (
	SourceResponse         = "response"
	SourceCategory         = "category"
	SourceIndustryTemplate = "industryTemplate"
)

type SWOTItem struct {
	Description string   `json:"description"`
	ActionItems []string `json:"actionItems,omitempty"`
	Category    string   `json:"category,omitempty"`
	QuestionID  string   `json:"questionId,omitempty"`
	Source      string   `json:"source"`
}

type SWOTResult struct {
	Strengths     []SWOTItem `json:"strengths"`
	Weaknesses    []SWOTItem `json:"weaknesses"`
	Opportunities []SWOTItem `json:"opportunities"`
	Threats       []SWOTItem `json:"threats"`
}

type PriorityMatrixItem struct {
	Item       string   `json:"item"`
	Category   string   `json:"category"`
	Actions    []string `json:"actions,omitempty"`
	Gap        float64  `json:"gap"`
	Importance float64  `json:"importance"`
	Urgency    float64  `json:"urgency"`
	Quadrant   Quadrant `json:"quadrant"`
	Phase      Phase    `json:"phase"`

	weight float64
}

type RoadmapItem struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Actions  []string `json:"actions,omitempty"`
	Timeline string   `json:"timeline"`
}

// Roadmap groups priority items by phase.
type Roadmap struct {
	Immediate []RoadmapItem `json:"immediate"`
	ShortTerm []RoadmapItem `json:"shortTerm"`
	LongTerm  []RoadmapItem `json:"longTerm"`
}

type EngagementMetric struct {
	Name      string  `json:"name"`
	Score     int     `json:"score"`
	Benchmark float64 `json:"benchmark"`
	Gap       float64 `json:"gap"`
	Phase     Phase   `json:"phase,omitempty"`
}

type EngagementMetrics struct {
	Metrics           []EngagementMetric `json:"metrics"`
	OverallEngagement int                `json:"overallEngagement"`
	Immediate         []string           `json:"immediate"`
	ShortTerm         []string           `json:"shortTerm"`
}

// Metric returns a sub-score by name.
func (e *EngagementMetrics) Metric(name string) (EngagementMetric, bool) {
	for _, m := range e.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return EngagementMetric{}, false
}
