package analysis

import "github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"

// DefaultSizeAdjustments shift the industry mean by company size.
var DefaultSizeAdjustments = map[questionnaire.SizeBucket]float64{
	questionnaire.SizeSmall:  -3,
	questionnaire.SizeMedium: 0,
	questionnaire.SizeLarge:  3,
}

var defaultFallback = IndustryBaseline{
	Key:   DefaultIndustryKey,
	Label: "All industries",
	Mean:  65,
	Sigma: DefaultSigma,
}

func categories(bf, ca, or, ti, gc, ec float64) map[string]float64 {
	return map[string]float64{
		questionnaire.CategoryBusinessFoundation:    bf,
		questionnaire.CategoryCurrentAI:             ca,
		questionnaire.CategoryOrganizationReadiness: or,
		questionnaire.CategoryTechInfrastructure:    ti,
		questionnaire.CategoryGoalClarity:           gc,
		questionnaire.CategoryExecutionCapability:   ec,
	}
}

var defaultIndustries = []IndustryBaseline{
	{
		Key: "it", Label: "IT/Software", Mean: 75,
		Categories: categories(75, 78, 72, 80, 73, 74),
		Aliases:    []string{"software", "it/software", "IT/소프트웨어", "소프트웨어", "정보통신", "tech", "technology"},
	},
	{
		Key: "manufacturing", Label: "Manufacturing", Mean: 65,
		Categories: categories(68, 60, 63, 66, 67, 66),
		Aliases:    []string{"제조", "제조업"},
	},
	{
		Key: "finance", Label: "Finance", Mean: 70,
		Categories: categories(74, 70, 66, 74, 70, 66),
		Aliases:    []string{"financial services", "banking", "insurance", "금융", "금융업", "금융/보험"},
	},
	{
		Key: "retail", Label: "Retail/Commerce", Mean: 62,
		Categories: categories(65, 60, 60, 62, 63, 62),
		Aliases:    []string{"commerce", "e-commerce", "ecommerce", "유통", "도소매", "유통/도소매", "이커머스"},
	},
	{
		Key: "healthcare", Label: "Healthcare", Mean: 63,
		Categories: categories(66, 58, 62, 64, 64, 63),
		Aliases:    []string{"medical", "의료", "헬스케어", "의료/헬스케어"},
	},
	{
		Key: "education", Label: "Education", Mean: 60,
		Categories: categories(62, 58, 60, 58, 61, 59),
		Aliases:    []string{"edtech", "교육", "교육/연구"},
	},
	{
		Key: "service", Label: "Services", Mean: 60,
		Categories: categories(63, 57, 60, 58, 61, 61),
		Aliases:    []string{"services", "consulting", "서비스", "서비스업", "컨설팅"},
	},
	{
		Key: "logistics", Label: "Logistics", Mean: 61,
		Categories: categories(64, 56, 59, 63, 61, 63),
		Aliases:    []string{"transportation", "물류", "운송", "물류/운송"},
	},
	{
		Key: "construction", Label: "Construction", Mean: 55,
		Categories: categories(60, 48, 54, 54, 57, 57),
		Aliases:    []string{"건설", "건설업", "부동산"},
	},
}

// DefaultBenchmarkTable returns the built-in industry baselines.
func DefaultBenchmarkTable() *BenchmarkTable {
	return NewBenchmarkTable(defaultFallback, defaultIndustries, DefaultSizeAdjustments)
}
