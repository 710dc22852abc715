package analysis

type gradeBand struct {
	min   int
	grade string
}

type maturityBand struct {
	min   int
	level MaturityLevel
}

var gradeTable = []gradeBand{
	{95, "A+"},
	{90, "A"},
	{85, "A-"},
	{80, "B+"},
	{75, "B"},
	{70, "B-"},
	{65, "C+"},
	{60, "C"},
	{55, "C-"},
	{50, "D+"},
	{45, "D"},
}

var maturityTable = []maturityBand{
	{90, MaturityOptimized},
	{80, MaturityAdvanced},
	{70, MaturityIntermediate},
	{60, MaturityBasic},
}

// GradeFor maps a 0-100 percentage to a letter grade.
func GradeFor(percentage int) string {
	for _, b := range gradeTable {
		if percentage >= b.min {
			return b.grade
		}
	}
	return "F"
}

// MaturityFor maps a 0-100 percentage to a maturity level.
func MaturityFor(percentage int) MaturityLevel {
	for _, b := range maturityTable {
		if percentage >= b.min {
			return b.level
		}
	}
	return MaturityInitial
}
