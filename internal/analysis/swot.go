package analysis

import (
	"fmt"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

const (
	strengthCategoryMin = 75
	weaknessCategoryMax = 60
	strengthQuestionMin = 4.0
	weaknessQuestionMax = 2.0
)

// Band is the score band a SWOT lookup entry applies to.
type Band string

const (
	BandHigh Band = "high"
	BandLow  Band = "low"
)

type SWOTEntry struct {
	Description string   `json:"description" yaml:"description"`
	ActionItems []string `json:"actionItems" yaml:"actionItems"`
}

// ThreatTemplate is an industry threat tagged with the category it bears on.
type ThreatTemplate struct {
	Text     string `json:"text" yaml:"text"`
	Category string `json:"category" yaml:"category"`
}

type IndustryTemplates struct {
	Opportunities []string         `json:"opportunities" yaml:"opportunities"`
	Threats       []ThreatTemplate `json:"threats" yaml:"threats"`
}

// SWOTLibrary holds the static lookups the synthesizer renders from.
type SWOTLibrary struct {
	Questions  map[string]map[Band]SWOTEntry
	Categories map[string]map[Band]SWOTEntry
	Industries map[string]IndustryTemplates
}

func (l *SWOTLibrary) lookup(questionID, category string, band Band) (SWOTEntry, string, bool) {
	if e, ok := l.Questions[questionID][band]; ok {
		return e, SourceResponse, true
	}
	if e, ok := l.Categories[category][band]; ok {
		return e, SourceCategory, true
	}
	return SWOTEntry{}, "", false
}

// Templates returns the industry templates, falling back to the default set.
func (l *SWOTLibrary) Templates(industryKey string) IndustryTemplates {
	if t, ok := l.Industries[industryKey]; ok {
		return t
	}
	return l.Industries[DefaultIndustryKey]
}

// CategoryActions returns the low-band action items of a category.
func (l *SWOTLibrary) CategoryActions(category string) []string {
	return l.Categories[category][BandLow].ActionItems
}

// Synthesize derives strengths and weaknesses from category and question scores
// and attaches the industry's opportunity and threat templates. Categories that
// cross no threshold produce no items.
func (l *SWOTLibrary) Synthesize(scores ScoreAnalysis, set *questionnaire.ResponseSet, industryKey string) SWOTResult {
	catalog := set.Catalog()
	result := SWOTResult{
		Strengths:     []SWOTItem{},
		Weaknesses:    []SWOTItem{},
		Opportunities: []SWOTItem{},
		Threats:       []SWOTItem{},
	}

	for _, cs := range scores.CategoryScores {
		questions := catalog.QuestionsIn(cs.Category)
		if len(questions) == 0 {
			continue
		}

		if cs.Normalized >= strengthCategoryMin {
			best := questions[0]
			for _, q := range questions[1:] {
				if set.Score(q.ID) > set.Score(best.ID) {
					best = q
				}
			}
			if set.Score(best.ID) >= strengthQuestionMin {
				result.Strengths = append(result.Strengths, l.render(cs, best, BandHigh))
			}
		}

		if cs.Normalized <= weaknessCategoryMax {
			worst := questions[0]
			for _, q := range questions[1:] {
				if set.Score(q.ID) < set.Score(worst.ID) {
					worst = q
				}
			}
			if set.Score(worst.ID) <= weaknessQuestionMax {
				result.Weaknesses = append(result.Weaknesses, l.render(cs, worst, BandLow))
			}
		}
	}

	templates := l.Templates(industryKey)
	for _, o := range templates.Opportunities {
		result.Opportunities = append(result.Opportunities, SWOTItem{
			Description: o,
			Source:      SourceIndustryTemplate,
		})
	}
	for _, th := range templates.Threats {
		result.Threats = append(result.Threats, SWOTItem{
			Description: th.Text,
			Category:    th.Category,
			Source:      SourceIndustryTemplate,
		})
	}

	return result
}

func (l *SWOTLibrary) render(cs CategoryScore, q questionnaire.Question, band Band) SWOTItem {
	entry, source, ok := l.lookup(q.ID, cs.Category, band)
	if !ok {
		verb := "is a strength"
		if band == BandLow {
			verb = "needs improvement"
		}
		entry = SWOTEntry{Description: fmt.Sprintf("%s %s", cs.Label, verb)}
		source = SourceCategory
	}
	return SWOTItem{
		Description: fmt.Sprintf("%s (%s %d/100)", entry.Description, cs.Label, cs.Normalized),
		ActionItems: entry.ActionItems,
		Category:    cs.Category,
		QuestionID:  q.ID,
		Source:      source,
	}
}

// ThreatCategories returns the set of categories tagged by threat items.
func ThreatCategories(swot SWOTResult) map[string]bool {
	out := make(map[string]bool, len(swot.Threats))
	for _, th := range swot.Threats {
		if th.Category != "" {
			out[th.Category] = true
		}
	}
	return out
}
