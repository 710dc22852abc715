// Package narrative defines the external collaborators that write report
// commentary and judge narrative quality, and guards every call to them.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnavailable wraps every failed collaborator call.
	ErrUnavailable = errors.New("narrative collaborator unavailable")
	// ErrEmptyResponse is returned when a collaborator answers with no text.
	ErrEmptyResponse = errors.New("empty collaborator response")
	// ErrInvalidJudgement is returned for scores outside 0-100.
	ErrInvalidJudgement = errors.New("invalid judgement")
)

// SectionSpec describes one narrative section to be written.
type SectionSpec struct {
	Key   string
	Title string
	// Draft is the deterministic template text the narrator may rewrite.
	Draft string
	Facts map[string]string
}

// Narrator writes free text for one report section.
type Narrator interface {
	Narrate(ctx context.Context, spec SectionSpec) (string, error)
}

// JudgeRequest asks for a 0-100 score of one rubric criterion.
type JudgeRequest struct {
	CriterionID string
	Criterion   string
	Guidance    string
	Excerpt     string
}

type Judgement struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// Validate checks the score range.
func (j Judgement) Validate() error {
	if j.Score != j.Score || j.Score < 0 || j.Score > 100 {
		return fmt.Errorf("%w: score %v outside 0-100", ErrInvalidJudgement, j.Score)
	}
	return nil
}

// Judge scores narrative excerpts against a rubric criterion.
type Judge interface {
	Judge(ctx context.Context, req JudgeRequest) (Judgement, error)
}

// NarratorFunc adapts a function to Narrator.
type NarratorFunc func(ctx context.Context, spec SectionSpec) (string, error)

func (f NarratorFunc) Narrate(ctx context.Context, spec SectionSpec) (string, error) {
	return f(ctx, spec)
}

// JudgeFunc adapts a function to Judge.
type JudgeFunc func(ctx context.Context, req JudgeRequest) (Judgement, error)

func (f JudgeFunc) Judge(ctx context.Context, req JudgeRequest) (Judgement, error) {
	return f(ctx, req)
}

// sortedFacts renders facts as "key: value" lines in key order.
func sortedFacts(facts map[string]string) string {
	keys := make([]string, 0, len(facts))
	for k := range facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, facts[k])
	}
	return b.String()
}
