package questionnaire

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
)

// Submission is a raw questionnaire submission as received from a caller.
type Submission struct {
	CompanyName string         `json:"companyName"`
	Industry    string         `json:"industry"`
	Size        string         `json:"size,omitempty"`
	Responses   map[string]any `json:"responses"`
}

// Company is the normalized company metadata of a submission.
type Company struct {
	Name      string     `json:"name"`
	Industry  string     `json:"industry"`
	Size      SizeBucket `json:"size"`
	SizeLabel string     `json:"sizeLabel,omitempty"`
}

// ResponseSet is a complete, clamped answer set for one catalog. It is not
// modified after Normalize returns.
type ResponseSet struct {
	Company          Company
	IncompleteFields []string
	Warnings         []apperrors.Warning

	catalog *Catalog
	scores  map[string]float64
}

// Catalog returns the catalog the set was normalized against.
func (r *ResponseSet) Catalog() *Catalog { return r.catalog }

// Score returns the normalized answer for a question; unknown ids score 0.
func (r *ResponseSet) Score(questionID string) float64 { return r.scores[questionID] }

// Scores returns a copy of the question id to score map.
func (r *ResponseSet) Scores() map[string]float64 {
	out := make(map[string]float64, len(r.scores))
	for k, v := range r.scores {
		out[k] = v
	}
	return out
}

// Answered is the number of catalog questions that carried a usable answer.
func (r *ResponseSet) Answered() int {
	return r.catalog.Len() - len(r.IncompleteFields)
}

// Normalize validates a submission against a catalog. Missing answers are
// recorded as 0 and listed in IncompleteFields; out-of-range values are clamped.
// A response map that is empty or names no catalog question is fatal, as is a
// missing company name or industry.
func Normalize(catalog *Catalog, sub Submission) (*ResponseSet, error) {
	fieldErrs := map[string]string{}
	if strings.TrimSpace(sub.CompanyName) == "" {
		fieldErrs["companyName"] = "companyName is required"
	}
	if strings.TrimSpace(sub.Industry) == "" {
		fieldErrs["industry"] = "industry is required"
	}
	if len(sub.Responses) == 0 {
		fieldErrs["responses"] = "responses must not be empty"
	} else if !answersCatalog(catalog, sub.Responses) {
		fieldErrs["responses"] = fmt.Sprintf("no response matches a question of catalog %s", catalog.Variant)
	}
	if len(fieldErrs) > 0 {
		return nil, apperrors.NewValidationErrorWithMap(fieldErrs)
	}

	size, known := ParseSize(sub.Size)
	set := &ResponseSet{
		Company: Company{
			Name:      strings.TrimSpace(sub.CompanyName),
			Industry:  strings.TrimSpace(sub.Industry),
			Size:      size,
			SizeLabel: strings.TrimSpace(sub.Size),
		},
		catalog: catalog,
		scores:  make(map[string]float64, catalog.Len()),
	}

	if !known && sub.Size != "" {
		set.Warnings = append(set.Warnings, apperrors.NewWarning(apperrors.WarningInvalidValue,
			fmt.Sprintf("unrecognized company size %q, assuming %s", sub.Size, SizeMedium), "size"))
	}

	var invalid, clamped []string
	for _, q := range catalog.Questions {
		raw, present := sub.Responses[q.ID]
		if !present || raw == nil {
			set.scores[q.ID] = 0
			set.IncompleteFields = append(set.IncompleteFields, q.ID)
			continue
		}

		v, ok := coerce(raw)
		if !ok {
			set.scores[q.ID] = 0
			set.IncompleteFields = append(set.IncompleteFields, q.ID)
			invalid = append(invalid, q.ID)
			continue
		}

		if c := clamp(v, 0, q.ScaleMax); c != v {
			clamped = append(clamped, q.ID)
			v = c
		}
		set.scores[q.ID] = v
	}

	var unknown []string
	for id := range sub.Responses {
		if _, ok := catalog.Question(id); !ok {
			unknown = append(unknown, id)
		}
	}
	sort.Strings(unknown)

	if len(invalid) > 0 {
		set.Warnings = append(set.Warnings, apperrors.NewWarning(apperrors.WarningInvalidValue,
			fmt.Sprintf("%d answers were not numeric and were treated as unanswered", len(invalid)), invalid...))
	}
	if len(clamped) > 0 {
		set.Warnings = append(set.Warnings, apperrors.NewWarning(apperrors.WarningInvalidValue,
			fmt.Sprintf("%d answers were outside the answer scale and were clamped", len(clamped)), clamped...))
	}
	if len(unknown) > 0 {
		set.Warnings = append(set.Warnings, apperrors.NewWarning(apperrors.WarningUnknownQuestion,
			fmt.Sprintf("%d answers do not belong to catalog %s and were ignored", len(unknown), catalog.Variant), unknown...))
	}
	if len(set.IncompleteFields) > 0 {
		set.Warnings = append(set.Warnings, apperrors.NewWarning(apperrors.WarningIncompleteData,
			fmt.Sprintf("%d of %d questions unanswered, scored as 0", len(set.IncompleteFields), catalog.Len()),
			set.IncompleteFields...))
	}

	return set, nil
}

func answersCatalog(catalog *Catalog, responses map[string]any) bool {
	for id := range responses {
		if _, ok := catalog.Question(id); ok {
			return true
		}
	}
	return false
}

// coerce accepts numbers, json.Number and numeric strings.
func coerce(raw any) (float64, bool) {
	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int32:
		v = float64(x)
	case int64:
		v = float64(x)
	case uint:
		v = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
