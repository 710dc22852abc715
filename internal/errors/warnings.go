package errors

// WarningCode identifies a non-fatal condition raised while producing a diagnosis.
type WarningCode string

const (
	// WarningIncompleteData is raised when catalog questions were left unanswered.
	WarningIncompleteData WarningCode = "INCOMPLETE_DATA"
	// WarningBenchmarkUnavailable is raised when the industry has no baseline and the global default is used.
	WarningBenchmarkUnavailable WarningCode = "BENCHMARK_UNAVAILABLE"
	// WarningNarrativeUnavailable is raised when the judge or narrator timed out or failed.
	WarningNarrativeUnavailable WarningCode = "NARRATIVE_UNAVAILABLE"
	// WarningInvalidValue is raised when an answer could not be read as a number.
	WarningInvalidValue WarningCode = "INVALID_VALUE"
	// WarningUnknownQuestion is raised when a response references a question outside the catalog.
	WarningUnknownQuestion WarningCode = "UNKNOWN_QUESTION"
)

// Warning is a non-fatal condition. Warnings are carried in the output, never returned as errors.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Fields  []string    `json:"fields,omitempty"`
}

// NewWarning builds a Warning.
func NewWarning(code WarningCode, message string, fields ...string) Warning {
	return Warning{Code: code, Message: message, Fields: fields}
}

// HasWarning reports whether any warning in ws carries code.
func HasWarning(ws []Warning, code WarningCode) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}
	return false
}
