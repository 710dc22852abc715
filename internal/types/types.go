// Package types holds the HTTP request and response bodies of the API.
package types

import (
	"time"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/diagnosis"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

// DiagnosisRequest is the body of POST /api/v1/diagnoses.
type DiagnosisRequest struct {
	Catalog     string         `json:"catalog,omitempty" example:"20"`
	CompanyName string         `json:"companyName" binding:"required" example:"Acme Labs"`
	Industry    string         `json:"industry" binding:"required" example:"finance"`
	Size        string         `json:"size,omitempty" example:"50-199"`
	Responses   map[string]any `json:"responses" binding:"required"`
}

// ToRequest converts the body into a pipeline request.
func (r DiagnosisRequest) ToRequest() diagnosis.Request {
	return diagnosis.Request{
		Variant: questionnaire.Variant(r.Catalog),
		Submission: questionnaire.Submission{
			CompanyName: r.CompanyName,
			Industry:    r.Industry,
			Size:        r.Size,
			Responses:   r.Responses,
		},
	}
}

// ErrorResponse documents the fields the error handler adds to the
// errbuilder body.
type ErrorResponse struct {
	Category   string    `json:"category" example:"validation"`
	HTTPStatus int       `json:"http_status" example:"400"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string         `json:"status" example:"healthy"`
	Timestamp     time.Time      `json:"timestamp"`
	UptimeSeconds float64        `json:"uptimeSeconds"`
	Collaborators map[string]any `json:"collaborators"`
	Storage       map[string]any `json:"storage,omitempty"`
}

// DiagnosisList is the body of GET /api/v1/diagnoses.
type DiagnosisList struct {
	Items any `json:"items"`
	Count int `json:"count"`
}
