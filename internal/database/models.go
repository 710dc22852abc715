package database

import (
	"time"
)

// DiagnosisRecord is one stored diagnosis. Payload holds the full JSON output.
type DiagnosisRecord struct {
	ID             string    `json:"id" db:"id"`
	CompanyName    string    `json:"company_name" db:"company_name"`
	Industry       string    `json:"industry" db:"industry"`
	CatalogVariant string    `json:"catalog_variant" db:"catalog_variant"`
	Percentage     int       `json:"percentage" db:"percentage"`
	Grade          string    `json:"grade" db:"grade"`
	QualityScore   float64   `json:"quality_score" db:"quality_score"`
	Payload        []byte    `json:"-" db:"payload"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DiagnosisSummary is the listing view of a stored diagnosis.
type DiagnosisSummary struct {
	ID             string    `json:"id"`
	CompanyName    string    `json:"companyName"`
	Industry       string    `json:"industry"`
	CatalogVariant string    `json:"catalogVariant"`
	Percentage     int       `json:"percentage"`
	Grade          string    `json:"grade"`
	QualityScore   float64   `json:"qualityScore"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IndustryAggregate summarizes the stored diagnoses of one industry.
type IndustryAggregate struct {
	Industry       string
	Count          int
	MeanPercentage float64
	MeanQuality    float64
	Best           int
	Worst          int
}
