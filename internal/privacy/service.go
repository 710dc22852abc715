// Package privacy enforces retention and erasure of stored diagnoses.
package privacy

import (
	"context"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/database"
)

// Store is the part of the diagnosis store the privacy service needs.
type Store interface {
	Delete(ctx context.Context, id string) error
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ Store = (*database.DiagnosisService)(nil)

// PrivacyService handles data retention and erasure requests
type PrivacyService struct {
	store         Store
	retentionDays int
	cacheTTL      time.Duration
	now           func() time.Time
}

// NewService creates a privacy service. retentionDays <= 0 keeps data forever.
func NewService(store Store, retentionDays int, cacheTTL time.Duration) *PrivacyService {
	return &PrivacyService{
		store:         store,
		retentionDays: retentionDays,
		cacheTTL:      cacheTTL,
		now:           time.Now,
	}
}

// DeleteDiagnosis erases one stored diagnosis on request.
func (ps *PrivacyService) DeleteDiagnosis(ctx context.Context, id string) error {
	if err := ps.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Diagnosis erased on request", "diagnosis_id", id)
	return nil
}

// GetDataRetentionInfo describes what is kept and for how long
func (ps *PrivacyService) GetDataRetentionInfo() map[string]interface{} {
	return map[string]interface{}{
		"diagnosis_retention_days": ps.retentionDays,
		"retention_enforced":       ps.retentionDays > 0,
		"cache_retention_minutes":  int(ps.cacheTTL.Minutes()),
		"stored_fields":            []string{"company_name", "industry", "responses", "report"},
		"deletion":                 "DELETE /api/v1/diagnoses/{id}",
	}
}

// PurgeExpired deletes diagnoses older than the retention period.
func (ps *PrivacyService) PurgeExpired(ctx context.Context) (int64, error) {
	if ps.retentionDays <= 0 {
		return 0, nil
	}

	cutoff := ps.now().AddDate(0, 0, -ps.retentionDays)
	n, err := ps.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	slog.Info("Data cleanup completed", "cutoff_date", cutoff, "diagnoses_deleted", n)
	return n, nil
}

// Run purges once immediately and then every interval until ctx is done.
func (ps *PrivacyService) Run(ctx context.Context, interval time.Duration) {
	if ps.retentionDays <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := ps.PurgeExpired(ctx); err != nil {
			slog.Error("Failed to purge expired diagnoses", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
