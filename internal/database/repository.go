package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no diagnosis has the requested id.
var ErrNotFound = errors.New("diagnosis not found")

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Repository handles database operations
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveDiagnosis inserts a record, replacing the stored scores and payload when
// the id already exists.
func (r *Repository) SaveDiagnosis(ctx context.Context, rec *DiagnosisRecord) error {
	stmt, err := r.db.GetPreparedStatement(stmtInsertDiagnosis)
	if err != nil {
		return err
	}

	_, err = stmt.ExecContext(ctx,
		rec.ID, rec.CompanyName, rec.Industry, rec.CatalogVariant,
		rec.Percentage, rec.Grade, rec.QualityScore, string(rec.Payload), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save diagnosis: %w", err)
	}

	return nil
}

// GetDiagnosis loads one record by id.
func (r *Repository) GetDiagnosis(ctx context.Context, id string) (*DiagnosisRecord, error) {
	stmt, err := r.db.GetPreparedStatement(stmtGetDiagnosis)
	if err != nil {
		return nil, err
	}

	var rec DiagnosisRecord
	var payload string
	err = stmt.QueryRowContext(ctx, id).Scan(
		&rec.ID, &rec.CompanyName, &rec.Industry, &rec.CatalogVariant,
		&rec.Percentage, &rec.Grade, &rec.QualityScore, &payload, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnosis: %w", err)
	}
	rec.Payload = []byte(payload)

	return &rec, nil
}

// ListRecent returns the newest diagnoses first. limit is clamped to
// [1, MaxListLimit]; zero or less means DefaultListLimit.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]DiagnosisSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	stmt, err := r.db.GetPreparedStatement(stmtListRecent)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnoses: %w", err)
	}
	defer rows.Close()

	out := []DiagnosisSummary{}
	for rows.Next() {
		var s DiagnosisSummary
		if err := rows.Scan(&s.ID, &s.CompanyName, &s.Industry, &s.CatalogVariant,
			&s.Percentage, &s.Grade, &s.QualityScore, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan diagnosis: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// CountByGrade returns how many stored diagnoses carry each grade.
func (r *Repository) CountByGrade(ctx context.Context) (map[string]int, error) {
	stmt, err := r.db.GetPreparedStatement(stmtCountByGrade)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count diagnoses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var grade string
		var n int
		if err := rows.Scan(&grade, &n); err != nil {
			return nil, fmt.Errorf("failed to scan grade count: %w", err)
		}
		counts[grade] = n
	}

	return counts, rows.Err()
}

// DeleteDiagnosis removes one record. It returns ErrNotFound when no row had
// the id.
func (r *Repository) DeleteDiagnosis(ctx context.Context, id string) error {
	stmt, err := r.db.GetPreparedStatement(stmtDeleteDiagnosis)
	if err != nil {
		return err
	}

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete diagnosis: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBefore removes every record created before cutoff and returns how
// many rows went.
func (r *Repository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	stmt, err := r.db.GetPreparedStatement(stmtDeleteBefore)
	if err != nil {
		return 0, err
	}

	res, err := stmt.ExecContext(ctx, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge diagnoses: %w", err)
	}
	return res.RowsAffected()
}

// AggregateByIndustry groups the records created at or after since by
// industry.
func (r *Repository) AggregateByIndustry(ctx context.Context, since time.Time) ([]IndustryAggregate, error) {
	stmt, err := r.db.GetPreparedStatement(stmtIndustryStats)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate diagnoses: %w", err)
	}
	defer rows.Close()

	out := []IndustryAggregate{}
	for rows.Next() {
		var a IndustryAggregate
		if err := rows.Scan(&a.Industry, &a.Count, &a.MeanPercentage, &a.MeanQuality, &a.Best, &a.Worst); err != nil {
			return nil, fmt.Errorf("failed to scan industry aggregate: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
