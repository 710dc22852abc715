package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/cache"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/diagnosis"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/encoding"
	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
)

// DiagnosisService stores diagnosis results and serves them back through a
// read-through cache.
type DiagnosisService struct {
	repo  *Repository
	cache *cache.Cache
}

// NewDiagnosisService creates the service. A nil cache disables caching.
func NewDiagnosisService(repo *Repository, c *cache.Cache) *DiagnosisService {
	return &DiagnosisService{repo: repo, cache: c}
}

func cacheKey(id string) string {
	return "diagnosis:" + id
}

// Save persists a result under its diagnosis id.
func (s *DiagnosisService) Save(ctx context.Context, res *diagnosis.Result) error {
	payload, err := encoding.MarshalJSON(res)
	if err != nil {
		return apperrors.NewInternalError("failed to encode diagnosis", err)
	}

	rec := &DiagnosisRecord{
		ID:             res.DiagnosisID,
		CompanyName:    res.Company.Name,
		Industry:       industryKey(res),
		CatalogVariant: string(res.CatalogVariant),
		Percentage:     res.ScoreAnalysis.Percentage,
		Grade:          res.ScoreAnalysis.Grade,
		CreatedAt:      res.GeneratedAt,
		Payload:        payload,
	}
	if res.QualityMetrics != nil {
		rec.QualityScore = res.QualityMetrics.OverallScore
	}

	if err := s.repo.SaveDiagnosis(ctx, rec); err != nil {
		return apperrors.NewInternalError("failed to store diagnosis", err)
	}
	if s.cache != nil {
		s.cache.Set(cacheKey(rec.ID), payload)
	}

	slog.Debug("Diagnosis stored", "diagnosis_id", rec.ID, "bytes", len(payload))
	return nil
}

// industryKey groups records by the resolved benchmark industry so aliases of
// one industry aggregate together.
func industryKey(res *diagnosis.Result) string {
	if res.Benchmark.Industry != "" {
		return res.Benchmark.Industry
	}
	return res.Company.Industry
}

// Get loads a stored result by id.
func (s *DiagnosisService) Get(ctx context.Context, id string) (*diagnosis.Result, error) {
	var payload []byte
	if s.cache != nil {
		if data, ok := s.cache.Get(cacheKey(id)); ok {
			payload = data
		}
	}

	if payload == nil {
		rec, err := s.repo.GetDiagnosis(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NewNotFoundError("diagnosis", id)
		}
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load diagnosis", err)
		}
		payload = rec.Payload
		if s.cache != nil {
			s.cache.Set(cacheKey(id), payload)
		}
	}

	var res diagnosis.Result
	if err := encoding.UnmarshalJSON(payload, &res); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("stored diagnosis %s is corrupt", id), err)
	}
	return &res, nil
}

// Recent lists the newest stored diagnoses.
func (s *DiagnosisService) Recent(ctx context.Context, limit int) ([]DiagnosisSummary, error) {
	out, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list diagnoses", err)
	}
	return out, nil
}

// GradeDistribution counts stored diagnoses per grade.
func (s *DiagnosisService) GradeDistribution(ctx context.Context) (map[string]int, error) {
	out, err := s.repo.CountByGrade(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to count diagnoses", err)
	}
	return out, nil
}

// Delete removes a stored result and its cached copy.
func (s *DiagnosisService) Delete(ctx context.Context, id string) error {
	err := s.repo.DeleteDiagnosis(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperrors.NewNotFoundError("diagnosis", id)
	}
	if err != nil {
		return apperrors.NewInternalError("failed to delete diagnosis", err)
	}
	if s.cache != nil {
		s.cache.Delete(cacheKey(id))
	}
	return nil
}

// PurgeBefore removes results created before cutoff. The cache is cleared
// when anything was removed.
func (s *DiagnosisService) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to purge diagnoses", err)
	}
	if n > 0 && s.cache != nil {
		s.cache.Clear()
	}
	return n, nil
}

// IndustryAggregates summarizes stored results per industry since the given
// time.
func (s *DiagnosisService) IndustryAggregates(ctx context.Context, since time.Time) ([]IndustryAggregate, error) {
	out, err := s.repo.AggregateByIndustry(ctx, since)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate diagnoses", err)
	}
	return out, nil
}
