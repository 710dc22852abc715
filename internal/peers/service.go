// Package peers ranks industries by the scores of their stored diagnoses.
// Company names never leave the store, and industries with too few
// diagnoses are suppressed so a single company cannot be singled out.
package peers

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/database"
	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
)

// Period selects the window of diagnoses a ranking covers.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAllTime Period = "all_time"
)

// Periods lists every supported period.
var Periods = []Period{PeriodWeekly, PeriodMonthly, PeriodAllTime}

// ParsePeriod accepts the period names; an empty string selects all_time.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case "", PeriodAllTime:
		return PeriodAllTime, nil
	case PeriodWeekly, PeriodMonthly:
		return Period(raw), nil
	}
	return "", apperrors.NewValidationErrorWithMap(map[string]string{
		"period": "must be one of weekly, monthly, all_time",
	})
}

// Start returns the first instant of the period containing now. Weeks start
// on Monday. All time starts at the zero time.
func (p Period) Start(now time.Time) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch p {
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

// Entry is one ranked industry. DeltaToBaseline is MeanPercentage minus the
// industry baseline mean.
type Entry struct {
	Rank            int     `json:"rank"`
	Industry        string  `json:"industry"`
	Label           string  `json:"label"`
	Diagnoses       int     `json:"diagnoses"`
	MeanPercentage  float64 `json:"meanPercentage"`
	MeanQuality     float64 `json:"meanQuality"`
	Best            int     `json:"best"`
	Worst           int     `json:"worst"`
	Baseline        float64 `json:"baseline"`
	DeltaToBaseline float64 `json:"deltaToBaseline"`
}

// Ranking is the response of one peer statistics query.
type Ranking struct {
	Period      Period    `json:"period"`
	PeriodStart time.Time `json:"periodStart"`
	Entries     []Entry   `json:"entries"`
	Total       int       `json:"total"`
	Suppressed  int       `json:"suppressed"`
}

// Source provides per-industry aggregates of stored diagnoses.
type Source interface {
	IndustryAggregates(ctx context.Context, since time.Time) ([]database.IndustryAggregate, error)
}

var _ Source = (*database.DiagnosisService)(nil)

// Service computes and caches industry rankings.
type Service struct {
	source     Source
	table      *analysis.BenchmarkTable
	cache      *RankingCache
	minSamples int
	now        func() time.Time
}

// NewService creates a ranking service. minSamples below 1 is treated as 1.
func NewService(source Source, table *analysis.BenchmarkTable, cache *RankingCache, minSamples int) *Service {
	if minSamples < 1 {
		minSamples = 1
	}
	if table == nil {
		table = analysis.DefaultBenchmarkTable()
	}
	return &Service{
		source:     source,
		table:      table,
		cache:      cache,
		minSamples: minSamples,
		now:        time.Now,
	}
}

// GetRanking returns the industries of a period ordered by mean percentage.
func (s *Service) GetRanking(ctx context.Context, period Period) (*Ranking, error) {
	start := period.Start(s.now())
	if s.cache != nil {
		if cached, ok := s.cache.Get(period, start); ok {
			return cached, nil
		}
	}

	aggs, err := s.source.IndustryAggregates(ctx, start)
	if err != nil {
		return nil, err
	}

	ranking := &Ranking{
		Period:      period,
		PeriodStart: start,
		Entries:     make([]Entry, 0, len(aggs)),
	}
	for _, a := range aggs {
		if a.Count < s.minSamples {
			ranking.Suppressed++
			continue
		}
		baseline, _ := s.table.Resolve(a.Industry)
		ranking.Entries = append(ranking.Entries, Entry{
			Industry:        a.Industry,
			Label:           baseline.Label,
			Diagnoses:       a.Count,
			MeanPercentage:  round1(a.MeanPercentage),
			MeanQuality:     round1(a.MeanQuality),
			Best:            a.Best,
			Worst:           a.Worst,
			Baseline:        baseline.Mean,
			DeltaToBaseline: round1(a.MeanPercentage - baseline.Mean),
		})
	}

	sort.SliceStable(ranking.Entries, func(i, j int) bool {
		a, b := ranking.Entries[i], ranking.Entries[j]
		if a.MeanPercentage != b.MeanPercentage {
			return a.MeanPercentage > b.MeanPercentage
		}
		return a.Industry < b.Industry
	})
	for i := range ranking.Entries {
		ranking.Entries[i].Rank = i + 1
	}
	ranking.Total = len(ranking.Entries)

	if s.cache != nil {
		s.cache.Set(ranking)
	}
	return ranking, nil
}

// Invalidate drops every cached ranking. Call it after the store changes.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
}

// WarmCache computes the ranking of every period.
func (s *Service) WarmCache(ctx context.Context) {
	for _, p := range Periods {
		if _, err := s.GetRanking(ctx, p); err != nil {
			slog.Error("Failed to warm peer ranking", "period", p, "error", err)
		}
	}
}

// GetCacheStats returns statistics of the ranking cache.
func (s *Service) GetCacheStats() map[string]interface{} {
	if s.cache == nil {
		return map[string]interface{}{}
	}
	return s.cache.GetStats()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
