package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const maxResponseSamples = 1000

// Metrics holds application metrics
type Metrics struct {
	RequestCount        int64
	ErrorCount          int64
	CacheHits           int64
	CacheMisses         int64
	AverageResponseTime int64 // in nanoseconds
	StartTime           time.Time

	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex

	// Diagnosis metrics
	DiagnosisCount     int64
	DiagnosisFailures  int64
	ValidationFailures int64
	GradeCounts        map[string]int64
	QualityLevelCounts map[string]int64
	WarningCounts      map[string]int64
	DiagnosisMutex     sync.RWMutex

	// Narrator and judge calls
	CollaboratorRequests   map[string]int64
	CollaboratorErrorCount map[string]int64
	CollaboratorMutex      sync.RWMutex

	GCCount        int64
	GCPauseTotalNs int64
	HeapAlloc      int64
	HeapSys        int64
	Goroutines     int64

	RateLimitIPBlocks       int64
	RateLimitRedisErrors    int64
	RateLimitFallbackCount  int64
	RateLimitEndpointBlocks map[string]int64
	RateLimitMutex          sync.RWMutex
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:               time.Now(),
		ResponseTimes:           make([]time.Duration, 0, maxResponseSamples),
		RequestCountByStatus:    make(map[int]int64),
		GradeCounts:             make(map[string]int64),
		QualityLevelCounts:      make(map[string]int64),
		WarningCounts:           make(map[string]int64),
		CollaboratorRequests:    make(map[string]int64),
		CollaboratorErrorCount:  make(map[string]int64),
		RateLimitEndpointBlocks: make(map[string]int64),
	}
}

func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// RecordResponseTime records response time for averaging and percentiles
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	current := atomic.LoadInt64(&m.AverageResponseTime)
	newAverage := (current + duration.Nanoseconds()) / 2
	atomic.StoreInt64(&m.AverageResponseTime, newAverage)

	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = append(m.ResponseTimes, duration)
	if len(m.ResponseTimes) > maxResponseSamples {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
	m.ResponseTimesMutex.Unlock()
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// RecordDiagnosis records one completed diagnosis
func (m *Metrics) RecordDiagnosis(grade, qualityLevel string, warningCodes []string) {
	atomic.AddInt64(&m.DiagnosisCount, 1)

	m.DiagnosisMutex.Lock()
	defer m.DiagnosisMutex.Unlock()
	m.GradeCounts[grade]++
	m.QualityLevelCounts[qualityLevel]++
	for _, code := range warningCodes {
		m.WarningCounts[code]++
	}
}

// RecordDiagnosisFailure records a rejected or failed diagnosis
func (m *Metrics) RecordDiagnosisFailure(validation bool) {
	atomic.AddInt64(&m.DiagnosisFailures, 1)
	if validation {
		atomic.AddInt64(&m.ValidationFailures, 1)
	}
}

// RecordCollaboratorCall records a narrator or judge call
func (m *Metrics) RecordCollaboratorCall(name string, success bool) {
	m.CollaboratorMutex.Lock()
	defer m.CollaboratorMutex.Unlock()

	m.CollaboratorRequests[name]++
	if !success {
		m.CollaboratorErrorCount[name]++
	}
}

// RecordRuntime stores the latest runtime sample
func (m *Metrics) RecordRuntime(s RuntimeSample) {
	atomic.StoreInt64(&m.GCCount, int64(s.NumGC))
	atomic.StoreInt64(&m.GCPauseTotalNs, int64(s.PauseTotalNs))
	atomic.StoreInt64(&m.HeapAlloc, int64(s.HeapAlloc))
	atomic.StoreInt64(&m.HeapSys, int64(s.HeapSys))
	atomic.StoreInt64(&m.Goroutines, int64(s.Goroutines))
}

// GetPercentileResponseTime calculates percentile response time
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.ResponseTimesMutex.RLock()
	defer m.ResponseTimesMutex.RUnlock()

	if len(m.ResponseTimes) == 0 {
		return 0
	}

	times := make([]time.Duration, len(m.ResponseTimes))
	copy(times, m.ResponseTimes)
	sort.Slice(times, func(i, j int) bool {
		return times[i] < times[j]
	})

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// GetStatusCodeDistribution returns request count by status code
func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.StatusMutex.RLock()
	defer m.StatusMutex.RUnlock()

	distribution := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		distribution[code] = count
	}
	return distribution
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// GetDiagnosisStats returns diagnosis counters and distributions
func (m *Metrics) GetDiagnosisStats() map[string]interface{} {
	m.DiagnosisMutex.RLock()
	defer m.DiagnosisMutex.RUnlock()

	return map[string]interface{}{
		"completed":           atomic.LoadInt64(&m.DiagnosisCount),
		"failed":              atomic.LoadInt64(&m.DiagnosisFailures),
		"validation_failures": atomic.LoadInt64(&m.ValidationFailures),
		"grades":              copyCounts(m.GradeCounts),
		"quality_levels":      copyCounts(m.QualityLevelCounts),
		"warnings_by_code":    copyCounts(m.WarningCounts),
	}
}

// GetCollaboratorStats returns per-collaborator call statistics
func (m *Metrics) GetCollaboratorStats() map[string]interface{} {
	m.CollaboratorMutex.RLock()
	defer m.CollaboratorMutex.RUnlock()

	stats := make(map[string]interface{}, len(m.CollaboratorRequests))
	for name, requests := range m.CollaboratorRequests {
		errors := m.CollaboratorErrorCount[name]
		errorRate := float64(0)
		if requests > 0 {
			errorRate = float64(errors) / float64(requests) * 100
		}
		stats[name] = map[string]interface{}{
			"requests":   requests,
			"errors":     errors,
			"error_rate": errorRate,
		}
	}
	return stats
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	cacheHits := atomic.LoadInt64(&m.CacheHits)
	cacheMisses := atomic.LoadInt64(&m.CacheMisses)
	avgResponseTime := atomic.LoadInt64(&m.AverageResponseTime)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	cacheHitRate := float64(0)
	if total := cacheHits + cacheMisses; total > 0 {
		cacheHitRate = float64(cacheHits) / float64(total) * 100
	}

	heapAlloc := atomic.LoadInt64(&m.HeapAlloc)
	heapSys := atomic.LoadInt64(&m.HeapSys)
	heapUsage := float64(0)
	if heapSys > 0 {
		heapUsage = float64(heapAlloc) / float64(heapSys) * 100
	}

	return map[string]interface{}{
		"uptime_seconds":         time.Since(m.StartTime).Seconds(),
		"total_requests":         requests,
		"error_count":            errors,
		"error_rate_percent":     errorRate,
		"cache_hits":             cacheHits,
		"cache_misses":           cacheMisses,
		"cache_hit_rate_percent": cacheHitRate,
		"avg_response_time_ms":   float64(avgResponseTime) / 1000000,
		"start_time":             m.StartTime.Format(time.RFC3339),

		"p50_response_time_ms":     float64(m.GetPercentileResponseTime(50)) / 1000000,
		"p95_response_time_ms":     float64(m.GetPercentileResponseTime(95)) / 1000000,
		"p99_response_time_ms":     float64(m.GetPercentileResponseTime(99)) / 1000000,
		"status_code_distribution": m.GetStatusCodeDistribution(),

		"diagnoses":     m.GetDiagnosisStats(),
		"collaborators": m.GetCollaboratorStats(),
		"rate_limit":    m.GetRateLimitStats(),

		"go_gc_count":           atomic.LoadInt64(&m.GCCount),
		"go_gc_pause_total_ns":  atomic.LoadInt64(&m.GCPauseTotalNs),
		"go_heap_alloc_bytes":   heapAlloc,
		"go_heap_sys_bytes":     heapSys,
		"go_heap_usage_percent": heapUsage,
		"go_goroutines":         atomic.LoadInt64(&m.Goroutines),
	}
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.RequestCount, 0)
	atomic.StoreInt64(&m.ErrorCount, 0)
	atomic.StoreInt64(&m.CacheHits, 0)
	atomic.StoreInt64(&m.CacheMisses, 0)
	atomic.StoreInt64(&m.AverageResponseTime, 0)
	atomic.StoreInt64(&m.DiagnosisCount, 0)
	atomic.StoreInt64(&m.DiagnosisFailures, 0)
	atomic.StoreInt64(&m.ValidationFailures, 0)
	atomic.StoreInt64(&m.RateLimitIPBlocks, 0)
	atomic.StoreInt64(&m.RateLimitRedisErrors, 0)
	atomic.StoreInt64(&m.RateLimitFallbackCount, 0)

	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = m.ResponseTimes[:0]
	m.ResponseTimesMutex.Unlock()

	m.StatusMutex.Lock()
	m.RequestCountByStatus = make(map[int]int64)
	m.StatusMutex.Unlock()

	m.DiagnosisMutex.Lock()
	m.GradeCounts = make(map[string]int64)
	m.QualityLevelCounts = make(map[string]int64)
	m.WarningCounts = make(map[string]int64)
	m.DiagnosisMutex.Unlock()

	m.CollaboratorMutex.Lock()
	m.CollaboratorRequests = make(map[string]int64)
	m.CollaboratorErrorCount = make(map[string]int64)
	m.CollaboratorMutex.Unlock()

	m.RateLimitMutex.Lock()
	m.RateLimitEndpointBlocks = make(map[string]int64)
	m.RateLimitMutex.Unlock()

	m.StartTime = time.Now()
}

func (m *Metrics) IncrementRateLimitIPBlock() {
	atomic.AddInt64(&m.RateLimitIPBlocks, 1)
}

func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbackCount, 1)
}

// IncrementRateLimitEndpoint increments rate limit blocks for a specific endpoint
func (m *Metrics) IncrementRateLimitEndpoint(endpoint string) {
	m.RateLimitMutex.Lock()
	defer m.RateLimitMutex.Unlock()
	m.RateLimitEndpointBlocks[endpoint]++
}

// GetRateLimitStats returns rate limiting statistics
func (m *Metrics) GetRateLimitStats() map[string]interface{} {
	m.RateLimitMutex.RLock()
	endpointBlocks := copyCounts(m.RateLimitEndpointBlocks)
	m.RateLimitMutex.RUnlock()

	return map[string]interface{}{
		"ip_blocks":       atomic.LoadInt64(&m.RateLimitIPBlocks),
		"redis_errors":    atomic.LoadInt64(&m.RateLimitRedisErrors),
		"fallback_count":  atomic.LoadInt64(&m.RateLimitFallbackCount),
		"endpoint_blocks": endpointBlocks,
	}
}
