package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/config"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

// loadApp raises the rate limits so repeated submissions from one client pass.
func loadApp(t *testing.T) (*app, *gin.Engine) {
	return setupApp(t, testDeps{mutate: func(cfg *config.Config) {
		cfg.RateLimit.IPPerMin = 100000
		cfg.RateLimit.DiagnosisPerMin = 100000
	}})
}

func postDiagnosis(r http.Handler, body []byte) (time.Duration, int) {
	start := time.Now()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnoses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return time.Since(start), w.Code
}

func TestDiagnosisEndpoint_Performance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	_, r := loadApp(t)

	inputs := [][]byte{
		[]byte(mustJSON(t, submission(questionnaire.VariantCore, 1))),
		[]byte(mustJSON(t, submission(questionnaire.VariantCore, 3))),
		[]byte(mustJSON(t, submission(questionnaire.VariantCore, 5))),
		[]byte(mustJSON(t, submission(questionnaire.VariantExtended, 2))),
		[]byte(mustJSON(t, submission(questionnaire.VariantExtended, 4))),
	}

	// Warm up
	for _, body := range inputs[:2] {
		_, status := postDiagnosis(r, body)
		require.Equal(t, http.StatusCreated, status)
	}

	var totalDuration time.Duration
	for _, body := range inputs {
		duration, status := postDiagnosis(r, body)
		totalDuration += duration

		assert.Equal(t, http.StatusCreated, status)
		assert.True(t, duration < time.Second, "Request should complete within 1 second, took %v", duration)
	}

	averageDuration := totalDuration / time.Duration(len(inputs))
	t.Logf("Performance test completed: %d requests, average response time: %v", len(inputs), averageDuration)
	assert.True(t, averageDuration < 500*time.Millisecond, "Average response time should be under 500ms")
}

func TestDiagnosisEndpoint_LoadTest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping load test in short mode")
	}

	_, r := loadApp(t)

	const numRequests = 50
	const numConcurrent = 10

	body := []byte(mustJSON(t, submission(questionnaire.VariantExtended, 3)))

	type result struct {
		duration time.Duration
		status   int
	}
	results := make(chan result, numRequests)

	for i := 0; i < numConcurrent; i++ {
		go func() {
			for j := 0; j < numRequests/numConcurrent; j++ {
				duration, status := postDiagnosis(r, body)
				results <- result{duration, status}
			}
		}()
	}

	var totalDuration time.Duration
	var successCount int
	maxDuration := time.Duration(0)
	minDuration := time.Hour

	for i := 0; i < numRequests; i++ {
		res := <-results
		totalDuration += res.duration
		if res.status == http.StatusCreated {
			successCount++
		}
		if res.duration > maxDuration {
			maxDuration = res.duration
		}
		if res.duration < minDuration {
			minDuration = res.duration
		}
	}

	averageDuration := totalDuration / time.Duration(numRequests)
	successRate := float64(successCount) / float64(numRequests) * 100

	t.Logf("Load test results:")
	t.Logf("  Total requests: %d", numRequests)
	t.Logf("  Successful responses: %d (%.1f%%)", successCount, successRate)
	t.Logf("  Average response time: %v", averageDuration)
	t.Logf("  Min response time: %v", minDuration)
	t.Logf("  Max response time: %v", maxDuration)

	assert.Equal(t, numRequests, successCount, "All requests should succeed")
	assert.True(t, averageDuration < 2*time.Second, "Average response time should be under 2 seconds under load")
	assert.True(t, maxDuration < 5*time.Second, "Maximum response time should be under 5 seconds")
}

func TestDiagnosisPipeline_TimingBreakdown(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping timing breakdown test in short mode")
	}

	a, _ := loadApp(t)
	req := submission(questionnaire.VariantExtended, 4).ToRequest()

	start := time.Now()
	res, err := a.diagnoser.Diagnose(context.Background(), req)
	duration := time.Since(start)

	require.NoError(t, err)
	require.NotNil(t, res)

	t.Logf("Diagnosis pipeline timing:")
	t.Logf("  Total duration: %v", duration)
	t.Logf("  Percentage: %d", res.ScoreAnalysis.Percentage)
	t.Logf("  Quality: %.1f", res.QualityMetrics.OverallScore)
	t.Logf("  Priority items: %d", len(res.PriorityMatrix))

	assert.True(t, duration < time.Second, "Diagnosis should complete within 1 second")
}

func TestConcurrentDiagnosis_ThreadSafety(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping thread safety test in short mode")
	}

	a, r := loadApp(t)

	const numGoroutines = 20
	const requestsPerGoroutine = 5

	body := []byte(mustJSON(t, submission(questionnaire.VariantCore, 4)))
	results := make(chan error, numGoroutines*requestsPerGoroutine)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			for j := 0; j < requestsPerGoroutine; j++ {
				if _, status := postDiagnosis(r, body); status != http.StatusCreated {
					results <- assert.AnError
				} else {
					results <- nil
				}
			}
		}()
	}

	var errorCount int
	for i := 0; i < numGoroutines*requestsPerGoroutine; i++ {
		if err := <-results; err != nil {
			errorCount++
		}
	}

	t.Logf("Thread safety test completed:")
	t.Logf("  Total requests: %d", numGoroutines*requestsPerGoroutine)
	t.Logf("  Errors: %d", errorCount)

	assert.Equal(t, 0, errorCount, "No errors should occur in concurrent requests")

	stats := a.metrics.GetDiagnosisStats()
	assert.Equal(t, int64(numGoroutines*requestsPerGoroutine), stats["completed"])
}

func TestEndpoint_ResponseTimeDistribution(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping response time distribution test in short mode")
	}

	_, r := loadApp(t)

	const numRequests = 100
	durations := make([]time.Duration, numRequests)
	body := []byte(mustJSON(t, submission(questionnaire.VariantCore, 2)))

	for i := 0; i < numRequests; i++ {
		duration, status := postDiagnosis(r, body)
		durations[i] = duration
		assert.Equal(t, http.StatusCreated, status)
	}

	var totalDuration time.Duration
	for _, d := range durations {
		totalDuration += d
	}
	averageDuration := totalDuration / time.Duration(numRequests)

	percentiles := calculatePercentiles(durations, 0.5, 0.95, 0.99)
	p50, p95, p99 := percentiles[0], percentiles[1], percentiles[2]

	t.Logf("Response time distribution:")
	t.Logf("  Requests: %d", numRequests)
	t.Logf("  Average: %v", averageDuration)
	t.Logf("  P50: %v", p50)
	t.Logf("  P95: %v", p95)
	t.Logf("  P99: %v", p99)

	assert.True(t, averageDuration < 250*time.Millisecond, "Average response time should be under 250ms")
	assert.True(t, p95 < 500*time.Millisecond, "95th percentile should be under 500ms")
	assert.True(t, p99 < time.Second, "99th percentile should be under 1 second")
}

// calculatePercentiles sorts a copy of durations and picks the nearest rank.
func calculatePercentiles(durations []time.Duration, percentiles ...float64) []time.Duration {
	results := make([]time.Duration, len(percentiles))
	if len(durations) == 0 {
		return results
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for i, p := range percentiles {
		index := int(float64(len(sorted)-1) * p)
		if index >= len(sorted) {
			index = len(sorted) - 1
		}
		results[i] = sorted[index]
	}
	return results
}

func TestCalculatePercentiles(t *testing.T) {
	durations := []time.Duration{9, 1, 5, 3, 7, 2, 8, 4, 6, 10}

	tests := []struct {
		name        string
		durations   []time.Duration
		percentiles []float64
		want        []time.Duration
	}{
		{name: "unsorted input", durations: durations, percentiles: []float64{0, 0.5, 1}, want: []time.Duration{1, 5, 10}},
		{name: "empty input", durations: nil, percentiles: []float64{0.5}, want: []time.Duration{0}},
		{name: "no percentiles", durations: durations, percentiles: nil, want: []time.Duration{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculatePercentiles(tt.durations, tt.percentiles...))
		})
	}
	assert.Equal(t, time.Duration(9), durations[0], "input must not be reordered")
}

func TestErrorRecovery_Performance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping error recovery performance test in short mode")
	}

	_, r := loadApp(t)

	valid := []byte(mustJSON(t, submission(questionnaire.VariantCore, 3)))
	invalid := []byte(`{"companyName": "Acme", "responses": }`)
	const numRequests = 50

	var validTotal, invalidTotal time.Duration
	for i := 0; i < numRequests; i++ {
		duration, status := postDiagnosis(r, valid)
		assert.Equal(t, http.StatusCreated, status)
		validTotal += duration
	}
	for i := 0; i < numRequests; i++ {
		duration, status := postDiagnosis(r, invalid)
		assert.Equal(t, http.StatusBadRequest, status)
		invalidTotal += duration
	}

	validAvg := validTotal / numRequests
	invalidAvg := invalidTotal / numRequests

	t.Logf("Error recovery performance:")
	t.Logf("  Valid requests average: %v", validAvg)
	t.Logf("  Invalid requests average: %v", invalidAvg)

	assert.True(t, invalidAvg < validAvg*2, "Rejecting a request should not cost more than diagnosing one")
}
