package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/config"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/monitoring"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/narrative"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/types"
)

type testDeps struct {
	narrator narrative.Narrator
	judge    narrative.Judge
	mutate   func(*config.Config)
}

func setupApp(t testing.TB, deps testDeps) (*app, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = t.TempDir()
	cfg.Server.TrustedProxies = nil
	if deps.mutate != nil {
		deps.mutate(cfg)
	}

	logger := monitoring.NewLogger(io.Discard, slog.LevelError)
	a, err := newApp(context.Background(), cfg, logger, deps.narrator, deps.judge)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return a, a.router()
}

func submission(variant questionnaire.Variant, value float64) types.DiagnosisRequest {
	catalog, _ := questionnaire.Lookup(variant)
	responses := make(map[string]any, catalog.Len())
	for _, q := range catalog.Questions {
		responses[q.ID] = value
	}
	return types.DiagnosisRequest{
		Catalog:     string(variant),
		CompanyName: "Acme Labs",
		Industry:    "finance",
		Size:        "50-199",
		Responses:   responses,
	}
}

func doJSON(t testing.TB, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t testing.TB, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthEndpoint(t *testing.T) {
	_, r := setupApp(t, testDeps{})

	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectedHealth string
	}{
		{name: "GET /health returns healthy", method: http.MethodGet, expectedStatus: http.StatusOK, expectedHealth: "healthy"},
		{name: "POST /health is not routed", method: http.MethodPost, expectedStatus: http.StatusNotFound},
		{name: "DELETE /health is not routed", method: http.MethodDelete, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/health", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedHealth != "" {
				var resp types.HealthResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedHealth, resp.Status)
				assert.Contains(t, resp.Storage, "pool")
				assert.Equal(t, false, resp.Collaborators["redis_enabled"])
			}
		})
	}
}

func TestDiagnosisLifecycle(t *testing.T) {
	_, r := setupApp(t, testDeps{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/diagnoses", submission(questionnaire.VariantCore, 3))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "true", w.Header().Get("X-Diagnosis-Stored"))

	created := decode(t, w)
	id, _ := created["diagnosisId"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "/api/v1/diagnoses/"+id, w.Header().Get("Location"))

	score := created["scoreAnalysis"].(map[string]any)
	assert.Equal(t, float64(60), score["percentage"])
	assert.Equal(t, "C", score["grade"])
	assert.Contains(t, created, "qualityMetrics")
	assert.Contains(t, created, "priorityMatrix")

	w = doJSON(t, r, http.MethodGet, "/api/v1/diagnoses/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode(t, w)
	assert.Equal(t, id, fetched["diagnosisId"])
	assert.Equal(t, score["grade"], fetched["scoreAnalysis"].(map[string]any)["grade"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/diagnoses?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/stats/grades", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"C":1}`, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/api/v1/diagnoses/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/diagnoses/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode(t, w)["category"])
}

func TestCreateDiagnosis_InvalidRequests(t *testing.T) {
	_, r := setupApp(t, testDeps{})

	unknownCatalog := submission(questionnaire.VariantCore, 3)
	unknownCatalog.Catalog = "99"

	noResponses := submission(questionnaire.VariantCore, 3)
	noResponses.Responses = map[string]any{}

	tests := []struct {
		name           string
		body           string
		contentType    string
		expectedStatus int
	}{
		{name: "malformed JSON", body: `{"companyName":`, contentType: "application/json", expectedStatus: http.StatusBadRequest},
		{name: "missing company", body: `{"industry":"it","responses":{"ca1":3}}`, contentType: "application/json", expectedStatus: http.StatusBadRequest},
		{name: "unknown catalog", body: mustJSON(t, unknownCatalog), contentType: "application/json", expectedStatus: http.StatusBadRequest},
		{name: "empty responses", body: mustJSON(t, noResponses), contentType: "application/json", expectedStatus: http.StatusBadRequest},
		{name: "wrong content type", body: mustJSON(t, submission(questionnaire.VariantCore, 3)), contentType: "text/plain", expectedStatus: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnoses", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Equal(t, "validation", decode(t, w)["category"])
			}
		})
	}
}

func mustJSON(t testing.TB, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestListDiagnoses_BadLimit(t *testing.T) {
	_, r := setupApp(t, testDeps{})

	for _, limit := range []string{"abc", "0", "-3"} {
		t.Run(limit, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, "/api/v1/diagnoses?limit="+limit, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCatalogEndpoints(t *testing.T) {
	_, r := setupApp(t, testDeps{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/catalogs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summaries []catalogSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, questionnaire.VariantCore, summaries[0].Variant)
	assert.Equal(t, 20, summaries[0].Questions)
	assert.Equal(t, 45, summaries[1].Questions)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedCache  string
	}{
		{name: "extended catalog miss", path: "/api/v1/catalogs/45", expectedStatus: http.StatusOK, expectedCache: "MISS"},
		{name: "extended catalog hit", path: "/api/v1/catalogs/45", expectedStatus: http.StatusOK, expectedCache: "HIT"},
		{name: "unknown catalog", path: "/api/v1/catalogs/99", expectedStatus: http.StatusNotFound, expectedCache: "MISS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCache, w.Header().Get("X-Cache"))
			if w.Code == http.StatusOK {
				var catalog questionnaire.Catalog
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
				assert.Len(t, catalog.Questions, 45)
			}
		})
	}
}

func TestBenchmarksEndpoint(t *testing.T) {
	_, r := setupApp(t, testDeps{mutate: func(cfg *config.Config) {
		cfg.Benchmarks.SizeAdjustments = map[string]float64{"small": -4}
	}})

	w := doJSON(t, r, http.MethodGet, "/api/v1/benchmarks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	adjust := body["sizeAdjustments"].(map[string]any)
	assert.Equal(t, float64(-4), adjust["small"])
	assert.Contains(t, adjust, "large")

	keys := []string{}
	for _, item := range body["industries"].([]any) {
		keys = append(keys, item.(map[string]any)["key"].(string))
	}
	assert.Contains(t, keys, "finance")
	assert.Contains(t, keys, "manufacturing")
}

func TestDiagnosisEndpointRateLimit(t *testing.T) {
	_, r := setupApp(t, testDeps{mutate: func(cfg *config.Config) {
		cfg.RateLimit.DiagnosisPerMin = 2
	}})

	body := submission(questionnaire.VariantCore, 4)
	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/v1/diagnoses", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/diagnoses", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit", decode(t, w)["category"])

	// reads are not limited by the diagnosis budget
	w = doJSON(t, r, http.MethodGet, "/api/v1/diagnoses", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCollaboratorsAreGuarded(t *testing.T) {
	narrator := narrative.NarratorFunc(func(ctx context.Context, spec narrative.SectionSpec) (string, error) {
		return "", errors.New("model overloaded")
	})
	judge := narrative.JudgeFunc(func(ctx context.Context, req narrative.JudgeRequest) (narrative.Judgement, error) {
		return narrative.Judgement{Score: 95, Rationale: "clear"}, nil
	})
	a, r := setupApp(t, testDeps{narrator: narrator, judge: judge})

	body := submission(questionnaire.VariantExtended, 4)
	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/v1/diagnoses", body)
		require.Equal(t, http.StatusCreated, w.Code)

		res := decode(t, w)
		for _, section := range res["narrative"].([]any) {
			assert.Equal(t, true, section.(map[string]any)["detailsUnavailable"])
		}
	}

	narratorHealth, ok := a.health.Get("narrator")
	require.True(t, ok)
	assert.GreaterOrEqual(t, narratorHealth.ErrorCount, int64(5))

	judgeHealth, ok := a.health.Get("judge")
	require.True(t, ok)
	assert.Zero(t, judgeHealth.ErrorCount)

	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", decode(t, w)["status"])

	stats := a.metrics.GetCollaboratorStats()
	assert.NotEmpty(t, stats)
}

func TestMetricsEndpoint(t *testing.T) {
	_, r := setupApp(t, testDeps{})

	doJSON(t, r, http.MethodGet, "/api/v1/catalogs/20", nil)
	doJSON(t, r, http.MethodGet, "/api/v1/catalogs/20", nil)

	w := doJSON(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	for _, key := range []string{"requests", "cache", "compression", "encoding", "database", "redis", "limiter"} {
		assert.Contains(t, body, key)
	}
	requests := body["requests"].(map[string]any)
	assert.Equal(t, float64(1), requests["cache_hits"])
	assert.Equal(t, float64(1), requests["cache_misses"])
}

func TestSecurityHeadersAndCompression(t *testing.T) {
	_, r := setupApp(t, testDeps{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalogs/45", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestAdminRoutesDisabledByDefault(t *testing.T) {
	_, r := setupApp(t, testDeps{})
	w := doJSON(t, r, http.MethodGet, "/admin/ratelimits", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, r = setupApp(t, testDeps{mutate: func(cfg *config.Config) { cfg.Server.EnableAdmin = true }})
	w = doJSON(t, r, http.MethodGet, "/admin/ratelimits", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIndustryStatsEndpoint(t *testing.T) {
	_, r := setupApp(t, testDeps{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/stats/industries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["total"])

	for _, v := range []float64{2, 3, 4} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/diagnoses", submission(questionnaire.VariantCore, v))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	other := submission(questionnaire.VariantCore, 5)
	other.Industry = "retail"
	w = doJSON(t, r, http.MethodPost, "/api/v1/diagnoses", other)
	require.Equal(t, http.StatusCreated, w.Code)

	// the empty ranking cached above is dropped by the new diagnoses
	w = doJSON(t, r, http.MethodGet, "/api/v1/stats/industries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["total"])

	w = doJSON(t, r, http.MethodGet, "/api/v1/stats/industries?period=monthly", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "monthly", body["period"])
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(1), body["suppressed"])

	entry := body["entries"].([]any)[0].(map[string]any)
	assert.Equal(t, "finance", entry["industry"])
	assert.Equal(t, float64(3), entry["diagnoses"])
	assert.Equal(t, float64(60), entry["meanPercentage"])
	assert.NotContains(t, entry, "companyName")

	w = doJSON(t, r, http.MethodGet, "/api/v1/stats/industries?period=hourly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
