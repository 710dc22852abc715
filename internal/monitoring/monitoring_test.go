package monitoring

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsDiagnosisStats(t *testing.T) {
	m := NewMetrics()
	m.RecordDiagnosis("C", "Excellent", []string{"INCOMPLETE_DATA"})
	m.RecordDiagnosis("C", "Good", nil)
	m.RecordDiagnosisFailure(true)
	m.RecordCollaboratorCall("judge", false)
	m.RecordCollaboratorCall("judge", true)

	stats := m.GetDiagnosisStats()
	assert.Equal(t, int64(2), stats["completed"])
	assert.Equal(t, int64(1), stats["validation_failures"])
	assert.Equal(t, map[string]int64{"C": 2}, stats["grades"])
	assert.Equal(t, map[string]int64{"INCOMPLETE_DATA": 1}, stats["warnings_by_code"])

	judge := m.GetCollaboratorStats()["judge"].(map[string]interface{})
	assert.Equal(t, int64(2), judge["requests"])
	assert.InDelta(t, 50.0, judge["error_rate"], 1e-9)

	m.Reset()
	assert.Equal(t, int64(0), m.GetDiagnosisStats()["completed"])
}

func TestPercentileResponseTime(t *testing.T) {
	m := NewMetrics()
	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}
	assert.Equal(t, 50*time.Millisecond, m.GetPercentileResponseTime(50))
	assert.Equal(t, 100*time.Millisecond, m.GetPercentileResponseTime(100))
}

func TestMonitoringMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	m := NewMetrics()

	r := gin.New()
	r.Use(MonitoringMiddleware(m, logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	for _, path := range []string{"/ok", "/bad", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, int64(3), m.RequestCount)
	assert.Equal(t, int64(1), m.ErrorCount)
	assert.Equal(t, map[int]int64{200: 2, 400: 1}, m.GetStatusCodeDistribution())

	line, err := buf.ReadBytes('\n')
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(line, &entry))
	assert.Equal(t, "HTTP Request", entry["msg"])
	assert.Contains(t, entry, "timestamp")
}

func TestContainsAny(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"id=1 UNION SELECT password", true},
		{"Mozilla/5.0 (sqlmap/1.7)", true},
		{"variant=20", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsAny(tt.input, append(sqlInjectionPatterns, scannerAgents...)), tt.input)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
