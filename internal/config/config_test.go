package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/quality"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  request_timeout: 5s
storage:
  cache_ttl: 2m
pipeline:
  brand: Acme Labs
  narration: false
  judge_timeout: 2s
benchmarks:
  industries:
    - key: finance
      mean: 72
  size_adjustments:
    small: -5
quality:
  minimums:
    dataAccuracy: 80
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Storage.CacheTTL)
	assert.Equal(t, "Acme Labs", cfg.Pipeline.Brand)
	assert.False(t, cfg.Pipeline.Narration)
	assert.True(t, cfg.Pipeline.Engagement)
	assert.Equal(t, 2*time.Second, cfg.Pipeline.JudgeTimeout)

	finance, ok := cfg.BenchmarkTable().Resolve("finance")
	require.True(t, ok)
	assert.Equal(t, 72.0, finance.Mean)
	assert.Equal(t, "Finance", finance.Label)
	assert.Equal(t, -5.0, cfg.BenchmarkTable().SizeAdjustment(questionnaire.SizeSmall))

	c, ok := cfg.Rubric().Category(quality.CategoryDataAccuracy)
	require.True(t, ok)
	assert.Equal(t, 80.0, c.MinimumScore)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("DATA_DIR", "/tmp/diag")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RATE_LIMIT_PER_MIN", "3")
	t.Setenv("JUDGE_TIMEOUT", "1500ms")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "/tmp/diag", cfg.Storage.DataDir)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3, cfg.RateLimit.DiagnosisPerMin)
	assert.Equal(t, 1500*time.Millisecond, cfg.Pipeline.JudgeTimeout)
	assert.Equal(t, time.Hour, cfg.Storage.CacheTTL)
	assert.Equal(t, "key", cfg.Gemini.APIKey)
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "rate limit", key: "RATE_LIMIT_PER_MIN", value: "many"},
		{name: "judge timeout", key: "JUDGE_TIMEOUT", value: "soon"},
		{name: "narration timeout", key: "NARRATION_TIMEOUT", value: "10"},
		{name: "cache ttl", key: "CACHE_TTL", value: "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.Error(t, DefaultConfig().ApplyEnv())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }},
		{name: "zero judge timeout", mutate: func(c *Config) { c.Pipeline.JudgeTimeout = 0 }},
		{name: "unknown size bucket", mutate: func(c *Config) { c.Benchmarks.SizeAdjustments = map[string]float64{"huge": 4} }},
		{name: "minimum out of range", mutate: func(c *Config) { c.Quality.Minimums = map[string]float64{quality.CategoryVisualQuality: 120} }},
		{name: "fallback out of range", mutate: func(c *Config) { c.Quality.FallbackScore = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
