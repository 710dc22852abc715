// Package config loads server and pipeline settings from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"
	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/narrative"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/quality"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

type Config struct {
	Server     ServerConfig    `yaml:"server"`
	Storage    StorageConfig   `yaml:"storage"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
	Pipeline   PipelineConfig  `yaml:"pipeline"`
	Gemini     GeminiConfig    `yaml:"gemini"`
	Benchmarks BenchmarkConfig `yaml:"benchmarks"`
	Quality    QualityConfig   `yaml:"quality"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	LogLevel        string        `yaml:"log_level"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	TrustedProxies  []string      `yaml:"trusted_proxies"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	EnableHSTS      bool          `yaml:"enable_hsts"`
	EnableAdmin     bool          `yaml:"enable_admin"`
	EnableProfiling bool          `yaml:"enable_profiling"`
}

// StorageConfig locates the diagnosis store. RetentionDays <= 0 keeps
// diagnoses forever. Industries with fewer than PeerMinSamples stored
// diagnoses are left out of peer statistics.
type StorageConfig struct {
	DataDir        string        `yaml:"data_dir"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	RetentionDays  int           `yaml:"retention_days"`
	PeerMinSamples int           `yaml:"peer_min_samples"`
}

type RateLimitConfig struct {
	RedisAddr       string `yaml:"redis_addr"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	IPPerMin        int    `yaml:"ip_per_min"`
	DiagnosisPerMin int    `yaml:"diagnosis_per_min"`
}

// PipelineConfig controls the optional stages of a diagnosis.
type PipelineConfig struct {
	Brand            string        `yaml:"brand"`
	Narration        bool          `yaml:"narration"`
	Engagement       bool          `yaml:"engagement"`
	JudgeTimeout     time.Duration `yaml:"judge_timeout"`
	NarrationTimeout time.Duration `yaml:"narration_timeout"`
}

// GeminiConfig enables the model-backed judge and narrator when APIKey is set.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// BenchmarkConfig overrides entries of the built-in industry table. Size
// adjustments are keyed by size bucket (small, medium, large).
type BenchmarkConfig struct {
	Industries      []analysis.IndustryBaseline `yaml:"industries"`
	SizeAdjustments map[string]float64          `yaml:"size_adjustments"`
}

// QualityConfig overrides rubric pass marks by category key.
type QualityConfig struct {
	Minimums      map[string]float64 `yaml:"minimums"`
	FallbackScore float64            `yaml:"fallback_score"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			LogLevel:       "info",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			TrustedProxies: []string{"127.0.0.1", "::1"},
			RequestTimeout: 30 * time.Second,
			MaxBodyBytes:   1 << 20,
		},
		Storage: StorageConfig{
			DataDir:        "./data",
			CacheTTL:       15 * time.Minute,
			RetentionDays:  365,
			PeerMinSamples: 3,
		},
		RateLimit: RateLimitConfig{
			IPPerMin:        120,
			DiagnosisPerMin: 10,
		},
		Pipeline: PipelineConfig{
			Narration:        true,
			Engagement:       true,
			JudgeTimeout:     narrative.DefaultJudgeTimeout,
			NarrationTimeout: narrative.DefaultNarrationTimeout,
		},
		Gemini: GeminiConfig{
			Model: narrative.DefaultGeminiModel,
		},
		Quality: QualityConfig{
			FallbackScore: quality.DefaultFallbackScore,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, apperrors.NewConfigurationError("reading config", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.NewConfigurationError("parsing config", err)
	}

	return cfg, nil
}

// ApplyEnv overlays environment variables on the loaded values.
func (c *Config) ApplyEnv() error {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)
	c.Server.LogLevel = getEnvOrDefault("LOG_LEVEL", c.Server.LogLevel)
	c.Storage.DataDir = getEnvOrDefault("DATA_DIR", c.Storage.DataDir)
	c.RateLimit.RedisAddr = getEnvOrDefault("REDIS_ADDR", c.RateLimit.RedisAddr)
	c.RateLimit.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", c.RateLimit.RedisPassword)
	c.Gemini.APIKey = getEnvOrDefault("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.Model = getEnvOrDefault("GEMINI_MODEL", c.Gemini.Model)
	c.Pipeline.Brand = getEnvOrDefault("BRAND", c.Pipeline.Brand)

	c.Server.EnableProfiling = c.Server.EnableProfiling || os.Getenv("ENABLE_PROFILING") == "true"

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	var err error
	if c.RateLimit.DiagnosisPerMin, err = envInt("RATE_LIMIT_PER_MIN", c.RateLimit.DiagnosisPerMin); err != nil {
		return err
	}
	if c.Pipeline.JudgeTimeout, err = envDuration("JUDGE_TIMEOUT", c.Pipeline.JudgeTimeout); err != nil {
		return err
	}
	if c.Pipeline.NarrationTimeout, err = envDuration("NARRATION_TIMEOUT", c.Pipeline.NarrationTimeout); err != nil {
		return err
	}
	if c.Storage.CacheTTL, err = envDuration("CACHE_TTL", c.Storage.CacheTTL); err != nil {
		return err
	}
	if c.Storage.RetentionDays, err = envInt("RETENTION_DAYS", c.Storage.RetentionDays); err != nil {
		return err
	}
	return nil
}

// Validate checks the settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	problems := map[string]string{}
	if c.Server.Port == "" {
		problems["server.port"] = "must be set"
	}
	if c.Pipeline.JudgeTimeout <= 0 {
		problems["pipeline.judge_timeout"] = "must be positive"
	}
	if c.Pipeline.NarrationTimeout <= 0 {
		problems["pipeline.narration_timeout"] = "must be positive"
	}
	if c.Storage.CacheTTL < 0 {
		problems["storage.cache_ttl"] = "must not be negative"
	}
	for key := range c.Benchmarks.SizeAdjustments {
		switch questionnaire.SizeBucket(key) {
		case questionnaire.SizeSmall, questionnaire.SizeMedium, questionnaire.SizeLarge:
		default:
			problems["benchmarks.size_adjustments."+key] = "unknown size bucket"
		}
	}
	for i, b := range c.Benchmarks.Industries {
		if b.Key == "" {
			problems[fmt.Sprintf("benchmarks.industries[%d].key", i)] = "must be set"
		}
	}
	if err := c.Rubric().Validate(); err != nil {
		problems["quality"] = err.Error()
	}

	if len(problems) > 0 {
		return apperrors.NewConfigurationError(fmt.Sprintf("invalid config: %v", problems), nil)
	}
	return nil
}

// BenchmarkTable returns the built-in table with the configured overrides.
func (c *Config) BenchmarkTable() *analysis.BenchmarkTable {
	table := analysis.DefaultBenchmarkTable()
	if len(c.Benchmarks.Industries) > 0 {
		table = table.With(c.Benchmarks.Industries...)
	}
	if len(c.Benchmarks.SizeAdjustments) > 0 {
		adj := make(map[questionnaire.SizeBucket]float64, len(analysis.DefaultSizeAdjustments))
		for k, v := range analysis.DefaultSizeAdjustments {
			adj[k] = v
		}
		for k, v := range c.Benchmarks.SizeAdjustments {
			adj[questionnaire.SizeBucket(k)] = v
		}
		table = table.WithSizeAdjustments(adj)
	}
	return table
}

// Rubric returns the default quality rubric with the configured overrides.
func (c *Config) Rubric() quality.Rubric {
	r := quality.DefaultRubric()
	if len(c.Quality.Minimums) > 0 {
		r = r.WithMinimums(c.Quality.Minimums)
	}
	if c.Quality.FallbackScore != quality.DefaultFallbackScore {
		r = r.WithFallbackScore(c.Quality.FallbackScore)
	}
	return r
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, apperrors.NewConfigurationError(key+" must be an integer", err)
	}
	return n, nil
}

func envDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue, apperrors.NewConfigurationError(key+" must be a duration", err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
