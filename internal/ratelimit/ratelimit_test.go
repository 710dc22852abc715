package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/monitoring"
)

func newFallbackLimiter(t *testing.T, cfg Config) (*RateLimiter, *monitoring.Metrics) {
	t.Helper()
	metrics := monitoring.NewMetrics()
	rl := NewRateLimiter(&RedisClient{}, cfg, metrics)
	t.Cleanup(rl.Close)
	return rl, metrics
}

func TestFallbackAllowsUpToLimit(t *testing.T) {
	tests := []struct {
		name        string
		rate        Rate
		requests    int
		wantAllowed int
	}{
		{name: "five per minute", rate: Rate{Limit: 5, Period: time.Minute}, requests: 8, wantAllowed: 5},
		{name: "one per hour", rate: Rate{Limit: 1, Period: time.Hour}, requests: 3, wantAllowed: 1},
		{name: "disabled", rate: Rate{Limit: 0, Period: time.Minute}, requests: 50, wantAllowed: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl, _ := newFallbackLimiter(t, DefaultConfig())
			ctx := context.Background()

			allowed := 0
			var last *Result
			for i := 0; i < tt.requests; i++ {
				res, err := rl.Allow(ctx, "test:"+tt.name, tt.rate)
				require.NoError(t, err)
				if res.Allowed {
					allowed++
				}
				last = res
			}
			assert.Equal(t, tt.wantAllowed, allowed)
			if tt.wantAllowed < tt.requests {
				assert.False(t, last.Allowed)
				assert.Equal(t, 0, last.Remaining)
				assert.GreaterOrEqual(t, last.RetryAfter, time.Second)
			}
		})
	}
}

func TestBurstMultiplier(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BurstMultiplier = 2
	rl, _ := newFallbackLimiter(t, cfg)

	allowed := 0
	for i := 0; i < 15; i++ {
		res, err := rl.Allow(context.Background(), "burst", Rate{Limit: 5, Period: time.Minute})
		require.NoError(t, err)
		if res.Allowed {
			allowed++
		}
	}
	assert.Equal(t, 10, allowed)
}

func TestInvalidateIP(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IPLimitPerMin = 2
	rl, _ := newFallbackLimiter(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := rl.AllowIP(ctx, "10.0.0.1")
		require.NoError(t, err)
	}
	_, err := rl.Allow(ctx, endpointKey("diagnoses", "10.0.0.1"), Rate{Limit: 1, Period: time.Minute})
	require.NoError(t, err)
	_, err = rl.AllowIP(ctx, "10.0.0.2")
	require.NoError(t, err)

	res, err := rl.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	n, err := rl.InvalidateIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	res, err = rl.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	count, err := rl.GetKeyCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	n, err = rl.InvalidateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDropIdle(t *testing.T) {
	rl, _ := newFallbackLimiter(t, DefaultConfig())
	ctx := context.Background()

	_, err := rl.Allow(ctx, "busy", Rate{Limit: 5, Period: time.Hour})
	require.NoError(t, err)
	_, err = rl.Allow(ctx, "idle", Rate{Limit: 5, Period: time.Millisecond})
	require.NoError(t, err)

	assert.Equal(t, 1, rl.dropIdle(time.Now().Add(time.Second)))
	assert.Equal(t, 1, rl.GetStats()["fallback_limiters"])
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := DefaultConfig()
	cfg.IPLimitPerMin = 100
	rl, metrics := newFallbackLimiter(t, cfg)

	r := gin.New()
	r.Use(apperrors.ErrorHandler())
	r.Use(rl.IPRateLimitMiddleware())
	r.POST("/api/v1/diagnoses", rl.EndpointRateLimitMiddleware("diagnoses", 2), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 3)
	var last *httptest.ResponseRecorder
	for i := range codes {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodPost, "/api/v1/diagnoses", nil))
		codes[i] = last.Code
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Endpoint-Limit"))
	assert.Equal(t, "100", last.Header().Get("X-RateLimit-Limit"))

	stats := metrics.GetRateLimitStats()
	assert.Equal(t, int64(0), stats["ip_blocks"])
	assert.Equal(t, int64(1), stats["endpoint_blocks"].(map[string]int64)["diagnoses"])
}

func TestRedisClientDisabledWithoutAddress(t *testing.T) {
	client, err := NewRedisClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	assert.False(t, client.IsEnabled())
	assert.Error(t, client.HealthCheck(context.Background()))
	assert.NoError(t, client.Close())
	assert.Equal(t, false, client.GetPoolStats()["enabled"])
}
