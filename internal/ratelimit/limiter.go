package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"golang.org/x/time/rate"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/monitoring"
)

const keyPrefix = "ratelimit:"

// Config holds rate limiter configuration
type Config struct {
	IPLimitPerMin        int           // all API requests per client IP
	DiagnosisLimitPerMin int           // diagnosis submissions per client IP
	BurstMultiplier      int           // fallback bucket size as a multiple of the limit
	CleanupInterval      time.Duration // how often idle fallback buckets are dropped
	MaxFallbackLimiters  int
}

func DefaultConfig() Config {
	return Config{
		IPLimitPerMin:        120,
		DiagnosisLimitPerMin: 10,
		BurstMultiplier:      1,
		CleanupInterval:      time.Hour,
		MaxFallbackLimiters:  10000,
	}
}

// Rate is a limit of Limit events per Period.
type Rate struct {
	Limit  int
	Period time.Duration
}

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// RateLimiter limits through Redis when it is reachable and falls back to
// in-process token buckets otherwise.
type RateLimiter struct {
	redisLimiter *redis_rate.Limiter
	redisClient  *RedisClient
	config       Config
	metrics      *monitoring.Metrics

	fallbackLimiters map[string]*rate.Limiter
	fallbackMutex    sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(redisClient *RedisClient, config Config, metrics *monitoring.Metrics) *RateLimiter {
	if redisClient == nil {
		redisClient = &RedisClient{}
	}
	if config.BurstMultiplier < 1 {
		config.BurstMultiplier = 1
	}

	rl := &RateLimiter{
		redisClient:      redisClient,
		config:           config,
		metrics:          metrics,
		fallbackLimiters: make(map[string]*rate.Limiter),
		stop:             make(chan struct{}),
	}

	if redisClient.IsEnabled() {
		rl.redisLimiter = redis_rate.NewLimiter(redisClient.GetClient())
		slog.Info("Redis rate limiter initialized")
	} else {
		slog.Warn("Redis unavailable, using in-memory rate limiting only")
	}

	if config.CleanupInterval > 0 {
		go rl.cleanupFallbackLimiters(config.CleanupInterval)
	}

	return rl
}

// Close stops the fallback cleanup loop.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) Config() Config { return rl.config }

func ipKey(ip string) string {
	return fmt.Sprintf("%sip:%s", keyPrefix, ip)
}

func endpointKey(endpoint, ip string) string {
	return fmt.Sprintf("%sendpoint:%s:%s", keyPrefix, endpoint, ip)
}

// AllowIP applies the per-minute limit for all API requests from ip.
func (rl *RateLimiter) AllowIP(ctx context.Context, ip string) (*Result, error) {
	return rl.Allow(ctx, ipKey(ip), Rate{Limit: rl.config.IPLimitPerMin, Period: time.Minute})
}

// Allow checks one event against key.
func (rl *RateLimiter) Allow(ctx context.Context, key string, r Rate) (*Result, error) {
	if r.Limit <= 0 {
		return &Result{Allowed: true, Limit: r.Limit}, nil
	}

	if rl.redisClient.IsEnabled() && rl.redisLimiter != nil {
		result, err := rl.allowRedis(ctx, key, r)
		if err == nil {
			return result, nil
		}
		slog.Warn("Redis rate limit check failed, using fallback", "key", key, "error", err)
		if rl.metrics != nil {
			rl.metrics.IncrementRateLimitRedisError()
		}
	}

	if rl.metrics != nil {
		rl.metrics.IncrementRateLimitFallback()
	}
	return rl.allowFallback(key, r), nil
}

func (rl *RateLimiter) allowRedis(ctx context.Context, key string, r Rate) (*Result, error) {
	res, err := rl.redisLimiter.Allow(ctx, key, redis_rate.Limit{
		Rate:   r.Limit,
		Burst:  r.Limit,
		Period: r.Period,
	})
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Limit:      res.Limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
	}, nil
}

func (rl *RateLimiter) allowFallback(key string, r Rate) *Result {
	rl.fallbackMutex.Lock()
	limiter, exists := rl.fallbackLimiters[key]
	if !exists {
		every := r.Period / time.Duration(r.Limit)
		limiter = rate.NewLimiter(rate.Every(every), r.Limit*rl.config.BurstMultiplier)
		rl.fallbackLimiters[key] = limiter
	}
	rl.fallbackMutex.Unlock()

	now := time.Now()
	res := &Result{
		Allowed: limiter.AllowN(now, 1),
		Limit:   r.Limit,
	}

	tokens := limiter.TokensAt(now)
	if tokens > 0 {
		res.Remaining = int(tokens)
	}
	missing := float64(limiter.Burst()) - tokens
	res.ResetAt = now.Add(time.Duration(missing * float64(r.Period) / float64(r.Limit)))

	if !res.Allowed {
		res.RetryAfter = time.Duration((1 - tokens) * float64(r.Period) / float64(r.Limit))
		if res.RetryAfter < time.Second {
			res.RetryAfter = time.Second
		}
	}

	return res
}

// cleanupFallbackLimiters drops full buckets, which carry no state worth keeping.
func (rl *RateLimiter) cleanupFallbackLimiters(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			if n := rl.dropIdle(time.Now()); n > 0 {
				slog.Info("Cleaned up fallback rate limiters", "count", n)
			}
		}
	}
}

func (rl *RateLimiter) dropIdle(now time.Time) int {
	rl.fallbackMutex.Lock()
	defer rl.fallbackMutex.Unlock()

	dropped := 0
	for key, l := range rl.fallbackLimiters {
		if l.TokensAt(now) >= float64(l.Burst()) {
			delete(rl.fallbackLimiters, key)
			dropped++
		}
	}
	if limit := rl.config.MaxFallbackLimiters; limit > 0 && len(rl.fallbackLimiters) > limit {
		dropped += len(rl.fallbackLimiters)
		rl.fallbackLimiters = make(map[string]*rate.Limiter)
	}
	return dropped
}

// GetStats returns rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.fallbackMutex.Lock()
	fallbackCount := len(rl.fallbackLimiters)
	rl.fallbackMutex.Unlock()

	stats := map[string]interface{}{
		"redis_enabled":     rl.redisClient.IsEnabled(),
		"fallback_limiters": fallbackCount,
		"ip_limit_per_min":  rl.config.IPLimitPerMin,
		"diagnosis_per_min": rl.config.DiagnosisLimitPerMin,
	}

	if rl.redisClient.IsEnabled() {
		stats["redis_pool"] = rl.redisClient.GetPoolStats()
	}

	return stats
}
