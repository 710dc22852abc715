package ratelimit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
)

// HandleRateLimitStatus returns the limits that apply to the requesting IP.
func (rl *RateLimiter) HandleRateLimitStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ip": c.ClientIP(),
			"limits": gin.H{
				"ip_per_minute":        rl.config.IPLimitPerMin,
				"diagnosis_per_minute": rl.config.DiagnosisLimitPerMin,
			},
			"redis_enabled": rl.redisClient.IsEnabled(),
			"timestamp":     time.Now().Format(time.RFC3339),
		})
	}
}

// HandleAdminRateLimits returns limiter state and block counters.
func (rl *RateLimiter) HandleAdminRateLimits() gin.HandlerFunc {
	return func(c *gin.Context) {
		keyCount, err := rl.GetKeyCount(c.Request.Context())
		if err != nil {
			_ = c.Error(apperrors.NewInternalError("failed to count rate limit keys", err))
			return
		}

		var rateLimitMetrics map[string]interface{}
		if rl.metrics != nil {
			rateLimitMetrics = rl.metrics.GetRateLimitStats()
		}

		c.JSON(http.StatusOK, gin.H{
			"total_keys":    keyCount,
			"limiter_stats": rl.GetStats(),
			"metrics":       rateLimitMetrics,
			"timestamp":     time.Now().Format(time.RFC3339),
		})
	}
}

// HandleAdminInvalidateIP clears every limit tracked for the :ip parameter.
func (rl *RateLimiter) HandleAdminInvalidateIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.Param("ip")
		if ip == "" {
			_ = c.Error(apperrors.NewValidationError("IP address is required"))
			return
		}

		n, err := rl.InvalidateIP(c.Request.Context(), ip)
		if err != nil {
			_ = c.Error(apperrors.NewInternalError("failed to invalidate IP rate limits", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "IP rate limits invalidated",
			"ip":        ip,
			"removed":   n,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
