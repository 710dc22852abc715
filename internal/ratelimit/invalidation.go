package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"
)

// InvalidateIP removes every limit tracked for ip, including per-endpoint ones.
func (rl *RateLimiter) InvalidateIP(ctx context.Context, ip string) (int, error) {
	if !rl.redisClient.IsEnabled() {
		rl.fallbackMutex.Lock()
		defer rl.fallbackMutex.Unlock()

		n := 0
		for key := range rl.fallbackLimiters {
			if key == ipKey(ip) || (strings.HasPrefix(key, keyPrefix+"endpoint:") && strings.HasSuffix(key, ":"+ip)) {
				delete(rl.fallbackLimiters, key)
				n++
			}
		}
		slog.Info("Invalidated IP rate limits (in-memory)", "ip", ip, "count", n)
		return n, nil
	}

	n, err := rl.deleteByPattern(ctx, ipKey(ip))
	if err != nil {
		return n, err
	}
	m, err := rl.deleteByPattern(ctx, endpointKey("*", ip))
	return n + m, err
}

// InvalidateAll removes every rate limit key.
func (rl *RateLimiter) InvalidateAll(ctx context.Context) (int, error) {
	if !rl.redisClient.IsEnabled() {
		rl.fallbackMutex.Lock()
		defer rl.fallbackMutex.Unlock()

		count := len(rl.fallbackLimiters)
		rl.fallbackLimiters = make(map[string]*rate.Limiter)

		slog.Warn("Invalidated all rate limits (in-memory)", "count", count)
		return count, nil
	}

	slog.Warn("Invalidating ALL rate limits")
	return rl.deleteByPattern(ctx, keyPrefix+"*")
}

// GetKeyCount returns how many keys currently hold limiter state.
func (rl *RateLimiter) GetKeyCount(ctx context.Context) (int, error) {
	if !rl.redisClient.IsEnabled() {
		rl.fallbackMutex.Lock()
		defer rl.fallbackMutex.Unlock()
		return len(rl.fallbackLimiters), nil
	}

	client := rl.redisClient.GetClient()
	var cursor uint64
	count := 0
	for {
		keys, next, err := client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return count, fmt.Errorf("failed to scan keys: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

func (rl *RateLimiter) deleteByPattern(ctx context.Context, pattern string) (int, error) {
	client := rl.redisClient.GetClient()

	var cursor uint64
	var deletedCount int
	for {
		keys, nextCursor, err := client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deletedCount, fmt.Errorf("failed to scan keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := client.Del(ctx, keys...).Result()
			if err != nil {
				return deletedCount, fmt.Errorf("failed to delete keys: %w", err)
			}
			deletedCount += int(deleted)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	slog.Info("Deleted rate limit keys by pattern", "pattern", pattern, "count", deletedCount)
	return deletedCount, nil
}
