package peers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/cache"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/encoding"
)

// RankingCache keeps encoded rankings keyed by period and window start.
type RankingCache struct {
	cache *cache.Cache
}

// NewRankingCache creates a cache whose entries live for ttl.
func NewRankingCache(ttl time.Duration) *RankingCache {
	return &RankingCache{cache: cache.NewCache(ttl, time.Minute)}
}

func cacheKey(period Period, start time.Time) string {
	return fmt.Sprintf("peers:%s:%d", period, start.Unix())
}

// Get returns the cached ranking of a period window.
func (rc *RankingCache) Get(period Period, start time.Time) (*Ranking, bool) {
	key := cacheKey(period, start)
	data, found := rc.cache.Get(key)
	if !found {
		return nil, false
	}

	var r Ranking
	if err := encoding.UnmarshalJSON(data, &r); err != nil {
		slog.Error("Failed to decode cached peer ranking", "error", err, "key", key)
		return nil, false
	}
	return &r, true
}

// Set caches a ranking under its own period window.
func (rc *RankingCache) Set(r *Ranking) {
	data, err := encoding.MarshalJSON(r)
	if err != nil {
		slog.Error("Failed to encode peer ranking for cache", "error", err, "period", r.Period)
		return
	}
	rc.cache.Set(cacheKey(r.Period, r.PeriodStart), data)
}

// InvalidateAll drops every cached ranking.
func (rc *RankingCache) InvalidateAll() {
	rc.cache.Clear()
}

// GetStats returns cache statistics.
func (rc *RankingCache) GetStats() map[string]interface{} {
	return rc.cache.Stats()
}

// Close stops the background sweep.
func (rc *RankingCache) Close() {
	rc.cache.Close()
}
