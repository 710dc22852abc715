package cache

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	hits, misses atomic.Int64
}

func (m *countingMetrics) IncrementCacheHit()  { m.hits.Add(1) }
func (m *countingMetrics) IncrementCacheMiss() { m.misses.Add(1) }

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache(time.Minute, 0)
	c.now = func() time.Time { return now }
	defer c.Close()

	c.Set("a", []byte("1"))
	data, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), data)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Stats()["expired_items"])
	assert.Equal(t, 1, c.DeleteExpired())
	assert.Equal(t, 0, c.Size())
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("/api/v1/catalogs/20"), Key("/api/v1/catalogs/20"))
	assert.NotEqual(t, Key("/api/v1/catalogs/20"), Key("/api/v1/catalogs/45"))
	assert.Len(t, Key("x"), 64)
}

func TestMiddlewareCachesGETUnderPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCache(time.Minute, 0)
	defer c.Close()
	m := &countingMetrics{}

	var calls atomic.Int32
	r := gin.New()
	r.Use(c.Middleware(m, "/api/v1/catalogs"))
	r.GET("/api/v1/catalogs/:variant", func(ctx *gin.Context) {
		calls.Add(1)
		ctx.JSON(http.StatusOK, gin.H{"variant": ctx.Param("variant")})
	})
	r.GET("/other", func(ctx *gin.Context) {
		calls.Add(1)
		ctx.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalogs/20", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"variant":"20"}`, w.Body.String())
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int64(2), m.hits.Load())
	assert.Equal(t, int64(1), m.misses.Load())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, int32(3), calls.Load())
}
