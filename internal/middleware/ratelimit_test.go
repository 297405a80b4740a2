package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLimiterPool_BurstThenReject(t *testing.T) {
	pool := NewLimiterPool(0.001, 2)
	defer pool.Shutdown()

	assert.True(t, pool.Allow("1.2.3.4"))
	assert.True(t, pool.Allow("1.2.3.4"))
	assert.False(t, pool.Allow("1.2.3.4"))
	assert.True(t, pool.Allow("5.6.7.8"), "keys have separate buckets")
}

func TestLimiterPool_EvictsIdleKeys(t *testing.T) {
	pool := NewLimiterPool(1, 1)
	defer pool.Shutdown()

	now := time.Now()
	pool.now = func() time.Time { return now }
	pool.Allow("idle")

	now = now.Add(11 * time.Minute)
	pool.evictIdle()

	pool.mu.Lock()
	defer pool.mu.Unlock()
	assert.Empty(t, pool.m)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pool := NewLimiterPool(0.001, 1)
	defer pool.Shutdown()

	r := gin.New()
	r.Use(RateLimitMiddleware(pool))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Too many requests")
}
