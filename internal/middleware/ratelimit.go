package middleware

import (
	"sync"
	"time"

	"teamchat/internal/logger"
	"teamchat/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

// LimiterPool keeps one token bucket per key and drops buckets idle longer than ttl.
type LimiterPool struct {
	mu            sync.Mutex
	m             map[string]*limiterEntry
	rps           rate.Limit
	burst         int
	ttl           time.Duration
	cleanupPeriod time.Duration
	startCleanup  sync.Once
	stopCh        chan struct{}
	stopOnce      sync.Once
	now           func() time.Time
}

func NewLimiterPool(rps float64, burst int) *LimiterPool {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	p := &LimiterPool{
		m:             make(map[string]*limiterEntry),
		rps:           rate.Limit(rps),
		burst:         burst,
		ttl:           10 * time.Minute,
		cleanupPeriod: time.Minute,
		stopCh:        make(chan struct{}),
		now:           time.Now,
	}
	go p.cleanupLoop()
	return p
}

func (p *LimiterPool) get(key string) *rate.Limiter {
	p.startCleanup.Do(func() {
		go p.cleanupLoop()
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.m[key]; ok {
		e.lastSeen = p.now()
		return e.l
	}

	l := rate.NewLimiter(p.rps, p.burst)
	p.m[key] = &limiterEntry{l: l, lastSeen: p.now()}
	return l
}

func (p *LimiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}

// Shutdown stops the cleanup goroutine.
func (p *LimiterPool) Shutdown() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

func (p *LimiterPool) cleanupLoop() {
	ticker := time.NewTicker(p.cleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.evictIdle()
		case <-p.stopCh:
			return
		}
	}
}

func (p *LimiterPool) evictIdle() {
	cutoff := p.now().Add(-p.ttl)
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, e := range p.m {
		if e.lastSeen.Before(cutoff) {
			delete(p.m, k)
		}
	}
}

// RateLimitMiddleware rejects clients that exceed the pool's per-IP rate.
func RateLimitMiddleware(pool *LimiterPool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !pool.Allow(c.ClientIP()) {
			logger.CtxWarn(c.Request.Context(), "Rate limit exceeded",
				"ip", c.ClientIP(),
				"path", c.Request.URL.Path,
			)
			apperrors.HandleError(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
