package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// ipLimiter keeps one token bucket per client IP
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	r        rate.Limit
	b        int
	ttl      time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(perMinute, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*visitor),
		r:        rate.Limit(float64(perMinute) / 60),
		b:        burst,
		ttl:      10 * time.Minute,
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 오래된 항목 정리 (요청 시점에만, 백그라운드 작업 없음)
	for key, v := range l.limiters {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.limiters, key)
		}
	}

	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.r, l.b)}
		l.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit rejects clients exceeding perMinute requests (with burst) with 429.
// A non-positive perMinute disables the limit.
func RateLimit(perMinute, burst int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	l := newIPLimiter(perMinute, burst)

	return func(c *fiber.Ctx) error {
		if !l.allow(c.IP(), time.Now()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.",
			})
		}
		return c.Next()
	}
}
