package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/octobees/accounts/api/internal/config"
)

const maxTrackedClients = 10000

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientRegistry holds one token bucket per client, never more than capacity at once.
type clientRegistry struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	every    rate.Limit
	burst    int
	ttl      time.Duration
	capacity int
}

func newClientRegistry(cfg config.RateLimitConfig, capacity int) *clientRegistry {
	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	return &clientRegistry{
		clients:  make(map[string]*clientLimiter),
		every:    rate.Every(perRequest),
		burst:    cfg.Requests,
		ttl:      cfg.Interval,
		capacity: capacity,
	}
}

func (r *clientRegistry) allow(ip string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cl, ok := r.clients[ip]
	if !ok {
		if len(r.clients) >= r.capacity {
			r.evict(now)
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(r.every, r.burst)}
		r.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evict drops idle clients, then the least recently seen one if the map is still full.
func (r *clientRegistry) evict(now time.Time) {
	var (
		oldestKey  string
		oldestSeen time.Time
	)
	for key, cl := range r.clients {
		if now.Sub(cl.lastSeen) > r.ttl {
			delete(r.clients, key)
			continue
		}
		if oldestKey == "" || cl.lastSeen.Before(oldestSeen) {
			oldestKey, oldestSeen = key, cl.lastSeen
		}
	}
	if len(r.clients) >= r.capacity && oldestKey != "" {
		delete(r.clients, oldestKey)
	}
}

// RateLimiter applies a token bucket per client IP. A zero config disables limiting.
// Rejections are returned as *echo.HTTPError so the server's error handler renders them.
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	registry := newClientRegistry(cfg, maxTrackedClients)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !registry.allow(c.RealIP(), time.Now()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
