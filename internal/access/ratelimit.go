package access

import (
	"net"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter rate-limits expensive endpoints per client IP.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	burst    int
}

// NewLimiter allows requestsPerSecond per IP with the given burst.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 3
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Allow reports whether a request from addr may proceed now.
func (l *Limiter) Allow(addr string) bool {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	return l.get(host).Allow()
}

func (l *Limiter) get(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(l.r, l.burst)
		l.limiters[host] = lim
	}
	return lim
}
