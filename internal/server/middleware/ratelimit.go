package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sankshitpandoh/CapLedger/internal/server/cache"
	"github.com/sankshitpandoh/CapLedger/internal/server/response"
)

// Clients idle this long lose their window.
const (
	rateWindowIdle  = 10 * time.Minute
	rateWindowSweep = 5 * time.Minute
)

// RateLimiter allows a fixed number of requests per client IP in each
// window. Windows live in a TTL cache, so idle clients are forgotten.
type RateLimiter struct {
	windows  *cache.Cache[*window]
	limit    int
	interval time.Duration
	logger   *zerolog.Logger
}

type window struct {
	mu    sync.Mutex
	start time.Time
	used  int
}

// NewRateLimiter allows limit requests per minute per IP.
func NewRateLimiter(limit int, logger *zerolog.Logger) *RateLimiter {
	return newRateLimiter(limit, time.Minute, rateWindowIdle, logger)
}

func newRateLimiter(limit int, interval, idle time.Duration, logger *zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		windows:  cache.New[*window](idle, rateWindowSweep),
		limit:    limit,
		interval: interval,
		logger:   logger,
	}
}

// allow spends one request from the window of ip. When the window is used
// up it reports how long until the next one opens.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	w := rl.windows.GetOrSet(ip, func() *window { return &window{start: time.Now()} })

	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	if now.Sub(w.start) >= rl.interval {
		w.start, w.used = now, 0
	}
	if w.used >= rl.limit {
		return false, w.start.Add(rl.interval).Sub(now)
	}
	w.used++
	return true, 0
}

// RateLimit rejects requests beyond the limiter's budget with 429 and a
// Retry-After header.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			ok, wait := rl.allow(ip)
			if !ok {
				rl.logger.Warn().
					Str("ip", ip).
					Str("path", r.URL.Path).
					Dur("retry_after", wait).
					Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				response.RateLimited(w, "Too many requests. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the first X-Forwarded-For hop, or the remote host.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
