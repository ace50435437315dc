package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"allmanager/internal/httputil"
)

// throttleIdleTTL is how long an unused client bucket is kept.
const throttleIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttle holds one token bucket per client IP for /api/ requests.
type Throttle struct {
	rps        rate.Limit
	burst      int
	trustProxy bool
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewThrottle creates a throttle allowing rps requests per second with the
// given burst. A zero rps disables it.
func NewThrottle(rps float64, burst int, trustProxy bool, logger *slog.Logger) *Throttle {
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		rps:        rate.Limit(rps),
		burst:      burst,
		trustProxy: trustProxy,
		logger:     logger,
		now:        time.Now,
		visitors:   make(map[string]*visitor),
	}
}

func (t *Throttle) allow(ip string) bool {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if now.Sub(t.lastSweep) > throttleIdleTTL {
		for key, v := range t.visitors {
			if now.Sub(v.lastSeen) > throttleIdleTTL {
				delete(t.visitors, key)
			}
		}
		t.lastSweep = now
	}

	v, ok := t.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.rps, t.burst)}
		t.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware rejects clients that exceed their bucket with 429.
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	if t.rps <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		ip := httputil.ClientIP(r, t.trustProxy)
		if !t.allow(ip) {
			t.logger.Warn("request throttled",
				"client_ip", ip,
				"path", r.URL.Path,
				"request_id", httputil.RequestID(r.Context()),
			)
			w.Header().Set("Retry-After", "1")
			httputil.RespondError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
