package middlewares

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"mindhub-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// TokenRateLimiter throttles the public /take/{token} endpoints per token, so
// a leaked link cannot be hammered without affecting other patients. Limiters
// are evicted after an idle period to bound the map.
type TokenRateLimiter struct {
	limiters map[string]*tokenLimiterEntry
	mu       sync.Mutex
	requests int
	per      time.Duration
	idleTTL  time.Duration
}

type tokenLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewTokenRateLimiter(requests int, per time.Duration) *TokenRateLimiter {
	return &TokenRateLimiter{
		limiters: make(map[string]*tokenLimiterEntry),
		requests: requests,
		per:      per,
		idleTTL:  10 * time.Minute,
	}
}

func (t *TokenRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := remoteTokenKey(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		t.mu.Lock()
		now := time.Now()
		entry, exists := t.limiters[token]
		if !exists {
			for key, existing := range t.limiters {
				if now.Sub(existing.lastSeen) > t.idleTTL {
					delete(t.limiters, key)
				}
			}
			entry = &tokenLimiterEntry{limiter: rate.NewLimiter(rate.Every(t.per/time.Duration(t.requests)), t.requests)}
			t.limiters[token] = entry
		}
		entry.lastSeen = now
		t.mu.Unlock()

		if !entry.limiter.Allow() {
			http.Error(w, "Too many requests for this link.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// remoteTokenKey resolves the {token} path segment. chi fills URL params while
// routing the subrouter, which happens after its Use-mounted middlewares run,
// so when the param is not there yet the token is read from the unmatched
// remainder of the routing path that the mount handler sets.
func remoteTokenKey(r *http.Request) string {
	if token := chi.URLParam(r, constvars.URLParamRemoteToken); token != "" {
		return token
	}

	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePath == "" {
		return ""
	}
	segment := strings.TrimPrefix(rctx.RoutePath, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	return segment
}
