package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/fleet-payroll-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// DriverRateLimiter keeps one token bucket per driver.
type DriverRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewDriverRateLimiter(perMinute, burst int) *DriverRateLimiter {
	return &DriverRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (l *DriverRateLimiter) limiter(driverID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[driverID]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[driverID] = lim
	}
	return lim
}

// Middleware must run after AuthRequired. Requests without a driver pass.
func (l *DriverRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if ok && principal.DriverID != "" && !l.limiter(principal.DriverID).Allow() {
			response.TooManyRequests(w, "Too many clock requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
