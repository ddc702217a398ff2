package daemon

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// maxBurst caps how many requests may arrive back to back.
const maxBurst = 10

// limiterBurst lets a sixth of the per-minute budget through at once, so
// opening several tabs together does not trip the limiter.
func limiterBurst(perMinute int) int {
	return min(max(1, perMinute/6), maxBurst)
}

// newLimiter allows perMinute requests per minute. A non-positive rate
// disables limiting.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), limiterBurst(perMinute))
}

func rateLimitMiddleware(limiter *rate.Limiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := limiter.Reserve()
		if !res.OK() {
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limited"})
			return
		}
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limited", RetryAfter: delay.Round(time.Millisecond).String()})
			return
		}
		next.ServeHTTP(w, r)
	})
}
