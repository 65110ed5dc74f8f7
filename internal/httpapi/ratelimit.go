package httpapi

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"lexora.org/internal/obs"
)

// withRateLimit applies the fixed-window limiter keyed by client IP.
// Admitted requests carry quota headers; rejections get a retry hint. A
// failing counter store admits the request (fail open) with a logged
// warning.
func (a *API) withRateLimit(next http.Handler) http.Handler {
	if a.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, err := a.limiter.Allow(r.Context(), clientIP(r))
		if err != nil {
			obs.Logger().Warn("rate limit store unavailable, failing open",
				zap.String("ip", clientIP(r)),
				zap.Error(err),
			)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Allowed {
			obs.RateLimitRejection()
			retryAfter := int(decision.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":      "rate limit exceeded",
				"retryAfter": retryAfter,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// throttleLogin applies the in-process bucket to credential endpoints so a
// single IP cannot hammer password verification.
func (a *API) throttleLogin(next http.HandlerFunc) http.HandlerFunc {
	if a.loginThrottle == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.loginThrottle.Allow(clientIP(r)) {
			obs.RateLimitRejection()
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":      "too many attempts",
				"retryAfter": 1,
			})
			return
		}
		next(w, r)
	}
}
