package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/bestxi/pkg/metrics"
	"golang.org/x/time/rate"
)

// MetricsMiddleware records request count, latency and error class per endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		ms := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, ms)

		if errType, severity, ok := classify(rec.status); ok {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errType)
			metrics.RecordErrorByType(errType, severity)
		}
	}
}

// classify maps an error status onto a metric error type and severity.
// ok is false for non-error statuses.
func classify(status int) (errType, severity string, ok bool) {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", "high", true
	case status == http.StatusTooManyRequests:
		return "rate_limit", "medium", true
	case status == http.StatusRequestEntityTooLarge:
		return "payload_too_large", "medium", true
	case status == http.StatusUnprocessableEntity:
		return "schema", "medium", true
	case status == http.StatusNotFound:
		return "not_found", "low", true
	case status >= http.StatusBadRequest:
		return "client_error", "medium", true
	default:
		return "", "", false
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RateLimiter is a process-wide token bucket shared by the wrapped routes.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows rps requests per second with the given burst.
// A non-positive rps never limits.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Middleware rejects requests with 429 once the bucket is empty.
func (rl *RateLimiter) Middleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter.Allow() {
			metrics.RecordRateLimited(endpoint)
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited", ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	}
}
