package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/caixaflow/backoffice/internal/infrastructure/metrics"
)

// MetricsMiddleware records request counts and latencies on the shared
// metrics registry.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics recording.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// resourcesWithIDs lists collections whose next path segment is an ID.
var resourcesWithIDs = map[string]bool{
	"movements": true,
	"sales":     true,
	"purchases": true,
	"incomes":   true,
	"expenses":  true,
	"products":  true,
}

// normalizePath replaces resource IDs with a placeholder to keep label
// cardinality bounded.
// /api/v1/sales/01ABC123 -> /api/v1/sales/:id
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i := 0; i < len(segments)-1; i++ {
		if resourcesWithIDs[segments[i]] && segments[i+1] != "" {
			segments[i+1] = ":id"
		}
	}

	return strings.Join(segments, "/")
}
