package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	accountsPrefix     = "/api/v1/accounts/"
	transactionsPrefix = "/api/v1/transactions/"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metrics middleware records HTTP metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Wrap response writer to capture status code
		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
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

// normalizePath normalizes URL paths to avoid high cardinality.
func normalizePath(path string) string {
	// /api/v1/accounts/acc-1/balances/USD -> /api/v1/accounts/:id/balances/:currency
	if rest, ok := strings.CutPrefix(path, accountsPrefix); ok && rest != "" {
		_, suffix, _ := strings.Cut(rest, "/")
		switch {
		case suffix == "":
			return accountsPrefix + ":id"
		case strings.HasPrefix(suffix, "balances/"):
			return accountsPrefix + ":id/balances/:currency"
		default:
			return accountsPrefix + ":id/" + suffix
		}
	}

	// /api/v1/transactions/20240307-00000.00001 -> /api/v1/transactions/:id
	if rest, ok := strings.CutPrefix(path, transactionsPrefix); ok && rest != "" {
		switch rest {
		case "deposit", "withdraw", "transfer":
			return path
		}
		return transactionsPrefix + ":id"
	}

	return path
}
