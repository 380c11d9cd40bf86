package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuthFailuresTotal counts rejected bearer tokens by internal reason
	// (missing_token, malformed_token, bad_signature, expired, missing_subject, unknown_subject).
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of failed bearer token authentications by reason",
		},
		[]string{"reason"},
	)

	// LoginsTotal counts login attempts by outcome (success, invalid_credentials).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// AccessDeniedTotal counts authenticated requests refused because the caller does not own the note.
	AccessDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "note_access_denied_total",
			Help: "Total number of note requests rejected by the ownership check",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AuthFailuresTotal, LoginsTotal, AccessDeniedTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /notes/123 -> /notes/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// IncAuthFailure increments the auth failure counter for reason.
func IncAuthFailure(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// IncLogin increments the login counter for outcome.
func IncLogin(outcome string) {
	LoginsTotal.WithLabelValues(outcome).Inc()
}

// IncAccessDenied increments the ownership denial counter.
func IncAccessDenied() {
	AccessDeniedTotal.Inc()
}
