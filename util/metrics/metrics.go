// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "course_assistant"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	RateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_hits_total",
		Help:      "Requests rejected by the rate limiter.",
	}, []string{"route"})

	FailedLoginAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failed_login_attempts_total",
		Help:      "Login attempts with a wrong username or password.",
	})

	QuestionsAnswered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "questions_answered_total",
		Help:      "Answered questions by matched lesson.",
	}, []string{"lesson"})

	GeneratorFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generator_failures_total",
		Help:      "Answer generator calls that failed.",
	})

	GeneratorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generator_duration_seconds",
		Help:      "Latency of answer generator calls.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
