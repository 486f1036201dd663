package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingai_ai_requests_total",
			Help: "Total number of upstream AI calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookingai_ai_request_duration_seconds",
			Help:    "Duration of upstream AI calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"operation"},
	)

	RankingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingai_ranking_fallbacks_total",
			Help: "Total number of room rankings that fell back to input order",
		},
		[]string{"reason"},
	)

	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingai_property_evaluations_total",
			Help: "Total number of property evaluation runs by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookingai_http_requests_total",
			Help: "Total number of HTTP requests by method and status code",
		},
		[]string{"method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookingai_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// Outcome label values for AIRequests.
const (
	OutcomeSuccess = "success"
)

// Result label values for Evaluations.
const (
	EvaluationGenerated = "generated"
	EvaluationNoReviews = "no_reviews"
	EvaluationFailed    = "failed"
)
