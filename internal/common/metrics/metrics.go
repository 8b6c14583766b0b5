// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"carematch/internal/matching"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carematch_match_requests_total",
			Help: "Ranking runs by entry point and outcome",
		},
		[]string{"source", "outcome"},
	)

	MatchResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carematch_match_results_returned",
			Help:    "Number of providers returned per ranking run",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)

	MatchTopScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carematch_match_top_score",
			Help:    "Score of the best provider per ranking run",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	MatchStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carematch_match_stage_duration_seconds",
			Help:    "Time spent in each ranking stage",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"stage"},
	)

	ProvidersRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carematch_providers_registered_total",
			Help: "Providers stored by entry point",
		},
		[]string{"source"},
	)

	ProviderPoolCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carematch_provider_pool_cache_total",
			Help: "Provider pool cache lookups by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carematch_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "carematch_http_request_duration_seconds",
			Help: "HTTP request latency by route",
		},
		[]string{"method", "route"},
	)
)

// StageRecorder feeds ranking stage timings into MatchStageDuration.
type StageRecorder struct{}

func (StageRecorder) ObserveStage(stage matching.Stage, elapsed time.Duration) {
	MatchStageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
}

// RecordMatch records the outcome of one ranking run. topScore is ignored
// when nothing was returned.
func RecordMatch(source, outcome string, returned, topScore int) {
	MatchRequests.WithLabelValues(source, outcome).Inc()
	if outcome != "success" {
		return
	}
	MatchResultsReturned.Observe(float64(returned))
	if returned > 0 {
		MatchTopScore.Observe(float64(topScore))
	}
}
