package metrics

import (
	"time"

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
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
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

	PurposeScores = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purpose_scores_total",
			Help: "Completed questionnaires scored, by tier",
		},
		[]string{"tier"},
	)

	PurposeScoreValue = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "purpose_score_value",
			Help:    "Distribution of total purpose scores",
			Buckets: []float64{40, 50, 60, 67, 75, 80, 85, 90, 95},
		},
	)
)

// JobStarted marks one job of taskType as in flight and returns the func that
// records its outcome. An empty errorCode counts as success.
func JobStarted(taskType string) func(errorCode string) {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()

	return func(errorCode string) {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if errorCode == "" {
			WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			return
		}
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	}
}

// RecordScore counts one scored questionnaire.
func RecordScore(tier string, score int) {
	PurposeScores.WithLabelValues(tier).Inc()
	PurposeScoreValue.Observe(float64(score))
}
