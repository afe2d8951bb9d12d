package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	usersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "persistence",
		Name:      "users_created_total",
		Help:      "Number of users created since process start.",
	})
	exercisesPersistedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "exercise_tracker",
		Subsystem: "persistence",
		Name:      "exercises_persisted_total",
		Help:      "Number of exercise entries persisted since process start.",
	})
	exercisePersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "exercise_tracker",
		Subsystem: "persistence",
		Name:      "last_exercise_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise persisted to Postgres.",
	})
	logQuerySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "exercise_tracker",
		Subsystem: "persistence",
		Name:      "log_query_duration_seconds",
		Help:      "Duration of exercise log queries.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(usersCreatedTotal, exercisesPersistedTotal, exercisePersistGauge, logQuerySeconds)
}

// RecordUserCreated increments the user creation counter.
func RecordUserCreated() {
	usersCreatedTotal.Inc()
}

// RecordExercisePersisted updates the persistence counters and watermark.
func RecordExercisePersisted(ts time.Time) {
	exercisesPersistedTotal.Inc()
	if ts.IsZero() {
		return
	}
	exercisePersistGauge.Set(float64(ts.Unix()))
}

// StartLogQueryTimer times one log query; call ObserveDuration on the result
// when the query completes.
func StartLogQueryTimer() *prometheus.Timer {
	return prometheus.NewTimer(logQuerySeconds)
}
