package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics captures subscription sweep health signals.
type SweepMetrics struct {
	jobRuns       *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
	jobTimeouts   *prometheus.CounterVec
	jobErrors     *prometheus.CounterVec
	remindersSent prometheus.Counter
	expired       prometheus.Counter
	lockSkipped   prometheus.Counter
}

// NewSweepMetrics registers the sweep instruments on the default registerer.
func NewSweepMetrics(cfg Config) *SweepMetrics {
	return newSweepMetrics(prometheus.DefaultRegisterer, cfg)
}

func newSweepMetrics(registerer prometheus.Registerer, cfg Config) *SweepMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	labels := constLabels(cfg)

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "menuly_scheduler_job_runs_total",
		Help:        "Scheduler job runs by name.",
		ConstLabels: labels,
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "menuly_scheduler_job_duration_seconds",
		Help:        "Scheduler job latency.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		ConstLabels: labels,
	}, []string{"job"})
	jobTimeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "menuly_scheduler_job_timeouts_total",
		Help:        "Scheduler jobs that hit their deadline.",
		ConstLabels: labels,
	}, []string{"job"})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "menuly_scheduler_job_errors_total",
		Help:        "Scheduler job errors by name.",
		ConstLabels: labels,
	}, []string{"job"})
	remindersSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "menuly_sweep_reminders_sent_total",
		Help:        "Expiry reminder notifications created by the sweep.",
		ConstLabels: labels,
	})
	expired := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "menuly_sweep_subscriptions_expired_total",
		Help:        "Subscriptions moved to expired by the sweep.",
		ConstLabels: labels,
	})
	lockSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "menuly_sweep_lock_skipped_total",
		Help:        "Sweep runs skipped because another instance held the lock.",
		ConstLabels: labels,
	})

	registerer.MustRegister(
		jobRuns,
		jobDuration,
		jobTimeouts,
		jobErrors,
		remindersSent,
		expired,
		lockSkipped,
	)

	return &SweepMetrics{
		jobRuns:       jobRuns,
		jobDuration:   jobDuration,
		jobTimeouts:   jobTimeouts,
		jobErrors:     jobErrors,
		remindersSent: remindersSent,
		expired:       expired,
		lockSkipped:   lockSkipped,
	}
}

// IncJobRun increments the run counter for a scheduler job.
func (m *SweepMetrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

// ObserveJobDuration records scheduler job latency in seconds.
func (m *SweepMetrics) ObserveJobDuration(job string, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// IncJobTimeout increments the timeout counter for the scheduler job.
func (m *SweepMetrics) IncJobTimeout(job string) {
	if m == nil {
		return
	}
	m.jobTimeouts.WithLabelValues(job).Inc()
}

// IncJobError increments the scheduler job error counter.
func (m *SweepMetrics) IncJobError(job string) {
	if m == nil {
		return
	}
	m.jobErrors.WithLabelValues(job).Inc()
}

// AddRemindersSent records reminder notifications created in a sweep pass.
func (m *SweepMetrics) AddRemindersSent(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.remindersSent.Add(float64(count))
}

// AddExpired records subscriptions expired in a sweep pass.
func (m *SweepMetrics) AddExpired(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.expired.Add(float64(count))
}

// IncLockSkipped records a sweep run skipped due to lock contention.
func (m *SweepMetrics) IncLockSkipped() {
	if m == nil {
		return
	}
	m.lockSkipped.Inc()
}
