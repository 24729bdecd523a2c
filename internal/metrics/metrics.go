package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	QueueEntriesProcessed *prometheus.CounterVec
	QueueEntryDuration    prometheus.Histogram
	QueueBatchSize        prometheus.Histogram
	QueueEntriesReclaimed *prometheus.CounterVec
	ResponseSources       *prometheus.CounterVec
	ScriptStrategies      *prometheus.CounterVec
	ObjectionsDetected    *prometheus.CounterVec
	BackgroundTasks       *prometheus.CounterVec
	CreditsCharged        prometheus.Counter
}

// New registers the collectors on reg. A nil *Metrics is valid and records
// nothing.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		QueueEntriesProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_queue_entries_processed_total",
			Help: "Queue entries processed, by final status",
		}, []string{"status"}),
		QueueEntryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ai_queue_entry_duration_seconds",
			Help:    "Time taken to process one queue entry, pacing included",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 15, 30, 60},
		}),
		QueueBatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ai_queue_batch_size",
			Help:    "Due entries picked up per batch",
			Buckets: prometheus.LinearBuckets(0, 2, 11),
		}),
		QueueEntriesReclaimed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_queue_entries_reclaimed_total",
			Help: "Stale PROCESSING entries reclaimed, by resulting status",
		}, []string{"status"}),
		ResponseSources: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_response_sources_total",
			Help: "Where the reply text came from",
		}, []string{"source"}),
		ScriptStrategies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_script_strategies_total",
			Help: "Script matches, by selected strategy",
		}, []string{"strategy"}),
		ObjectionsDetected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_objections_detected_total",
			Help: "Fan objections detected, by type",
		}, []string{"type"}),
		BackgroundTasks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_background_tasks_total",
			Help: "Background tasks handled, by type and status",
		}, []string{"task_type", "status"}),
		CreditsCharged: f.NewCounter(prometheus.CounterOpts{
			Name: "ai_credits_charged_total",
			Help: "AI credits charged to creators",
		}),
	}
}

func (m *Metrics) EntryProcessed(status string, took time.Duration) {
	if m == nil {
		return
	}
	m.QueueEntriesProcessed.WithLabelValues(status).Inc()
	m.QueueEntryDuration.Observe(took.Seconds())
}

func (m *Metrics) BatchPicked(n int) {
	if m == nil {
		return
	}
	m.QueueBatchSize.Observe(float64(n))
}

func (m *Metrics) Reclaimed(requeued, failed int64) {
	if m == nil {
		return
	}
	m.QueueEntriesReclaimed.WithLabelValues("PENDING").Add(float64(requeued))
	m.QueueEntriesReclaimed.WithLabelValues("FAILED").Add(float64(failed))
}

func (m *Metrics) ResponseSource(source string) {
	if m == nil {
		return
	}
	m.ResponseSources.WithLabelValues(source).Inc()
}

func (m *Metrics) ScriptStrategy(strategy string) {
	if m == nil {
		return
	}
	m.ScriptStrategies.WithLabelValues(strategy).Inc()
}

func (m *Metrics) Objection(kind string) {
	if m == nil {
		return
	}
	m.ObjectionsDetected.WithLabelValues(kind).Inc()
}

func (m *Metrics) Task(taskType, status string) {
	if m == nil {
		return
	}
	m.BackgroundTasks.WithLabelValues(taskType, status).Inc()
}

func (m *Metrics) CreditCharged() {
	if m == nil {
		return
	}
	m.CreditsCharged.Inc()
}
