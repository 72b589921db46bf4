// Package metrics provides Prometheus metrics for the swimtimes batch runs.
// Batch jobs have no scrape endpoint, so the registry is written out in the
// node-exporter textfile format at the end of a run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector of a run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Loading
	swimsLoaded    prometheus.Counter
	swimsDuplicate prometheus.Counter

	// Swimmer bookkeeping
	swimmersProcessed *prometheus.CounterVec
	swimmersExcluded  *prometheus.CounterVec
	entriesUnmatched  *prometheus.GaugeVec

	// Results
	considerationTimes *prometheus.CounterVec
	qualifyingRecords  *prometheus.CounterVec

	// Run health
	batchDuration    *prometheus.HistogramVec
	batchLastSuccess *prometheus.GaugeVec
	workerCount      prometheus.Gauge
	errorsByKind     *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps Go runtime collectors out of batch output

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "swimtimes",
		subsystem:        "batch",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.swimsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "swims_loaded_total",
		Help: "Swim records decoded from the swim list",
	})
	m.swimsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "swims_duplicate_total",
		Help: "Swim records dropped because their swim id was already loaded",
	})

	m.swimmersProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "swimmers_processed_total",
		Help: "Swimmers whose results were computed, by report",
	}, []string{"report"})
	m.swimmersExcluded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "swimmers_excluded_total",
		Help: "Swimmers skipped, by report and reason",
	}, []string{"report", "reason"})
	m.entriesUnmatched = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "entries_unmatched",
		Help: "Entry-list names with no swimmer in the swim list, by report",
	}, []string{"report"})

	m.considerationTimes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "consideration_times_total",
		Help: "Consideration times computed, by source (pb, interpolated, fallback, none)",
	}, []string{"source"})
	m.qualifyingRecords = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "qualifying_records_total",
		Help: "Times at or under standard, by status (qualified, not_qualified)",
	}, []string{"status"})

	m.batchDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "duration_seconds",
		Help:    "Wall time of a batch run, by report",
		Buckets: m.histogramBuckets,
	}, []string{"report"})
	m.batchLastSuccess = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "last_success_unix",
		Help: "Unix time of the last successful run, by report",
	}, []string{"report"})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "worker_count",
		Help: "Workers used to fan out per-swimmer computations",
	})
	m.errorsByKind = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "errors_total",
		Help: "Errors by component and kind",
	}, []string{"component", "kind"})
}

// RecordSwimsLoaded adds n decoded swims.
func RecordSwimsLoaded(n int) {
	globalManager.swimsLoaded.Add(float64(n))
}

// RecordSwimDuplicate counts one dropped duplicate swim.
func RecordSwimDuplicate() {
	globalManager.swimsDuplicate.Inc()
}

// RecordSwimmerProcessed counts a swimmer whose results were computed.
func RecordSwimmerProcessed(report string) {
	globalManager.swimmersProcessed.WithLabelValues(report).Inc()
}

// RecordSwimmerExcluded counts a skipped swimmer.
func RecordSwimmerExcluded(report, reason string) {
	globalManager.swimmersExcluded.WithLabelValues(report, reason).Inc()
}

// UpdateEntriesUnmatched sets the number of unmatched entry-list names.
func UpdateEntriesUnmatched(report string, n int) {
	globalManager.entriesUnmatched.WithLabelValues(report).Set(float64(n))
}

// RecordConsiderationTime counts one consideration time by source.
func RecordConsiderationTime(source string) {
	globalManager.considerationTimes.WithLabelValues(source).Inc()
}

// RecordQualifyingRecord counts one record; qualifies=false marks times set
// at excluded meets.
func RecordQualifyingRecord(qualifies bool) {
	status := "qualified"
	if !qualifies {
		status = "not_qualified"
	}
	globalManager.qualifyingRecords.WithLabelValues(status).Inc()
}

// RecordBatchDuration observes the wall time of a run in seconds and, when
// ok, stamps the last-success gauge with finishedUnix.
func RecordBatchDuration(report string, seconds float64, ok bool, finishedUnix int64) {
	globalManager.batchDuration.WithLabelValues(report).Observe(seconds)
	if ok {
		globalManager.batchLastSuccess.WithLabelValues(report).Set(float64(finishedUnix))
	}
}

// UpdateWorkerCount sets the number of workers in use.
func UpdateWorkerCount(n int) {
	globalManager.workerCount.Set(float64(n))
}

// RecordError counts an error by component and kind.
func RecordError(component, kind string) {
	globalManager.errorsByKind.WithLabelValues(component, kind).Inc()
}

// WriteTextfile writes the registry to path in the Prometheus text format,
// for pickup by a node-exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// GetRegistry returns the registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
