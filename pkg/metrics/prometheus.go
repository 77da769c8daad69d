package metrics

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nmscompat"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	loads *prometheus.CounterVec

	scans        prometheus.Counter
	scanErrors   prometheus.Counter
	scanDuration prometheus.Histogram

	hostQueries        *prometheus.CounterVec
	hostQueryErrors    *prometheus.CounterVec
	hostQueryDurations *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder and registers its collectors with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "adapter_loads_total",
			Help:      "Adapter load attempts by revision tag and outcome.",
		}, []string{"tag", "outcome"}),
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_scans_total",
			Help:      "Plugin artifact scans.",
		}),
		scanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_scan_errors_total",
			Help:      "Plugin artifact scans that failed to open the artifact.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "artifact_scan_duration_seconds",
			Help:      "Duration of plugin artifact scans.",
			Buckets:   prometheus.DefBuckets,
		}),
		hostQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "host_queries_total",
			Help:      "Queries against live servers by source.",
		}, []string{"source"}),
		hostQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "host_query_errors_total",
			Help:      "Failed queries against live servers by source.",
		}, []string{"source"}),
		hostQueryDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "host_query_duration_seconds",
			Help:      "Duration of queries against live servers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
	}

	reg.MustRegister(
		r.loads,
		r.scans,
		r.scanErrors,
		r.scanDuration,
		r.hostQueries,
		r.hostQueryErrors,
		r.hostQueryDurations,
	)

	return r
}

// RecordLoad implements Recorder.
func (r *PrometheusRecorder) RecordLoad(tag, outcome string) {
	r.loads.WithLabelValues(tag, outcome).Inc()
}

// RecordArtifactScan implements Recorder.
func (r *PrometheusRecorder) RecordArtifactScan(err error, duration time.Duration) {
	r.scans.Inc()
	if err != nil {
		r.scanErrors.Inc()
	}

	r.scanDuration.Observe(duration.Seconds())
}

// RecordHostQuery implements Recorder.
func (r *PrometheusRecorder) RecordHostQuery(source string, err error, duration time.Duration) {
	r.hostQueries.WithLabelValues(source).Inc()
	if err != nil {
		r.hostQueryErrors.WithLabelValues(source).Inc()
	}

	r.hostQueryDurations.WithLabelValues(source).Observe(duration.Seconds())
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}

	return nil
}
