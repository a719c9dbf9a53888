package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for log loads and report exports.
type Metrics struct {
	LinesRead      prometheus.Counter
	LinesSkipped   *prometheus.CounterVec // labels: reason={short_line,bad_timestamp,bad_temperature,bad_humidity}
	ReadingsParsed prometheus.Counter
	Loads          *prometheus.CounterVec // labels: outcome={success,not_found,io_error}
	DatasetSize    prometheus.Gauge

	// Export metrics.
	Exports        *prometheus.CounterVec // labels: outcome={success,empty_selection,plan_error,render_error,write_error}
	ExportDuration prometheus.Histogram
	ReportPages    prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.LinesRead,
		m.LinesSkipped,
		m.ReadingsParsed,
		m.Loads,
		m.DatasetSize,
		m.Exports,
		m.ExportDuration,
		m.ReportPages,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "templog",
			Name:      "lines_read_total",
			Help:      "Total lines read from logger files.",
		}),
		LinesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "templog",
			Name:      "lines_skipped_total",
			Help:      "Non-blank lines that produced no reading, by reason.",
		}, []string{"reason"}),
		ReadingsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "templog",
			Name:      "readings_parsed_total",
			Help:      "Total readings accepted from logger files.",
		}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "templog",
			Name:      "loads_total",
			Help:      "Logger file loads by outcome.",
		}, []string{"outcome"}),
		DatasetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "templog",
			Name:      "dataset_readings",
			Help:      "Readings in the currently loaded dataset.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "templog",
			Name:      "exports_total",
			Help:      "Report exports by outcome.",
		}, []string{"outcome"}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "templog",
			Name:      "export_duration_seconds",
			Help:      "Duration of assembling and rendering one report.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		ReportPages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "templog",
			Name:      "report_pages",
			Help:      "Table pages per exported report.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}
}
