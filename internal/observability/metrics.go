package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "outage_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the outage updater.
type Metrics struct {
	ItemsFetched    prometheus.Counter
	RecordsAppended prometheus.Counter
	RecordsRejected *prometheus.CounterVec // labels: reason={invalid,irrelevant}
	MonthsProcessed prometheus.Counter
	FetchErrors     prometheus.Counter
	UpdaterRunning  prometheus.Gauge
	DatasetSize     prometheus.Gauge

	// Provider metrics.
	ProviderRequests *prometheus.CounterVec // labels: outcome={success,error}
	ItemsExcluded    prometheus.Counter
	FetchDuration    prometheus.Histogram

	// Publishing metrics.
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ItemsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_fetched_total",
			Help:      "Total news items returned by the provider.",
		}),
		RecordsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_appended_total",
			Help:      "Total records appended to the dataset.",
		}),
		RecordsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_rejected_total",
			Help:      "Fetched items not appended, by reason.",
		}, []string{"reason"}),
		MonthsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "months_processed_total",
			Help:      "Months fetched and merged into the dataset.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Month fetches that failed and stopped the batch.",
		}),
		UpdaterRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "updater_running",
			Help:      "1 while a batch update is in progress.",
		}),
		DatasetSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of records in the dataset after the last load or save.",
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "News provider search requests by outcome.",
		}, []string{"outcome"}),
		ItemsExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_excluded_total",
			Help:      "Provider items dropped because their source site is excluded.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "month_fetch_duration_seconds",
			Help:      "Duration of one month's provider search.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Records written to the publish topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Month batches that failed to publish.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ItemsFetched,
		m.RecordsAppended,
		m.RecordsRejected,
		m.MonthsProcessed,
		m.FetchErrors,
		m.UpdaterRunning,
		m.DatasetSize,
		m.ProviderRequests,
		m.ItemsExcluded,
		m.FetchDuration,
		m.RecordsPublished,
		m.PublishErrors,
	}
}
