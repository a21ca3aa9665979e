package infrastructure

import (
	"strconv"
	"time"

	"agromonitor.app/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "agromonitor"

// PrometheusMetricsCollector implements the MetricsCollector port
type PrometheusMetricsCollector struct {
	batchRuns     *prometheus.CounterVec
	batchItems    *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	lastRun       *prometheus.GaugeVec
	externalCalls *prometheus.CounterVec
	externalTime  *prometheus.HistogramVec
	notifications *prometheus.CounterVec
	registerer    prometheus.Registerer
}

// NewPrometheusMetricsCollector registers the collectors on reg
func NewPrometheusMetricsCollector(reg prometheus.Registerer) *PrometheusMetricsCollector {
	factory := promauto.With(reg)

	return &PrometheusMetricsCollector{
		batchRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "batch_runs_total",
			Help:      "Number of completed batch job runs",
		}, []string{"job"}),
		batchItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "batch_items_total",
			Help:      "Items processed by batch jobs, by outcome",
		}, []string{"job", "outcome"}),
		batchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "batch_duration_seconds",
			Help:      "Batch job run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"job"}),
		lastRun: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "batch_last_run_timestamp_seconds",
			Help:      "Unix time of the last completed batch run",
		}, []string{"job"}),
		externalCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "external_calls_total",
			Help:      "Outbound calls to external services",
		}, []string{"service", "success"}),
		externalTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "external_call_duration_seconds",
			Help:      "Outbound call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_total",
			Help:      "Notifications attempted, by type and delivery outcome",
		}, []string{"type", "delivered"}),
		registerer: reg,
	}
}

// RecordBatch records the summary of one batch run
func (m *PrometheusMetricsCollector) RecordBatch(result ports.BatchResult) {
	m.batchRuns.WithLabelValues(result.Job).Inc()
	m.batchItems.WithLabelValues(result.Job, "succeeded").Add(float64(result.Succeeded))
	m.batchItems.WithLabelValues(result.Job, "failed").Add(float64(result.Failed))
	m.batchItems.WithLabelValues(result.Job, "skipped").Add(float64(result.Skipped))
	m.batchItems.WithLabelValues(result.Job, "notified").Add(float64(result.Notified))
	m.batchDuration.WithLabelValues(result.Job).Observe(result.Duration.Seconds())
	m.lastRun.WithLabelValues(result.Job).SetToCurrentTime()
}

// RecordExternalCall records the outcome and latency of an outbound call
func (m *PrometheusMetricsCollector) RecordExternalCall(service string, success bool, duration time.Duration) {
	m.externalCalls.WithLabelValues(service, strconv.FormatBool(success)).Inc()
	m.externalTime.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordNotification records a notification attempt
func (m *PrometheusMetricsCollector) RecordNotification(notificationType string, delivered bool) {
	m.notifications.WithLabelValues(notificationType, strconv.FormatBool(delivered)).Inc()
}

// RegisterCacheMetrics exposes the weather cache hit counters
func (m *PrometheusMetricsCollector) RegisterCacheMetrics(cacheType string, cache ports.CacheMetrics) {
	factory := promauto.With(m.registerer)
	labels := prometheus.Labels{"cache_type": cacheType}

	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Name:        "weather_cache_hits_total",
		Help:        "The total number of weather cache hits",
		ConstLabels: labels,
	}, func() float64 { return float64(cache.GetStats().Hits) })

	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace:   metricsNamespace,
		Name:        "weather_cache_misses_total",
		Help:        "The total number of weather cache misses",
		ConstLabels: labels,
	}, func() float64 { return float64(cache.GetStats().Misses) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   metricsNamespace,
		Name:        "weather_cache_hit_ratio",
		Help:        "Weather cache hit ratio (hits/total requests)",
		ConstLabels: labels,
	}, func() float64 { return cache.GetStats().HitRatio })
}
