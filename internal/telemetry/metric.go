package telemetry

import (
	"ipguard/config"
	"ipguard/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct
type Metric struct {
	HttpRequestsTotal      *prometheus.CounterVec
	HttpRequestDuration    *prometheus.HistogramVec
	BlockedTotal           *prometheus.CounterVec
	RateLimitedTotal       *prometheus.CounterVec
	GeoLookupTotal         *prometheus.CounterVec
	RequestLogFailTotal    *prometheus.CounterVec
	SuspiciousFlaggedTotal *prometheus.CounterVec
	config                 *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricHttpRequestsTotal),
				Help: "Total received HTTP requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricHttpRequestDuration),
				Help:    "Request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		BlockedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricBlockedTotal),
				Help: "Requests rejected by the IP blocklist",
			},
			labelNames(core.MetricLabelEndpoint),
		),
		RateLimitedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricRateLimitedTotal),
				Help: "Requests rejected by a rate limiter",
			},
			labelNames(core.MetricLabelLimiter),
		),
		GeoLookupTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricGeoLookupTotal),
				Help: "Geolocation lookups by provider and outcome",
			},
			labelNames(core.MetricLabelProvider, core.MetricLabelOutcome),
		),
		RequestLogFailTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricRequestLogFailTotal),
				Help: "Request log writes that failed and were audit-logged",
			},
			labelNames(core.MetricLabelReason),
		),
		SuspiciousFlaggedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricSuspiciousFlaggedTotal),
				Help: "Suspicious IP entries created by the detector",
			},
			labelNames(core.MetricLabelRule),
		),
	}
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
