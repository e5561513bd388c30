package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

// Collector exposes scan results as Prometheus metrics for serve mode
type Collector struct {
	workloadsTotal *prometheus.GaugeVec
	findings       prometheus.Gauge
	lastRun        prometheus.Gauge
	runsTotal      *prometheus.CounterVec
}

// NewCollector registers the scan metrics on a fresh registry
func NewCollector() (*Collector, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		workloadsTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hpa_scan_workloads_total",
			Help: "Workloads discovered by the last scan, per kind.",
		}, []string{"kind"}),
		findings: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hpa_scan_findings",
			Help: "Workloads flagged as uncovered and resource-less by the last scan.",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hpa_scan_last_run_timestamp_seconds",
			Help: "Unix timestamp of the last completed scan.",
		}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hpa_scan_runs_total",
			Help: "Completed scan runs, by status.",
		}, []string{"status"}),
	}, registry
}

// RecordScan updates the gauges from one scan result
func (c *Collector) RecordScan(result *models.ScanResult) {
	c.workloadsTotal.WithLabelValues(string(models.KindDeployment)).Set(float64(result.Summary.Deployments))
	c.workloadsTotal.WithLabelValues(string(models.KindStatefulSet)).Set(float64(result.Summary.StatefulSets))
	c.workloadsTotal.WithLabelValues(string(models.KindReplicaSet)).Set(float64(result.Summary.ReplicaSets))
	c.findings.Set(float64(result.Summary.Findings))
	c.lastRun.Set(float64(result.FinishedAt.Unix()))
	c.runsTotal.WithLabelValues("success").Inc()
}

// RecordFailure counts a failed scan run
func (c *Collector) RecordFailure() {
	c.runsTotal.WithLabelValues("error").Inc()
}

// Handler serves the registry over HTTP
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
