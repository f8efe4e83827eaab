package summary

import (
	"github.com/prometheus/client_golang/prometheus"
)

//*******************************************
// prometheus metrics
//*******************************************

// Metrics holds the gauges of one run in a private registry so repeated runs
// in a process never collide.
type Metrics struct {
	registry      *prometheus.Registry
	demands       *prometheus.GaugeVec
	stageSeconds  *prometheus.GaugeVec
	edgesWithFlow prometheus.Gauge
	metersByLTS   *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		demands: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cycleflow_routing_demands_total",
			Help: "Number of demands by routing result",
		}, []string{"result"}),
		stageSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cycleflow_pipeline_stage_seconds",
			Help: "Duration of a pipeline stage in seconds",
		}, []string{"stage"}),
		edgesWithFlow: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cycleflow_routing_edges_with_flow",
			Help: "Number of edges with a nonzero count",
		}),
		metersByLTS: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cycleflow_routing_meters",
			Help: "Routed meters by level of traffic stress",
		}, []string{"lts"}),
	}
	m.registry.MustRegister(m.demands)
	m.registry.MustRegister(m.stageSeconds)
	m.registry.MustRegister(m.edgesWithFlow)
	m.registry.MustRegister(m.metersByLTS)
	return m
}

// Observe sets every gauge from the metadata. Nested stages with the same
// name add up.
func (m *Metrics) Observe(meta OutputMetadata) {
	m.demands.WithLabelValues("succeeded").Set(float64(meta.NumSucceededRequests))
	m.demands.WithLabelValues("failed").Set(float64(meta.NumFailedRequests))
	m.edgesWithFlow.Set(float64(meta.NumEdgesWithCount))
	m.metersByLTS.WithLabelValues("lts1").Set(meta.TotalMetersLTS1)
	m.metersByLTS.WithLabelValues("lts2").Set(meta.TotalMetersLTS2)
	m.metersByLTS.WithLabelValues("lts3").Set(meta.TotalMetersLTS3)
	m.metersByLTS.WithLabelValues("lts4").Set(meta.TotalMetersLTS4)
	m.stageSeconds.Reset()
	for _, stage := range meta.Stages {
		m.stageSeconds.WithLabelValues(stage.Name).Add(stage.Seconds)
	}
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
