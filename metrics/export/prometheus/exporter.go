package prometheus

import (
	"net/http"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/metrics/export/internaldefs"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsSource interface {
	MetricsSnapshot() goSession.MetricsSnapshot
	AuditDropped() uint64
}

type counterDesc struct {
	id   goSession.MetricID
	desc *prom.Desc
}

type histogramDesc struct {
	id   goSession.MetricID
	desc *prom.Desc
}

// PrometheusExporter is a [prom.Collector] over a manager's lifecycle
// counters. Each scrape reads one snapshot.
type PrometheusExporter struct {
	source       metricsSource
	counters     []counterDesc
	histograms   []histogramDesc
	auditDropped *prom.Desc
}

// NewPrometheusExporter creates an exporter reading from manager.
func NewPrometheusExporter(manager *goSession.Manager) *PrometheusExporter {
	return NewPrometheusExporterFromSource(manager)
}

// NewPrometheusExporterFromSource creates an exporter from any snapshot source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	p := &PrometheusExporter{
		source:       source,
		counters:     make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		histograms:   make([]histogramDesc, 0, len(internaldefs.HistogramDefs)),
		auditDropped: prom.NewDesc(internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, nil, nil),
	}
	for _, def := range internaldefs.CounterDefs {
		p.counters = append(p.counters, counterDesc{id: def.ID, desc: prom.NewDesc(def.Name, def.Help, nil, nil)})
	}
	for _, def := range internaldefs.HistogramDefs {
		p.histograms = append(p.histograms, histogramDesc{id: def.ID, desc: prom.NewDesc(def.Name, def.Help, nil, nil)})
	}
	return p
}

// Describe implements [prom.Collector].
func (p *PrometheusExporter) Describe(ch chan<- *prom.Desc) {
	for _, c := range p.counters {
		ch <- c.desc
	}
	for _, h := range p.histograms {
		ch <- h.desc
	}
	ch <- p.auditDropped
}

// Collect implements [prom.Collector]. A disabled metrics source yields nothing.
func (p *PrometheusExporter) Collect(ch chan<- prom.Metric) {
	if p == nil || p.source == nil {
		return
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return
	}

	for _, c := range p.counters {
		ch <- prom.MustNewConstMetric(c.desc, prom.CounterValue, float64(snapshot.Counters[c.id]))
	}

	for _, h := range p.histograms {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[h.id]))
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for i, bound := range internaldefs.HistogramUpperBounds {
			buckets[bound] = cumulative[i]
		}
		// Snapshots keep bucket counts only, so the sum is not known.
		ch <- prom.MustNewConstHistogram(h.desc, cumulative[len(cumulative)-1], 0, buckets)
	}

	ch <- prom.MustNewConstMetric(p.auditDropped, prom.CounterValue, float64(dropped))
}

// Handler serves this exporter from a private registry.
func (p *PrometheusExporter) Handler() http.Handler {
	reg := prom.NewRegistry()
	reg.MustRegister(p)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
