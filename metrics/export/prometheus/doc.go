// Package prometheus exposes session lifecycle metrics as a Prometheus
// collector.
//
// [NewPrometheusExporter] wraps a [goSession.Manager]. Register the exporter
// with any registry, or mount [PrometheusExporter.Handler], which serves it
// from a private registry. Counters are named gosession_*_total and the
// warning lead time is published as gosession_warning_lead_time_seconds.
//
// The exporter never registers with the global default registry.
package prometheus
