package otel

import (
	"context"
	"errors"
	"fmt"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNilMeter is returned when no meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when no metrics source is supplied.
	ErrNilSource = errors.New("nil metrics source")
)

// RemainingName is the gauge reporting time left on the stored session.
const RemainingName = "gosession_session_remaining_seconds"

type metricsSource interface {
	MetricsSnapshot() goSession.MetricsSnapshot
	AuditDropped() uint64
}

// sessionSource is implemented by *goSession.Manager. When the source
// implements it the exporter also reports the live session state.
type sessionSource interface {
	GetSessionInfo(ctx context.Context) goSession.SessionInfo
}

// OTelExporter publishes lifecycle counters through observable instruments.
// Histogram buckets are one cumulative gauge labelled with "le".
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration

	counters     map[goSession.MetricID]metric.Int64ObservableCounter
	buckets      map[goSession.MetricID]metric.Int64ObservableGauge
	counts       map[goSession.MetricID]metric.Int64ObservableGauge
	auditDropped metric.Int64ObservableCounter
	remaining    metric.Float64ObservableGauge

	bucketAttrs []metric.ObserveOption
}

// NewOTelExporter registers instruments on meter that read from manager,
// including the remaining-time gauge.
func NewOTelExporter(meter metric.Meter, manager *goSession.Manager) (*OTelExporter, error) {
	if manager == nil {
		return nil, ErrNilSource
	}
	return NewOTelExporterFromSource(meter, manager)
}

// NewOTelExporterFromSource registers instruments reading from source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	e := &OTelExporter{
		source:   source,
		counters: make(map[goSession.MetricID]metric.Int64ObservableCounter, len(internaldefs.CounterDefs)),
		buckets:  make(map[goSession.MetricID]metric.Int64ObservableGauge, len(internaldefs.HistogramDefs)),
		counts:   make(map[goSession.MetricID]metric.Int64ObservableGauge, len(internaldefs.HistogramDefs)),
	}
	for _, le := range internaldefs.HistogramBounds {
		e.bucketAttrs = append(e.bucketAttrs, metric.WithAttributes(attribute.String("le", le)))
	}

	var observables []metric.Observable
	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", def.Name, err)
		}
		e.counters[def.ID] = ins
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		bucket, err := meter.Int64ObservableGauge(def.Name+"_bucket",
			metric.WithDescription(def.Help+" Cumulative count per upper bound."),
			metric.WithUnit("{warning}"))
		if err != nil {
			return nil, fmt.Errorf("create bucket gauge %s: %w", def.Name, err)
		}
		count, err := meter.Int64ObservableGauge(def.Name+"_count",
			metric.WithDescription(def.Help+" Total samples."))
		if err != nil {
			return nil, fmt.Errorf("create count gauge %s: %w", def.Name, err)
		}
		e.buckets[def.ID] = bucket
		e.counts[def.ID] = count
		observables = append(observables, bucket, count)
	}

	auditDropped, err := meter.Int64ObservableCounter(internaldefs.AuditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp))
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	e.auditDropped = auditDropped
	observables = append(observables, auditDropped)

	if _, ok := source.(sessionSource); ok {
		remaining, err := meter.Float64ObservableGauge(RemainingName,
			metric.WithDescription("Time left on the stored session, labelled with its state."),
			metric.WithUnit("s"))
		if err != nil {
			return nil, fmt.Errorf("create remaining gauge: %w", err)
		}
		e.remaining = remaining
		observables = append(observables, remaining)
	}

	registration, err := meter.RegisterCallback(e.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}
	e.registration = registration
	return e, nil
}

func (e *OTelExporter) observe(ctx context.Context, o metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for id, ins := range e.counters {
		o.ObserveInt64(ins, int64(snapshot.Counters[id]))
	}
	for id, ins := range e.buckets {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[id]))
		for i, v := range cumulative {
			o.ObserveInt64(ins, int64(v), e.bucketAttrs[i])
		}
		o.ObserveInt64(e.counts[id], int64(cumulative[len(cumulative)-1]))
	}
	o.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))

	if e.remaining != nil {
		info := e.source.(sessionSource).GetSessionInfo(ctx)
		o.ObserveFloat64(e.remaining, info.TimeUntilExpiration.Seconds(),
			metric.WithAttributes(attribute.String("state", info.State.String())))
	}
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
