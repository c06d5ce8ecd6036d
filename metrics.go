package goSession

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one lifecycle counter.
type MetricID uint16

const (
	// MetricMonitoringScheduled counts scheduling passes that armed timers.
	MetricMonitoringScheduled MetricID = iota
	// MetricMonitoringStopped counts StopMonitoring calls that cancelled live timers.
	MetricMonitoringStopped
	// MetricWarningTimer counts warnings delivered by the warning timer.
	MetricWarningTimer
	// MetricWarningImmediate counts warnings delivered during scheduling.
	MetricWarningImmediate
	// MetricSessionExpired counts delivered expiry notifications.
	MetricSessionExpired
	// MetricSessionRenewed counts RefreshMonitoring calls.
	MetricSessionRenewed
	// MetricValidationFailed counts ValidateSession calls that found no usable session.
	MetricValidationFailed
	// MetricForcedExpiry counts ForceExpire calls.
	MetricForcedExpiry
	// MetricStoreReadFailure counts credential store errors other than "no session".
	MetricStoreReadFailure
	// MetricWarningLeadTime is the histogram of time left when a warning was delivered.
	MetricWarningLeadTime
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free lifecycle counters. A nil *Metrics is a valid no-op.
type Metrics struct {
	enabled          bool
	enableHistograms bool
	counters         [metricIDCount]paddedCounter
	histograms       [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns counters configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:          cfg.Enabled,
		enableHistograms: cfg.Enabled && cfg.EnableWarningHistogram,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram id. Only MetricWarningLeadTime has buckets.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableHistograms || id != MetricWarningLeadTime {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value returns the current value of counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and, when enabled, the lead-time histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricWarningLeadTime {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableHistograms {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricWarningLeadTime].buckets[i])
		}
		s.Histograms[MetricWarningLeadTime] = buckets
	}

	return s
}

// Buckets: 5s, 10s, 30s, 1m, 2m, 5m, 10m, +Inf.
func bucketIndex(d time.Duration) int {
	switch {
	case d <= 5*time.Second:
		return 0
	case d <= 10*time.Second:
		return 1
	case d <= 30*time.Second:
		return 2
	case d <= time.Minute:
		return 3
	case d <= 2*time.Minute:
		return 4
	case d <= 5*time.Minute:
		return 5
	case d <= 10*time.Minute:
		return 6
	default:
		return 7
	}
}
