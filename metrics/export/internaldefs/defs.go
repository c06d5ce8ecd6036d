package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef names one lifecycle counter for every exporter.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef names one lifecycle histogram for every exporter.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs lists the exported counters in rendering order.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricMonitoringScheduled, Name: "gosession_monitoring_scheduled_total", Help: "Scheduling passes that armed lifecycle timers."},
	{ID: goSession.MetricMonitoringStopped, Name: "gosession_monitoring_stopped_total", Help: "StopMonitoring calls that cancelled live timers."},
	{ID: goSession.MetricWarningTimer, Name: "gosession_warning_timer_total", Help: "Expiry warnings delivered by the warning timer."},
	{ID: goSession.MetricWarningImmediate, Name: "gosession_warning_immediate_total", Help: "Expiry warnings delivered while scheduling."},
	{ID: goSession.MetricSessionExpired, Name: "gosession_session_expired_total", Help: "Delivered expiry notifications."},
	{ID: goSession.MetricSessionRenewed, Name: "gosession_session_renewed_total", Help: "Monitoring refreshes after a token was saved."},
	{ID: goSession.MetricValidationFailed, Name: "gosession_validation_failed_total", Help: "ValidateSession calls that found no usable session."},
	{ID: goSession.MetricForcedExpiry, Name: "gosession_forced_expiry_total", Help: "Sessions ended by ForceExpire."},
	{ID: goSession.MetricStoreReadFailure, Name: "gosession_store_read_failure_total", Help: "Credential store reads that failed."},
}

// HistogramDefs lists the exported histograms.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricWarningLeadTime, Name: "gosession_warning_lead_time_seconds", Help: "Time left on the session when the expiry warning was delivered."},
}

// AuditDroppedName is the counter for audit events dropped on a full buffer.
const (
	AuditDroppedName = "gosession_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// HistogramUpperBounds are the finite bucket bounds in seconds. The last
// bucket of a snapshot is +Inf.
var HistogramUpperBounds = []float64{5, 10, 30, 60, 120, 300, 600}

// HistogramBounds are the bucket labels including +Inf.
var HistogramBounds = []string{
	"5",
	"10",
	"30",
	"60",
	"120",
	"300",
	"600",
	"+Inf",
}

// HistogramBoundSuffix are metric-name-safe forms of HistogramBounds.
var HistogramBoundSuffix = []string{
	"5",
	"10",
	"30",
	"60",
	"120",
	"300",
	"600",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array, zero-filling short input.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
