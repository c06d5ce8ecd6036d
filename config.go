package goSession

import (
	"fmt"
	"time"
)

// DefaultWarningWindow is used when Config.WarningWindow is zero.
const DefaultWarningWindow = 5 * time.Minute

// Config is supplied to [Manager.Initialize]. Every field is optional.
//
// Hooks run on the goroutine that triggered them: the caller of Initialize,
// RefreshMonitoring, ValidateSession or ForceExpire, or a timer goroutine.
// No manager lock is held while a hook runs, so hooks may call back into the
// manager.
//
// A timer callback checks its generation before running a hook. Once
// StopMonitoring or RefreshMonitoring returns, no hook of an earlier
// generation starts, provided the host does not cancel from one goroutine
// while a timer of the same generation is already delivering on another.
// Hosts that cancel concurrently with timers should serialize through one
// goroutine, as a select loop over hook-fed channels does.
type Config struct {
	// WarningWindow is how long before expiry OnExpiringSoon fires.
	WarningWindow time.Duration

	// OnExpired fires once per generation when the session is over.
	OnExpired func()
	// OnExpiringSoon fires once per generation with the time left.
	OnExpiringSoon func(timeLeft time.Duration)
	// OnSessionRenewed fires after RefreshMonitoring rescheduled the timers.
	OnSessionRenewed func()
}

// Validate rejects out-of-range settings.
func (c Config) Validate() error {
	if c.WarningWindow < 0 {
		return fmt.Errorf("%w: warning window must be >= 0", ErrInvalidConfig)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.WarningWindow == 0 {
		c.WarningWindow = DefaultWarningWindow
	}
	return c
}

/*
====================================
BUILDER CONFIG
====================================
*/

// MetricsConfig controls the in-process counters read by the exporters.
type MetricsConfig struct {
	Enabled                bool
	EnableWarningHistogram bool
}

// AuditConfig controls asynchronous lifecycle event delivery.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:                true,
		EnableWarningHistogram: true,
	}
}

func defaultAuditConfig() AuditConfig {
	return AuditConfig{
		Enabled:    false,
		BufferSize: 256,
		DropIfFull: true,
	}
}

func (c AuditConfig) validate() error {
	if c.Enabled && c.BufferSize <= 0 {
		return fmt.Errorf("%w: audit buffer size must be > 0", ErrInvalidConfig)
	}
	return nil
}
