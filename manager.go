package goSession

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/session"
	"github.com/google/uuid"
)

type warningSource uint8

const (
	warningFromTimer warningSource = iota
	warningImmediate
)

type expireReason string

const (
	expireByTimer      expireReason = "timer"
	expireOnSchedule   expireReason = "already_expired"
	expireByValidation expireReason = "validation"
	expireForced       expireReason = "forced"
)

// Manager owns the session lifecycle of one host application. Methods are
// safe for concurrent use; hooks are invoked without any lock held.
type Manager struct {
	store     session.Store
	inspector *jwt.Inspector
	clock     Clock
	logger    *slog.Logger
	metrics   *Metrics
	audit     *auditDispatcher

	mu           sync.Mutex
	cfg          Config
	initialized  bool
	closed       bool
	generation   uint64
	generationID string
	warningTimer Timer
	expiryTimer  Timer
}

// Initialize stores cfg and schedules monitoring for the current token.
//
// When the token is already inside the warning window, OnExpiringSoon runs
// before Initialize returns; when it is already expired, OnExpired runs and
// no timers are armed. An absent or undecodable token arms nothing.
func (m *Manager) Initialize(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	m.cfg = cfg.withDefaults()
	m.initialized = true
	m.mu.Unlock()

	m.schedule(ctx)
	return nil
}

// RefreshMonitoring cancels the current generation, schedules a new one for
// the token now in the store, and then calls OnSessionRenewed. Hosts call it
// after saving a new or rotated token.
func (m *Manager) RefreshMonitoring(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	if !m.initialized {
		m.mu.Unlock()
		return ErrNotInitialized
	}
	m.mu.Unlock()

	m.schedule(ctx)

	m.mu.Lock()
	cfg := m.cfg
	genID := m.generationID
	m.mu.Unlock()

	m.metrics.Inc(MetricSessionRenewed)
	m.emit(ctx, EventSessionRenewed, genID, 0, nil)
	m.logger.InfoContext(ctx, "session monitoring renewed", "generation_id", genID)

	if cfg.OnSessionRenewed != nil {
		cfg.OnSessionRenewed()
	}
	return nil
}

// StopMonitoring cancels pending timers without invoking any hook. It is
// idempotent.
func (m *Manager) StopMonitoring() {
	m.mu.Lock()
	genID := m.generationID
	hadTimers := m.cancelLocked()
	m.mu.Unlock()

	if !hadTimers {
		return
	}
	m.metrics.Inc(MetricMonitoringStopped)
	m.emit(context.Background(), EventMonitoringStopped, genID, 0, nil)
	m.logger.Debug("session monitoring stopped")
}

// GetSessionInfo classifies the token currently in the store. It arms and
// cancels nothing.
func (m *Manager) GetSessionInfo(ctx context.Context) SessionInfo {
	token, err := m.store.Token(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			m.metrics.Inc(MetricStoreReadFailure)
			m.logger.WarnContext(ctx, "credential store read failed", "error", err)
		}
		return SessionInfo{State: StateInvalid}
	}
	return m.classify(token, m.config().WarningWindow)
}

// IsSessionValid reports whether the session is valid or expiring soon.
func (m *Manager) IsSessionValid(ctx context.Context) bool {
	return m.GetSessionInfo(ctx).IsAuthenticated
}

// ValidateSession returns true when the session is usable. Otherwise it
// cancels the timers, calls OnExpired and returns false.
func (m *Manager) ValidateSession(ctx context.Context) bool {
	if m.GetSessionInfo(ctx).IsAuthenticated {
		return true
	}
	m.metrics.Inc(MetricValidationFailed)
	m.expireNow(ctx, expireByValidation)
	return false
}

// ForceExpire ends the session regardless of the token's exp, for example
// after the API answered 401. It cancels the timers and calls OnExpired.
func (m *Manager) ForceExpire(ctx context.Context) {
	m.metrics.Inc(MetricForcedExpiry)
	m.expireNow(ctx, expireForced)
}

// FormatRemaining renders the time left on the stored token.
func (m *Manager) FormatRemaining(ctx context.Context) (string, bool) {
	token, err := m.store.Token(ctx)
	if err != nil {
		return "", false
	}
	return m.inspector.FormatRemaining(token)
}

// MetricsSnapshot returns the current lifecycle counters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// AuditDropped returns how many audit events were dropped on a full buffer.
func (m *Manager) AuditDropped() uint64 {
	return m.audit.Dropped()
}

// Close stops monitoring and flushes the audit dispatcher. Later calls to
// Initialize or RefreshMonitoring fail with ErrManagerClosed.
func (m *Manager) Close() {
	m.StopMonitoring()

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.audit.Close()
}

func (m *Manager) config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

func (m *Manager) classify(token string, window time.Duration) SessionInfo {
	expiresAt, ok := m.inspector.ExpirationTime(token)
	if !ok {
		return SessionInfo{State: StateInvalid}
	}

	left := m.inspector.TimeUntilExpiration(token)
	info := SessionInfo{
		TimeUntilExpiration: left,
		ExpiresAt:           expiresAt,
	}
	switch {
	case left <= 0:
		info.State = StateExpired
	case left <= window:
		info.State = StateExpiringSoon
	default:
		info.State = StateValid
	}
	info.IsAuthenticated = info.State.Authenticated()
	return info
}

// schedule runs one scheduling pass: cancel, classify, arm.
func (m *Manager) schedule(ctx context.Context) {
	m.mu.Lock()
	m.cancelLocked()
	gen := m.generation
	genID := m.generationID
	window := m.cfg.WarningWindow
	m.mu.Unlock()

	info := m.GetSessionInfo(ctx)
	switch info.State {
	case StateInvalid:
		m.logger.DebugContext(ctx, "session monitoring skipped, no usable token")
		return
	case StateExpired:
		m.expire(ctx, gen, expireOnSchedule)
		return
	}

	remaining := info.TimeUntilExpiration
	warningDelay := remaining - window
	expiresAt := info.ExpiresAt

	m.mu.Lock()
	if m.generation != gen {
		// Superseded by a concurrent pass or stop.
		m.mu.Unlock()
		return
	}
	if warningDelay > 0 {
		m.warningTimer = m.clock.AfterFunc(warningDelay, func() {
			m.onWarningTimer(gen, expiresAt)
		})
	}
	m.mu.Unlock()

	m.metrics.Inc(MetricMonitoringScheduled)
	m.emit(ctx, EventMonitoringScheduled, genID, remaining, map[string]string{
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
	m.logger.InfoContext(ctx, "session monitoring scheduled",
		"generation_id", genID,
		"remaining", remaining,
		"warning_in", max(warningDelay, 0),
	)

	if warningDelay <= 0 {
		m.deliverWarning(ctx, gen, remaining, warningImmediate)
	}

	// The warning hook may have stopped or rescheduled monitoring.
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generation != gen {
		return
	}
	m.expiryTimer = m.clock.AfterFunc(max(expiresAt.Sub(m.clock.Now()), 0), func() {
		m.expire(context.Background(), gen, expireByTimer)
	})
}

func (m *Manager) onWarningTimer(gen uint64, expiresAt time.Time) {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return
	}
	m.warningTimer = nil
	m.mu.Unlock()

	left := expiresAt.Sub(m.clock.Now()).Truncate(time.Millisecond)
	if left < 0 {
		left = 0
	}
	m.deliverWarning(context.Background(), gen, left, warningFromTimer)
}

func (m *Manager) deliverWarning(ctx context.Context, gen uint64, left time.Duration, source warningSource) {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return
	}
	cfg := m.cfg
	genID := m.generationID
	m.mu.Unlock()

	if source == warningImmediate {
		m.metrics.Inc(MetricWarningImmediate)
	} else {
		m.metrics.Inc(MetricWarningTimer)
	}
	m.metrics.Observe(MetricWarningLeadTime, left)
	m.emit(ctx, EventSessionExpiringSoon, genID, left, nil)
	m.logger.WarnContext(ctx, "session expiring soon",
		"generation_id", genID,
		"time_left", jwt.FormatDuration(left),
	)

	if cfg.OnExpiringSoon != nil {
		cfg.OnExpiringSoon(left)
	}
}

// expire runs the expired path for generation gen; stale generations are ignored.
func (m *Manager) expire(ctx context.Context, gen uint64, reason expireReason) {
	m.mu.Lock()
	if m.generation != gen {
		m.mu.Unlock()
		return
	}
	genID := m.generationID
	m.cancelLocked()
	cfg := m.cfg
	m.mu.Unlock()

	m.notifyExpired(ctx, cfg, genID, reason)
}

// expireNow runs the expired path for whatever generation is current.
func (m *Manager) expireNow(ctx context.Context, reason expireReason) {
	m.mu.Lock()
	genID := m.generationID
	m.cancelLocked()
	cfg := m.cfg
	m.mu.Unlock()

	m.notifyExpired(ctx, cfg, genID, reason)
}

func (m *Manager) notifyExpired(ctx context.Context, cfg Config, genID string, reason expireReason) {
	eventType := EventSessionExpired
	if reason == expireForced {
		eventType = EventSessionForceExpired
	}
	m.metrics.Inc(MetricSessionExpired)
	m.emit(ctx, eventType, genID, 0, map[string]string{"reason": string(reason)})
	m.logger.InfoContext(ctx, "session expired", "generation_id", genID, "reason", string(reason))

	if cfg.OnExpired != nil {
		cfg.OnExpired()
	}
}

// cancelLocked stops both timers and starts a new generation. It reports
// whether any timer was still armed. Callers hold m.mu.
func (m *Manager) cancelLocked() bool {
	hadTimers := false
	if m.warningTimer != nil {
		m.warningTimer.Stop()
		m.warningTimer = nil
		hadTimers = true
	}
	if m.expiryTimer != nil {
		m.expiryTimer.Stop()
		m.expiryTimer = nil
		hadTimers = true
	}
	m.generation++
	m.generationID = newGenerationID()
	return hadTimers
}

func (m *Manager) emit(ctx context.Context, eventType, genID string, remaining time.Duration, metadata map[string]string) {
	if m.audit == nil {
		return
	}
	m.audit.Emit(ctx, AuditEvent{
		Timestamp:    m.clock.Now(),
		EventType:    eventType,
		GenerationID: genID,
		Remaining:    remaining,
		Metadata:     metadata,
	})
}

func newGenerationID() string {
	return uuid.NewString()
}
