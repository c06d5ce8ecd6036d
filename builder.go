package goSession

import (
	"log/slog"

	"github.com/MrEthical07/goSession/jwt"
	"github.com/MrEthical07/goSession/session"
)

// Builder assembles a [Manager]. A Builder is single use.
type Builder struct {
	store     session.Store
	clock     Clock
	logger    *slog.Logger
	metrics   MetricsConfig
	audit     AuditConfig
	auditSink AuditSink

	built bool
}

// New returns a Builder with the wall clock, a discarding logger, metrics
// enabled and audit disabled.
func New() *Builder {
	return &Builder{
		clock:   SystemClock(),
		metrics: defaultMetricsConfig(),
		audit:   defaultAuditConfig(),
	}
}

// WithStore sets the credential store the manager reads tokens from.
func (b *Builder) WithStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithClock replaces the wall clock.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithLogger sets the structured logger for lifecycle transitions.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetrics overrides the metrics configuration.
func (b *Builder) WithMetrics(cfg MetricsConfig) *Builder {
	b.metrics = cfg
	return b
}

// WithAuditConfig overrides the audit dispatcher configuration.
func (b *Builder) WithAuditConfig(cfg AuditConfig) *Builder {
	b.audit = cfg
	return b
}

// WithAuditSink sets the audit sink and enables the dispatcher.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	if sink != nil {
		b.audit.Enabled = true
	}
	return b
}

// Build validates the builder and starts the audit dispatcher when enabled.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}
	if b.store == nil {
		return nil, ErrNilStore
	}
	if err := b.audit.validate(); err != nil {
		return nil, err
	}
	b.built = true

	clock := b.clock
	if clock == nil {
		clock = SystemClock()
	}
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("component", "session_manager")

	return &Manager{
		store:        b.store,
		inspector:    jwt.NewInspector(clock.Now),
		clock:        clock,
		logger:       logger,
		metrics:      NewMetrics(b.metrics),
		audit:        newAuditDispatcher(b.audit, b.auditSink, logger),
		cfg:          Config{}.withDefaults(),
		generationID: newGenerationID(),
	}, nil
}
