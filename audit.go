package goSession

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Audit event types emitted by the manager.
const (
	EventMonitoringScheduled = "monitoring_scheduled"
	EventMonitoringStopped   = "monitoring_stopped"
	EventSessionExpiringSoon = "session_expiring_soon"
	EventSessionExpired      = "session_expired"
	EventSessionRenewed      = "session_renewed"
	EventSessionForceExpired = "session_force_expired"
)

// AuditEvent describes one lifecycle transition.
type AuditEvent struct {
	Timestamp    time.Time         `json:"timestamp"`
	EventType    string            `json:"event_type"`
	GenerationID string            `json:"generation_id,omitempty"`
	Remaining    time.Duration     `json:"remaining_ms,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON writes Remaining in milliseconds.
func (e AuditEvent) MarshalJSON() ([]byte, error) {
	type alias AuditEvent
	return json.Marshal(struct {
		alias
		Remaining int64 `json:"remaining_ms,omitempty"`
	}{
		alias:     alias(e),
		Remaining: e.Remaining.Milliseconds(),
	})
}

// AuditSink receives lifecycle events from the dispatcher goroutine.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink drops every event.
type NoOpSink struct{}

// Emit drops event.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events into a buffered channel.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink returns a sink with the given buffer (minimum 1).
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

// Emit blocks until the event is buffered or ctx is done.
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receive side of the channel.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink returns a sink writing to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit marshals event and appends a newline. Marshal failures drop the event.
func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// SlogSink writes each event as one structured log record at info level.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a sink logging through logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

// Emit logs event with its generation, remaining time and metadata.
func (s *SlogSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.logger == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("event_type", event.EventType),
		slog.Time("event_time", event.Timestamp),
	}
	if event.GenerationID != "" {
		attrs = append(attrs, slog.String("generation_id", event.GenerationID))
	}
	if event.Remaining > 0 {
		attrs = append(attrs, slog.Duration("remaining", event.Remaining))
	}
	if len(event.Metadata) > 0 {
		meta := make([]any, 0, len(event.Metadata)*2)
		for k, v := range event.Metadata {
			meta = append(meta, k, v)
		}
		attrs = append(attrs, slog.Group("metadata", meta...))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "session audit", attrs...)
}
