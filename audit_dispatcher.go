package goSession

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// auditDispatcher hands lifecycle events to the sink on one worker
// goroutine so timer callbacks never wait on sink I/O.
type auditDispatcher struct {
	sink       AuditSink
	logger     *slog.Logger
	dropIfFull bool

	// mu guards closed and the send side of queue.
	mu      sync.RWMutex
	closed  bool
	queue   chan AuditEvent
	stopped chan struct{}

	dropped atomic.Uint64
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink, logger *slog.Logger) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		sink:       sink,
		logger:     logger,
		dropIfFull: cfg.DropIfFull,
		queue:      make(chan AuditEvent, max(cfg.BufferSize, 1)),
		stopped:    make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *auditDispatcher) run() {
	defer close(d.stopped)
	for event := range d.queue {
		d.deliver(event)
	}
}

func (d *auditDispatcher) deliver(event AuditEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("audit sink panicked", "event_type", event.EventType, "panic", r)
		}
	}()
	d.sink.Emit(context.Background(), event)
}

// Emit queues event. With dropIfFull a full queue drops and counts the
// event; otherwise Emit waits for room or for ctx.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	if d.dropIfFull {
		select {
		case d.queue <- event:
		default:
			d.drop(event)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
		d.drop(event)
	}
}

// drop logs the first drop and then every power of two.
func (d *auditDispatcher) drop(event AuditEvent) {
	n := d.dropped.Add(1)
	if n&(n-1) == 0 {
		d.logger.Warn("audit event dropped", "event_type", event.EventType, "dropped_total", n)
	}
}

// Close delivers everything already queued and stops the worker. Emit
// after Close is a no-op.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.stopped
}

// Dropped reports events lost to a full queue or a cancelled context.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
