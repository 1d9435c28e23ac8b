package authgate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// auditDispatcher decouples the authentication pipeline from its sink:
// Login, Register, and Validate enqueue and move on while a single
// background goroutine feeds the sink. The dispatcher also owns event
// enrichment — it stamps the timestamp and the caller IP from the emit
// context, so pipeline code records only what happened, not when or from
// where.
type auditDispatcher struct {
	sink       AuditSink
	queue      chan AuditEvent
	quit       chan struct{}
	drained    chan struct{}
	dropOnFull bool

	dropped atomic.Uint64
	stopped atomic.Bool
	stop    sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 1
	}

	d := &auditDispatcher{
		sink:       sink,
		queue:      make(chan AuditEvent, buffer),
		quit:       make(chan struct{}),
		drained:    make(chan struct{}),
		dropOnFull: cfg.DropIfFull,
	}
	go d.forward()

	return d
}

// forward feeds the sink until Close, then flushes whatever is still queued.
func (d *auditDispatcher) forward() {
	defer close(d.drained)

	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(context.Background(), event)
		case <-d.quit:
			for {
				select {
				case event := <-d.queue:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit enriches and enqueues one event. A zero timestamp is stamped with the
// current UTC time and an empty IP is filled from ctx, so callers never
// pre-populate either. With DropIfFull set a full queue discards the event
// and counts it; otherwise Emit blocks until the queue accepts it, ctx is
// cancelled, or the dispatcher shuts down.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.stopped.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.IP == "" {
		event.IP = clientIPFromContext(ctx)
	}

	if d.dropOnFull {
		select {
		case d.queue <- event:
		case <-d.quit:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	case <-d.quit:
	}
}

// Close stops intake and blocks until every queued event has reached the
// sink. Safe to call more than once.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.stop.Do(func() {
		d.stopped.Store(true)
		close(d.quit)
		<-d.drained
	})
}

// Dropped reports how many events were discarded because the queue was full.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
