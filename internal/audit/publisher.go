// Package audit records an append-only trail of authentication outcomes.
package audit

import (
	"context"
	"time"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}

// Publisher captures structured audit events. Synchronous by default; with an
// async buffer, events are drained by a background worker so the request path
// never waits on storage.
type Publisher struct {
	store Store

	bufferSize int
	inbox      chan Event
	cancel     context.CancelFunc
	done       chan struct{}
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer enables background persistence with the given channel size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.bufferSize = size
	}
}

// NewPublisher constructs a Publisher over the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}

	if p.bufferSize > 0 {
		p.inbox = make(chan Event, p.bufferSize)
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.done = make(chan struct{})

		worker := NewWorker(store, p.inbox)
		go func() {
			defer close(p.done)
			_ = worker.Run(ctx)
		}()
	}
	return p
}

// Emit records an event, stamping the timestamp when the caller left it zero.
// In async mode a full buffer degrades to a synchronous write rather than
// dropping the event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		return p.store.Append(ctx, event)
	}
}

// List returns everything recorded so far.
func (p *Publisher) List(ctx context.Context) ([]Event, error) {
	return p.store.List(ctx)
}

// Close stops the background worker and flushes anything left in the buffer.
// No-op in synchronous mode.
func (p *Publisher) Close() {
	if p.inbox == nil {
		return
	}
	p.cancel()
	<-p.done
	for {
		select {
		case event := <-p.inbox:
			_ = p.store.Append(context.Background(), event)
		default:
			return
		}
	}
}
