package publisher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"secreg/pkg/platform/events"
	"secreg/pkg/requestcontext"
)

// Publisher stamps events with identity and time and appends them to a Store.
//
// In sync mode (default) Emit appends with the caller's context, so a postgres
// outbox store joins the caller's transaction. In async mode Emit enqueues and a
// background goroutine appends; a full buffer drops the event and counts it.
// Async mode is only suitable for stores that do not participate in transactions.
type Publisher struct {
	store   events.Store
	logger  *slog.Logger
	buffer  chan events.Event
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Int64
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.buffer = make(chan events.Event, n)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store events.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit stamps and stores the event.
func (p *Publisher) Emit(ctx context.Context, event events.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if p.buffer == nil {
		_, err := p.store.Append(ctx, event)
		return err
	}

	select {
	case p.buffer <- event:
	default:
		p.dropped.Add(1)
		if p.logger != nil {
			p.logger.WarnContext(ctx, "event buffer full, dropping event",
				"event_type", event.Type,
				"request_id", event.RequestID,
			)
		}
	}
	return nil
}

// List returns stored events with Seq greater than after.
func (p *Publisher) List(ctx context.Context, after uint64, limit int) ([]events.Event, error) {
	return p.store.ListAfter(ctx, after, limit)
}

// Dropped reports how many events the async buffer rejected.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close drains the async buffer. Safe to call more than once.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		if _, err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to append event",
				"event_type", event.Type,
				"error", err,
			)
		}
	}
}
