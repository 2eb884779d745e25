// Package relay forwards outbox events to external destinations.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"secreg/pkg/platform/events"
)

const (
	defaultInterval  = time.Second
	defaultBatchSize = 100
)

// Destination receives batches of events in sequence order.
// Publish must be safe to repeat for the same batch; the relay retries
// a batch until every destination accepts it.
type Destination interface {
	Name() string
	Publish(ctx context.Context, batch []events.Event) error
}

// Relay polls the outbox and fans batches out to destinations.
type Relay struct {
	outbox       events.Outbox
	destinations []Destination
	interval     time.Duration
	batchSize    int
	logger       *slog.Logger
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func New(outbox events.Outbox, destinations []Destination, opts ...Option) (*Relay, error) {
	if outbox == nil {
		return nil, errors.New("outbox is required")
	}
	r := &Relay{
		outbox:       outbox,
		destinations: destinations,
		interval:     defaultInterval,
		batchSize:    defaultBatchSize,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run flushes on every tick until ctx is cancelled. Flush errors are logged and
// retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for {
				n, err := r.Flush(ctx)
				if err != nil {
					if ctx.Err() == nil {
						r.logger.ErrorContext(ctx, "event relay flush failed", "error", err)
					}
					break
				}
				if n < r.batchSize {
					break
				}
			}
		}
	}
}

// Flush relays one batch and returns how many events it marked published.
// Nothing is marked unless every destination accepted the batch.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	batch, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}

	for _, dest := range r.destinations {
		if err := dest.Publish(ctx, batch); err != nil {
			r.logger.WarnContext(ctx, "event destination rejected batch",
				"destination", dest.Name(),
				"first_seq", batch[0].Seq,
				"size", len(batch),
				"error", err,
			)
			return 0, err
		}
	}

	if err := r.outbox.MarkPublished(ctx, events.Seqs(batch)); err != nil {
		return 0, err
	}
	return len(batch), nil
}
