// Package events carries registry domain events from the service to the outside world.
//
// Services emit an Event through a Publisher; a Store appends it to the ordered log
// (in memory, or the postgres outbox inside the caller's transaction); the relay
// forwards stored events to external destinations (Kafka, Redis streams).
// Delivery to destinations is at-least-once.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"secreg/pkg/domain"
)

// Type names a domain event, e.g. "VerificationTaskCreated".
type Type string

// Event is the transport-agnostic envelope for a domain event.
// Seq is assigned by the store on append and is strictly increasing.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Seq       uint64          `json:"seq"`
	Type      Type            `json:"type"`
	Actor     domain.Address  `json:"actor"`
	Subject   string          `json:"subject"`
	RequestID string          `json:"request_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Store is the append-only event log.
type Store interface {
	Append(ctx context.Context, event Event) (Event, error)
	ListAfter(ctx context.Context, after uint64, limit int) ([]Event, error)
}

// Outbox exposes the not-yet-relayed tail of the log.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]Event, error)
	MarkPublished(ctx context.Context, seqs []uint64) error
}

// Seqs returns the sequence numbers of a batch, in order.
func Seqs(batch []Event) []uint64 {
	out := make([]uint64, len(batch))
	for i, e := range batch {
		out[i] = e.Seq
	}
	return out
}
