package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"secreg/pkg/platform/events"
	txcontext "secreg/pkg/platform/tx"
)

// Store implements events.Store and events.Outbox on the event_outbox table.
//
// Append runs on the transaction carried by ctx when there is one, so an event is
// committed or rolled back together with the registry mutation that produced it.
// Registry writers serialize on an advisory lock, so seq order equals commit order
// and ListAfter never skips a row that commits late.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) txcontext.Conn {
	return txcontext.ConnFrom(ctx, s.db)
}

func (s *Store) Append(ctx context.Context, event events.Event) (events.Event, error) {
	query := `
		INSERT INTO event_outbox (id, event_type, actor, subject, request_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq
	`
	payload := []byte(event.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	err := s.conn(ctx).QueryRowContext(ctx, query,
		event.ID,
		string(event.Type),
		event.Actor,
		event.Subject,
		event.RequestID,
		payload,
		event.Timestamp,
	).Scan(&event.Seq)
	if err != nil {
		return events.Event{}, fmt.Errorf("insert outbox entry: %w", err)
	}
	return event, nil
}

func (s *Store) ListAfter(ctx context.Context, after uint64, limit int) ([]events.Event, error) {
	if limit <= 0 {
		limit = 1000
	}
	query := `
		SELECT seq, id, event_type, actor, subject, request_id, payload, created_at
		FROM event_outbox
		WHERE seq > $1
		ORDER BY seq
		LIMIT $2
	`
	rows, err := s.conn(ctx).QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) FetchUnpublished(ctx context.Context, limit int) ([]events.Event, error) {
	query := `
		SELECT seq, id, event_type, actor, subject, request_id, payload, created_at
		FROM event_outbox
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unpublished outbox entries: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) MarkPublished(ctx context.Context, seqs []uint64) error {
	if len(seqs) == 0 {
		return nil
	}
	ids := make([]int64, len(seqs))
	for i, seq := range seqs {
		ids[i] = int64(seq)
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE event_outbox SET published_at = NOW() WHERE seq = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("mark outbox entries published: %w", err)
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]events.Event, error) {
	out := []events.Event{}
	for rows.Next() {
		var (
			e       events.Event
			typ     string
			payload []byte
		)
		if err := rows.Scan(&e.Seq, &e.ID, &typ, &e.Actor, &e.Subject, &e.RequestID, &payload, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.Type = events.Type(typ)
		e.Payload = payload
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return out, nil
}
