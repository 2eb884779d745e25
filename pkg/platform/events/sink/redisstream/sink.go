// Package redisstream appends relayed events to a Redis stream for dashboard consumers.
package redisstream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"secreg/pkg/platform/events"
)

// Sink writes one XADD entry per event. The stream is trimmed approximately to maxLen.
type Sink struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

func New(client redis.Cmdable, stream string, maxLen int64) *Sink {
	return &Sink{client: client, stream: stream, maxLen: maxLen}
}

func (s *Sink) Name() string { return "redis:" + s.stream }

func (s *Sink) Publish(ctx context.Context, batch []events.Event) error {
	pipe := s.client.Pipeline()
	for _, e := range batch {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event %d: %w", e.Seq, err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: s.stream,
			MaxLen: s.maxLen,
			Approx: s.maxLen > 0,
			Values: map[string]any{
				"seq":   e.Seq,
				"type":  string(e.Type),
				"event": string(body),
			},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
