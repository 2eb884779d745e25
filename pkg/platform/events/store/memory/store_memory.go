package memory

import (
	"context"
	"sync"

	"secreg/pkg/platform/events"
)

// InMemoryStore keeps the event log in a slice. Seq starts at 1 so that
// ListAfter(0) returns everything.
//
// Outbox state is a low-water mark: every seq <= publishedThrough has been
// published. Seqs marked out of order wait in ahead until the gap below them
// closes, so FetchUnpublished only scans the unpublished tail.
type InMemoryStore struct {
	mu               sync.RWMutex
	events           []events.Event
	publishedThrough uint64
	ahead            map[uint64]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{ahead: make(map[uint64]struct{})}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	s.publishedThrough = 0
	s.ahead = make(map[uint64]struct{})
}

func (s *InMemoryStore) Append(_ context.Context, event events.Event) (events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.Seq = uint64(len(s.events)) + 1
	s.events = append(s.events, event)
	return event, nil
}

func (s *InMemoryStore) ListAfter(_ context.Context, after uint64, limit int) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if after >= uint64(len(s.events)) {
		return []events.Event{}, nil
	}
	tail := s.events[after:]
	if limit > 0 && len(tail) > limit {
		tail = tail[:limit]
	}
	return append([]events.Event{}, tail...), nil
}

func (s *InMemoryStore) FetchUnpublished(_ context.Context, limit int) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []events.Event
	for _, e := range s.events[s.publishedThrough:] {
		if _, ok := s.ahead[e.Seq]; ok {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MarkPublished ignores seqs already below the mark or not yet appended.
func (s *InMemoryStore) MarkPublished(_ context.Context, seqs []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := uint64(len(s.events))
	for _, seq := range seqs {
		if seq <= s.publishedThrough || seq > last {
			continue
		}
		s.ahead[seq] = struct{}{}
	}
	for {
		next := s.publishedThrough + 1
		if _, ok := s.ahead[next]; !ok {
			break
		}
		delete(s.ahead, next)
		s.publishedThrough = next
	}
	return nil
}
