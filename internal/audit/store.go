package audit

import (
	"context"
	"sync"
)

// Store persists audit events. Sinks are append-only so implementations can
// be swapped between memory and a broker without touching callers.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// InMemoryStore keeps events in memory. Used in tests and when no broker is
// configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByMerchant returns the events recorded for a merchant, oldest first.
func (s *InMemoryStore) ListByMerchant(ctx context.Context, merchantID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if e.MerchantID == merchantID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every recorded event, oldest first.
func (s *InMemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
