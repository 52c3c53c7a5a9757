package alert

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a process-local Store. Watches are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	watches  map[int64]Watch
	capacity int
}

// NewMemoryStore returns a store holding at most capacity subscribers.
// capacity <= 0 means unbounded.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{watches: make(map[int64]Watch), capacity: capacity}
}

func (s *MemoryStore) Put(_ context.Context, w Watch) (Watch, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.watches[w.SubscriberID]
	if !ok && s.capacity > 0 && len(s.watches) >= s.capacity {
		return Watch{}, false, ErrRegistryFull
	}
	s.watches[w.SubscriberID] = w
	return prev, ok, nil
}

func (s *MemoryStore) PutIfAbsent(_ context.Context, w Watch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watches[w.SubscriberID]; ok {
		return false, nil
	}
	s.watches[w.SubscriberID] = w
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, subscriberID int64) (Watch, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.watches[subscriberID]
	return w, ok, nil
}

// List returns a snapshot ordered by subscriber.
func (s *MemoryStore) List(_ context.Context) ([]Watch, error) {
	s.mu.Lock()
	out := make([]Watch, 0, len(s.watches))
	for _, w := range s.watches {
		out = append(out, w)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SubscriberID < out[j].SubscriberID })
	return out, nil
}

func (s *MemoryStore) CompareAndDelete(_ context.Context, w Watch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.watches[w.SubscriberID]
	if !ok || cur.ID != w.ID {
		return false, nil
	}
	delete(s.watches, w.SubscriberID)
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, subscriberID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.watches[subscriberID]
	delete(s.watches, subscriberID)
	return ok, nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches), nil
}
