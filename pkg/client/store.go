package client

import "sync"

// Store is a process-wide observable value.
type Store[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   map[int]func(T)
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial, subs: make(map[int]func(T))}
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores v and calls every subscriber with it.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	subs := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Modal open flags shared by every view in the process.
var (
	CreateWorkspaceModal = NewStore(false)
	CreateChannelModal   = NewStore(false)
)
