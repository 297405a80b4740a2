package feed

import (
	"context"
	"sync"
)

// LoadMorer is the part of a Cursor the sentinel drives.
type LoadMorer interface {
	Status() Status
	LoadMore(ctx context.Context) error
}

// VisibilityObserver reports when the sentinel element enters or leaves the viewport.
type VisibilityObserver interface {
	Observe(threshold float64, fn func(intersecting bool))
	Disconnect()
}

// FullyVisible is the threshold the sentinel observes with.
const FullyVisible = 1.0

// Sentinel requests the next page whenever it scrolls fully into view.
type Sentinel struct {
	target   LoadMorer
	observer VisibilityObserver
	onError  func(error)

	mu      sync.Mutex
	mounted bool
}

func NewSentinel(target LoadMorer, observer VisibilityObserver) *Sentinel {
	return &Sentinel{target: target, observer: observer}
}

// OnError sets a handler for LoadMore failures.
func (s *Sentinel) OnError(fn func(error)) {
	s.mu.Lock()
	s.onError = fn
	s.mu.Unlock()
}

// Mount starts observing. Mounting twice is a no-op.
func (s *Sentinel) Mount(ctx context.Context) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	s.mu.Unlock()

	s.observer.Observe(FullyVisible, func(intersecting bool) {
		s.handle(ctx, intersecting)
	})
}

// Unmount stops observing.
func (s *Sentinel) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	s.mu.Unlock()

	s.observer.Disconnect()
}

func (s *Sentinel) handle(ctx context.Context, intersecting bool) {
	s.mu.Lock()
	mounted, onError := s.mounted, s.onError
	s.mu.Unlock()

	if !mounted || !intersecting || s.target.Status() != CanLoadMore {
		return
	}
	if err := s.target.LoadMore(ctx); err != nil && onError != nil {
		onError(err)
	}
}
