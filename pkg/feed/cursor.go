package feed

import (
	"context"
	"sync"
)

// Status is the paging state of a Cursor.
type Status int

const (
	LoadingFirstPage Status = iota
	CanLoadMore
	LoadingMore
	Exhausted
)

func (s Status) String() string {
	switch s {
	case LoadingFirstPage:
		return "LoadingFirstPage"
	case CanLoadMore:
		return "CanLoadMore"
	case LoadingMore:
		return "LoadingMore"
	case Exhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// Page is one newest-first slice of a remote stream.
type Page[T any] struct {
	Items      []T
	NextCursor string
	IsDone     bool
}

// PageSource fetches pages. An empty cursor requests the first page.
type PageSource[T any] interface {
	FetchPage(ctx context.Context, cursor string, limit int) (Page[T], error)
}

// PageSourceFunc adapts a function to PageSource.
type PageSourceFunc[T any] func(ctx context.Context, cursor string, limit int) (Page[T], error)

func (f PageSourceFunc[T]) FetchPage(ctx context.Context, cursor string, limit int) (Page[T], error) {
	return f(ctx, cursor, limit)
}

// Cursor accumulates pages of a newest-first stream.
// At most one fetch is in flight at a time.
type Cursor[T any] struct {
	source   PageSource[T]
	pageSize int

	mu       sync.Mutex
	key      func(T) string
	keys     map[string]struct{}
	items    []T
	next     string
	status   Status
	started  bool
	fetching bool
	onChange []func()
}

func NewCursor[T any](source PageSource[T], pageSize int) *Cursor[T] {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Cursor[T]{
		source:   source,
		pageSize: pageSize,
		status:   LoadingFirstPage,
	}
}

// WithKey makes the cursor drop items whose key it already holds, whether they
// arrive in a page or through Prepend. Call it before Start.
func (c *Cursor[T]) WithKey(key func(T) string) *Cursor[T] {
	c.mu.Lock()
	c.key = key
	c.keys = make(map[string]struct{}, len(c.items))
	for _, item := range c.items {
		c.keys[key(item)] = struct{}{}
	}
	c.mu.Unlock()
	return c
}

// OnChange registers fn to run after every change of items or status.
func (c *Cursor[T]) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.mu.Unlock()
}

func (c *Cursor[T]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Items returns a copy of every loaded item, newest first.
func (c *Cursor[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Start fetches the first page. Calls after a successful start are no-ops.
func (c *Cursor[T]) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started || c.fetching {
		c.mu.Unlock()
		return nil
	}
	c.fetching = true
	c.mu.Unlock()

	page, err := c.source.FetchPage(ctx, "", c.pageSize)

	c.mu.Lock()
	c.fetching = false
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.started = true
	c.items = append(c.items, c.fresh(page.Items)...)
	c.applyPage(page)
	c.mu.Unlock()

	c.notify()
	return nil
}

// LoadMore fetches the next page when the status is CanLoadMore and does nothing otherwise.
// A failed fetch restores CanLoadMore and returns the error.
func (c *Cursor[T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.status != CanLoadMore || c.fetching {
		c.mu.Unlock()
		return nil
	}
	c.fetching = true
	c.status = LoadingMore
	cursor := c.next
	c.mu.Unlock()
	c.notify()

	page, err := c.source.FetchPage(ctx, cursor, c.pageSize)

	c.mu.Lock()
	c.fetching = false
	if err != nil {
		c.status = CanLoadMore
		c.mu.Unlock()
		c.notify()
		return err
	}
	c.items = append(c.items, c.fresh(page.Items)...)
	c.applyPage(page)
	c.mu.Unlock()

	c.notify()
	return nil
}

// Prepend inserts live items, newest first, ahead of everything loaded.
func (c *Cursor[T]) Prepend(items ...T) {
	if len(items) == 0 {
		return
	}
	c.mu.Lock()
	items = c.fresh(items)
	if len(items) == 0 {
		c.mu.Unlock()
		return
	}
	merged := make([]T, 0, len(items)+len(c.items))
	merged = append(merged, items...)
	c.items = append(merged, c.items...)
	c.mu.Unlock()
	c.notify()
}

// fresh filters out items already held and records the rest. It must be called with mu held.
func (c *Cursor[T]) fresh(items []T) []T {
	if c.key == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := c.key(item)
		if _, ok := c.keys[k]; ok {
			continue
		}
		c.keys[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// applyPage must be called with mu held.
func (c *Cursor[T]) applyPage(page Page[T]) {
	c.next = page.NextCursor
	if page.IsDone {
		c.status = Exhausted
	} else {
		c.status = CanLoadMore
	}
}

func (c *Cursor[T]) notify() {
	c.mu.Lock()
	listeners := append([]func(){}, c.onChange...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
