package feed

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedSource serves ints newest-first in pages, using the next index as cursor.
type pagedSource struct {
	mu      sync.Mutex
	data    []int
	calls   int
	failOn  int
	block   chan struct{}
	entered chan struct{}
}

func (s *pagedSource) FetchPage(_ context.Context, cursor string, limit int) (Page[int], error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()

	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	if call == s.failOn {
		return Page[int]{}, errors.New("network down")
	}

	start := 0
	if cursor != "" {
		start, _ = strconv.Atoi(cursor)
	}
	end := start + limit
	if end >= len(s.data) {
		return Page[int]{Items: s.data[start:], IsDone: true}, nil
	}
	return Page[int]{Items: s.data[start:end], NextCursor: strconv.Itoa(end)}, nil
}

func TestCursor_PagesUntilExhausted(t *testing.T) {
	ctx := context.Background()
	source := &pagedSource{data: []int{9, 8, 7, 6, 5}}
	cursor := NewCursor[int](source, 2)

	assert.Equal(t, LoadingFirstPage, cursor.Status())
	require.NoError(t, cursor.Start(ctx))
	assert.Equal(t, CanLoadMore, cursor.Status())
	assert.Equal(t, []int{9, 8}, cursor.Items())

	require.NoError(t, cursor.LoadMore(ctx))
	require.NoError(t, cursor.LoadMore(ctx))
	assert.Equal(t, Exhausted, cursor.Status())
	assert.Equal(t, []int{9, 8, 7, 6, 5}, cursor.Items())

	require.NoError(t, cursor.LoadMore(ctx))
	assert.Equal(t, 3, source.calls, "no fetch once exhausted")
}

func TestCursor_FailedLoadRestoresState(t *testing.T) {
	ctx := context.Background()
	source := &pagedSource{data: []int{3, 2, 1}, failOn: 2}
	cursor := NewCursor[int](source, 1)

	require.NoError(t, cursor.Start(ctx))
	assert.Error(t, cursor.LoadMore(ctx))
	assert.Equal(t, CanLoadMore, cursor.Status())
	assert.Equal(t, []int{3}, cursor.Items())

	require.NoError(t, cursor.LoadMore(ctx))
	assert.Equal(t, []int{3, 2}, cursor.Items())
}

func TestCursor_SingleInFlight(t *testing.T) {
	ctx := context.Background()
	source := &pagedSource{data: []int{4, 3, 2, 1}}
	cursor := NewCursor[int](source, 1)
	require.NoError(t, cursor.Start(ctx))

	source.block = make(chan struct{})
	source.entered = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() { done <- cursor.LoadMore(ctx) }()
	<-source.entered

	assert.Equal(t, LoadingMore, cursor.Status())
	require.NoError(t, cursor.LoadMore(ctx))

	close(source.block)
	require.NoError(t, <-done)
	assert.Equal(t, 2, source.calls)
	assert.Equal(t, []int{4, 3}, cursor.Items())
}

func TestCursor_PrependAndNotify(t *testing.T) {
	ctx := context.Background()
	cursor := NewCursor[int](&pagedSource{data: []int{2, 1}}, 10)

	changes := 0
	cursor.OnChange(func() { changes++ })

	require.NoError(t, cursor.Start(ctx))
	cursor.Prepend(4, 3)

	assert.Equal(t, []int{4, 3, 2, 1}, cursor.Items())
	assert.Equal(t, Exhausted, cursor.Status())
	assert.Equal(t, 2, changes)
}

func TestCursor_WithKeySkipsHeldItems(t *testing.T) {
	ctx := context.Background()
	source := &pagedSource{
		data:    []int{3, 2, 1},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	cursor := NewCursor[int](source, 10).WithKey(strconv.Itoa)

	done := make(chan error, 1)
	go func() { done <- cursor.Start(ctx) }()
	<-source.entered

	// A live item that the first page also carries.
	cursor.Prepend(3)
	close(source.block)
	require.NoError(t, <-done)

	assert.Equal(t, []int{3, 2, 1}, cursor.Items())

	cursor.Prepend(2, 4)
	assert.Equal(t, []int{4, 3, 2, 1}, cursor.Items())
}

type fakeObserver struct {
	threshold    float64
	fn           func(bool)
	disconnected bool
}

func (o *fakeObserver) Observe(threshold float64, fn func(bool)) {
	o.threshold = threshold
	o.fn = fn
}

func (o *fakeObserver) Disconnect() { o.disconnected = true }

type fakeTarget struct {
	status Status
	loads  int
	err    error
}

func (f *fakeTarget) Status() Status { return f.status }

func (f *fakeTarget) LoadMore(context.Context) error {
	f.loads++
	return f.err
}

func TestSentinel_LoadsOnlyWhenCanLoadMore(t *testing.T) {
	for _, status := range []Status{LoadingFirstPage, LoadingMore, Exhausted} {
		t.Run(status.String(), func(t *testing.T) {
			target := &fakeTarget{status: status}
			observer := &fakeObserver{}
			sentinel := NewSentinel(target, observer)

			sentinel.Mount(context.Background())
			observer.fn(true)
			assert.Zero(t, target.loads)
		})
	}
}

func TestSentinel_Lifecycle(t *testing.T) {
	target := &fakeTarget{status: CanLoadMore, err: errors.New("boom")}
	observer := &fakeObserver{}
	sentinel := NewSentinel(target, observer)

	var reported error
	sentinel.OnError(func(err error) { reported = err })
	sentinel.Mount(context.Background())
	assert.Equal(t, FullyVisible, observer.threshold)

	observer.fn(false)
	assert.Zero(t, target.loads)

	observer.fn(true)
	assert.Equal(t, 1, target.loads)
	assert.EqualError(t, reported, "boom")

	sentinel.Unmount()
	assert.True(t, observer.disconnected)

	observer.fn(true)
	assert.Equal(t, 1, target.loads, "no loads after unmount")
}
