package mutation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func double(_ context.Context, n int) (int, error) { return n * 2, nil }

func TestMutate_Success(t *testing.T) {
	m := New(double)
	assert.Equal(t, Idle, m.Status())

	var order []string
	resp, err := m.Mutate(context.Background(), 21, Options[int]{
		OnSuccess: func(v int) {
			assert.Equal(t, Success, m.Status())
			order = append(order, "success")
		},
		OnError:   func(error) { order = append(order, "error") },
		OnSettled: func() { order = append(order, "settled") },
	})

	require.NoError(t, err)
	assert.Equal(t, 42, resp)
	assert.Equal(t, 42, m.Data())
	assert.Equal(t, []string{"success", "settled"}, order)
	assert.True(t, m.IsSettled())
	assert.True(t, m.IsSuccess())
	assert.False(t, m.IsError())
}

func TestMutate_ErrorContract(t *testing.T) {
	fault := errors.New("remote rejected")
	failing := func(context.Context, string) (string, error) { return "", fault }

	t.Run("swallowed without ThrowOnError", func(t *testing.T) {
		m := New(failing)
		var got error
		settled := false

		_, err := m.Mutate(context.Background(), "x", Options[string]{
			OnError:   func(err error) { got = err },
			OnSettled: func() { settled = true },
		})

		assert.NoError(t, err)
		assert.Same(t, fault, got)
		assert.True(t, settled)
		assert.True(t, m.IsError())
		assert.Same(t, fault, m.Err())
	})

	t.Run("returned with ThrowOnError", func(t *testing.T) {
		m := New(failing)
		var got error

		_, err := m.Mutate(context.Background(), "x", Options[string]{
			OnError:      func(err error) { got = err },
			ThrowOnError: true,
		})

		assert.Same(t, fault, err)
		assert.Same(t, fault, got)
	})
}

func TestMutate_RejectsConcurrentCall(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	m := New(func(_ context.Context, n int) (int, error) {
		close(entered)
		<-release
		return n, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := m.Mutate(context.Background(), 1, Options[int]{ThrowOnError: true})
		done <- err
	}()
	<-entered
	assert.True(t, m.IsPending())

	var rejected error
	_, err := m.Mutate(context.Background(), 2, Options[int]{
		OnError:      func(err error) { rejected = err },
		ThrowOnError: true,
	})
	assert.ErrorIs(t, err, ErrInFlight)
	assert.ErrorIs(t, rejected, ErrInFlight)
	assert.True(t, m.IsPending(), "rejection leaves the running call untouched")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, m.Data())
}

func TestMutate_ResetsBetweenCalls(t *testing.T) {
	calls := 0
	m := New(func(_ context.Context, n int) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("first fails")
		}
		return n, nil
	})

	_, _ = m.Mutate(context.Background(), 1, Options[int]{})
	assert.True(t, m.IsError())

	_, err := m.Mutate(context.Background(), 7, Options[int]{})
	require.NoError(t, err)
	assert.Nil(t, m.Err())
	assert.True(t, m.IsSuccess())
	assert.Equal(t, 7, m.Data())
}
