// Package mutation tracks the lifecycle of a single remote write.
package mutation

import (
	"context"
	"errors"
	"sync"
)

// Status of a mutation. Settled is reached after Success or Error and its callbacks.
type Status int

const (
	Idle Status = iota
	Pending
	Success
	Error
	Settled
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Error:
		return "error"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// ErrInFlight is reported when Mutate is called while a previous call is pending.
var ErrInFlight = errors.New("mutation already in flight")

// Options are per-call callbacks. OnSettled always runs last.
type Options[Resp any] struct {
	OnSuccess    func(Resp)
	OnError      func(error)
	OnSettled    func()
	ThrowOnError bool
}

// Mutation wraps a remote call with status bookkeeping.
type Mutation[Req, Resp any] struct {
	fn func(ctx context.Context, req Req) (Resp, error)

	mu      sync.Mutex
	status  Status
	data    Resp
	err     error
	outcome Status
}

func New[Req, Resp any](fn func(ctx context.Context, req Req) (Resp, error)) *Mutation[Req, Resp] {
	return &Mutation[Req, Resp]{fn: fn}
}

// Mutate runs the call. Without ThrowOnError failures are delivered only through
// OnError and the returned error is nil; with it the original error is returned as well.
func (m *Mutation[Req, Resp]) Mutate(ctx context.Context, req Req, opts Options[Resp]) (Resp, error) {
	var zero Resp

	m.mu.Lock()
	if m.status == Pending {
		m.mu.Unlock()
		return zero, m.fail(ErrInFlight, opts, false)
	}
	m.status = Pending
	m.outcome = Pending
	m.data = zero
	m.err = nil
	m.mu.Unlock()

	resp, err := m.fn(ctx, req)
	if err != nil {
		return zero, m.fail(err, opts, true)
	}

	m.mu.Lock()
	m.status = Success
	m.outcome = Success
	m.data = resp
	m.mu.Unlock()

	if opts.OnSuccess != nil {
		opts.OnSuccess(resp)
	}
	m.settle(opts, true)
	return resp, nil
}

// fail records err when record is set, runs the error callbacks and applies the throw policy.
func (m *Mutation[Req, Resp]) fail(err error, opts Options[Resp], record bool) error {
	if record {
		m.mu.Lock()
		m.status = Error
		m.outcome = Error
		m.err = err
		m.mu.Unlock()
	}

	if opts.OnError != nil {
		opts.OnError(err)
	}
	m.settle(opts, record)

	if opts.ThrowOnError {
		return err
	}
	return nil
}

func (m *Mutation[Req, Resp]) settle(opts Options[Resp], record bool) {
	if record {
		m.mu.Lock()
		m.status = Settled
		m.mu.Unlock()
	}
	if opts.OnSettled != nil {
		opts.OnSettled()
	}
}

func (m *Mutation[Req, Resp]) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Data is the last successful response.
func (m *Mutation[Req, Resp]) Data() Resp {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// Err is the last failure.
func (m *Mutation[Req, Resp]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *Mutation[Req, Resp]) IsPending() bool { return m.Status() == Pending }

// IsSuccess reports whether the last completed call succeeded.
func (m *Mutation[Req, Resp]) IsSuccess() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome == Success
}

// IsError reports whether the last completed call failed.
func (m *Mutation[Req, Resp]) IsError() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome == Error
}

func (m *Mutation[Req, Resp]) IsSettled() bool { return m.Status() == Settled }
