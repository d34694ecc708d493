// Package task runs blocking work on a shared worker pool and hands the result
// back through a Task that the caller can wait on.
//
// Cancellation is cooperative. The context given to Submit is checked right
// before the work starts and again before the result is delivered. A task
// still waiting for a worker settles as soon as its context is done. Work that
// has already started is never interrupted; if the context is cancelled while
// it runs, its result is dropped and the task ends up Cancelled.
package task

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrCancelled is returned by Wait when the task's context was cancelled
// before the work started or before its result was delivered.
var ErrCancelled = errors.New("task cancelled")

// State is a task's position in its lifecycle.
type State int32

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Terminal reports whether s is Completed, Failed or Cancelled.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// Task is one unit of submitted work. It settles exactly once.
type Task[T any] struct {
	id    string
	ctx   context.Context
	fn    func() (T, error)
	state atomic.Int32
	done  chan struct{}

	// written once before done is closed
	value T
	err   error
}

func newTask[T any](ctx context.Context, fn func() (T, error)) *Task[T] {
	return &Task[T]{
		id:   uuid.NewString(),
		ctx:  ctx,
		fn:   fn,
		done: make(chan struct{}),
	}
}

// ID returns the task's unique identifier.
func (t *Task[T]) ID() string {
	return t.id
}

// State returns the task's current state.
func (t *Task[T]) State() State {
	return State(t.state.Load())
}

// Done is closed once the task has settled.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task settles and returns its value or error. A failed
// task returns the work's error unchanged; a cancelled one returns ErrCancelled.
func (t *Task[T]) Wait() (T, error) {
	<-t.done
	return t.value, t.err
}

// run executes the work on the current goroutine. It is what the pool worker
// calls.
func (t *Task[T]) run() {
	if t.ctx.Err() != nil {
		t.cancelPending()
		return
	}
	if !t.state.CompareAndSwap(int32(StatePending), int32(StateRunning)) {
		// cancelled while queued
		return
	}

	value, err := t.call()

	// Deliver only if nobody gave up on the result while it was computing.
	if t.ctx.Err() != nil {
		t.settle(StateRunning, StateCancelled, *new(T), ErrCancelled)
		return
	}
	if err != nil {
		t.settle(StateRunning, StateFailed, *new(T), err)
		return
	}
	t.settle(StateRunning, StateCompleted, value, nil)
}

func (t *Task[T]) call() (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", t.id, r)
		}
	}()
	return t.fn()
}

// cancelPending settles a task that no worker has picked up yet. It reports
// false if the task already left Pending.
func (t *Task[T]) cancelPending() bool {
	return t.settle(StatePending, StateCancelled, *new(T), ErrCancelled)
}

// settle moves the task from one state to a terminal one and wakes waiters.
// Only the caller whose transition succeeds writes the result.
func (t *Task[T]) settle(from, to State, value T, err error) bool {
	if !t.state.CompareAndSwap(int32(from), int32(to)) {
		return false
	}
	t.value = value
	t.err = err
	close(t.done)
	return true
}
