package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

// Pool is a fixed-size set of background workers.
type Pool struct {
	pool *ants.Pool
	log  zerolog.Logger
}

// NewPool creates a pool with size workers.
func NewPool(size int, logger zerolog.Logger) (*Pool, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	return &Pool{pool: pool, log: logger}, nil
}

// Cap returns the number of workers.
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Running returns the number of workers currently busy.
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Release stops accepting work. Tasks still queued when the pool is released
// fail with the pool's closed error.
func (p *Pool) Release() {
	p.pool.Release()
}

// Submit queues fn on the pool and returns at once. ctx is the task's
// cancellation signal. A task cancelled while it waits for a worker settles
// right away; once fn has started, ctx is only looked at again before the
// result is delivered.
//
// Submit never blocks the caller: while every worker is busy the task stays
// Pending.
func Submit[T any](ctx context.Context, p *Pool, fn func() (T, error)) *Task[T] {
	t := newTask(ctx, fn)
	p.log.Debug().Str("task", t.id).Msg("task submitted")

	go func() {
		select {
		case <-ctx.Done():
			if t.cancelPending() {
				p.log.Debug().Str("task", t.id).Msg("task cancelled while queued")
			}
		case <-t.done:
		}
	}()

	go func() {
		err := p.pool.Submit(func() {
			t.run()
			p.log.Debug().Str("task", t.id).Str("state", t.State().String()).Msg("task settled")
		})
		if err != nil && t.settle(StatePending, StateFailed, *new(T), fmt.Errorf("failed to schedule task: %w", err)) {
			p.log.Warn().Err(err).Str("task", t.id).Msg("task rejected by pool")
		}
	}()

	return t
}
