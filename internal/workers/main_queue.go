// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"

	"github.com/TechWithTyler/randofacto/internal/logger"
)

// MainQueue is a serial executor. Tasks run one at a time, in dispatch
// order, on the goroutine executing Run.
//
// Listener callbacks from the document store and the connectivity source are
// dispatched here before they touch shared state. A task must never call
// Flush: it would wait for itself.
type MainQueue struct {
	logger *logger.Logger

	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

// NewMainQueue returns an empty queue. Tasks queue up until Run is called.
func NewMainQueue(log *logger.Logger) *MainQueue {
	return &MainQueue{
		logger: log,
		wake:   make(chan struct{}, 1),
	}
}

// Dispatch appends fn to the queue. It never blocks.
func (q *MainQueue) Dispatch(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Run executes queued tasks until ctx is cancelled. Tasks still pending at
// that point are dropped.
func (q *MainQueue) Run(ctx context.Context) error {
	for {
		q.mu.Lock()
		batch := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		for _, task := range batch {
			if ctx.Err() != nil {
				return nil
			}
			q.execute(task)
		}

		if len(batch) > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-q.wake:
		}
	}
}

// Flush blocks until every task dispatched before the call has run, or ctx
// is done.
func (q *MainQueue) Flush(ctx context.Context) error {
	done := make(chan struct{})
	q.Dispatch(func() { close(done) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MainQueue) execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().Interface("panic", r).Msg("main queue task panicked")
		}
	}()
	task()
}
