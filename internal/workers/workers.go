// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"

	"github.com/TechWithTyler/randofacto/internal/logger"
)

// Workers runs a fixed set of workers in the background.
type Workers struct {
	workers []Worker
	logger  *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorkers returns an idle aggregate of workers. Nothing runs until Start.
func NewWorkers(log *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: log}
}

// Start stops any previous run, then launches every worker on its own
// goroutine. Workers exit when ctx is cancelled or Stop is called. A worker
// error is logged and does not affect the others.
func (w *Workers) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(len(w.workers))
	w.mu.Unlock()

	for _, worker := range w.workers {
		go func(worker Worker) {
			defer w.wg.Done()
			if err := worker.Run(runCtx); err != nil {
				w.logger.Err(err).Msg("worker stopped with error")
			}
		}(worker)
	}
}

// Stop cancels the running workers and blocks until all of them have
// returned. Safe to call when nothing is running.
func (w *Workers) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
