// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingWorker counts runs and blocks until its context is cancelled.
type blockingWorker struct {
	started atomic.Int32
	stopped atomic.Int32
}

func (b *blockingWorker) Run(ctx context.Context) error {
	b.started.Add(1)
	<-ctx.Done()
	b.stopped.Add(1)
	return nil
}

func TestWorkers_StartStop(t *testing.T) {
	w1, w2 := &blockingWorker{}, &blockingWorker{}
	ws := NewWorkers(logger.Nop(), w1, w2)

	ws.Start(context.Background())
	require.Eventually(t, func() bool {
		return w1.started.Load() == 1 && w2.started.Load() == 1
	}, time.Second, 5*time.Millisecond)

	ws.Stop()
	assert.Equal(t, int32(1), w1.stopped.Load())
	assert.Equal(t, int32(1), w2.stopped.Load())
}

func TestWorkers_StopWithoutStart(t *testing.T) {
	ws := NewWorkers(logger.Nop())

	// Should not panic or block when nothing runs
	ws.Stop()
}

func TestWorkers_RestartStopsPrevious(t *testing.T) {
	w := &blockingWorker{}
	ws := NewWorkers(logger.Nop(), w)

	ws.Start(context.Background())
	ws.Start(context.Background())
	require.Eventually(t, func() bool { return w.started.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), w.stopped.Load())

	ws.Stop()
	assert.Equal(t, int32(2), w.stopped.Load())
}

func TestWorkers_ErrorDoesNotStopOthers(t *testing.T) {
	failing := WorkerFunc(func(context.Context) error { return errors.New("boom") })
	w := &blockingWorker{}
	ws := NewWorkers(logger.Nop(), failing, w)

	ws.Start(context.Background())
	require.Eventually(t, func() bool { return w.started.Load() == 1 }, time.Second, 5*time.Millisecond)
	ws.Stop()
	assert.Equal(t, int32(1), w.stopped.Load())
}
