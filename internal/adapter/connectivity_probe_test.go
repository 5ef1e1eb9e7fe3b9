// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProbeConfig = config.Adapter{
	ProbeAddress:  "probe.invalid:443",
	ProbeInterval: 5 * time.Millisecond,
	ProbeTimeout:  time.Second,
}

// scriptedDial answers dials from a script of reachability results; the last
// entry repeats forever.
func scriptedDial(script ...bool) (DialFunc, *atomic.Int32) {
	var calls atomic.Int32
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		i := int(calls.Add(1)) - 1
		if i >= len(script) {
			i = len(script) - 1
		}
		if !script[i] {
			return nil, errors.New("unreachable")
		}
		client, server := net.Pipe()
		_ = server.Close()
		return client, nil
	}, &calls
}

func receive(t *testing.T, ch <-chan bool) bool {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("no observation received")
		return false
	}
}

func TestTCPProbe_PushesOnlyChanges(t *testing.T) {
	cfg := testProbeConfig
	cfg.ProbeInterval = 20 * time.Millisecond
	dial, calls := scriptedDial(true, true, true, false, false, true)
	probe := newTCPProbe(cfg, dial, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := probe.Watch(ctx)

	received := []bool{receive(t, ch), receive(t, ch), receive(t, ch)}

	assert.Equal(t, []bool{true, false, true}, received)
	assert.GreaterOrEqual(t, calls.Load(), int32(6))
}

func TestTCPProbe_ClosesOnCancel(t *testing.T) {
	dial, _ := scriptedDial(false)
	probe := newTCPProbe(testProbeConfig, dial, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	ch := probe.Watch(ctx)
	assert.False(t, receive(t, ch))
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestPush_ReplacesPendingValue(t *testing.T) {
	ch := make(chan bool, 1)
	push(ch, true)
	push(ch, false)

	assert.False(t, <-ch)
	select {
	case <-ch:
		t.Fatal("expected a single pending value")
	default:
	}
}
