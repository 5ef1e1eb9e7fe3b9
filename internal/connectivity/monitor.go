// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package connectivity follows device reachability and switches the remote
// store's network on and off to match it.
package connectivity

import (
	"context"
	"sync"

	"github.com/TechWithTyler/randofacto/internal/adapter"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/utils"
)

// NetworkSwitch is the part of the remote store the monitor drives.
type NetworkSwitch interface {
	EnableNetwork(ctx context.Context) error
	DisableNetwork(ctx context.Context) error
}

// ErrorReporter receives toggle failures.
type ErrorReporter interface {
	Report(ctx context.Context, err error) error
}

// Monitor is a two-state machine driven by a [adapter.ConnectivitySource].
//
// Observations are applied one at a time on the goroutine running Run. When
// several arrive while a toggle is in progress only the newest is applied,
// and an observation equal to the current state does nothing. A failed
// toggle is reported; the state still follows the observation.
type Monitor struct {
	source   adapter.ConnectivitySource
	network  NetworkSwitch
	reporter ErrorReporter
	logger   *logger.Logger

	state *utils.Observable[bool]

	mu      sync.Mutex
	settled bool
}

// NewMonitor returns a monitor in the offline state. Nothing is observed
// until Run is called.
func NewMonitor(source adapter.ConnectivitySource, network NetworkSwitch, reporter ErrorReporter, log *logger.Logger) *Monitor {
	return &Monitor{
		source:   source,
		network:  network,
		reporter: reporter,
		logger:   log.Component("connectivity_monitor"),
		state:    utils.NewObservable(false, func(a, b bool) bool { return a == b }),
	}
}

// Online reports the last applied observation.
func (m *Monitor) Online() bool {
	return m.state.Get()
}

// Subscribe registers fn for state changes. fn is called on the monitor
// goroutine and must not block.
func (m *Monitor) Subscribe(fn func(online bool)) (cancel func()) {
	return m.state.Subscribe(fn)
}

// Run implements workers.Worker. It returns when ctx is done or the source
// closes its channel.
func (m *Monitor) Run(ctx context.Context) error {
	updates := m.source.Watch(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case online, ok := <-updates:
			if !ok {
				return nil
			}
			online, ok = latest(updates, online)
			m.apply(ctx, online)
			if !ok {
				return nil
			}
		}
	}
}

// latest drains whatever is already buffered in updates and returns the
// newest value. ok is false when the channel was found closed.
func latest(updates <-chan bool, current bool) (value bool, ok bool) {
	for {
		select {
		case v, open := <-updates:
			if !open {
				return current, false
			}
			current = v
		default:
			return current, true
		}
	}
}

func (m *Monitor) apply(ctx context.Context, online bool) {
	m.mu.Lock()
	if m.settled && m.state.Get() == online {
		m.mu.Unlock()
		return
	}
	m.settled = true
	m.mu.Unlock()

	var err error
	if online {
		m.logger.Info().Msg("network reachable, enabling remote store")
		err = m.network.EnableNetwork(ctx)
	} else {
		m.logger.Info().Msg("network unreachable, disabling remote store")
		err = m.network.DisableNetwork(ctx)
	}
	if err != nil {
		_ = m.reporter.Report(ctx, err)
	}

	m.state.Set(online)
}
