// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"net"
	"time"

	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
)

// DialFunc opens a connection. It matches (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type tcpProbe struct {
	address  string
	interval time.Duration
	timeout  time.Duration
	dial     DialFunc

	logger *logger.Logger
}

// NewTCPProbe returns a [ConnectivitySource] that decides reachability by
// dialing cfg.ProbeAddress every cfg.ProbeInterval.
func NewTCPProbe(cfg config.Adapter, log *logger.Logger) ConnectivitySource {
	return newTCPProbe(cfg, (&net.Dialer{}).DialContext, log)
}

func newTCPProbe(cfg config.Adapter, dial DialFunc, log *logger.Logger) *tcpProbe {
	return &tcpProbe{
		address:  cfg.ProbeAddress,
		interval: cfg.ProbeInterval,
		timeout:  cfg.ProbeTimeout,
		dial:     dial,
		logger:   log.Component("connectivity_probe"),
	}
}

// Watch implements [ConnectivitySource]. The first probe result is always
// sent; after that only changes are. The channel holds at most one pending
// observation, and a newer one replaces it.
func (p *tcpProbe) Watch(ctx context.Context) <-chan bool {
	out := make(chan bool, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var last, sent bool
		for {
			online := p.probe(ctx)
			if ctx.Err() != nil {
				return
			}
			if !sent || online != last {
				p.logger.Debug().Bool("online", online).Msg("reachability changed")
				push(out, online)
				last, sent = online, true
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

func (p *tcpProbe) probe(ctx context.Context) bool {
	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(dialCtx, "tcp", p.address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// push replaces a pending unread value with v.
func push(out chan bool, v bool) {
	for {
		select {
		case out <- v:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
