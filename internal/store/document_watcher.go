// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"

	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
)

// DocumentWatcher polls the server tier on a ticker so that listeners see
// changes made by other devices.
type DocumentWatcher struct {
	store    *DocumentStore
	interval time.Duration
	logger   *logger.Logger
}

// NewDocumentWatcher creates a watcher for store. The watcher is idle until
// Run is called. If the interval is zero or negative it defaults to 5 seconds.
func NewDocumentWatcher(store *DocumentStore, cfg config.Workers, log *logger.Logger) *DocumentWatcher {
	interval := cfg.WatchInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &DocumentWatcher{
		store:    store,
		interval: interval,
		logger:   log.Component("document_watcher"),
	}
}

// Run implements workers.Worker. It refreshes every listener each interval
// until ctx is cancelled.
func (w *DocumentWatcher) Run(ctx context.Context) error {
	w.logger.Debug().Dur("interval", w.interval).Msg("document watcher started")

	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Msg("document watcher stopped")
			return nil
		case <-t.C:
			w.store.Refresh()
		}
	}
}
