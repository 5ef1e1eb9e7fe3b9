// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/TechWithTyler/randofacto/internal/adapter"
	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/connectivity"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/workers"
)

// ClientDependencies are the external collaborators of the client services.
type ClientDependencies struct {
	Store        adapter.RemoteStore
	Identity     adapter.IdentityProvider
	Settings     adapter.SettingsStore
	Facts        adapter.FactProvider
	Connectivity adapter.ConnectivitySource

	// Background workers started and stopped with the services, such as
	// the document watcher.
	Background []workers.Worker
}

// ClientServices groups the client components and their background workers.
type ClientServices struct {
	Queue     *workers.MainQueue
	Reporter  *Reporter
	Monitor   *connectivity.Monitor
	Favorites *Favorites
	Identity  *Identity
	Session   *Session

	workers *workers.Workers
}

// NewClientServices wires the components. Nothing runs until Start.
func NewClientServices(deps ClientDependencies, cfg *config.StructuredConfig, log *logger.Logger) *ClientServices {
	queue := workers.NewMainQueue(log.Component("main_queue"))
	reporter := NewReporter(log)
	monitor := connectivity.NewMonitor(deps.Connectivity, deps.Store, reporter, log)
	favorites := NewFavorites(deps.Store, deps.Identity, reporter, queue, monitor, cfg.Workers.DeleteConcurrency, log)
	identity := NewIdentity(deps.Identity, deps.Store, favorites, deps.Settings, reporter, queue, log)
	session := NewSession(deps.Facts, favorites, identity, monitor, deps.Settings, reporter, cfg.App.SettleDelay, log)

	background := append([]workers.Worker{queue, monitor}, deps.Background...)

	return &ClientServices{
		Queue:     queue,
		Reporter:  reporter,
		Monitor:   monitor,
		Favorites: favorites,
		Identity:  identity,
		Session:   session,
		workers:   workers.NewWorkers(log, background...),
	}
}

// Start launches the main queue, the connectivity monitor and the extra
// background workers.
func (s *ClientServices) Start(ctx context.Context) {
	s.workers.Start(ctx)
}

// Stop releases the listeners and stops every background worker.
func (s *ClientServices) Stop() {
	s.Favorites.Release()
	s.Identity.replaceRegistration()
	s.workers.Stop()
}
