// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TechWithTyler/randofacto/internal/adapter"
	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/service"
	"github.com/TechWithTyler/randofacto/internal/store"
	"github.com/TechWithTyler/randofacto/internal/workers"
	"github.com/TechWithTyler/randofacto/models"
)

// ErrNotSignedIn is returned by operations that need an account.
var ErrNotSignedIn = errors.New("not signed in")

// App is the [Client] backed by the real storages and adapters.
type App struct {
	cfg      *config.StructuredConfig
	logger   *logger.Logger
	storages *store.ClientStorages
	services *service.ClientServices
}

// NewApp opens the storages and wires the services. Nothing runs until
// Start.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create client storages: %w", err)
	}

	services := service.NewClientServices(service.ClientDependencies{
		Store:        storages.Documents,
		Identity:     storages.Identity,
		Settings:     storages.Settings,
		Facts:        adapter.NewHTTPFactProvider(cfg.App, cfg.Adapter, log),
		Connectivity: adapter.NewTCPProbe(cfg.Adapter, log),
		Background:   []workers.Worker{storages.Watcher},
	}, cfg, log)

	return &App{cfg: cfg, logger: log, storages: storages, services: services}, nil
}

// Start implements [Client].
func (a *App) Start(ctx context.Context) error {
	a.services.Start(ctx)

	account, ok := a.storages.Identity.Restore(ctx)
	if !ok {
		a.logger.Debug().Msg("no persisted session")
		return nil
	}
	a.logger.Info().Str("account", account.ID).Msg("resuming session")

	if _, _, err := a.services.Identity.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	return nil
}

// Settle implements [Client].
func (a *App) Settle(ctx context.Context) error {
	if d := a.cfg.App.SettleDelay; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return a.services.Queue.Flush(ctx)
}

// Close implements [Client].
func (a *App) Close() error {
	a.services.Stop()
	return a.storages.Close()
}

// InitialFact implements [Client].
func (a *App) InitialFact(ctx context.Context) (service.DisplayedFact, error) {
	if err := a.services.Session.Start(ctx); err != nil {
		return a.services.Session.DisplayedFact(), err
	}
	return a.services.Session.DisplayedFact(), nil
}

// GenerateFact implements [Client].
func (a *App) GenerateFact(ctx context.Context) (service.DisplayedFact, error) {
	err := a.services.Session.GenerateFact(ctx)
	return a.services.Session.DisplayedFact(), err
}

// State implements [Client].
func (a *App) State() service.State {
	return a.services.Session.State()
}

// Signup implements [Client].
func (a *App) Signup(ctx context.Context, email, password string) (models.Account, error) {
	return a.services.Identity.Signup(ctx, email, password)
}

// Login implements [Client].
func (a *App) Login(ctx context.Context, email, password string) (models.Account, error) {
	return a.services.Identity.Login(ctx, email, password)
}

// Logout implements [Client].
func (a *App) Logout(ctx context.Context) error {
	return a.services.Identity.Logout(ctx)
}

// CurrentAccount implements [Client].
func (a *App) CurrentAccount() (models.Account, bool) {
	return a.services.Identity.CurrentAccount()
}

// Favorites implements [Client]. It waits for the favorites listener to
// settle first.
func (a *App) Favorites(ctx context.Context) ([]models.FavoriteFact, error) {
	if err := a.requireAccount(); err != nil {
		return nil, err
	}
	if err := a.Settle(ctx); err != nil {
		return nil, err
	}
	return a.services.Favorites.Favorites(), nil
}

// AddFavorite implements [Client].
func (a *App) AddFavorite(ctx context.Context, text string) error {
	if err := a.requireAccount(); err != nil {
		return err
	}
	if err := a.Settle(ctx); err != nil {
		return err
	}
	return a.services.Favorites.Save(ctx, text)
}

// RemoveFavorite implements [Client].
func (a *App) RemoveFavorite(ctx context.Context, text string) error {
	if err := a.requireAccount(); err != nil {
		return err
	}
	return a.services.Favorites.Unfavorite(ctx, text)
}

// ClearFavorites implements [Client]. The favorites are listed from the
// cache, so the listener is given time to fill it.
func (a *App) ClearFavorites(ctx context.Context) error {
	if err := a.requireAccount(); err != nil {
		return err
	}
	if err := a.Settle(ctx); err != nil {
		return err
	}
	return a.services.Favorites.DeleteAllForCurrentUser(ctx, false)
}

// DeleteAccount implements [Client].
func (a *App) DeleteAccount(ctx context.Context) error {
	if err := a.requireAccount(); err != nil {
		return err
	}
	return a.services.Identity.DeleteCurrentUser(ctx)
}

// SendPasswordReset implements [Client].
func (a *App) SendPasswordReset(ctx context.Context, email string) error {
	return a.services.Identity.SendPasswordReset(ctx, email)
}

// ChangePassword implements [Client]. A stale session ends it; the caller
// sees the session-stale error.
func (a *App) ChangePassword(ctx context.Context, newPassword string) error {
	if err := a.requireAccount(); err != nil {
		return err
	}

	err := a.services.Identity.UpdatePassword(ctx, newPassword)
	if errors.Is(err, app.ErrSessionStale) {
		// the forced logout is queued by the reporting sink
		if flushErr := a.services.Queue.Flush(ctx); flushErr != nil {
			a.logger.Err(flushErr).Msg("error waiting for forced logout")
		}
	}
	return err
}

// SetFavoritesOnLaunch implements [Client].
func (a *App) SetFavoritesOnLaunch(ctx context.Context, enabled bool) error {
	return a.services.Session.SetFavoritesOnLaunch(ctx, enabled)
}

// FavoritesOnLaunch implements [Client].
func (a *App) FavoritesOnLaunch(ctx context.Context) (bool, error) {
	return a.services.Session.FavoritesOnLaunch(ctx)
}

func (a *App) requireAccount() error {
	if _, ok := a.services.Identity.CurrentAccount(); !ok {
		return ErrNotSignedIn
	}
	return nil
}
