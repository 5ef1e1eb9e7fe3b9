// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/TechWithTyler/randofacto/internal/service"
	"github.com/TechWithTyler/randofacto/models"
)

//go:generate mockgen -source=interfaces.go -destination=../cli/client_mock_test.go -package=cli

// Client is the surface the command tree drives. Every method that fails
// returns an error already classified by the reporting sink.
type Client interface {
	// Start launches the background workers and resumes a persisted session.
	Start(ctx context.Context) error
	// Settle waits for connectivity and the first snapshots to arrive.
	Settle(ctx context.Context) error
	// Close stops the workers and closes the storages.
	Close() error

	// InitialFact resolves the fact shown at launch.
	InitialFact(ctx context.Context) (service.DisplayedFact, error)
	// GenerateFact fetches a new fact.
	GenerateFact(ctx context.Context) (service.DisplayedFact, error)
	// State returns the combined client state.
	State() service.State

	Signup(ctx context.Context, email, password string) (models.Account, error)
	Login(ctx context.Context, email, password string) (models.Account, error)
	Logout(ctx context.Context) error
	CurrentAccount() (models.Account, bool)

	Favorites(ctx context.Context) ([]models.FavoriteFact, error)
	AddFavorite(ctx context.Context, text string) error
	RemoveFavorite(ctx context.Context, text string) error
	ClearFavorites(ctx context.Context) error

	DeleteAccount(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, newPassword string) error

	SetFavoritesOnLaunch(ctx context.Context, enabled bool) error
	FavoritesOnLaunch(ctx context.Context) (bool, error)
}
