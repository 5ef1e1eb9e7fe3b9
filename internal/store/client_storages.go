// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/utils"
	"github.com/TechWithTyler/randofacto/migrations"
)

// ClientStorages groups every storage component of the client into a
// single value that can be passed to the service layer.
type ClientStorages struct {
	// Documents is the remote document store with its cache tier.
	Documents *DocumentStore

	// Watcher polls the server tier for the live listeners of Documents.
	Watcher *DocumentWatcher

	// Identity is the account backend.
	Identity *IdentityProvider

	// Settings is the device-local settings store.
	Settings *SettingsRepository

	remote *DB
	local  *DB
}

// NewClientStorages initialises the client storage layer. It performs the
// following steps:
//  1. Opens the remote database named by cfg.Storage.RemoteDSN (PostgreSQL
//     or SQLite) and applies the remote migrations.
//  2. Opens the local SQLite settings database and applies the local
//     migrations.
//  3. Wires the document store, its watcher, the identity provider and the
//     settings repository.
//
// Returns an error if a connection cannot be established or a migration fails.
func NewClientStorages(ctx context.Context, cfg *config.StructuredConfig, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	remote, err := NewConnect(ctx, cfg.Storage.RemoteDialect(), cfg.Storage.RemoteDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("remote database connection error: %w", err)
	}
	if err := remote.Migrate(migrations.Remote); err != nil {
		_ = remote.Close()
		return nil, fmt.Errorf("remote migration failed: %w", err)
	}

	local, err := NewConnectSQLite(ctx, cfg.Storage.LocalDSN, logger)
	if err != nil {
		_ = remote.Close()
		return nil, fmt.Errorf("local database connection error: %w", err)
	}
	if err := local.Migrate(migrations.Local); err != nil {
		_ = remote.Close()
		_ = local.Close()
		return nil, fmt.Errorf("local migration failed: %w", err)
	}

	ids := utils.NewUUIDGenerator()
	settings := NewSettingsRepository(local, logger)
	documents := NewDocumentStore(NewDocumentRepository(remote, logger), ids, logger)

	return &ClientStorages{
		Documents: documents,
		Watcher:   NewDocumentWatcher(documents, cfg.Workers, logger),
		Identity:  NewIdentityProvider(NewAccountRepository(remote, logger), settings, ids, cfg.Auth, logger),
		Settings:  settings,
		remote:    remote,
		local:     local,
	}, nil
}

// Close removes every listener and closes both databases.
func (s *ClientStorages) Close() error {
	s.Documents.Close()
	return errors.Join(s.remote.Close(), s.local.Close())
}
