// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations holds the embedded schema migrations of the remote
// document database and of the local settings database.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

// Set names a directory of migrations.
type Set string

const (
	// Remote is the shared schema: documents, accounts, password resets.
	Remote Set = "remote"
	// Local is the device schema: settings and the persisted session.
	Local Set = "local"
)

//go:embed remote/*.sql local/*.sql
var embedMigrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration of set to db. dialect is the
// database/sql driver name ("sqlite3" or "pgx").
func Migrate(db *sql.DB, dialect string, set Set) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, string(set)); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
