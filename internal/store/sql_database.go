// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements the persistence side of RandoFacto: the remote
// document store with its local cache tier, the identity backend, and the
// device-local settings store.
package store

import (
	"database/sql"
	"fmt"
	"regexp"

	sq "github.com/Masterminds/squirrel"

	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/migrations"
)

// DB is a database handle together with its dialect and the classifier
// for its driver errors.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func (db *DB) Migrate(set migrations.Set) error {
	return migrations.Migrate(db.DB, db.dialect, set)
}

// builder returns a squirrel statement builder using the placeholder style
// of the dialect.
func (db *DB) builder() sq.StatementBuilderType {
	if db.dialect == config.DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// fieldExpr returns the SQL expression reading a top-level string field of
// the JSON fields column.
func (db *DB) fieldExpr(field string) (string, error) {
	if !fieldNamePattern.MatchString(field) {
		return "", fmt.Errorf("%w: invalid field name %q", ErrBuildingSQLQuery, field)
	}

	if db.dialect == config.DialectPostgres {
		return fmt.Sprintf("(fields::jsonb ->> '%s')", field), nil
	}
	return fmt.Sprintf("json_extract(fields, '$.%s')", field), nil
}

// classify wraps err into a coded store error.
func (db *DB) classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return storeError(op, db.errorClassificator.Classify(err), err)
}
