// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/TechWithTyler/randofacto/internal/logger"
)

const settingsTable = "settings"

// SettingsRepository is the device-local key-value store. It implements
// adapter.SettingsStore and keeps the persisted session.
type SettingsRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewSettingsRepository(db *DB, logger *logger.Logger) *SettingsRepository {
	logger.Debug().Msg("creating settings repository")
	return &SettingsRepository{db: db, logger: logger}
}

// String returns the value of key and whether it is set.
func (r *SettingsRepository) String(ctx context.Context, key string) (string, bool, error) {
	query, args, err := r.db.builder().
		Select("value").
		From(settingsTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Err(err).Str("func", "*SettingsRepository.String").Str("key", key).Msg("error reading setting")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

// SetString stores value under key.
func (r *SettingsRepository) SetString(ctx context.Context, key, value string) error {
	query, args, err := r.db.builder().
		Insert(settingsTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "*SettingsRepository.SetString").Str("key", key).Msg("error writing setting")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Bool returns the boolean stored under key; an unset key reads as false.
func (r *SettingsRepository) Bool(ctx context.Context, key string) (bool, error) {
	raw, ok, err := r.String(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("setting %q is not a boolean: %w", key, err)
	}
	return value, nil
}

// SetBool stores value under key.
func (r *SettingsRepository) SetBool(ctx context.Context, key string, value bool) error {
	return r.SetString(ctx, key, strconv.FormatBool(value))
}

// Delete removes key. Removing a missing key succeeds.
func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	query, args, err := r.db.builder().
		Delete(settingsTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "*SettingsRepository.Delete").Str("key", key).Msg("error deleting setting")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
