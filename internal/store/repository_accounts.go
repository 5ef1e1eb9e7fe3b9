// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/models"
)

const (
	accountsTable       = "accounts"
	passwordResetsTable = "password_resets"
)

// AccountRepository persists the accounts of the identity backend.
type AccountRepository interface {
	Create(ctx context.Context, account models.StoredAccount) error
	FindByEmail(ctx context.Context, email string) (models.StoredAccount, error)
	FindByID(ctx context.Context, id string) (models.StoredAccount, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	RecordPasswordReset(ctx context.Context, id, email string, requestedAt time.Time) error
}

type accountRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewAccountRepository constructs an [AccountRepository] backed by db.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts account. A duplicate e-mail yields [ErrEmailAlreadyExists].
func (r *accountRepository) Create(ctx context.Context, account models.StoredAccount) error {
	query, args, err := r.db.builder().
		Insert(accountsTable).
		Columns("id", "email", "password_hash", "created_at").
		Values(account.ID, account.Email, account.PasswordHash, account.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "*accountRepository.Create").Msg("error inserting account")

		if r.db.errorClassificator.Classify(err) == AlreadyExists {
			return ErrEmailAlreadyExists
		}
		return r.db.classify("create account", err)
	}

	return nil
}

// FindByEmail returns the account registered with email or
// [ErrNoAccountWasFound].
func (r *accountRepository) FindByEmail(ctx context.Context, email string) (models.StoredAccount, error) {
	return r.findOne(ctx, sq.Eq{"email": email})
}

// FindByID returns the account with id or [ErrNoAccountWasFound].
func (r *accountRepository) FindByID(ctx context.Context, id string) (models.StoredAccount, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *accountRepository) findOne(ctx context.Context, where sq.Eq) (models.StoredAccount, error) {
	query, args, err := r.db.builder().
		Select("id", "email", "password_hash", "created_at").
		From(accountsTable).
		Where(where).
		ToSql()
	if err != nil {
		return models.StoredAccount{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var account models.StoredAccount
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredAccount{}, ErrNoAccountWasFound
	}
	if err != nil {
		r.logger.Err(err).Str("func", "*accountRepository.findOne").Msg("error querying account")
		return models.StoredAccount{}, r.db.classify("find account", err)
	}

	return account, nil
}

// UpdatePasswordHash replaces the password hash of account id.
func (r *accountRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	query, args, err := r.db.builder().
		Update(accountsTable).
		Set("password_hash", passwordHash).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*accountRepository.UpdatePasswordHash").Msg("error updating account")
		return r.db.classify("update account", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoAccountWasFound
	}

	return nil
}

// Delete removes account id. A missing account yields [ErrNoAccountWasFound].
func (r *accountRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.db.builder().
		Delete(accountsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*accountRepository.Delete").Msg("error deleting account")
		return r.db.classify("delete account", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoAccountWasFound
	}

	return nil
}

// RecordPasswordReset stores a password reset request. Delivery of the
// reset mail is outside this store.
func (r *accountRepository) RecordPasswordReset(ctx context.Context, id, email string, requestedAt time.Time) error {
	query, args, err := r.db.builder().
		Insert(passwordResetsTable).
		Columns("id", "email", "requested_at").
		Values(id, email, requestedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "*accountRepository.RecordPasswordReset").Msg("error recording password reset")
		return r.db.classify("record password reset", err)
	}

	return nil
}
