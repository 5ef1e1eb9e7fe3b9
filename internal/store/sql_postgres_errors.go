// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification is the result type returned by
// [ErrorClassificator.Classify]. It groups driver errors by what they mean
// for the caller.
type ErrorClassification int

const (
	// Internal is the default classification for unrecognised errors,
	// syntax errors and data exceptions.
	Internal ErrorClassification = iota

	// Unavailable means the database could not be reached or refused the
	// connection. The operation may succeed later.
	Unavailable

	// ResourceExhausted means the database ran out of space, memory or
	// connections.
	ResourceExhausted

	// AlreadyExists means a uniqueness constraint rejected the write.
	AlreadyExists

	// Aborted means the transaction was rolled back by a conflict
	// (serialization failure, deadlock).
	Aborted
)

// ErrorClassificator maps driver errors of one dialect to an
// [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// PostgresErrorClassifier implements [ErrorClassificator] for PostgreSQL.
// It inspects the pgconn error code returned by the pgx driver.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier constructs a [PostgresErrorClassifier] ready for use.
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. It attempts to unwrap err as a
// *pgconn.PgError and delegates to [ClassifyPgError]. Connection-level
// failures that never reached the server are [Unavailable].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return Internal
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ClassifyPgError(pgErr)
	}

	if isConnectionError(err) {
		return Unavailable
	}

	return Internal
}

// ClassifyPgError maps a *pgconn.PgError to an [ErrorClassification] based on
// the PostgreSQL error code.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for the
// full list of PostgreSQL error codes.
//
//   - Class 08 (connection exceptions) and 57P01-57P03 → Unavailable
//   - Class 53 (insufficient resources) → ResourceExhausted
//   - 23505 unique violation → AlreadyExists
//   - 40001 serialization failure, 40P01 deadlock → Aborted
//
// Any code not listed above is classified as [Internal].
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch pgErr.Code {
	// Class 08 — connection exceptions
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.SQLClientUnableToEstablishSQLConnection,
		pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection:
		return Unavailable

	// Class 57 — operator intervention
	case pgerrcode.AdminShutdown,
		pgerrcode.CrashShutdown,
		pgerrcode.CannotConnectNow:
		return Unavailable

	// Class 53 — insufficient resources
	case pgerrcode.InsufficientResources,
		pgerrcode.DiskFull,
		pgerrcode.OutOfMemory,
		pgerrcode.TooManyConnections,
		pgerrcode.ConfigurationLimitExceeded:
		return ResourceExhausted

	case pgerrcode.UniqueViolation:
		return AlreadyExists

	// Class 40 — transaction rollback
	case pgerrcode.TransactionRollback,
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected:
		return Aborted
	}

	return Internal
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
