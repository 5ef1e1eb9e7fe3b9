// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"

	"github.com/TechWithTyler/randofacto/internal/app"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNoAccountWasFound is returned when a lookup matches no account.
	ErrNoAccountWasFound = errors.New("no account was found")

	// ErrEmailAlreadyExists is returned when an account with the same
	// e-mail already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNetworkDisabled is returned by server-sourced queries while the
	// store network is disabled.
	ErrNetworkDisabled = errors.New("network is disabled")

	// ErrNoSession is returned by identity operations that need a signed-in account.
	ErrNoSession = errors.New("no signed-in account")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid field name).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrDecodingFields is returned when a stored fields column is not a
	// JSON object.
	ErrDecodingFields = errors.New("failed to decode document fields")
)

var storeCodes = map[ErrorClassification]int{
	Internal:          app.CodeStoreInternal,
	Unavailable:       app.CodeStoreUnavailable,
	ResourceExhausted: app.CodeStoreResourceExhausted,
	AlreadyExists:     app.CodeStoreAlreadyExists,
	Aborted:           app.CodeStoreAborted,
}

// storeError wraps err into a coded error of the document store domain.
func storeError(op string, class ErrorClassification, err error) error {
	return app.NewCodedError(app.DomainStore, storeCodes[class], fmt.Sprintf("%s: %v", op, err), err)
}

// unavailable builds the coded error returned when the server tier cannot
// be used.
func unavailable(op string, err error) error {
	return storeError(op, Unavailable, err)
}
