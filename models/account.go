// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Account is the identity of a signed-in user as reported by the identity provider.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IsZero reports whether a carries no identity.
func (a Account) IsZero() bool {
	return a.ID == ""
}

// StoredAccount is the persisted form of an account inside the identity backend.
// PasswordHash is a bcrypt hash and never leaves the store package.
type StoredAccount struct {
	Account
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthState is the authentication axis of the identity state machine.
type AuthState int

const (
	AuthAnonymous AuthState = iota
	AuthAuthenticating
	AuthAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case AuthAuthenticating:
		return "authenticating"
	case AuthAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// AccountDeletionStage marks the sub-phase of an account deletion in progress.
// While it is not DeletionNone a missing registration reference is expected.
type AccountDeletionStage int

const (
	DeletionNone AccountDeletionStage = iota
	DeletionDeletingData
	DeletionDeletingAccount
)

func (s AccountDeletionStage) String() string {
	switch s {
	case DeletionDeletingData:
		return "deleting_data"
	case DeletionDeletingAccount:
		return "deleting_account"
	default:
		return "none"
	}
}
