// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the claim set of a session token issued by the identity
// backend. The subject holds the account ID.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SessionToken wraps a signed session token together with its parsed claims.
type SessionToken struct {
	Claims SessionClaims

	// SignedString is the compact JWS form persisted in local settings.
	SignedString string `json:"-"`
}

// Account returns the account the token was issued for.
func (t SessionToken) Account() (Account, error) {
	if t.Claims.Subject == "" {
		return Account{}, errors.New("session token has no subject")
	}
	return Account{ID: t.Claims.Subject, Email: t.Claims.Email}, nil
}

// IssuedAt returns the sign-in time recorded in the token, or the zero time.
func (t SessionToken) IssuedAt() time.Time {
	if t.Claims.IssuedAt == nil {
		return time.Time{}
	}
	return t.Claims.IssuedAt.Time
}

// String returns the compact JWS serialization of the token.
func (t SessionToken) String() string {
	return t.SignedString
}
