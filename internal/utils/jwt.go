// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/TechWithTyler/randofacto/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateSessionToken creates a signed HMAC-SHA256 session token for account.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the identity backend that issued the token
//   - Subject   (sub): the account ID
//   - email          : the account e-mail
//   - IssuedAt  (iat): issuedAt, used as the last sign-in time
//   - ExpiresAt (exp): issuedAt plus tokenDuration
//
// Returns an error if issuer, signKey or the account ID are empty or
// tokenDuration is zero.
//
// Example usage:
//
//	token, err := utils.GenerateSessionToken("randofacto", account, time.Hour, "secret", time.Now())
func GenerateSessionToken(issuer string, account models.Account, tokenDuration time.Duration, signKey string, issuedAt time.Time) (models.SessionToken, error) {
	if issuer == "" || tokenDuration == 0 || signKey == "" || account.ID == "" {
		return models.SessionToken{}, errors.New("invalid params for generating session token")
	}

	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
		Email: account.Email,
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signKey))
	if err != nil {
		return models.SessionToken{}, fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return models.SessionToken{Claims: claims, SignedString: tokenString}, nil
}

// ValidateAndParseSessionToken validates tokenString and extracts its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key (HS256 only)
//   - Issuer (iss) claim check against tokenIssuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence
//
// Example usage:
//
//	token, err := utils.ValidateAndParseSessionToken(raw, "secret", "randofacto")
//	if err != nil {
//	    // the persisted session is no longer usable
//	}
func ValidateAndParseSessionToken(tokenString, tokenSignKey, tokenIssuer string) (models.SessionToken, error) {
	var claims models.SessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.SessionToken{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Subject == "" {
		return models.SessionToken{}, errors.New("empty subject error")
	}

	return models.SessionToken{Claims: claims, SignedString: tokenString}, nil
}
