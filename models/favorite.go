// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"strings"
)

// Remote collection names.
const (
	FavoritesCollection     = "favoriteFacts"
	RegistrationsCollection = "users"
)

// Document field names used by favorites and registration references.
const (
	FieldText  = "text"
	FieldOwner = "user"
	FieldEmail = "email"
)

var (
	// ErrFavoriteTextMissing is returned when a favorite document has no usable text.
	ErrFavoriteTextMissing = errors.New("favorite text is missing")
	// ErrFavoriteOwnerMissing is returned when a favorite document has no owner.
	ErrFavoriteOwnerMissing = errors.New("favorite owner is missing")
)

// FavoriteFact is a fact saved by a signed-in user.
//
// ID stays empty until the remote store assigns one. Two favorites are the
// same favorite when their texts are equal, whatever their IDs.
type FavoriteFact struct {
	ID    string `json:"-"`
	Text  string `json:"text"`
	Owner string `json:"user"`
}

// Equal reports whether f and other carry the same fact text.
func (f FavoriteFact) Equal(other FavoriteFact) bool {
	return f.Text == other.Text
}

// Fields returns the remote document representation of f.
func (f FavoriteFact) Fields() map[string]any {
	return map[string]any{
		FieldText:  f.Text,
		FieldOwner: f.Owner,
	}
}

// FavoriteFromDocument decodes a remote document into a FavoriteFact.
func FavoriteFromDocument(doc Document) (FavoriteFact, error) {
	text, ok := doc.Fields[FieldText].(string)
	if !ok || strings.TrimSpace(text) == "" {
		return FavoriteFact{}, ErrFavoriteTextMissing
	}

	owner, ok := doc.Fields[FieldOwner].(string)
	if !ok || owner == "" {
		return FavoriteFact{}, ErrFavoriteOwnerMissing
	}

	return FavoriteFact{ID: doc.ID, Text: text, Owner: owner}, nil
}
