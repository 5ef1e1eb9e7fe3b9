// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter defines the external collaborators the RandoFacto core talks
// to and ships the outbound implementations that are not backed by the local
// databases: the HTTP fact provider and the reachability probe.
//
// The document store, the identity provider and the settings store are
// implemented in package store. Every failure crossing these interfaces is a
// raw error (usually an [app.CodedError]); classification is left to the
// caller.
package adapter

import (
	"context"

	"github.com/TechWithTyler/randofacto/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// SnapshotHandler receives listener notifications. Exactly one of snapshot
// and err is meaningful.
type SnapshotHandler func(snapshot models.Snapshot, err error)

// ListenerRegistration is the handle of a live query subscription.
type ListenerRegistration interface {
	// Remove stops the subscription. Notifications already in flight may
	// still arrive. Calling Remove more than once is a no-op.
	Remove()
}

// RemoteStore is the document database holding favorites and registration
// references. It keeps a local cache and accepts writes while the network is
// disabled; those writes are pushed once the network is enabled again.
type RemoteStore interface {
	// Subscribe starts a live query over collection. The handler first gets
	// a cache snapshot, then a server snapshot when the network is enabled,
	// then one snapshot per change. Deliveries for one listener never
	// overlap.
	Subscribe(ctx context.Context, collection string, filter models.Filter, handler SnapshotHandler) (ListenerRegistration, error)

	// CreateDocument adds a document with a store-generated ID.
	CreateDocument(ctx context.Context, collection string, fields map[string]any) (models.Document, error)

	// SetDocument writes the document with the given ID, replacing it if it exists.
	SetDocument(ctx context.Context, collection, id string, fields map[string]any) error

	// DeleteDocument removes a document. Deleting a missing document succeeds.
	DeleteDocument(ctx context.Context, collection, id string) error

	// Query runs a one-shot query against the requested source.
	Query(ctx context.Context, collection string, filter models.Filter, source models.Source) (models.Snapshot, error)

	// EnableNetwork reconnects the store to the server and flushes pending writes.
	EnableNetwork(ctx context.Context) error

	// DisableNetwork makes the store serve from, and write to, its cache only.
	DisableNetwork(ctx context.Context) error

	// ClearCache drops the local cache and any pending writes.
	ClearCache(ctx context.Context) error
}

// IdentityProvider manages accounts and the current sign-in session.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (models.Account, error)
	SignIn(ctx context.Context, email, password string) (models.Account, error)
	SignOut(ctx context.Context) error
	SendPasswordReset(ctx context.Context, email string) error

	// UpdatePassword and DeleteAccount act on the current account and fail
	// with a requires-recent-login error when the session is too old.
	UpdatePassword(ctx context.Context, newPassword string) error
	DeleteAccount(ctx context.Context) error

	// CurrentAccount reports the signed-in account, if any.
	CurrentAccount() (models.Account, bool)
}

// ConnectivitySource pushes reachability observations. The channel is
// closed when ctx is done.
type ConnectivitySource interface {
	Watch(ctx context.Context) <-chan bool
}

// FactProvider produces one screened random fact.
type FactProvider interface {
	GenerateFact(ctx context.Context) (string, error)
}

// SettingsStore persists device-local user settings.
type SettingsStore interface {
	// Bool returns the stored value, or false when the key is not set.
	Bool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
	Delete(ctx context.Context, key string) error
}
