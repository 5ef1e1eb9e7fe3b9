// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"strings"
	"time"
)

// EnvPrefix is prepended to every environment variable the client reads.
const EnvPrefix = "RANDOFACTO_"

// Supported remote store dialects.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "pgx"
)

// StructuredConfig is the top-level configuration container for the
// RandoFacto client. It aggregates all sub-configurations and is populated by
// merging values from command-line flags, environment variables, an optional
// JSON file and finally the built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds fact generation and startup behaviour.
	App App `envPrefix:"APP_"`

	// Adapter holds outbound HTTP and reachability probe settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the remote document store and local settings DSNs.
	Storage Storage `envPrefix:"STORAGE_"`

	// Auth holds session token and sensitive-operation settings.
	Auth Auth `envPrefix:"AUTH_"`

	// Workers holds background worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// LogFile is the path of the client log file. Empty means a file next
	// to the executable.
	// Env: RANDOFACTO_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via RANDOFACTO_CONFIG or the --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds fact-related settings.
type App struct {
	// FactURL returns one random fact as JSON with a "text" field.
	// Env: RANDOFACTO_APP_FACT_URL
	FactURL string `env:"FACT_URL"`

	// ScreenURL is the inappropriate-content screening endpoint. It is
	// called with a "text" query parameter and answers "true" or "false".
	// Env: RANDOFACTO_APP_SCREEN_URL
	ScreenURL string `env:"SCREEN_URL"`

	// FactMaxAttempts bounds how many facts are fetched while looking for
	// one that passes screening.
	// Env: RANDOFACTO_APP_FACT_MAX_ATTEMPTS
	FactMaxAttempts int `env:"FACT_MAX_ATTEMPTS"`

	// SettleDelay is how long startup waits for connectivity and the
	// authentication state to settle before resolving the first fact.
	// Env: RANDOFACTO_APP_SETTLE_DELAY
	SettleDelay time.Duration `env:"SETTLE_DELAY"`
}

// Adapter holds settings for outbound integrations.
type Adapter struct {
	// RequestTimeout is the maximum duration of a single HTTP request.
	// Env: RANDOFACTO_ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ProbeAddress is the host:port dialed to decide reachability.
	// Env: RANDOFACTO_ADAPTER_PROBE_ADDRESS
	ProbeAddress string `env:"PROBE_ADDRESS"`

	// ProbeInterval is the pause between reachability probes.
	// Env: RANDOFACTO_ADAPTER_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`

	// ProbeTimeout bounds a single reachability dial.
	// Env: RANDOFACTO_ADAPTER_PROBE_TIMEOUT
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT"`
}

// Storage groups the persistence settings.
type Storage struct {
	// RemoteDSN points at the shared document database. A postgres:// or
	// postgresql:// URL selects PostgreSQL, anything else is a SQLite path.
	// Env: RANDOFACTO_STORAGE_REMOTE_DSN
	RemoteDSN string `env:"REMOTE_DSN"`

	// LocalDSN is the SQLite file holding device-local settings and the
	// persisted session.
	// Env: RANDOFACTO_STORAGE_LOCAL_DSN
	LocalDSN string `env:"LOCAL_DSN"`
}

// RemoteDialect reports the database/sql driver name matching RemoteDSN.
func (s Storage) RemoteDialect() string {
	if strings.HasPrefix(s.RemoteDSN, "postgres://") || strings.HasPrefix(s.RemoteDSN, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Auth holds identity settings.
type Auth struct {
	// TokenSignKey is the secret used to sign and verify session tokens.
	// Env: RANDOFACTO_AUTH_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every session token.
	// Env: RANDOFACTO_AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// SessionDuration is how long a session token stays valid.
	// Env: RANDOFACTO_AUTH_SESSION_DURATION
	SessionDuration time.Duration `env:"SESSION_DURATION"`

	// RecentLoginWindow is how old a sign-in may be for password changes
	// and account deletion.
	// Env: RANDOFACTO_AUTH_RECENT_LOGIN_WINDOW
	RecentLoginWindow time.Duration `env:"RECENT_LOGIN_WINDOW"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// WatchInterval is how often live listeners poll the remote tier.
	// Env: RANDOFACTO_WORKERS_WATCH_INTERVAL
	WatchInterval time.Duration `env:"WATCH_INTERVAL"`

	// DeleteConcurrency bounds in-flight deletions during bulk deletes.
	// Env: RANDOFACTO_WORKERS_DELETE_CONCURRENCY
	DeleteConcurrency int `env:"DELETE_CONCURRENCY"`
}

// GetStructuredConfig loads, merges, and validates the client configuration.
// Sources are consulted in priority order (the first non-zero value wins):
//  1. Command-line flags (overrides, may be nil)
//  2. Environment variables
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig(overrides *Overrides) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(overrides).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
