// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// Defaults returns the built-in configuration. Everything except the token
// sign key has a usable default.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			FactURL:         "https://uselessfacts.jsph.pl/api/v2/facts/random?language=en",
			ScreenURL:       "https://www.purgomalum.com/service/containsprofanity",
			FactMaxAttempts: 10,
			SettleDelay:     2 * time.Second,
		},
		Adapter: Adapter{
			RequestTimeout: 10 * time.Second,
			ProbeAddress:   "uselessfacts.jsph.pl:443",
			ProbeInterval:  5 * time.Second,
			ProbeTimeout:   3 * time.Second,
		},
		Storage: Storage{
			RemoteDSN: "randofacto_remote.db",
			LocalDSN:  "randofacto_local.db",
		},
		Auth: Auth{
			TokenIssuer:       "randofacto",
			SessionDuration:   30 * 24 * time.Hour,
			RecentLoginWindow: 5 * time.Minute,
		},
		Workers: Workers{
			WatchInterval:     2 * time.Second,
			DeleteConcurrency: 8,
		},
	}
}
