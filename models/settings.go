// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Device-local setting keys.
const (
	// SettingFavoritesOnLaunch selects whether startup shows a random
	// favorite instead of a freshly generated fact.
	SettingFavoritesOnLaunch = "favoritesOnLaunch"

	// SettingSessionToken holds the signed session token of the signed-in
	// account.
	SettingSessionToken = "session.token"
)
