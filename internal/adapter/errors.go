// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

var (
	// ErrNoAppropriateFact is returned when every fetched fact failed screening.
	ErrNoAppropriateFact = errors.New("no appropriate fact found")
)
