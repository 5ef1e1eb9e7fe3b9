// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app holds the error taxonomy shared by every RandoFacto component.
//
// Raw failures (transport errors, HTTP statuses, store and identity codes) are
// mapped exactly once by [Classify] or [ClassifyCode] into an [*Error] whose
// [Kind] belongs to a small closed set. Callers match kinds with [errors.Is]
// against the Err* sentinels or with [KindOf].
package app
