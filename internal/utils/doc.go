// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes an observable value holder, HTTP client initialization, session
// token generation and validation, and identifier generation.
package utils
