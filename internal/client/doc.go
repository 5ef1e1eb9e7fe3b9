// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the client application runtime.
//
// It wires the storages, the outbound adapters and the client services into
// a single process lifecycle that the command tree drives.
package client
