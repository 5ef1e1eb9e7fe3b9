// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements the randofacto command tree.
//
// Every command that needs the client opens it, resumes the persisted
// session, runs, and closes it again. Failures are printed with the
// user-facing text of their error kind.
package cli
