// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the list
// viewer binary.
//
// The package variables are injected at build time, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/listview/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// They default to "unknown" and "0.1.0-dev" in development builds and
// tests. [Info] formats them for --version; [Fprint] adds the Go
// toolchain and platform.
package version
