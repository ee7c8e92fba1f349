// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package settings loads and saves the program-level settings file.
//
// The file is YAML and lives outside any database. It records which
// database is active and which others the program has opened before,
// so the switcher can offer them. A missing file is not an error:
// first launch gets zero-value settings and the caller creates the
// default database. A file that exists but does not parse IS an
// error, and startup must fail rather than silently shadowing the
// user's configuration with defaults.
package settings
