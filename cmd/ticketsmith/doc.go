// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// ticketsmith is the command-line interface to a ticket database:
// create and lay out job ticket templates, fill tickets out from
// them, and manage the accounts and options of the database.
//
// The active database is recorded in the program settings file
// (ticketsmith.yaml under the user's config directory, overridable
// with TICKETSMITH_SETTINGS). On first launch, with no settings file,
// "ticketsmith init --unsecured" creates the default database: no
// accounts, every caller an administrator.
//
// Commands that modify a secured database authenticate with --user
// plus a password prompt. Guest accounts can read entities only when
// the database's guest viewing option is on.
package main
