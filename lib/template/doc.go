// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package template implements the job ticket template aggregate: a
// named document layout holding textbox, checkbox, and static field
// collections, mutated through name-keyed operations.
//
// All mutation goes through methods that sanitize names, validate
// geometry against the caller's page bounds, keep the textbox and
// checkbox collections sorted ascending by priority, and record that
// the template has unsaved changes. Consumers poll Dirty to decide
// when persistence is needed; the store clears it after a successful
// save.
//
// Field names are unique per collection. Adding a field under a taken
// name does not fail; the name is suffixed " (n)" with the lowest
// free n, and the actual name is returned to the caller. Renames, by
// contrast, reject collisions outright.
package template
