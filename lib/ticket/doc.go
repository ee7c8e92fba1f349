// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket implements the filled-out job ticket: a snapshot of
// a template's field collections plus the values a user entered into
// them.
//
// A ticket is self-contained. FromTemplate deep-copies every
// collection, so later edits to the template never bleed into tickets
// already created from it, and vice versa. Static field values are
// resolved separately (see lib/resolve) and stored on the ticket as
// plain text.
package ticket
