// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package resolve computes static field values at ticket-creation
// time: customer names, the template's running counter, the creation
// date and time, and the ticket's sequence number.
//
// Resolution is the one place a ticket-creation flow mutates its
// source template: advancing a counter writes the new count back to
// the template's static field and dirties the template, so the caller
// must re-persist it alongside the new ticket. Everything else is
// read-only on the template.
//
// Date components use a fixed encoding: day and month are unpadded
// decimal ("7", not "07"), the year is the full 4-digit value, and
// the time stamp is hour, minute, and second zero-padded to two
// digits each and concatenated (24-hour HHMMSS).
package resolve
