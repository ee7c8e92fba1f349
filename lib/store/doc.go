// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package store implements the on-disk ticket database: a directory
// holding templates under Templates/, tickets under JobTickets/, a
// per-database options file, and the credential store.
//
// # Layout
//
// A database directory contains:
//
//	Templates/<name>.xml            one file per template
//	JobTickets/<seq> <name>.xml     one file per ticket
//	options.yaml                    guest viewing, unsecured flag
//	users.cbor                      accounts (absent on unsecured
//	                                databases and before first use)
//
// Every file write goes to a temporary file in the destination
// directory and is renamed into place, so a crash mid-write never
// corrupts an existing entity.
//
// # Sequence numbers
//
// Ticket sequence numbers are per-template and allocated by scanning
// JobTickets/ for the lowest unused positive integer, then reserving
// it by creating the ticket's file with O_EXCL. Deleting a ticket
// frees its number for reuse. The exclusive create makes concurrent
// allocation against the same directory safe: losers of the race see
// EEXIST and move to the next number.
//
// # Year rollover
//
// Loading a template whose file was last written in an earlier
// calendar year zeroes its counters marked ResetsAnnually and
// re-persists it before the load returns. The decision rides on the
// file's own modification year, so templates restored from a backup
// roll over too. Template saves stamp the file time from the database
// clock, which is what makes the reset fire exactly once per year
// change. Counters without the mark keep counting across years.
package store
