// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package field defines the value types for the fields that make up
// templates and tickets: free-text boxes, boolean checkboxes, and
// auto-populated static fields (customer name, date parts, running
// counters, timestamps, ticket sequence numbers).
//
// The package holds identity, geometry, and content plus the validation
// rules for each — no I/O and no collection logic. Aggregation and
// name-keyed mutation live in lib/template and lib/ticket; persistence
// lives in lib/codec.
//
// # Geometry
//
// Positions and dimensions are in pixels of the rendering surface the
// field is anchored to. The engine never knows the surface; callers
// pass its extents as a Bounds when mutating geometry, and the
// validation rejects anything that would land outside it.
//
// # Static fields
//
// A static field is a tagged variant over the eight Kind values. The
// variant arms carry their own flags: a textbox/checkbox has Required,
// a Counter static field has ResetsAnnually. The two were a single
// overloaded slot in an earlier incarnation of this system; they are
// deliberately separate attributes here.
package field
