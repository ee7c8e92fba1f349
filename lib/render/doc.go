// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package render walks a template or ticket in combined field order
// and issues drawing calls against a Surface.
//
// The package owns the traversal and the geometry conventions (where
// text sits inside its box, how a checkbox edge is computed from its
// scale); what a Surface does with the calls is up to the caller. A
// print backend, a screen preview, and the tests' recording surface
// all plug in behind the same interface.
package render
