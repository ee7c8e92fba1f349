// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now
// directly. Real() provides wall-clock behavior; Fake() provides a
// deterministic clock whose time moves only when the test says so.
//
// The engine uses the clock for static-field date resolution (day,
// month, year, timestamp) and for the annual counter-rollover policy,
// both of which must be reproducible under test.
package clock
