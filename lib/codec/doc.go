// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Ticketsmith's standard serialization
// configuration.
//
// Ticketsmith uses two formats with a clear boundary:
//
//   - XML for entity files: templates under Templates/ and tickets
//     under JobTickets/. These are the user-visible documents of a
//     database and stay in the element structure earlier releases
//     wrote, so existing databases keep loading.
//   - CBOR for the credential store (users.cbor). Credentials are
//     internal state, never hand-edited, and the deterministic
//     encoding means the same account set always produces identical
//     bytes.
//
// Entity decoding is all-or-nothing: a file that fails to parse, or
// parses into values the domain types reject, yields ErrLoadFailure
// and no partial object. Callers surface the failure and skip the
// entity rather than presenting half a document.
package codec
