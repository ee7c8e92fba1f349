// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

// Package compose produces the combined traversal order of a
// template's (or ticket's) textbox and checkbox collections.
//
// Every consumer that walks both collections — form construction,
// tabular property listing, print composition — must visit fields in
// the same order, or the displayed list and the rendered positions
// disagree. They all call Merge and walk its result.
package compose

import "github.com/ticketsmith/ticketsmith/lib/field"

// Source tags which collection a merge entry came from.
type Source int

const (
	// SourceTextbox marks an entry drawn from the textbox collection.
	SourceTextbox Source = iota

	// SourceCheckbox marks an entry drawn from the checkbox
	// collection.
	SourceCheckbox
)

// Entry is one position in the combined order: the originating
// collection and the index into it. Entries reference the input
// slices rather than copying them, so callers index back into their
// own collections.
type Entry struct {
	Source Source
	Index  int
}

// Merge interleaves two priority-ascending collections into a single
// combined order. Both inputs must already be sorted ascending by
// Priority; sorting is the owner's responsibility, triggered when a
// priority changes.
//
// The merge is the standard two-cursor merge step: the lower priority
// is emitted first, and on equal priorities the checkbox is emitted
// before the textbox. It never mutates its inputs and is total over
// any pair of sequences, including empty ones.
func Merge(textboxes []field.Textbox, checkboxes []field.Checkbox) []Entry {
	order := make([]Entry, 0, len(textboxes)+len(checkboxes))
	i, j := 0, 0
	for i < len(textboxes) || j < len(checkboxes) {
		switch {
		case i == len(textboxes):
			order = append(order, Entry{Source: SourceCheckbox, Index: j})
			j++
		case j == len(checkboxes):
			order = append(order, Entry{Source: SourceTextbox, Index: i})
			i++
		case textboxes[i].Priority < checkboxes[j].Priority:
			order = append(order, Entry{Source: SourceTextbox, Index: i})
			i++
		default:
			order = append(order, Entry{Source: SourceCheckbox, Index: j})
			j++
		}
	}
	return order
}
