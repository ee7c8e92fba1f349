// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"fmt"
	"slices"

	"github.com/ticketsmith/ticketsmith/lib/compose"
	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/template"
)

// Ticket is one filled-out instance of a template. TemplateName and
// Sequence together identify the ticket within a database; the store
// derives the entity filename from them.
type Ticket struct {
	TemplateName string
	Sequence     int

	// DocumentPath is inherited from the source template at creation
	// time, so the ticket still points at the right backing document
	// even after the template's own path changes.
	DocumentPath string

	CustomerFirstName string
	CustomerLastName  string

	Textboxes  []field.Textbox
	Checkboxes []field.Checkbox
	Statics    []field.StaticField

	dirty bool
}

// FromTemplate snapshots a template into a new, empty ticket. The
// collections are cloned, so the ticket stays intact when the
// template is edited later, and filling in the ticket never touches
// the template.
func FromTemplate(tpl *template.Template) *Ticket {
	return &Ticket{
		TemplateName: tpl.Name,
		DocumentPath: tpl.DocumentPath,
		Textboxes:    slices.Clone(tpl.Textboxes),
		Checkboxes:   slices.Clone(tpl.Checkboxes),
		Statics:      slices.Clone(tpl.Statics),
	}
}

// Dirty reports whether the ticket has mutations not yet persisted.
func (t *Ticket) Dirty() bool { return t.dirty }

// ClearDirty marks the ticket as persisted.
func (t *Ticket) ClearDirty() { t.dirty = false }

// MarkDirty records an out-of-band mutation, such as static field
// resolution writing values directly.
func (t *Ticket) MarkDirty() { t.dirty = true }

// Order returns the combined traversal order of the textbox and
// checkbox collections.
func (t *Ticket) Order() []compose.Entry {
	return compose.Merge(t.Textboxes, t.Checkboxes)
}

// Sort stably re-sorts both collections ascending by priority.
// Loaders call it once after decoding.
func (t *Ticket) Sort() {
	slices.SortStableFunc(t.Textboxes, func(a, b field.Textbox) int {
		return a.Priority - b.Priority
	})
	slices.SortStableFunc(t.Checkboxes, func(a, b field.Checkbox) int {
		return a.Priority - b.Priority
	})
}

// SetTextboxText stores the user's text for the named textbox.
// Embedded '\n' line-break markers are kept verbatim.
func (t *Ticket) SetTextboxText(name, text string) error {
	for i := range t.Textboxes {
		if t.Textboxes[i].Name == name {
			t.Textboxes[i].Text = text
			t.dirty = true
			return nil
		}
	}
	return fmt.Errorf("textbox %q: %w", name, field.ErrNotFound)
}

// SetCheckboxStatus stores the user's choice for the named checkbox.
func (t *Ticket) SetCheckboxStatus(name string, status bool) error {
	for i := range t.Checkboxes {
		if t.Checkboxes[i].Name == name {
			t.Checkboxes[i].Status = status
			t.dirty = true
			return nil
		}
	}
	return fmt.Errorf("checkbox %q: %w", name, field.ErrNotFound)
}

// Unfilled returns the names of required fields that are still empty:
// textboxes with no text and checkboxes left unticked. An empty
// result means the ticket is ready to save.
func (t *Ticket) Unfilled() []string {
	var missing []string
	for _, e := range t.Order() {
		switch e.Source {
		case compose.SourceTextbox:
			b := t.Textboxes[e.Index]
			if b.Required && b.Text == "" {
				missing = append(missing, b.Name)
			}
		case compose.SourceCheckbox:
			b := t.Checkboxes[e.Index]
			if b.Required && !b.Status {
				missing = append(missing, b.Name)
			}
		}
	}
	return missing
}
