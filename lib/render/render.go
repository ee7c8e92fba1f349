// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"

	"github.com/ticketsmith/ticketsmith/lib/compose"
	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/template"
	"github.com/ticketsmith/ticketsmith/lib/ticket"
)

// Surface receives drawing calls in document order. Coordinates and
// sizes are in the same units as field geometry; implementations map
// them to device units.
type Surface interface {
	// DrawBox draws the outline of a field's bounding box.
	DrawBox(x, y, width, height float64) error

	// DrawText draws text anchored at the top-left of its box.
	// Embedded '\n' markers are line breaks.
	DrawText(text string, x, y, fontSize float64) error

	// DrawCheckbox draws a square of the given edge length, filled
	// when checked.
	DrawCheckbox(x, y, edge float64, checked bool) error
}

// Ticket draws a filled ticket: every textbox and checkbox in
// combined priority order, then the static fields.
func Ticket(s Surface, tk *ticket.Ticket) error {
	if err := fields(s, tk.Order(), tk.Textboxes, tk.Checkboxes); err != nil {
		return err
	}
	return statics(s, tk.Statics)
}

// Template draws an unfilled template: the same layout as Ticket with
// every value empty, for previewing a design.
func Template(s Surface, tpl *template.Template) error {
	if err := fields(s, tpl.Order(), tpl.Textboxes, tpl.Checkboxes); err != nil {
		return err
	}
	return statics(s, tpl.Statics)
}

func fields(s Surface, order []compose.Entry, textboxes []field.Textbox, checkboxes []field.Checkbox) error {
	for _, e := range order {
		switch e.Source {
		case compose.SourceTextbox:
			b := textboxes[e.Index]
			if err := s.DrawBox(b.X, b.Y, b.Width, b.Height); err != nil {
				return fmt.Errorf("textbox %q: %w", b.Name, err)
			}
			if b.Text != "" {
				if err := s.DrawText(b.Text, b.X, b.Y, b.FontSize); err != nil {
					return fmt.Errorf("textbox %q: %w", b.Name, err)
				}
			}
		case compose.SourceCheckbox:
			b := checkboxes[e.Index]
			edge := field.CheckboxEdge * b.Scale
			if err := s.DrawCheckbox(b.X, b.Y, edge, b.Status); err != nil {
				return fmt.Errorf("checkbox %q: %w", b.Name, err)
			}
		}
	}
	return nil
}

func statics(s Surface, items []field.StaticField) error {
	for _, st := range items {
		if err := s.DrawBox(st.X, st.Y, st.Width, st.Height); err != nil {
			return fmt.Errorf("static field %q: %w", st.Name, err)
		}
		if st.Value != "" {
			if err := s.DrawText(st.Value, st.X, st.Y, st.FontSize); err != nil {
				return fmt.Errorf("static field %q: %w", st.Name, err)
			}
		}
	}
	return nil
}
