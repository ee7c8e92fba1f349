// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"fmt"
	"strconv"

	"github.com/ticketsmith/ticketsmith/lib/clock"
	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/template"
	"github.com/ticketsmith/ticketsmith/lib/ticket"
)

// Resolver fills in static field values on new tickets. The clock is
// injected so creation-time fields are testable.
type Resolver struct {
	Clock clock.Clock
}

// New returns a Resolver on the real clock.
func New() *Resolver {
	return &Resolver{Clock: clock.Real()}
}

// Resolve fills every static field on tk, which must have been
// created from tpl: counters are matched to the template's fields by
// name, and each counter advance is written back to tpl (dirtying
// it). The ticket's sequence and customer names are set from the
// arguments, and the ticket comes out dirty, ready to persist.
func (r *Resolver) Resolve(tpl *template.Template, tk *ticket.Ticket, firstName, lastName string, sequence int) error {
	if sequence < 1 {
		return fmt.Errorf("ticket sequence %d, want positive", sequence)
	}
	now := r.Clock.Now()

	tk.Sequence = sequence
	tk.CustomerFirstName = firstName
	tk.CustomerLastName = lastName

	for i := range tk.Statics {
		s := &tk.Statics[i]
		switch s.Kind {
		case field.KindCustomerFirstName:
			s.Value = firstName
		case field.KindCustomerLastName:
			s.Value = lastName
		case field.KindCounter:
			next, err := advanceCounter(tpl, s.Name)
			if err != nil {
				return err
			}
			s.Value = next
		case field.KindDay:
			s.Value = strconv.Itoa(now.Day())
		case field.KindMonth:
			s.Value = strconv.Itoa(int(now.Month()))
		case field.KindYear:
			s.Value = strconv.Itoa(now.Year())
		case field.KindTimeStamp:
			s.Value = fmt.Sprintf("%02d%02d%02d", now.Hour(), now.Minute(), now.Second())
		case field.KindTemplateID:
			s.Value = strconv.Itoa(sequence)
		}
	}
	tk.MarkDirty()
	return nil
}

// advanceCounter increments the named counter on the template and
// returns the new count as text.
func advanceCounter(tpl *template.Template, name string) (string, error) {
	s, err := tpl.Static(name)
	if err != nil {
		return "", fmt.Errorf("counter %q missing from template %q: %w", name, tpl.Name, err)
	}
	n, perr := strconv.Atoi(s.Value)
	if perr != nil || n < 0 {
		return "", fmt.Errorf("counter %q on template %q has value %q, want non-negative integer", name, tpl.Name, s.Value)
	}
	next := strconv.Itoa(n + 1)
	if err := tpl.SetCounterValue(name, next); err != nil {
		return "", err
	}
	return next, nil
}

// ResetCounters zeroes every counter on the template. Returns the
// number of counters reset; the template is dirty when that is
// nonzero.
func ResetCounters(tpl *template.Template) int {
	return resetCounters(tpl, false)
}

// ResetAnnualCounters zeroes only the counters marked ResetsAnnually.
// The store's year-rollover policy calls this when a template is
// first loaded in a new year.
func ResetAnnualCounters(tpl *template.Template) int {
	return resetCounters(tpl, true)
}

func resetCounters(tpl *template.Template, annualOnly bool) int {
	reset := 0
	for _, s := range tpl.Statics {
		if s.Kind != field.KindCounter {
			continue
		}
		if annualOnly && !s.ResetsAnnually {
			continue
		}
		if s.Value == "0" {
			continue
		}
		if err := tpl.SetCounterValue(s.Name, "0"); err != nil {
			continue
		}
		reset++
	}
	return reset
}
