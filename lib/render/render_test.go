// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"testing"

	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/template"
	"github.com/ticketsmith/ticketsmith/lib/ticket"
)

// recordingSurface logs one line per drawing call.
type recordingSurface struct {
	calls []string
}

func (r *recordingSurface) DrawBox(x, y, width, height float64) error {
	r.calls = append(r.calls, fmt.Sprintf("box %g,%g %gx%g", x, y, width, height))
	return nil
}

func (r *recordingSurface) DrawText(text string, x, y, fontSize float64) error {
	r.calls = append(r.calls, fmt.Sprintf("text %q %g,%g @%g", text, x, y, fontSize))
	return nil
}

func (r *recordingSurface) DrawCheckbox(x, y, edge float64, checked bool) error {
	r.calls = append(r.calls, fmt.Sprintf("check %g,%g edge %g %v", x, y, edge, checked))
	return nil
}

func TestTicketDrawsInCombinedOrder(t *testing.T) {
	tpl := template.New("t")
	tpl.AddTextbox("first")   // priority 0
	tpl.AddCheckbox("second") // priority 1
	tpl.AddTextbox("third")   // priority 2

	tk := ticket.FromTemplate(tpl)
	if err := tk.SetTextboxText("first", "hello"); err != nil {
		t.Fatalf("SetTextboxText: %v", err)
	}
	if err := tk.SetCheckboxStatus("second", true); err != nil {
		t.Fatalf("SetCheckboxStatus: %v", err)
	}

	var s recordingSurface
	if err := Ticket(&s, tk); err != nil {
		t.Fatalf("Ticket: %v", err)
	}

	// first: box + text, second: checkbox, third: box only (empty).
	want := []string{
		`box 0,0 10x10`,
		`text "hello" 0,0 @11`,
		`check 0,0 edge 10 true`,
		`box 0,0 10x10`,
	}
	if len(s.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", s.calls, want)
	}
	for i := range want {
		if s.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, s.calls[i], want[i])
		}
	}
}

func TestCheckboxEdgeScales(t *testing.T) {
	tpl := template.New("t")
	name := tpl.AddCheckbox("big")
	if err := tpl.SetCheckboxScale(name, 2.5); err != nil {
		t.Fatalf("SetCheckboxScale: %v", err)
	}
	var s recordingSurface
	if err := Template(&s, tpl); err != nil {
		t.Fatalf("Template: %v", err)
	}
	if s.calls[0] != "check 0,0 edge 25 false" {
		t.Errorf("call = %q", s.calls[0])
	}
}

func TestStaticsDrawAfterFields(t *testing.T) {
	tpl := template.New("t")
	tpl.AddTextbox("a")
	counter := tpl.AddStatic(field.KindCounter)
	if err := tpl.SetStaticPosition(counter, 5, 6); err != nil {
		t.Fatalf("SetStaticPosition: %v", err)
	}

	var s recordingSurface
	if err := Template(&s, tpl); err != nil {
		t.Fatalf("Template: %v", err)
	}
	// Textbox box first, then the counter's box and its "0" value.
	if len(s.calls) != 3 {
		t.Fatalf("calls = %v", s.calls)
	}
	if s.calls[2] != `text "0" 5,6 @11` {
		t.Errorf("last call = %q", s.calls[2])
	}
}
