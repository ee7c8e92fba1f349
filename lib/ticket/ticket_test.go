// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"errors"
	"testing"

	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/template"
)

func sampleTemplate() *template.Template {
	tpl := template.New("work order")
	tpl.SetDocumentPath("scans/work-order.png")
	tpl.AddTextbox("Notes")
	tpl.AddCheckbox("Approved")
	tpl.AddStatic(field.KindCounter)
	return tpl
}

func TestFromTemplateIsDeepCopy(t *testing.T) {
	tpl := sampleTemplate()
	tk := FromTemplate(tpl)

	if tk.TemplateName != "work order" {
		t.Errorf("template name %q", tk.TemplateName)
	}
	if tk.DocumentPath != "scans/work-order.png" {
		t.Errorf("document path %q", tk.DocumentPath)
	}

	// Editing the template must not reach the ticket.
	if err := tpl.SetTextboxFontSize("Notes", 20); err != nil {
		t.Fatalf("SetTextboxFontSize: %v", err)
	}
	if got := tk.Textboxes[0].FontSize; got != field.DefaultFontSize {
		t.Errorf("template edit leaked into ticket: font size %g", got)
	}
	tpl.SetDocumentPath("scans/revised.png")
	if tk.DocumentPath != "scans/work-order.png" {
		t.Errorf("template document change leaked into ticket: %q", tk.DocumentPath)
	}

	// Filling the ticket must not reach the template.
	if err := tk.SetTextboxText("Notes", "replace belt"); err != nil {
		t.Fatalf("SetTextboxText: %v", err)
	}
	if tpl.Textboxes[0].Text != "" {
		t.Errorf("ticket edit leaked into template: %q", tpl.Textboxes[0].Text)
	}
}

func TestSetTextboxTextKeepsLineBreaks(t *testing.T) {
	tk := FromTemplate(sampleTemplate())
	if err := tk.SetTextboxText("Notes", "line one\nline two"); err != nil {
		t.Fatalf("SetTextboxText: %v", err)
	}
	if tk.Textboxes[0].Text != "line one\nline two" {
		t.Errorf("text stored as %q", tk.Textboxes[0].Text)
	}
}

func TestSetOnMissingField(t *testing.T) {
	tk := FromTemplate(sampleTemplate())
	if err := tk.SetTextboxText("nope", "x"); !errors.Is(err, field.ErrNotFound) {
		t.Errorf("missing textbox err = %v, want ErrNotFound", err)
	}
	if err := tk.SetCheckboxStatus("nope", true); !errors.Is(err, field.ErrNotFound) {
		t.Errorf("missing checkbox err = %v, want ErrNotFound", err)
	}
}

func TestDirtyTracking(t *testing.T) {
	tk := FromTemplate(sampleTemplate())
	if tk.Dirty() {
		t.Error("fresh ticket dirty")
	}
	if err := tk.SetCheckboxStatus("Approved", true); err != nil {
		t.Fatalf("SetCheckboxStatus: %v", err)
	}
	if !tk.Dirty() {
		t.Error("mutation did not dirty ticket")
	}
	tk.ClearDirty()
	if tk.Dirty() {
		t.Error("ClearDirty did not clear")
	}
}

func TestUnfilled(t *testing.T) {
	tpl := sampleTemplate()
	if err := tpl.SetTextboxRequired("Notes", true); err != nil {
		t.Fatalf("SetTextboxRequired: %v", err)
	}
	if err := tpl.SetCheckboxRequired("Approved", true); err != nil {
		t.Fatalf("SetCheckboxRequired: %v", err)
	}
	tk := FromTemplate(tpl)

	missing := tk.Unfilled()
	if len(missing) != 2 {
		t.Fatalf("unfilled = %v, want two entries", missing)
	}

	if err := tk.SetTextboxText("Notes", "done"); err != nil {
		t.Fatalf("SetTextboxText: %v", err)
	}
	missing = tk.Unfilled()
	if len(missing) != 1 || missing[0] != "Approved" {
		t.Errorf("unfilled = %v, want [Approved]", missing)
	}

	if err := tk.SetCheckboxStatus("Approved", true); err != nil {
		t.Fatalf("SetCheckboxStatus: %v", err)
	}
	if missing = tk.Unfilled(); len(missing) != 0 {
		t.Errorf("unfilled = %v, want none", missing)
	}
}
