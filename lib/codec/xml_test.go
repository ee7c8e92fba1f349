// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/template"
	"github.com/ticketsmith/ticketsmith/lib/ticket"
)

func buildTemplate(t *testing.T) *template.Template {
	t.Helper()
	tpl := template.New("work order")
	tpl.SetDocumentPath("scans/work-order.png")
	tpl.AddTextbox("Notes")
	tpl.AddCheckbox("Approved")
	counter := tpl.AddStatic(field.KindCounter)
	if err := tpl.SetCounterValue(counter, "7"); err != nil {
		t.Fatalf("SetCounterValue: %v", err)
	}
	if err := tpl.SetResetsAnnually(counter, true); err != nil {
		t.Fatalf("SetResetsAnnually: %v", err)
	}
	if err := tpl.SetTextboxPosition("Notes", 12.5, 40); err != nil {
		t.Fatalf("SetTextboxPosition: %v", err)
	}
	if err := tpl.SetTextboxRequired("Notes", true); err != nil {
		t.Fatalf("SetTextboxRequired: %v", err)
	}
	return tpl
}

func TestTemplateRoundTrip(t *testing.T) {
	tpl := buildTemplate(t)
	data, err := EncodeTemplate(tpl)
	if err != nil {
		t.Fatalf("EncodeTemplate: %v", err)
	}

	got, err := DecodeTemplate(data)
	if err != nil {
		t.Fatalf("DecodeTemplate: %v", err)
	}
	if got.Name != "work order" {
		t.Errorf("name = %q", got.Name)
	}
	if got.DocumentPath != "scans/work-order.png" {
		t.Errorf("document path = %q", got.DocumentPath)
	}
	if got.Dirty() {
		t.Error("decoded template dirty")
	}

	notes, err := got.Textbox("Notes")
	if err != nil {
		t.Fatalf("Textbox: %v", err)
	}
	if notes.X != 12.5 || notes.Y != 40 || !notes.Required {
		t.Errorf("textbox round trip lost data: %+v", notes)
	}
	counter, err := got.Static("Counter")
	if err != nil {
		t.Fatalf("Static: %v", err)
	}
	if counter.Kind != field.KindCounter || counter.Value != "7" || !counter.ResetsAnnually {
		t.Errorf("counter round trip lost data: %+v", counter)
	}
}

func TestTicketRoundTripKeepsLineBreaks(t *testing.T) {
	tk := ticket.FromTemplate(buildTemplate(t))
	tk.Sequence = 3
	tk.CustomerFirstName = "Ada"
	tk.CustomerLastName = "Lovelace"
	if err := tk.SetTextboxText("Notes", "first line\nsecond line"); err != nil {
		t.Fatalf("SetTextboxText: %v", err)
	}
	if err := tk.SetCheckboxStatus("Approved", true); err != nil {
		t.Fatalf("SetCheckboxStatus: %v", err)
	}

	data, err := EncodeTicket(tk)
	if err != nil {
		t.Fatalf("EncodeTicket: %v", err)
	}
	got, err := DecodeTicket(data)
	if err != nil {
		t.Fatalf("DecodeTicket: %v", err)
	}
	if got.Sequence != 3 || got.TemplateName != "work order" {
		t.Errorf("identity round trip: sequence %d template %q", got.Sequence, got.TemplateName)
	}
	if got.CustomerFirstName != "Ada" || got.CustomerLastName != "Lovelace" {
		t.Errorf("customer round trip: %q %q", got.CustomerFirstName, got.CustomerLastName)
	}
	if got.DocumentPath != "scans/work-order.png" {
		t.Errorf("document path = %q", got.DocumentPath)
	}
	if got.Textboxes[0].Text != "first line\nsecond line" {
		t.Errorf("line break not preserved: %q", got.Textboxes[0].Text)
	}
	if !got.Checkboxes[0].Status {
		t.Error("checkbox status lost")
	}
}

func TestDecodeSortsByPriority(t *testing.T) {
	// Files written out of order still load into sorted collections.
	raw := `<?xml version="1.0" encoding="UTF-8"?>
<jobTicketTemplate>
  <name>t</name>
  <textboxes>
    <textbox><name>late</name><priority>9</priority></textbox>
    <textbox><name>early</name><priority>1</priority></textbox>
  </textboxes>
</jobTicketTemplate>`
	tpl, err := DecodeTemplate([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeTemplate: %v", err)
	}
	if tpl.Textboxes[0].Name != "early" {
		t.Errorf("decode left %q first", tpl.Textboxes[0].Name)
	}
}

func TestDecodeFailuresAreAllOrNothing(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed xml", `<jobTicketTemplate><name>t</name>`},
		{"missing name", `<jobTicketTemplate></jobTicketTemplate>`},
		{"duplicate textbox", `<jobTicketTemplate><name>t</name><textboxes>` +
			`<textbox><name>a</name></textbox><textbox><name>a</name></textbox>` +
			`</textboxes></jobTicketTemplate>`},
		{"unknown static kind", `<jobTicketTemplate><name>t</name><staticFields>` +
			`<staticField><kind>zodiac</kind><name>s</name></staticField>` +
			`</staticFields></jobTicketTemplate>`},
		{"bad counter value", `<jobTicketTemplate><name>t</name><staticFields>` +
			`<staticField><kind>counter</kind><name>c</name><value>many</value></staticField>` +
			`</staticFields></jobTicketTemplate>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := DecodeTemplate([]byte(tt.raw))
			if !errors.Is(err, ErrLoadFailure) {
				t.Errorf("err = %v, want ErrLoadFailure", err)
			}
			if tpl != nil {
				t.Error("partial template returned alongside error")
			}
		})
	}
}

func TestDecodeTicketRejectsBadSequence(t *testing.T) {
	raw := `<jobTicket><templateName>t</templateName><sequence>0</sequence></jobTicket>`
	if _, err := DecodeTicket([]byte(raw)); !errors.Is(err, ErrLoadFailure) {
		t.Errorf("err = %v, want ErrLoadFailure", err)
	}
}

func TestEncodeEmitsStableElementNames(t *testing.T) {
	data, err := EncodeTemplate(buildTemplate(t))
	if err != nil {
		t.Fatalf("EncodeTemplate: %v", err)
	}
	text := string(data)
	for _, element := range []string{
		"<jobTicketTemplate>", "<templateDocumentPath>", "<textboxes>",
		"<checkboxes>", "<staticFields>", "<staticField>",
		"<kind>counter</kind>", "<resetsAnnually>true</resetsAnnually>",
	} {
		if !strings.Contains(text, element) {
			t.Errorf("encoded template missing %s", element)
		}
	}
}

func TestFreshEntitiesCarryDocumentPathSection(t *testing.T) {
	// Even with no document assigned, the section stays in the file so
	// the on-disk shape never varies with the field's value.
	data, err := EncodeTemplate(template.New("blank"))
	if err != nil {
		t.Fatalf("EncodeTemplate: %v", err)
	}
	if !strings.Contains(string(data), "<templateDocumentPath>") {
		t.Errorf("fresh template missing document path section:\n%s", data)
	}

	tk := ticket.FromTemplate(template.New("blank"))
	tk.Sequence = 1
	data, err = EncodeTicket(tk)
	if err != nil {
		t.Fatalf("EncodeTicket: %v", err)
	}
	if !strings.Contains(string(data), "<jobTicketDocumentPath>") {
		t.Errorf("fresh ticket missing document path section:\n%s", data)
	}
}
