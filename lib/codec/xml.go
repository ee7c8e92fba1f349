// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"

	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/template"
	"github.com/ticketsmith/ticketsmith/lib/ticket"
)

// ErrLoadFailure reports an entity file that could not be decoded
// into a valid template or ticket. The load produces no partial
// object; the underlying cause is wrapped.
var ErrLoadFailure = errors.New("entity file unreadable")

// Wire representation of the entity files. The element names are the
// on-disk contract; changing one orphans every database written
// before the change.

type xmlTextbox struct {
	Name     string  `xml:"name"`
	X        float64 `xml:"x"`
	Y        float64 `xml:"y"`
	Width    float64 `xml:"width"`
	Height   float64 `xml:"height"`
	FontSize float64 `xml:"fontSize"`
	Priority int     `xml:"priority"`
	Required bool    `xml:"required"`
	Text     string  `xml:"text"`
}

type xmlCheckbox struct {
	Name     string  `xml:"name"`
	X        float64 `xml:"x"`
	Y        float64 `xml:"y"`
	Scale    float64 `xml:"scale"`
	FontSize float64 `xml:"fontSize"`
	Priority int     `xml:"priority"`
	Required bool    `xml:"required"`
	Status   bool    `xml:"status"`
}

type xmlStatic struct {
	Kind           string  `xml:"kind"`
	Name           string  `xml:"name"`
	X              float64 `xml:"x"`
	Y              float64 `xml:"y"`
	FontSize       float64 `xml:"fontSize"`
	Width          float64 `xml:"width"`
	Height         float64 `xml:"height"`
	Value          string  `xml:"value"`
	ResetsAnnually bool    `xml:"resetsAnnually"`
}

type xmlTemplate struct {
	XMLName      xml.Name      `xml:"jobTicketTemplate"`
	Name         string        `xml:"name"`
	DocumentPath string        `xml:"templateDocumentPath"`
	Textboxes    []xmlTextbox  `xml:"textboxes>textbox"`
	Checkboxes   []xmlCheckbox `xml:"checkboxes>checkbox"`
	Statics      []xmlStatic   `xml:"staticFields>staticField"`
}

type xmlTicket struct {
	XMLName           xml.Name      `xml:"jobTicket"`
	TemplateName      string        `xml:"templateName"`
	Sequence          int           `xml:"sequence"`
	DocumentPath      string        `xml:"jobTicketDocumentPath"`
	CustomerFirstName string        `xml:"customerFirstName"`
	CustomerLastName  string        `xml:"customerLastName"`
	Textboxes         []xmlTextbox  `xml:"textboxes>textbox"`
	Checkboxes        []xmlCheckbox `xml:"checkboxes>checkbox"`
	Statics           []xmlStatic   `xml:"staticFields>staticField"`
}

func textboxesToWire(in []field.Textbox) []xmlTextbox {
	out := make([]xmlTextbox, len(in))
	for i, b := range in {
		out[i] = xmlTextbox{
			Name:     b.Name,
			X:        b.X,
			Y:        b.Y,
			Width:    b.Width,
			Height:   b.Height,
			FontSize: b.FontSize,
			Priority: b.Priority,
			Required: b.Required,
			Text:     b.Text,
		}
	}
	return out
}

func checkboxesToWire(in []field.Checkbox) []xmlCheckbox {
	out := make([]xmlCheckbox, len(in))
	for i, b := range in {
		out[i] = xmlCheckbox{
			Name:     b.Name,
			X:        b.X,
			Y:        b.Y,
			Scale:    b.Scale,
			FontSize: b.FontSize,
			Priority: b.Priority,
			Required: b.Required,
			Status:   b.Status,
		}
	}
	return out
}

func staticsToWire(in []field.StaticField) []xmlStatic {
	out := make([]xmlStatic, len(in))
	for i, s := range in {
		out[i] = xmlStatic{
			Kind:           s.Kind.Tag(),
			Name:           s.Name,
			X:              s.X,
			Y:              s.Y,
			FontSize:       s.FontSize,
			Width:          s.Width,
			Height:         s.Height,
			Value:          s.Value,
			ResetsAnnually: s.ResetsAnnually,
		}
	}
	return out
}

func textboxesFromWire(in []xmlTextbox) ([]field.Textbox, error) {
	seen := make(map[string]bool, len(in))
	out := make([]field.Textbox, len(in))
	for i, b := range in {
		if b.Name == "" {
			return nil, fmt.Errorf("textbox %d has no name", i)
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("duplicate textbox name %q", b.Name)
		}
		seen[b.Name] = true
		out[i] = field.Textbox{
			Name:     b.Name,
			X:        b.X,
			Y:        b.Y,
			Width:    b.Width,
			Height:   b.Height,
			FontSize: b.FontSize,
			Priority: b.Priority,
			Required: b.Required,
			Text:     b.Text,
		}
	}
	return out, nil
}

func checkboxesFromWire(in []xmlCheckbox) ([]field.Checkbox, error) {
	seen := make(map[string]bool, len(in))
	out := make([]field.Checkbox, len(in))
	for i, b := range in {
		if b.Name == "" {
			return nil, fmt.Errorf("checkbox %d has no name", i)
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("duplicate checkbox name %q", b.Name)
		}
		seen[b.Name] = true
		out[i] = field.Checkbox{
			Name:     b.Name,
			X:        b.X,
			Y:        b.Y,
			Scale:    b.Scale,
			FontSize: b.FontSize,
			Priority: b.Priority,
			Required: b.Required,
			Status:   b.Status,
		}
	}
	return out, nil
}

func staticsFromWire(in []xmlStatic) ([]field.StaticField, error) {
	seen := make(map[string]bool, len(in))
	out := make([]field.StaticField, len(in))
	for i, s := range in {
		kind, err := field.KindFromTag(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("static field %d: %w", i, err)
		}
		if s.Name == "" {
			return nil, fmt.Errorf("static field %d has no name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate static field name %q", s.Name)
		}
		seen[s.Name] = true
		if kind == field.KindCounter {
			n, perr := strconv.Atoi(s.Value)
			if perr != nil || n < 0 {
				return nil, fmt.Errorf("counter %q has value %q, want non-negative integer", s.Name, s.Value)
			}
		}
		out[i] = field.StaticField{
			Kind:           kind,
			Name:           s.Name,
			X:              s.X,
			Y:              s.Y,
			FontSize:       s.FontSize,
			Width:          s.Width,
			Height:         s.Height,
			Value:          s.Value,
			ResetsAnnually: s.ResetsAnnually,
		}
	}
	return out, nil
}

// EncodeTemplate serializes a template to its XML entity form.
func EncodeTemplate(tpl *template.Template) ([]byte, error) {
	doc := xmlTemplate{
		Name:         tpl.Name,
		DocumentPath: tpl.DocumentPath,
		Textboxes:    textboxesToWire(tpl.Textboxes),
		Checkboxes:   checkboxesToWire(tpl.Checkboxes),
		Statics:      staticsToWire(tpl.Statics),
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding template %q: %w", tpl.Name, err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// DecodeTemplate parses an XML entity file into a template. The
// result is sorted and clean (not dirty); any failure yields
// ErrLoadFailure and no template.
func DecodeTemplate(data []byte) (*template.Template, error) {
	var doc xmlTemplate
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: template has no name", ErrLoadFailure)
	}
	textboxes, err := textboxesFromWire(doc.Textboxes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	checkboxes, err := checkboxesFromWire(doc.Checkboxes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	statics, err := staticsFromWire(doc.Statics)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	tpl := template.New(doc.Name)
	tpl.DocumentPath = doc.DocumentPath
	tpl.Textboxes = textboxes
	tpl.Checkboxes = checkboxes
	tpl.Statics = statics
	tpl.Sort()
	return tpl, nil
}

// EncodeTicket serializes a ticket to its XML entity form.
func EncodeTicket(tk *ticket.Ticket) ([]byte, error) {
	doc := xmlTicket{
		TemplateName:      tk.TemplateName,
		Sequence:          tk.Sequence,
		DocumentPath:      tk.DocumentPath,
		CustomerFirstName: tk.CustomerFirstName,
		CustomerLastName:  tk.CustomerLastName,
		Textboxes:         textboxesToWire(tk.Textboxes),
		Checkboxes:        checkboxesToWire(tk.Checkboxes),
		Statics:           staticsToWire(tk.Statics),
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding ticket %d %q: %w", tk.Sequence, tk.TemplateName, err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// DecodeTicket parses an XML entity file into a ticket, sorted and
// clean. Any failure yields ErrLoadFailure and no ticket.
func DecodeTicket(data []byte) (*ticket.Ticket, error) {
	var doc xmlTicket
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	if doc.TemplateName == "" {
		return nil, fmt.Errorf("%w: ticket has no template name", ErrLoadFailure)
	}
	if doc.Sequence < 1 {
		return nil, fmt.Errorf("%w: ticket sequence %d, want positive", ErrLoadFailure, doc.Sequence)
	}
	textboxes, err := textboxesFromWire(doc.Textboxes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	checkboxes, err := checkboxesFromWire(doc.Checkboxes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	statics, err := staticsFromWire(doc.Statics)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailure, err)
	}
	tk := &ticket.Ticket{
		TemplateName:      doc.TemplateName,
		Sequence:          doc.Sequence,
		DocumentPath:      doc.DocumentPath,
		CustomerFirstName: doc.CustomerFirstName,
		CustomerLastName:  doc.CustomerLastName,
		Textboxes:         textboxes,
		Checkboxes:        checkboxes,
		Statics:           statics,
	}
	tk.Sort()
	return tk, nil
}
