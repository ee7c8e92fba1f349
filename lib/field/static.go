// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package field

import "fmt"

// Kind identifies what a static field resolves to at ticket-creation
// time.
type Kind int

const (
	// KindCustomerFirstName resolves to the customer first name
	// entered for the ticket.
	KindCustomerFirstName Kind = iota

	// KindCustomerLastName resolves to the customer last name.
	KindCustomerLastName

	// KindCounter resolves to the template's running counter plus
	// one; the template's stored value is advanced in the same step.
	KindCounter

	// KindDay resolves to the numeric day of month at creation time.
	KindDay

	// KindMonth resolves to the numeric month at creation time.
	KindMonth

	// KindYear resolves to the 4-digit year at creation time.
	KindYear

	// KindTimeStamp resolves to the clock time at creation, hour,
	// minute, and second concatenated without separators (HHMMSS,
	// 24-hour).
	KindTimeStamp

	// KindTemplateID resolves to the sequence number the store
	// assigns the new ticket.
	KindTemplateID
)

// Kinds lists every static field kind in resolution order.
var Kinds = []Kind{
	KindCustomerFirstName,
	KindCustomerLastName,
	KindCounter,
	KindDay,
	KindMonth,
	KindYear,
	KindTimeStamp,
	KindTemplateID,
}

// String returns the display name of the kind, which is also the base
// name given to newly added static fields.
func (k Kind) String() string {
	switch k {
	case KindCustomerFirstName:
		return "Customer First Name"
	case KindCustomerLastName:
		return "Customer Last Name"
	case KindCounter:
		return "Counter"
	case KindDay:
		return "Day"
	case KindMonth:
		return "Month"
	case KindYear:
		return "Year"
	case KindTimeStamp:
		return "Time Stamp"
	case KindTemplateID:
		return "Template ID"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tag returns the stable lowercase identifier used in persisted files
// and CLI arguments.
func (k Kind) Tag() string {
	switch k {
	case KindCustomerFirstName:
		return "customerFirstName"
	case KindCustomerLastName:
		return "customerLastName"
	case KindCounter:
		return "counter"
	case KindDay:
		return "day"
	case KindMonth:
		return "month"
	case KindYear:
		return "year"
	case KindTimeStamp:
		return "timeStamp"
	case KindTemplateID:
		return "templateID"
	default:
		return fmt.Sprintf("kind%d", int(k))
	}
}

// KindFromTag maps a persisted tag back to its Kind.
func KindFromTag(tag string) (Kind, error) {
	for _, k := range Kinds {
		if k.Tag() == tag {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown static field kind %q", tag)
}

// maxChars is the widest value the kind can resolve to, in characters.
// The rendered bounding box is sized so that the widest value fits at
// the field's font size.
func (k Kind) maxChars() int {
	switch k {
	case KindCustomerFirstName, KindCustomerLastName:
		return 10
	case KindCounter:
		return 12
	case KindDay, KindMonth:
		return 2
	case KindYear:
		return 4
	case KindTimeStamp:
		return 11
	case KindTemplateID:
		return 9
	default:
		return 10
	}
}

// lineHeightFactor converts a font size into the height of a single
// rendered text line.
const lineHeightFactor = 1.66

// StaticField is an auto-resolved field. Value is empty on a template
// except for Counter fields, where it holds the running count as
// non-negative decimal text; on a ticket Value holds the resolved text.
// ResetsAnnually applies to Counter fields only and marks the counter
// for the year-rollover reset policy.
type StaticField struct {
	Kind           Kind
	Name           string
	X, Y           float64
	FontSize       float64
	Width          float64
	Height         float64
	Value          string
	ResetsAnnually bool
}

// NewStatic returns a StaticField of the given kind with default font
// size and a bounding box sized for the kind's widest value. Counter
// fields start at "0".
func NewStatic(kind Kind) StaticField {
	s := StaticField{
		Kind:     kind,
		Name:     kind.String(),
		FontSize: DefaultFontSize,
	}
	if kind == KindCounter {
		s.Value = "0"
	}
	s.Resize()
	return s
}

// Resize recomputes the bounding box from the current font size and
// the kind's widest value. Called after every font size change.
func (s *StaticField) Resize() {
	s.Width = s.FontSize*float64(s.Kind.maxChars()) + 1
	s.Height = s.FontSize * lineHeightFactor
}
