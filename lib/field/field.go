// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"errors"
	"fmt"
	"strings"
)

// Validation limits. Geometry is bounded by the caller-supplied Bounds;
// font size and priority have fixed ranges.
const (
	MinFontSize = 8
	MaxFontSize = 100
	MinPriority = 0
	MaxPriority = 1000
)

// Defaults for newly created fields.
const (
	DefaultFontSize = 11
	DefaultWidth    = 10
	DefaultHeight   = 10
	DefaultScale    = 1
)

// CheckboxEdge is the base edge length in pixels of a rendered
// checkbox before its Scale multiplier is applied.
const CheckboxEdge = 10

// Sentinel errors for field-level operations. Callers match with
// errors.Is and translate into user-facing messages.
var (
	// ErrNotFound reports a name-keyed lookup that matched nothing.
	ErrNotFound = errors.New("field not found")

	// ErrOutOfRange reports a geometry, font size, or priority value
	// outside its permitted range. The mutation is rejected and the
	// field is left unchanged.
	ErrOutOfRange = errors.New("value out of range")

	// ErrNameTaken reports a rename that would collide with another
	// field of the same type in the same collection.
	ErrNameTaken = errors.New("field name already in use")

	// ErrEmptyName reports a name that is empty after sanitization.
	ErrEmptyName = errors.New("field name is empty")
)

// Bounds is the pixel extent of the rendering surface a field is
// anchored to. The zero value means "unbounded" — used by loaders,
// which must accept whatever geometry was persisted.
type Bounds struct {
	Width  float64
	Height float64
}

// Unbounded reports whether the bounds impose no constraint.
func (b Bounds) Unbounded() bool { return b.Width <= 0 && b.Height <= 0 }

// CheckPoint validates that the point (x, y) lies on the surface.
func (b Bounds) CheckPoint(x, y float64) error {
	if x < 0 || y < 0 {
		return fmt.Errorf("position (%g, %g): %w", x, y, ErrOutOfRange)
	}
	if b.Unbounded() {
		return nil
	}
	if x > b.Width || y > b.Height {
		return fmt.Errorf("position (%g, %g) outside %gx%g surface: %w", x, y, b.Width, b.Height, ErrOutOfRange)
	}
	return nil
}

// CheckSize validates a width/height pair against the surface extent.
func (b Bounds) CheckSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("dimensions %gx%g: %w", width, height, ErrOutOfRange)
	}
	if b.Unbounded() {
		return nil
	}
	if width > b.Width || height > b.Height {
		return fmt.Errorf("dimensions %gx%g exceed %gx%g surface: %w", width, height, b.Width, b.Height, ErrOutOfRange)
	}
	return nil
}

// CheckFontSize validates a font size against the fixed range.
func CheckFontSize(size float64) error {
	if size < MinFontSize || size > MaxFontSize {
		return fmt.Errorf("font size %g not in [%d, %d]: %w", size, MinFontSize, MaxFontSize, ErrOutOfRange)
	}
	return nil
}

// CheckPriority validates a priority against the fixed range.
func CheckPriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return fmt.Errorf("priority %d not in [%d, %d]: %w", priority, MinPriority, MaxPriority, ErrOutOfRange)
	}
	return nil
}

// SanitizeName strips characters from a candidate field name that are
// unsafe for name-keyed lookup or for the entity filenames names end
// up embedded in, and trims surrounding whitespace. The result is
// deterministic: equal inputs always sanitize to equal outputs.
func SanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return -1
		default:
			return r
		}
	}, name)
	return strings.TrimSpace(cleaned)
}

// Textbox is a free-text field. On a template the Text is empty and
// the definition describes where user-entered text will be placed; on
// a ticket the Text holds what the user entered, with embedded '\n'
// line-break markers kept verbatim.
type Textbox struct {
	Name     string
	X, Y     float64
	Width    float64
	Height   float64
	FontSize float64
	Priority int
	Required bool
	Text     string
}

// NewTextbox returns a Textbox with default geometry at the origin.
// The caller assigns Name and Priority when adding it to a collection.
func NewTextbox() Textbox {
	return Textbox{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FontSize: DefaultFontSize,
	}
}

// Checkbox is a boolean field rendered as a square of edge
// CheckboxEdge × Scale. On a ticket the Status holds the user's
// choice.
type Checkbox struct {
	Name     string
	X, Y     float64
	Scale    float64
	FontSize float64
	Priority int
	Required bool
	Status   bool
}

// NewCheckbox returns a Checkbox with default scale at the origin.
func NewCheckbox() Checkbox {
	return Checkbox{
		Scale:    DefaultScale,
		FontSize: DefaultFontSize,
	}
}
