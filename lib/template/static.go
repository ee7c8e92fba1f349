// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/ticketsmith/ticketsmith/lib/field"
)

func (t *Template) staticNameTaken(name string) bool {
	return slices.ContainsFunc(t.Statics, func(s field.StaticField) bool { return s.Name == name })
}

func (t *Template) indexStatic(name string) (int, error) {
	for i := range t.Statics {
		if t.Statics[i].Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("static field %q: %w", name, field.ErrNotFound)
}

// AddStatic appends a new static field of the given kind, named after
// the kind's display name and deduplicated against the collection. It
// returns the actual name.
func (t *Template) AddStatic(kind field.Kind) string {
	s := field.NewStatic(kind)
	s.Name = uniqueName(s.Name, t.staticNameTaken)
	t.Statics = append(t.Statics, s)
	t.dirty = true
	return s.Name
}

// Static returns a copy of the named static field.
func (t *Template) Static(name string) (field.StaticField, error) {
	i, err := t.indexStatic(name)
	if err != nil {
		return field.StaticField{}, err
	}
	return t.Statics[i], nil
}

// RemoveStatic deletes the named static field.
func (t *Template) RemoveStatic(name string) error {
	i, err := t.indexStatic(name)
	if err != nil {
		return err
	}
	t.Statics = slices.Delete(t.Statics, i, i+1)
	t.dirty = true
	return nil
}

// RenameStatic changes a static field's name, rejecting collisions.
func (t *Template) RenameStatic(name, to string) error {
	i, err := t.indexStatic(name)
	if err != nil {
		return err
	}
	to = field.SanitizeName(to)
	if to == "" {
		return fmt.Errorf("rename %q: %w", name, field.ErrEmptyName)
	}
	if to == name {
		return nil
	}
	if t.staticNameTaken(to) {
		return fmt.Errorf("rename %q to %q: %w", name, to, field.ErrNameTaken)
	}
	t.Statics[i].Name = to
	t.dirty = true
	return nil
}

// SetStaticPosition moves a static field, validated against the page.
func (t *Template) SetStaticPosition(name string, x, y float64) error {
	i, err := t.indexStatic(name)
	if err != nil {
		return err
	}
	if err := t.Page.CheckPoint(x, y); err != nil {
		return err
	}
	t.Statics[i].X, t.Statics[i].Y = x, y
	t.dirty = true
	return nil
}

// SetStaticFontSize changes a static field's font size and recomputes
// its bounding box for the new size.
func (t *Template) SetStaticFontSize(name string, size float64) error {
	i, err := t.indexStatic(name)
	if err != nil {
		return err
	}
	if err := field.CheckFontSize(size); err != nil {
		return err
	}
	t.Statics[i].FontSize = size
	t.Statics[i].Resize()
	t.dirty = true
	return nil
}

// SetCounterValue overwrites a counter's stored count. Only counters
// carry a persistent value on a template, and it must be non-negative
// decimal text.
func (t *Template) SetCounterValue(name, value string) error {
	i, err := t.indexStatic(name)
	if err != nil {
		return err
	}
	if t.Statics[i].Kind != field.KindCounter {
		return fmt.Errorf("static field %q is not a counter: %w", name, field.ErrOutOfRange)
	}
	n, perr := strconv.Atoi(value)
	if perr != nil || n < 0 {
		return fmt.Errorf("counter value %q: %w", value, field.ErrOutOfRange)
	}
	t.Statics[i].Value = value
	t.dirty = true
	return nil
}

// SetResetsAnnually marks or unmarks a counter for the year-rollover
// reset policy. Rejected for non-counter kinds.
func (t *Template) SetResetsAnnually(name string, resets bool) error {
	i, err := t.indexStatic(name)
	if err != nil {
		return err
	}
	if t.Statics[i].Kind != field.KindCounter {
		return fmt.Errorf("static field %q is not a counter: %w", name, field.ErrOutOfRange)
	}
	t.Statics[i].ResetsAnnually = resets
	t.dirty = true
	return nil
}
