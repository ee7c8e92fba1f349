// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package template

import (
	"fmt"
	"slices"

	"github.com/ticketsmith/ticketsmith/lib/compose"
	"github.com/ticketsmith/ticketsmith/lib/field"
)

// Template is a job ticket layout. The collections are exported for
// the file codec and for read-only traversal; everything else goes
// through the name-keyed methods, which maintain the priority sort
// order and the dirty flag.
//
// Page bounds position and size mutations are validated against. The
// zero value is unbounded, so a freshly loaded template accepts its
// persisted geometry regardless of the surface it was designed for.
type Template struct {
	Name string

	// DocumentPath is where the source document the template is laid
	// out over lives (the scanned form, letterhead, or blank page
	// image). Empty means no backing document.
	DocumentPath string

	Page       field.Bounds
	Textboxes  []field.Textbox
	Checkboxes []field.Checkbox
	Statics    []field.StaticField

	dirty bool
}

// New returns an empty template with the given (sanitized) name.
func New(name string) *Template {
	return &Template{Name: field.SanitizeName(name)}
}

// Dirty reports whether the template has mutations not yet persisted.
func (t *Template) Dirty() bool { return t.dirty }

// ClearDirty marks the template as persisted. Called by the store
// after a successful save.
func (t *Template) ClearDirty() { t.dirty = false }

// MarkDirty records an out-of-band mutation, such as a counter
// advance performed during ticket resolution.
func (t *Template) MarkDirty() { t.dirty = true }

// SetDocumentPath points the template at a new source document.
func (t *Template) SetDocumentPath(path string) {
	if t.DocumentPath == path {
		return
	}
	t.DocumentPath = path
	t.dirty = true
}

// Order returns the combined traversal order of the textbox and
// checkbox collections.
func (t *Template) Order() []compose.Entry {
	return compose.Merge(t.Textboxes, t.Checkboxes)
}

// Sort stably re-sorts both collections ascending by priority. The
// mutators call it themselves; loaders call it once after decoding,
// since persisted files are not trusted to be in order.
func (t *Template) Sort() {
	slices.SortStableFunc(t.Textboxes, func(a, b field.Textbox) int {
		return a.Priority - b.Priority
	})
	slices.SortStableFunc(t.Checkboxes, func(a, b field.Checkbox) int {
		return a.Priority - b.Priority
	})
}

// nextPriority returns the priority for a newly added field: one past
// the highest tail priority of either collection, so new fields land
// at the end of the combined order.
func (t *Template) nextPriority() int {
	last := -1
	if n := len(t.Textboxes); n > 0 && t.Textboxes[n-1].Priority > last {
		last = t.Textboxes[n-1].Priority
	}
	if n := len(t.Checkboxes); n > 0 && t.Checkboxes[n-1].Priority > last {
		last = t.Checkboxes[n-1].Priority
	}
	return last + 1
}

func (t *Template) textboxNameTaken(name string) bool {
	return slices.ContainsFunc(t.Textboxes, func(b field.Textbox) bool { return b.Name == name })
}

func (t *Template) checkboxNameTaken(name string) bool {
	return slices.ContainsFunc(t.Checkboxes, func(b field.Checkbox) bool { return b.Name == name })
}

// uniqueName suffixes base with " (n)" until taken reports it free.
func uniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if !taken(candidate) {
			return candidate
		}
	}
}

// AddTextbox appends a new textbox with default geometry, named after
// the sanitized request (or "Textbox" when that sanitizes to nothing)
// and deduplicated against the collection. It returns the actual name.
func (t *Template) AddTextbox(name string) string {
	base := field.SanitizeName(name)
	if base == "" {
		base = "Textbox"
	}
	b := field.NewTextbox()
	b.Name = uniqueName(base, t.textboxNameTaken)
	b.Priority = t.nextPriority()
	t.Textboxes = append(t.Textboxes, b)
	t.dirty = true
	return b.Name
}

// AddCheckbox appends a new checkbox, deduplicated the same way as
// AddTextbox ("Checkbox" when the request sanitizes to nothing).
func (t *Template) AddCheckbox(name string) string {
	base := field.SanitizeName(name)
	if base == "" {
		base = "Checkbox"
	}
	b := field.NewCheckbox()
	b.Name = uniqueName(base, t.checkboxNameTaken)
	b.Priority = t.nextPriority()
	t.Checkboxes = append(t.Checkboxes, b)
	t.dirty = true
	return b.Name
}

// indexTextbox returns the position of the named textbox, or an error
// wrapping field.ErrNotFound.
func (t *Template) indexTextbox(name string) (int, error) {
	for i := range t.Textboxes {
		if t.Textboxes[i].Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("textbox %q: %w", name, field.ErrNotFound)
}

func (t *Template) indexCheckbox(name string) (int, error) {
	for i := range t.Checkboxes {
		if t.Checkboxes[i].Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("checkbox %q: %w", name, field.ErrNotFound)
}

// Textbox returns a copy of the named textbox.
func (t *Template) Textbox(name string) (field.Textbox, error) {
	i, err := t.indexTextbox(name)
	if err != nil {
		return field.Textbox{}, err
	}
	return t.Textboxes[i], nil
}

// Checkbox returns a copy of the named checkbox.
func (t *Template) Checkbox(name string) (field.Checkbox, error) {
	i, err := t.indexCheckbox(name)
	if err != nil {
		return field.Checkbox{}, err
	}
	return t.Checkboxes[i], nil
}

// RemoveTextbox deletes the named textbox.
func (t *Template) RemoveTextbox(name string) error {
	i, err := t.indexTextbox(name)
	if err != nil {
		return err
	}
	t.Textboxes = slices.Delete(t.Textboxes, i, i+1)
	t.dirty = true
	return nil
}

// RemoveCheckbox deletes the named checkbox.
func (t *Template) RemoveCheckbox(name string) error {
	i, err := t.indexCheckbox(name)
	if err != nil {
		return err
	}
	t.Checkboxes = slices.Delete(t.Checkboxes, i, i+1)
	t.dirty = true
	return nil
}

// RenameTextbox changes a textbox's name. Unlike adding, a rename
// that collides with another textbox is rejected rather than
// deduplicated; renaming a field to its current name is a no-op.
func (t *Template) RenameTextbox(name, to string) error {
	i, err := t.indexTextbox(name)
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
	if t.textboxNameTaken(to) {
		return fmt.Errorf("rename %q to %q: %w", name, to, field.ErrNameTaken)
	}
	t.Textboxes[i].Name = to
	t.dirty = true
	return nil
}

// RenameCheckbox changes a checkbox's name, with the same collision
// rules as RenameTextbox.
func (t *Template) RenameCheckbox(name, to string) error {
	i, err := t.indexCheckbox(name)
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
	if t.checkboxNameTaken(to) {
		return fmt.Errorf("rename %q to %q: %w", name, to, field.ErrNameTaken)
	}
	t.Checkboxes[i].Name = to
	t.dirty = true
	return nil
}

// SetTextboxPosition moves a textbox, validated against the page.
func (t *Template) SetTextboxPosition(name string, x, y float64) error {
	i, err := t.indexTextbox(name)
	if err != nil {
		return err
	}
	if err := t.Page.CheckPoint(x, y); err != nil {
		return err
	}
	t.Textboxes[i].X, t.Textboxes[i].Y = x, y
	t.dirty = true
	return nil
}

// SetTextboxSize resizes a textbox, validated against the page.
func (t *Template) SetTextboxSize(name string, width, height float64) error {
	i, err := t.indexTextbox(name)
	if err != nil {
		return err
	}
	if err := t.Page.CheckSize(width, height); err != nil {
		return err
	}
	t.Textboxes[i].Width, t.Textboxes[i].Height = width, height
	t.dirty = true
	return nil
}

// SetTextboxFontSize changes a textbox's font size.
func (t *Template) SetTextboxFontSize(name string, size float64) error {
	i, err := t.indexTextbox(name)
	if err != nil {
		return err
	}
	if err := field.CheckFontSize(size); err != nil {
		return err
	}
	t.Textboxes[i].FontSize = size
	t.dirty = true
	return nil
}

// SetTextboxRequired flags whether the textbox must be filled before
// a ticket built from this template can be saved.
func (t *Template) SetTextboxRequired(name string, required bool) error {
	i, err := t.indexTextbox(name)
	if err != nil {
		return err
	}
	t.Textboxes[i].Required = required
	t.dirty = true
	return nil
}

// SetCheckboxPosition moves a checkbox, validated against the page.
func (t *Template) SetCheckboxPosition(name string, x, y float64) error {
	i, err := t.indexCheckbox(name)
	if err != nil {
		return err
	}
	if err := t.Page.CheckPoint(x, y); err != nil {
		return err
	}
	t.Checkboxes[i].X, t.Checkboxes[i].Y = x, y
	t.dirty = true
	return nil
}

// SetCheckboxScale changes the edge multiplier of a checkbox.
func (t *Template) SetCheckboxScale(name string, scale float64) error {
	i, err := t.indexCheckbox(name)
	if err != nil {
		return err
	}
	if scale <= 0 {
		return fmt.Errorf("checkbox scale %g: %w", scale, field.ErrOutOfRange)
	}
	t.Checkboxes[i].Scale = scale
	t.dirty = true
	return nil
}

// SetCheckboxFontSize changes a checkbox's label font size.
func (t *Template) SetCheckboxFontSize(name string, size float64) error {
	i, err := t.indexCheckbox(name)
	if err != nil {
		return err
	}
	if err := field.CheckFontSize(size); err != nil {
		return err
	}
	t.Checkboxes[i].FontSize = size
	t.dirty = true
	return nil
}

// SetCheckboxRequired flags whether the checkbox must be ticked
// before a ticket built from this template can be saved.
func (t *Template) SetCheckboxRequired(name string, required bool) error {
	i, err := t.indexCheckbox(name)
	if err != nil {
		return err
	}
	t.Checkboxes[i].Required = required
	t.dirty = true
	return nil
}

// SetTextboxPriority moves a textbox within the combined order. Other
// fields colliding with the new priority are cascaded upward, then
// both collections are re-sorted.
func (t *Template) SetTextboxPriority(name string, priority int) error {
	i, err := t.indexTextbox(name)
	if err != nil {
		return err
	}
	if err := field.CheckPriority(priority); err != nil {
		return err
	}
	t.Textboxes[i].Priority = priority
	t.cascade(&t.Textboxes[i].Priority, priority)
	t.Sort()
	t.dirty = true
	return nil
}

// SetCheckboxPriority moves a checkbox within the combined order,
// with the same cascade as SetTextboxPriority.
func (t *Template) SetCheckboxPriority(name string, priority int) error {
	i, err := t.indexCheckbox(name)
	if err != nil {
		return err
	}
	if err := field.CheckPriority(priority); err != nil {
		return err
	}
	t.Checkboxes[i].Priority = priority
	t.cascade(&t.Checkboxes[i].Priority, priority)
	t.Sort()
	t.dirty = true
	return nil
}

// cascade pushes priority collisions upward. Starting from the field
// that was just assigned p (identified by the address of its Priority,
// so the chain never bumps the field it just moved), any other field
// holding p is bumped to p+1, which may in turn collide, and so on
// until a free value is reached. The chain can push priorities past
// the assignable maximum; those remain valid ordering keys, they are
// just not directly assignable.
func (t *Template) cascade(justSet *int, p int) {
	for {
		bumped := false
		for i := range t.Textboxes {
			if &t.Textboxes[i].Priority != justSet && t.Textboxes[i].Priority == p {
				t.Textboxes[i].Priority = p + 1
				justSet = &t.Textboxes[i].Priority
				p++
				bumped = true
				break
			}
		}
		if !bumped {
			for i := range t.Checkboxes {
				if &t.Checkboxes[i].Priority != justSet && t.Checkboxes[i].Priority == p {
					t.Checkboxes[i].Priority = p + 1
					justSet = &t.Checkboxes[i].Priority
					p++
					bumped = true
					break
				}
			}
		}
		if !bumped {
			return
		}
	}
}
