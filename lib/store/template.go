// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ticketsmith/ticketsmith/lib/codec"
	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/resolve"
	"github.com/ticketsmith/ticketsmith/lib/template"
)

func (db *Database) templatePath(name string) string {
	return filepath.Join(db.dir, templatesDir, name+".xml")
}

// ListTemplates returns the names of every template in the database,
// sorted. Unreadable files are listed too; the failure surfaces on
// load.
func (db *Database) ListTemplates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(db.dir, templatesDir))
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(e.Name(), ".xml")
		if !ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadTemplate reads and decodes the named template. A template whose
// file was last written in an earlier calendar year has its
// annually-resetting counters zeroed and re-persisted before it is
// returned, so stale counts never reach a new ticket. Templates
// restored from a backup roll over the same way: the decision rides
// on the file itself, not on database-wide bookkeeping.
func (db *Database) LoadTemplate(name string) (*template.Template, error) {
	path := db.templatePath(name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("template %q: %w", name, ErrMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %q: %w", name, err)
	}
	tpl, err := codec.DecodeTemplate(data)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	if info, err := os.Stat(path); err == nil && info.ModTime().Year() < db.clock.Now().Year() {
		if n := resolve.ResetAnnualCounters(tpl); n > 0 {
			if err := db.SaveTemplate(tpl); err != nil {
				return nil, fmt.Errorf("annual rollover saving %q: %w", name, err)
			}
			db.logger.Info("annual rollover reset counters",
				"template", name, "counters", n, "year", db.clock.Now().Year())
		}
	}
	return tpl, nil
}

// SaveTemplate persists the template under its name and clears its
// dirty flag.
func (db *Database) SaveTemplate(tpl *template.Template) error {
	if tpl.Name == "" {
		return fmt.Errorf("template: %w", field.ErrEmptyName)
	}
	data, err := codec.EncodeTemplate(tpl)
	if err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := writeFileAtomic(db.templatePath(tpl.Name), data); err != nil {
		return err
	}
	db.stampModTime(db.templatePath(tpl.Name))
	tpl.ClearDirty()
	db.logger.Debug("template saved", "template", tpl.Name)
	return nil
}

// stampModTime sets a template file's modification time from the
// database clock. The annual rollover keys off the file's
// modification year, so the written timestamp must come from the same
// clock the rollover compares against.
func (db *Database) stampModTime(path string) {
	now := db.clock.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		db.logger.Warn("stamping template time failed", "path", path, "error", err)
	}
}

// CreateTemplate persists a brand-new template, refusing to overwrite
// an existing one of the same name.
func (db *Database) CreateTemplate(tpl *template.Template) error {
	if tpl.Name == "" {
		return fmt.Errorf("template: %w", field.ErrEmptyName)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, err := os.Stat(db.templatePath(tpl.Name)); err == nil {
		return fmt.Errorf("template %q: %w", tpl.Name, ErrExists)
	}
	data, err := codec.EncodeTemplate(tpl)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(db.templatePath(tpl.Name), data); err != nil {
		return err
	}
	db.stampModTime(db.templatePath(tpl.Name))
	tpl.ClearDirty()
	db.logger.Info("template created", "template", tpl.Name)
	return nil
}

// RenameTemplate changes a template's name on disk. Tickets already
// created from it keep the old name in their identity; they are
// snapshots and do not follow the template. A rename that collides
// with an existing template is rejected.
func (db *Database) RenameTemplate(from, to string) error {
	to = field.SanitizeName(to)
	if to == "" {
		return fmt.Errorf("rename template %q: %w", from, field.ErrEmptyName)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, err := os.Stat(db.templatePath(to)); err == nil {
		return fmt.Errorf("rename template %q to %q: %w", from, to, ErrExists)
	}
	data, err := os.ReadFile(db.templatePath(from))
	if os.IsNotExist(err) {
		return fmt.Errorf("template %q: %w", from, ErrMissing)
	}
	if err != nil {
		return fmt.Errorf("reading template %q: %w", from, err)
	}
	tpl, err := codec.DecodeTemplate(data)
	if err != nil {
		return fmt.Errorf("template %q: %w", from, err)
	}
	tpl.Name = to
	out, err := codec.EncodeTemplate(tpl)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(db.templatePath(to), out); err != nil {
		return err
	}
	// Carry the old modification time across so a rollover the old
	// file was still owed is not lost by the rename.
	if info, err := os.Stat(db.templatePath(from)); err == nil {
		if err := os.Chtimes(db.templatePath(to), info.ModTime(), info.ModTime()); err != nil {
			db.logger.Warn("stamping template time failed", "path", db.templatePath(to), "error", err)
		}
	}
	if err := os.Remove(db.templatePath(from)); err != nil {
		return fmt.Errorf("removing old template %q: %w", from, err)
	}
	db.logger.Info("template renamed", "from", from, "to", to)
	return nil
}

// DeleteTemplate removes the named template. Its tickets remain;
// they are self-contained.
func (db *Database) DeleteTemplate(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	err := os.Remove(db.templatePath(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("template %q: %w", name, ErrMissing)
	}
	if err != nil {
		return fmt.Errorf("deleting template %q: %w", name, err)
	}
	db.logger.Info("template deleted", "template", name)
	return nil
}
