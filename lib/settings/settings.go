// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the settings file name under the user's config
// directory.
const DefaultFileName = "ticketsmith.yaml"

// System is the program-level settings document.
type System struct {
	// ActiveDatabase is the directory of the database the program
	// opens on startup. Empty means no database has been chosen yet
	// and the caller should create and activate the default one.
	ActiveDatabase string `yaml:"active_database"`

	// KnownDatabases lists every database directory the program has
	// activated, most recent last. The active one is included.
	KnownDatabases []string `yaml:"known_databases,omitempty"`
}

// DefaultPath returns the settings file location under the user's
// config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, "ticketsmith", DefaultFileName), nil
}

// Load reads the settings file at path. A missing file yields
// zero-value settings; an unreadable or unparsable file is an error
// the caller must treat as fatal.
func Load(path string) (*System, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &System{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	var s System
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the settings to path, creating parent directories as
// needed. The write goes to a temporary file in the same directory
// and is renamed into place, so a crash never leaves a half-written
// settings file.
func (s *System) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*")
	if err != nil {
		return fmt.Errorf("creating temporary settings file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

// Activate records dir as the active database and remembers it in
// KnownDatabases.
func (s *System) Activate(dir string) {
	s.ActiveDatabase = dir
	if !slices.Contains(s.KnownDatabases, dir) {
		s.KnownDatabases = append(s.KnownDatabases, dir)
	}
}
