// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ActiveDatabase != "" || len(s.KnownDatabases) != 0 {
		t.Errorf("missing file produced non-default settings: %+v", s)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unparsable settings accepted")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "dir", "settings.yaml")
	s := &System{}
	s.Activate("/data/shop-floor")
	s.Activate("/data/front-office")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ActiveDatabase != "/data/front-office" {
		t.Errorf("active database = %q", got.ActiveDatabase)
	}
	if len(got.KnownDatabases) != 2 {
		t.Errorf("known databases = %v", got.KnownDatabases)
	}
}

func TestActivateDeduplicates(t *testing.T) {
	s := &System{}
	s.Activate("/a")
	s.Activate("/b")
	s.Activate("/a")
	if s.ActiveDatabase != "/a" {
		t.Errorf("active = %q", s.ActiveDatabase)
	}
	if len(s.KnownDatabases) != 2 {
		t.Errorf("known = %v, want two entries", s.KnownDatabases)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	if err := (&System{ActiveDatabase: "/x"}).Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "settings.yaml" {
		t.Errorf("directory contains %v, want only settings.yaml", entries)
	}
}
