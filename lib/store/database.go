// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ticketsmith/ticketsmith/lib/clock"
)

const (
	templatesDir = "Templates"
	ticketsDir   = "JobTickets"
	optionsFile  = "options.yaml"
	usersFile    = "users.cbor"
)

// Sentinel errors for entity operations.
var (
	// ErrMissing reports an entity that does not exist in the
	// database.
	ErrMissing = errors.New("no such entity")

	// ErrExists reports a create or rename that would overwrite an
	// existing entity.
	ErrExists = errors.New("entity already exists")
)

// Options is the per-database options file.
type Options struct {
	// GuestCanView grants guest accounts read access to tickets and
	// templates. Guests never get write access.
	GuestCanView bool `yaml:"guest_can_view"`

	// Unsecured disables the credential store entirely: every opener
	// acts as an administrator without logging in. Set only on the
	// default database created on first launch.
	Unsecured bool `yaml:"unsecured"`
}

// Database is an open ticket database. Safe for concurrent use; a
// single mutex serializes mutations, which matches the small-shop
// scale the program targets.
type Database struct {
	dir     string
	clock   clock.Clock
	logger  *slog.Logger
	options Options

	mu sync.Mutex
}

// Open opens (or finishes initializing) the database at dir, creating
// the entity subdirectories if they are missing.
func Open(dir string, clk clock.Clock, logger *slog.Logger) (*Database, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, sub := range []string{templatesDir, ticketsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", sub, err)
		}
	}

	db := &Database{dir: dir, clock: clk, logger: logger.With("database", dir)}
	if err := db.loadOptions(); err != nil {
		return nil, err
	}
	return db, nil
}

// Create initializes a new database directory. Fails if dir already
// holds one.
func Create(dir string, opts Options, clk clock.Clock, logger *slog.Logger) (*Database, error) {
	if _, err := os.Stat(filepath.Join(dir, optionsFile)); err == nil {
		return nil, fmt.Errorf("database %s: %w", dir, ErrExists)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	data, err := yaml.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("encoding options: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, optionsFile), data); err != nil {
		return nil, err
	}
	return Open(dir, clk, logger)
}

// Dir returns the database directory.
func (db *Database) Dir() string { return db.dir }

// Options returns the database options.
func (db *Database) Options() Options { return db.options }

// SetGuestCanView updates the guest viewing option and persists it.
func (db *Database) SetGuestCanView(allowed bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.options.GuestCanView = allowed
	return db.saveOptionsLocked()
}

func (db *Database) loadOptions() error {
	data, err := os.ReadFile(filepath.Join(db.dir, optionsFile))
	if os.IsNotExist(err) {
		db.options = Options{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading options: %w", err)
	}
	if err := yaml.Unmarshal(data, &db.options); err != nil {
		return fmt.Errorf("parsing options: %w", err)
	}
	return nil
}

func (db *Database) saveOptionsLocked() error {
	data, err := yaml.Marshal(db.options)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	return writeFileAtomic(filepath.Join(db.dir, optionsFile), data)
}
