// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"

	"github.com/ticketsmith/ticketsmith/lib/codec"
)

// Role is an account's access level.
type Role uint8

const (
	// RoleGuest can view entities when the database allows guest
	// viewing. Guests never write.
	RoleGuest Role = iota

	// RoleAdmin can view and edit everything, manage accounts, and
	// change database options.
	RoleAdmin
)

// String returns the role's display name.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleGuest:
		return "guest"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// LoginResult is the closed set of login outcomes. The CLI maps each
// to a user-facing message; no outcome is an "error" in the Go sense
// except the store itself failing.
type LoginResult int

const (
	// LoginAdmin is a successful login with an admin account.
	LoginAdmin LoginResult = iota

	// LoginGuest is a successful login with a guest account.
	LoginGuest

	// LoginStoreMissing means no account has ever been created. The
	// caller should run first-user setup.
	LoginStoreMissing

	// LoginUnknownUser means no account has that username.
	LoginUnknownUser

	// LoginWrongPassword means the account exists but the password
	// did not verify.
	LoginWrongPassword

	// LoginStoreError means the credential file could not be read or
	// parsed.
	LoginStoreError
)

// AddUserResult is the closed set of account-creation outcomes.
type AddUserResult int

const (
	// AddUserOK means the account was created and persisted.
	AddUserOK AddUserResult = iota

	// AddUserExists means an account with that username already
	// exists. The existing account is untouched.
	AddUserExists

	// AddUserStoreError means the credential file could not be read
	// or written.
	AddUserStoreError
)

// PromoteResult is the closed set of privilege-change outcomes.
type PromoteResult int

const (
	// PromoteOK means the account now holds the requested role (or
	// already did).
	PromoteOK PromoteResult = iota

	// PromoteUnknownUser means no account has that username.
	PromoteUnknownUser

	// PromoteStoreError means the credential file could not be read
	// or written.
	PromoteStoreError
)

// Session is an authenticated identity against one database.
type Session struct {
	Username string
	Role     Role
}

// CanEdit reports whether the session may create, modify, or delete
// entities.
func (s Session) CanEdit() bool { return s.Role == RoleAdmin }

// CanView reports whether the session may read entities in db.
func (db *Database) CanView(s Session) bool {
	if s.Role == RoleAdmin {
		return true
	}
	return db.options.GuestCanView
}

// Argon2id parameters, stored alongside each digest so they can be
// raised later without invalidating existing accounts.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

type userRecord struct {
	Name    string `cbor:"name"`
	Role    Role   `cbor:"role"`
	Salt    []byte `cbor:"salt"`
	Digest  []byte `cbor:"digest"`
	Time    uint32 `cbor:"time"`
	Memory  uint32 `cbor:"memory"`
	Threads uint8  `cbor:"threads"`
}

type credentialFile struct {
	Users []userRecord `cbor:"users"`
}

func (db *Database) usersPath() string {
	return filepath.Join(db.dir, usersFile)
}

// loadUsers reads the credential file. missing is true when the file
// has never been created.
func (db *Database) loadUsers() (creds credentialFile, missing bool, err error) {
	data, err := os.ReadFile(db.usersPath())
	if os.IsNotExist(err) {
		return credentialFile{}, true, nil
	}
	if err != nil {
		return credentialFile{}, false, fmt.Errorf("reading credentials: %w", err)
	}
	if err := codec.Unmarshal(data, &creds); err != nil {
		return credentialFile{}, false, fmt.Errorf("parsing credentials: %w", err)
	}
	return creds, false, nil
}

func (db *Database) saveUsers(creds credentialFile) error {
	data, err := codec.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}
	return writeFileAtomic(db.usersPath(), data)
}

func digest(password string, salt []byte, time, memory uint32, threads uint8) []byte {
	return argon2.IDKey([]byte(password), salt, time, memory, threads, argonKeyLen)
}

// NeedsFirstUser reports whether the database has no accounts yet.
// Always false on unsecured databases, which have no accounts at all.
func (db *Database) NeedsFirstUser() bool {
	if db.options.Unsecured {
		return false
	}
	creds, missing, err := db.loadUsers()
	if err != nil {
		return false
	}
	return missing || len(creds.Users) == 0
}

// Login verifies a username and password. On an unsecured database
// every caller is an admin and the credentials are ignored.
func (db *Database) Login(username, password string) (LoginResult, Session) {
	if db.options.Unsecured {
		return LoginAdmin, Session{Username: username, Role: RoleAdmin}
	}
	creds, missing, err := db.loadUsers()
	if err != nil {
		db.logger.Error("credential store unreadable", "error", err)
		return LoginStoreError, Session{}
	}
	if missing || len(creds.Users) == 0 {
		return LoginStoreMissing, Session{}
	}
	for _, u := range creds.Users {
		if u.Name != username {
			continue
		}
		want := digest(password, u.Salt, u.Time, u.Memory, u.Threads)
		if subtle.ConstantTimeCompare(want, u.Digest) != 1 {
			return LoginWrongPassword, Session{}
		}
		s := Session{Username: u.Name, Role: u.Role}
		if u.Role == RoleAdmin {
			return LoginAdmin, s
		}
		return LoginGuest, s
	}
	return LoginUnknownUser, Session{}
}

// AddUser creates an account. The very first account is always an
// admin regardless of the requested role, so a fresh database cannot
// lock itself out.
func (db *Database) AddUser(username, password string, role Role) AddUserResult {
	db.mu.Lock()
	defer db.mu.Unlock()

	creds, missing, err := db.loadUsers()
	if err != nil {
		db.logger.Error("credential store unreadable", "error", err)
		return AddUserStoreError
	}
	for _, u := range creds.Users {
		if u.Name == username {
			return AddUserExists
		}
	}
	if missing || len(creds.Users) == 0 {
		role = RoleAdmin
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		db.logger.Error("generating salt", "error", err)
		return AddUserStoreError
	}
	creds.Users = append(creds.Users, userRecord{
		Name:    username,
		Role:    role,
		Salt:    salt,
		Digest:  digest(password, salt, argonTime, argonMemory, argonThreads),
		Time:    argonTime,
		Memory:  argonMemory,
		Threads: argonThreads,
	})
	if err := db.saveUsers(creds); err != nil {
		db.logger.Error("credential store unwritable", "error", err)
		return AddUserStoreError
	}
	db.logger.Info("account created", "username", username, "role", role.String())
	return AddUserOK
}

// PromoteUser moves an account to the given role, in either
// direction: guests become admins and admins drop back to guests.
// An account already holding the role is a no-op success.
func (db *Database) PromoteUser(username string, role Role) PromoteResult {
	db.mu.Lock()
	defer db.mu.Unlock()

	creds, missing, err := db.loadUsers()
	if err != nil || missing {
		if err != nil {
			db.logger.Error("credential store unreadable", "error", err)
			return PromoteStoreError
		}
		return PromoteUnknownUser
	}
	for i := range creds.Users {
		if creds.Users[i].Name != username {
			continue
		}
		if creds.Users[i].Role == role {
			return PromoteOK
		}
		creds.Users[i].Role = role
		if err := db.saveUsers(creds); err != nil {
			db.logger.Error("credential store unwritable", "error", err)
			return PromoteStoreError
		}
		db.logger.Info("account role changed", "username", username, "role", role.String())
		return PromoteOK
	}
	return PromoteUnknownUser
}

// ListUsers returns every account's username and role, in file
// order. Digests are never exposed.
func (db *Database) ListUsers() ([]Session, error) {
	creds, _, err := db.loadUsers()
	if err != nil {
		return nil, err
	}
	out := make([]Session, len(creds.Users))
	for i, u := range creds.Users {
		out[i] = Session{Username: u.Name, Role: u.Role}
	}
	return out, nil
}
