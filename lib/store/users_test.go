// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"testing"
)

func TestLoginStoreMissing(t *testing.T) {
	db := openTest(t, testClock())
	result, _ := db.Login("anyone", "anything")
	if result != LoginStoreMissing {
		t.Errorf("login on empty database = %v, want LoginStoreMissing", result)
	}
	if !db.NeedsFirstUser() {
		t.Error("NeedsFirstUser false on empty database")
	}
}

func TestFirstUserIsAlwaysAdmin(t *testing.T) {
	db := openTest(t, testClock())
	if got := db.AddUser("pat", "hunter2", RoleGuest); got != AddUserOK {
		t.Fatalf("AddUser = %v", got)
	}
	result, session := db.Login("pat", "hunter2")
	if result != LoginAdmin {
		t.Errorf("first user login = %v, want LoginAdmin", result)
	}
	if session.Role != RoleAdmin || session.Username != "pat" {
		t.Errorf("session = %+v", session)
	}
	if db.NeedsFirstUser() {
		t.Error("NeedsFirstUser still true")
	}
}

func TestLoginOutcomes(t *testing.T) {
	db := openTest(t, testClock())
	if got := db.AddUser("admin", "secret", RoleAdmin); got != AddUserOK {
		t.Fatalf("AddUser: %v", got)
	}
	if got := db.AddUser("visitor", "view-only", RoleGuest); got != AddUserOK {
		t.Fatalf("AddUser: %v", got)
	}

	if result, _ := db.Login("admin", "secret"); result != LoginAdmin {
		t.Errorf("admin login = %v", result)
	}
	if result, session := db.Login("visitor", "view-only"); result != LoginGuest || session.Role != RoleGuest {
		t.Errorf("guest login = %v, session %+v", result, session)
	}
	if result, _ := db.Login("admin", "wrong"); result != LoginWrongPassword {
		t.Errorf("wrong password = %v", result)
	}
	if result, _ := db.Login("nobody", "secret"); result != LoginUnknownUser {
		t.Errorf("unknown user = %v", result)
	}
}

func TestAddUserDuplicateKeepsExisting(t *testing.T) {
	db := openTest(t, testClock())
	if got := db.AddUser("pat", "original", RoleAdmin); got != AddUserOK {
		t.Fatalf("AddUser: %v", got)
	}
	if got := db.AddUser("pat", "imposter", RoleGuest); got != AddUserExists {
		t.Errorf("duplicate AddUser = %v, want AddUserExists", got)
	}
	// The original credentials still work.
	if result, _ := db.Login("pat", "original"); result != LoginAdmin {
		t.Errorf("original login after duplicate attempt = %v", result)
	}
}

func TestPromoteUser(t *testing.T) {
	db := openTest(t, testClock())
	db.AddUser("root", "pw", RoleAdmin)
	if got := db.AddUser("helper", "pw", RoleGuest); got != AddUserOK {
		t.Fatalf("AddUser: %v", got)
	}

	if got := db.PromoteUser("helper", RoleAdmin); got != PromoteOK {
		t.Errorf("PromoteUser = %v", got)
	}
	if result, _ := db.Login("helper", "pw"); result != LoginAdmin {
		t.Errorf("promoted login = %v, want LoginAdmin", result)
	}
	// Idempotent.
	if got := db.PromoteUser("helper", RoleAdmin); got != PromoteOK {
		t.Errorf("second PromoteUser = %v", got)
	}
	// Demotion works too.
	if got := db.PromoteUser("helper", RoleGuest); got != PromoteOK {
		t.Errorf("demoting PromoteUser = %v", got)
	}
	if result, _ := db.Login("helper", "pw"); result != LoginGuest {
		t.Errorf("demoted login = %v, want LoginGuest", result)
	}
	if got := db.PromoteUser("nobody", RoleAdmin); got != PromoteUnknownUser {
		t.Errorf("unknown PromoteUser = %v, want PromoteUnknownUser", got)
	}
}

func TestLoginStoreError(t *testing.T) {
	db := openTest(t, testClock())
	if err := os.WriteFile(db.usersPath(), []byte{0xff, 0x00, 0x01}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if result, _ := db.Login("anyone", "pw"); result != LoginStoreError {
		t.Errorf("corrupt store login = %v, want LoginStoreError", result)
	}
	if got := db.AddUser("anyone", "pw", RoleGuest); got != AddUserStoreError {
		t.Errorf("corrupt store AddUser = %v, want AddUserStoreError", got)
	}
}

func TestUnsecuredDatabase(t *testing.T) {
	db, err := Create(t.TempDir(), Options{Unsecured: true}, testClock(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	result, session := db.Login("", "")
	if result != LoginAdmin || session.Role != RoleAdmin {
		t.Errorf("unsecured login = %v, session %+v", result, session)
	}
	if db.NeedsFirstUser() {
		t.Error("unsecured database wants a first user")
	}
}

func TestGuestViewing(t *testing.T) {
	db, err := Create(t.TempDir(), Options{GuestCanView: true}, testClock(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	guest := Session{Username: "g", Role: RoleGuest}
	admin := Session{Username: "a", Role: RoleAdmin}

	if !db.CanView(guest) {
		t.Error("guest viewing denied despite option")
	}
	if guest.CanEdit() {
		t.Error("guest can edit")
	}
	if !admin.CanEdit() || !db.CanView(admin) {
		t.Error("admin access denied")
	}

	if err := db.SetGuestCanView(false); err != nil {
		t.Fatalf("SetGuestCanView: %v", err)
	}
	if db.CanView(guest) {
		t.Error("guest viewing allowed after option cleared")
	}
}

func TestListUsers(t *testing.T) {
	db := openTest(t, testClock())
	db.AddUser("root", "pw", RoleAdmin)
	db.AddUser("helper", "pw", RoleGuest)
	users, err := db.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("ListUsers = %v", users)
	}
	if users[0].Username != "root" || users[0].Role != RoleAdmin {
		t.Errorf("first user %+v", users[0])
	}
	if users[1].Username != "helper" || users[1].Role != RoleGuest {
		t.Errorf("second user %+v", users[1])
	}
}
