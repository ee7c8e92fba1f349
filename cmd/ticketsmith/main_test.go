// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"path/filepath"
	"testing"

	"github.com/ticketsmith/ticketsmith/lib/clock"
	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/store"
	"github.com/ticketsmith/ticketsmith/lib/template"
	"github.com/ticketsmith/ticketsmith/lib/ticket"
)

// setupDatabase points the settings override at a throwaway file and
// initializes a fresh active database.
func setupDatabase(t *testing.T, unsecured bool) string {
	t.Helper()
	t.Setenv("TICKETSMITH_SETTINGS", filepath.Join(t.TempDir(), "settings.yaml"))
	dir := t.TempDir()
	args := []string{dir}
	if unsecured {
		args = []string{"--unsecured", dir}
	}
	if err := runInit(args); err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir
}

// stubPassword answers every password prompt with the given secret.
func stubPassword(t *testing.T, secret string) {
	t.Helper()
	orig := passwordPrompt
	passwordPrompt = func(string) (string, error) { return secret, nil }
	t.Cleanup(func() { passwordPrompt = orig })
}

func TestParseTicketRef(t *testing.T) {
	tests := []struct {
		in   string
		want store.TicketRef
		ok   bool
	}{
		{"7 work order", store.TicketRef{Sequence: 7, TemplateName: "work order"}, true},
		{"1 a", store.TicketRef{Sequence: 1, TemplateName: "a"}, true},
		{"0 nope", store.TicketRef{}, false},
		{"nope", store.TicketRef{}, false},
		{"12", store.TicketRef{}, false},
		{"x y", store.TicketRef{}, false},
	}
	for _, tt := range tests {
		got, err := parseTicketRef(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseTicketRef(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseTicketRef(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAddUserBootstrapThenRequiresAdmin(t *testing.T) {
	setupDatabase(t, false)
	stubPassword(t, "secret")

	// The very first account needs no authentication; the store makes
	// it the administrator.
	if err := runAddUser([]string{"alice"}); err != nil {
		t.Fatalf("first adduser: %v", err)
	}

	// Once accounts exist, an unauthenticated caller is refused.
	if err := runAddUser([]string{"mallory"}); err == nil {
		t.Fatal("adduser without credentials succeeded on a populated database")
	}

	// An authenticating admin can keep adding accounts.
	if err := runAddUser([]string{"--user", "alice", "--guest", "bob"}); err != nil {
		t.Fatalf("authorized adduser: %v", err)
	}

	db, _, _, err := openActive()
	if err != nil {
		t.Fatalf("openActive: %v", err)
	}
	if result, _ := db.Login("alice", "secret"); result != store.LoginAdmin {
		t.Errorf("alice login = %v, want LoginAdmin", result)
	}
	if result, _ := db.Login("bob", "secret"); result != store.LoginGuest {
		t.Errorf("bob login = %v, want LoginGuest", result)
	}
	if _, err := db.ListUsers(); err != nil {
		t.Errorf("ListUsers: %v", err)
	}
}

func TestPromoteToEitherRole(t *testing.T) {
	setupDatabase(t, false)
	stubPassword(t, "secret")
	if err := runAddUser([]string{"alice"}); err != nil {
		t.Fatalf("adduser: %v", err)
	}
	if err := runAddUser([]string{"--user", "alice", "bob"}); err != nil {
		t.Fatalf("adduser: %v", err)
	}

	if err := runPromote([]string{"--user", "alice", "--role", "guest", "bob"}); err != nil {
		t.Fatalf("demote: %v", err)
	}
	db, _, _, err := openActive()
	if err != nil {
		t.Fatalf("openActive: %v", err)
	}
	if result, _ := db.Login("bob", "secret"); result != store.LoginGuest {
		t.Errorf("demoted login = %v, want LoginGuest", result)
	}

	if err := runPromote([]string{"--user", "alice", "--role", "admin", "bob"}); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if result, _ := db.Login("bob", "secret"); result != store.LoginAdmin {
		t.Errorf("promoted login = %v, want LoginAdmin", result)
	}

	if err := runPromote([]string{"--user", "alice", "--role", "sysop", "bob"}); err == nil {
		t.Error("unknown role accepted")
	}
}

func TestTicketModify(t *testing.T) {
	setupDatabase(t, true)
	if err := runTemplateCreate([]string{"--document", "scans/wo.png", "work order"}); err != nil {
		t.Fatalf("template create: %v", err)
	}
	if err := runTemplateAddTextbox([]string{"work order", "Notes"}); err != nil {
		t.Fatalf("add-textbox: %v", err)
	}
	if err := runTemplateAddCheckbox([]string{"work order", "Approved"}); err != nil {
		t.Fatalf("add-checkbox: %v", err)
	}
	if err := runTicketCreate([]string{"--first", "Ada", "--set", "Notes=initial", "work order"}); err != nil {
		t.Fatalf("ticket create: %v", err)
	}

	if err := runTicketModify([]string{"--set", "Notes=updated", "--check", "Approved", "1 work order"}); err != nil {
		t.Fatalf("ticket modify: %v", err)
	}
	db, _, _, err := openActive()
	if err != nil {
		t.Fatalf("openActive: %v", err)
	}
	ref := store.TicketRef{Sequence: 1, TemplateName: "work order"}
	tk, err := db.LoadTicket(ref)
	if err != nil {
		t.Fatalf("LoadTicket: %v", err)
	}
	if tk.Textboxes[0].Text != "updated" {
		t.Errorf("modified text = %q", tk.Textboxes[0].Text)
	}
	if !tk.Checkboxes[0].Status {
		t.Error("checkbox not ticked after modify")
	}
	if tk.DocumentPath != "scans/wo.png" {
		t.Errorf("ticket document path = %q", tk.DocumentPath)
	}

	if err := runTicketModify([]string{"--uncheck", "Approved", "1 work order"}); err != nil {
		t.Fatalf("ticket modify: %v", err)
	}
	tk, err = db.LoadTicket(ref)
	if err != nil {
		t.Fatalf("LoadTicket: %v", err)
	}
	if tk.Checkboxes[0].Status {
		t.Error("checkbox still ticked after uncheck")
	}

	if err := runTicketModify([]string{"--set", "Notes=x", "9 work order"}); err == nil {
		t.Error("modify of a missing ticket succeeded")
	}
}

func TestCreateTicketReleasesNumberOnFailure(t *testing.T) {
	db, err := store.Open(t.TempDir(), clock.Real(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Save failure: the ticket has lost its identity.
	tpl := template.New("jobs")
	if err := db.CreateTemplate(tpl); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	tk := ticket.FromTemplate(tpl)
	tk.TemplateName = ""
	if _, err := createTicket(db, tpl, tk, "", ""); err == nil {
		t.Fatal("createTicket saved a ticket with no identity")
	}
	seq, err := db.ReserveSequence("jobs")
	if err != nil {
		t.Fatalf("ReserveSequence: %v", err)
	}
	if seq != 1 {
		t.Errorf("sequence after failed save = %d, want the released 1", seq)
	}

	// Resolve failure: the template's counter is unreadable.
	tpl2 := template.New("orders")
	tpl2.AddStatic(field.KindCounter)
	if err := db.CreateTemplate(tpl2); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	tk2 := ticket.FromTemplate(tpl2)
	tpl2.Statics[0].Value = "junk"
	if _, err := createTicket(db, tpl2, tk2, "", ""); err == nil {
		t.Fatal("createTicket resolved against a corrupt counter")
	}
	seq, err = db.ReserveSequence("orders")
	if err != nil {
		t.Fatalf("ReserveSequence: %v", err)
	}
	if seq != 1 {
		t.Errorf("sequence after failed resolve = %d, want the released 1", seq)
	}
}
