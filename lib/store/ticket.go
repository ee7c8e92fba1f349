// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ticketsmith/ticketsmith/lib/codec"
	"github.com/ticketsmith/ticketsmith/lib/ticket"
)

// TicketRef identifies one ticket in the database.
type TicketRef struct {
	Sequence     int
	TemplateName string
}

// String returns the ticket's display form, which is also its
// filename stem.
func (r TicketRef) String() string {
	return fmt.Sprintf("%d %s", r.Sequence, r.TemplateName)
}

func (db *Database) ticketPath(ref TicketRef) string {
	return filepath.Join(db.dir, ticketsDir, ref.String()+".xml")
}

// parseTicketName splits a ticket filename stem of the form
// "<sequence> <template name>".
func parseTicketName(stem string) (TicketRef, bool) {
	seqText, name, ok := strings.Cut(stem, " ")
	if !ok || name == "" {
		return TicketRef{}, false
	}
	seq, err := strconv.Atoi(seqText)
	if err != nil || seq < 1 {
		return TicketRef{}, false
	}
	return TicketRef{Sequence: seq, TemplateName: name}, true
}

// ListTickets returns every ticket in the database, sorted by
// template name then sequence. Files that do not follow the ticket
// naming convention are ignored.
func (db *Database) ListTickets() ([]TicketRef, error) {
	entries, err := os.ReadDir(filepath.Join(db.dir, ticketsDir))
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	var refs []TicketRef
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem, ok := strings.CutSuffix(e.Name(), ".xml")
		if !ok {
			continue
		}
		if ref, ok := parseTicketName(stem); ok {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].TemplateName != refs[j].TemplateName {
			return refs[i].TemplateName < refs[j].TemplateName
		}
		return refs[i].Sequence < refs[j].Sequence
	})
	return refs, nil
}

// ReserveSequence allocates the lowest unused positive sequence
// number for tickets of the named template and reserves it by
// creating the ticket file exclusively. The reserved file is empty
// until SaveTicket fills it; a loser of a concurrent race sees the
// reservation and takes the next number.
func (db *Database) ReserveSequence(templateName string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	refs, err := db.ListTickets()
	if err != nil {
		return 0, err
	}
	used := make(map[int]bool)
	for _, ref := range refs {
		if ref.TemplateName == templateName {
			used[ref.Sequence] = true
		}
	}
	for seq := 1; ; seq++ {
		if used[seq] {
			continue
		}
		path := db.ticketPath(TicketRef{Sequence: seq, TemplateName: templateName})
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if os.IsExist(err) {
			// Raced with another process scanning the same
			// directory.
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("reserving sequence %d for %q: %w", seq, templateName, err)
		}
		if err := f.Close(); err != nil {
			return 0, fmt.Errorf("reserving sequence %d for %q: %w", seq, templateName, err)
		}
		db.logger.Debug("sequence reserved", "template", templateName, "sequence", seq)
		return seq, nil
	}
}

// ReleaseSequence removes an unused reservation, freeing the number.
// Called when a ticket creation is abandoned after reserving.
func (db *Database) ReleaseSequence(templateName string, sequence int) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	path := db.ticketPath(TicketRef{Sequence: sequence, TemplateName: templateName})
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("releasing sequence %d for %q: %w", sequence, templateName, err)
	}
	if info.Size() != 0 {
		return fmt.Errorf("sequence %d for %q already holds a saved ticket", sequence, templateName)
	}
	return os.Remove(path)
}

// SaveTicket persists the ticket (over its reservation, if any) and
// clears its dirty flag.
func (db *Database) SaveTicket(tk *ticket.Ticket) error {
	if tk.Sequence < 1 || tk.TemplateName == "" {
		return fmt.Errorf("ticket has no identity (sequence %d, template %q)", tk.Sequence, tk.TemplateName)
	}
	data, err := codec.EncodeTicket(tk)
	if err != nil {
		return err
	}
	ref := TicketRef{Sequence: tk.Sequence, TemplateName: tk.TemplateName}
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := writeFileAtomic(db.ticketPath(ref), data); err != nil {
		return err
	}
	tk.ClearDirty()
	db.logger.Debug("ticket saved", "ticket", ref.String())
	return nil
}

// LoadTicket reads and decodes the identified ticket.
func (db *Database) LoadTicket(ref TicketRef) (*ticket.Ticket, error) {
	data, err := os.ReadFile(db.ticketPath(ref))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("ticket %q: %w", ref.String(), ErrMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("reading ticket %q: %w", ref.String(), err)
	}
	tk, err := codec.DecodeTicket(data)
	if err != nil {
		return nil, fmt.Errorf("ticket %q: %w", ref.String(), err)
	}
	return tk, nil
}

// DeleteTicket removes the identified ticket, freeing its sequence
// number for reuse.
func (db *Database) DeleteTicket(ref TicketRef) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	err := os.Remove(db.ticketPath(ref))
	if os.IsNotExist(err) {
		return fmt.Errorf("ticket %q: %w", ref.String(), ErrMissing)
	}
	if err != nil {
		return fmt.Errorf("deleting ticket %q: %w", ref.String(), err)
	}
	db.logger.Info("ticket deleted", "ticket", ref.String())
	return nil
}
