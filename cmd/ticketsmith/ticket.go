// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ticketsmith/ticketsmith/lib/compose"
	"github.com/ticketsmith/ticketsmith/lib/resolve"
	"github.com/ticketsmith/ticketsmith/lib/store"
	"github.com/ticketsmith/ticketsmith/lib/template"
	"github.com/ticketsmith/ticketsmith/lib/ticket"
)

func runTicket(args []string) error {
	if len(args) < 1 {
		printTicketUsage()
		return fmt.Errorf("ticket subcommand required")
	}
	switch args[0] {
	case "create":
		return runTicketCreate(args[1:])
	case "list":
		return runTicketList(args[1:])
	case "show":
		return runTicketShow(args[1:])
	case "modify":
		return runTicketModify(args[1:])
	case "delete":
		return runTicketDelete(args[1:])
	case "-h", "--help", "help":
		printTicketUsage()
		return nil
	default:
		printTicketUsage()
		return fmt.Errorf("unknown ticket subcommand: %q", args[0])
	}
}

func printTicketUsage() {
	fmt.Fprintf(pflag.CommandLine.Output(), `Usage: ticketsmith ticket <subcommand> [flags]

Subcommands:
  create  Fill out a new ticket from a template
  list    List tickets in the active database
  show    Print a ticket's fields and values
  modify  Change a saved ticket's fields
  delete  Delete a ticket (frees its number)
`)
}

// parseTicketRef parses the "<sequence> <template>" identity used on
// the command line and in filenames.
func parseTicketRef(text string) (store.TicketRef, error) {
	seqText, name, ok := strings.Cut(text, " ")
	if ok {
		if seq, err := strconv.Atoi(seqText); err == nil && seq >= 1 && name != "" {
			return store.TicketRef{Sequence: seq, TemplateName: name}, nil
		}
	}
	return store.TicketRef{}, fmt.Errorf("ticket id %q, want \"<number> <template>\"", text)
}

func runTicketCreate(args []string) error {
	flagSet := pflag.NewFlagSet("ticket create", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	first := flagSet.String("first", "", "customer first name")
	last := flagSet.String("last", "", "customer last name")
	sets := flagSet.StringArray("set", nil, "fill a textbox: --set 'Field=text' (repeatable, \\n for line breaks)")
	checks := flagSet.StringArray("check", nil, "tick a checkbox (repeatable)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith ticket create [flags] <template>")
	}
	templateName := flagSet.Arg(0)

	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireEdit(db, *user); err != nil {
		return err
	}
	tpl, err := db.LoadTemplate(templateName)
	if err != nil {
		return err
	}

	tk := ticket.FromTemplate(tpl)
	if err := applyFieldEdits(tk, *sets, *checks, nil); err != nil {
		return err
	}
	if missing := tk.Unfilled(); len(missing) > 0 {
		return fmt.Errorf("required fields not filled: %s", strings.Join(missing, ", "))
	}

	seq, err := createTicket(db, tpl, tk, *first, *last)
	if err != nil {
		return err
	}
	// The resolver advanced any counters on the template.
	if tpl.Dirty() {
		if err := db.SaveTemplate(tpl); err != nil {
			return fmt.Errorf("ticket saved but counter update failed: %w", err)
		}
	}
	fmt.Printf("created ticket \"%d %s\"\n", seq, templateName)
	return nil
}

// applyFieldEdits applies --set, --check, and --uncheck arguments to
// a ticket. Embedded \n markers in --set values become line breaks.
func applyFieldEdits(tk *ticket.Ticket, sets, checks, unchecks []string) error {
	for _, assignment := range sets {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return fmt.Errorf("--set %q, want 'Field=text'", assignment)
		}
		value = strings.ReplaceAll(value, `\n`, "\n")
		if err := tk.SetTextboxText(name, value); err != nil {
			return err
		}
	}
	for _, name := range checks {
		if err := tk.SetCheckboxStatus(name, true); err != nil {
			return err
		}
	}
	for _, name := range unchecks {
		if err := tk.SetCheckboxStatus(name, false); err != nil {
			return err
		}
	}
	return nil
}

// createTicket reserves the next free number, resolves the ticket's
// static fields, and saves it. A failure after the reservation hands
// the number back, so an aborted create never burns a sequence.
func createTicket(db *store.Database, tpl *template.Template, tk *ticket.Ticket, first, last string) (seq int, err error) {
	seq, err = db.ReserveSequence(tpl.Name)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err == nil {
			return
		}
		if releaseErr := db.ReleaseSequence(tpl.Name, seq); releaseErr != nil {
			err = fmt.Errorf("%w (and releasing sequence %d: %v)", err, seq, releaseErr)
		}
	}()
	if err = resolve.New().Resolve(tpl, tk, first, last, seq); err != nil {
		return 0, err
	}
	if err = db.SaveTicket(tk); err != nil {
		return 0, err
	}
	return seq, nil
}

func runTicketModify(args []string) error {
	flagSet := pflag.NewFlagSet("ticket modify", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	sets := flagSet.StringArray("set", nil, "fill a textbox: --set 'Field=text' (repeatable, \\n for line breaks)")
	checks := flagSet.StringArray("check", nil, "tick a checkbox (repeatable)")
	unchecks := flagSet.StringArray("uncheck", nil, "untick a checkbox (repeatable)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith ticket modify [flags] \"<number> <template>\"")
	}
	ref, err := parseTicketRef(flagSet.Arg(0))
	if err != nil {
		return err
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireEdit(db, *user); err != nil {
		return err
	}
	tk, err := db.LoadTicket(ref)
	if err != nil {
		return err
	}
	if err := applyFieldEdits(tk, *sets, *checks, *unchecks); err != nil {
		return err
	}
	if missing := tk.Unfilled(); len(missing) > 0 {
		return fmt.Errorf("required fields not filled: %s", strings.Join(missing, ", "))
	}
	if !tk.Dirty() {
		return nil
	}
	return db.SaveTicket(tk)
}

func runTicketList(args []string) error {
	flagSet := pflag.NewFlagSet("ticket list", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this account")
	templateName := flagSet.String("template", "", "only tickets of this template")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireView(db, *user); err != nil {
		return err
	}
	refs, err := db.ListTickets()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if *templateName != "" && ref.TemplateName != *templateName {
			continue
		}
		fmt.Println(ref.String())
	}
	return nil
}

func runTicketShow(args []string) error {
	flagSet := pflag.NewFlagSet("ticket show", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith ticket show \"<number> <template>\"")
	}
	ref, err := parseTicketRef(flagSet.Arg(0))
	if err != nil {
		return err
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireView(db, *user); err != nil {
		return err
	}
	tk, err := db.LoadTicket(ref)
	if err != nil {
		return err
	}

	fmt.Printf("ticket %q\n", ref.String())
	if tk.CustomerFirstName != "" || tk.CustomerLastName != "" {
		fmt.Printf("  customer: %s %s\n", tk.CustomerFirstName, tk.CustomerLastName)
	}
	for _, e := range tk.Order() {
		switch e.Source {
		case compose.SourceTextbox:
			b := tk.Textboxes[e.Index]
			fmt.Printf("  %-20s %s\n", b.Name+":", strings.ReplaceAll(b.Text, "\n", " / "))
		case compose.SourceCheckbox:
			b := tk.Checkboxes[e.Index]
			mark := "[ ]"
			if b.Status {
				mark = "[x]"
			}
			fmt.Printf("  %-20s %s\n", b.Name+":", mark)
		}
	}
	for _, s := range tk.Statics {
		fmt.Printf("  %-20s %s\n", s.Name+":", s.Value)
	}
	return nil
}

func runTicketDelete(args []string) error {
	flagSet := pflag.NewFlagSet("ticket delete", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith ticket delete \"<number> <template>\"")
	}
	ref, err := parseTicketRef(flagSet.Arg(0))
	if err != nil {
		return err
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireEdit(db, *user); err != nil {
		return err
	}
	return db.DeleteTicket(ref)
}
