// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ticketsmith/ticketsmith/lib/clock"
	"github.com/ticketsmith/ticketsmith/lib/settings"
	"github.com/ticketsmith/ticketsmith/lib/store"
	"github.com/ticketsmith/ticketsmith/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	switch os.Args[1] {
	case "init":
		return runInit(os.Args[2:])
	case "use":
		return runUse(os.Args[2:])
	case "databases":
		return runDatabases(os.Args[2:])
	case "adduser":
		return runAddUser(os.Args[2:])
	case "login":
		return runLogin(os.Args[2:])
	case "promote":
		return runPromote(os.Args[2:])
	case "users":
		return runUsers(os.Args[2:])
	case "guest-view":
		return runGuestView(os.Args[2:])
	case "template":
		return runTemplate(os.Args[2:])
	case "ticket":
		return runTicket(os.Args[2:])
	case "version":
		fmt.Printf("ticketsmith %s\n", version.Info())
		return nil
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", os.Args[1])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: ticketsmith <subcommand> [flags]

Subcommands:
  init        Create a new ticket database and make it active
  use         Switch the active database
  databases   List known databases
  adduser     Create an account on the active database
  login       Verify credentials against the active database
  promote     Change an account's privilege
  users       List accounts on the active database
  guest-view  Show or change whether guests may view entities
  template    Manage job ticket templates
  ticket      Create and inspect job tickets
  version     Print version information

Run 'ticketsmith <subcommand> --help' for subcommand flags.
`)
}

// newLogger builds the CLI logger. Warnings and errors only unless
// TICKETSMITH_DEBUG is set.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("TICKETSMITH_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// settingsPath returns the program settings file location, honoring
// the TICKETSMITH_SETTINGS override.
func settingsPath() (string, error) {
	if p := os.Getenv("TICKETSMITH_SETTINGS"); p != "" {
		return p, nil
	}
	return settings.DefaultPath()
}

// openActive loads the settings and opens the active database.
func openActive() (*store.Database, *settings.System, string, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, nil, "", err
	}
	sys, err := settings.Load(path)
	if err != nil {
		return nil, nil, "", err
	}
	if sys.ActiveDatabase == "" {
		return nil, nil, "", fmt.Errorf("no active database (run 'ticketsmith init' first)")
	}
	db, err := store.Open(sys.ActiveDatabase, clock.Real(), newLogger())
	if err != nil {
		return nil, nil, "", err
	}
	return db, sys, path, nil
}

// passwordPrompt is swapped out by tests; everything that needs a
// password goes through it.
var passwordPrompt = promptPassword

// promptPassword reads a password. On a terminal the echo is
// suppressed; otherwise one line is read from stdin, which lets
// scripts pipe the password in.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(secret), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

// authenticate establishes a session for a mutating command. On an
// unsecured database no credentials are involved.
func authenticate(db *store.Database, username string) (store.Session, error) {
	if db.Options().Unsecured {
		return store.Session{Username: username, Role: store.RoleAdmin}, nil
	}
	if username == "" {
		return store.Session{}, fmt.Errorf("this database requires login (--user)")
	}
	password, err := passwordPrompt(fmt.Sprintf("password for %s: ", username))
	if err != nil {
		return store.Session{}, err
	}
	result, session := db.Login(username, password)
	switch result {
	case store.LoginAdmin, store.LoginGuest:
		return session, nil
	case store.LoginStoreMissing:
		return store.Session{}, fmt.Errorf("no accounts exist yet (run 'ticketsmith adduser' first)")
	case store.LoginUnknownUser:
		return store.Session{}, fmt.Errorf("unknown user %q", username)
	case store.LoginWrongPassword:
		return store.Session{}, fmt.Errorf("wrong password for %q", username)
	default:
		return store.Session{}, fmt.Errorf("credential store unavailable")
	}
}

// requireEdit authenticates and checks write access.
func requireEdit(db *store.Database, username string) (store.Session, error) {
	session, err := authenticate(db, username)
	if err != nil {
		return store.Session{}, err
	}
	if !session.CanEdit() {
		return store.Session{}, fmt.Errorf("%q is a guest account and cannot make changes", session.Username)
	}
	return session, nil
}

// requireView authenticates and checks read access.
func requireView(db *store.Database, username string) (store.Session, error) {
	session, err := authenticate(db, username)
	if err != nil {
		return store.Session{}, err
	}
	if !db.CanView(session) {
		return store.Session{}, fmt.Errorf("guest viewing is disabled on this database")
	}
	return session, nil
}

func runInit(args []string) error {
	flagSet := pflag.NewFlagSet("init", pflag.ContinueOnError)
	unsecured := flagSet.Bool("unsecured", false, "create without a credential store (every caller is an admin)")
	guestView := flagSet.Bool("guest-view", false, "allow guest accounts to view entities")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith init [flags] <directory>")
	}
	dir := flagSet.Arg(0)

	path, err := settingsPath()
	if err != nil {
		return err
	}
	sys, err := settings.Load(path)
	if err != nil {
		return err
	}

	opts := store.Options{Unsecured: *unsecured, GuestCanView: *guestView}
	if _, err := store.Create(dir, opts, clock.Real(), newLogger()); err != nil {
		return err
	}
	sys.Activate(dir)
	if err := sys.Save(path); err != nil {
		return err
	}
	fmt.Printf("created database %s (active)\n", dir)
	if !*unsecured {
		fmt.Println("add the first account with 'ticketsmith adduser'; it becomes the administrator")
	}
	return nil
}

func runUse(args []string) error {
	flagSet := pflag.NewFlagSet("use", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith use <directory>")
	}
	dir := flagSet.Arg(0)

	// Opening validates the directory before we commit to it.
	if _, err := store.Open(dir, clock.Real(), newLogger()); err != nil {
		return err
	}
	path, err := settingsPath()
	if err != nil {
		return err
	}
	sys, err := settings.Load(path)
	if err != nil {
		return err
	}
	sys.Activate(dir)
	if err := sys.Save(path); err != nil {
		return err
	}
	fmt.Printf("active database is now %s\n", dir)
	return nil
}

func runDatabases(args []string) error {
	flagSet := pflag.NewFlagSet("databases", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	path, err := settingsPath()
	if err != nil {
		return err
	}
	sys, err := settings.Load(path)
	if err != nil {
		return err
	}
	for _, dir := range sys.KnownDatabases {
		marker := " "
		if dir == sys.ActiveDatabase {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, dir)
	}
	return nil
}

func runAddUser(args []string) error {
	flagSet := pflag.NewFlagSet("adduser", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	guest := flagSet.Bool("guest", false, "create a guest (view-only) account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith adduser [--guest] <username>")
	}
	username := flagSet.Arg(0)

	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if db.Options().Unsecured {
		return fmt.Errorf("this database has no credential store")
	}

	// The very first account bootstraps the database and needs no
	// authentication; the store forces it to be an admin. Every
	// account after that takes an admin's say-so.
	if !db.NeedsFirstUser() {
		if _, err := requireEdit(db, *user); err != nil {
			return err
		}
	}

	password, err := passwordPrompt(fmt.Sprintf("password for new account %s: ", username))
	if err != nil {
		return err
	}
	role := store.RoleAdmin
	if *guest {
		role = store.RoleGuest
	}
	switch db.AddUser(username, password, role) {
	case store.AddUserOK:
		fmt.Printf("account %q created\n", username)
		return nil
	case store.AddUserExists:
		return fmt.Errorf("account %q already exists", username)
	default:
		return fmt.Errorf("credential store unavailable")
	}
}

func runLogin(args []string) error {
	flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith login <username>")
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	session, err := authenticate(db, flagSet.Arg(0))
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %q (%s)\n", session.Username, session.Role)
	return nil
}

func runPromote(args []string) error {
	flagSet := pflag.NewFlagSet("promote", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	roleName := flagSet.String("role", "admin", "target privilege: admin or guest")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith promote --user <admin> [--role admin|guest] <username>")
	}
	target := flagSet.Arg(0)

	var role store.Role
	switch *roleName {
	case "admin":
		role = store.RoleAdmin
	case "guest":
		role = store.RoleGuest
	default:
		return fmt.Errorf("unknown role %q, want admin or guest", *roleName)
	}

	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireEdit(db, *user); err != nil {
		return err
	}
	switch db.PromoteUser(target, role) {
	case store.PromoteOK:
		fmt.Printf("account %q is now %s\n", target, role)
		return nil
	case store.PromoteUnknownUser:
		return fmt.Errorf("unknown user %q", target)
	default:
		return fmt.Errorf("credential store unavailable")
	}
}

func runUsers(args []string) error {
	flagSet := pflag.NewFlagSet("users", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireEdit(db, *user); err != nil {
		return err
	}
	users, err := db.ListUsers()
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Printf("%s\t%s\n", u.Username, u.Role)
	}
	return nil
}

func runGuestView(args []string) error {
	flagSet := pflag.NewFlagSet("guest-view", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}

	switch flagSet.NArg() {
	case 0:
		state := "off"
		if db.Options().GuestCanView {
			state = "on"
		}
		fmt.Printf("guest viewing is %s\n", state)
		return nil
	case 1:
		if _, err := requireEdit(db, *user); err != nil {
			return err
		}
		var allowed bool
		switch flagSet.Arg(0) {
		case "on":
			allowed = true
		case "off":
			allowed = false
		default:
			return fmt.Errorf("usage: ticketsmith guest-view [on|off]")
		}
		if err := db.SetGuestCanView(allowed); err != nil {
			return err
		}
		fmt.Printf("guest viewing is now %s\n", flagSet.Arg(0))
		return nil
	default:
		return fmt.Errorf("usage: ticketsmith guest-view [on|off]")
	}
}
