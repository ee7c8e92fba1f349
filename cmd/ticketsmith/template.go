// Copyright 2026 The Ticketsmith Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/ticketsmith/ticketsmith/lib/compose"
	"github.com/ticketsmith/ticketsmith/lib/field"
	"github.com/ticketsmith/ticketsmith/lib/resolve"
	"github.com/ticketsmith/ticketsmith/lib/template"
)

func runTemplate(args []string) error {
	if len(args) < 1 {
		printTemplateUsage()
		return fmt.Errorf("template subcommand required")
	}
	switch args[0] {
	case "create":
		return runTemplateCreate(args[1:])
	case "list":
		return runTemplateList(args[1:])
	case "show":
		return runTemplateShow(args[1:])
	case "delete":
		return runTemplateDelete(args[1:])
	case "rename":
		return runTemplateRename(args[1:])
	case "set-document":
		return runTemplateSetDocument(args[1:])
	case "add-textbox":
		return runTemplateAddTextbox(args[1:])
	case "add-checkbox":
		return runTemplateAddCheckbox(args[1:])
	case "add-static":
		return runTemplateAddStatic(args[1:])
	case "set-priority":
		return runTemplateSetPriority(args[1:])
	case "remove":
		return runTemplateRemove(args[1:])
	case "reset-counters":
		return runTemplateResetCounters(args[1:])
	case "-h", "--help", "help":
		printTemplateUsage()
		return nil
	default:
		printTemplateUsage()
		return fmt.Errorf("unknown template subcommand: %q", args[0])
	}
}

func printTemplateUsage() {
	fmt.Fprintf(pflag.CommandLine.Output(), `Usage: ticketsmith template <subcommand> [flags]

Subcommands:
  create          Create an empty template
  list            List templates in the active database
  show            Print a template's fields in display order
  delete          Delete a template (its tickets remain)
  rename          Rename a template
  set-document    Point a template at a new source document
  add-textbox     Add a textbox field
  add-checkbox    Add a checkbox field
  add-static      Add a static field (counter, day, month, ...)
  set-priority    Move a field within the display order
  remove          Remove a field
  reset-counters  Zero every counter on a template
`)
}

// editTemplate loads a template, applies mutate, and saves it back
// when the mutation dirtied it.
func editTemplate(adminUser, name string, mutate func(*template.Template) error) error {
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireEdit(db, adminUser); err != nil {
		return err
	}
	tpl, err := db.LoadTemplate(name)
	if err != nil {
		return err
	}
	if err := mutate(tpl); err != nil {
		return err
	}
	if tpl.Dirty() {
		return db.SaveTemplate(tpl)
	}
	return nil
}

func runTemplateCreate(args []string) error {
	flagSet := pflag.NewFlagSet("template create", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	document := flagSet.String("document", "", "path of the source document the template is laid out over")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith template create [--document path] <name>")
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireEdit(db, *user); err != nil {
		return err
	}
	tpl := template.New(flagSet.Arg(0))
	if tpl.Name == "" {
		return fmt.Errorf("template name is empty after removing unsafe characters")
	}
	tpl.SetDocumentPath(*document)
	if err := db.CreateTemplate(tpl); err != nil {
		return err
	}
	fmt.Printf("created template %q\n", tpl.Name)
	return nil
}

func runTemplateList(args []string) error {
	flagSet := pflag.NewFlagSet("template list", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this account")
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
	names, err := db.ListTemplates()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runTemplateShow(args []string) error {
	flagSet := pflag.NewFlagSet("template show", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith template show <name>")
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireView(db, *user); err != nil {
		return err
	}
	tpl, err := db.LoadTemplate(flagSet.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("template %q\n", tpl.Name)
	if tpl.DocumentPath != "" {
		fmt.Printf("  document %s\n", tpl.DocumentPath)
	}
	for _, e := range tpl.Order() {
		switch e.Source {
		case compose.SourceTextbox:
			b := tpl.Textboxes[e.Index]
			required := ""
			if b.Required {
				required = " required"
			}
			fmt.Printf("  [%3d] textbox  %-20s at %g,%g %gx%g%s\n",
				b.Priority, b.Name, b.X, b.Y, b.Width, b.Height, required)
		case compose.SourceCheckbox:
			b := tpl.Checkboxes[e.Index]
			required := ""
			if b.Required {
				required = " required"
			}
			fmt.Printf("  [%3d] checkbox %-20s at %g,%g scale %g%s\n",
				b.Priority, b.Name, b.X, b.Y, b.Scale, required)
		}
	}
	for _, s := range tpl.Statics {
		extra := ""
		if s.Kind == field.KindCounter {
			extra = fmt.Sprintf(" value %s", s.Value)
			if s.ResetsAnnually {
				extra += " (resets annually)"
			}
		}
		fmt.Printf("  static %-10s %-20s at %g,%g%s\n", s.Kind.Tag(), s.Name, s.X, s.Y, extra)
	}
	return nil
}

func runTemplateDelete(args []string) error {
	flagSet := pflag.NewFlagSet("template delete", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith template delete <name>")
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireEdit(db, *user); err != nil {
		return err
	}
	return db.DeleteTemplate(flagSet.Arg(0))
}

func runTemplateRename(args []string) error {
	flagSet := pflag.NewFlagSet("template rename", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 2 {
		return fmt.Errorf("usage: ticketsmith template rename <old> <new>")
	}
	db, _, _, err := openActive()
	if err != nil {
		return err
	}
	if _, err := requireEdit(db, *user); err != nil {
		return err
	}
	return db.RenameTemplate(flagSet.Arg(0), flagSet.Arg(1))
}

func runTemplateSetDocument(args []string) error {
	flagSet := pflag.NewFlagSet("template set-document", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 2 {
		return fmt.Errorf("usage: ticketsmith template set-document <template> <path>")
	}
	return editTemplate(*user, flagSet.Arg(0), func(tpl *template.Template) error {
		tpl.SetDocumentPath(flagSet.Arg(1))
		return nil
	})
}

func runTemplateAddTextbox(args []string) error {
	flagSet := pflag.NewFlagSet("template add-textbox", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	x := flagSet.Float64("x", 0, "horizontal position")
	y := flagSet.Float64("y", 0, "vertical position")
	width := flagSet.Float64("width", field.DefaultWidth, "box width")
	height := flagSet.Float64("height", field.DefaultHeight, "box height")
	fontSize := flagSet.Float64("font-size", field.DefaultFontSize, "font size")
	required := flagSet.Bool("required", false, "must be filled before a ticket saves")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 2 {
		return fmt.Errorf("usage: ticketsmith template add-textbox [flags] <template> <field>")
	}
	return editTemplate(*user, flagSet.Arg(0), func(tpl *template.Template) error {
		name := tpl.AddTextbox(flagSet.Arg(1))
		if err := tpl.SetTextboxPosition(name, *x, *y); err != nil {
			return err
		}
		if err := tpl.SetTextboxSize(name, *width, *height); err != nil {
			return err
		}
		if err := tpl.SetTextboxFontSize(name, *fontSize); err != nil {
			return err
		}
		if err := tpl.SetTextboxRequired(name, *required); err != nil {
			return err
		}
		fmt.Printf("added textbox %q\n", name)
		return nil
	})
}

func runTemplateAddCheckbox(args []string) error {
	flagSet := pflag.NewFlagSet("template add-checkbox", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	x := flagSet.Float64("x", 0, "horizontal position")
	y := flagSet.Float64("y", 0, "vertical position")
	scale := flagSet.Float64("scale", field.DefaultScale, "edge multiplier")
	required := flagSet.Bool("required", false, "must be ticked before a ticket saves")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 2 {
		return fmt.Errorf("usage: ticketsmith template add-checkbox [flags] <template> <field>")
	}
	return editTemplate(*user, flagSet.Arg(0), func(tpl *template.Template) error {
		name := tpl.AddCheckbox(flagSet.Arg(1))
		if err := tpl.SetCheckboxPosition(name, *x, *y); err != nil {
			return err
		}
		if err := tpl.SetCheckboxScale(name, *scale); err != nil {
			return err
		}
		if err := tpl.SetCheckboxRequired(name, *required); err != nil {
			return err
		}
		fmt.Printf("added checkbox %q\n", name)
		return nil
	})
}

func runTemplateAddStatic(args []string) error {
	flagSet := pflag.NewFlagSet("template add-static", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	x := flagSet.Float64("x", 0, "horizontal position")
	y := flagSet.Float64("y", 0, "vertical position")
	fontSize := flagSet.Float64("font-size", field.DefaultFontSize, "font size")
	annual := flagSet.Bool("resets-annually", false, "zero this counter each new year (counters only)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 2 {
		return fmt.Errorf("usage: ticketsmith template add-static [flags] <template> <kind>")
	}
	kind, err := field.KindFromTag(flagSet.Arg(1))
	if err != nil {
		return err
	}
	return editTemplate(*user, flagSet.Arg(0), func(tpl *template.Template) error {
		name := tpl.AddStatic(kind)
		if err := tpl.SetStaticPosition(name, *x, *y); err != nil {
			return err
		}
		if err := tpl.SetStaticFontSize(name, *fontSize); err != nil {
			return err
		}
		if *annual {
			if err := tpl.SetResetsAnnually(name, true); err != nil {
				return err
			}
		}
		fmt.Printf("added static field %q\n", name)
		return nil
	})
}

func runTemplateSetPriority(args []string) error {
	flagSet := pflag.NewFlagSet("template set-priority", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	checkbox := flagSet.Bool("checkbox", false, "the field is a checkbox")
	priority := flagSet.Int("priority", 0, "new priority (lower draws earlier)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 2 {
		return fmt.Errorf("usage: ticketsmith template set-priority [--checkbox] --priority N <template> <field>")
	}
	return editTemplate(*user, flagSet.Arg(0), func(tpl *template.Template) error {
		if *checkbox {
			return tpl.SetCheckboxPriority(flagSet.Arg(1), *priority)
		}
		return tpl.SetTextboxPriority(flagSet.Arg(1), *priority)
	})
}

func runTemplateRemove(args []string) error {
	flagSet := pflag.NewFlagSet("template remove", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	checkbox := flagSet.Bool("checkbox", false, "the field is a checkbox")
	static := flagSet.Bool("static", false, "the field is a static field")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 2 {
		return fmt.Errorf("usage: ticketsmith template remove [--checkbox|--static] <template> <field>")
	}
	return editTemplate(*user, flagSet.Arg(0), func(tpl *template.Template) error {
		switch {
		case *static:
			return tpl.RemoveStatic(flagSet.Arg(1))
		case *checkbox:
			return tpl.RemoveCheckbox(flagSet.Arg(1))
		default:
			return tpl.RemoveTextbox(flagSet.Arg(1))
		}
	})
}

func runTemplateResetCounters(args []string) error {
	flagSet := pflag.NewFlagSet("template reset-counters", pflag.ContinueOnError)
	user := flagSet.String("user", "", "authenticate as this admin account")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return fmt.Errorf("usage: ticketsmith template reset-counters <template>")
	}
	return editTemplate(*user, flagSet.Arg(0), func(tpl *template.Template) error {
		n := resolve.ResetCounters(tpl)
		fmt.Printf("reset %d counter(s)\n", n)
		return nil
	})
}
