package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/calvinalkan/note/internal/note"

	flag "github.com/spf13/pflag"
)

func statusCmd(a *app) *Command {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.StringP("add", "a", "", "Create the status `name`")
	fs.StringP("edit", "e", "", "Edit the status `name`")
	fs.StringP("delete", "d", "", "Delete the status `name`")
	fs.StringP("style", "s", "", "Display style, e.g. \"bold yellow\" (default white)")
	fs.IntP("priority", "p", 0, "Sort priority, higher first (default 0)")
	fs.BoolP("yes", "y", false, "Delete without asking when notes use the status")

	return &Command{
		Flags: fs,
		Usage: "status [flags]",
		Short: "Create, edit or delete a status",
		Long: `Create, edit or delete a status. Use exactly one of --add, --edit or --delete.

Statuses are displayed with their style: space separated words such as
bold, italic, underline, a color (red, bright_red) or a background (on_red).
Notes are listed in descending order of their status priority.

Deleting a status that notes still use asks for confirmation first and then
clears the status from those notes.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execStatus(ctx, io, a, fs, args)
		},
	}
}

func execStatus(ctx context.Context, io *IO, a *app, fs *flag.FlagSet, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s", errUnexpectedArgs, strings.Join(args, " "))
	}

	actions := 0

	for _, name := range []string{"add", "edit", "delete"} {
		if fs.Changed(name) {
			actions++
		}
	}

	if actions != 1 {
		return errStatusAction
	}

	var change note.StatusChange

	if fs.Changed("style") {
		style, _ := fs.GetString("style")
		change.Style = &style
	}

	if fs.Changed("priority") {
		priority, _ := fs.GetInt("priority")
		change.Priority = &priority
	}

	switch {
	case fs.Changed("add"):
		name, _ := fs.GetString("add")

		err := a.session(ctx, func(s *note.Session) error {
			return s.CreateStatus(name, change)
		})
		if err != nil {
			return err
		}

		io.Println("Created status", name)

	case fs.Changed("edit"):
		if change.Style == nil && change.Priority == nil {
			return errStatusEditOpts
		}

		name, _ := fs.GetString("edit")

		err := a.session(ctx, func(s *note.Session) error {
			return s.EditStatus(name, change)
		})
		if err != nil {
			return err
		}

		io.Println("Updated status", name)

	default:
		if change.Style != nil || change.Priority != nil {
			return errStatusDeleteOpts
		}

		name, _ := fs.GetString("delete")
		yes, _ := fs.GetBool("yes")

		return execStatusDelete(ctx, io, a, name, yes)
	}

	return nil
}

func execStatusDelete(ctx context.Context, io *IO, a *app, name string, yes bool) error {
	confirm := func(affected []note.Entry) bool {
		if yes {
			return true
		}

		io.Printf("%d note(s) use status %s:\n", len(affected), name)
		renderNotes(io, a.style, affected)

		return io.Confirm(ctx, fmt.Sprintf("Delete status %s and clear it from these notes?", name))
	}

	var result note.StatusDeletion

	err := a.session(ctx, func(s *note.Session) error {
		var err error
		result, err = s.DeleteStatus(name, confirm)

		return err
	})
	if err != nil {
		return err
	}

	if result.Declined {
		io.Println("Kept status", name)

		return nil
	}

	if result.Cleared > 0 {
		io.Printf("Deleted status %s (cleared from %d note(s))\n", name, result.Cleared)

		return nil
	}

	io.Println("Deleted status", name)

	return nil
}
