package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/calvinalkan/note/internal/note"

	flag "github.com/spf13/pflag"
)

func deleteCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("delete", flag.ContinueOnError),
		Usage: "delete <id>",
		Short: "Delete a note",
		Long: `Delete the note with the given id.

Ids are positions in the listing, so the ids of later notes shift down by
one after a delete.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execDelete(ctx, io, a, args)
		},
	}
}

func execDelete(ctx context.Context, io *IO, a *app, args []string) error {
	if len(args) == 0 {
		return errIDMissing
	}

	if len(args) > 1 {
		return fmt.Errorf("%w: %s", errUnexpectedArgs, strings.Join(args[1:], " "))
	}

	position, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", errInvalidID, args[0])
	}

	err = a.session(ctx, func(s *note.Session) error {
		return s.DeleteNote(position)
	})
	if err != nil {
		return err
	}

	io.Printf("Deleted note %d\n", position)

	return nil
}
