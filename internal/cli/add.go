package cli

import (
	"context"
	"strings"

	"github.com/calvinalkan/note/internal/note"

	flag "github.com/spf13/pflag"
)

func addCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.StringP("tags", "t", "", "Comma separated tags, e.g. personal,todo")
	fs.StringP("status", "s", "", "Status of the note (must be configured)")

	return &Command{
		Flags: fs,
		Usage: "add <content> [flags]",
		Short: "Add a note",
		Long: `Add a note with the given content.

Multiple arguments are joined with spaces. Tags must be alphanumeric words
separated by commas without spaces. The note is placed according to the
priority of its status; the printed id is its position after sorting.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execAdd(ctx, io, a, fs, args)
		},
	}
}

func execAdd(ctx context.Context, io *IO, a *app, fs *flag.FlagSet, args []string) error {
	content := strings.Join(args, " ")
	if strings.TrimSpace(content) == "" {
		return errContentMissing
	}

	var tags []string

	if fs.Changed("tags") {
		raw, _ := fs.GetString("tags")

		parsed, err := note.ParseTags(raw)
		if err != nil {
			return err
		}

		tags = parsed
	}

	status, _ := fs.GetString("status")

	var position int

	err := a.session(ctx, func(s *note.Session) error {
		var err error
		position, err = s.AddNote(content, tags, status)

		return err
	})
	if err != nil {
		return err
	}

	io.Printf("Added note %d\n", position)

	return nil
}
