package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/calvinalkan/note/internal/note"

	flag "github.com/spf13/pflag"
)

func listCmd(a *app) *Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.StringArrayP("tag", "t", nil, "Show only notes with this tag (repeatable, matches any)")
	fs.BoolP("tags-only", "T", false, "List the tags used by notes")
	fs.BoolP("statuses-only", "S", false, "List the configured statuses")

	return &Command{
		Flags: fs,
		Usage: "list [flags]",
		Short: "List notes, tags or statuses",
		Long: `List all notes, ordered by status priority (highest first).

Use --tag to show only notes carrying at least one of the given tags; ids
stay those of the full listing. --tags-only and --statuses-only list tags
and statuses instead of notes and cannot be combined with --tag.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			return execList(ctx, io, a, fs, args)
		},
	}
}

func execList(ctx context.Context, io *IO, a *app, fs *flag.FlagSet, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: %s", errUnexpectedArgs, strings.Join(args, " "))
	}

	filter, _ := fs.GetStringArray("tag")
	tagsOnly, _ := fs.GetBool("tags-only")
	statusesOnly, _ := fs.GetBool("statuses-only")

	if len(filter) > 0 && (tagsOnly || statusesOnly) {
		return errTagFilterOnly
	}

	return a.session(ctx, func(s *note.Session) error {
		if !tagsOnly && !statusesOnly {
			entries, err := s.ListNotes(filter)
			if err != nil {
				return err
			}

			warnMissingStatuses(io, entries)
			renderNotes(io, a.style, entries)

			return nil
		}

		if tagsOnly {
			tags, err := s.ListTags()
			if err != nil {
				return err
			}

			renderTags(io, tags)
		}

		if statusesOnly {
			statuses, err := s.ListStatuses()
			if err != nil {
				return err
			}

			renderStatuses(io, a.style, statuses)
		}

		return nil
	})
}
