package cli

import (
	"errors"

	"github.com/calvinalkan/note/internal/note"
)

var (
	errNoCommand        = errors.New("no command provided")
	errUnknownCommand   = errors.New("unknown command")
	errUnexpectedArgs   = errors.New("unexpected arguments")
	errContentMissing   = errors.New("note content is required")
	errIDMissing        = errors.New("note id is required")
	errInvalidID        = errors.New("invalid note id")
	errTagFilterOnly    = errors.New("--tag cannot be combined with --tags-only or --statuses-only")
	errStatusAction     = errors.New("you must use exactly one of --add, --edit or --delete")
	errStatusDeleteOpts = errors.New("--style and --priority cannot be used with --delete")
	errStatusEditOpts   = errors.New("--edit requires --style or --priority")
)

// errorHint returns a follow-up suggestion for errors the user can fix
// with another command, or "" if there is none.
func errorHint(err error) string {
	switch {
	case errors.Is(err, note.ErrNotInitialized):
		return "run `note init` to create a repository here"
	case errors.Is(err, note.ErrNoteNotFound):
		return "run `note list` to see note ids"
	case errors.Is(err, note.ErrUnknownStatus):
		return "run `note list -S` to see configured statuses"
	case errors.Is(err, note.ErrEmptyRepository):
		return "run `note add <content>` to add a note"
	case errors.Is(err, note.ErrCorruptFormat), errors.Is(err, note.ErrRepositoryCorrupted):
		return "fix or remove the repository file, then try again"
	default:
		return ""
	}
}

// report writes err and its hint to stderr, followed by any warnings
// collected before the command failed. Always returns exit code 1.
func report(o *IO, err error) int {
	o.ErrPrintln("error:", err)

	if hint := errorHint(err); hint != "" {
		o.ErrPrintln("hint:", hint)
	}

	for _, w := range o.warnings {
		o.ErrPrintln("warning:", w)
	}

	o.warnings = nil

	return 1
}
