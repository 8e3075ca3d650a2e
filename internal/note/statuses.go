package note

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// StatusChange holds the optional fields of a status create or edit.
// Nil fields keep their default (create) or previous value (edit).
type StatusChange struct {
	Style    *string
	Priority *int
}

// ConfirmFunc decides whether a status still referenced by notes may be
// deleted. It receives the affected notes. The engine never prompts itself;
// the caller does whatever interaction it needs inside the callback.
type ConfirmFunc func(affected []Entry) bool

// StatusDeletion reports the outcome of [Session.DeleteStatus].
type StatusDeletion struct {
	Name string
	// Cleared is the number of notes whose status was removed.
	Cleared int
	// Declined is set when confirmation was refused; nothing changed then.
	Declined bool
}

// ListStatuses returns all configured statuses ordered by priority
// (highest first), then name.
func (s *Session) ListStatuses() ([]NamedStatus, error) {
	if len(s.doc.statuses) == 0 {
		return nil, ErrNoStatusesConfigured
	}

	statuses := make([]NamedStatus, 0, len(s.doc.statuses))

	for name, status := range s.doc.statuses {
		style := status.Style
		if style == "" {
			style = DefaultStyle
		}

		statuses = append(statuses, NamedStatus{Name: name, Style: style, Priority: status.Priority})
	}

	slices.SortFunc(statuses, func(a, b NamedStatus) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})

	return statuses, nil
}

// CreateStatus adds a status. Style defaults to [DefaultStyle] and priority
// to [DefaultPriority].
func (s *Session) CreateStatus(name string, change StatusChange) error {
	if strings.TrimSpace(name) == "" {
		return ErrStatusNameRequired
	}

	if _, ok := s.doc.statuses[name]; ok {
		return fmt.Errorf("%w: %s", ErrStatusAlreadyExists, name)
	}

	status := Status{Style: DefaultStyle, Priority: DefaultPriority}

	if change.Style != nil {
		status.Style = *change.Style
	}

	if change.Priority != nil {
		status.Priority = *change.Priority
	}

	s.doc.statuses[name] = status

	s.logger.Debug("status created", "name", name, "style", status.Style, "priority", status.Priority)

	return nil
}

// EditStatus overwrites the supplied fields of an existing status and
// re-sorts the notes, since the priority may have changed.
func (s *Session) EditStatus(name string, change StatusChange) error {
	status, ok := s.doc.statuses[name]
	if !ok {
		return unknownStatusError(name)
	}

	if change.Style != nil {
		status.Style = *change.Style
	}

	if change.Priority != nil {
		status.Priority = *change.Priority
	}

	s.doc.statuses[name] = status
	s.doc.sortNotes()

	s.logger.Debug("status edited", "name", name, "style", status.Style, "priority", status.Priority)

	return nil
}

// NotesWithStatus returns the notes referencing the named status.
func (s *Session) NotesWithStatus(name string) ([]Entry, error) {
	if _, ok := s.doc.statuses[name]; !ok {
		return nil, unknownStatusError(name)
	}

	return s.notesWithStatus(name), nil
}

// DeleteStatus removes a status.
//
// If notes reference it, confirm is asked first; a nil confirm declines.
// On decline nothing changes. Otherwise the referencing notes lose their
// status, the notes are re-sorted and the status is removed.
func (s *Session) DeleteStatus(name string, confirm ConfirmFunc) (StatusDeletion, error) {
	if _, ok := s.doc.statuses[name]; !ok {
		return StatusDeletion{}, unknownStatusError(name)
	}

	affected := s.notesWithStatus(name)

	if len(affected) > 0 && (confirm == nil || !confirm(affected)) {
		s.logger.Debug("status deletion declined", "name", name, "affected", len(affected))

		return StatusDeletion{Name: name, Declined: true}, nil
	}

	for _, entry := range affected {
		s.doc.notes[entry.Position-1].Status = nil
	}

	s.doc.sortNotes()
	delete(s.doc.statuses, name)

	s.logger.Debug("status deleted", "name", name, "cleared", len(affected))

	return StatusDeletion{Name: name, Cleared: len(affected)}, nil
}

func (s *Session) notesWithStatus(name string) []Entry {
	var entries []Entry

	for i := range s.doc.notes {
		if s.doc.notes[i].StatusName() == name {
			entries = append(entries, s.doc.entry(i))
		}
	}

	return entries
}
