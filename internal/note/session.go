package note

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Session is the in-memory repository document of one
// [Repository.WithSession] call. It must not be used after the callback
// returns.
type Session struct {
	doc    *document
	logger *slog.Logger
}

// Len returns the number of notes.
func (s *Session) Len() int {
	return len(s.doc.notes)
}

// AddNote appends a note and re-sorts the sequence by status priority.
// It returns the position the note ended up at.
//
// tags may be empty. status may be "" for no status; otherwise it must be
// configured. Nothing is added when validation fails.
func (s *Session) AddNote(content string, tags []string, status string) (int, error) {
	if strings.TrimSpace(content) == "" {
		return 0, ErrContentRequired
	}

	if status != "" {
		if _, ok := s.doc.statuses[status]; !ok {
			return 0, unknownStatusError(status)
		}
	}

	err := ValidateTags(tags)
	if err != nil {
		return 0, err
	}

	added := Note{Content: content}

	if len(tags) > 0 {
		added.Tags = slices.Clone(tags)
	}

	if status != "" {
		name := status
		added.Status = &name
	}

	s.doc.notes = append(s.doc.notes, added)
	s.doc.sortNotes()

	// Sorting is stable and the new note was last, so it is the last note
	// with its priority.
	position := len(s.doc.notes)
	priority := s.doc.priority(&added)

	for i := len(s.doc.notes) - 1; i >= 0; i-- {
		if s.doc.priority(&s.doc.notes[i]) == priority {
			position = i + 1

			break
		}
	}

	s.logger.Debug("note added", "position", position, "tags", len(added.Tags), "status", status)

	return position, nil
}

// ListNotes returns the notes in order with their positions.
//
// With a non-empty filter only notes sharing at least one tag with it are
// returned; positions stay those of the full sequence.
func (s *Session) ListNotes(filter []string) ([]Entry, error) {
	if len(s.doc.notes) == 0 {
		return nil, ErrEmptyRepository
	}

	set := make(map[string]struct{}, len(filter))
	for _, tag := range filter {
		set[tag] = struct{}{}
	}

	entries := make([]Entry, 0, len(s.doc.notes))

	for i := range s.doc.notes {
		if len(set) > 0 && !s.doc.notes[i].HasTag(set) {
			continue
		}

		entries = append(entries, s.doc.entry(i))
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrNoMatchingNotes, strings.Join(filter, ", "))
	}

	return entries, nil
}

// ListTags returns every tag used by any note once, in first-seen order.
func (s *Session) ListTags() ([]string, error) {
	seen := make(map[string]struct{})

	var tags []string

	for i := range s.doc.notes {
		for _, tag := range s.doc.notes[i].Tags {
			if _, ok := seen[tag]; ok {
				continue
			}

			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		return nil, ErrNoTaggedNotes
	}

	return tags, nil
}

// DeleteNote removes the note at the 1-based position. Positions of later
// notes shift down by one.
func (s *Session) DeleteNote(position int) error {
	if position < 1 || position > len(s.doc.notes) {
		return fmt.Errorf("%w: %d", ErrNoteNotFound, position)
	}

	s.doc.notes = slices.Delete(s.doc.notes, position-1, position)

	s.logger.Debug("note deleted", "position", position, "remaining", len(s.doc.notes))

	return nil
}

func unknownStatusError(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownStatus, name)
}
