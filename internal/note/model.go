package note

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Note is one entry of the repository's notes sequence.
//
// A note has no stored identifier. Its user-facing id is its 1-based
// position in the sequence at load time (see [Entry.Position]), which shifts
// whenever notes before it are deleted or the sequence is re-sorted.
type Note struct {
	Content string
	Tags    []string
	// Status names an entry of the status configuration. Nil means no status.
	Status *string

	// members present in the file that this version does not know about
	extra map[string]json.RawMessage
}

// HasStatus reports whether the note references a status.
func (n *Note) HasStatus() bool {
	return n.Status != nil && *n.Status != ""
}

// StatusName returns the referenced status name, or "" for none.
func (n *Note) StatusName() string {
	if !n.HasStatus() {
		return ""
	}

	return *n.Status
}

// HasTag reports whether any of the note's tags is in set.
func (n *Note) HasTag(set map[string]struct{}) bool {
	for _, tag := range n.Tags {
		if _, ok := set[tag]; ok {
			return true
		}
	}

	return false
}

// Status is a named label definition from the repository configuration.
// The name is the key it is stored under.
type Status struct {
	Style    string
	Priority int

	extra map[string]json.RawMessage
}

// NamedStatus is a status together with its name, as listed by
// [Session.ListStatuses].
type NamedStatus struct {
	Name     string
	Style    string
	Priority int
}

// ResolvedStatus is the status a note displays with.
//
// Notes without status resolve to the default style and priority with an
// empty Name. A note whose status name is not configured (hand-edited file)
// resolves the same way but keeps the name and sets Missing.
type ResolvedStatus struct {
	Name     string
	Style    string
	Priority int
	Missing  bool
}

// Entry pairs a note with its position and resolved status.
type Entry struct {
	Position int
	Note     Note
	Status   ResolvedStatus
}

var (
	errNullNote   = errors.New("note is null")
	errNullStatus = errors.New("status is null")
)

var (
	noteFields   = []string{"content", "tags", "status"}
	statusFields = []string{"style", "priority"}
)

// UnmarshalJSON decodes a note object and keeps unknown members.
func (n *Note) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return errNullNote
	}

	var known struct {
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
		Status  *string  `json:"status"`
	}

	err := json.Unmarshal(data, &known)
	if err != nil {
		return err
	}

	extra, err := unknownMembers(data, noteFields)
	if err != nil {
		return err
	}

	*n = Note{Content: known.Content, Tags: known.Tags, Status: known.Status, extra: extra}

	return nil
}

// MarshalJSON always writes content, tags and status; absent tags and status
// are written as null.
func (n Note) MarshalJSON() ([]byte, error) {
	var tags []string
	if len(n.Tags) > 0 {
		tags = n.Tags
	}

	var status *string
	if n.HasStatus() {
		status = n.Status
	}

	return marshalMembers(n.extra, map[string]any{
		"content": n.Content,
		"tags":    tags,
		"status":  status,
	})
}

// UnmarshalJSON decodes a status object and keeps unknown members.
func (s *Status) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return errNullStatus
	}

	var known struct {
		Style    string `json:"style"`
		Priority int    `json:"priority"`
	}

	err := json.Unmarshal(data, &known)
	if err != nil {
		return err
	}

	extra, err := unknownMembers(data, statusFields)
	if err != nil {
		return err
	}

	*s = Status{Style: known.Style, Priority: known.Priority, extra: extra}

	return nil
}

// MarshalJSON writes style and priority plus any unknown members.
func (s Status) MarshalJSON() ([]byte, error) {
	return marshalMembers(s.extra, map[string]any{
		"style":    s.Style,
		"priority": s.Priority,
	})
}

// unknownMembers returns the members of a JSON object not named in known,
// or nil if there are none.
func unknownMembers(data []byte, known []string) (map[string]json.RawMessage, error) {
	var members map[string]json.RawMessage

	err := json.Unmarshal(data, &members)
	if err != nil {
		return nil, err
	}

	for _, name := range known {
		delete(members, name)
	}

	if len(members) == 0 {
		return nil, nil
	}

	return members, nil
}

func marshalMembers(extra map[string]json.RawMessage, known map[string]any) ([]byte, error) {
	members := make(map[string]any, len(extra)+len(known))

	for name, raw := range extra {
		members[name] = raw
	}

	for name, value := range known {
		members[name] = value
	}

	return marshalRaw(members)
}

// marshalRaw encodes v without HTML escaping. The store re-indents the
// result but never unescapes it, so escaping has to be off at every level.
func marshalRaw(v any) (json.RawMessage, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
