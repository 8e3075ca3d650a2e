package note

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/calvinalkan/note/internal/store"
)

// Member names of the repository document.
const (
	fieldNotes    = "notes"
	fieldConfig   = "config"
	fieldStatuses = "statuses"
)

// document is the typed view of a repository file held for one session.
// raw and rawConfig keep members the engine does not interpret.
type document struct {
	raw       store.Document
	rawConfig map[string]json.RawMessage
	notes     []Note
	statuses  map[string]Status
}

// newDocument returns the content of a freshly initialized repository.
func newDocument() *document {
	return &document{
		raw:       store.Document{},
		rawConfig: map[string]json.RawMessage{},
		notes:     []Note{},
		statuses:  map[string]Status{},
	}
}

// decodeDocument validates the required members of raw and decodes them.
// Missing members are corruption, not emptiness.
func decodeDocument(raw store.Document) (*document, error) {
	notesRaw, ok := raw[fieldNotes]
	if !ok {
		return nil, fmt.Errorf("%w: missing field '%s'", ErrRepositoryCorrupted, fieldNotes)
	}

	configRaw, ok := raw[fieldConfig]
	if !ok {
		return nil, fmt.Errorf("%w: missing field '%s'", ErrRepositoryCorrupted, fieldConfig)
	}

	var notes []Note

	if isNull(notesRaw) {
		return nil, fmt.Errorf("%w: field '%s' is null", ErrRepositoryCorrupted, fieldNotes)
	}

	err := json.Unmarshal(notesRaw, &notes)
	if err != nil {
		return nil, fmt.Errorf("%w: field '%s': %w", ErrRepositoryCorrupted, fieldNotes, err)
	}

	var config map[string]json.RawMessage

	err = json.Unmarshal(configRaw, &config)
	if err != nil || config == nil {
		return nil, fmt.Errorf("%w: field '%s' is not an object", ErrRepositoryCorrupted, fieldConfig)
	}

	statusesRaw, ok := config[fieldStatuses]
	if !ok {
		return nil, fmt.Errorf("%w: missing field '%s.%s'", ErrRepositoryCorrupted, fieldConfig, fieldStatuses)
	}

	var statuses map[string]Status

	if !bytes.HasPrefix(bytes.TrimSpace(statusesRaw), []byte("{")) {
		return nil, fmt.Errorf("%w: field '%s.%s' is not an object", ErrRepositoryCorrupted, fieldConfig, fieldStatuses)
	}

	err = json.Unmarshal(statusesRaw, &statuses)
	if err != nil {
		return nil, fmt.Errorf("%w: field '%s.%s': %w", ErrRepositoryCorrupted, fieldConfig, fieldStatuses, err)
	}

	for i := range notes {
		if strings.TrimSpace(notes[i].Content) == "" {
			return nil, fmt.Errorf("%w: note %d has no content", ErrRepositoryCorrupted, i+1)
		}
	}

	if notes == nil {
		notes = []Note{}
	}

	return &document{
		raw:       raw,
		rawConfig: config,
		notes:     notes,
		statuses:  statuses,
	}, nil
}

// encode writes the typed members back into the raw document.
func (d *document) encode() (store.Document, error) {
	notes := d.notes
	if notes == nil {
		notes = []Note{}
	}

	notesRaw, err := marshalRaw(notes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fieldNotes, err)
	}

	statuses := d.statuses
	if statuses == nil {
		statuses = map[string]Status{}
	}

	statusesRaw, err := marshalRaw(statuses)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", fieldConfig, fieldStatuses, err)
	}

	config := make(map[string]json.RawMessage, len(d.rawConfig)+1)
	for name, value := range d.rawConfig {
		config[name] = value
	}

	config[fieldStatuses] = statusesRaw

	configRaw, err := marshalRaw(config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fieldConfig, err)
	}

	out := make(store.Document, len(d.raw)+2)
	for name, value := range d.raw {
		out[name] = value
	}

	out[fieldNotes] = notesRaw
	out[fieldConfig] = configRaw

	return out, nil
}

// priority is the rank a note sorts by. Notes without status, or with a
// status that is not configured, rank as [DefaultPriority].
func (d *document) priority(n *Note) int {
	if !n.HasStatus() {
		return DefaultPriority
	}

	status, ok := d.statuses[*n.Status]
	if !ok {
		return DefaultPriority
	}

	return status.Priority
}

// sortNotes stably re-orders the notes by descending priority; equal
// priorities keep their relative order.
func (d *document) sortNotes() {
	slices.SortStableFunc(d.notes, func(a, b Note) int {
		return cmp.Compare(d.priority(&b), d.priority(&a))
	})
}

// resolve returns the status a note displays with.
func (d *document) resolve(n *Note) ResolvedStatus {
	if !n.HasStatus() {
		return ResolvedStatus{Style: DefaultStyle, Priority: DefaultPriority}
	}

	status, ok := d.statuses[*n.Status]
	if !ok {
		return ResolvedStatus{Name: *n.Status, Style: DefaultStyle, Priority: DefaultPriority, Missing: true}
	}

	style := status.Style
	if style == "" {
		style = DefaultStyle
	}

	return ResolvedStatus{Name: *n.Status, Style: style, Priority: status.Priority}
}

func (d *document) entry(index int) Entry {
	return Entry{
		Position: index + 1,
		Note:     d.notes[index],
		Status:   d.resolve(&d.notes[index]),
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
