// Package store reads and writes the repository file as an opaque JSON
// document. It knows nothing about notes or statuses: a file either exists
// or not, and either parses as a JSON object or is corrupt.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/calvinalkan/note/internal/fs"
)

const filePerms = 0o644

// Document is the parsed repository file: a JSON object whose members are
// kept as raw JSON. Members the caller never touches are written back
// byte-for-byte (modulo indentation).
type Document map[string]json.RawMessage

// Store owns the on-disk bytes of one repository file.
// The zero value is not usable; call [New].
type Store struct {
	path string
	fs   fs.FS
}

// New returns a store for the file at path.
func New(path string, fsys fs.FS) *Store {
	return &Store{path: path, fs: fsys}
}

// Path returns the repository file path the store was created with.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the repository file is present.
func (s *Store) Exists() (bool, error) {
	exists, err := s.fs.Exists(s.path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.path, err)
	}

	return exists, nil
}

// Create writes doc to a new repository file. It never truncates an existing
// file: if the path is taken, Create returns [ErrAlreadyExists] and leaves
// the file untouched.
func (s *Store) Create(doc Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	file, err := s.fs.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerms)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, s.path)
		}

		return fmt.Errorf("create %s: %w", s.path, err)
	}

	_, writeErr := file.Write(data)
	if writeErr == nil {
		writeErr = file.Sync()
	}

	closeErr := file.Close()

	if writeErr != nil || closeErr != nil {
		// The file is ours; drop the partial write so a retry can create it.
		_ = s.fs.Remove(s.path)

		return fmt.Errorf("write %s: %w", s.path, errors.Join(writeErr, closeErr))
	}

	return nil
}

// Load reads and parses the repository file.
//
// A missing file is [ErrNotExist]. An empty (or whitespace-only) file loads
// as an empty document; callers decide whether required members are there.
// Anything that is not a JSON object is [ErrCorruptFormat].
func (s *Store) Load() (Document, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, s.path)
		}

		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return Decode(data)
}

// Save replaces the repository file content with doc. The file must still
// exist; Save does not resurrect a repository that was removed after Load.
func (s *Store) Save(doc Document) error {
	exists, err := s.Exists()
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrNotExist, s.path)
	}

	data, err := Encode(doc)
	if err != nil {
		return err
	}

	err = s.fs.WriteFileAtomic(s.path, data, filePerms)
	if err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	return nil
}

// Decode parses repository file content.
func Decode(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}

	var doc Document

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptFormat, err)
	}

	// "null" unmarshals into a nil map without error.
	if doc == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrCorruptFormat)
	}

	return doc, nil
}

// Encode serializes doc as indented JSON with sorted keys and a trailing
// newline. HTML characters are not escaped so note content stays readable.
func Encode(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	err := enc.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	return buf.Bytes(), nil
}
