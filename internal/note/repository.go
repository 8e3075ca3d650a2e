// Package note implements the notes repository: a single JSON document
// holding notes and the status configuration of one working directory.
//
// All access goes through a scoped [Session]. [Repository.WithSession] loads
// and validates the document, runs the callback, and writes the whole
// document back on every exit path. Operations validate before they mutate,
// so a failed operation writes back what it loaded.
package note

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/calvinalkan/note/internal/fs"
	"github.com/calvinalkan/note/internal/store"
)

// Repository gives access to the repository file at one path.
// It holds no document state between sessions.
type Repository struct {
	store  *store.Store
	logger *slog.Logger
}

// Option configures a [Repository].
type Option func(*Repository)

// WithFS sets the filesystem the repository file is accessed through.
// Defaults to [fs.NewReal].
func WithFS(fsys fs.FS) Option {
	return func(r *Repository) {
		r.store = store.New(r.store.Path(), fsys)
	}
}

// WithLogger sets the logger for debug tracing. Defaults to a logger that
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a repository for the file at path.
func New(path string, opts ...Option) *Repository {
	repo := &Repository{
		store:  store.New(path, fs.NewReal()),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(repo)
	}

	return repo
}

// Path returns the repository file path.
func (r *Repository) Path() string {
	return r.store.Path()
}

// Init creates an empty repository and returns its absolute path.
// An existing file is never overwritten; Init fails with
// [ErrAlreadyInitialized] instead.
func (r *Repository) Init() (string, error) {
	abs, err := filepath.Abs(r.Path())
	if err != nil {
		return "", fmt.Errorf("resolve repository path: %w", err)
	}

	raw, err := newDocument().encode()
	if err != nil {
		return "", err
	}

	err = r.store.Create(raw)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", fmt.Errorf("%w in %s", ErrAlreadyInitialized, abs)
		}

		return "", err
	}

	r.logger.Debug("repository initialized", "path", abs)

	return abs, nil
}

// WithSession loads the repository, runs fn against it and saves the full
// document back.
//
// Loading fails fast with [ErrNotInitialized], [ErrCorruptFormat] or
// [ErrRepositoryCorrupted]; fn is not called then. Once fn was called the
// document is saved whatever fn returns, including read-only use, and a
// save error is joined to fn's error.
func (r *Repository) WithSession(fn func(s *Session) error) (err error) {
	doc, err := r.load()
	if err != nil {
		return err
	}

	r.logger.Debug("session opened", "path", r.Path(), "notes", len(doc.notes), "statuses", len(doc.statuses))

	defer func() {
		saveErr := r.save(doc)
		if saveErr != nil {
			err = errors.Join(err, saveErr)
		}
	}()

	return fn(&Session{doc: doc, logger: r.logger})
}

func (r *Repository) load() (*document, error) {
	raw, err := r.store.Load()
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrNotInitialized, r.Path())
		case errors.Is(err, store.ErrCorruptFormat):
			return nil, fmt.Errorf("%w: %w", ErrCorruptFormat, err)
		default:
			return nil, fmt.Errorf("load repository: %w", err)
		}
	}

	return decodeDocument(raw)
}

func (r *Repository) save(doc *document) error {
	raw, err := doc.encode()
	if err != nil {
		return fmt.Errorf("save repository: %w", err)
	}

	err = r.store.Save(raw)
	if err != nil {
		if errors.Is(err, store.ErrNotExist) {
			return fmt.Errorf("save repository: %w: %s", ErrNotInitialized, r.Path())
		}

		return fmt.Errorf("save repository: %w", err)
	}

	r.logger.Debug("session saved", "path", r.Path(), "notes", len(doc.notes))

	return nil
}
