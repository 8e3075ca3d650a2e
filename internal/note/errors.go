package note

import "errors"

// Default values for statuses.
const (
	DefaultStyle    = "white"
	DefaultPriority = 0
)

// Initialization errors.
var ErrAlreadyInitialized = errors.New("notes repository already initialized")

// Access errors.
var (
	ErrNotInitialized      = errors.New("notes repository does not exist")
	ErrCorruptFormat       = errors.New("cannot read repository")
	ErrRepositoryCorrupted = errors.New("notes repository is corrupted")
)

// Validation errors.
var (
	ErrInvalidTagFormat    = errors.New("invalid tags format")
	ErrUnknownStatus       = errors.New("unknown status")
	ErrStatusAlreadyExists = errors.New("status already exists")
	ErrContentRequired     = errors.New("note content is required")
	ErrStatusNameRequired  = errors.New("status name is required")
)

// Lookup errors.
var (
	ErrNoteNotFound         = errors.New("note not found")
	ErrEmptyRepository      = errors.New("repository is empty")
	ErrNoMatchingNotes      = errors.New("no notes match filter")
	ErrNoTaggedNotes        = errors.New("there are no tagged notes in the repository")
	ErrNoStatusesConfigured = errors.New("no statuses configured")
)

// Config errors.
var (
	ErrConfigFileNotFound  = errors.New("config file not found")
	ErrConfigFileRead      = errors.New("cannot read config file")
	ErrConfigInvalid       = errors.New("invalid config file")
	ErrRepositoryPathEmpty = errors.New("repository cannot be empty")
)
