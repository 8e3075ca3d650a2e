package store

import "errors"

// ErrNotExist reports a missing repository file.
var ErrNotExist = errors.New("repository file does not exist")

// ErrAlreadyExists reports that Create found a file at the target path.
var ErrAlreadyExists = errors.New("repository file already exists")

// ErrCorruptFormat reports file content that does not parse as a JSON object.
var ErrCorruptFormat = errors.New("invalid JSON")
