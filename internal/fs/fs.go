// Package fs provides the filesystem abstraction used by the document store.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the store needs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] package
//   - [Faulty]: testing implementation that fails selected operations
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile(".notes")
//	if err != nil {
//	    return err
//	}
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File] and can be used with all
// standard library functions that accept [io.Reader] or [io.Writer].
type File interface {
	io.ReadWriteCloser

	// Sync commits the file's contents to disk. See [os.File.Sync].
	Sync() error
}

// FS defines the filesystem operations used for reading and writing the
// repository file.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// OpenFile opens a file with specified flags and permissions. See [os.OpenFile].
	// The store uses it with [os.O_EXCL] to create a file without clobbering.
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces the content of path atomically.
	// Uses a temp file + rename so readers never observe a partial write.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory. See [os.Remove].
	Remove(path string) error
}

// Compile-time interface checks.
var _ File = (*os.File)(nil)
