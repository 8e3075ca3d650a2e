package fs

import (
	"errors"
	"os"
	"sync"
)

// Op names a filesystem operation that [Faulty] can fail.
type Op string

// Operations that can be failed.
const (
	OpOpenFile        Op = "openfile"
	OpReadFile        Op = "readfile"
	OpWriteFileAtomic Op = "writefileatomic"
	OpExists          Op = "exists"
	OpRemove          Op = "remove"
)

// ErrInjected is the default error returned by a failed [Faulty] operation.
var ErrInjected = errors.New("injected fault")

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Op  Op
	Err error
}

// Error returns the operation and the underlying error's message.
func (e *InjectedError) Error() string {
	return string(e.Op) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
func IsInjected(err error) bool {
	var injected *InjectedError

	return errors.As(err, &injected)
}

// Faulty wraps an [FS] and fails selected operations.
//
// Unlike a random chaos filesystem, failures are deterministic: an operation
// fails every time once [Faulty.Fail] was called for it, until
// [Faulty.Heal]. Calls are counted per operation, so tests can also assert
// what the code under test touched.
//
// Faulty is safe for concurrent use.
type Faulty struct {
	inner FS

	mu     sync.Mutex
	faults map[Op]error
	calls  map[Op]int
}

// NewFaulty returns a [Faulty] that delegates to inner.
func NewFaulty(inner FS) *Faulty {
	return &Faulty{
		inner:  inner,
		faults: make(map[Op]error),
		calls:  make(map[Op]int),
	}
}

// Fail makes every following call of op return err.
// A nil err fails with [ErrInjected].
func (f *Faulty) Fail(op Op, err error) {
	if err == nil {
		err = ErrInjected
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults[op] = err
}

// Heal removes all configured failures.
func (f *Faulty) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.faults)
}

// Calls returns how often op was invoked, failed calls included.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Faulty) enter(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	if err, ok := f.faults[op]; ok {
		return &InjectedError{Op: op, Err: err}
	}

	return nil
}

func (f *Faulty) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.enter(OpOpenFile); err != nil {
		return nil, err
	}

	return f.inner.OpenFile(path, flag, perm)
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.enter(OpReadFile); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.enter(OpWriteFileAtomic); err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.enter(OpExists); err != nil {
		return false, err
	}

	return f.inner.Exists(path)
}

func (f *Faulty) Remove(path string) error {
	if err := f.enter(OpRemove); err != nil {
		return err
	}

	return f.inner.Remove(path)
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)
