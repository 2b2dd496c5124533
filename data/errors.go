package data

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
)

// Standard filesystem errors returned by the adapter and the REST client.
// The common cases wrap their io/fs counterparts so callers can test with
// errors.Is against either sentinel.
var (
	// Path resolution errors
	ErrInvalidPath = errors.New("onedatafs: invalid path detected")
	ErrNoSpace     = errors.New("onedatafs: no matching space found")

	// File operation errors
	ErrNotExist          = fmt.Errorf("onedatafs: file does not exist: %w", fs.ErrNotExist)
	ErrExist             = fmt.Errorf("onedatafs: file already exists: %w", fs.ErrExist)
	ErrPermission        = fmt.Errorf("onedatafs: permission denied: %w", fs.ErrPermission)
	ErrIsDirectory       = errors.New("onedatafs: is a directory")
	ErrNotDirectory      = errors.New("onedatafs: not a directory")
	ErrDirectoryNotEmpty = errors.New("onedatafs: directory not empty")
	ErrReadOnly          = errors.New("onedatafs: read-only filesystem")
	ErrNoAttribute       = errors.New("onedatafs: no such attribute")

	// I/O errors
	ErrClosed  = fmt.Errorf("onedatafs: file already closed: %w", fs.ErrClosed)
	ErrInvalid = fmt.Errorf("onedatafs: invalid argument: %w", fs.ErrInvalid)
)

type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}
