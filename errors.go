package onedatafs

import "github.com/mwantia/onedatafs/data"

// Re-exported sentinel errors, so callers don't need to import the data
// package for error checks.
var (
	ErrInvalidPath       = data.ErrInvalidPath
	ErrNoSpace           = data.ErrNoSpace
	ErrNotExist          = data.ErrNotExist
	ErrExist             = data.ErrExist
	ErrPermission        = data.ErrPermission
	ErrIsDirectory       = data.ErrIsDirectory
	ErrNotDirectory      = data.ErrNotDirectory
	ErrDirectoryNotEmpty = data.ErrDirectoryNotEmpty
	ErrReadOnly          = data.ErrReadOnly
	ErrNoAttribute       = data.ErrNoAttribute
	ErrClosed            = data.ErrClosed
	ErrInvalid           = data.ErrInvalid
)
