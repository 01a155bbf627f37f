package cache

import (
	"errors"
	"fmt"
)

// ErrFetchFailed marks an Entry whose lyrics could not be fetched.
var ErrFetchFailed = errors.New("lyrics fetch failed")

// FilesystemError is a failure to read or prepare the cache tree.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

func IsFilesystemError(err error) bool {
	return isFilesystemError(err)
}

func isFilesystemError(err error) bool {
	var e *FilesystemError
	return errors.As(err, &e)
}
