package lyrics

import (
	"errors"
	"fmt"
)

// ErrNotFound means lrclib answered but had nothing for any search variation.
var ErrNotFound = errors.New("lyrics not found")

// NetworkError is a failure to get an answer from lrclib at all: dial and
// timeout errors, or a server error status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e == nil || e.Err == nil {
		return "lyrics server unreachable"
	}
	if e.StatusCode != 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("lyrics server unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsNetworkError(err error) bool {
	var e *NetworkError
	return errors.As(err, &e)
}
