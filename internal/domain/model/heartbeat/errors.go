package heartbeat

import (
	"errors"
	"fmt"
)

// Common heartbeat errors
var (
	// ErrRecordNotFound is the "absent" result of a store read.
	// It is never a failure on its own: a module that has not signaled yet has no record.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidInterval is a configuration error raised when an interval is negative or NaN.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrInvalidModuleName is returned for an empty module name.
	ErrInvalidModuleName = errors.New("invalid module name")
)

// StoreError wraps an I/O failure of the record store other than "not found".
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("record store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("record store %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
