package journal

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by every mutation attempted without an
	// active admin session.
	ErrNotAuthenticated = errors.New("must be signed in")

	// ErrBusy is returned when a save or delete is already in flight.
	ErrBusy = errors.New("another change is still being saved")

	// ErrNotFound is returned when the store has no entry with the given id.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidTransition is returned when an action is not available in the
	// detail's current mode.
	ErrInvalidTransition = errors.New("action not available")
)

// ValidationError reports user input that was refused before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StoreError wraps a failure of the entry store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s entry: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStoreError reports whether err is or wraps a StoreError.
func IsStoreError(err error) bool {
	var s *StoreError
	return errors.As(err, &s)
}
