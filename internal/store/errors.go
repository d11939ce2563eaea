package store

import (
	"errors"
	"fmt"
)

// NotFoundError indicates that a project has no stored config document.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("project %q not found", e.Name)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// PersistenceError indicates that a project's document could not be written
// to durable storage. The in-memory record may already have been mutated by
// the time the write fails; callers must treat this as fatal and reportable,
// not something to retry blindly.
type PersistenceError struct {
	Name string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist project %q: %v", e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err is a PersistenceError.
func IsPersistenceError(err error) bool {
	var persistence *PersistenceError
	return errors.As(err, &persistence)
}
