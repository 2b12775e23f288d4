package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced recipient id does not exist.
type ErrNotFound struct {
	ID int64
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("recipient %d not found", e.ID)
}

// ErrDuplicate is returned when a recipient with the same name and address
// already exists.
type ErrDuplicate struct {
	Name    string
	Address string
}

func (e ErrDuplicate) Error() string {
	return fmt.Sprintf("recipient %q at %q already exists", e.Name, e.Address)
}

// StorageError wraps a failed store operation (query, insert, update or delete).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConnectionError reports that the store could not be reached at startup.
type ConnectionError struct {
	Driver string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Driver, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// WrapStorage wraps err as a StorageError for op. ErrNotFound and existing
// StorageErrors pass through unchanged; nil stays nil.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var nf ErrNotFound
	if errors.As(err, &nf) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsNotFound reports whether err carries an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
