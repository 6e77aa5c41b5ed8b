package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means no connection to the store could be obtained. The
	// session cannot continue without storage.
	ErrUnavailable = errors.New("storage: unavailable")

	// ErrNotFound means the addressed row does not exist.
	ErrNotFound = errors.New("storage: not found")
)

// QueryError is a failed insert, update, delete or select.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// queryErr wraps err as a QueryError unless it already signals that the store
// is unavailable.
func queryErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return &QueryError{Op: op, Err: err}
}
