package ports

import (
	"errors"
	"fmt"
)

// ErrNotFound matches any StoreError whose code is CodeNotFound.
var ErrNotFound = errors.New("record not found")

const CodeNotFound = "not_found"

// StoreError wraps a failure from the record store with the operation, the
// collection it targeted and the provider error code (a SQLSTATE for Postgres).
type StoreError struct {
	Op         string
	Collection string
	Code       string
	Err        error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("store: %s %s", e.Op, e.Collection)
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrNotFound && e.Code == CodeNotFound
}

func NotFound(op, collection string) error {
	return &StoreError{Op: op, Collection: collection, Code: CodeNotFound, Err: ErrNotFound}
}
