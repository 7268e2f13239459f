package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrEmptyDescription = errors.New("empty description")
	ErrMalformedEntry   = errors.New("entry must look like: description - amount - category")
)

// ValidationError reports bad user input. The conversation can always continue.
type ValidationError struct {
	Field string
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError reports a failed call to the backing store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}

func invalid(field, input string, err error) error {
	return &ValidationError{Field: field, Input: input, Err: err}
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
