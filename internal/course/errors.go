package course

import (
	"errors"
	"fmt"
)

// ErrInvalidField is the root of every record validation failure.
var ErrInvalidField = errors.New("invalid course field")

var (
	ErrInvalidPoints = fmt.Errorf("%w: points must be a positive number", ErrInvalidField)
	ErrInvalidGrade  = fmt.Errorf("%w: grade must be numeric or %q", ErrInvalidField, PassToken)
	ErrMissingField  = fmt.Errorf("%w: required field is empty", ErrInvalidField)
	ErrOutOfRange    = fmt.Errorf("%w: grade out of range", ErrInvalidField)
)

// FieldError names the offending field so the caller can ask for a correction.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(field, value string, err error) error {
	return &FieldError{Field: field, Value: value, Err: err}
}
