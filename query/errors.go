package query

import (
	"errors"
	"fmt"
)

// ErrInvalidField is wrapped by every error about a field reference that
// cannot be parsed or resolved.
var ErrInvalidField = errors.New("invalid field reference")

// FieldError describes an invalid field reference. Token is the part of
// Field the error is about.
type FieldError struct {
	Field  string
	Token  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %q: %s %q", ErrInvalidField, e.Field, e.Reason, e.Token)
}

func (e *FieldError) Unwrap() error { return ErrInvalidField }

func fieldErr(field, token, reason string) error {
	return &FieldError{Field: field, Token: token, Reason: reason}
}
