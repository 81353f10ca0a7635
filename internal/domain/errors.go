package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotImplemented     = errors.New("not implemented")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSubmissionPending  = errors.New("a lesson is already being created")
	ErrFormClosed         = errors.New("lesson form is not open")
	ErrNoSteps            = errors.New("lesson has no steps")
	ErrStepOutOfRange     = errors.New("step index out of range")
)

// ValidationError lists the required fields that were left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please fill out all fields (missing: %s)", strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
