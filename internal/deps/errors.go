package deps

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is wrapped by ConflictError.
	ErrConflict = errors.New("dependency conflict")
	// ErrAlreadyFlushed is returned by Flush and Declare once the collector
	// has been flushed.
	ErrAlreadyFlushed = errors.New("dependency collector already flushed")
	// ErrInvalidConstraint is wrapped by InvalidConstraintError.
	ErrInvalidConstraint = errors.New("invalid version constraint")
)

// ConflictError is returned when two declarations for the same library in
// overlapping environments pin different versions.
type ConflictError struct {
	Name      string
	Existing  Declaration
	Requested Declaration
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("library %q: constraint %q [%s] conflicts with already declared %q [%s]",
		e.Name, e.Requested.Constraint, e.Requested.Env, e.Existing.Constraint, e.Existing.Env)
}

// Unwrap returns ErrConflict for errors.Is() compatibility.
func (e *ConflictError) Unwrap() error { return ErrConflict }

// InvalidConstraintError reports a constraint that does not parse.
type InvalidConstraintError struct {
	Name       string
	Constraint string
	Cause      error
}

// Error implements the error interface.
func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("library %q: invalid version constraint %q: %v", e.Name, e.Constraint, e.Cause)
}

// Unwrap returns ErrInvalidConstraint for errors.Is() compatibility.
func (e *InvalidConstraintError) Unwrap() error { return ErrInvalidConstraint }
