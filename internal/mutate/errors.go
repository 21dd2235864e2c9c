package mutate

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrPathConflict     = errors.New("path conflict")
	ErrPatternNotFound  = errors.New("pattern not found")
	ErrMissingTarget    = errors.New("missing target file")
)

// TemplateNotFoundError reports an unknown template name.
type TemplateNotFoundError struct {
	Template string
}

// Error implements the error interface.
func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Template)
}

// Unwrap returns ErrTemplateNotFound for errors.Is() compatibility.
func (e *TemplateNotFoundError) Unwrap() error { return ErrTemplateNotFound }

// PathConflictError reports a create-from-template over a file this run
// did not produce.
type PathConflictError struct {
	Path string
}

// Error implements the error interface.
func (e *PathConflictError) Error() string {
	return fmt.Sprintf("%s already exists and was not generated in this run", e.Path)
}

// Unwrap returns ErrPathConflict for errors.Is() compatibility.
func (e *PathConflictError) Unwrap() error { return ErrPathConflict }

// PatternNotFoundError reports a substitution or marker anchor that does
// not match. It means the file lacks the structure the caller expected.
type PatternNotFoundError struct {
	Path    string
	Pattern string
}

// Error implements the error interface.
func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("pattern %q not found in %s", e.Pattern, e.Path)
}

// Unwrap returns ErrPatternNotFound for errors.Is() compatibility.
func (e *PatternNotFoundError) Unwrap() error { return ErrPatternNotFound }

// MissingTargetError reports an edit of a file that does not exist.
type MissingTargetError struct {
	Op   Kind
	Path string
}

// Error implements the error interface.
func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("%s: %s does not exist", e.Op, e.Path)
}

// Unwrap returns ErrMissingTarget for errors.Is() compatibility.
func (e *MissingTargetError) Unwrap() error { return ErrMissingTarget }
