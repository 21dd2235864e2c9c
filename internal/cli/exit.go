package cli

import (
	"errors"

	"github.com/potash-labs/potash/internal/builder"
	"github.com/potash-labs/potash/internal/deps"
	"github.com/potash-labs/potash/internal/mutate"
	"github.com/potash-labs/potash/internal/selection"
)

// Exit codes returned by Execute.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitConfig     = 2
	ExitConflict   = 3
	ExitStructural = 4
	ExitFlushed    = 5
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, selection.ErrConfiguration):
		return ExitConfig
	case errors.Is(err, deps.ErrConflict), errors.Is(err, deps.ErrInvalidConstraint):
		return ExitConflict
	case errors.Is(err, mutate.ErrTemplateNotFound),
		errors.Is(err, mutate.ErrPathConflict),
		errors.Is(err, mutate.ErrPatternNotFound),
		errors.Is(err, mutate.ErrMissingTarget),
		errors.Is(err, builder.ErrOutsideRoot):
		return ExitStructural
	case errors.Is(err, deps.ErrAlreadyFlushed):
		return ExitFlushed
	default:
		return ExitFailure
	}
}
