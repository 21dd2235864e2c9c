package builder

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrOutsideRoot is returned for paths that are absolute or escape the
	// project root.
	ErrOutsideRoot = errors.New("path escapes project root")
	// ErrAnchorNotFound is returned by InsertIntoFile when the Before/After
	// literal does not occur in the file.
	ErrAnchorNotFound = errors.New("insertion anchor not found")
	// ErrShell is wrapped by ShellError.
	ErrShell = errors.New("shell command failed")
)

// InsertOptions selects where InsertIntoFile places text. With neither
// field set the text is appended at end of file.
type InsertOptions struct {
	Before string
	After  string
}

// Builder is the capability recipes use to touch the project tree. All
// paths are relative to Root.
type Builder interface {
	// CopyTemplate renders the template src with bindings into dest,
	// creating parent directories and replacing any existing file.
	CopyTemplate(src, dest string, bindings any) error
	// AppendToFile appends text to an existing file.
	AppendToFile(path, text string) error
	// GsubFile replaces the first match of pattern with fn(match) and
	// reports whether a match was found.
	GsubFile(path string, pattern *regexp.Regexp, fn func(match string) string) (bool, error)
	// InsertIntoFile inserts text relative to a literal anchor.
	InsertIntoFile(path, text string, opts InsertOptions) error
	// ReadFile returns a file's contents.
	ReadFile(path string) ([]byte, error)
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// RunShell runs a shell command in the project root.
	RunShell(ctx context.Context, command string) error
	// Root returns the project root.
	Root() string
}

// ShellError reports a command that exited non-zero.
type ShellError struct {
	Command  string
	ExitCode int
}

// Error implements the error interface.
func (e *ShellError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.ExitCode)
}

// Unwrap returns ErrShell for errors.Is() compatibility.
func (e *ShellError) Unwrap() error { return ErrShell }
