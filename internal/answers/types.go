package answers

import (
	"fmt"
	"strings"

	"github.com/potash-labs/potash/internal/selection"
)

// Version is the answers file format version this package reads and
// writes.
const Version = 1

// File is a parsed answers file.
type File struct {
	Version int            `yaml:"version"`
	AppName string         `yaml:"app_name,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// Raw returns the options as a raw configuration map for
// selection.Resolve, with the app name under its feature key.
func (f *File) Raw() map[string]any {
	raw := make(map[string]any, len(f.Options)+1)
	for k, v := range f.Options {
		raw[k] = v
	}
	if f.AppName != "" {
		raw[selection.AppName] = f.AppName
	}
	return raw
}

// InvalidError reports an answers file that failed schema validation.
type InvalidError struct {
	Path   string
	Issues []ValidationIssue
}

// Error implements the error interface.
func (e *InvalidError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("invalid answers file %s: %s", e.Path, strings.Join(msgs, "; "))
}

// Unwrap returns selection.ErrConfiguration: a bad answers file is a
// configuration error like a bad flag value.
func (e *InvalidError) Unwrap() error { return selection.ErrConfiguration }
