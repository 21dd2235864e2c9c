package selection

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the sentinel wrapped by every ConfigurationError.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigurationError reports a raw option value that violates its
// feature's declared type, enumeration or format. It is never retried;
// the caller has to fix the input.
type ConfigurationError struct {
	Feature string
	Value   any
	Reason  string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("option %q: %s (got %#v)", e.Feature, e.Reason, e.Value)
}

// Unwrap returns ErrConfiguration for errors.Is() compatibility.
func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
