package answers

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/potash-labs/potash/internal/selection"
)

// Parse reads, validates and decodes the answers file at path.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file %s: %w", path, err)
	}
	return ParseBytes(path, data)
}

// ParseBytes validates and decodes answers file content. name is only
// used in errors.
func ParseBytes(name string, data []byte) (*File, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating answers file %s: %w", name, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Path: name, Issues: result.Issues}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing answers file %s: %w", name, err)
	}
	return &f, nil
}

// FromSelection captures every resolved feature of sel. Passthrough
// options are not recorded.
func FromSelection(sel *selection.Context) *File {
	f := &File{
		Version: Version,
		AppName: sel.String(selection.AppName),
		Options: make(map[string]any),
	}
	for _, name := range sel.Names() {
		if name == selection.AppName {
			continue
		}
		f.Options[name] = sel.ValueOf(name).Any()
	}
	return f
}

// Marshal renders the answers file for sel. Keys are sorted, so equal
// selections produce identical bytes.
func Marshal(sel *selection.Context) ([]byte, error) {
	data, err := yaml.Marshal(FromSelection(sel))
	if err != nil {
		return nil, fmt.Errorf("marshaling answers: %w", err)
	}
	return data, nil
}
