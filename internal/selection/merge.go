package selection

import (
	"fmt"
	"maps"
	"slices"
)

// Merge overlays raw option layers, lowest precedence first, and returns a
// single raw map for Resolve. Alias keys are folded into canonical names
// per layer so that a later layer using one spelling overrides an earlier
// layer using the other. Nil values are skipped and never override.
func Merge(features []Feature, layers ...map[string]any) (map[string]any, error) {
	canonical := make(map[string]string)
	for _, f := range features {
		canonical[f.Name] = f.Name
		for _, a := range f.Aliases {
			canonical[a] = f.Name
		}
	}

	out := make(map[string]any)
	for _, layer := range layers {
		seen := make(map[string]string)
		for _, key := range slices.Sorted(maps.Keys(layer)) {
			v := layer[key]
			if v == nil {
				continue
			}
			name, ok := canonical[key]
			if !ok {
				name = key
			}
			if prev, dup := seen[name]; dup && fmt.Sprint(layer[prev]) != fmt.Sprint(v) {
				return nil, &ConfigurationError{
					Feature: name,
					Value:   v,
					Reason:  fmt.Sprintf("conflicts with %q=%v", prev, layer[prev]),
				}
			}
			seen[name] = key
			out[name] = v
		}
	}
	return out, nil
}
