package selection

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Value is a resolved feature value.
type Value struct {
	Kind Kind
	Bool bool
	Str  string
	Set  bool // true when supplied by the caller rather than defaulted
}

// Any returns the value as a bool or string, matching its kind.
func (v Value) Any() any {
	if v.Kind == KindBool {
		return v.Bool
	}
	return v.Str
}

// Context is the immutable result of Resolve. It is safe to share between
// recipes; none of its methods mutate it.
type Context struct {
	features map[string]Feature
	values   map[string]Value
	extra    map[string]any
}

// Selected reports whether a feature is switched on. Boolean features are
// selected when true; string features when non-empty and not "none" or
// "false". Unknown names are never selected.
func (c *Context) Selected(name string) bool {
	v, ok := c.values[name]
	if !ok {
		return false
	}
	if v.Kind == KindBool {
		return v.Bool
	}
	switch v.Str {
	case "", "none", "false":
		return false
	}
	return true
}

// ValueOf returns the resolved value of a known feature, or the zero Value
// for unknown names.
func (c *Context) ValueOf(name string) Value {
	return c.values[name]
}

// String returns the string form of a feature value ("true"/"false" for
// booleans).
func (c *Context) String(name string) string {
	v, ok := c.values[name]
	if !ok {
		return ""
	}
	if v.Kind == KindBool {
		return strconv.FormatBool(v.Bool)
	}
	return v.Str
}

// Is reports whether a string feature equals want.
func (c *Context) Is(name, want string) bool {
	v, ok := c.values[name]
	return ok && v.Kind == KindString && v.Str == want
}

// Names returns the known feature names in sorted order.
func (c *Context) Names() []string {
	return slices.Sorted(maps.Keys(c.values))
}

// Raw returns a passthrough value for a name no feature declares.
func (c *Context) Raw(name string) (any, bool) {
	v, ok := c.extra[name]
	return v, ok
}

// Feature returns the declaration behind a known feature name.
func (c *Context) Feature(name string) (Feature, bool) {
	f, ok := c.features[name]
	return f, ok
}

// Map returns every resolved value keyed by canonical name, plus passthrough
// entries. The returned map is a copy.
func (c *Context) Map() map[string]any {
	out := make(map[string]any, len(c.values)+len(c.extra))
	for k, v := range c.extra {
		out[k] = v
	}
	for k, v := range c.values {
		out[k] = v.Any()
	}
	return out
}

// Resolve converts a raw option map into a Context. Aliases are folded into
// their canonical names, defaults fill absent features, and unknown names
// are retained untouched. When no features are passed DefaultFeatures is
// used. A nil raw value counts as absent.
func Resolve(raw map[string]any, features ...Feature) (*Context, error) {
	if len(features) == 0 {
		features = DefaultFeatures()
	}

	byName := make(map[string]Feature, len(features))
	canonical := make(map[string]string, len(features))
	for _, f := range features {
		byName[f.Name] = f
		canonical[f.Name] = f.Name
		for _, a := range f.Aliases {
			canonical[a] = f.Name
		}
	}

	ctx := &Context{
		features: byName,
		values:   make(map[string]Value, len(features)),
		extra:    make(map[string]any),
	}
	source := make(map[string]string)

	// Sorted iteration keeps error reporting deterministic.
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		rv := raw[key]
		if rv == nil {
			continue
		}
		name, known := canonical[key]
		if !known {
			ctx.extra[key] = rv
			continue
		}
		f := byName[name]
		v, err := coerce(f, key, rv)
		if err != nil {
			return nil, err
		}
		if prev, dup := ctx.values[name]; dup && prev.Any() != v.Any() {
			return nil, &ConfigurationError{
				Feature: name,
				Value:   rv,
				Reason:  fmt.Sprintf("conflicts with %q=%v", source[name], prev.Any()),
			}
		}
		ctx.values[name] = v
		source[name] = key
	}

	for _, f := range features {
		if _, ok := ctx.values[f.Name]; ok {
			continue
		}
		v, err := defaultValue(f)
		if err != nil {
			return nil, err
		}
		ctx.values[f.Name] = v
	}

	// Cross-feature checks see the complete selection.
	for _, f := range features {
		if f.Check == nil {
			continue
		}
		v := ctx.values[f.Name]
		if err := f.Check(v, ctx); err != nil {
			var ce *ConfigurationError
			if errors.As(err, &ce) {
				return nil, ce
			}
			return nil, &ConfigurationError{Feature: f.Name, Value: v.Any(), Reason: err.Error()}
		}
	}

	return ctx, nil
}

func defaultValue(f Feature) (Value, error) {
	switch f.Kind {
	case KindBool:
		b, _ := f.Default.(bool)
		return Value{Kind: KindBool, Bool: b}, nil
	case KindString:
		s, _ := f.Default.(string)
		return Value{Kind: KindString, Str: s}, nil
	}
	return Value{}, &ConfigurationError{Feature: f.Name, Value: f.Default, Reason: "feature has no valid kind"}
}

// coerce converts one raw value according to the feature declaration.
// key is the name the caller actually used, kept for error messages.
func coerce(f Feature, key string, rv any) (Value, error) {
	switch f.Kind {
	case KindBool:
		b, ok := parseBool(rv)
		if !ok {
			return Value{}, &ConfigurationError{Feature: key, Value: rv, Reason: "expected a boolean"}
		}
		return Value{Kind: KindBool, Bool: b, Set: true}, nil

	case KindString:
		var s string
		switch val := rv.(type) {
		case string:
			s = val
		case bool:
			if f.WhenTrue == "" {
				return Value{}, &ConfigurationError{Feature: key, Value: rv, Reason: "expected a string"}
			}
			s = f.WhenFalse
			if val {
				s = f.WhenTrue
			}
		default:
			return Value{}, &ConfigurationError{Feature: key, Value: rv, Reason: "expected a string"}
		}

		if f.Normalize != nil {
			norm, err := f.Normalize(s)
			if err != nil {
				return Value{}, &ConfigurationError{Feature: key, Value: rv, Reason: err.Error()}
			}
			s = norm
		}
		if len(f.Allowed) > 0 && !slices.Contains(f.Allowed, s) {
			return Value{}, &ConfigurationError{
				Feature: key,
				Value:   rv,
				Reason:  "must be one of " + strings.Join(f.Allowed, ", "),
			}
		}
		return Value{Kind: KindString, Str: s, Set: true}, nil
	}
	return Value{}, &ConfigurationError{Feature: key, Value: rv, Reason: "feature has no valid kind"}
}

func parseBool(rv any) (bool, bool) {
	switch val := rv.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}
