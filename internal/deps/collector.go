package deps

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Collector accumulates declarations for one generation run. It is not
// safe for concurrent use; generation is single-threaded.
type Collector struct {
	decls   []Declaration
	flushed bool
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Declare adds a library requirement. Without envs the declaration is a
// runtime one.
//
// Re-declaring an identical tuple, or one without a constraint, is a
// no-op. A concrete constraint replaces an earlier unpinned declaration in
// place, keeping its position. Two different concrete constraints in
// overlapping environments fail with a ConflictError. Overlapping
// environment sets are merged into their union.
func (c *Collector) Declare(name, constraint string, envs ...Environment) error {
	if c.flushed {
		return ErrAlreadyFlushed
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("declaring dependency: name must not be empty")
	}

	constraint = normalizeConstraint(constraint)
	if constraint != "" {
		if _, err := semver.NewConstraint(constraint); err != nil {
			return &InvalidConstraintError{Name: name, Constraint: constraint, Cause: err}
		}
	}

	req := Declaration{Name: name, Constraint: constraint, Env: Combine(envs...)}

	var overlapping []int
	for i, d := range c.decls {
		if d.Name == name && d.Env.Overlaps(req.Env) {
			overlapping = append(overlapping, i)
		}
	}
	if len(overlapping) == 0 {
		c.decls = append(c.decls, req)
		return nil
	}

	var (
		pinned Declaration // first overlapping entry with a constraint
		hasPin bool
		env    = req.Env
	)
	for _, i := range overlapping {
		existing := c.decls[i]
		if existing.Constraint != "" && req.Constraint != "" && existing.Constraint != req.Constraint {
			return &ConflictError{Name: name, Existing: existing, Requested: req}
		}
		if existing.Constraint != "" {
			// An unpinned request can bridge two entries pinned differently.
			if hasPin && existing.Constraint != pinned.Constraint {
				return &ConflictError{Name: name, Existing: pinned, Requested: existing}
			}
			if !hasPin {
				pinned, hasPin = existing, true
			}
		}
		env = Combine(env, existing.Env)
	}

	merged := c.decls[overlapping[0]]
	merged.Constraint = req.Constraint
	if hasPin {
		merged.Constraint = pinned.Constraint
	}
	merged.Env = env

	c.decls[overlapping[0]] = merged
	// Drop the entries folded into the first one, back to front.
	for j := len(overlapping) - 1; j > 0; j-- {
		c.decls = slices.Delete(c.decls, overlapping[j], overlapping[j]+1)
	}
	return nil
}

// Has reports whether any declaration exists for name.
func (c *Collector) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Lookup returns the first declaration for name.
func (c *Collector) Lookup(name string) (Declaration, bool) {
	for _, d := range c.decls {
		if d.Name == name {
			return d, true
		}
	}
	return Declaration{}, false
}

// Declarations returns a copy of all declarations in insertion order.
func (c *Collector) Declarations() []Declaration {
	return slices.Clone(c.decls)
}

// Groups returns the declarations grouped by environment. Groups follow a
// fixed order (runtime, development+test, development, test); within a
// group declarations keep insertion order. Empty groups are omitted.
func (c *Collector) Groups() []Group {
	var groups []Group
	for _, env := range groupOrder {
		var members []Declaration
		for _, d := range c.decls {
			if d.Env == env {
				members = append(members, d)
			}
		}
		if len(members) > 0 {
			groups = append(groups, Group{Env: env, Declarations: members})
		}
	}
	return groups
}

// Flush hands the grouped declarations to w. The collector is single-use:
// later calls to Flush or Declare return ErrAlreadyFlushed, even when w
// failed.
func (c *Collector) Flush(w ManifestWriter) error {
	if c.flushed {
		return ErrAlreadyFlushed
	}
	c.flushed = true
	if err := w.WriteManifest(c.Groups()); err != nil {
		return fmt.Errorf("writing dependency manifest: %w", err)
	}
	return nil
}

// Flushed reports whether Flush has been called.
func (c *Collector) Flushed() bool { return c.flushed }

var constraintPart = regexp.MustCompile(`^(~>|>=|<=|!=|=>|=<|=|>|<|~|\^)?\s*(\S.*)$`)

// normalizeConstraint canonicalizes spacing so "~>4.3" and "~>  4.3"
// compare equal to "~> 4.3". Comma-separated parts are kept in order.
func normalizeConstraint(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		m := constraintPart.FindStringSubmatch(p)
		if m == nil {
			out = append(out, p)
			continue
		}
		if m[1] == "" {
			out = append(out, m[2])
		} else {
			out = append(out, m[1]+" "+strings.TrimSpace(m[2]))
		}
	}
	return strings.Join(out, ", ")
}
