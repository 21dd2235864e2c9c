// Package recipe defines the contract every generation recipe satisfies
// and the registry the composer runs them from.
package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/potash-labs/potash/internal/builder"
	"github.com/potash-labs/potash/internal/deps"
	"github.com/potash-labs/potash/internal/mutate"
	"github.com/potash-labs/potash/internal/scaffold"
	"github.com/potash-labs/potash/internal/selection"
)

// ErrDuplicate is returned when registering a second recipe with a name
// already in the registry.
var ErrDuplicate = errors.New("duplicate recipe")

// Recipe is one self-contained unit of generation. Apply is only called
// when Applicable returned true for the same selection.
//
// A recipe may read the selection and query the collector, but it must not
// assume any other recipe already ran. Coupling to another integration goes
// through the selection ("is storage selected?"), never through another
// recipe's internals.
type Recipe interface {
	Name() string
	Applicable(sel *selection.Context) bool
	Apply(ctx context.Context, env *Env) error
}

// Env is what a recipe receives while applying.
type Env struct {
	Selection *selection.Context
	Deps      *deps.Collector
	Files     *mutate.Primitives
	Builder   builder.Builder
	Project   *scaffold.ProjectData
	Log       *log.Logger
}

// Func adapts plain functions into a Recipe.
type Func struct {
	ID    string
	Guard func(sel *selection.Context) bool
	Run   func(ctx context.Context, env *Env) error
}

// Name implements Recipe.
func (f Func) Name() string { return f.ID }

// Applicable implements Recipe. A nil Guard always applies.
func (f Func) Applicable(sel *selection.Context) bool {
	return f.Guard == nil || f.Guard(sel)
}

// Apply implements Recipe.
func (f Func) Apply(ctx context.Context, env *Env) error {
	if f.Run == nil {
		return nil
	}
	return f.Run(ctx, env)
}

// Always is a guard that applies to every selection.
func Always(*selection.Context) bool { return true }

// When returns a guard on a selected feature.
func When(feature string) func(*selection.Context) bool {
	return func(sel *selection.Context) bool { return sel.Selected(feature) }
}

// Registry holds recipes in registration order.
type Registry struct {
	recipes []Recipe
	index   map[string]int
}

// NewRegistry returns a registry holding rs, in order.
func NewRegistry(rs ...Recipe) (*Registry, error) {
	reg := &Registry{index: make(map[string]int)}
	for _, r := range rs {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register appends r. Names must be unique and non-empty.
func (reg *Registry) Register(r Recipe) error {
	name := r.Name()
	if name == "" {
		return fmt.Errorf("registering recipe: name must not be empty")
	}
	if _, ok := reg.index[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	if reg.index == nil {
		reg.index = make(map[string]int)
	}
	reg.index[name] = len(reg.recipes)
	reg.recipes = append(reg.recipes, r)
	return nil
}

// All returns every recipe in registration order.
func (reg *Registry) All() []Recipe {
	return append([]Recipe(nil), reg.recipes...)
}

// Lookup returns the recipe registered under name.
func (reg *Registry) Lookup(name string) (Recipe, bool) {
	i, ok := reg.index[name]
	if !ok {
		return nil, false
	}
	return reg.recipes[i], true
}

// Names returns the recipe names in registration order.
func (reg *Registry) Names() []string {
	names := make([]string, len(reg.recipes))
	for i, r := range reg.recipes {
		names[i] = r.Name()
	}
	return names
}

// Applicable splits the registry into recipes that apply to sel and the
// names of those that do not, both in registration order.
func (reg *Registry) Applicable(sel *selection.Context) (applicable []Recipe, skipped []string) {
	for _, r := range reg.recipes {
		if r.Applicable(sel) {
			applicable = append(applicable, r)
		} else {
			skipped = append(skipped, r.Name())
		}
	}
	return applicable, skipped
}

// Len returns the number of registered recipes.
func (reg *Registry) Len() int { return len(reg.recipes) }
