package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/potash-labs/potash/internal/selection"
)

func resolve(t *testing.T, raw map[string]any) *selection.Context {
	t.Helper()
	sel, err := selection.Resolve(raw, selection.DefaultFeatures()...)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return sel
}

func TestRegistryOrderAndLookup(t *testing.T) {
	reg, err := NewRegistry(
		Func{ID: "baseline"},
		Func{ID: "storage", Guard: When(selection.Storage)},
		Func{ID: "pry", Guard: Always},
	)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	if diff := cmp.Diff([]string{"baseline", "storage", "pry"}, reg.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
	if r, ok := reg.Lookup("storage"); !ok || r.Name() != "storage" {
		t.Errorf("Lookup(storage) = %v, %v", r, ok)
	}
	if _, ok := reg.Lookup("missing"); ok {
		t.Error("Lookup(missing) found a recipe")
	}
}

func TestRegistryDuplicate(t *testing.T) {
	_, err := NewRegistry(Func{ID: "pry"}, Func{ID: "pry"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("NewRegistry() error = %v, want ErrDuplicate", err)
	}
}

func TestRegistryEmptyName(t *testing.T) {
	var reg Registry
	if err := reg.Register(Func{}); err == nil {
		t.Fatal("Register() expected error for empty name")
	}
}

func TestRegistryApplicable(t *testing.T) {
	reg, err := NewRegistry(
		Func{ID: "baseline", Guard: Always},
		Func{ID: "storage", Guard: When(selection.Storage)},
		Func{ID: "auth", Guard: When(selection.Auth)},
	)
	if err != nil {
		t.Fatal(err)
	}

	applicable, skipped := reg.Applicable(resolve(t, map[string]any{"paperclip": true}))
	var names []string
	for _, r := range applicable {
		names = append(names, r.Name())
	}
	if diff := cmp.Diff([]string{"baseline", "storage"}, names); diff != "" {
		t.Errorf("applicable mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"auth"}, skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
}

func TestFuncApply(t *testing.T) {
	called := false
	f := Func{ID: "x", Run: func(ctx context.Context, env *Env) error {
		called = true
		return nil
	}}
	if err := f.Apply(context.Background(), &Env{}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !called {
		t.Error("Run was not called")
	}
	if err := (Func{ID: "noop"}).Apply(context.Background(), &Env{}); err != nil {
		t.Errorf("nil Run Apply() error = %v", err)
	}
}
