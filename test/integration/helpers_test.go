//go:build integration

package integration_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/potash-labs/potash/internal/builder"
	"github.com/potash-labs/potash/internal/compose"
	"github.com/potash-labs/potash/internal/recipes"
	"github.com/potash-labs/potash/internal/selection"
)

// setupTestEnv sandboxes the user config and returns an empty directory
// for the generated project.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("POTASH_HOME", t.TempDir())
	return filepath.Join(t.TempDir(), "app")
}

// generate resolves raw options and composes a project into dir on the
// real file system.
func generate(t *testing.T, dir string, raw map[string]any, bootstrap string) (*compose.Result, error) {
	t.Helper()
	sel, err := selection.Resolve(raw, selection.DefaultFeatures()...)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := builder.NewOS(dir, builder.WithOutput(&strings.Builder{}, &strings.Builder{}))
	if err != nil {
		t.Fatalf("NewOS: %v", err)
	}
	c := &compose.Composer{
		Registry:  recipes.Default(),
		Builder:   b,
		Bootstrap: bootstrap,
	}
	return c.Compose(context.Background(), sel)
}

// readTree returns every regular file under root keyed by slash path.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return tree
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertCount fails unless substr occurs exactly n times in the file.
func assertCount(t *testing.T, path, substr string, n int) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if got := strings.Count(string(data), substr); got != n {
		t.Errorf("file %s contains %q %d times, want %d.\nContents:\n%s", path, substr, got, n, string(data))
	}
}
