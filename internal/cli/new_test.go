package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/potash-labs/potash/internal/config"
	"github.com/potash-labs/potash/internal/selection"
)

// setupConfig points the user config at a temp dir.
func setupConfig(t *testing.T) {
	t.Helper()
	t.Setenv("POTASH_HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.Load()
}

func quietLogger() *log.Logger {
	logger := log.New(&bytes.Buffer{})
	logger.SetLevel(log.ErrorLevel)
	return logger
}

func writeAnswers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunNewDryRun(t *testing.T) {
	setupConfig(t)
	var out bytes.Buffer
	opts := newOptions{
		appName: "dummy_app",
		dryRun:  true,
		flags:   map[string]any{"paperclip": true},
		out:     &out,
	}
	result, err := runNew(context.Background(), opts, quietLogger())
	if err != nil {
		t.Fatalf("runNew() error = %v", err)
	}
	if !strings.Contains(out.String(), "- paperclip (~> 4.3)") {
		t.Errorf("dry-run summary:\n%s", out.String())
	}
	if !strings.Contains(strings.Join(result.Applied, ","), "storage") {
		t.Errorf("Applied = %v", result.Applied)
	}
	if _, err := os.Stat("dummy_app"); !os.IsNotExist(err) {
		t.Error("dry run wrote to disk")
	}
}

func TestRunNewWritesProject(t *testing.T) {
	setupConfig(t)
	dir := filepath.Join(t.TempDir(), "shop")
	var out bytes.Buffer
	opts := newOptions{
		appName:   "shop",
		outputDir: dir,
		flags:     map[string]any{"db": "postgresql"},
		out:       &out,
	}
	if _, err := runNew(context.Background(), opts, quietLogger()); err != nil {
		t.Fatalf("runNew() error = %v", err)
	}

	gemfile, err := os.ReadFile(filepath.Join(dir, "Gemfile"))
	if err != nil {
		t.Fatalf("reading Gemfile: %v", err)
	}
	if !strings.Contains(string(gemfile), "gem 'pg'") {
		t.Errorf("Gemfile:\n%s", gemfile)
	}
	if !strings.Contains(out.String(), "bundle install") {
		t.Errorf("next steps missing bundle install:\n%s", out.String())
	}

	// A second run into the same directory is refused.
	_, err = runNew(context.Background(), opts, quietLogger())
	if err == nil || !strings.Contains(err.Error(), "not empty") {
		t.Fatalf("second runNew() error = %v, want not empty", err)
	}
}

func TestRunNewPrecedence(t *testing.T) {
	setupConfig(t)
	if err := config.Set("defaults.db", "sqlite"); err != nil {
		t.Fatal(err)
	}
	if err := config.Set("defaults.lang", "en"); err != nil {
		t.Fatal(err)
	}
	answersPath := writeAnswers(t, "version: 1\noptions:\n  db: postgresql\n  storage: true\n")

	sel, err := resolveOptions(newOptions{
		appName:     "shop",
		answersPath: answersPath,
		flags:       map[string]any{"paperclip": false},
	})
	if err != nil {
		t.Fatalf("resolveOptions() error = %v", err)
	}
	if got := sel.String(selection.DB); got != "postgresql" {
		t.Errorf("db = %q, want postgresql (answers over defaults)", got)
	}
	if got := sel.String(selection.Lang); got != "en" {
		t.Errorf("lang = %q, want en (user default)", got)
	}
	if sel.Selected(selection.Storage) {
		t.Error("storage selected, want flag --paperclip=false to win")
	}
}

func TestRunNewInteractive(t *testing.T) {
	setupConfig(t)
	var out bytes.Buffer
	opts := newOptions{
		appName:     "shop",
		dryRun:      true,
		interactive: true,
		flags:       map[string]any{"db": "mysql", "lang": "es", "deployment-target": "none"},
		// api, admin, authorization, storage, auth, background-jobs
		in:  strings.NewReader("n\nn\nn\ny\nn\nn\n"),
		out: &out,
	}
	result, err := runNew(context.Background(), opts, quietLogger())
	if err != nil {
		t.Fatalf("runNew() error = %v", err)
	}
	if !strings.Contains(strings.Join(result.Applied, ","), "storage") {
		t.Errorf("Applied = %v, want storage", result.Applied)
	}
}

func TestRunNewInvalidOptions(t *testing.T) {
	setupConfig(t)
	tests := []struct {
		name string
		opts newOptions
	}{
		{"bad db", newOptions{appName: "shop", dryRun: true, flags: map[string]any{"db": "oracle"}}},
		{"bad name", newOptions{appName: "9lives", dryRun: true}},
		{"bad answers", newOptions{appName: "shop", dryRun: true, answersPath: writeAnswers(t, "version: 3\n")}},
		{"heroku with sqlite", newOptions{appName: "shop", dryRun: true, flags: map[string]any{"heroku": true, "db": "sqlite"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.out = &bytes.Buffer{}
			_, err := runNew(context.Background(), tt.opts, quietLogger())
			if !errors.Is(err, selection.ErrConfiguration) {
				t.Fatalf("runNew() error = %v, want ErrConfiguration", err)
			}
			if ExitCode(err) != ExitConfig {
				t.Errorf("ExitCode() = %d, want %d", ExitCode(err), ExitConfig)
			}
		})
	}
}

func TestNewFlagsRegistered(t *testing.T) {
	for _, name := range []string{"db", "lang", "storage", "paperclip", "heroku", "deployment-target", "delayed-job", "dry-run", "answers"} {
		if newCmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
	if newCmd.Flags().Lookup(selection.AppName) != nil {
		t.Error("app-name should be positional, not a flag")
	}
}

func TestRunNewRejectsBeforeWriting(t *testing.T) {
	setupConfig(t)
	dir := filepath.Join(t.TempDir(), "shop")
	opts := newOptions{
		appName:   "shop",
		outputDir: dir,
		flags:     map[string]any{"heroku": true, "db": "sqlite"},
		out:       &bytes.Buffer{},
	}
	_, err := runNew(context.Background(), opts, quietLogger())
	if ExitCode(err) != ExitConfig {
		t.Fatalf("runNew() error = %v, want a configuration error", err)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Errorf("output directory was created: %v", statErr)
	}

	// The corrected run succeeds in the same place.
	opts.flags["db"] = "postgresql"
	if _, err := runNew(context.Background(), opts, quietLogger()); err != nil {
		t.Fatalf("corrected runNew() error = %v", err)
	}
}
