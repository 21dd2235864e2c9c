// Package compose runs the applicable recipes of a registry against one
// project tree, flushes the collected dependencies into the Gemfile and
// summarizes what was generated.
package compose

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/potash-labs/potash/internal/builder"
	"github.com/potash-labs/potash/internal/deps"
	"github.com/potash-labs/potash/internal/mutate"
	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/scaffold"
	"github.com/potash-labs/potash/internal/selection"
)

// GemfilePath is where the dependency manifest is written.
const GemfilePath = "Gemfile"

// Composer applies recipes to a project tree.
type Composer struct {
	Registry *recipe.Registry
	Builder  builder.Builder
	Log      *log.Logger

	// Writer receives the dependency groups after all recipes ran. Nil
	// renders the Gemfile template into GemfilePath.
	Writer deps.ManifestWriter
	// RubyVersion is written to the Gemfile when set.
	RubyVersion string
	// Bootstrap is a shell command run in the project after the manifest
	// is written, e.g. "bundle install". Empty skips it.
	Bootstrap string
}

// Result summarizes one composition.
type Result struct {
	Applied      []string
	Skipped      []string
	Files        []string
	Records      []mutate.Record
	Dependencies []deps.Declaration
	Commands     []string
	Duration     time.Duration
}

// RecipeError wraps the first failure of a recipe. Generation stops there
// and the project tree is left as it was at that point.
type RecipeError struct {
	Recipe string
	Err    error
}

// Error implements the error interface.
func (e *RecipeError) Error() string {
	return fmt.Sprintf("recipe %s: %v", e.Recipe, e.Err)
}

// Unwrap returns the recipe's error.
func (e *RecipeError) Unwrap() error { return e.Err }

// Compose applies every recipe applicable to sel in registration order,
// then flushes the dependency manifest. It fails fast: the first error is
// returned and nothing is rolled back.
func (c *Composer) Compose(ctx context.Context, sel *selection.Context) (*Result, error) {
	start := time.Now()
	logger := c.Log
	if logger == nil {
		logger = log.New(io.Discard)
	}

	collector := deps.NewCollector()
	files := mutate.New(c.Builder, logger)
	env := &recipe.Env{
		Selection: sel,
		Deps:      collector,
		Files:     files,
		Builder:   c.Builder,
		Project:   projectData(sel, c.Builder.Root()),
		Log:       logger,
	}

	applicable, skipped := c.Registry.Applicable(sel)
	result := &Result{Skipped: skipped}
	for _, r := range applicable {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("composition canceled before recipe %s: %w", r.Name(), err)
		}
		logger.Info("applying recipe", "recipe", r.Name())
		if err := r.Apply(ctx, env); err != nil {
			logger.Error("recipe failed", "recipe", r.Name(), "error", err)
			return nil, &RecipeError{Recipe: r.Name(), Err: err}
		}
		result.Applied = append(result.Applied, r.Name())
	}
	for _, name := range skipped {
		logger.Debug("skipping recipe", "recipe", name)
	}

	if err := collector.Flush(c.writer(files)); err != nil {
		return nil, err
	}

	if c.Bootstrap != "" {
		logger.Info("running bootstrap", "command", c.Bootstrap)
		if err := c.Builder.RunShell(ctx, c.Bootstrap); err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
		result.Commands = append(result.Commands, c.Bootstrap)
	}

	result.Files = files.Touched()
	result.Records = files.Records()
	result.Dependencies = collector.Declarations()
	result.Duration = time.Since(start)
	return result, nil
}

func (c *Composer) writer(files *mutate.Primitives) deps.ManifestWriter {
	if c.Writer != nil {
		return c.Writer
	}
	return deps.GemfileWriter{
		RubyVersion: c.RubyVersion,
		Write: func(d deps.GemfileData) error {
			return files.CreateFromTemplate("Gemfile", GemfilePath, d)
		},
	}
}

// projectData derives template bindings from the selection, falling back
// to the project directory name when no app name was given.
func projectData(sel *selection.Context, root string) *scaffold.ProjectData {
	name := sel.String(selection.AppName)
	if name == "" {
		name = path.Base(strings.ReplaceAll(root, "\\", "/"))
	}
	return scaffold.NewProjectData(name, sel.String(selection.Lang), sel.String(selection.DB))
}

// Render formats a Result as Markdown.
func Render(r *Result) string {
	var b strings.Builder

	b.WriteString("# Recipes\n")
	for _, name := range r.Applied {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	if len(r.Skipped) > 0 {
		b.WriteString("\nSkipped: ")
		b.WriteString(strings.Join(r.Skipped, ", "))
		b.WriteString("\n")
	}

	if len(r.Dependencies) > 0 {
		b.WriteString("\n## Dependencies\n")
		for _, d := range r.Dependencies {
			b.WriteString("- ")
			b.WriteString(d.Name)
			if d.Constraint != "" {
				b.WriteString(" (")
				b.WriteString(d.Constraint)
				b.WriteString(")")
			}
			if d.Env != deps.Runtime {
				b.WriteString(" [")
				b.WriteString(d.Env.String())
				b.WriteString("]")
			}
			b.WriteString("\n")
		}
	}

	if len(r.Files) > 0 {
		b.WriteString("\n## Files\n")
		for _, f := range r.Files {
			b.WriteString("- ")
			b.WriteString(f)
			b.WriteString("\n")
		}
	}

	if len(r.Commands) > 0 {
		b.WriteString("\n## Commands\n")
		for _, cmd := range r.Commands {
			b.WriteString("- `")
			b.WriteString(cmd)
			b.WriteString("`\n")
		}
	}

	fmt.Fprintf(&b, "\nGenerated in %s\n", r.Duration.Round(time.Millisecond))
	return b.String()
}
