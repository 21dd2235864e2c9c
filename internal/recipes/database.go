package recipes

import (
	"context"
	"fmt"

	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/selection"
)

// adapters maps the db option to its driver gem.
var adapters = map[string]struct{ gem, constraint string }{
	"mysql":      {"mysql2", "~> 0.3.18"},
	"postgresql": {"pg", ""},
	"sqlite":     {"sqlite3", ""},
}

// Database declares the driver for the selected engine and writes
// config/database.yml.
func Database() recipe.Recipe {
	return recipe.Func{ID: "database", Guard: recipe.Always, Run: applyDatabase}
}

func applyDatabase(_ context.Context, env *recipe.Env) error {
	db := env.Selection.String(selection.DB)
	adapter, ok := adapters[db]
	if !ok {
		return &selection.ConfigurationError{Feature: selection.DB, Value: db, Reason: "no database adapter"}
	}
	if err := env.Deps.Declare(adapter.gem, adapter.constraint); err != nil {
		return err
	}
	return env.Files.CreateFromTemplate(fmt.Sprintf("config/database/%s.yml", db), "config/database.yml", env.Project)
}
