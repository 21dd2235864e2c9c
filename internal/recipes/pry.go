package recipes

import (
	"context"

	"github.com/potash-labs/potash/internal/deps"
	"github.com/potash-labs/potash/internal/recipe"
)

// Pry installs the pry console for development and test.
func Pry() recipe.Recipe {
	return recipe.Func{ID: "pry", Guard: recipe.Always, Run: applyPry}
}

func applyPry(_ context.Context, env *recipe.Env) error {
	for _, gem := range []string{"pry-rails", "pry-byebug"} {
		if err := env.Deps.Declare(gem, "", deps.Development, deps.Test); err != nil {
			return err
		}
	}
	return env.Files.CreateFromTemplate("dotfiles/pryrc", ".pryrc", nil)
}
