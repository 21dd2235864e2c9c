package recipes

import (
	"context"

	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/selection"
)

// Auth adds devise user authentication.
func Auth() recipe.Recipe {
	return recipe.Func{ID: "auth", Guard: recipe.When(selection.Auth), Run: applyAuth}
}

func applyAuth(_ context.Context, env *recipe.Env) error {
	if err := env.Deps.Declare("devise", "~> 3.5"); err != nil {
		return err
	}
	if err := env.Files.CreateFromTemplate("config/initializers/devise.rb", "config/initializers/devise.rb", env.Project); err != nil {
		return err
	}
	return envVar(env, "DEVISE_SECRET_KEY")
}
