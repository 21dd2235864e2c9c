package recipes

import (
	"context"

	"github.com/potash-labs/potash/internal/mutate"
	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/selection"
)

// API adds JSON serializers and a permissive CORS policy.
func API() recipe.Recipe {
	return recipe.Func{ID: "api", Guard: recipe.When(selection.API), Run: applyAPI}
}

func applyAPI(_ context.Context, env *recipe.Env) error {
	if err := env.Deps.Declare("active_model_serializers", "~> 0.10"); err != nil {
		return err
	}
	if err := env.Deps.Declare("rack-cors", ""); err != nil {
		return err
	}
	if err := env.Files.CreateFromTemplate("config/initializers/cors.rb", "config/initializers/cors.rb", nil); err != nil {
		return err
	}
	return env.Files.InsertAtMarker(ApplicationRB, mutate.ApplicationConfig,
		"config.autoload_paths += %W(#{config.root}/app/serializers)", mutate.Before)
}
