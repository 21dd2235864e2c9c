package recipes

import (
	"context"

	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/selection"
)

// Authorization adds pundit and a deny-by-default base policy.
func Authorization() recipe.Recipe {
	return recipe.Func{ID: "authorization", Guard: recipe.When(selection.Authorization), Run: applyAuthorization}
}

func applyAuthorization(_ context.Context, env *recipe.Env) error {
	if err := env.Deps.Declare("pundit", ""); err != nil {
		return err
	}
	return env.Files.CreateFromTemplate("app/policies/application_policy.rb", "app/policies/application_policy.rb", nil)
}
