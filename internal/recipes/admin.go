package recipes

import (
	"context"

	"github.com/potash-labs/potash/internal/mutate"
	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/selection"
)

// Admin mounts an ActiveAdmin panel. ActiveAdmin authenticates through
// devise, so the gem is declared here too when auth is not selected.
func Admin() recipe.Recipe {
	return recipe.Func{ID: "admin", Guard: recipe.When(selection.Admin), Run: applyAdmin}
}

func applyAdmin(_ context.Context, env *recipe.Env) error {
	if err := env.Deps.Declare("activeadmin", ""); err != nil {
		return err
	}
	if !env.Selection.Selected(selection.Auth) {
		if err := env.Deps.Declare("devise", ""); err != nil {
			return err
		}
	}
	routes := "devise_for :admin_users, ActiveAdmin::Devise.config\nActiveAdmin.routes(self)"
	return env.Files.InsertAtMarker(RoutesRB, mutate.Routes, routes, mutate.Before)
}
