// Package recipes holds the built-in generation recipes and the default
// registry the CLI composes.
package recipes

import (
	"fmt"

	"github.com/potash-labs/potash/internal/recipe"
)

// Project paths edited by more than one recipe.
const (
	ApplicationRB = "config/application.rb"
	ProductionRB  = "config/environments/production.rb"
	RoutesRB      = "config/routes.rb"
	EnvExample    = ".env.example"
	Env           = ".env"
)

// Default returns the built-in recipes in registration order.
func Default() *recipe.Registry {
	reg, err := recipe.NewRegistry(All()...)
	if err != nil {
		panic(fmt.Sprintf("built-in recipes: %v", err))
	}
	return reg
}

// All returns a fresh slice of the built-in recipes.
func All() []recipe.Recipe {
	return []recipe.Recipe{
		Baseline(),
		Database(),
		Locale(),
		Pry(),
		API(),
		Auth(),
		Authorization(),
		Admin(),
		Storage(),
		BackgroundJobs(),
		Heroku(),
	}
}

// envVar adds an empty variable to both environment files.
func envVar(env *recipe.Env, name string) error {
	for _, path := range []string{EnvExample, Env} {
		if err := env.Files.AppendIfAbsent(path, name+"="); err != nil {
			return err
		}
	}
	return nil
}
