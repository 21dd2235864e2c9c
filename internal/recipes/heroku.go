package recipes

import (
	"context"

	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/selection"
)

// herokuAddons maps the db option to the Heroku add-on providing it.
var herokuAddons = map[string]string{
	"mysql":      "cleardb",
	"postgresql": "heroku-postgresql",
}

// Heroku prepares the project for Heroku: a Procfile, an app.json
// manifest and the rails_12factor gem.
func Heroku() recipe.Recipe {
	return recipe.Func{
		ID: "heroku",
		Guard: func(sel *selection.Context) bool {
			return sel.Is(selection.DeploymentTarget, "heroku")
		},
		Run: applyHeroku,
	}
}

func applyHeroku(_ context.Context, env *recipe.Env) error {
	sel := env.Selection
	db := sel.String(selection.DB)
	addon, ok := herokuAddons[db]
	if !ok {
		return &selection.ConfigurationError{Feature: selection.DB, Value: db, Reason: "not supported on heroku"}
	}

	if err := env.Deps.Declare("rails_12factor", ""); err != nil {
		return err
	}

	procfile := struct{ Worker bool }{Worker: sel.Selected(selection.BackgroundJobs)}
	if err := env.Files.CreateFromTemplate("Procfile", "Procfile", procfile); err != nil {
		return err
	}

	manifest := struct {
		Name  string
		Addon string
		Env   []string
	}{Name: env.Project.Name, Addon: addon}
	if sel.Selected(selection.Auth) {
		manifest.Env = append(manifest.Env, "DEVISE_SECRET_KEY")
	}
	if sel.Selected(selection.Storage) {
		manifest.Env = append(manifest.Env, "AWS_BUCKET")
	}
	if err := env.Files.CreateFromTemplate("app.json", "app.json", manifest); err != nil {
		return err
	}
	return env.Files.AppendIfAbsent(EnvExample, "RACK_ENV=production")
}
