package recipes

import (
	"context"

	"github.com/potash-labs/potash/internal/answers"
	"github.com/potash-labs/potash/internal/branding"
	"github.com/potash-labs/potash/internal/deps"
	"github.com/potash-labs/potash/internal/recipe"
)

// Baseline creates the files every project has and the gems every project
// needs. It is registered first; later recipes edit what it creates.
func Baseline() recipe.Recipe {
	return recipe.Func{ID: "baseline", Guard: recipe.Always, Run: applyBaseline}
}

func applyBaseline(_ context.Context, env *recipe.Env) error {
	gems := []struct {
		name, constraint string
		envs             []deps.Environment
	}{
		{"rails", "~> 4.2", nil},
		{"puma", "", nil},
		{"dotenv-rails", "", []deps.Environment{deps.DevelopmentTest}},
		{"rspec-rails", "", []deps.Environment{deps.DevelopmentTest}},
	}
	for _, g := range gems {
		if err := env.Deps.Declare(g.name, g.constraint, g.envs...); err != nil {
			return err
		}
	}

	files := []struct{ tmpl, path string }{
		{"config/application.rb", ApplicationRB},
		{"config/environments/production.rb", ProductionRB},
		{"config/routes.rb", RoutesRB},
		{"dotfiles/gitignore", ".gitignore"},
		{"dotfiles/env.example", EnvExample},
		{"dotfiles/env.example", Env},
		{"README.md", "README.md"},
	}
	for _, f := range files {
		if err := env.Files.CreateFromTemplate(f.tmpl, f.path, env.Project); err != nil {
			return err
		}
	}

	data, err := answers.Marshal(env.Selection)
	if err != nil {
		return err
	}
	return env.Files.CreateFromTemplate("dotfiles/answers.yml", branding.AnswersFile(), struct{ YAML string }{string(data)})
}
