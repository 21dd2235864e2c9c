package recipes

import (
	"context"

	"github.com/potash-labs/potash/internal/mutate"
	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/selection"
)

// BackgroundJobs runs ActiveJob on delayed_job.
func BackgroundJobs() recipe.Recipe {
	return recipe.Func{ID: "background-jobs", Guard: recipe.When(selection.BackgroundJobs), Run: applyBackgroundJobs}
}

func applyBackgroundJobs(_ context.Context, env *recipe.Env) error {
	if err := env.Deps.Declare("delayed_job_active_record", ""); err != nil {
		return err
	}
	if err := env.Files.InsertAtMarker(ApplicationRB, mutate.ApplicationConfig,
		"config.active_job.queue_adapter = :delayed_job", mutate.Before); err != nil {
		return err
	}
	return env.Files.CreateFromTemplate("bin/delayed_job", "bin/delayed_job", nil)
}
