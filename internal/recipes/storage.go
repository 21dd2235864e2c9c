package recipes

import (
	"context"

	"github.com/potash-labs/potash/internal/mutate"
	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/selection"
)

const s3Defaults = `# Paperclip support for S3
config.paperclip_defaults = {
  :storage => :s3,
  :s3_credentials => {
    :bucket => ENV['AWS_BUCKET']
  }
}`

// Storage stores attachments on S3 through paperclip.
func Storage() recipe.Recipe {
	return recipe.Func{ID: "storage", Guard: recipe.When(selection.Storage), Run: applyStorage}
}

func applyStorage(_ context.Context, env *recipe.Env) error {
	if err := env.Deps.Declare("paperclip", "~> 4.3"); err != nil {
		return err
	}
	if err := env.Deps.Declare("aws-sdk", "< 2.0"); err != nil {
		return err
	}
	if err := env.Files.InsertAtMarker(ProductionRB, mutate.ProductionConfig, s3Defaults, mutate.Before); err != nil {
		return err
	}
	return envVar(env, "AWS_BUCKET")
}
