package recipes

import (
	"context"
	"regexp"
	"strings"

	"github.com/potash-labs/potash/internal/recipe"
	"github.com/potash-labs/potash/internal/selection"
)

var (
	// defaultLocaleLine is the commented-out default in the application
	// template. This recipe is the only one that edits it.
	defaultLocaleLine = regexp.MustCompile(`(?m)^([ \t]*)# config\.i18n\.default_locale = :de$`)
	localeConfigured  = regexp.MustCompile(`(?m)^[ \t]*config\.i18n\.default_locale = `)
)

// Locale sets the default locale and adds its translation file.
func Locale() recipe.Recipe {
	return recipe.Func{ID: "locale", Guard: recipe.Always, Run: applyLocale}
}

func applyLocale(_ context.Context, env *recipe.Env) error {
	lang := env.Selection.String(selection.Lang)
	if err := env.Deps.Declare("rails-i18n", "~> 4.0"); err != nil {
		return err
	}
	if err := env.Files.CreateFromTemplate("config/locales/locale.yml", "config/locales/"+lang+".yml", env.Project); err != nil {
		return err
	}
	if content, err := env.Builder.ReadFile(ApplicationRB); err == nil && localeConfigured.Match(content) {
		return nil
	}
	return env.Files.Substitute(ApplicationRB, defaultLocaleLine, func(match string) string {
		indent := match[:len(match)-len(strings.TrimLeft(match, " \t"))]
		return indent + "config.i18n.default_locale = " + rubySymbol(lang)
	})
}

// rubySymbol renders a locale as a Ruby symbol, quoting region tags:
// es -> :es, pt-BR -> :'pt-BR'.
func rubySymbol(s string) string {
	if strings.Contains(s, "-") {
		return ":'" + s + "'"
	}
	return ":" + s
}
