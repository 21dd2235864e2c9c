package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/potash-labs/potash/internal/answers"
	"github.com/potash-labs/potash/internal/branding"
	"github.com/potash-labs/potash/internal/builder"
	"github.com/potash-labs/potash/internal/compose"
	"github.com/potash-labs/potash/internal/config"
	"github.com/potash-labs/potash/internal/recipes"
	"github.com/potash-labs/potash/internal/scaffold"
	"github.com/potash-labs/potash/internal/selection"
)

var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// newOptions carries everything "new" needs apart from the logger.
type newOptions struct {
	appName     string
	outputDir   string
	answersPath string
	dryRun      bool
	bootstrap   bool
	interactive bool
	rubyVersion string
	flags       map[string]any // feature flags the user actually passed
	in          io.Reader
	out         io.Writer
}

var (
	newOutputDir   string
	newAnswers     string
	newDryRun      bool
	newBootstrap   bool
	newInteractive bool
	newRubyVersion string

	// featureFlags maps every feature flag name (canonical or alias) to
	// whether it is a boolean flag.
	featureFlags = map[string]bool{}
)

func init() {
	flags := newCmd.Flags()
	flags.StringVar(&newOutputDir, "output-dir", "", "Output directory (default: ./<app-name>)")
	flags.StringVar(&newAnswers, "answers", "", "Read options from an answers file")
	flags.BoolVar(&newDryRun, "dry-run", false, "Generate in memory and print a summary instead of writing files")
	flags.BoolVar(&newBootstrap, "bootstrap", false, "Run the bootstrap command (default: bundle install) after generation")
	flags.BoolVarP(&newInteractive, "interactive", "i", false, "Ask for every option not given on the command line")
	flags.StringVar(&newRubyVersion, "ruby-version", "", "Ruby version to pin in the Gemfile")

	for _, f := range selection.DefaultFeatures() {
		if f.Name == selection.AppName {
			continue
		}
		switch f.Kind {
		case selection.KindBool:
			def, _ := f.Default.(bool)
			flags.Bool(f.Name, def, f.Usage)
			featureFlags[f.Name] = true
		case selection.KindString:
			def, _ := f.Default.(string)
			usage := f.Usage
			if len(f.Allowed) > 0 {
				usage += " (" + strings.Join(f.Allowed, ", ") + ")"
			}
			flags.String(f.Name, def, usage)
			featureFlags[f.Name] = false
		}
		for _, alias := range f.Aliases {
			if f.Kind == selection.KindString && f.WhenTrue == "" {
				flags.String(alias, "", "Same as --"+f.Name)
				featureFlags[alias] = false
				continue
			}
			flags.Bool(alias, false, "Same as --"+f.Name)
			featureFlags[alias] = true
		}
	}

	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <app-name>",
	Short: "Generate a new Rails application",
	Long: `Generate a new Rails application skeleton.

Options are taken, highest precedence first, from command-line flags, the
answers file given with --answers, "defaults." keys in the user config, and
built-in defaults.

Examples:
  ` + branding.CLIName() + ` new shop --db postgresql --storage --background-jobs
  ` + branding.CLIName() + ` new shop --heroku --devise --dry-run
  ` + branding.CLIName() + ` new shop --answers other_project/` + branding.AnswersFile(),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags, err := changedFeatureFlags(cmd)
		if err != nil {
			return err
		}
		opts := newOptions{
			appName:     args[0],
			outputDir:   newOutputDir,
			answersPath: newAnswers,
			dryRun:      newDryRun,
			bootstrap:   newBootstrap,
			interactive: newInteractive,
			rubyVersion: newRubyVersion,
			flags:       flags,
			in:          cmd.InOrStdin(),
			out:         cmd.OutOrStdout(),
		}
		_, err = runNew(cmd.Context(), opts, newLogger())
		return err
	},
}

// changedFeatureFlags returns only the feature flags set on the command
// line, so unset flags never mask config defaults or answers.
func changedFeatureFlags(cmd *cobra.Command) (map[string]any, error) {
	raw := make(map[string]any)
	for name, isBool := range featureFlags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		var (
			v   any
			err error
		)
		if isBool {
			v, err = cmd.Flags().GetBool(name)
		} else {
			v, err = cmd.Flags().GetString(name)
		}
		if err != nil {
			return nil, fmt.Errorf("reading flag --%s: %w", name, err)
		}
		raw[name] = v
	}
	return raw, nil
}

// resolveOptions merges user defaults, the answers file and flags into a
// selection.
func resolveOptions(opts newOptions) (*selection.Context, error) {
	features := selection.DefaultFeatures()
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name)
	}

	var fromAnswers map[string]any
	if opts.answersPath != "" {
		f, err := answers.Parse(opts.answersPath)
		if err != nil {
			return nil, err
		}
		fromAnswers = f.Raw()
	}

	fromFlags := make(map[string]any, len(opts.flags)+1)
	for k, v := range opts.flags {
		fromFlags[k] = v
	}
	if opts.appName != "" {
		fromFlags[selection.AppName] = opts.appName
	}

	raw, err := selection.Merge(features, config.Defaults(names...), fromAnswers, fromFlags)
	if err != nil {
		return nil, err
	}
	if opts.interactive {
		if raw, err = selection.Ask(raw, features, opts.in, opts.out); err != nil {
			return nil, err
		}
	}
	return selection.Resolve(raw, features...)
}

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return &selection.ConfigurationError{
			Feature: selection.AppName,
			Value:   name,
			Reason:  "must match pattern [A-Za-z][A-Za-z0-9_-]*",
		}
	}
	return nil
}

func resolveOutputDir(opts newOptions, name string) string {
	if opts.outputDir != "" {
		return opts.outputDir
	}
	return filepath.Join(".", name)
}

func runNew(ctx context.Context, opts newOptions, logger *log.Logger) (*compose.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.out == nil {
		opts.out = os.Stdout
	}

	sel, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	name := sel.String(selection.AppName)
	if err := validateName(name); err != nil {
		return nil, err
	}

	var (
		b      builder.Builder
		outDir = resolveOutputDir(opts, name)
	)
	if opts.dryRun {
		b = builder.NewMemory()
	} else {
		if err := scaffold.EnsureEmptyDir(outDir); err != nil {
			return nil, err
		}
		osb, err := builder.NewOS(outDir)
		if err != nil {
			return nil, err
		}
		b = osb
	}

	rubyVersion := opts.rubyVersion
	if rubyVersion == "" {
		rubyVersion = config.Get(config.KeyRubyVersion)
	}
	c := &compose.Composer{
		Registry:    recipes.Default(),
		Builder:     b,
		Log:         logger,
		RubyVersion: rubyVersion,
	}
	if opts.bootstrap {
		c.Bootstrap = config.Get(config.KeyBootstrap)
	}

	result, err := c.Compose(ctx, sel)
	if err != nil {
		return nil, err
	}

	if opts.dryRun {
		fmt.Fprintln(opts.out, warningStyle.Render("Dry run: nothing was written"))
		fmt.Fprint(opts.out, compose.Render(result))
		return result, nil
	}
	printResult(opts.out, outDir, result, opts.bootstrap)
	return result, nil
}

func printResult(w io.Writer, outDir string, result *compose.Result, bootstrapped bool) {
	fmt.Fprintf(w, "%s Created %s\n", successStyle.Render(checkMark), outDir)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Recipes: %s", strings.Join(result.Applied, ", "))))

	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  1. %s\n", cmdStyle.Render("cd "+outDir))
	step := 2
	if !bootstrapped {
		fmt.Fprintf(w, "  %d. %s\n", step, cmdStyle.Render("bundle install"))
		step++
	}
	fmt.Fprintf(w, "  %d. %s\n", step, cmdStyle.Render("bundle exec rake db:setup"))
}
