// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this directory before building; Go's
// //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	GoModule     string `yaml:"go_module"`
	GitHubRepo   string `yaml:"github_repo"`
	MarkerPrefix string `yaml:"marker_prefix"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:      "potash",
			DisplayName:  "Potash",
			Description:  "Rails application scaffolding from composable recipes",
			HomeDir:      ".potash",
			EnvPrefix:    "POTASH",
			GoModule:     "github.com/potash-labs/potash",
			GitHubRepo:   "potash-labs/potash",
			MarkerPrefix: "potash",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "potash").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Potash").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".potash").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "POTASH").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// MarkerPrefix returns the tag written into marker comments of generated
// files, e.g. "# potash:production-config".
func MarkerPrefix() string { load(); return defaults.MarkerPrefix }

// AnswersFile returns the name of the answers file recorded in every
// generated project (e.g., ".potash.yml").
func AnswersFile() string { load(); return "." + defaults.CLIName + ".yml" }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "POTASH_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
