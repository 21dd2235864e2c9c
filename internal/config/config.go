package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/potash-labs/potash/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"

	// DefaultsPrefix namespaces option defaults.
	DefaultsPrefix = "defaults."
	// KeyRubyVersion is the Ruby version written to generated Gemfiles.
	KeyRubyVersion = "ruby_version"
	// KeyBootstrap is the command run by "new --bootstrap".
	KeyBootstrap = "bootstrap"
)

// Dir returns the config directory (~/.potash/). POTASH_HOME overrides it.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("HOME")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.potash/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Environment variables use the POTASH prefix with dots and dashes
// replaced by underscores: POTASH_DEFAULTS_DB, POTASH_RUBY_VERSION.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	viper.SetDefault(KeyBootstrap, "bundle install")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Keys returns every key with a value, sorted.
func Keys() []string {
	keys := viper.AllKeys()
	slices.Sort(keys)
	return keys
}

// Defaults returns the configured default for each named option that has
// one, keyed by option name.
func Defaults(names ...string) map[string]any {
	out := make(map[string]any)
	for _, name := range names {
		key := DefaultsPrefix + name
		if viper.IsSet(key) {
			out[name] = viper.Get(key)
		}
	}
	return out
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
