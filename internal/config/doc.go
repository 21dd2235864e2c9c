// Package config manages user-level settings stored at ~/.potash/config.yaml.
// Keys under "defaults." pre-fill generation options (for example
// defaults.db: postgresql); flags and answers files take precedence.
package config
