// Package cli defines the Cobra command tree for the potash CLI. Each file
// registers one top-level command with the root command. Commands delegate
// to internal packages for generation and only handle flag parsing, output
// formatting and user interaction.
package cli
