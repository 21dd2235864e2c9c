// Package deps collects the library requirements recipes declare and
// materializes them, grouped by install environment, into the generated
// project's dependency manifest (a Gemfile).
package deps
