// Package selection resolves raw generator options (flags, answers files,
// user defaults) into an immutable Context that every recipe queries.
// Each known feature carries a declared type and default, so lookups never
// need existence checks.
package selection
