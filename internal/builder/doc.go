// Package builder is the scaffolding primitive surface recipes and mutation
// primitives run against: template copies, appends, pattern substitutions,
// literal-anchored insertions and shell commands, all confined to one
// project root. FS implements it over an afero file system so the same
// code runs against disk or memory.
package builder
