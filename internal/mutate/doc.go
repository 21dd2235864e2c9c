// Package mutate implements the idempotent file mutations recipes issue
// against the project tree: create-from-template, append-if-absent,
// substitute and insert-at-marker. Mutations run immediately through a
// builder.Builder and are journaled as Records.
package mutate
