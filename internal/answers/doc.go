// Package answers reads and writes potash answers files: YAML documents
// that record the options a project was generated with, validated against
// an embedded JSON Schema.
package answers
