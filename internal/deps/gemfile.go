package deps

import (
	"fmt"
	"strings"
)

// DefaultSource is the gem source written at the top of the Gemfile.
const DefaultSource = "https://rubygems.org"

// GemfileData is what a GemfileWriter hands to its Write func: the header
// values and the rendered gem statements.
type GemfileData struct {
	Source      string
	RubyVersion string
	Gems        string
}

// GemfileWriter is a ManifestWriter producing Gemfile statements. Write
// receives the rendered body and is responsible for placing it, typically
// through a template carrying the header.
type GemfileWriter struct {
	Source      string
	RubyVersion string
	Write       func(GemfileData) error
}

// WriteManifest implements ManifestWriter.
func (w GemfileWriter) WriteManifest(groups []Group) error {
	if w.Write == nil {
		return fmt.Errorf("gemfile writer has no Write func")
	}
	source := w.Source
	if source == "" {
		source = DefaultSource
	}
	return w.Write(GemfileData{
		Source:      source,
		RubyVersion: w.RubyVersion,
		Gems:        RenderGems(groups),
	})
}

// RenderGems renders grouped declarations as Gemfile statements. Runtime
// gems are written at the top level, other environments inside
// "group ... do" blocks. Constraints are copied verbatim; a comma-separated
// constraint becomes several quoted arguments.
func RenderGems(groups []Group) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		if g.Env == Runtime {
			for _, d := range g.Declarations {
				b.WriteString(gemLine(d))
				b.WriteString("\n")
			}
			continue
		}
		fmt.Fprintf(&b, "group %s do\n", groupSymbols(g.Env))
		for _, d := range g.Declarations {
			b.WriteString("  ")
			b.WriteString(gemLine(d))
			b.WriteString("\n")
		}
		b.WriteString("end\n")
	}
	return b.String()
}

func gemLine(d Declaration) string {
	line := fmt.Sprintf("gem '%s'", d.Name)
	if d.Constraint == "" {
		return line
	}
	for _, part := range strings.Split(d.Constraint, ",") {
		line += fmt.Sprintf(", '%s'", strings.TrimSpace(part))
	}
	return line
}

func groupSymbols(env Environment) string {
	members := env.members()
	syms := make([]string, len(members))
	for i, m := range members {
		syms[i] = ":" + m
	}
	return strings.Join(syms, ", ")
}
