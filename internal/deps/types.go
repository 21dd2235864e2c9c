package deps

import (
	"fmt"
	"slices"
	"strings"
)

// Environment is the install-time environment set a declaration belongs to.
type Environment int

const (
	Runtime Environment = iota
	DevelopmentTest
	Development
	Test
)

// groupOrder is the order in which non-empty groups are written.
var groupOrder = []Environment{Runtime, DevelopmentTest, Development, Test}

// String returns the environment name.
func (e Environment) String() string {
	switch e {
	case Runtime:
		return "runtime"
	case Development:
		return "development"
	case Test:
		return "test"
	case DevelopmentTest:
		return "development,test"
	default:
		return fmt.Sprintf("Environment(%d)", int(e))
	}
}

// members returns the concrete environments in the set. Runtime covers all.
func (e Environment) members() []string {
	switch e {
	case Development:
		return []string{"development"}
	case Test:
		return []string{"test"}
	case DevelopmentTest:
		return []string{"development", "test"}
	default:
		return []string{"development", "test", "production"}
	}
}

// Overlaps reports whether two environment sets share a member.
func (e Environment) Overlaps(other Environment) bool {
	for _, m := range e.members() {
		if slices.Contains(other.members(), m) {
			return true
		}
	}
	return false
}

// Combine folds an environment list into a single set. No environments, or
// any Runtime entry, yields Runtime.
func Combine(envs ...Environment) Environment {
	if len(envs) == 0 {
		return Runtime
	}
	dev, test := false, false
	for _, e := range envs {
		switch e {
		case Runtime:
			return Runtime
		case Development:
			dev = true
		case Test:
			test = true
		case DevelopmentTest:
			dev, test = true, true
		}
	}
	switch {
	case dev && test:
		return DevelopmentTest
	case dev:
		return Development
	default:
		return Test
	}
}

// ParseEnvironment parses "runtime", "development", "test" or a
// comma-separated combination such as "development,test".
func ParseEnvironment(s string) (Environment, error) {
	var envs []Environment
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "runtime", "default", "":
			envs = append(envs, Runtime)
		case "development", "dev":
			envs = append(envs, Development)
		case "test":
			envs = append(envs, Test)
		default:
			return Runtime, fmt.Errorf("unknown environment %q", part)
		}
	}
	return Combine(envs...), nil
}

// Declaration is one library requirement. An empty Constraint means the
// recipe did not pin a version.
type Declaration struct {
	Name       string      `yaml:"name"`
	Constraint string      `yaml:"constraint,omitempty"`
	Env        Environment `yaml:"-"`
}

// String renders the declaration as "name (constraint) [env]".
func (d Declaration) String() string {
	if d.Constraint == "" {
		return fmt.Sprintf("%s [%s]", d.Name, d.Env)
	}
	return fmt.Sprintf("%s (%s) [%s]", d.Name, d.Constraint, d.Env)
}

// Group is the set of declarations sharing an environment, in declaration
// order.
type Group struct {
	Env          Environment
	Declarations []Declaration
}

// ManifestWriter materializes grouped declarations into a manifest format.
type ManifestWriter interface {
	WriteManifest(groups []Group) error
}

// ManifestWriterFunc adapts a function to ManifestWriter.
type ManifestWriterFunc func(groups []Group) error

// WriteManifest calls f(groups).
func (f ManifestWriterFunc) WriteManifest(groups []Group) error { return f(groups) }
