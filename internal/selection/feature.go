package selection

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Kind is the declared type of a feature value.
type Kind int

const (
	KindBool Kind = iota
	KindString
)

// String returns the lowercase kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Canonical feature names understood by the built-in recipes.
const (
	AppName          = "app-name"
	DB               = "db"
	Lang             = "lang"
	API              = "api"
	Admin            = "admin"
	Authorization    = "authorization"
	Storage          = "storage"
	Auth             = "auth"
	BackgroundJobs   = "background-jobs"
	DeploymentTarget = "deployment-target"
)

// Feature declares one option: its type, default, legacy aliases and the
// checks applied to supplied values.
type Feature struct {
	Name    string
	Kind    Kind
	Default any // bool for KindBool, string for KindString
	Aliases []string
	Allowed []string // string features only; empty means any value
	Usage   string

	// WhenTrue and WhenFalse let a string feature accept booleans, as
	// in "--heroku" selecting deployment-target=heroku. Empty means
	// booleans are rejected.
	WhenTrue  string
	WhenFalse string

	// Normalize validates and canonicalizes a string value.
	Normalize func(string) (string, error)

	// Check runs after every feature is resolved and rejects values that
	// contradict other features. A plain error is reported against this
	// feature.
	Check func(v Value, sel *Context) error
}

// DefaultFeatures returns the built-in feature table.
func DefaultFeatures() []Feature {
	return []Feature{
		{Name: AppName, Kind: KindString, Default: "", Usage: "Application name"},
		{Name: DB, Kind: KindString, Default: "mysql", Allowed: []string{"mysql", "postgresql", "sqlite"},
			Usage: "Database engine"},
		{Name: Lang, Kind: KindString, Default: "es", Normalize: normalizeLocale,
			Usage: "Default locale (BCP 47 tag)"},
		{Name: API, Kind: KindBool, Default: false, Usage: "Add API support (serializers, CORS)"},
		{Name: Admin, Kind: KindBool, Default: false, Usage: "Add an admin panel"},
		{Name: Authorization, Kind: KindBool, Default: false, Aliases: []string{"pundit"},
			Usage: "Add policy-based authorization"},
		{Name: Storage, Kind: KindBool, Default: false, Aliases: []string{"paperclip"},
			Usage: "Add S3 file storage"},
		{Name: Auth, Kind: KindBool, Default: false, Aliases: []string{"devise"},
			Usage: "Add user authentication"},
		{Name: BackgroundJobs, Kind: KindBool, Default: false, Aliases: []string{"delayed-job"},
			Usage: "Add background job processing"},
		{Name: DeploymentTarget, Kind: KindString, Default: "none", Allowed: []string{"none", "heroku"},
			Aliases: []string{"heroku"}, WhenTrue: "heroku", WhenFalse: "none",
			Check: requireDatabase("heroku", HerokuDatabases...),
			Usage: "Deployment target"},
	}
}

// HerokuDatabases are the db values Heroku provides an add-on for.
var HerokuDatabases = []string{"mysql", "postgresql"}

// requireDatabase rejects target unless db is one of supported.
func requireDatabase(target string, supported ...string) func(Value, *Context) error {
	return func(v Value, sel *Context) error {
		if v.Str != target {
			return nil
		}
		db := sel.String(DB)
		if slices.Contains(supported, db) {
			return nil
		}
		return &ConfigurationError{
			Feature: DB,
			Value:   db,
			Reason:  fmt.Sprintf("not supported with %s %s (use %s)", DeploymentTarget, target, strings.Join(supported, " or ")),
		}
	}
}

// normalizeLocale checks that s is a well-formed BCP 47 tag and returns it
// in the form Rails expects for locale files ("es", "pt-BR").
func normalizeLocale(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("locale must not be empty")
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("not a BCP 47 language tag: %w", err)
	}
	return tag.String(), nil
}
