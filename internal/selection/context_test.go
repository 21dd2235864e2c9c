package selection

import (
	"errors"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	ctx, err := Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve(nil) error: %v", err)
	}

	if got := ctx.String(DB); got != "mysql" {
		t.Errorf("db = %q, want %q", got, "mysql")
	}
	if got := ctx.String(Lang); got != "es" {
		t.Errorf("lang = %q, want %q", got, "es")
	}
	for _, name := range []string{API, Admin, Authorization, Storage, Auth, BackgroundJobs, DeploymentTarget} {
		if ctx.Selected(name) {
			t.Errorf("Selected(%q) = true, want false by default", name)
		}
	}
	if ctx.ValueOf(DB).Set {
		t.Error("defaulted value should not be marked Set")
	}
}

func TestResolveUnknownFeatureIsNeverSelected(t *testing.T) {
	ctx, err := Resolve(map[string]any{"spring": true})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if ctx.Selected("spring") {
		t.Error("unknown feature must not be selected")
	}
	v, ok := ctx.Raw("spring")
	if !ok || v != true {
		t.Errorf("Raw(spring) = %v, %v; want true, true", v, ok)
	}
	if ctx.ValueOf("nonexistent") != (Value{}) {
		t.Error("ValueOf(unknown) should be the zero Value")
	}
}

func TestResolveAliases(t *testing.T) {
	cases := []struct {
		alias     string
		canonical string
	}{
		{"paperclip", Storage},
		{"devise", Auth},
		{"pundit", Authorization},
		{"delayed-job", BackgroundJobs},
	}

	for _, tc := range cases {
		t.Run(tc.alias, func(t *testing.T) {
			ctx, err := Resolve(map[string]any{tc.alias: true})
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if !ctx.Selected(tc.canonical) {
				t.Errorf("Selected(%q) = false after setting alias %q", tc.canonical, tc.alias)
			}
			if _, ok := ctx.Raw(tc.alias); ok {
				t.Errorf("alias %q should not be kept as passthrough", tc.alias)
			}
		})
	}
}

func TestResolveHerokuBoolean(t *testing.T) {
	ctx, err := Resolve(map[string]any{"heroku": true})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !ctx.Is(DeploymentTarget, "heroku") {
		t.Errorf("deployment-target = %q, want heroku", ctx.String(DeploymentTarget))
	}

	ctx, err = Resolve(map[string]any{"heroku": false})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if ctx.Selected(DeploymentTarget) {
		t.Error("heroku=false should leave deployment-target unselected")
	}
}

func TestResolveStringBooleans(t *testing.T) {
	ctx, err := Resolve(map[string]any{"storage": "yes", "auth": "0"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !ctx.Selected(Storage) {
		t.Error("storage=yes should be selected")
	}
	if ctx.Selected(Auth) {
		t.Error("auth=0 should not be selected")
	}
}

func TestResolveLocale(t *testing.T) {
	cases := map[string]string{
		"es":    "es",
		"pt-BR": "pt-BR",
		"en":    "en",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			ctx, err := Resolve(map[string]any{"lang": in})
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got := ctx.String(Lang); got != want {
				t.Errorf("lang = %q, want %q", got, want)
			}
		})
	}
}

func TestResolveConfigurationErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"non-boolean storage", map[string]any{"storage": "maybe"}},
		{"numeric boolean", map[string]any{"api": 3}},
		{"unknown db", map[string]any{"db": "oracle"}},
		{"non-string db", map[string]any{"db": true}},
		{"malformed locale", map[string]any{"lang": "not_a_locale!!"}},
		{"empty locale", map[string]any{"lang": ""}},
		{"alias disagrees with canonical", map[string]any{"storage": true, "paperclip": false}},
		{"unknown deployment target", map[string]any{"deployment-target": "mars"}},
		{"heroku with sqlite", map[string]any{"heroku": true, "db": "sqlite"}},
		{"heroku target with sqlite", map[string]any{"deployment-target": "heroku", "db": "sqlite"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.raw)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("error %v does not wrap ErrConfiguration", err)
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not *ConfigurationError", err)
			}
			if ce.Feature == "" {
				t.Error("ConfigurationError.Feature should name the option")
			}
		})
	}
}

func TestResolveAliasAgreeingWithCanonical(t *testing.T) {
	ctx, err := Resolve(map[string]any{"storage": true, "paperclip": "true"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !ctx.Selected(Storage) {
		t.Error("storage should be selected")
	}
}

func TestContextMapIsACopy(t *testing.T) {
	ctx, err := Resolve(map[string]any{"db": "sqlite"})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	m := ctx.Map()
	m["db"] = "postgresql"
	if got := ctx.String(DB); got != "sqlite" {
		t.Errorf("mutating Map() changed the context: db = %q", got)
	}
}

func TestResolveCustomFeatures(t *testing.T) {
	features := []Feature{{Name: "ssl", Kind: KindBool, Default: true}}
	ctx, err := Resolve(map[string]any{"db": "oracle"}, features...)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !ctx.Selected("ssl") {
		t.Error("ssl should default to true")
	}
	if _, ok := ctx.Raw("db"); !ok {
		t.Error("db is unknown to this feature table and should pass through")
	}
}

func TestResolveHerokuDatabases(t *testing.T) {
	_, err := Resolve(map[string]any{"heroku": true, "db": "sqlite"})
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("Resolve() error = %v, want *ConfigurationError", err)
	}
	if ce.Feature != DB || ce.Value != "sqlite" {
		t.Errorf("error blames %q=%v, want db=sqlite", ce.Feature, ce.Value)
	}

	for _, db := range HerokuDatabases {
		if _, err := Resolve(map[string]any{"heroku": true, "db": db}); err != nil {
			t.Errorf("heroku with %s: %v", db, err)
		}
	}
	if _, err := Resolve(map[string]any{"db": "sqlite"}); err != nil {
		t.Errorf("sqlite without heroku: %v", err)
	}
}

func TestResolveCheckPlainError(t *testing.T) {
	features := []Feature{
		{Name: "ssl", Kind: KindBool, Default: false},
		{Name: "port", Kind: KindString, Default: "80", Check: func(v Value, sel *Context) error {
			if sel.Selected("ssl") && v.Str == "80" {
				return errors.New("ssl needs another port")
			}
			return nil
		}},
	}
	_, err := Resolve(map[string]any{"ssl": true}, features...)
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("Resolve() error = %v, want *ConfigurationError", err)
	}
	if ce.Feature != "port" || ce.Reason != "ssl needs another port" {
		t.Errorf("error = %+v", ce)
	}
	if _, err := Resolve(map[string]any{"ssl": true, "port": "443"}, features...); err != nil {
		t.Errorf("Resolve() with port 443: %v", err)
	}
}
