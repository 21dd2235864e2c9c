package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"
	"time"
	"unicode"
)

//go:embed templates
var embedded embed.FS

// ErrTemplateNotFound is returned when no template matches a name.
var ErrTemplateNotFound = errors.New("template not found")

// tmplExt marks files that are executed as Go templates.
const tmplExt = ".tmpl"

// ProjectData holds the template variables shared by every template.
type ProjectData struct {
	Name      string // e.g., "dummy_app"
	ClassName string // Derived: DummyApp, the Rails application module
	Locale    string // e.g., "es"
	DB        string // "mysql", "postgresql" or "sqlite"
	Year      int    // Current year
}

// NewProjectData creates a ProjectData with derived fields populated.
func NewProjectData(name, locale, db string) *ProjectData {
	return &ProjectData{
		Name:      name,
		ClassName: className(name),
		Locale:    locale,
		DB:        db,
		Year:      time.Now().Year(),
	}
}

// Templates returns the embedded template set rooted at its top directory.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return sub
}

// Lookup resolves a template name to its file in fsys, preferring the
// executable "<name>.tmpl" over a verbatim "<name>".
func Lookup(fsys fs.FS, name string) (file string, execute bool, err error) {
	name = path.Clean(strings.TrimPrefix(name, "/"))
	if _, err := fs.Stat(fsys, name+tmplExt); err == nil {
		return name + tmplExt, true, nil
	}
	if info, err := fs.Stat(fsys, name); err == nil && !info.IsDir() {
		return name, false, nil
	}
	return "", false, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}

// Exists reports whether name resolves to a template in fsys.
func Exists(fsys fs.FS, name string) bool {
	_, _, err := Lookup(fsys, name)
	return err == nil
}

// Render renders the named template with data.
func Render(fsys fs.FS, name string, data any) ([]byte, error) {
	file, execute, err := Lookup(fsys, name)
	if err != nil {
		return nil, err
	}

	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", file, err)
	}
	if !execute {
		return raw, nil
	}

	tmpl, err := template.New(path.Base(file)).Funcs(funcMap).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", file, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", file, err)
	}
	return buf.Bytes(), nil
}

// Names lists every template name in fsys, without the .tmpl suffix.
func Names(fsys fs.FS) ([]string, error) {
	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		names = append(names, strings.TrimSuffix(p, tmplExt))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return names, nil
}

// EnsureEmptyDir creates dir if needed and fails when it already has
// entries, to prevent generating over an existing project.
func EnsureEmptyDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading output directory: %w", err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("output directory %s is not empty; remove existing files first", dir)
	}
	return nil
}

var funcMap = template.FuncMap{
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
	"join":  strings.Join,
	"upper": strings.ToUpper,
}

// className converts a snake/kebab-case app name to a Ruby constant:
// "dummy_app" -> "DummyApp".
func className(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			upper = true
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
