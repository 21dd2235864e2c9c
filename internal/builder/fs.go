package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/potash-labs/potash/internal/scaffold"
)

// memoryRoot is the directory a memory builder is rooted at.
const memoryRoot = "/project"

// FS implements Builder over an afero file system rooted at the project
// directory.
type FS struct {
	fs        afero.Fs
	root      string
	templates fs.FS
	execute   bool
	stdout    io.Writer
	stderr    io.Writer
	commands  []string
}

// Option configures an FS builder.
type Option func(*FS)

// WithTemplates overrides the template set (the embedded scaffold set by
// default).
func WithTemplates(templates fs.FS) Option {
	return func(b *FS) {
		if templates != nil {
			b.templates = templates
		}
	}
}

// WithOutput sets where shell command output goes.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(b *FS) {
		b.stdout = stdout
		b.stderr = stderr
	}
}

// WithDryRunShell records shell commands without running them.
func WithDryRunShell() Option {
	return func(b *FS) { b.execute = false }
}

// NewOS returns a builder writing to the real file system under root. The
// root directory is created if needed.
func NewOS(root string, opts ...Option) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating project root %s: %w", abs, err)
	}
	b := &FS{
		fs:        afero.NewBasePathFs(afero.NewOsFs(), abs),
		root:      abs,
		templates: scaffold.Templates(),
		execute:   true,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// NewMemory returns a builder over an in-memory file system. Shell commands
// are recorded, never run.
func NewMemory(opts ...Option) *FS {
	mem := afero.NewMemMapFs()
	_ = mem.MkdirAll(memoryRoot, 0o755)
	b := &FS{
		fs:        afero.NewBasePathFs(mem, memoryRoot),
		root:      memoryRoot,
		templates: scaffold.Templates(),
		stdout:    io.Discard,
		stderr:    io.Discard,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.execute = false
	return b
}

// Root returns the project root directory.
func (b *FS) Root() string { return b.root }

// Templates returns the template set CopyTemplate renders from.
func (b *FS) Templates() fs.FS { return b.templates }

// Commands returns every command passed to RunShell, in order.
func (b *FS) Commands() []string {
	return append([]string(nil), b.commands...)
}

// CopyTemplate renders src into dest. Rendered files starting with a
// shebang are made executable.
func (b *FS) CopyTemplate(src, dest string, bindings any) error {
	p, err := clean(dest)
	if err != nil {
		return err
	}
	content, err := scaffold.Render(b.templates, src, bindings)
	if err != nil {
		return err
	}
	if err := b.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", p, err)
	}
	mode := os.FileMode(0o644)
	if bytes.HasPrefix(content, []byte("#!")) {
		mode = 0o755
	}
	return b.writeAtomic(p, content, mode)
}

// AppendToFile appends text to an existing file.
func (b *FS) AppendToFile(path, text string) error {
	p, err := clean(path)
	if err != nil {
		return err
	}
	f, err := b.fs.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", p, err)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("appending to %s: %w", p, err)
	}
	return nil
}

// GsubFile replaces the first match of pattern.
func (b *FS) GsubFile(path string, pattern *regexp.Regexp, fn func(match string) string) (bool, error) {
	p, err := clean(path)
	if err != nil {
		return false, err
	}
	content, err := b.read(p)
	if err != nil {
		return false, err
	}

	loc := pattern.FindStringIndex(content)
	if loc == nil {
		return false, nil
	}
	updated := content[:loc[0]] + fn(content[loc[0]:loc[1]]) + content[loc[1]:]
	return true, b.writeAtomic(p, []byte(updated), b.mode(p))
}

// InsertIntoFile inserts text before or after the first occurrence of a
// literal anchor, or at end of file when no anchor is given.
func (b *FS) InsertIntoFile(path, text string, opts InsertOptions) error {
	p, err := clean(path)
	if err != nil {
		return err
	}
	content, err := b.read(p)
	if err != nil {
		return err
	}

	var at int
	switch {
	case opts.Before != "":
		at = strings.Index(content, opts.Before)
		if at < 0 {
			return fmt.Errorf("%w: %q in %s", ErrAnchorNotFound, opts.Before, p)
		}
	case opts.After != "":
		at = strings.Index(content, opts.After)
		if at < 0 {
			return fmt.Errorf("%w: %q in %s", ErrAnchorNotFound, opts.After, p)
		}
		at += len(opts.After)
	default:
		at = len(content)
	}

	updated := content[:at] + text + content[at:]
	return b.writeAtomic(p, []byte(updated), b.mode(p))
}

// ReadFile returns the contents of path.
func (b *FS) ReadFile(path string) ([]byte, error) {
	p, err := clean(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(b.fs, p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return data, nil
}

// Exists reports whether path exists.
func (b *FS) Exists(path string) (bool, error) {
	p, err := clean(path)
	if err != nil {
		return false, err
	}
	return afero.Exists(b.fs, p)
}

// RunShell parses command as POSIX shell and runs it in the project root.
// Memory builders and dry-run builders only record it.
func (b *FS) RunShell(ctx context.Context, command string) error {
	b.commands = append(b.commands, command)
	if !b.execute {
		return nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	if err != nil {
		return fmt.Errorf("parsing command %q: %w", command, err)
	}

	runner, err := interp.New(
		interp.Dir(b.root),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, b.stdout, b.stderr),
	)
	if err != nil {
		return fmt.Errorf("creating interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ShellError{Command: command, ExitCode: int(status)}
		}
		return fmt.Errorf("running %q: %w", command, err)
	}
	return nil
}

// Snapshot returns every regular file under the root keyed by its
// slash-separated relative path.
func (b *FS) Snapshot() (map[string]string, error) {
	files := make(map[string]string)
	err := afero.Walk(b.fs, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(b.fs, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(path)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking project tree: %w", err)
	}
	return files, nil
}

// Paths returns the sorted relative paths of every file under the root.
func (b *FS) Paths() ([]string, error) {
	snap, err := b.Snapshot()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(snap))
	for p := range snap {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (b *FS) read(p string) (string, error) {
	data, err := afero.ReadFile(b.fs, p)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	return string(data), nil
}

func (b *FS) mode(p string) os.FileMode {
	if info, err := b.fs.Stat(p); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

// writeAtomic writes data to a file atomically using temp file + rename.
func (b *FS) writeAtomic(p string, data []byte, mode os.FileMode) error {
	tmp := p + ".tmp"
	if err := afero.WriteFile(b.fs, tmp, data, mode); err != nil {
		return fmt.Errorf("writing temporary file for %s: %w", p, err)
	}
	if err := b.fs.Rename(tmp, p); err != nil {
		_ = b.fs.Remove(tmp) // Best-effort cleanup
		return fmt.Errorf("renaming temporary file to %s: %w", p, err)
	}
	return nil
}

// clean validates a project-relative path and returns it cleaned.
func clean(path string) (string, error) {
	p := filepath.Clean(filepath.FromSlash(path))
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return p, nil
}
