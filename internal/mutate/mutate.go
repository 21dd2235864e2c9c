package mutate

import (
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/potash-labs/potash/internal/builder"
	"github.com/potash-labs/potash/internal/scaffold"
)

// Kind identifies a mutation primitive.
type Kind string

const (
	KindCreate     Kind = "create-from-template"
	KindAppend     Kind = "append-if-absent"
	KindSubstitute Kind = "substitute"
	KindInsert     Kind = "insert-at-marker"
)

// Record describes one executed mutation.
type Record struct {
	Kind   Kind
	Path   string
	Detail string
}

// Primitives applies mutations to the project tree behind a Builder. It
// remembers which paths it created so that a later create-from-template
// may overwrite this run's own output but never foreign files.
type Primitives struct {
	b       builder.Builder
	log     *log.Logger
	created map[string]bool
	records []Record
}

// New returns mutation primitives over b. A nil logger discards output.
func New(b builder.Builder, logger *log.Logger) *Primitives {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Primitives{b: b, log: logger, created: make(map[string]bool)}
}

// Builder returns the underlying builder.
func (p *Primitives) Builder() builder.Builder { return p.b }

// Records returns the journal in execution order.
func (p *Primitives) Records() []Record {
	return slices.Clone(p.records)
}

// Touched returns the sorted, de-duplicated paths of all executed
// mutations.
func (p *Primitives) Touched() []string {
	var paths []string
	for _, r := range p.records {
		paths = append(paths, r.Path)
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}

// Created reports whether path was produced by CreateFromTemplate in this
// run.
func (p *Primitives) Created(target string) bool {
	return p.created[key(target)]
}

// CreateFromTemplate renders tmpl with bindings into target.
func (p *Primitives) CreateFromTemplate(tmpl, target string, bindings any) error {
	k := key(target)
	exists, err := p.b.Exists(k)
	if err != nil {
		return fmt.Errorf("checking %s: %w", k, err)
	}
	if exists && !p.created[k] {
		return &PathConflictError{Path: k}
	}

	if err := p.b.CopyTemplate(tmpl, k, bindings); err != nil {
		if errors.Is(err, scaffold.ErrTemplateNotFound) {
			return &TemplateNotFoundError{Template: tmpl}
		}
		return fmt.Errorf("rendering %s to %s: %w", tmpl, k, err)
	}
	p.created[k] = true
	p.record(KindCreate, k, tmpl)
	return nil
}

// AppendIfAbsent appends line to target unless an identical line (ignoring
// trailing whitespace) is already present. The target must exist.
func (p *Primitives) AppendIfAbsent(target, line string) error {
	k := key(target)
	content, err := p.read(KindAppend, k)
	if err != nil {
		return err
	}

	line = strings.TrimRight(line, "\r\n")
	want := strings.TrimRight(line, " \t")
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimRight(l, " \t\r") == want {
			return nil
		}
	}

	text := line + "\n"
	if content != "" && !strings.HasSuffix(content, "\n") {
		text = "\n" + text
	}
	if err := p.b.AppendToFile(k, text); err != nil {
		return fmt.Errorf("appending to %s: %w", k, err)
	}
	p.record(KindAppend, k, want)
	return nil
}

// Substitute replaces the first match of pattern in target with
// replace(match). No match is a PatternNotFoundError.
func (p *Primitives) Substitute(target string, pattern *regexp.Regexp, replace func(match string) string) error {
	k := key(target)
	if _, err := p.read(KindSubstitute, k); err != nil {
		return err
	}

	ok, err := p.b.GsubFile(k, pattern, replace)
	if err != nil {
		return fmt.Errorf("substituting in %s: %w", k, err)
	}
	if !ok {
		return &PatternNotFoundError{Path: k, Pattern: pattern.String()}
	}
	p.record(KindSubstitute, k, pattern.String())
	return nil
}

// InsertAtMarker inserts text next to marker m in target, creating the
// marker at its anchor first when absent. Text already present verbatim in
// the marker's region is not inserted again.
func (p *Primitives) InsertAtMarker(target string, m Marker, text string, where Placement) error {
	k := key(target)
	content, err := p.read(KindInsert, k)
	if err != nil {
		return err
	}

	loc := m.pattern().FindStringIndex(content)
	if loc == nil {
		if err := p.createMarker(k, m, content); err != nil {
			return err
		}
		if content, err = p.read(KindInsert, k); err != nil {
			return err
		}
		loc = m.pattern().FindStringIndex(content)
		if loc == nil {
			return &PatternNotFoundError{Path: k, Pattern: m.Text()}
		}
	}

	block := m.indent(text)
	if strings.Contains(region(content, loc[0], loc[1], where), block) {
		p.log.Debug("marker text already present", "path", k, "marker", m.Name)
		return nil
	}

	if loc[1] == len(content) {
		if err := p.b.AppendToFile(k, "\n"); err != nil {
			return fmt.Errorf("terminating marker line in %s: %w", k, err)
		}
	}
	line := content[loc[0]:loc[1]] + "\n"
	opts := builder.InsertOptions{After: line}
	if where == Before {
		opts = builder.InsertOptions{Before: line}
	}
	if err := p.b.InsertIntoFile(k, block, opts); err != nil {
		return fmt.Errorf("inserting at marker %s in %s: %w", m.Name, k, err)
	}
	p.record(KindInsert, k, m.Name+" ("+where.String()+")")
	return nil
}

func (p *Primitives) createMarker(k string, m Marker, content string) error {
	line := m.Line() + "\n"
	if m.Anchor == nil {
		if content != "" && !strings.HasSuffix(content, "\n") {
			line = "\n" + line
		}
		if err := p.b.AppendToFile(k, line); err != nil {
			return fmt.Errorf("creating marker %s in %s: %w", m.Name, k, err)
		}
	} else {
		ok, err := p.b.GsubFile(k, m.Anchor, func(match string) string {
			return line + match
		})
		if err != nil {
			return fmt.Errorf("creating marker %s in %s: %w", m.Name, k, err)
		}
		if !ok {
			return &PatternNotFoundError{Path: k, Pattern: m.Anchor.String()}
		}
	}
	p.log.Debug("created marker", "path", k, "marker", m.Name)
	p.record(KindInsert, k, "marker "+m.Name)
	return nil
}

func (p *Primitives) read(op Kind, k string) (string, error) {
	exists, err := p.b.Exists(k)
	if err != nil {
		return "", fmt.Errorf("checking %s: %w", k, err)
	}
	if !exists {
		return "", &MissingTargetError{Op: op, Path: k}
	}
	data, err := p.b.ReadFile(k)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (p *Primitives) record(kind Kind, target, detail string) {
	p.log.Debug("mutation", "kind", string(kind), "path", target)
	p.records = append(p.records, Record{Kind: kind, Path: target, Detail: detail})
}

// key normalizes a project-relative path so records and the created set
// agree on spelling.
func key(target string) string {
	return path.Clean(strings.ReplaceAll(target, "\\", "/"))
}
