package mutate

import (
	"regexp"
	"strings"

	"github.com/potash-labs/potash/internal/branding"
)

// Placement selects which side of a marker text is inserted on.
type Placement int

const (
	// Before inserts directly above the marker. Repeated insertions keep
	// their call order.
	Before Placement = iota
	// After inserts directly below the marker, so the latest insertion
	// sits closest to it.
	After
)

func (p Placement) String() string {
	if p == After {
		return "after"
	}
	return "before"
}

// Marker names a comment line that delimits a region several recipes may
// insert into.
type Marker struct {
	Name string
	// Comment is the line comment token; "#" when empty.
	Comment string
	// Indent prefixes the marker line and every inserted line.
	Indent string
	// Anchor locates where a missing marker is created: directly before
	// the first match. A nil Anchor creates it at end of file.
	Anchor *regexp.Regexp
}

// Shared markers. Every recipe inserting into these files goes through
// them instead of editing the anchors directly.
var (
	// ProductionConfig sits before the closing "end" of
	// config/environments/production.rb.
	ProductionConfig = Marker{
		Name:   "production-config",
		Indent: "  ",
		Anchor: regexp.MustCompile(`(?m)^end\s*\z`),
	}
	// ApplicationConfig sits inside the Application class of
	// config/application.rb.
	ApplicationConfig = Marker{
		Name:   "application-config",
		Indent: "    ",
		Anchor: regexp.MustCompile(`(?m)^  end\s*\nend\s*\z`),
	}
	// Routes sits before the closing "end" of config/routes.rb.
	Routes = Marker{
		Name:   "routes",
		Indent: "  ",
		Anchor: regexp.MustCompile(`(?m)^end\s*\z`),
	}
)

// Text returns the marker comment without indentation, e.g.
// "# potash:routes".
func (m Marker) Text() string {
	comment := m.Comment
	if comment == "" {
		comment = "#"
	}
	return comment + " " + branding.MarkerPrefix() + ":" + m.Name
}

// Line returns the full marker line including indentation, without a
// trailing newline.
func (m Marker) Line() string {
	return m.Indent + m.Text()
}

// pattern matches the marker line regardless of its indentation.
func (m Marker) pattern() *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(m.Text()) + `[ \t]*$`)
}

// indent prefixes every non-empty line of text with the marker indent and
// guarantees a trailing newline.
func (m Marker) indent(text string) string {
	text = strings.TrimRight(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			lines[i] = m.Indent + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

var anyMarker = regexp.MustCompile(`(?m)^[ \t]*\S+ ` + regexp.QuoteMeta(branding.MarkerPrefix()) + `:\S+[ \t]*$`)

// region returns the part of content belonging to the marker spanning
// [start,end): above it up to the previous marker, or below it up to the
// next one.
func region(content string, start, end int, p Placement) string {
	bounds := anyMarker.FindAllStringIndex(content, -1)
	if p == Before {
		from := 0
		for _, b := range bounds {
			if b[1] <= start && b[1] > from {
				from = b[1]
			}
		}
		return content[from:start]
	}
	to := len(content)
	for _, b := range bounds {
		if b[0] >= end && b[0] < to {
			to = b[0]
		}
	}
	return content[end:to]
}
