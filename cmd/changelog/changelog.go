package main

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Entry represents a single version entry in the changelog
type Entry struct {
	Version string
	Date    string
	Content string
}

// Changelog represents a parsed Keep a Changelog file
type Changelog struct {
	Entries []Entry
	Links   map[string]string
}

// FindVersion finds a version entry by version string
func (c *Changelog) FindVersion(version string) *Entry {
	version = strings.TrimPrefix(version, "v")

	for i := range c.Entries {
		if strings.TrimPrefix(c.Entries[i].Version, "v") == version {
			return &c.Entries[i]
		}
	}
	return nil
}

// Latest returns the newest released entry, skipping [Unreleased].
// Entries are expected in reverse chronological order, so the first
// released entry is the latest.
func (c *Changelog) Latest() *Entry {
	for i := range c.Entries {
		if strings.EqualFold(c.Entries[i].Version, "unreleased") {
			continue
		}
		return &c.Entries[i]
	}
	return nil
}

// versionHeading is an h2 heading together with the source offsets needed
// to slice out the entry body that follows it.
type versionHeading struct {
	version string
	date    string
	start   int // offset of the heading line
	bodyAt  int // offset just past the heading text
}

// Parse parses a Keep a Changelog formatted markdown file
func Parse(source []byte) (*Changelog, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	doc := md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	changelog := &Changelog{Links: make(map[string]string)}

	// Link definitions land in the parser context as references
	for _, ref := range ctx.References() {
		changelog.Links[string(ref.Label())] = string(ref.Destination())
	}

	headings := collectVersionHeadings(doc, source)
	for i, h := range headings {
		end := len(source)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}

		body := ""
		if h.bodyAt < end {
			body = strings.TrimSpace(string(source[h.bodyAt:end]))
		}

		changelog.Entries = append(changelog.Entries, Entry{
			Version: h.version,
			Date:    h.date,
			Content: body,
		})
	}

	return changelog, nil
}

// collectVersionHeadings walks the AST for level-2 headings, which mark
// version entries.
func collectVersionHeadings(doc ast.Node, source []byte) []versionHeading {
	var headings []versionHeading

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		heading, ok := n.(*ast.Heading)
		if !entering || !ok || heading.Level != 2 {
			return ast.WalkContinue, nil
		}

		version, date := parseVersionHeading(headingText(heading, source))

		h := versionHeading{version: version, date: date}
		if lines := heading.Lines(); lines.Len() > 0 {
			h.start = lineStart(source, lines.At(0).Start)
			h.bodyAt = lines.At(lines.Len() - 1).Stop
		}
		headings = append(headings, h)

		return ast.WalkContinue, nil
	})

	return headings
}

// lineStart rewinds an offset to the start of its line. Heading segments
// begin after the "## " marker, and the entry body above must stop before
// the marker.
func lineStart(source []byte, offset int) int {
	for offset > 0 && source[offset-1] != '\n' {
		offset--
	}
	return offset
}

// headingText flattens a heading to plain text, looking through links and
// other inline wrappers.
func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if textNode, ok := n.(*ast.Text); ok {
				buf.Write(textNode.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// parseVersionHeading splits "## [1.2.3] - 2026-01-02" style headings into
// version and date. Headings without brackets ("## 1.2.3 - 2026-01-02")
// are accepted too.
func parseVersionHeading(heading string) (version, date string) {
	heading = strings.TrimSpace(heading)

	if rest, ok := strings.CutPrefix(heading, "["); ok {
		if v, tail, found := strings.Cut(rest, "]"); found {
			if d, ok := strings.CutPrefix(strings.TrimSpace(tail), "-"); ok {
				return v, strings.TrimSpace(d)
			}
			return v, ""
		}
	}

	if v, d, found := strings.Cut(heading, " - "); found {
		return strings.TrimSpace(v), strings.TrimSpace(d)
	}
	return heading, ""
}
