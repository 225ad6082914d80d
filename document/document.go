// Package document models the glossary's markdown document and provides
// a tolerant parser and a deterministic renderer for it.
package document

import (
	"github.com/typeterms/typeterms/glossary"
)

// Section is a heading and the body that follows it, up to the next
// heading of any level.
type Section struct {
	// Level is the heading level (1 for #, 2 for ##, ...).
	Level int

	// Heading is the heading text without the leading hashes.
	Heading string

	// Anchor is the deduplicated GitHub-style fragment for the heading.
	Anchor string

	// Line is the 1-based line number of the heading.
	Line int
}

// TOCEntry is a single link in the document's table of contents.
type TOCEntry struct {
	// Text is the link text.
	Text string

	// Fragment is the anchor fragment the link targets (without '#').
	Fragment string

	// Line is the 1-based line number of the link.
	Line int
}

// RefLink is a same-document link outside the table of contents,
// typically a "See also" cross-reference.
type RefLink struct {
	// Text is the link text.
	Text string

	// Fragment is the anchor fragment the link targets (without '#').
	Fragment string

	// Line is the 1-based line number of the link.
	Line int
}

// CodeBlock is a fenced code example.
type CodeBlock struct {
	// Lang is the fence language tag, empty when missing.
	Lang string

	// Code is the fence body.
	Code string

	// Line is the 1-based line number of the opening fence.
	Line int

	// ExpectDiagnostic is the TypeScript diagnostic code claimed by an
	// "expects error TS<code>" marker inside the fence, zero if absent.
	ExpectDiagnostic int

	// Section is the anchor of the enclosing section, empty before the
	// first heading.
	Section string
}

// Problem is a non-fatal parse issue (e.g. an unclosed fence).
type Problem struct {
	// Line is the 1-based line number where the problem was detected.
	Line int

	// Message describes the problem.
	Message string
}

// Document is the parsed glossary markdown document.
type Document struct {
	// Path is the source file path.
	Path string

	// Title is the first H1 heading text, empty if none.
	Title string

	// Frontmatter holds parsed YAML frontmatter, nil if absent.
	Frontmatter map[string]any

	// Sections lists all headings in document order.
	Sections []Section

	// TOC lists links found inside the "Table of contents" section.
	TOC []TOCEntry

	// RefLinks lists same-document links found outside the table of
	// contents and outside code fences.
	RefLinks []RefLink

	// CodeBlocks lists fenced code examples in document order.
	CodeBlocks []CodeBlock

	// Problems lists non-fatal parse issues.
	Problems []Problem

	anchors *glossary.AnchorSet
}

// HasAnchor reports whether any heading in the document produces the
// given anchor fragment.
func (d *Document) HasAnchor(fragment string) bool {
	if d.anchors == nil {
		return false
	}
	return d.anchors.Contains(fragment)
}

// SectionByAnchor returns the section with the given anchor.
func (d *Document) SectionByAnchor(fragment string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Anchor == fragment {
			return s, true
		}
	}
	return Section{}, false
}

// EntrySections returns the H3 sections, which hold one glossary entry each.
func (d *Document) EntrySections() []Section {
	var out []Section
	for _, s := range d.Sections {
		if s.Level == 3 {
			out = append(out, s)
		}
	}
	return out
}
