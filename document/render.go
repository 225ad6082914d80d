package document

import (
	"fmt"
	"strings"

	"github.com/typeterms/typeterms/glossary"
)

// Renderer emits the glossary markdown document from a registry.
// Output is deterministic: the same registry always renders byte-identical
// markdown.
type Renderer struct {
	title   string
	tool    string
	version string
}

// NewRenderer creates a renderer stamping the given tool version into the
// document frontmatter.
func NewRenderer(version string) *Renderer {
	return &Renderer{
		title:   "TypeScript Type-System Glossary",
		tool:    "typeterms",
		version: version,
	}
}

// Render produces the full glossary document. It fails if any entry's
// cross-reference does not resolve, so a rendered document never contains
// a broken "See also" link.
func (r *Renderer) Render(reg *glossary.Registry) (string, error) {
	if refErrs := reg.Validate(); len(refErrs) > 0 {
		return "", fmt.Errorf("render: %s", refErrs[0].Error())
	}

	// First pass: compute anchors in document order so TOC fragments
	// match what a renderer derives from the headings.
	anchors := glossary.NewAnchorSet()
	anchors.Add(r.title)
	anchors.Add("Table of contents")

	categoryAnchor := make(map[glossary.Category]string)
	entryAnchor := make(map[*glossary.Entry]string)
	for _, cat := range glossary.CategoryOrder {
		entries := reg.ByCategory(cat)
		if len(entries) == 0 {
			continue
		}
		categoryAnchor[cat] = anchors.Add(glossary.CategoryTitles[cat])
		for _, e := range entries {
			entryAnchor[e] = anchors.Add(e.Term)
		}
	}

	var sb strings.Builder

	// Frontmatter identifies the generator; no timestamp, so rebuilding
	// an unchanged registry is a no-op diff.
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("tool: %s\n", r.tool))
	sb.WriteString(fmt.Sprintf("version: %s\n", r.version))
	sb.WriteString("---\n\n")

	sb.WriteString(fmt.Sprintf("# %s\n\n", r.title))
	sb.WriteString("A glossary of TypeScript type-system terminology, with illustrative\n")
	sb.WriteString("code examples. Entries are grouped by topic; cross-references link to\n")
	sb.WriteString("other entries in this document.\n\n")

	sb.WriteString("## Table of contents\n\n")
	for _, cat := range glossary.CategoryOrder {
		entries := reg.ByCategory(cat)
		if len(entries) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("- **%s**\n", glossary.CategoryTitles[cat]))
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("  - [%s](#%s)\n", e.Term, entryAnchor[e]))
		}
	}
	sb.WriteString("\n")

	for _, cat := range glossary.CategoryOrder {
		entries := reg.ByCategory(cat)
		if len(entries) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", glossary.CategoryTitles[cat]))

		for _, e := range entries {
			r.writeEntry(&sb, reg, e, entryAnchor)
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

// writeEntry emits one H3 entry section.
func (r *Renderer) writeEntry(sb *strings.Builder, reg *glossary.Registry, e *glossary.Entry, entryAnchor map[*glossary.Entry]string) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", e.Term))

	if len(e.Aliases) > 0 {
		sb.WriteString(fmt.Sprintf("*Also known as: %s.*\n\n", strings.Join(e.Aliases, ", ")))
	}

	sb.WriteString(strings.TrimSpace(e.Definition))
	sb.WriteString("\n\n")

	for _, ex := range e.Examples {
		if ex.Caption != "" {
			sb.WriteString(ex.Caption)
			sb.WriteString("\n\n")
		}
		sb.WriteString("```")
		sb.WriteString(ex.EffectiveLang())
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(ex.Code, "\n"))
		sb.WriteString("\n")
		if ex.ExpectDiagnostic > 0 {
			sb.WriteString(fmt.Sprintf("// expects error TS%d\n", ex.ExpectDiagnostic))
		}
		sb.WriteString("```\n\n")
	}

	if len(e.SeeAlso) > 0 {
		links := make([]string, 0, len(e.SeeAlso))
		for _, ref := range e.SeeAlso {
			// Resolution cannot fail: Render validated the registry.
			target, _ := reg.Resolve(ref)
			links = append(links, fmt.Sprintf("[%s](#%s)", target.Term, entryAnchor[target]))
		}
		sb.WriteString(fmt.Sprintf("See also: %s.\n\n", strings.Join(links, ", ")))
	}
}
