package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/typeterms/typeterms/glossary"
)

// Pre-compiled patterns for the line scanner.
var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*$`)
	fenceRe    = regexp.MustCompile("^```\\s*([A-Za-z0-9_+-]*)\\s*$")
	sameDocRe  = regexp.MustCompile(`\[([^\]]+)\]\(#([^)\s]+)\)`)
	expectsRe  = regexp.MustCompile(`^\s*//\s*expects error TS(\d+)\s*$`)
	tocHeading = "table of contents"
)

// Parse parses glossary markdown content. Parsing is tolerant: structural
// issues are collected in Document.Problems rather than aborting.
func Parse(path string, content []byte) (*Document, error) {
	doc := &Document{
		Path:    path,
		anchors: glossary.NewAnchorSet(),
	}

	body := string(content)
	if strings.HasPrefix(body, "---\n") || strings.HasPrefix(body, "---\r\n") {
		fm, rest, err := extractFrontmatter(body)
		if err != nil {
			// Treat the whole content as body, matching markdown
			// renderers that show a malformed frontmatter block as text.
			doc.Problems = append(doc.Problems, Problem{Line: 1, Message: err.Error()})
		} else {
			doc.Frontmatter = fm.values
			body = rest
		}
	}

	// Line offset of the body within the original content, for accurate
	// line numbers when frontmatter was stripped.
	offset := strings.Count(string(content)[:len(string(content))-len(body)], "\n")

	lines := strings.Split(body, "\n")

	var (
		inFence    bool
		fence      CodeBlock
		fenceBody  []string
		inTOC      bool
		curSection string
	)

	for i, line := range lines {
		lineNo := i + 1 + offset

		if inFence {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				fence.Code = strings.Join(fenceBody, "\n")
				doc.CodeBlocks = append(doc.CodeBlocks, fence)
				inFence = false
				fenceBody = nil
				continue
			}
			if m := expectsRe.FindStringSubmatch(line); m != nil {
				code, _ := strconv.Atoi(m[1])
				fence.ExpectDiagnostic = code
			}
			fenceBody = append(fenceBody, line)
			continue
		}

		if m := fenceRe.FindStringSubmatch(line); m != nil {
			inFence = true
			fence = CodeBlock{
				Lang:    m[1],
				Line:    lineNo,
				Section: curSection,
			}
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			text := m[2]
			anchor := doc.anchors.Add(text)

			section := Section{
				Level:   level,
				Heading: text,
				Anchor:  anchor,
				Line:    lineNo,
			}
			doc.Sections = append(doc.Sections, section)
			curSection = anchor

			if level == 1 && doc.Title == "" {
				doc.Title = text
			}
			inTOC = strings.ToLower(text) == tocHeading
			continue
		}

		for _, m := range sameDocRe.FindAllStringSubmatch(line, -1) {
			if inTOC {
				doc.TOC = append(doc.TOC, TOCEntry{
					Text:     m[1],
					Fragment: m[2],
					Line:     lineNo,
				})
			} else {
				doc.RefLinks = append(doc.RefLinks, RefLink{
					Text:     m[1],
					Fragment: m[2],
					Line:     lineNo,
				})
			}
		}
	}

	if inFence {
		doc.Problems = append(doc.Problems, Problem{
			Line:    fence.Line,
			Message: "unclosed code fence",
		})
	}

	return doc, nil
}

// frontmatter wraps parsed YAML frontmatter values.
type frontmatter struct {
	values map[string]any
}

// extractFrontmatter parses YAML frontmatter and returns it with the
// remaining body.
func extractFrontmatter(content string) (frontmatter, string, error) {
	const delimiter = "---"

	start := len(delimiter)
	if len(content) > start && content[start] == '\r' {
		start++
	}
	if len(content) > start && content[start] == '\n' {
		start++
	}

	closeIdx := strings.Index(content[start:], "\n"+delimiter)
	if closeIdx == -1 {
		closeIdx = strings.Index(content[start:], "\r\n"+delimiter)
	}
	if closeIdx == -1 {
		return frontmatter{}, content, fmt.Errorf("no closing frontmatter delimiter")
	}

	yamlContent := content[start : start+closeIdx]

	bodyStart := start + closeIdx + 1 + len(delimiter)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}

	body := ""
	if bodyStart < len(content) {
		body = content[bodyStart:]
	}

	var values map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &values); err != nil {
		return frontmatter{}, content, fmt.Errorf("parse YAML frontmatter: %w", err)
	}

	return frontmatter{values: values}, body, nil
}
