// Package tscheck provides syntax-level checking of TypeScript code
// examples using tree-sitter. It verifies that snippets parse and that
// expected-diagnostic markers are well-formed; it is not a type checker
// and performs no semantic analysis.
package tscheck

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// maxSnippetBytes bounds example size; glossary snippets are short and a
// runaway fence should fail loudly instead of stalling the parser.
const maxSnippetBytes = 64 * 1024

// Pre-compiled marker patterns. The strict form is what the renderer
// emits; the loose form catches markers that a human mistyped.
var (
	strictMarkerRe = regexp.MustCompile(`^\s*//\s*expects error TS(\d+)\s*$`)
	looseMarkerRe  = regexp.MustCompile(`(?i)//.*expects?\s+error`)
)

// Diagnostic is a syntax problem found in a snippet.
type Diagnostic struct {
	// Line is the 1-based line within the snippet.
	Line int

	// Column is the 1-based column within the line.
	Column int

	// Message describes the problem.
	Message string
}

// String formats the diagnostic for human output.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Supports reports whether the given fence language tag is checkable.
func Supports(lang string) bool {
	switch strings.ToLower(lang) {
	case "ts", "typescript", "tsx":
		return true
	default:
		return false
	}
}

// language returns the tree-sitter grammar for a fence language tag.
func language(lang string) *sitter.Language {
	if strings.ToLower(lang) == "tsx" {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

// Check parses a snippet and returns syntax diagnostics derived from
// ERROR and MISSING nodes in the parse tree. A nil slice means the
// snippet is syntactically well-formed.
func Check(ctx context.Context, code []byte, lang string) ([]Diagnostic, error) {
	if !Supports(lang) {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	if len(code) > maxSnippetBytes {
		return nil, fmt.Errorf("snippet too large (%d bytes, max %d)", len(code), maxSnippetBytes)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(language(lang))

	tree, err := parser.ParseCtx(ctx, nil, code)
	if err != nil {
		return nil, fmt.Errorf("parse snippet: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}

	var diags []Diagnostic
	collectErrors(root, code, &diags)
	return diags, nil
}

// collectErrors walks the tree gathering ERROR and MISSING nodes.
// Children of an ERROR node are skipped so one malformed region produces
// one diagnostic.
func collectErrors(node *sitter.Node, code []byte, diags *[]Diagnostic) {
	if node.IsError() {
		*diags = append(*diags, Diagnostic{
			Line:    int(node.StartPoint().Row) + 1,
			Column:  int(node.StartPoint().Column) + 1,
			Message: fmt.Sprintf("syntax error near %q", truncate(node.Content(code), 40)),
		})
		return
	}
	if node.IsMissing() {
		*diags = append(*diags, Diagnostic{
			Line:    int(node.StartPoint().Row) + 1,
			Column:  int(node.StartPoint().Column) + 1,
			Message: fmt.Sprintf("missing %s", node.Type()),
		})
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectErrors(node.Child(i), code, diags)
	}
}

// Markers summarizes expected-diagnostic markers found in a snippet.
type Markers struct {
	// Codes lists well-formed diagnostic codes in marker order.
	Codes []int

	// Malformed lists 1-based snippet lines that look like a marker but
	// do not carry a valid "TS<number>" code.
	Malformed []int
}

// ScanMarkers extracts "// expects error TS<code>" markers from a snippet.
func ScanMarkers(code string) Markers {
	var m Markers
	for i, line := range strings.Split(code, "\n") {
		if match := strictMarkerRe.FindStringSubmatch(line); match != nil {
			n, _ := strconv.Atoi(match[1])
			m.Codes = append(m.Codes, n)
			continue
		}
		if looseMarkerRe.MatchString(line) {
			m.Malformed = append(m.Malformed, i+1)
		}
	}
	return m
}

// truncate shortens a string for inclusion in a message.
func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
