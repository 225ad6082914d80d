package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeterms/typeterms/document"
)

func parseDoc(t *testing.T, content string) *document.Document {
	t.Helper()
	doc, err := document.Parse("GLOSSARY.md", []byte(content))
	require.NoError(t, err)
	return doc
}

func TestTOCResolvesRule(t *testing.T) {
	doc := parseDoc(t, `# Title

## Table of contents

- [Type guard](#type-guard)
- [Mapped type](#mapped-type)

## Narrowing and control flow

### Type guard

body
`)
	diags := tocResolvesRule{}.Check(context.Background(), doc)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "#mapped-type")
	assert.Equal(t, 6, diags[0].Line)
}

func TestCrossrefResolvesRule(t *testing.T) {
	doc := parseDoc(t, `# Title

## Narrowing and control flow

### Type guard

See also: [Type predicate](#type-predicate).
`)
	diags := crossrefResolvesRule{}.Check(context.Background(), doc)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "#type-predicate")
}

func TestAnchorUniqueRule(t *testing.T) {
	doc := parseDoc(t, `# Title

### Mapped type

first

### Mapped type

second
`)
	diags := anchorUniqueRule{}.Check(context.Background(), doc)
	require.Len(t, diags, 1)
	assert.Equal(t, 7, diags[0].Line)
	assert.Contains(t, diags[0].Message, "duplicates the heading on line 3")
}

func TestFenceLanguageRule(t *testing.T) {
	doc := parseDoc(t, "# Title\n\n```\nuntagged\n```\n\n```ts\nconst x = 1;\n```\n")

	diags := fenceLanguageRule{}.Check(context.Background(), doc)
	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Line)
}

func TestExampleSyntaxRule_CleanSnippet(t *testing.T) {
	doc := parseDoc(t, "# Title\n\n```ts\ntype A = string | number;\n```\n")

	diags := exampleSyntaxRule{}.Check(context.Background(), doc)
	assert.Empty(t, diags)
}

func TestExampleSyntaxRule_SyntaxError(t *testing.T) {
	doc := parseDoc(t, "# Title\n\n```ts\ntype Broken = {\n```\n")

	diags := exampleSyntaxRule{}.Check(context.Background(), doc)
	require.NotEmpty(t, diags)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, RuleExampleSyntax, diags[0].Rule)
}

func TestExampleSyntaxRule_ExpectedDiagnosticExempt(t *testing.T) {
	doc := parseDoc(t, "# Title\n\n```ts\nconst n: number = \"oops\";\n// expects error TS2322\n```\n")

	diags := exampleSyntaxRule{}.Check(context.Background(), doc)
	assert.Empty(t, diags)
}

func TestExampleSyntaxRule_MalformedMarker(t *testing.T) {
	doc := parseDoc(t, "# Title\n\n```ts\nconst x = 1;\n// expect error 2345\n```\n")

	diags := exampleSyntaxRule{}.Check(context.Background(), doc)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "malformed diagnostic marker")
	// Marker sits on snippet line 2; fence opens on document line 3.
	assert.Equal(t, 5, diags[0].Line)
}

func TestExampleSyntaxRule_SkipsNonTypeScript(t *testing.T) {
	doc := parseDoc(t, "# Title\n\n```json\n{ not valid json\n```\n")

	diags := exampleSyntaxRule{}.Check(context.Background(), doc)
	assert.Empty(t, diags)
}

func TestTermOrderRule(t *testing.T) {
	doc := parseDoc(t, `# Title

## Types and type operators

### Union type

body

### Conditional type

body

## Narrowing and control flow

### Narrowing

body

### Type guard

body
`)
	diags := termOrderRule{}.Check(context.Background(), doc)
	require.Len(t, diags, 1)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, `"Conditional type"`)
}

func TestRuleByName_Unknown(t *testing.T) {
	_, err := ruleByName("no-such-rule")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lint rule")
}
