// Package glossary provides the entry model and registry for the
// TypeScript type-system glossary.
package glossary

import (
	"fmt"
	"strings"
)

// Category classifies a glossary entry into one of the document's
// top-level sections.
type Category string

const (
	// CategoryTypes covers type constructors and type operators
	// (union, intersection, conditional, mapped types).
	CategoryTypes Category = "types"

	// CategoryNarrowing covers control-flow analysis terms
	// (narrowing, type guards, type predicates, discriminated unions).
	CategoryNarrowing Category = "narrowing"

	// CategoryGenerics covers type parameters, constraints, and inference.
	CategoryGenerics Category = "generics"

	// CategoryDeclarations covers ambient declarations, declaration files,
	// and module augmentation.
	CategoryDeclarations Category = "declarations"

	// CategoryCompiler covers compiler-facing vocabulary
	// (diagnostics, erasure, structural typing).
	CategoryCompiler Category = "compiler"
)

// CategoryOrder lists the categories in document order.
// The renderer and the term-order lint rule both depend on this ordering.
var CategoryOrder = []Category{
	CategoryTypes,
	CategoryNarrowing,
	CategoryGenerics,
	CategoryDeclarations,
	CategoryCompiler,
}

// CategoryTitles maps each category to its section heading text.
var CategoryTitles = map[Category]string{
	CategoryTypes:        "Types and type operators",
	CategoryNarrowing:    "Narrowing and control flow",
	CategoryGenerics:     "Generics and inference",
	CategoryDeclarations: "Declarations and modules",
	CategoryCompiler:     "Compiler and diagnostics",
}

// IsValid reports whether the category is one of the known sections.
func (c Category) IsValid() bool {
	_, ok := CategoryTitles[c]
	return ok
}

// Example is an illustrative code snippet attached to an entry.
type Example struct {
	// Code is the snippet body, without the surrounding fence.
	Code string `json:"code" yaml:"code"`

	// Lang is the fence language tag. Defaults to "ts".
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty"`

	// Caption is an optional one-line description shown above the fence.
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`

	// ExpectDiagnostic is the TypeScript diagnostic code this example
	// claims to produce (e.g. 2322). Zero means the example claims to
	// compile cleanly.
	ExpectDiagnostic int `json:"expect_diagnostic,omitempty" yaml:"expect_diagnostic,omitempty"`
}

// EffectiveLang returns the fence language tag, applying the default.
func (e Example) EffectiveLang() string {
	if e.Lang == "" {
		return "ts"
	}
	return e.Lang
}

// Entry is a single glossary entry: a term, its definition, illustrative
// examples, and cross-references to other terms.
type Entry struct {
	// Term is the canonical name (e.g. "Conditional type").
	Term string `json:"term" yaml:"term"`

	// Aliases are alternative names that resolve to this entry
	// (e.g. "distributive conditional type").
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	// Category places the entry in a document section.
	// Defaults to CategoryTypes when empty.
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`

	// Definition is the markdown prose body of the entry.
	Definition string `json:"definition" yaml:"definition"`

	// Examples are illustrative code snippets.
	Examples []Example `json:"examples,omitempty" yaml:"examples,omitempty"`

	// SeeAlso lists cross-referenced terms. Every reference must resolve
	// to an existing entry's term, alias, or anchor.
	SeeAlso []string `json:"see_also,omitempty" yaml:"see_also,omitempty"`

	// Source is the URL the entry was drafted from, if any.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// EffectiveCategory returns the entry's category, applying the default.
func (e *Entry) EffectiveCategory() Category {
	if e.Category == "" {
		return CategoryTypes
	}
	return e.Category
}

// Anchor returns the GitHub-style anchor fragment for the entry's term.
func (e *Entry) Anchor() string {
	return AnchorFor(e.Term)
}

// Validate checks the entry's internal consistency.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Term) == "" {
		return fmt.Errorf("entry term is required")
	}
	if strings.TrimSpace(e.Definition) == "" {
		return fmt.Errorf("entry %q: definition is required", e.Term)
	}
	if e.Category != "" && !e.Category.IsValid() {
		return fmt.Errorf("entry %q: unknown category %q", e.Term, e.Category)
	}
	for _, alias := range e.Aliases {
		if strings.TrimSpace(alias) == "" {
			return fmt.Errorf("entry %q: empty alias", e.Term)
		}
		if strings.EqualFold(alias, e.Term) {
			return fmt.Errorf("entry %q: alias duplicates the term", e.Term)
		}
	}
	for _, ref := range e.SeeAlso {
		if strings.TrimSpace(ref) == "" {
			return fmt.Errorf("entry %q: empty see_also reference", e.Term)
		}
		if strings.EqualFold(ref, e.Term) {
			return fmt.Errorf("entry %q: see_also references itself", e.Term)
		}
	}
	for i, ex := range e.Examples {
		if strings.TrimSpace(ex.Code) == "" {
			return fmt.Errorf("entry %q: example %d has no code", e.Term, i+1)
		}
		if ex.ExpectDiagnostic < 0 {
			return fmt.Errorf("entry %q: example %d has negative diagnostic code", e.Term, i+1)
		}
	}
	return nil
}
