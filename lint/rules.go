package lint

import (
	"context"
	"fmt"
	"strings"

	"github.com/typeterms/typeterms/document"
	"github.com/typeterms/typeterms/glossary"
	"github.com/typeterms/typeterms/tscheck"
)

// Rule names, used in config toggles and diagnostic output.
const (
	RuleTOCResolves      = "toc-resolves"
	RuleCrossrefResolves = "crossref-resolves"
	RuleAnchorUnique     = "anchor-unique"
	RuleFenceLanguage    = "fence-language"
	RuleExampleSyntax    = "example-syntax"
	RuleTermOrder        = "term-order"
)

// AllRules lists every rule in execution order.
var AllRules = []string{
	RuleTOCResolves,
	RuleCrossrefResolves,
	RuleAnchorUnique,
	RuleFenceLanguage,
	RuleExampleSyntax,
	RuleTermOrder,
}

// Rule checks one parsed document and returns findings.
type Rule interface {
	// Name returns the rule identifier.
	Name() string

	// Check runs the rule against a parsed document.
	Check(ctx context.Context, doc *document.Document) []Diagnostic
}

// ruleByName constructs a rule from its name.
func ruleByName(name string) (Rule, error) {
	switch name {
	case RuleTOCResolves:
		return tocResolvesRule{}, nil
	case RuleCrossrefResolves:
		return crossrefResolvesRule{}, nil
	case RuleAnchorUnique:
		return anchorUniqueRule{}, nil
	case RuleFenceLanguage:
		return fenceLanguageRule{}, nil
	case RuleExampleSyntax:
		return exampleSyntaxRule{}, nil
	case RuleTermOrder:
		return termOrderRule{}, nil
	default:
		return nil, fmt.Errorf("unknown lint rule: %s", name)
	}
}

// tocResolvesRule verifies every table-of-contents link targets a heading
// present in the document.
type tocResolvesRule struct{}

func (tocResolvesRule) Name() string { return RuleTOCResolves }

func (tocResolvesRule) Check(_ context.Context, doc *document.Document) []Diagnostic {
	var diags []Diagnostic
	for _, toc := range doc.TOC {
		if !doc.HasAnchor(toc.Fragment) {
			diags = append(diags, Diagnostic{
				Rule:     RuleTOCResolves,
				Severity: SeverityError,
				File:     doc.Path,
				Line:     toc.Line,
				Message:  fmt.Sprintf("table of contents link %q targets missing anchor #%s", toc.Text, toc.Fragment),
			})
		}
	}
	return diags
}

// crossrefResolvesRule verifies every same-document cross-reference link
// targets a heading present in the document.
type crossrefResolvesRule struct{}

func (crossrefResolvesRule) Name() string { return RuleCrossrefResolves }

func (crossrefResolvesRule) Check(_ context.Context, doc *document.Document) []Diagnostic {
	var diags []Diagnostic
	for _, ref := range doc.RefLinks {
		if !doc.HasAnchor(ref.Fragment) {
			diags = append(diags, Diagnostic{
				Rule:     RuleCrossrefResolves,
				Severity: SeverityError,
				File:     doc.Path,
				Line:     ref.Line,
				Message:  fmt.Sprintf("cross-reference %q targets missing anchor #%s", ref.Text, ref.Fragment),
			})
		}
	}
	return diags
}

// anchorUniqueRule flags headings whose text collides with an earlier
// heading. Renderers disambiguate with numeric suffixes, but a duplicated
// term heading is an authoring mistake in a glossary.
type anchorUniqueRule struct{}

func (anchorUniqueRule) Name() string { return RuleAnchorUnique }

func (anchorUniqueRule) Check(_ context.Context, doc *document.Document) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[string]int) // base anchor -> first line
	for _, s := range doc.Sections {
		base := glossary.AnchorFor(s.Heading)
		if first, ok := seen[base]; ok {
			diags = append(diags, Diagnostic{
				Rule:     RuleAnchorUnique,
				Severity: SeverityError,
				File:     doc.Path,
				Line:     s.Line,
				Message:  fmt.Sprintf("heading %q duplicates the heading on line %d", s.Heading, first),
			})
			continue
		}
		seen[base] = s.Line
	}
	return diags
}

// fenceLanguageRule requires every fenced code block to carry a language
// tag so external renderers can highlight it.
type fenceLanguageRule struct{}

func (fenceLanguageRule) Name() string { return RuleFenceLanguage }

func (fenceLanguageRule) Check(_ context.Context, doc *document.Document) []Diagnostic {
	var diags []Diagnostic
	for _, cb := range doc.CodeBlocks {
		if cb.Lang == "" {
			diags = append(diags, Diagnostic{
				Rule:     RuleFenceLanguage,
				Severity: SeverityError,
				File:     doc.Path,
				Line:     cb.Line,
				Message:  "fenced code block has no language tag",
			})
		}
	}
	return diags
}

// exampleSyntaxRule checks TypeScript fences: snippets claiming to be
// valid must parse cleanly under tree-sitter; snippets claiming a
// diagnostic must carry a well-formed TS<code> marker and are exempt
// from the clean-parse requirement.
type exampleSyntaxRule struct{}

func (exampleSyntaxRule) Name() string { return RuleExampleSyntax }

func (exampleSyntaxRule) Check(ctx context.Context, doc *document.Document) []Diagnostic {
	var diags []Diagnostic
	for _, cb := range doc.CodeBlocks {
		if !tscheck.Supports(cb.Lang) {
			continue
		}

		markers := tscheck.ScanMarkers(cb.Code)
		for _, line := range markers.Malformed {
			diags = append(diags, Diagnostic{
				Rule:     RuleExampleSyntax,
				Severity: SeverityError,
				File:     doc.Path,
				Line:     cb.Line + line,
				Message:  "malformed diagnostic marker; expected \"// expects error TS<code>\"",
			})
		}

		// A snippet claiming a diagnostic is exempt from clean parsing:
		// the claimed error may itself be syntactic.
		if cb.ExpectDiagnostic > 0 || len(markers.Codes) > 0 {
			continue
		}

		syntaxDiags, err := tscheck.Check(ctx, []byte(cb.Code), cb.Lang)
		if err != nil {
			diags = append(diags, Diagnostic{
				Rule:     RuleExampleSyntax,
				Severity: SeverityError,
				File:     doc.Path,
				Line:     cb.Line,
				Message:  fmt.Sprintf("example check failed: %v", err),
			})
			continue
		}
		for _, sd := range syntaxDiags {
			diags = append(diags, Diagnostic{
				Rule:     RuleExampleSyntax,
				Severity: SeverityError,
				File:     doc.Path,
				Line:     cb.Line + sd.Line,
				Message:  sd.Message,
			})
		}
	}
	return diags
}

// termOrderRule warns when entry headings within a category section are
// not in alphabetical order.
type termOrderRule struct{}

func (termOrderRule) Name() string { return RuleTermOrder }

func (termOrderRule) Check(_ context.Context, doc *document.Document) []Diagnostic {
	var diags []Diagnostic
	var prev string
	for _, s := range doc.Sections {
		switch s.Level {
		case 2:
			prev = ""
		case 3:
			term := strings.ToLower(s.Heading)
			if prev != "" && term < prev {
				diags = append(diags, Diagnostic{
					Rule:     RuleTermOrder,
					Severity: SeverityWarning,
					File:     doc.Path,
					Line:     s.Line,
					Message:  fmt.Sprintf("entry %q is out of alphabetical order", s.Heading),
				})
			}
			prev = term
		}
	}
	return diags
}
