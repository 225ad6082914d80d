package lint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/typeterms/typeterms/document"
)

// Config controls which rules a Checker runs.
type Config struct {
	// Rules lists enabled rule names. Empty means all rules.
	Rules []string `yaml:"rules,omitempty"`
}

// Checker runs lint rules over glossary documents.
type Checker struct {
	rules  []Rule
	logger *slog.Logger
}

// NewChecker creates a checker for the configured rules.
func NewChecker(cfg Config, logger *slog.Logger) (*Checker, error) {
	if logger == nil {
		logger = slog.Default()
	}

	names := cfg.Rules
	if len(names) == 0 {
		names = AllRules
	}

	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		r, err := ruleByName(name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return &Checker{rules: rules, logger: logger}, nil
}

// CheckDocument runs all configured rules over one parsed document.
// Structural parse problems are reported ahead of rule findings.
func (c *Checker) CheckDocument(ctx context.Context, doc *document.Document) []Diagnostic {
	var diags []Diagnostic

	for _, p := range doc.Problems {
		diags = append(diags, Diagnostic{
			Rule:     "document-structure",
			Severity: SeverityError,
			File:     doc.Path,
			Line:     p.Line,
			Message:  p.Message,
		})
	}

	for _, rule := range c.rules {
		found := rule.Check(ctx, doc)
		if len(found) > 0 {
			c.logger.Debug("Rule produced findings",
				"rule", rule.Name(),
				"file", doc.Path,
				"count", len(found))
		}
		diags = append(diags, found...)
	}
	return diags
}

// CheckFile reads, parses, and checks a single document.
func (c *Checker) CheckFile(ctx context.Context, path string) ([]Diagnostic, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc, err := document.Parse(path, content)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}

	return c.CheckDocument(ctx, doc), nil
}

// CheckGlobs resolves doublestar patterns to markdown files and checks
// each, returning a combined report.
func (c *Checker) CheckGlobs(ctx context.Context, patterns []string) (*Report, error) {
	files, err := resolveDocuments(patterns)
	if err != nil {
		return nil, err
	}

	report := NewReport(files)
	for _, f := range files {
		diags, err := c.CheckFile(ctx, f)
		if err != nil {
			return nil, err
		}
		report.Add(diags...)
	}
	report.Sort()

	errs, warns := report.Counts()
	c.logger.Info("Lint run complete",
		"report_id", report.ID,
		"files", len(files),
		"errors", errs,
		"warnings", warns)

	return report, nil
}

// resolveDocuments expands glob patterns to a sorted, deduplicated list
// of markdown files.
func resolveDocuments(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			ext := filepath.Ext(m)
			if ext != ".md" && ext != ".markdown" {
				continue
			}
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no documents match patterns %v", patterns)
	}
	sort.Strings(files)
	return files, nil
}
