// Package lint implements the documentation checks for the glossary:
// table-of-contents resolution, cross-reference resolution, anchor
// uniqueness, fence language tags, example syntax, and term ordering.
package lint

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityError indicates a violation that fails the lint run.
	SeverityError Severity = "error"

	// SeverityWarning indicates a violation that should be addressed
	// but does not fail the run.
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single lint finding.
type Diagnostic struct {
	// Rule is the name of the rule that produced the finding.
	Rule string `json:"rule"`

	// Severity is the finding's severity.
	Severity Severity `json:"severity"`

	// File is the document path.
	File string `json:"file"`

	// Line is the 1-based line number, zero when not line-scoped.
	Line int `json:"line,omitempty"`

	// Message describes the finding.
	Message string `json:"message"`
}

// String formats the diagnostic in file:line style.
func (d Diagnostic) String() string {
	loc := d.File
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", d.File, d.Line)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", loc, d.Severity, d.Message, d.Rule)
}

// Report is the outcome of one lint run.
type Report struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// CreatedAt is when the run finished.
	CreatedAt time.Time `json:"created_at"`

	// Files lists the documents checked.
	Files []string `json:"files"`

	// Diagnostics lists all findings, ordered by file then line.
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewReport creates an empty report with a fresh ID.
func NewReport(files []string) *Report {
	return &Report{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Files:     files,
	}
}

// Add appends diagnostics to the report.
func (r *Report) Add(diags ...Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, diags...)
}

// Sort orders diagnostics by file, then line, then rule.
func (r *Report) Sort() {
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		a, b := r.Diagnostics[i], r.Diagnostics[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Rule < b.Rule
	})
}

// Counts returns the number of error and warning diagnostics.
func (r *Report) Counts() (errors, warnings int) {
	for _, d := range r.Diagnostics {
		switch d.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// HasErrors reports whether any error-severity diagnostic is present.
func (r *Report) HasErrors() bool {
	errs, _ := r.Counts()
	return errs > 0
}

// Text renders the report for terminal output.
func (r *Report) Text() string {
	var sb strings.Builder
	for _, d := range r.Diagnostics {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	errs, warns := r.Counts()
	if len(r.Diagnostics) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("%d file(s) checked: %d error(s), %d warning(s)\n",
		len(r.Files), errs, warns))
	return sb.String()
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
