package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/typeterms/typeterms/glossary"
	"github.com/typeterms/typeterms/lint"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// lintTimeout bounds a single lint request.
const lintTimeout = 2 * time.Minute

// TermSummary is the list-view shape of a glossary entry.
type TermSummary struct {
	Term     string            `json:"term"`
	Anchor   string            `json:"anchor"`
	Category glossary.Category `json:"category"`
	Aliases  []string          `json:"aliases,omitempty"`
}

// LintRequest is the body of POST /api/lint.
type LintRequest struct {
	// Documents are glob patterns to check. Empty uses the server's
	// configured documents.
	Documents []string `json:"documents,omitempty"`
}

// ----------------------------------------------------------------------------
// GET /api/terms
// ----------------------------------------------------------------------------

// handleTerms lists all entries in document order.
func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := s.registry.Entries()
	summaries := make([]TermSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, TermSummary{
			Term:     e.Term,
			Anchor:   e.Anchor(),
			Category: e.EffectiveCategory(),
			Aliases:  e.Aliases,
		})
	}

	writeJSON(w, http.StatusOK, summaries)
}

// ----------------------------------------------------------------------------
// GET /api/terms/{anchor}
// ----------------------------------------------------------------------------

// handleTerm returns one entry. The path segment may be a term, an alias,
// or an anchor; resolution is case-insensitive.
func (s *Server) handleTerm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ref := strings.TrimPrefix(r.URL.Path, "/api/terms/")
	if ref == "" || strings.Contains(ref, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	entry, ok := s.registry.Resolve(ref)
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// ----------------------------------------------------------------------------
// GET /api/report
// ----------------------------------------------------------------------------

// handleReport returns the most recent lint report. The persisted report
// wins over the in-memory one so restarts keep history when a store is
// configured.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.store != nil {
		report, err := s.store.LatestReport(r.Context())
		if err == nil {
			writeJSON(w, http.StatusOK, report)
			return
		}
		s.logger.Debug("No persisted report", slog.String("error", err.Error()))
	}

	s.mu.RLock()
	report := s.lastReport
	s.mu.RUnlock()

	if report == nil {
		http.Error(w, "No lint report yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ----------------------------------------------------------------------------
// POST /api/lint
// ----------------------------------------------------------------------------

// handleLint runs the configured rules and returns the report.
func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req LintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	documents := req.Documents
	if len(documents) == 0 {
		documents = s.documents
	}
	if len(documents) == 0 {
		http.Error(w, "No documents configured", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), lintTimeout)
	defer cancel()

	report, err := s.checker.CheckGlobs(ctx, documents)
	if err != nil {
		lintRunsTotal.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.recordReport(ctx, report)
	writeJSON(w, http.StatusOK, report)
}

// recordReport updates metrics, the in-memory report, and the store.
func (s *Server) recordReport(ctx context.Context, report *lint.Report) {
	errs, warns := report.Counts()
	if len(report.Diagnostics) == 0 {
		lintRunsTotal.WithLabelValues("clean").Inc()
	} else {
		lintRunsTotal.WithLabelValues("findings").Inc()
	}
	lintDiagnostics.WithLabelValues(string(lint.SeverityError)).Set(float64(errs))
	lintDiagnostics.WithLabelValues(string(lint.SeverityWarning)).Set(float64(warns))

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	if s.store != nil {
		if _, err := s.store.SaveReport(ctx, report); err != nil {
			s.logger.Warn("Failed to persist lint report",
				slog.String("report_id", report.ID),
				slog.String("error", err.Error()))
		}
	}
}

// ----------------------------------------------------------------------------
// GET /healthz
// ----------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": s.registry.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response is already partially written; nothing useful to do.
		_ = err
	}
}
