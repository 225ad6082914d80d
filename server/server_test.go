package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/typeterms/typeterms/document"
	"github.com/typeterms/typeterms/glossary"
	"github.com/typeterms/typeterms/lint"
	"github.com/typeterms/typeterms/storage"
)

// fakeStore records saved reports in memory.
type fakeStore struct {
	saved  []*lint.Report
	latest *lint.Report
}

func (f *fakeStore) SaveReport(_ context.Context, r *lint.Report) (storage.EntityID, error) {
	f.saved = append(f.saved, r)
	f.latest = r
	return storage.EntityID{Type: storage.EntityTypeReport, ID: r.ID}, nil
}

func (f *fakeStore) LatestReport(_ context.Context) (*lint.Report, error) {
	if f.latest == nil {
		return nil, storage.ErrNotFound
	}
	return f.latest, nil
}

// testRegistry builds a small glossary.
func testRegistry(t *testing.T) *glossary.Registry {
	t.Helper()
	reg := glossary.NewRegistry()
	entries := []*glossary.Entry{
		{
			Term:       "Union type",
			Aliases:    []string{"union"},
			Category:   glossary.CategoryTypes,
			Definition: "A type formed from two or more other types.",
			Examples: []glossary.Example{
				{Code: "type ID = string | number;"},
			},
			SeeAlso: []string{"Narrowing"},
		},
		{
			Term:       "Narrowing",
			Category:   glossary.CategoryNarrowing,
			Definition: "Refining a value's type within a branch of control flow.",
		},
	}
	for _, e := range entries {
		if err := reg.Add(e); err != nil {
			t.Fatalf("add entry %q: %v", e.Term, err)
		}
	}
	return reg
}

// setupTestServer renders the registry to a temp glossary document and
// wires a server whose default lint target is that document.
func setupTestServer(t *testing.T, store ReportStore) (*httptest.Server, string) {
	t.Helper()

	reg := testRegistry(t)
	rendered, err := document.NewRenderer("test").Render(reg)
	if err != nil {
		t.Fatalf("render glossary: %v", err)
	}

	dir := t.TempDir()
	docPath := filepath.Join(dir, "GLOSSARY.md")
	if err := os.WriteFile(docPath, []byte(rendered), 0644); err != nil {
		t.Fatalf("write glossary: %v", err)
	}

	checker, err := lint.NewChecker(lint.Config{}, slog.Default())
	if err != nil {
		t.Fatalf("create checker: %v", err)
	}

	s := New(Options{
		Addr:      ":0",
		Registry:  reg,
		Checker:   checker,
		Documents: []string{docPath},
		Store:     store,
		Logger:    slog.Default(),
	})

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, docPath
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if dst != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestHandleTerms(t *testing.T) {
	srv, _ := setupTestServer(t, nil)

	var terms []TermSummary
	resp := getJSON(t, srv.URL+"/api/terms", &terms)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	// Category order puts types before narrowing.
	if terms[0].Term != "Union type" {
		t.Errorf("expected Union type first, got %s", terms[0].Term)
	}
	if terms[0].Anchor != "union-type" {
		t.Errorf("unexpected anchor: %s", terms[0].Anchor)
	}
	if terms[1].Category != glossary.CategoryNarrowing {
		t.Errorf("unexpected category: %s", terms[1].Category)
	}
}

func TestHandleTerm(t *testing.T) {
	srv, _ := setupTestServer(t, nil)

	t.Run("by anchor", func(t *testing.T) {
		var entry glossary.Entry
		resp := getJSON(t, srv.URL+"/api/terms/union-type", &entry)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if entry.Term != "Union type" {
			t.Errorf("unexpected term: %s", entry.Term)
		}
	})

	t.Run("by alias", func(t *testing.T) {
		var entry glossary.Entry
		resp := getJSON(t, srv.URL+"/api/terms/union", &entry)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if entry.Term != "Union type" {
			t.Errorf("unexpected term: %s", entry.Term)
		}
	})

	t.Run("unknown term", func(t *testing.T) {
		resp := getJSON(t, srv.URL+"/api/terms/no-such-term", nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/terms/union-type", "application/json", nil)
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})
}

func TestHandleLint_CleanDocument(t *testing.T) {
	store := &fakeStore{}
	srv, _ := setupTestServer(t, store)

	resp, err := http.Post(srv.URL+"/api/lint", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST /api/lint: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var report lint.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Diagnostics) != 0 {
		t.Errorf("expected clean report, got %v", report.Diagnostics)
	}
	if len(store.saved) != 1 {
		t.Errorf("expected report persisted once, got %d", len(store.saved))
	}

	// The latest report is now served back.
	var latest lint.Report
	getResp := getJSON(t, srv.URL+"/api/report", &latest)
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.StatusCode)
	}
	if latest.ID != report.ID {
		t.Errorf("expected report %s, got %s", report.ID, latest.ID)
	}
}

func TestHandleLint_BrokenDocument(t *testing.T) {
	srv, docPath := setupTestServer(t, nil)

	// Break a cross-reference in the rendered document.
	content, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("read glossary: %v", err)
	}
	broken := bytes.Replace(content, []byte("(#narrowing)"), []byte("(#nonexistent)"), 1)
	if bytes.Equal(content, broken) {
		t.Fatal("expected to find a narrowing link to break")
	}
	if err := os.WriteFile(docPath, broken, 0644); err != nil {
		t.Fatalf("write glossary: %v", err)
	}

	resp, err := http.Post(srv.URL+"/api/lint", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST /api/lint: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var report lint.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Diagnostics) == 0 {
		t.Error("expected diagnostics for broken cross-reference")
	}
}

func TestHandleLint_NoDocumentsConfigured(t *testing.T) {
	checker, err := lint.NewChecker(lint.Config{}, slog.Default())
	if err != nil {
		t.Fatalf("create checker: %v", err)
	}
	s := New(Options{
		Addr:     ":0",
		Registry: testRegistry(t),
		Checker:  checker,
	})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/lint", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST /api/lint: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHandleReport_NoRuns(t *testing.T) {
	srv, _ := setupTestServer(t, nil)

	resp := getJSON(t, srv.URL+"/api/report", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := setupTestServer(t, nil)

	var health map[string]any
	resp := getJSON(t, srv.URL+"/healthz", &health)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if health["status"] != "ok" {
		t.Errorf("unexpected status: %v", health["status"])
	}
	if health["entries"] != float64(2) {
		t.Errorf("unexpected entry count: %v", health["entries"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := setupTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Contains(body, []byte("typeterms_glossary_entries")) {
		t.Error("expected typeterms_glossary_entries metric")
	}
}
