package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/typeterms/typeterms/glossary"
)

// DefaultUserAgent identifies the importer to fetched sites.
const DefaultUserAgent = "typeterms-importer/1.0"

// defaultMaxContentSize bounds fetched page size (4 MB).
const defaultMaxContentSize = 4 << 20

// Importer drafts glossary entries from web pages.
type Importer struct {
	fetcher   *Fetcher
	converter *Converter
}

// New creates an importer with default fetch limits.
func New(timeout time.Duration) *Importer {
	return &Importer{
		fetcher:   NewFetcher(timeout, DefaultUserAgent, defaultMaxContentSize),
		converter: NewConverter(),
	}
}

// Draft fetches a page and produces a draft entry. The page title becomes
// the term and the converted markdown the definition skeleton; the human
// author trims both before the entry joins the glossary.
func (i *Importer) Draft(ctx context.Context, pageURL string) (*glossary.Entry, error) {
	result, err := i.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	converted, err := i.converter.Convert(result.Body, pageURL)
	if err != nil {
		return nil, err
	}

	term := converted.Title
	if term == "" {
		term = ExtractDomain(pageURL)
	}
	if term == "" {
		return nil, fmt.Errorf("could not derive a term from %s", pageURL)
	}

	return &glossary.Entry{
		Term:       term,
		Definition: converted.Markdown,
		Source:     pageURL,
	}, nil
}

// WriteDraft writes an entry as a YAML draft file under dir and returns
// the file path. The filename is derived from the term.
func WriteDraft(dir string, e *glossary.Entry) (string, error) {
	slug := Slug(e.Term)
	if slug == "" {
		return "", fmt.Errorf("entry term %q produces an empty slug", e.Term)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create drafts directory: %w", err)
	}

	data, err := yaml.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}

	path := filepath.Join(dir, slug+".yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("draft already exists: %s", path)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write draft: %w", err)
	}
	return path, nil
}
