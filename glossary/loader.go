package glossary

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// LoadFile parses a single entry YAML file.
func LoadFile(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entry file: %w", err)
	}

	var e Entry
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parse entry file %s: %w", path, err)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("entry file %s: %w", path, err)
	}
	return &e, nil
}

// LoadGlobs builds a registry from entry files matching the given
// doublestar glob patterns (e.g. "terms/**/*.yaml"). Files are loaded in
// sorted path order so duplicate-key errors are deterministic.
func LoadGlobs(patterns []string) (*Registry, error) {
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
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no entry files match patterns %v", patterns)
	}
	sort.Strings(files)

	reg := NewRegistry()
	for _, f := range files {
		e, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		if err := reg.Add(e); err != nil {
			return nil, fmt.Errorf("entry file %s: %w", f, err)
		}
	}
	return reg, nil
}
