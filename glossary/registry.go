package glossary

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds glossary entries and resolves cross-references.
// All lookups are case-insensitive and accept a term, an alias, or an
// anchor fragment.
type Registry struct {
	mu      sync.RWMutex
	entries []*Entry
	byKey   map[string]*Entry // lowercased term, alias, and anchor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[string]*Entry),
	}
}

// Add validates an entry and adds it to the registry.
// Duplicate terms, aliases, or anchors are rejected.
func (r *Registry) Add(e *Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := []string{strings.ToLower(e.Term), e.Anchor()}
	for _, alias := range e.Aliases {
		keys = append(keys, strings.ToLower(alias), AnchorFor(alias))
	}

	for _, key := range keys {
		if existing, ok := r.byKey[key]; ok && existing != e {
			return fmt.Errorf("entry %q: key %q already registered by %q", e.Term, key, existing.Term)
		}
	}

	for _, key := range keys {
		r.byKey[key] = e
	}
	r.entries = append(r.entries, e)
	return nil
}

// Resolve looks up an entry by term, alias, or anchor.
func (r *Registry) Resolve(ref string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref = strings.TrimSpace(ref)
	if e, ok := r.byKey[strings.ToLower(ref)]; ok {
		return e, true
	}
	if e, ok := r.byKey[AnchorFor(ref)]; ok {
		return e, true
	}
	return nil, false
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns all entries sorted by category order, then by term.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	r.mu.RUnlock()

	rank := make(map[Category]int, len(CategoryOrder))
	for i, c := range CategoryOrder {
		rank[c] = i
	}

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := rank[out[i].EffectiveCategory()], rank[out[j].EffectiveCategory()]
		if ci != cj {
			return ci < cj
		}
		return strings.ToLower(out[i].Term) < strings.ToLower(out[j].Term)
	})
	return out
}

// ByCategory returns entries for one category, sorted by term.
func (r *Registry) ByCategory(c Category) []*Entry {
	var out []*Entry
	for _, e := range r.Entries() {
		if e.EffectiveCategory() == c {
			out = append(out, e)
		}
	}
	return out
}

// RefError describes an unresolvable cross-reference.
type RefError struct {
	// Term is the entry holding the broken reference.
	Term string

	// Ref is the reference that did not resolve.
	Ref string
}

// Error implements the error interface.
func (e RefError) Error() string {
	return fmt.Sprintf("entry %q: see_also %q does not resolve to any entry", e.Term, e.Ref)
}

// Validate enforces the cross-reference invariant: every SeeAlso of every
// entry resolves to an existing entry. All violations are returned, not
// just the first.
func (r *Registry) Validate() []RefError {
	var errs []RefError
	for _, e := range r.Entries() {
		for _, ref := range e.SeeAlso {
			if _, ok := r.Resolve(ref); !ok {
				errs = append(errs, RefError{Term: e.Term, Ref: ref})
			}
		}
	}
	return errs
}
