package glossary

import (
	"fmt"
	"strings"
	"unicode"
)

// AnchorFor computes the GitHub-style anchor fragment for a heading.
// Lowercase letters, digits, hyphens, and underscores are kept; spaces
// become hyphens; everything else is dropped. This must match the
// fragment generator of common markdown renderers or the document's
// table of contents breaks.
func AnchorFor(heading string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(heading)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == '-' || r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('-')
		}
	}
	return sb.String()
}

// AnchorSet tracks anchors seen so far and disambiguates duplicates the
// way GitHub does: the second occurrence of an anchor gets a "-1" suffix,
// the third "-2", and so on.
type AnchorSet struct {
	seen map[string]int
}

// NewAnchorSet creates an empty anchor set.
func NewAnchorSet() *AnchorSet {
	return &AnchorSet{seen: make(map[string]int)}
}

// Add computes the deduplicated anchor for a heading and records it.
func (s *AnchorSet) Add(heading string) string {
	base := AnchorFor(heading)
	n, dup := s.seen[base]
	s.seen[base] = n + 1
	if !dup {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// Contains reports whether an anchor (in its deduplicated form) was added.
func (s *AnchorSet) Contains(anchor string) bool {
	if _, ok := s.seen[anchor]; ok {
		return true
	}
	// Deduplicated forms like "foo-1" exist when "foo" was seen at least twice.
	idx := strings.LastIndex(anchor, "-")
	if idx <= 0 {
		return false
	}
	var n int
	if _, err := fmt.Sscanf(anchor[idx+1:], "%d", &n); err != nil {
		return false
	}
	count, ok := s.seen[anchor[:idx]]
	return ok && n >= 1 && n < count
}
