package glossary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnchorFor(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"Conditional type", "conditional-type"},
		{"Union / intersection type", "union--intersection-type"},
		{"keyof operator", "keyof-operator"},
		{"  Type narrowing  ", "type-narrowing"},
		{"What's a `type predicate`?", "whats-a-type-predicate"},
		{"Declaration files (.d.ts)", "declaration-files-dts"},
		{"C3-linearization_rule", "c3-linearization_rule"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AnchorFor(tt.heading), "heading %q", tt.heading)
	}
}

func TestAnchorSet_Deduplicates(t *testing.T) {
	s := NewAnchorSet()

	assert.Equal(t, "type-guard", s.Add("Type guard"))
	assert.Equal(t, "type-guard-1", s.Add("Type guard"))
	assert.Equal(t, "type-guard-2", s.Add("Type Guard"))
}

func TestAnchorSet_Contains(t *testing.T) {
	s := NewAnchorSet()
	s.Add("Mapped type")
	s.Add("Mapped type")

	assert.True(t, s.Contains("mapped-type"))
	assert.True(t, s.Contains("mapped-type-1"))
	assert.False(t, s.Contains("mapped-type-2"))
	assert.False(t, s.Contains("conditional-type"))
}
