package glossary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr string
	}{
		{
			name:  "valid minimal entry",
			entry: Entry{Term: "Union type", Definition: "A type formed from two or more other types."},
		},
		{
			name:    "missing term",
			entry:   Entry{Definition: "orphan definition"},
			wantErr: "term is required",
		},
		{
			name:    "missing definition",
			entry:   Entry{Term: "Mapped type"},
			wantErr: "definition is required",
		},
		{
			name:    "unknown category",
			entry:   Entry{Term: "Keyof", Definition: "d", Category: "runtime"},
			wantErr: "unknown category",
		},
		{
			name:    "alias duplicates term",
			entry:   Entry{Term: "Type guard", Definition: "d", Aliases: []string{"type GUARD"}},
			wantErr: "alias duplicates the term",
		},
		{
			name:    "self referential see_also",
			entry:   Entry{Term: "Narrowing", Definition: "d", SeeAlso: []string{"narrowing"}},
			wantErr: "references itself",
		},
		{
			name:    "example without code",
			entry:   Entry{Term: "Infer", Definition: "d", Examples: []Example{{Code: "   "}}},
			wantErr: "has no code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEntry_Defaults(t *testing.T) {
	e := Entry{Term: "Conditional type", Definition: "d"}

	assert.Equal(t, CategoryTypes, e.EffectiveCategory())
	assert.Equal(t, "conditional-type", e.Anchor())

	ex := Example{Code: "type A = 1"}
	assert.Equal(t, "ts", ex.EffectiveLang())
}
