package glossary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntry(term string, cat Category, seeAlso ...string) *Entry {
	return &Entry{
		Term:       term,
		Category:   cat,
		Definition: "definition of " + term,
		SeeAlso:    seeAlso,
	}
}

func TestRegistry_AddAndResolve(t *testing.T) {
	reg := NewRegistry()

	e := testEntry("Discriminated union", CategoryNarrowing)
	e.Aliases = []string{"tagged union"}
	require.NoError(t, reg.Add(e))

	// Resolve by term, alias, and anchor, case-insensitively.
	for _, ref := range []string{
		"Discriminated union",
		"discriminated UNION",
		"tagged union",
		"discriminated-union",
		"Tagged Union",
	} {
		got, ok := reg.Resolve(ref)
		require.True(t, ok, "ref %q", ref)
		assert.Equal(t, e, got)
	}

	_, ok := reg.Resolve("mapped type")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(testEntry("Type guard", CategoryNarrowing)))

	// Same term, different case.
	err := reg.Add(testEntry("type GUARD", CategoryNarrowing))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	// Alias colliding with an existing term.
	e := testEntry("Type predicate", CategoryNarrowing)
	e.Aliases = []string{"Type guard"}
	err = reg.Add(e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_EntriesOrder(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(testEntry("Narrowing", CategoryNarrowing)))
	require.NoError(t, reg.Add(testEntry("Union type", CategoryTypes)))
	require.NoError(t, reg.Add(testEntry("Conditional type", CategoryTypes)))
	require.NoError(t, reg.Add(testEntry("Ambient declaration", CategoryDeclarations)))

	var terms []string
	for _, e := range reg.Entries() {
		terms = append(terms, e.Term)
	}

	// Category order first (types before narrowing before declarations),
	// alphabetical within a category.
	assert.Equal(t, []string{
		"Conditional type",
		"Union type",
		"Narrowing",
		"Ambient declaration",
	}, terms)
}

func TestRegistry_ValidateCrossReferences(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Add(testEntry("Type guard", CategoryNarrowing, "type predicate")))
	require.NoError(t, reg.Add(testEntry("Type predicate", CategoryNarrowing, "type guard")))
	require.NoError(t, reg.Add(testEntry("Narrowing", CategoryNarrowing, "type guard", "control flow analysis")))

	errs := reg.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "Narrowing", errs[0].Term)
	assert.Equal(t, "control flow analysis", errs[0].Ref)
	assert.Contains(t, errs[0].Error(), "does not resolve")
}
