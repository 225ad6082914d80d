package tscheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_ValidTypeScript(t *testing.T) {
	code := `
type NonNull<T> = T extends null | undefined ? never : T;

function isString(x: unknown): x is string {
  return typeof x === "string";
}

interface Shape {
  kind: "circle" | "square";
}
`
	diags, err := Check(context.Background(), []byte(code), "ts")
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestCheck_ValidTSX(t *testing.T) {
	code := `
const el = <div className="box">{label}</div>;
`
	diags, err := Check(context.Background(), []byte(code), "tsx")
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestCheck_SyntaxError(t *testing.T) {
	code := `type Broken = { name: string`

	diags, err := Check(context.Background(), []byte(code), "ts")
	require.NoError(t, err)
	require.NotEmpty(t, diags)
	assert.Equal(t, 1, diags[0].Line)
	assert.NotEmpty(t, diags[0].Message)
}

func TestCheck_TypeErrorIsNotSyntaxError(t *testing.T) {
	// Assignability violations are compiler semantics, out of scope here.
	code := `const n: number = "oops";`

	diags, err := Check(context.Background(), []byte(code), "ts")
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestCheck_UnsupportedLanguage(t *testing.T) {
	_, err := Check(context.Background(), []byte("print('hi')"), "python")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestSupports(t *testing.T) {
	assert.True(t, Supports("ts"))
	assert.True(t, Supports("TypeScript"))
	assert.True(t, Supports("tsx"))
	assert.False(t, Supports("js"))
	assert.False(t, Supports(""))
}

func TestScanMarkers(t *testing.T) {
	code := `const n: number = "oops";
// expects error TS2322
let x;
// expects error ts-2345
// expect error 2345
`
	m := ScanMarkers(code)
	assert.Equal(t, []int{2322}, m.Codes)
	assert.Equal(t, []int{4, 5}, m.Malformed)
}

func TestScanMarkers_None(t *testing.T) {
	m := ScanMarkers("const x = 1;\n// a normal comment\n")
	assert.Empty(t, m.Codes)
	assert.Empty(t, m.Malformed)
}
