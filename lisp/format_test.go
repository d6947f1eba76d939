package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFormat(t *testing.T, format string, args ...*LVal) (string, *LVal) {
	t.Helper()
	env := NewEnv(nil)
	return formatString(env, format, args)
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format string
		args   []*LVal
		want   string
	}{
		{"plain text", nil, "plain text"},
		{"%d monkeys", []*LVal{Number(5)}, "5 monkeys"},
		{"%s/%s", []*LVal{String("a"), String("b")}, "a/b"},
		{"%f", []*LVal{Number(1.5)}, "1.500000"},
		{"%.2f", []*LVal{Number(1.5)}, "1.50"},
		{"%01.2f", []*LVal{Number(3.14159)}, "3.14"},
		{"%05d", []*LVal{Number(42)}, "00042"},
		{"%-4d|", []*LVal{Number(7)}, "7   |"},
		{"%10s", []*LVal{String("hi")}, "        hi"},
		{"%x", []*LVal{Number(255)}, "ff"},
		{"%b", []*LVal{Number(5)}, "101"},
		{"100%%", nil, "100%"},
		{"The %2$s contains %1$d monkeys", []*LVal{Number(5), String("tree")},
			"The tree contains 5 monkeys"},
		{"%1$s %1$s", []*LVal{String("x")}, "x x"},
		{"%s", []*LVal{Keyword("k")}, "k"},
		{"%d", []*LVal{String("12")}, "12"},
	}
	for _, test := range tests {
		s, lerr := testFormat(t, test.format, test.args...)
		require.Nil(t, lerr, "format %q: %s", test.format, lerr)
		assert.Equal(t, test.want, s, "format %q", test.format)
	}
}

func TestFormatStringErrors(t *testing.T) {
	_, lerr := testFormat(t, "%d")
	require.NotNil(t, lerr)
	assert.Equal(t, "format: missing value for directive 1", lerr.Str)

	_, lerr = testFormat(t, "%2$d", Number(1))
	require.NotNil(t, lerr)
	assert.Equal(t, "format: missing value for directive 2", lerr.Str)

	_, lerr = testFormat(t, "%q", Number(1))
	require.NotNil(t, lerr)
	assert.Equal(t, "format: unrecognized directive: %q", lerr.Str)

	_, lerr = testFormat(t, "trailing %")
	require.NotNil(t, lerr)
	assert.Equal(t, "format: unterminated directive at end of format string", lerr.Str)
}
