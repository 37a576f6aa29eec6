package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagParser_Parse(t *testing.T) {
	parser, err := NewTagParser(16)
	require.NoError(t, err)

	tests := []struct {
		name     string
		tag      string
		expected InjectOptions
	}{
		{name: "empty", tag: "", expected: InjectOptions{}},
		{name: "whitespace only", tag: "   ", expected: InjectOptions{}},
		{name: "named binding", tag: "name=primary", expected: InjectOptions{Name: "primary"}},
		{name: "optional flag", tag: "optional", expected: InjectOptions{Optional: true}},
		{name: "optional explicit false", tag: "optional=false", expected: InjectOptions{}},
		{name: "both with spaces", tag: "name=db.replica , optional", expected: InjectOptions{Name: "db.replica", Optional: true}},
		{name: "quoted name", tag: "name='primary db'", expected: InjectOptions{Name: "primary db"}},
		{name: "dashed name", tag: "optional=yes,name=cache-l2", expected: InjectOptions{Name: "cache-l2", Optional: true}},
		{name: "numeric true", tag: "optional=1", expected: InjectOptions{Optional: true}},
		{name: "numeric false", tag: "optional=0", expected: InjectOptions{}},
		{name: "numeric name", tag: "name=42", expected: InjectOptions{Name: "42"}},
		{name: "escaped double quotes", tag: `name="primary \"db\""`, expected: InjectOptions{Name: `primary "db"`}},
		{name: "escapes in double quotes", tag: `name="a\tb"`, expected: InjectOptions{Name: "a\tb"}},
		{name: "single quotes verbatim", tag: `name='a\tb'`, expected: InjectOptions{Name: `a\tb`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := parser.Parse(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, options)
		})
	}
}

func TestTagParser_ParseErrors(t *testing.T) {
	parser, err := NewTagParser(16)
	require.NoError(t, err)

	tests := []struct {
		name     string
		tag      string
		contains string
	}{
		{name: "unknown option", tag: "lazy", contains: "unknown option 'lazy'"},
		{name: "name without value", tag: "name", contains: "option 'name' requires a value"},
		{name: "duplicate option", tag: "optional,optional", contains: "given more than once"},
		{name: "bad bool", tag: "optional=maybe", contains: "option 'optional' expects bool"},
		{name: "dangling comma", tag: "optional,", contains: "invalid inject tag"},
		{name: "missing value", tag: "name=", contains: "invalid inject tag"},
		{name: "bad escape", tag: `name="bad\q"`, contains: "malformed quoted value"},
		{name: "numeric bool out of range", tag: "optional=2", contains: "option 'optional' expects bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.tag)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.tag, syntaxErr.Tag)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestTagParser_UnknownOptionReportsColumn(t *testing.T) {
	parser, err := NewTagParser(16)
	require.NoError(t, err)

	_, err = parser.Parse("optional,lazy")
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 10, syntaxErr.Column)
	assert.Contains(t, syntaxErr.Suggestion(), "name, optional")
}

func TestTagParser_CachesResults(t *testing.T) {
	parser, err := NewTagParser(2)
	require.NoError(t, err)

	_, _ = parser.Parse("name=a")
	_, _ = parser.Parse("name=a")
	assert.Equal(t, 1, parser.CachedValues())

	_, _ = parser.Parse("name=b")
	_, _ = parser.Parse("name=c")
	assert.Equal(t, 2, parser.CachedValues())

	// Errors are cached too and returned unchanged
	_, first := parser.Parse("bogus")
	_, second := parser.Parse("bogus")
	assert.Same(t, first, second)
}

func TestDefaultTagParser(t *testing.T) {
	assert.Same(t, DefaultTagParser(), DefaultTagParser())
}
