package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"fooBarBaz": "foo_bar_baz",
		"widget":    "widget",
		"HTTPCode":  "_h_t_t_p_code",
	}
	for in, want := range cases {
		got, err := snakeCase(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestUpperSnakeCase(t *testing.T) {
	got, err := upperSnakeCase("fooBarBaz")
	require.NoError(t, err)
	assert.Equal(t, "FOO_BAR_BAZ", got)
}

// TestSnakeCaseInvariant checks spec §8's identifier-conversion
// invariant: for any alphanumeric ASCII string, snake(s) contains only
// lowercase letters, digits, and underscores, and upper(s) contains only
// uppercase letters, digits, and underscores.
func TestSnakeCaseInvariant(t *testing.T) {
	samples := []string{"a", "ab", "fooBar", "ABC", "x1Y2z3", "alreadysnake"}
	for _, s := range samples {
		lower, err := snakeCase(s)
		require.NoError(t, err)
		for _, c := range lower {
			assert.True(t, (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_', "snakeCase(%q) = %q has bad rune %q", s, lower, c)
		}

		upper, err := upperSnakeCase(s)
		require.NoError(t, err)
		for _, c := range upper {
			assert.True(t, (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_', "upperSnakeCase(%q) = %q has bad rune %q", s, upper, c)
		}
	}
}

func TestAssertAlphanumericRejectsPunctuation(t *testing.T) {
	_, err := snakeCase("foo-bar")
	assert.Error(t, err)
}

func TestCapitalizeIdempotent(t *testing.T) {
	assert.Equal(t, "Foo", capitalize("foo"))
	assert.Equal(t, "Foo", capitalize("Foo"))
	assert.Equal(t, "", capitalize(""))
}

func TestGoAccessorNameReservedSuffix(t *testing.T) {
	assert.Equal(t, "Which_", goAccessorName("which"))
	assert.Equal(t, "WidgetCount", goAccessorName("widgetCount"))
}

func TestFlattenScope(t *testing.T) {
	assert.Equal(t, "Foo_Bar", flattenScope([]string{"my_capnp", "Foo", "Bar"}))
	assert.Equal(t, "", flattenScope([]string{"my_capnp"}))
}
