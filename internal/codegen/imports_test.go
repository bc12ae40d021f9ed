package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportsDedupesByNameAndPath(t *testing.T) {
	im := newImports()
	im.add(importSpec{name: "foo_capnp", path: "foo_capnp"})
	im.add(importSpec{name: "bar_capnp", path: "bar_capnp"})
	im.add(importSpec{name: "foo_capnp", path: "foo_capnp"})

	got := im.usedImports()
	require.Len(t, got, 2)
	assert.Equal(t, "foo_capnp", got[0].name)
	assert.Equal(t, "bar_capnp", got[1].name)
}

func TestImportsPreservesFirstUseOrder(t *testing.T) {
	im := newImports()
	im.add(importSpec{name: "c", path: "c"})
	im.add(importSpec{name: "a", path: "a"})
	im.add(importSpec{name: "b", path: "b"})

	got := im.usedImports()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].name, got[1].name, got[2].name})
}

func TestImportSpecString(t *testing.T) {
	s := importSpec{name: "foo", path: "example.com/foo"}
	assert.Equal(t, `foo "example.com/foo"`, s.String())
}
