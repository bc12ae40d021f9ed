package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteNameSameFileIsBareIdentifier(t *testing.T) {
	scope := newScopeMap()
	scope.paths[0x1] = []string{"widget_capnp", "Widget"}

	im := newImports()
	name, err := remoteName(scope, "widget_capnp", im, 0x1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", name)
	assert.Empty(t, im.usedImports())
}

func TestRemoteNameCrossFileQualifiesAndRecordsImport(t *testing.T) {
	scope := newScopeMap()
	scope.paths[0x2] = []string{"other_capnp", "Gadget"}

	im := newImports()
	name, err := remoteName(scope, "widget_capnp", im, 0x2)
	require.NoError(t, err)
	assert.Equal(t, "other_capnp.Gadget", name)

	used := im.usedImports()
	require.Len(t, used, 1)
	assert.Equal(t, "other_capnp", used[0].name)
}

func TestRemoteNameMissingScopeIsError(t *testing.T) {
	scope := newScopeMap()
	im := newImports()
	_, err := remoteName(scope, "widget_capnp", im, 0x999)
	assert.Error(t, err)
}
