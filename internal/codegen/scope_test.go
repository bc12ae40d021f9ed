package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileRootSegmentStripsDirAndExtension(t *testing.T) {
	assert.Equal(t, "widget_capnp", fileRootSegment("widget.capnp"))
	assert.Equal(t, "widget_capnp", fileRootSegment("schemas/widget.capnp"))
}

func TestFileRootSegmentReplacesHyphens(t *testing.T) {
	assert.Equal(t, "my_widget_capnp", fileRootSegment("my-widget.capnp"))
}

func TestGoOutputPathAppendsCapnpSuffix(t *testing.T) {
	assert.Equal(t, "widget_capnp.go", goOutputPath("widget.capnp"))
	assert.Equal(t, "schemas/widget_capnp.go", goOutputPath("schemas/widget.capnp"))
}

func TestLastIndexByte(t *testing.T) {
	assert.Equal(t, 3, lastIndexByte("a/b/c", '/'))
	assert.Equal(t, -1, lastIndexByte("abc", '/'))
}

// TestScopeMapLastWriterWins documents spec §4.1's collision rule:
// visitScope records paths by plain assignment into scopeMap.paths, so a
// later write for the same node id replaces an earlier one. The test
// writes the map directly rather than going through visitScope.
func TestScopeMapLastWriterWins(t *testing.T) {
	m := newScopeMap()
	m.paths[0x1] = []string{"a_capnp", "First"}
	m.paths[0x1] = []string{"a_capnp", "Second"}
	assert.Equal(t, []string{"a_capnp", "Second"}, m.get(0x1))
}

func TestScopeMapGetMissingIsEmpty(t *testing.T) {
	m := newScopeMap()
	assert.Nil(t, m.get(0xdead))
}
