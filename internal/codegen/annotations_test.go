package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotationsRenameFallsBackToGiven(t *testing.T) {
	a := &annotations{}
	assert.Equal(t, "widgetCount", a.rename("widgetCount"))
}

func TestAnnotationsRenameUsesNameOverride(t *testing.T) {
	a := &annotations{Name: "count"}
	assert.Equal(t, "count", a.rename("widgetCount"))
}

func TestAnnotationsDocCommentEmptyWhenNoDoc(t *testing.T) {
	a := &annotations{}
	assert.Equal(t, "\n", render(a.docComment()))
}

func TestAnnotationsDocCommentRendersSlashSlash(t *testing.T) {
	a := &annotations{Doc: "the widget count"}
	assert.Equal(t, "// the widget count\n", render(a.docComment()))
}
