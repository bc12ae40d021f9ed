package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRenderBranchConcatenation checks spec §8's text-tree law:
// render(Branch([x, Blank, y])) == render(x) + "\n" + render(y)
// (render(x) already ends in the newline closing x's last line, so the
// blank contributes exactly one more "\n").
func TestRenderBranchConcatenation(t *testing.T) {
	x := line("foo")
	y := line("bar")

	got := render(branch{x, blank{}, y})
	want := render(x) + "\n" + render(y)
	assert.Equal(t, want, got)
}

// TestRenderIndentAddsTwoSpaces checks spec §8's second text-tree law:
// render(Indent(x)) == render(x) with two extra leading spaces on every
// non-empty line.
func TestRenderIndentAddsTwoSpaces(t *testing.T) {
	x := branch{line("foo"), blank{}, line("bar")}

	plain := render(x)
	indented := render(indent(x))

	plainLines := strings.Split(strings.TrimSuffix(plain, "\n"), "\n")
	indentedLines := strings.Split(strings.TrimSuffix(indented, "\n"), "\n")

	if assert.Equal(t, len(plainLines), len(indentedLines)) {
		for i, pl := range plainLines {
			if pl == "" {
				assert.Equal(t, "", indentedLines[i])
				continue
			}
			assert.Equal(t, "  "+pl, indentedLines[i])
		}
	}
}

func TestRenderNilIsBlankLine(t *testing.T) {
	assert.Equal(t, "\n", render(nil))
}

func TestRenderLines(t *testing.T) {
	got := render(lines("a", "b", "c"))
	assert.Equal(t, "a\nb\nc\n", got)
}

func TestRenderNestedIndentCompounds(t *testing.T) {
	got := render(indent(indent(line("x"))))
	assert.Equal(t, "    x\n", got)
}
