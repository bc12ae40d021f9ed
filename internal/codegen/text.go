package codegen

import "strings"

// text is the in-memory tree of indented text fragments described in
// spec §3/§4.2, ported from codegen.rs's FormattedText/to_lines/stringify.
// It has exactly four variants, and is immutable once constructed: callers
// build a tree bottom-up and call render once.
type text interface {
	appendLines(out []string, indent int) []string
}

// line is a single line of text, emitted at the current indent.
type line string

func (l line) appendLines(out []string, indent int) []string {
	return append(out, strings.Repeat("  ", indent)+string(l))
}

// blank is an empty line, used for vertical spacing between branches.
type blank struct{}

func (blank) appendLines(out []string, indent int) []string {
	return append(out, "")
}

// indented wraps a subtree, rendering it one indent level deeper.
type indented struct {
	body text
}

func (i indented) appendLines(out []string, indent int) []string {
	return i.body.appendLines(out, indent+1)
}

// branch concatenates subtrees in order, with no separator inserted
// between them; callers insert blank{} explicitly for spacing.
type branch []text

func (b branch) appendLines(out []string, indent int) []string {
	for _, t := range b {
		out = t.appendLines(out, indent)
	}
	return out
}

// indent is the indented{} constructor, kept as a function for readability
// at call sites that nest several levels.
func indent(t text) text {
	return indented{body: t}
}

// lines builds a branch out of plain strings, each becoming its own line.
// This is a convenience used throughout the emitter; it is not part of
// the four canonical variants.
func lines(ss ...string) text {
	b := make(branch, len(ss))
	for i, s := range ss {
		b[i] = line(s)
	}
	return b
}

// render flattens a text tree to its final string. Rendering is pure:
// repeated renders of the same tree yield identical strings. The result
// always ends with a trailing newline, matching codegen.rs's stringify.
func render(t text) string {
	if t == nil {
		return "\n"
	}
	out := t.appendLines(nil, 0)
	return strings.Join(out, "\n") + "\n"
}
