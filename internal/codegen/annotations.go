package codegen

import (
	capnp "capnproto.org/go/capnp/v3"
	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// Well-known annotation ids, lifted from capnp/go.capnp. Only $name and
// $doc affect this generator (SPEC_FULL.md §4); the rest are recognized so
// that parseAnnotations doesn't have to special-case "annotation I don't
// understand" versus "annotation this generator doesn't act on".
const (
	annotationDoc     = 0xc58ad6bd519f935e // $doc
	annotationPackage = 0xbea97f1023792be0 // $package (unused: no Go-package grouping, see SPEC_FULL.md §1)
	annotationName    = 0xc2b96012172f8df1 // $name
)

// annotations is the parsed view of a node or field's annotation list.
// Ported from the teacher's nodes.go `annotations`/`parseAnnotations`,
// trimmed to the subset this generator acts on.
type annotations struct {
	Doc  string
	Name string
}

func parseAnnotations(list capnp.StructList[schema.Annotation]) *annotations {
	ann := new(annotations)
	for i, n := 0, list.Len(); i < n; i++ {
		a := list.At(i)
		val, _ := a.Value()
		switch a.Id() {
		case annotationDoc:
			ann.Doc, _ = val.Text()
		case annotationName:
			ann.Name, _ = val.Text()
		}
	}
	return ann
}

// rename returns the $name override, or given unchanged if there was none.
func (a *annotations) rename(given string) string {
	if a.Name == "" {
		return given
	}
	return a.Name
}

// docComment renders the $doc annotation, if any, as a text line directly
// above the declaration it documents -- the teacher's own doc-comment
// placement. Returns an empty branch (which renders no lines) if there is
// no $doc annotation, so callers can splice it into a branch
// unconditionally.
func (a *annotations) docComment() text {
	if a.Doc == "" {
		return branch(nil)
	}
	return line("// " + a.Doc)
}
