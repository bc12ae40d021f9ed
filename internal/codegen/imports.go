package codegen

import "fmt"

// importSpec names one foreign package a generated file needs to
// reference a cross-file type. Ported from the shape exercised by
// go-capnproto2's capnpc-go test suite
// (_examples/other_examples/..._capnpc-go_test.go.go's importSpec /
// TestRemoteScope), adapted to this generator's own remote-name
// resolution (remote.go).
type importSpec struct {
	name string // the Go package alias used at reference sites
	path string // the Go import path
}

func (s importSpec) String() string {
	return fmt.Sprintf("%s %q", s.name, s.path)
}

// imports accumulates the set of foreign packages referenced while
// emitting a single requested file, in first-use order, deduplicated by
// (name, path).
type imports struct {
	order []importSpec
	seen  map[importSpec]bool
}

func newImports() *imports {
	return &imports{seen: make(map[importSpec]bool)}
}

func (im *imports) add(spec importSpec) {
	if im.seen[spec] {
		return
	}
	im.seen[spec] = true
	im.order = append(im.order, spec)
}

func (im *imports) usedImports() []importSpec {
	return im.order
}
