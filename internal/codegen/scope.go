package codegen

import (
	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// scopeMap is the node id -> fully qualified path mapping of spec §3/§4.1.
type scopeMap struct {
	paths map[uint64][]string
}

func newScopeMap() *scopeMap {
	return &scopeMap{paths: make(map[uint64][]string)}
}

func (m *scopeMap) get(id uint64) []string {
	return m.paths[id]
}

// seed is a (rootPath, rootNodeId) pair: one per requested file, one per
// import, per spec §4.1's contract.
type seed struct {
	path []string
	id   uint64
}

// resolveScopes walks every seed's nested-node forest, recording a path
// for each reachable node. Ported from spec §4.1's algorithm (itself
// ported from codegen.rs's populate_scope_map): recursive descent,
// toleration of ids missing from the index, last-writer-wins on
// collision, and the synthesized extra segment for group fields.
func resolveScopes(idx *nodeIndex, seeds []seed) *scopeMap {
	m := newScopeMap()
	for _, s := range seeds {
		visitScope(idx, m, s.path, s.id)
	}
	return m
}

func visitScope(idx *nodeIndex, m *scopeMap, path []string, id uint64) {
	m.paths[id] = path

	n := idx.find(id)
	if n == nil {
		// Unused nodes in imported files may be omitted from the node
		// map entirely; record the path we were given and stop.
		return
	}

	nestedNodes, err := n.NestedNodes()
	if err != nil {
		return
	}
	for i := 0; i < nestedNodes.Len(); i++ {
		nn := nestedNodes.At(i)
		name, err := nn.Name()
		if err != nil {
			continue
		}
		childPath := append(append([]string(nil), path...), name)
		visitScope(idx, m, childPath, nn.Id())
	}

	if n.Which() != schema.Node_Which_structNode {
		return
	}
	fields, err := n.StructNode().Fields()
	if err != nil {
		return
	}
	for i := 0; i < fields.Len(); i++ {
		f := fields.At(i)
		if f.Which() != schema.Field_Which_group {
			continue
		}
		fname, err := f.Name()
		if err != nil {
			continue
		}
		childPath := append(append([]string(nil), path...), capitalize(fname))
		visitScope(idx, m, childPath, f.Group().TypeId())
	}
}

// fileRootSegment derives the "<stem>_capnp" segment spec §3 requires
// from a requested file or import's declared filename, replacing "-"
// with "_" the way the reference driver (capnpc-rust's main, and the
// teacher's own stem handling) does.
func fileRootSegment(filename string) string {
	stem := filename
	if i := lastIndexByte(stem, '/'); i >= 0 {
		stem = stem[i+1:]
	}
	if i := lastIndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	out := make([]byte, len(stem))
	for i := 0; i < len(stem); i++ {
		if stem[i] == '-' {
			out[i] = '_'
		} else {
			out[i] = stem[i]
		}
	}
	return string(out) + "_capnp"
}

func lastIndexByte(s string, b byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == b {
			return i
		}
	}
	return -1
}
