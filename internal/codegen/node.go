package codegen

import (
	"github.com/pkg/errors"

	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// node wraps a decoded schema.Node with the bookkeeping the emitter needs:
// its resolved Go name and scope path (see scope.go; set by assignNames
// in request.go). Adapted from the teacher's nodes.go `node` type; the
// package-annotation bookkeeping (pkg/imp, $Go.package grouping) that file
// used to lay out its own module tree is dropped because spec §3's scope
// map is keyed purely off the nested-node forest, not a Go package
// annotation.
type node struct {
	schema.Node
	Name string // flattened Go identifier, e.g. "Foo_Bar"; see flattenScope
	Path []string
}

func (n *node) String() string {
	dn, _ := n.DisplayName()
	return dn
}

// shortDisplayName returns the node's display name with the enclosing
// file's prefix stripped off, handy in diagnostics.
func (n *node) shortDisplayName() string {
	dn, _ := n.DisplayName()
	return dn[n.DisplayNamePrefixLength():]
}

// field wraps a schema.Field with its (possibly $name-renamed) accessor
// identifier.
type field struct {
	schema.Field
	Name string // styled, Go-accessor-ready name (post $name, post reserved-suffix)
}

// hasDiscriminant reports whether the field is a union member, per spec's
// "sentinel 0xFFFF = not a union member" rule.
func (f field) hasDiscriminant() bool {
	return f.DiscriminantValue() != schema.Field_noDiscriminant
}

// codeOrderFields returns a node's struct fields re-ordered into
// declaration (code) order, renaming as parseAnnotations/renameIdents
// dictate. Ported from the teacher's node.codeOrderFields.
func (n *node) codeOrderFields() ([]field, error) {
	if n.Which() != schema.Node_Which_structNode {
		return nil, errors.Errorf("codeOrderFields called on non-struct node %s", n)
	}
	fields, err := n.StructNode().Fields()
	if err != nil {
		return nil, errors.Wrapf(err, "reading fields of %s", n)
	}
	out := make([]field, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		f := fields.At(i)
		fname, err := f.Name()
		if err != nil {
			return nil, errors.Wrapf(err, "reading field name in %s", n)
		}
		fann, _ := f.Annotations()
		styled := goAccessorName(parseAnnotations(fann).rename(fname))
		out[f.CodeOrder()] = field{Field: f, Name: styled}
	}
	return out, nil
}

// discriminantOffset returns the offset of a struct's union
// discriminant in u16 units, exactly as the schema carries it. The
// emitted accessors index data fields by element, not byte, so no
// conversion is needed; the teacher's nodes.go doubles it only because
// its runtime takes byte offsets.
func (n *node) discriminantOffset() (uint32, error) {
	if n.Which() != schema.Node_Which_structNode {
		return 0, errors.Errorf("discriminantOffset called on %v node", n.Which())
	}
	return n.StructNode().DiscriminantOffset(), nil
}

// enumerant wraps a schema.Enumerant with its styled name and numeric tag.
type enumerant struct {
	schema.Enumerant
	Name   string
	Val    int
	parent *node
}

func makeEnumerant(enum *node, i int, e schema.Enumerant) (enumerant, error) {
	name, err := e.Name()
	if err != nil {
		return enumerant{}, errors.Wrapf(err, "reading enumerant %d name in %s", i, enum)
	}
	eann, _ := e.Annotations()
	styled := parseAnnotations(eann).rename(name)
	return enumerant{Enumerant: e, Name: capitalize(styled), Val: i, parent: enum}, nil
}

// fullName is the Go constant name: <EnumType>_<Variant>, matching the
// teacher's enumval.FullName.
func (e enumerant) fullName() string {
	return e.parent.Name + "_" + e.Name
}

// interfaceMethod wraps a schema.Method with its resolved param/result
// nodes and ordinal, ported from the teacher's interfaceMethod.
type interfaceMethod struct {
	schema.Method
	Interface *node
	Ordinal   int
	Name      string
	Params    *node
	Results   *node
}

// isStreaming reports whether the method returns the well-known empty
// stream.StreamResult, per SPEC_FULL.md §4's supplemented streaming note.
// This only affects a doc comment on the emitted Request factory.
func (m interfaceMethod) isStreaming() bool {
	return m.Results != nil && m.Results.Id() == streamResultTypeID
}

// streamResultTypeID is stream.capnp's StreamResult type ID, the
// zero-field struct methods opt into to signal no meaningful response
// (capnp/rpc.capnp companion schema). Kept as a constant here rather than
// importing the stream std package, since nothing else in this generator
// needs that dependency.
const streamResultTypeID = 0xec1d5cf8577d5ca8

// methodSet collects the method table for an interface, in declaration
// order, followed recursively by each superclass's methods — matching
// SPEC_FULL.md §4's base-dispatch-delegates-in-declaration-order rule and
// ported from the teacher's methodSet.
func methodSet(methods []interfaceMethod, n *node, idx *nodeIndex) ([]interfaceMethod, error) {
	ms, err := n.Interface().Methods()
	if err != nil {
		return methods, errors.Wrapf(err, "reading methods of %s", n)
	}
	for i := 0; i < ms.Len(); i++ {
		m := ms.At(i)
		mname, _ := m.Name()
		mann, _ := m.Annotations()

		pn, err := idx.mustFind(m.ParamStructType())
		if err != nil {
			return methods, errors.Wrapf(err, "param type for %s.%s", n.shortDisplayName(), mname)
		}
		rn, err := idx.mustFind(m.ResultStructType())
		if err != nil {
			return methods, errors.Wrapf(err, "result type for %s.%s", n.shortDisplayName(), mname)
		}
		methods = append(methods, interfaceMethod{
			Method:    m,
			Interface: n,
			Ordinal:   i,
			Name:      goAccessorName(parseAnnotations(mann).rename(mname)),
			Params:    pn,
			Results:   rn,
		})
	}

	supers, err := n.Interface().Superclasses()
	if err != nil {
		return methods, errors.Wrapf(err, "reading superclasses of %s", n)
	}
	for i := 0; i < supers.Len(); i++ {
		sn, err := idx.mustFind(supers.At(i).Id())
		if err != nil {
			return methods, errors.Wrapf(err, "superclass of %s", n)
		}
		methods, err = methodSet(methods, sn, idx)
		if err != nil {
			return methods, err
		}
	}
	return methods, nil
}

// nodeIndex is the node id -> node view mapping described in spec
// component 2. It tolerates absent ids everywhere except where the
// emitter needs a node's own fields (spec §7's table).
type nodeIndex struct {
	byID map[uint64]*node
}

// buildNodeIndex scans a decoded request's flat node list once, per
// spec component 2.
func buildNodeIndex(nodes []schema.Node) *nodeIndex {
	idx := &nodeIndex{byID: make(map[uint64]*node, len(nodes))}
	for _, n := range nodes {
		idx.byID[n.Id()] = &node{Node: n}
	}
	return idx
}

// find tolerates a missing id, returning nil. Used by the scope resolver,
// which must not fail just because an imported file's unused node was
// omitted from the request.
func (idx *nodeIndex) find(id uint64) *node {
	return idx.byID[id]
}

// mustFind is used everywhere the emitter needs a node's own fields: a
// missing id here is the "fatal if the emitter requires the node's
// fields" branch of spec §7's error table.
func (idx *nodeIndex) mustFind(id uint64) (*node, error) {
	n := idx.byID[id]
	if n == nil {
		return nil, errors.Errorf("could not find node %#x in schema", id)
	}
	return n, nil
}

func (idx *nodeIndex) all() []*node {
	out := make([]*node, 0, len(idx.byID))
	for _, n := range idx.byID {
		out = append(out, n)
	}
	return out
}
