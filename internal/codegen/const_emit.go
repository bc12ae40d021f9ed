package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// emitConst renders a Const node as a top-level Go constant, for
// primitive-valued constants only. Enum, Text, Data, List, Struct,
// AnyPointer and Interface constants are refused per spec §9's
// acknowledged gap; ported from codegen.rs's generate_node Const arm,
// whose own match has arms for exactly the primitive widths and falls
// through to a failure on everything else.
func emitConst(c *genCtx, n *node) (text, error) {
	if n.Which() != schema.Node_Which_const {
		return nil, errors.Errorf("emitConst called on non-const node %s", n)
	}
	cn := n.Const()
	typ, err := cn.Type()
	if err != nil {
		return nil, errors.Wrapf(err, "reading type of const %s", n)
	}
	val, err := cn.Value()
	if err != nil {
		return nil, errors.Wrapf(err, "reading value of const %s", n)
	}
	kind, err := classifyType(typ)
	if err != nil {
		return nil, err
	}

	var literal string
	switch kind {
	case kVoid:
		// Go has no struct-typed constants; a Void constant is a var.
		var out branch
		ann, _ := n.Annotations()
		if doc := parseAnnotations(ann).docComment(); doc != nil {
			out = append(out, doc)
		}
		out = append(out, line(fmt.Sprintf("var %s struct{}", n.Name)))
		return out, nil
	case kBool:
		literal = fmt.Sprintf("%t", val.Bool())
	case kInt8:
		literal = fmt.Sprintf("%d", val.Int8())
	case kInt16:
		literal = fmt.Sprintf("%d", val.Int16())
	case kInt32:
		literal = fmt.Sprintf("%d", val.Int32())
	case kInt64:
		literal = fmt.Sprintf("%d", val.Int64())
	case kUint8:
		literal = fmt.Sprintf("%d", val.Uint8())
	case kUint16:
		literal = fmt.Sprintf("%d", val.Uint16())
	case kUint32:
		literal = fmt.Sprintf("%d", val.Uint32())
	case kUint64:
		literal = fmt.Sprintf("%d", val.Uint64())
	case kFloat32:
		literal = fmt.Sprintf("%v", val.Float32())
	case kFloat64:
		literal = fmt.Sprintf("%v", val.Float64())
	default:
		// Enum and every pointer kind: outside the primitive-value
		// table, same abort the original takes.
		c.diag.unsupported(fmt.Sprintf("Const of kind %d", kind), n.shortDisplayName())
		return nil, errUnsupported(fmt.Sprintf("Const of kind %d", kind), n.shortDisplayName())
	}

	goType := kind.goPrimitive()

	var out branch
	ann, _ := n.Annotations()
	if doc := parseAnnotations(ann).docComment(); doc != nil {
		out = append(out, doc)
	}
	out = append(out, line(fmt.Sprintf("const %s %s = %s", n.Name, goType, literal)))
	return out, nil
}
