package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// emitEnum renders an Enum node as a uint16-backed type with one named
// constant per enumerant, plus a String() method for debug printing --
// the teacher's own enumval.FullName naming scheme
// (<EnumType>_<Variant>), generalized from the single hand-rolled
// Color/Which-style enum spec §8 scenario 4 literally names.
func emitEnum(n *node) (text, error) {
	if n.Which() != schema.Node_Which_enum {
		return nil, errors.Errorf("emitEnum called on non-enum node %s", n)
	}
	enumerants, err := n.Enum().Enumerants()
	if err != nil {
		return nil, errors.Wrapf(err, "reading enumerants of %s", n)
	}

	vals := make([]enumerant, enumerants.Len())
	for i := 0; i < enumerants.Len(); i++ {
		ev, err := makeEnumerant(n, i, enumerants.At(i))
		if err != nil {
			return nil, err
		}
		vals[i] = ev
	}

	var out branch
	ann, _ := n.Annotations()
	if doc := parseAnnotations(ann).docComment(); doc != nil {
		out = append(out, doc)
	}
	out = append(out, line(fmt.Sprintf("type %s uint16", n.Name)))
	out = append(out, blank{})
	out = append(out, line("const ("))
	var consts branch
	for _, e := range vals {
		consts = append(consts, line(fmt.Sprintf("%s %s = %d", e.fullName(), n.Name, e.Val)))
	}
	out = append(out, indent(consts))
	out = append(out, line(")"))
	out = append(out, blank{})

	out = append(out, branch{
		line(fmt.Sprintf("func (v %s) String() string {", n.Name)),
		indent(enumStringBody(n.Name, vals)),
		line("}"),
	})

	return out, nil
}

func enumStringBody(typeName string, vals []enumerant) text {
	var body branch
	body = append(body, line("switch v {"))
	var cases branch
	for _, e := range vals {
		cases = append(cases, line(fmt.Sprintf("case %s:", e.fullName())))
		cases = append(cases, indent(line(fmt.Sprintf("return %q", e.Name))))
	}
	body = append(body, cases)
	body = append(body, line("default:"))
	body = append(body, indent(line(`return "unknown"`)))
	body = append(body, line("}"))
	return body
}
