package codegen

import (
	"fmt"

	"github.com/pkg/errors"
)

// unionMember pairs a union member field with its computed accessor
// plan; the member's getter is folded into the union's Which() arms
// instead of being emitted on the struct directly.
type unionMember struct {
	f field
	a accessor
}

// unionPlan is what struct_emit.go needs to emit a struct's
// discriminated union: the Which tag type, one payload-carrying sum per
// side (Reader and Builder each get their own), and the Which()
// accessor constructing the matching arm. Ported from codegen.rs's
// generate_union.
type unionPlan struct {
	whichTypeName    string
	variants         []unionVariant
	whichExprReader  string
	whichExprBuilder string
}

type unionVariant struct {
	constName   string // e.g. "Shape_Which_Circle"
	fieldName   string // the payload field name inside the sum struct
	tagValue    uint16 // the member's declared discriminant value
	readerType  string
	readerExpr  string
	builderType string
	builderExpr string
}

// buildUnionPlan constructs the union metadata for a struct node that
// has a discriminant. structGoName is the struct's flattened Go name
// (e.g. "Shape"); members carry the code-ordered union member fields
// with their accessor plans already computed.
func buildUnionPlan(structGoName string, discOffset uint32, members []unionMember) (unionPlan, error) {
	if len(members) == 0 {
		return unionPlan{}, errors.Errorf("buildUnionPlan called with no union members for %s", structGoName)
	}

	whichType := structGoName + "_Which"
	var variants []unionVariant
	for _, m := range members {
		fieldName := m.f.Name
		if fieldName == "Kind" {
			fieldName = "Kind_"
		}
		builderType := m.a.builderType
		if builderType == "" {
			builderType = m.a.readerType
		}
		variants = append(variants, unionVariant{
			constName:   fmt.Sprintf("%s_%s", whichType, m.f.Name),
			fieldName:   fieldName,
			tagValue:    m.f.DiscriminantValue(),
			readerType:  m.a.readerType,
			readerExpr:  renderExpr(m.a.readerExpr),
			builderType: builderType,
			builderExpr: renderExpr(m.a.builderExpr),
		})
	}

	return unionPlan{
		whichTypeName:    whichType,
		variants:         variants,
		whichExprReader:  fmt.Sprintf("%s(r.reader.Uint16(%d))", whichType, discOffset),
		whichExprBuilder: fmt.Sprintf("%s(b.builder.Uint16(%d))", whichType, discOffset),
	}, nil
}

// whichTypeDecl renders the Which tag type with one named constant per
// member (valued by the member's declared discriminant), a String()
// method, and the two payload sums: <Struct>_WhichReader and
// <Struct>_WhichBuilder, each carrying the corresponding side's getter
// result type per arm.
func (u unionPlan) whichTypeDecl(structGoName string) text {
	var b branch
	b = append(b, line(fmt.Sprintf("type %s uint16", u.whichTypeName)))
	b = append(b, blank{})
	b = append(b, line("const ("))
	var consts branch
	for _, v := range u.variants {
		consts = append(consts, line(fmt.Sprintf("%s %s = %d", v.constName, u.whichTypeName, v.tagValue)))
	}
	b = append(b, indent(consts))
	b = append(b, line(")"))
	b = append(b, blank{})
	b = append(b, branch{
		line(fmt.Sprintf("func (v %s) String() string {", u.whichTypeName)),
		indent(u.stringSwitchBody()),
		line("}"),
	})
	b = append(b, blank{})
	b = append(b, u.payloadStructDecl(structGoName, true))
	b = append(b, blank{})
	b = append(b, u.payloadStructDecl(structGoName, false))
	return b
}

func (u unionPlan) payloadStructDecl(structGoName string, isReader bool) text {
	side := "Builder"
	if isReader {
		side = "Reader"
	}
	var fields branch
	fields = append(fields, line(fmt.Sprintf("Kind %s", u.whichTypeName)))
	for _, v := range u.variants {
		typ := v.builderType
		if isReader {
			typ = v.readerType
		}
		fields = append(fields, line(fmt.Sprintf("%s %s", v.fieldName, typ)))
	}
	return branch{
		line(fmt.Sprintf("type %s_Which%s struct {", structGoName, side)),
		indent(fields),
		line("}"),
	}
}

func (u unionPlan) stringSwitchBody() text {
	var body branch
	body = append(body, line("switch v {"))
	for _, variant := range u.variants {
		body = append(body, line(fmt.Sprintf("case %s:", variant.constName)))
		body = append(body, indent(line(fmt.Sprintf("return %q", variant.fieldName))))
	}
	body = append(body, line("default:"))
	body = append(body, indent(line(`return "unknown"`)))
	body = append(body, line("}"))
	return body
}

// whichMethod renders the Which() accessor for either the Reader or
// Builder side, per spec §4.3.4: read the discriminant, match it
// against each member's declared value to construct the arm carrying
// that member's payload, and report ok=false for a discriminant no
// member declares.
func (u unionPlan) whichMethod(structGoName string, isReader bool) text {
	recv, side, tagExpr := "r", "Reader", u.whichExprReader
	if !isReader {
		recv, side, tagExpr = "b", "Builder", u.whichExprBuilder
	}
	sumType := fmt.Sprintf("%s_Which%s", structGoName, side)

	var body branch
	body = append(body, line(fmt.Sprintf("switch %s {", tagExpr)))
	for _, v := range u.variants {
		payload := v.builderExpr
		if isReader {
			payload = v.readerExpr
		}
		body = append(body, line(fmt.Sprintf("case %s:", v.constName)))
		body = append(body, indent(line(fmt.Sprintf("return %s{Kind: %s, %s: %s}, true", sumType, v.constName, v.fieldName, payload))))
	}
	body = append(body, line("default:"))
	body = append(body, indent(line(fmt.Sprintf("return %s{}, false", sumType))))
	body = append(body, line("}"))

	return branch{
		line(fmt.Sprintf("func (%s %s%s) Which() (%s, bool) {", recv, structGoName, side, sumType)),
		indent(body),
		line("}"),
	}
}

// unionMembersOf extracts the members of a code-ordered field list that
// participate in the struct's single top-level union, i.e. every field
// whose discriminant value is not the "not a union member" sentinel.
// Ported from the grouping codegen.rs's generate_node performs inline
// before calling generate_union.
func unionMembersOf(plans []fieldPlan) []unionMember {
	var out []unionMember
	for _, p := range plans {
		if p.f.hasDiscriminant() {
			out = append(out, unionMember{f: p.f, a: p.a})
		}
	}
	return out
}
