package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// emitStruct renders one Struct node's full declaration set: the
// StructSize/PreferredListEncoding constants, the Reader/Builder/Pipeline
// types (spec's Data-Model-mandated split, SPEC_FULL.md §1), one method
// trio per field, the union's Which type and accessor when the struct
// has a discriminant, and a recursive descent into any nested nodes
// (including groups, which synthesize their own struct). Ported from
// codegen.rs's generate_node's Struct arm.
func emitStruct(c *genCtx, n *node) (text, error) {
	if n.Which() != schema.Node_Which_structNode {
		return nil, errors.Errorf("emitStruct called on non-struct node %s", n)
	}
	sn := n.StructNode()
	name := n.Name

	fields, err := n.codeOrderFields()
	if err != nil {
		return nil, err
	}

	var discOffset uint32
	hasDisc := sn.DiscriminantCount() != 0
	if hasDisc {
		discOffset, err = n.discriminantOffset()
		if err != nil {
			return nil, err
		}
	}

	c.usesCapnp = true

	var out branch
	ann, _ := n.Annotations()
	if doc := parseAnnotations(ann).docComment(); doc != nil {
		out = append(out, doc)
	}
	if !sn.IsGroup() {
		out = append(out, line(fmt.Sprintf(
			"var %sStructSize = capnp.ObjectSize{DataSize: %d, PointerCount: %d}",
			name, int(sn.DataWordCount())*8, sn.PointerCount(),
		)))
		out = append(out, line(fmt.Sprintf(
			"const %sPreferredListEncoding = capnp.%s",
			name, elementSizeConstName(sn.PreferredListEncoding()),
		)))
		out = append(out, blank{})
	}

	out = append(out, readerTypeDecl(name))
	out = append(out, blank{})
	out = append(out, builderTypeDecl(name))
	out = append(out, blank{})
	out = append(out, pipelineTypeDecl(name))
	out = append(out, blank{})

	plans := make([]fieldPlan, len(fields))
	for i, f := range fields {
		a, err := buildAccessor(c, discOffset, f.Name, f)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s of %s", f.Name, n)
		}
		plans[i] = fieldPlan{f: f, a: a}
	}

	var members []unionMember
	if hasDisc {
		members = unionMembersOf(plans)
	}
	if len(members) > 0 {
		plan, err := buildUnionPlan(name, discOffset, members)
		if err != nil {
			return nil, err
		}
		out = append(out, plan.whichTypeDecl(name))
		out = append(out, blank{})
		out = append(out, plan.whichMethod(name, true))
		out = append(out, blank{})
		out = append(out, plan.whichMethod(name, false))
		out = append(out, blank{})
	}

	for _, p := range plans {
		out = append(out, emitField(name, p))
		out = append(out, blank{})
	}

	groupDecls, err := emitGroupStructs(c, n, fields)
	if err != nil {
		return nil, err
	}
	out = append(out, groupDecls)

	nested, err := emitNestedNodes(c, n)
	if err != nil {
		return nil, err
	}
	out = append(out, nested)

	return out, nil
}

func readerTypeDecl(name string) text {
	return branch{
		line(fmt.Sprintf("type %sReader struct {", name)),
		indent(line("reader capnp.StructReader")),
		line("}"),
	}
}

func builderTypeDecl(name string) text {
	return branch{
		line(fmt.Sprintf("type %sBuilder struct {", name)),
		indent(line("builder capnp.StructBuilder")),
		line("}"),
		blank{},
		line(fmt.Sprintf("func (b %sBuilder) AsReader() %sReader {", name, name)),
		indent(line(fmt.Sprintf("return %sReader{reader: b.builder.AsReader()}", name))),
		line("}"),
	}
}

// pipelineTypeDecl renders the third member of the data model's split:
// a Pipeline type, whose only accessors are the Struct/Interface-valued
// fields reachable before the enclosing RPC call returns (spec's
// Pipeline row, §3; generate_pipeline_getter in codegen.rs).
func pipelineTypeDecl(name string) text {
	return branch{
		line(fmt.Sprintf("type %sPipeline struct {", name)),
		indent(line("pipeline capnp.Pipeline")),
		line("}"),
	}
}

// fieldPlan pairs a field with its computed accessor plan; emitStruct
// builds one per field so the union emission and the per-field loop
// share a single buildAccessor pass.
type fieldPlan struct {
	f field
	a accessor
}

// emitField renders one field's accessor set: Reader and Builder
// getters (skipped for union members, whose getters live only as arms
// of the union's Which() accessor, per spec §4.3.3), setter, optional
// initter, optional has_ predicate, plus a pipeline getter when the
// field is itself Struct- or Interface-valued.
func emitField(structName string, p fieldPlan) text {
	f, a := p.f, p.a

	var out branch

	if !f.hasDiscriminant() {
		ret := a.readerType
		if a.readerRet != "" {
			ret = a.readerRet
		}
		body := text(line("return " + renderExpr(a.readerExpr)))
		if a.readerLines != nil {
			body = a.readerLines
		}
		out = append(out, branch{
			line(fmt.Sprintf("func (r %sReader) %s() %s {", structName, f.Name, ret)),
			indent(body),
			line("}"),
		})

		if a.builderType != "" {
			out = append(out, blank{})
			out = append(out, branch{
				line(fmt.Sprintf("func (b %sBuilder) %s() %s {", structName, f.Name, a.builderType)),
				indent(line("return " + renderExpr(a.builderExpr))),
				line("}"),
			})
		}
	}

	if a.setterParamType != "" {
		if len(out) > 0 {
			out = append(out, blank{})
		}
		out = append(out, branch{
			line(fmt.Sprintf("func (b %sBuilder) Set%s(value %s) {", structName, f.Name, a.setterParamType)),
			indent(a.setterLines),
			line("}"),
		})
	}

	if a.initterLines != nil {
		if len(out) > 0 {
			out = append(out, blank{})
		}
		params := ""
		if len(a.initterParams) > 0 {
			params = joinParams(a.initterParams)
		}
		out = append(out, branch{
			line(fmt.Sprintf("func (b %sBuilder) New%s(%s) %s {", structName, f.Name, params, a.initterReturnType)),
			indent(a.initterLines),
			line("}"),
		})
	}

	if a.hasExprReader != nil {
		if len(out) > 0 {
			out = append(out, blank{})
		}
		out = append(out, branch{
			line(fmt.Sprintf("func (r %sReader) Has%s() bool {", structName, f.Name)),
			indent(line("return " + renderExpr(a.hasExprReader))),
			line("}"),
		})
		out = append(out, blank{})
		out = append(out, branch{
			line(fmt.Sprintf("func (b %sBuilder) Has%s() bool {", structName, f.Name)),
			indent(line("return " + renderExpr(a.hasExprBuilder))),
			line("}"),
		})
	}

	if !f.hasDiscriminant() {
		if pipelineGetter := emitPipelineGetter(structName, f, a); pipelineGetter != nil {
			if len(out) > 0 {
				out = append(out, blank{})
			}
			out = append(out, pipelineGetter)
		}
	}

	return out
}

// emitPipelineGetter renders the Pipeline accessor for a Struct- or
// Interface-valued field, per spec's "Pipeline carries only fields whose
// value can itself be pipelined on" rule (codegen.rs's
// generate_pipeline_getter). Every other field kind returns nil: the
// Pipeline type simply has no accessor for them.
func emitPipelineGetter(structName string, f field, a accessor) text {
	if f.Which() != schema.Field_Which_slot {
		return nil
	}
	typ, err := f.Slot().Type()
	if err != nil {
		return nil
	}
	kind, err := classifyType(typ)
	if err != nil {
		return nil
	}
	switch kind {
	case kStruct:
		return branch{
			line(fmt.Sprintf("func (p %sPipeline) %s() %sPipeline {", structName, f.Name, trimReaderSuffix(a.readerType))),
			indent(line(fmt.Sprintf("return %sPipeline{pipeline: p.pipeline.GetPipeline(%d)}", trimReaderSuffix(a.readerType), f.Slot().Offset()))),
			line("}"),
		}
	case kInterface:
		return branch{
			line(fmt.Sprintf("func (p %sPipeline) %s() %s {", structName, f.Name, a.readerType)),
			indent(line(fmt.Sprintf("return %s{client: p.pipeline.GetPipeline(%d).Client()}", a.readerType, f.Slot().Offset()))),
			line("}"),
		}
	}
	return nil
}

func trimReaderSuffix(t string) string {
	const suffix = "Reader"
	if len(t) > len(suffix) && t[len(t)-len(suffix):] == suffix {
		return t[:len(t)-len(suffix)]
	}
	return t
}

func renderExpr(t text) string {
	if l, ok := t.(line); ok {
		return string(l)
	}
	s := render(t)
	return s[:len(s)-1]
}

func joinParams(params []string) string {
	out := params[0]
	for _, p := range params[1:] {
		out += ", " + p
	}
	return out
}

// emitGroupStructs emits a struct declaration for every group field's own
// struct node (found by the field's Group().TypeId()). A group's node is
// not listed among its parent's nested nodes, so emitNestedNodes never
// reaches it; this is the only place group structs are emitted.
func emitGroupStructs(c *genCtx, parent *node, fields []field) (text, error) {
	var out branch
	for _, f := range fields {
		if f.Which() != schema.Field_Which_group {
			continue
		}
		groupID := f.Group().TypeId()
		groupNode, err := c.idx.mustFind(groupID)
		if err != nil {
			return nil, err
		}
		if groupNode.Name == "" {
			groupNode.Name = parent.Name + "_" + f.Name
		}
		decl, err := emitStruct(c, groupNode)
		if err != nil {
			return nil, errors.Wrapf(err, "group field %s", f.Name)
		}
		out = append(out, decl)
		out = append(out, blank{})
	}
	return out, nil
}

// emitNestedNodes recurses into every node nested beneath n (a
// File/Struct node's child Struct/Enum/Interface/Const/Annotation
// declarations), dispatching by kind the way generator.go's top-level
// loop does for a requested file's own roots.
func emitNestedNodes(c *genCtx, n *node) (text, error) {
	nestedNodes, err := n.NestedNodes()
	if err != nil {
		return nil, errors.Wrapf(err, "reading nested nodes of %s", n)
	}
	var out branch
	for i := 0; i < nestedNodes.Len(); i++ {
		childID := nestedNodes.At(i).Id()
		child, err := c.idx.mustFind(childID)
		if err != nil {
			return nil, err
		}
		decl, err := emitNode(c, child)
		if err != nil {
			return nil, err
		}
		if decl != nil {
			out = append(out, decl)
			out = append(out, blank{})
		}
	}
	return out, nil
}
