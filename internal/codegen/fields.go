package codegen

import (
	"fmt"

	"github.com/pkg/errors"

	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

// accessor is everything struct_emit.go needs to render a field's full
// set of methods: the Reader getter, the Builder getter (mirrored, spec
// §8's invariant "every Reader field has a Builder counterpart"), the
// setter, an optional initter, and whether a has_ predicate applies.
// Ported from codegen.rs's getter_text/generate_setter/generate_haser,
// restructured so one call computes everything struct_emit.go needs for
// one field instead of three separate passes over the field list.
type accessor struct {
	readerType string
	readerExpr text // bare expression; caller prepends "return "
	// readerRet overrides the getter's declared return type when it
	// differs from readerType (enum getters return an extra ok bool);
	// readerLines overrides the single-expression body when set.
	readerRet   string
	readerLines text
	builderType string
	builderExpr text

	setterParamType string // "" if this field has no value-setter (groups)
	setterLines     text   // statement list, discriminant write already included

	initterParams     []string // e.g. "n int32" for a blob/list size
	initterReturnType string
	initterLines      text // "" / nil if there is no initter for this field

	isPointerish   bool
	hasExprReader  text // boolean expression body for the Reader has_ predicate; nil unless isPointerish
	hasExprBuilder text // same, for the Builder has_ predicate
}

// memberVar returns the receiver field name ("reader" or "builder")
// used throughout the emitted accessor bodies, matching spec §4.3.3's
// "self.reader"/"self.builder" phrasing translated into Go's "r.reader"/
// "b.builder".
func memberVar(isReader bool) string {
	if isReader {
		return "reader"
	}
	return "builder"
}

// buildAccessor computes the full accessor plan for one field. styledName
// is the Go-idiomatic accessor name (post rename/reserved-suffix).
func buildAccessor(c *genCtx, discOffset uint32, styledName string, f field) (accessor, error) {
	var a accessor

	switch f.Which() {
	case schema.Field_Which_group:
		groupID := f.Group().TypeId()
		remote, err := c.remote(groupID)
		if err != nil {
			return a, errors.Wrapf(err, "group field %s", styledName)
		}
		a.readerType = remote + "Reader"
		a.readerExpr = line(fmt.Sprintf("%sReader{reader: r.reader}", remote))
		a.builderType = remote + "Builder"
		a.builderExpr = line(fmt.Sprintf("%sBuilder{builder: b.builder}", remote))

		clears, err := zeroFieldsOfGroup(c, groupID)
		if err != nil {
			return a, err
		}
		a.initterLines = branch{clears, line(fmt.Sprintf("return %sBuilder{builder: b.builder}", remote))}
		a.initterReturnType = remote + "Builder"
		a.isPointerish = false

	case schema.Field_Which_slot:
		slot := f.Slot()
		offset := slot.Offset()
		typ, err := slot.Type()
		if err != nil {
			return a, errors.Wrapf(err, "slot type of %s", styledName)
		}
		def, err := slot.DefaultValue()
		if err != nil {
			return a, errors.Wrapf(err, "default value of %s", styledName)
		}
		kind, err := classifyType(typ)
		if err != nil {
			return a, errors.Wrapf(err, "field %s", styledName)
		}
		if err := fillSlotAccessor(c, &a, styledName, offset, typ, kind, def); err != nil {
			return a, err
		}
		a.isPointerish = kind.isPointerish()
		if a.isPointerish {
			a.hasExprReader = hasPredicateExpr(discOffset, f, offset, true)
			a.hasExprBuilder = hasPredicateExpr(discOffset, f, offset, false)
		}

	default:
		return a, errMalformed("field discriminant", nil)
	}

	if f.hasDiscriminant() {
		discLine := line(fmt.Sprintf("b.builder.SetUint16(%d, %d)", discOffset, f.DiscriminantValue()))
		a.setterLines = branch{discLine, a.setterLines}
		if a.initterLines != nil {
			a.initterLines = branch{discLine, a.initterLines}
		}
	}

	return a, nil
}

// fillSlotAccessor handles the Field_Which_slot arm of buildAccessor for
// every type kind, per spec §4.3.3.
func fillSlotAccessor(c *genCtx, a *accessor, styledName string, offset uint32, typ schema.Type, kind typeKind, def schema.Value) error {
	switch kind {
	case kVoid:
		a.readerType, a.readerExpr = "struct{}", line("struct{}{}")
		a.builderType, a.builderExpr = "struct{}", line("struct{}{}")
		a.setterParamType = "struct{}"
		a.setterLines = branch{}
		return nil

	case kBool:
		dflt, hasDflt, err := boolDefault(def)
		if err != nil {
			return err
		}
		if !hasDflt {
			a.readerExpr = line(fmt.Sprintf("r.reader.Bool(%d)", offset))
			a.builderExpr = line(fmt.Sprintf("b.builder.Bool(%d)", offset))
			a.setterLines = lines(fmt.Sprintf("b.builder.SetBool(%d, value)", offset))
		} else {
			a.readerExpr = line(fmt.Sprintf("r.reader.BoolDefault(%d, %t)", offset, dflt))
			a.builderExpr = line(fmt.Sprintf("b.builder.BoolDefault(%d, %t)", offset, dflt))
			a.setterLines = lines(fmt.Sprintf("b.builder.SetBoolDefault(%d, value, %t)", offset, dflt))
		}
		a.readerType, a.builderType = "bool", "bool"
		a.setterParamType = "bool"
		return nil

	case kInt8, kInt16, kInt32, kInt64, kUint8, kUint16, kUint32, kUint64, kFloat32, kFloat64:
		goType := kind.goPrimitive()
		runtimeType := capitalize(goType)
		literal, hasDflt, err := primDefault(def)
		if err != nil {
			return err
		}
		if !hasDflt {
			a.readerExpr = line(fmt.Sprintf("r.reader.%s(%d)", runtimeType, offset))
			a.builderExpr = line(fmt.Sprintf("b.builder.%s(%d)", runtimeType, offset))
			a.setterLines = lines(fmt.Sprintf("b.builder.Set%s(%d, value)", runtimeType, offset))
		} else {
			a.readerExpr = line(fmt.Sprintf("r.reader.%sDefault(%d, %s)", runtimeType, offset, literal))
			a.builderExpr = line(fmt.Sprintf("b.builder.%sDefault(%d, %s)", runtimeType, offset, literal))
			a.setterLines = lines(fmt.Sprintf("b.builder.Set%sDefault(%d, value, %s)", runtimeType, offset, literal))
		}
		a.readerType, a.builderType = goType, goType
		a.setterParamType = goType
		return nil

	case kText:
		a.readerType, a.builderType = "string", "string"
		a.readerExpr = line(fmt.Sprintf("r.reader.Text(%d)", offset))
		a.builderExpr = line(fmt.Sprintf("b.builder.Text(%d)", offset))
		a.setterParamType = "string"
		a.setterLines = lines(fmt.Sprintf("b.builder.SetText(%d, value)", offset))
		a.initterParams = []string{"n int32"}
		a.initterReturnType = "capnp.TextBuilder"
		a.initterLines = lines(fmt.Sprintf("return b.builder.NewText(%d, n)", offset))
		return nil

	case kData:
		a.readerType, a.builderType = "[]byte", "[]byte"
		a.readerExpr = line(fmt.Sprintf("r.reader.Data(%d)", offset))
		a.builderExpr = line(fmt.Sprintf("b.builder.Data(%d)", offset))
		a.setterParamType = "[]byte"
		a.setterLines = lines(fmt.Sprintf("b.builder.SetData(%d, value)", offset))
		a.initterParams = []string{"n int32"}
		a.initterReturnType = "[]byte"
		a.initterLines = lines(fmt.Sprintf("return b.builder.NewData(%d, n)", offset))
		return nil

	case kEnum:
		enumID := typ.Enum().TypeId()
		remote, err := c.remote(enumID)
		if err != nil {
			return errors.Wrapf(err, "enum field %s", styledName)
		}
		count, err := enumerantCount(c, enumID)
		if err != nil {
			return errors.Wrapf(err, "enum field %s", styledName)
		}
		a.readerType = remote
		// The getter reports whether the wire value names a declared
		// enumerant: a newer writer may have stored a discriminant this
		// schema does not know.
		a.readerRet = fmt.Sprintf("(%s, bool)", remote)
		a.readerExpr = line(fmt.Sprintf("%s(r.reader.Uint16(%d))", remote, offset))
		a.readerLines = branch{
			line(fmt.Sprintf("v := r.reader.Uint16(%d)", offset)),
			line(fmt.Sprintf("return %s(v), v < %d", remote, count)),
		}
		a.builderType = "" // enums carry no Builder getter beyond the raw setter, per spec §8
		a.builderExpr = line(fmt.Sprintf("%s(b.builder.Uint16(%d))", remote, offset))
		a.setterParamType = a.readerType
		a.setterLines = lines(fmt.Sprintf("b.builder.SetUint16(%d, uint16(value))", offset))
		return nil

	case kStruct:
		remote, err := c.remote(typ.StructType().TypeId())
		if err != nil {
			return errors.Wrapf(err, "struct field %s", styledName)
		}
		a.readerType = remote + "Reader"
		a.builderType = remote + "Builder"
		a.readerExpr = line(fmt.Sprintf("%sReader{reader: r.reader.Struct(%d)}", remote, offset))
		a.builderExpr = line(fmt.Sprintf("%sBuilder{builder: b.builder.Struct(%d, %sStructSize)}", remote, offset, remote))
		a.setterParamType = a.readerType
		a.setterLines = lines(fmt.Sprintf("b.builder.SetStruct(%d, value.reader)", offset))
		a.initterReturnType = a.builderType
		a.initterLines = lines(fmt.Sprintf("return %sBuilder{builder: b.builder.NewStruct(%d, %sStructSize)}", remote, offset, remote))
		return nil

	case kInterface:
		remote, err := c.remote(typ.Interface().TypeId())
		if err != nil {
			return errors.Wrapf(err, "interface field %s", styledName)
		}
		a.readerType = remote + "Client"
		a.builderType = remote + "Client"
		a.readerExpr = line(fmt.Sprintf("%sClient{client: r.reader.Client(%d)}", remote, offset))
		a.builderExpr = line(fmt.Sprintf("%sClient{client: b.builder.Client(%d)}", remote, offset))
		a.setterParamType = a.readerType
		a.setterLines = lines(fmt.Sprintf("b.builder.SetClient(%d, value.client)", offset))
		return nil

	case kAnyPointer:
		a.readerType, a.builderType = "capnp.Ptr", "capnp.Ptr"
		a.readerExpr = line(fmt.Sprintf("r.reader.Ptr(%d)", offset))
		a.builderExpr = line(fmt.Sprintf("b.builder.Ptr(%d)", offset))
		a.initterReturnType = "capnp.Ptr"
		a.initterLines = branch{
			line(fmt.Sprintf("b.builder.ClearPtr(%d)", offset)),
			line(fmt.Sprintf("return b.builder.Ptr(%d)", offset)),
		}
		return nil

	case kList:
		return fillListAccessor(c, a, styledName, offset, typ)
	}
	return errors.Errorf("unrecognized type in field %s", styledName)
}

// fillListAccessor implements spec §4.3.3's "List slot" table, with the
// generic-parameterized list types this Go port uses in place of
// codegen.rs's per-element Reader/Builder module split (DESIGN.md).
func fillListAccessor(c *genCtx, a *accessor, styledName string, offset uint32, listType schema.Type) error {
	elemType, err := listType.List().ElementType()
	if err != nil {
		return errors.Wrapf(err, "list element type of %s", styledName)
	}
	elemKind, err := classifyType(elemType)
	if err != nil {
		return errors.Wrapf(err, "list field %s", styledName)
	}

	switch elemKind {
	case kAnyPointer:
		c.diag.unsupported("List(AnyPointer)", styledName)
		return errUnsupported("List(AnyPointer)", styledName)
	case kInterface:
		c.diag.unsupported("List(Interface)", styledName)
		return errUnsupported("List(Interface)", styledName)
	}

	readerParam, err := listTypeParam(c, elemType, elemKind)
	if err != nil {
		return err
	}

	switch elemKind {
	case kStruct:
		remote, err := c.remote(elemType.StructType().TypeId())
		if err != nil {
			return err
		}
		a.readerType = fmt.Sprintf("capnp.StructList[%sReader]", remote)
		a.builderType = fmt.Sprintf("capnp.StructList[%sBuilder]", remote)
		a.readerExpr = line(fmt.Sprintf("capnp.StructList[%sReader](r.reader.PointerList(%d, %sPreferredListEncoding))", remote, offset, remote))
		a.builderExpr = line(fmt.Sprintf("capnp.StructList[%sBuilder](b.builder.PointerList(%d, %sStructSize))", remote, offset, remote))
		a.initterParams = []string{"n int32"}
		a.initterReturnType = a.builderType
		a.initterLines = lines(fmt.Sprintf("return capnp.StructList[%sBuilder](b.builder.NewStructList(%d, n, %sStructSize))", remote, offset, remote))
	case kList:
		a.readerType = fmt.Sprintf("capnp.ListList[%s]", readerParam)
		a.builderType = a.readerType
		a.readerExpr = line(fmt.Sprintf("capnp.ListList[%s](r.reader.PointerList(%d, capnp.Pointer))", readerParam, offset))
		a.builderExpr = line(fmt.Sprintf("capnp.ListList[%s](b.builder.PointerList(%d, capnp.Pointer))", readerParam, offset))
		a.initterParams = []string{"n int32"}
		a.initterReturnType = a.builderType
		a.initterLines = lines(fmt.Sprintf("return capnp.ListList[%s](b.builder.NewList(%d, n, capnp.Pointer))", readerParam, offset))
	case kText:
		a.readerType, a.builderType = "capnp.TextList", "capnp.TextList"
		a.readerExpr = line(fmt.Sprintf("capnp.TextList(r.reader.PointerList(%d, capnp.Pointer))", offset))
		a.builderExpr = line(fmt.Sprintf("capnp.TextList(b.builder.PointerList(%d, capnp.Pointer))", offset))
		a.initterParams = []string{"n int32"}
		a.initterReturnType = a.builderType
		a.initterLines = lines(fmt.Sprintf("return capnp.TextList(b.builder.NewList(%d, n, capnp.Pointer))", offset))
	case kData:
		a.readerType, a.builderType = "capnp.DataList", "capnp.DataList"
		a.readerExpr = line(fmt.Sprintf("capnp.DataList(r.reader.PointerList(%d, capnp.Pointer))", offset))
		a.builderExpr = line(fmt.Sprintf("capnp.DataList(b.builder.PointerList(%d, capnp.Pointer))", offset))
		a.initterParams = []string{"n int32"}
		a.initterReturnType = a.builderType
		a.initterLines = lines(fmt.Sprintf("return capnp.DataList(b.builder.NewList(%d, n, capnp.Pointer))", offset))
	case kEnum:
		remote, err := c.remote(elemType.Enum().TypeId())
		if err != nil {
			return err
		}
		a.readerType = fmt.Sprintf("capnp.EnumList[%s]", remote)
		a.builderType = a.readerType
		a.readerExpr = line(fmt.Sprintf("capnp.EnumList[%s](r.reader.PointerList(%d, capnp.TwoBytes))", remote, offset))
		a.builderExpr = line(fmt.Sprintf("capnp.EnumList[%s](b.builder.PointerList(%d, capnp.TwoBytes))", remote, offset))
		a.initterParams = []string{"n int32"}
		a.initterReturnType = a.builderType
		a.initterLines = lines(fmt.Sprintf("return capnp.EnumList[%s](b.builder.NewList(%d, n, capnp.TwoBytes))", remote, offset))
	default: // primitive element
		goType := elemKind.goPrimitive()
		sizeName := elemKind.elementSizeName()
		a.readerType = fmt.Sprintf("capnp.List[%s]", goType)
		a.builderType = a.readerType
		a.readerExpr = line(fmt.Sprintf("capnp.List[%s](r.reader.PointerList(%d, capnp.%s))", goType, offset, sizeName))
		a.builderExpr = line(fmt.Sprintf("capnp.List[%s](b.builder.PointerList(%d, capnp.%s))", goType, offset, sizeName))
		a.initterParams = []string{"n int32"}
		a.initterReturnType = a.builderType
		a.initterLines = lines(fmt.Sprintf("return capnp.List[%s](b.builder.NewList(%d, n, capnp.%s))", goType, offset, sizeName))
	}

	a.setterParamType = a.readerType
	a.setterLines = lines(fmt.Sprintf("b.builder.SetPointerList(%d, capnp.PointerList(value))", offset))
	return nil
}

// listTypeParam computes the (possibly recursive) type parameter used
// for a list-of-list's inner capnp.ListList[...] instantiation. Ported
// from codegen.rs's list_list_type_param; the lifetime parameter that
// function threads through the recursion has no Go counterpart (GC
// collapses it, spec §9), so this only threads the element Go type.
func listTypeParam(c *genCtx, elemType schema.Type, elemKind typeKind) (string, error) {
	switch elemKind {
	case kStruct:
		remote, err := c.remote(elemType.StructType().TypeId())
		if err != nil {
			return "", err
		}
		return remote + "Reader", nil
	case kEnum:
		remote, err := c.remote(elemType.Enum().TypeId())
		if err != nil {
			return "", err
		}
		return remote, nil
	case kText:
		return "string", nil
	case kData:
		return "[]byte", nil
	case kList:
		inner, err := elemType.List().ElementType()
		if err != nil {
			return "", err
		}
		innerKind, err := classifyType(inner)
		if err != nil {
			return "", err
		}
		innerParam, err := listTypeParam(c, inner, innerKind)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("capnp.ListList[%s]", innerParam), nil
	case kAnyPointer:
		return "", errUnsupported("List(AnyPointer)", "nested list")
	case kInterface:
		return "", errUnsupported("List(Interface)", "nested list")
	default:
		return elemKind.goPrimitive(), nil
	}
}

// enumerantCount looks up the number of declared enumerants of an enum
// node; the emitted getter compares the wire u16 against it to report
// unknown values. The emitter needs the node's own fields here, so a
// missing id is fatal.
func enumerantCount(c *genCtx, enumID uint64) (int, error) {
	n, err := c.idx.mustFind(enumID)
	if err != nil {
		return 0, err
	}
	enumerants, err := n.Enum().Enumerants()
	if err != nil {
		return 0, errors.Wrapf(err, "reading enumerants of %s", n)
	}
	return enumerants.Len(), nil
}

// boolDefault and primDefault implement spec §4.3.3's "If the schema
// default is the type's zero, emit the unmasked read; otherwise emit the
// masked read" rule, ported from codegen.rs's prim_default.
func boolDefault(v schema.Value) (bool, bool, error) {
	if v.Which() != schema.Value_Which_bool {
		return false, false, nil
	}
	b := v.Bool()
	return b, b, nil
}

func primDefault(v schema.Value) (string, bool, error) {
	switch v.Which() {
	case schema.Value_Which_int8:
		if n := v.Int8(); n != 0 {
			return fmt.Sprintf("%d", n), true, nil
		}
	case schema.Value_Which_int16:
		if n := v.Int16(); n != 0 {
			return fmt.Sprintf("%d", n), true, nil
		}
	case schema.Value_Which_int32:
		if n := v.Int32(); n != 0 {
			return fmt.Sprintf("%d", n), true, nil
		}
	case schema.Value_Which_int64:
		if n := v.Int64(); n != 0 {
			return fmt.Sprintf("%d", n), true, nil
		}
	case schema.Value_Which_uint8:
		if n := v.Uint8(); n != 0 {
			return fmt.Sprintf("%d", n), true, nil
		}
	case schema.Value_Which_uint16:
		if n := v.Uint16(); n != 0 {
			return fmt.Sprintf("%d", n), true, nil
		}
	case schema.Value_Which_uint32:
		if n := v.Uint32(); n != 0 {
			return fmt.Sprintf("%d", n), true, nil
		}
	case schema.Value_Which_uint64:
		if n := v.Uint64(); n != 0 {
			return fmt.Sprintf("%d", n), true, nil
		}
	case schema.Value_Which_float32:
		if f := v.Float32(); f != 0 {
			return fmt.Sprintf("%v", f), true, nil
		}
	case schema.Value_Which_float64:
		if f := v.Float64(); f != 0 {
			return fmt.Sprintf("%v", f), true, nil
		}
	}
	return "", false, nil
}

// zeroFieldsOfGroup builds the statement list that clears every slot
// belonging to a group before a group-valued field's initter hands back
// a fresh builder view, including the group's own discriminant. Ported
// from codegen.rs's zero_fields_of_group, with the dedup key spec's
// design notes prescribe: (offset, representation) rather than the
// source's rendered-text dedup.
func zeroFieldsOfGroup(c *genCtx, groupNodeID uint64) (text, error) {
	n, err := c.idx.mustFind(groupNodeID)
	if err != nil {
		return nil, err
	}
	if n.Which() != schema.Node_Which_structNode {
		return nil, errors.Errorf("zeroFieldsOfGroup: %s is not a struct", n)
	}

	type clearKey struct {
		kind   string
		offset uint32
	}
	seen := make(map[clearKey]bool)
	var out branch

	if n.StructNode().DiscriminantCount() != 0 {
		off, err := n.discriminantOffset()
		if err != nil {
			return nil, err
		}
		out = append(out, line(fmt.Sprintf("b.builder.SetUint16(%d, 0)", off)))
	}

	fields, err := n.StructNode().Fields()
	if err != nil {
		return nil, err
	}
	for i := 0; i < fields.Len(); i++ {
		f := fields.At(i)
		switch f.Which() {
		case schema.Field_Which_group:
			nested, err := zeroFieldsOfGroup(c, f.Group().TypeId())
			if err != nil {
				return nil, err
			}
			out = append(out, nested)
		case schema.Field_Which_slot:
			slot := f.Slot()
			typ, err := slot.Type()
			if err != nil {
				return nil, err
			}
			kind, err := classifyType(typ)
			if err != nil {
				return nil, err
			}
			offset := slot.Offset()
			var stmt string
			var key clearKey
			switch {
			case kind == kVoid:
				continue
			case kind == kBool:
				stmt = fmt.Sprintf("b.builder.SetBool(%d, false)", offset)
				key = clearKey{"Bit", offset}
			case kind == kEnum:
				stmt = fmt.Sprintf("b.builder.SetUint16(%d, 0)", offset)
				key = clearKey{"TwoBytes", offset}
			case kind.isPrimitive():
				// Zero at the field's own width. The dedup key is
				// (width, element offset): union members of the same
				// width share a slot and must be cleared once, while an
				// int32 and an int64 at the same element offset are
				// different slots.
				stmt = fmt.Sprintf("b.builder.Set%s(%d, 0)", capitalize(kind.goPrimitive()), offset)
				key = clearKey{kind.elementSizeName(), offset}
			default: // pointer-ish: Struct, List, Text, Data, AnyPointer, Interface
				stmt = fmt.Sprintf("b.builder.ClearPtr(%d)", offset)
				key = clearKey{"ptr", offset}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, line(stmt))
		}
	}
	return out, nil
}

// hasPredicateExpr builds the boolean expression body of the has_<field>
// predicate of spec §4.3.5: a discriminant check (for fields inside a
// union) and-ed with a pointer-null check. struct_emit.go wraps this
// expression in the actual Has<Field>() method declaration, since only
// it knows the enclosing struct's generated type name.
func hasPredicateExpr(discOffset uint32, f field, offset uint32, isReader bool) text {
	recv, member := receiverLetter(isReader), memberVar(isReader)
	expr := fmt.Sprintf("!%s.%s.PtrIsNull(%d)", recv, member, offset)
	if f.hasDiscriminant() {
		expr = fmt.Sprintf("%s.%s.Uint16(%d) == %d && %s", recv, member, discOffset, f.DiscriminantValue(), expr)
	}
	return line(expr)
}

func receiverLetter(isReader bool) string {
	if isReader {
		return "r"
	}
	return "b"
}
