package codegen

import schema "capnproto.org/go/capnp/v3/std/capnp/schema"

// typeKind classifies a schema.Type into the sum spec §3 describes,
// centralizing the Type.Which() switch so the rest of the emitter never
// has to repeat it.
type typeKind int

const (
	kVoid typeKind = iota
	kBool
	kInt8
	kInt16
	kInt32
	kInt64
	kUint8
	kUint16
	kUint32
	kUint64
	kFloat32
	kFloat64
	kText
	kData
	kList
	kEnum
	kStruct
	kInterface
	kAnyPointer
)

func classifyType(t schema.Type) (typeKind, error) {
	switch t.Which() {
	case schema.Type_Which_void:
		return kVoid, nil
	case schema.Type_Which_bool:
		return kBool, nil
	case schema.Type_Which_int8:
		return kInt8, nil
	case schema.Type_Which_int16:
		return kInt16, nil
	case schema.Type_Which_int32:
		return kInt32, nil
	case schema.Type_Which_int64:
		return kInt64, nil
	case schema.Type_Which_uint8:
		return kUint8, nil
	case schema.Type_Which_uint16:
		return kUint16, nil
	case schema.Type_Which_uint32:
		return kUint32, nil
	case schema.Type_Which_uint64:
		return kUint64, nil
	case schema.Type_Which_float32:
		return kFloat32, nil
	case schema.Type_Which_float64:
		return kFloat64, nil
	case schema.Type_Which_text:
		return kText, nil
	case schema.Type_Which_data:
		return kData, nil
	case schema.Type_Which_list:
		return kList, nil
	case schema.Type_Which_enum:
		return kEnum, nil
	case schema.Type_Which_structType:
		return kStruct, nil
	case schema.Type_Which_interface:
		return kInterface, nil
	case schema.Type_Which_anyPointer:
		return kAnyPointer, nil
	default:
		return 0, errMalformed("type discriminant", nil)
	}
}

func (k typeKind) isPrimitive() bool {
	return k >= kVoid && k <= kFloat64
}

// isPointerish reports whether a field of this kind occupies a
// pointer-field slot rather than a data-word slot; spec ties has_
// predicate eligibility and group-field clearing rules to this split.
func (k typeKind) isPointerish() bool {
	switch k {
	case kText, kData, kList, kStruct, kInterface, kAnyPointer:
		return true
	}
	return false
}

// goPrimitive returns the Go type for a primitive kind (Void through
// Float64), and "" for every other kind, enums included.
func (k typeKind) goPrimitive() string {
	switch k {
	case kVoid:
		return "struct{}"
	case kBool:
		return "bool"
	case kInt8:
		return "int8"
	case kInt16:
		return "int16"
	case kInt32:
		return "int32"
	case kInt64:
		return "int64"
	case kUint8:
		return "uint8"
	case kUint16:
		return "uint16"
	case kUint32:
		return "uint32"
	case kUint64:
		return "uint64"
	case kFloat32:
		return "float32"
	case kFloat64:
		return "float64"
	}
	return ""
}

// elementSizeConstName maps the schema's preferredListEncoding enum onto
// the runtime ElementSize constant name the emitted code spells out.
func elementSizeConstName(e schema.ElementSize) string {
	switch e {
	case schema.ElementSize_empty:
		return "Void"
	case schema.ElementSize_bit:
		return "Bit"
	case schema.ElementSize_byte:
		return "Byte"
	case schema.ElementSize_twoBytes:
		return "TwoBytes"
	case schema.ElementSize_fourBytes:
		return "FourBytes"
	case schema.ElementSize_eightBytes:
		return "EightBytes"
	case schema.ElementSize_pointer:
		return "Pointer"
	default:
		return "InlineComposite"
	}
}

// elementSizeName returns the element-size name the runtime's ElementSize
// enum uses for a list of this element (spec glossary: Void/Bit/Byte/
// TwoBytes/FourBytes/EightBytes/Pointer/InlineComposite).
func (k typeKind) elementSizeName() string {
	switch k {
	case kVoid:
		return "Void"
	case kBool:
		return "Bit"
	case kInt8, kUint8:
		return "Byte"
	case kInt16, kUint16, kEnum:
		return "TwoBytes"
	case kInt32, kUint32, kFloat32:
		return "FourBytes"
	case kInt64, kUint64, kFloat64:
		return "EightBytes"
	case kText, kData, kList, kStruct, kInterface, kAnyPointer:
		return "Pointer"
	}
	return ""
}
