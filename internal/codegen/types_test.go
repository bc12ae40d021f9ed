package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	schema "capnproto.org/go/capnp/v3/std/capnp/schema"
)

func TestElementSizeConstName(t *testing.T) {
	cases := map[schema.ElementSize]string{
		schema.ElementSize_empty:           "Void",
		schema.ElementSize_bit:             "Bit",
		schema.ElementSize_byte:            "Byte",
		schema.ElementSize_twoBytes:        "TwoBytes",
		schema.ElementSize_fourBytes:       "FourBytes",
		schema.ElementSize_eightBytes:      "EightBytes",
		schema.ElementSize_pointer:         "Pointer",
		schema.ElementSize_inlineComposite: "InlineComposite",
	}
	for in, want := range cases {
		assert.Equal(t, want, elementSizeConstName(in))
	}
}

func TestTypeKindPointerishSplit(t *testing.T) {
	pointerish := []typeKind{kText, kData, kList, kStruct, kInterface, kAnyPointer}
	for _, k := range pointerish {
		assert.True(t, k.isPointerish(), "kind %d", k)
	}
	dataSlot := []typeKind{kVoid, kBool, kInt8, kInt64, kUint32, kFloat64, kEnum}
	for _, k := range dataSlot {
		assert.False(t, k.isPointerish(), "kind %d", k)
	}
}

func TestTypeKindElementSizeName(t *testing.T) {
	cases := map[typeKind]string{
		kVoid:    "Void",
		kBool:    "Bit",
		kInt8:    "Byte",
		kUint8:   "Byte",
		kInt16:   "TwoBytes",
		kEnum:    "TwoBytes",
		kFloat32: "FourBytes",
		kUint64:  "EightBytes",
		kText:    "Pointer",
		kList:    "Pointer",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.elementSizeName())
	}
}

func TestTypeKindGoPrimitive(t *testing.T) {
	assert.Equal(t, "uint32", kUint32.goPrimitive())
	assert.Equal(t, "float64", kFloat64.goPrimitive())
	assert.Equal(t, "bool", kBool.goPrimitive())
	assert.Equal(t, "", kStruct.goPrimitive(), "pointer kinds have no primitive name")
}
