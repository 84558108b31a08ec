package moonbridge

import (
	"fmt"
	"math"

	"github.com/tetratelabs/wazero/api"
)

// ValueSize is the size of a Value in native memory: the kind at +0, the
// bitfield at +4 and the payload union at +8.
const ValueSize = 16

const valueNullFlag int32 = 1

// Value is the tagged union exchanged with the native core. U holds either
// an inline scalar or the address of a heap block, depending on K.
type Value struct {
	K        Kind
	Bitfield int32
	U        uint64
}

func NullValue(k Kind) Value {
	return Value{K: k, Bitfield: valueNullFlag}
}

func (v Value) IsNull() bool {
	return v.Bitfield&valueNullFlag != 0
}

func (v Value) I32() int32 {
	return int32(uint32(v.U))
}

func (v Value) U32() uint32 {
	return uint32(v.U)
}

func (v Value) I64() int64 {
	return int64(v.U)
}

func (v Value) F64() float64 {
	return math.Float64frombits(v.U)
}

// Ptr returns the heap address or handle held by the payload.
func (v Value) Ptr() uint32 {
	return uint32(v.U)
}

func (v Value) String() string {
	if v.IsNull() {
		return fmt.Sprintf("{%s null}", v.K)
	}
	return fmt.Sprintf("{%s 0x%x}", v.K, v.U)
}

func ReadValue(mem api.Memory, ptr uint32) (Value, error) {
	k, ok := mem.ReadUint32Le(ptr)
	if !ok {
		return Value{}, fmt.Errorf("could not read value kind at %d", ptr)
	}
	bits, ok := mem.ReadUint32Le(ptr + 4)
	if !ok {
		return Value{}, fmt.Errorf("could not read value bitfield at %d", ptr)
	}
	u, ok := mem.ReadUint64Le(ptr + 8)
	if !ok {
		return Value{}, fmt.Errorf("could not read value payload at %d", ptr)
	}
	return Value{K: Kind(k), Bitfield: int32(bits), U: u}, nil
}

func WriteValue(mem api.Memory, ptr uint32, v Value) error {
	if !mem.WriteUint32Le(ptr, uint32(v.K)) ||
		!mem.WriteUint32Le(ptr+4, uint32(v.Bitfield)) ||
		!mem.WriteUint64Le(ptr+8, v.U) {
		return fmt.Errorf("could not write value at %d", ptr)
	}
	return nil
}

// PayloadClass describes what the payload of a kind refers to and therefore
// who owns it.
type PayloadClass int

const (
	// PayloadInline is a scalar stored in the union itself.
	PayloadInline PayloadClass = iota
	// PayloadString is the address of a NUL terminated UTF-8 buffer.
	PayloadString
	// PayloadStruct is the address of a fixed size block, see StructLayoutOf.
	PayloadStruct
	// PayloadObject is a reference counted native object handle.
	PayloadObject
	// PayloadManaged is a pin token of a managed object.
	PayloadManaged
	// PayloadProperty is a property handle. Property handles are never freed.
	PayloadProperty
)

// StructLayout is the size of a struct payload and the offsets of the
// string addresses nested in it. Nested strings are owned by the struct.
type StructLayout struct {
	Size    uint32
	Strings []uint32
}

var structLayouts = map[Kind]StructLayout{
	KindPoint:           {Size: 16},
	KindSize:            {Size: 16},
	KindRect:            {Size: 32},
	KindThickness:       {Size: 32},
	KindCornerRadius:    {Size: 32},
	KindColor:           {Size: 32},
	KindDuration:        {Size: 16},
	KindKeyTime:         {Size: 24},
	KindGridLength:      {Size: 16},
	KindRepeatBehavior:  {Size: 24},
	KindUri:             {Size: 8, Strings: []uint32{0}},
	KindFontFamily:      {Size: 8, Strings: []uint32{0}},
	KindPropertyPath:    {Size: 8, Strings: []uint32{0}},
	KindManagedTypeInfo: {Size: 8, Strings: []uint32{0, 4}},
}

func StructLayoutOf(k Kind) (StructLayout, bool) {
	l, ok := structLayouts[k]
	return l, ok
}

func PayloadOf(k Kind) PayloadClass {
	switch k {
	case KindInvalid, KindBool, KindChar, KindInt32, KindUInt32, KindInt64, KindUInt64, KindDouble, KindTimeSpan:
		return PayloadInline
	case KindString, KindXmlLanguage:
		return PayloadString
	case KindManaged:
		return PayloadManaged
	case KindDependencyProperty:
		return PayloadProperty
	}
	if _, ok := structLayouts[k]; ok {
		return PayloadStruct
	}
	return PayloadObject
}
