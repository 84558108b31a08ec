package moonbridge

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/jerbob92/wazero-moonbridge/types"
)

// Int32Marshaler is implemented by enumerations that travel as INT32.
type Int32Marshaler interface {
	MarshalInt32() int32
}

// encode converts v into a Value. Every payload the Value owns is released
// by a destructor pushed onto destructors; with nil destructors the caller
// owns the payload and must call freeValue exactly once.
func (b *bridge) encode(ctx context.Context, v any, boxValueTypes bool, destructors *[]*destructorFunc) (Value, error) {
	switch tv := v.(type) {
	case nil:
		return NullValue(KindInvalid), nil
	case bool:
		var i uint64
		if tv {
			i = 1
		}
		return Value{K: KindBool, U: i}, nil
	case int32:
		return Value{K: KindInt32, U: uint64(uint32(tv))}, nil
	case int:
		if tv >= math.MinInt32 && tv <= math.MaxInt32 {
			return Value{K: KindInt32, U: uint64(uint32(int32(tv)))}, nil
		}
		return Value{K: KindInt64, U: uint64(int64(tv))}, nil
	case uint32:
		return Value{K: KindUInt32, U: uint64(tv)}, nil
	case int64:
		return Value{K: KindInt64, U: uint64(tv)}, nil
	case uint64:
		return Value{K: KindUInt64, U: tv}, nil
	case float32:
		return Value{K: KindDouble, U: math.Float64bits(float64(tv))}, nil
	case float64:
		return Value{K: KindDouble, U: math.Float64bits(tv)}, nil
	case types.Char:
		return Value{K: KindChar, U: uint64(uint32(tv))}, nil
	case types.TimeSpan:
		return Value{K: KindTimeSpan, U: uint64(tv)}, nil
	case time.Duration:
		return Value{K: KindTimeSpan, U: uint64(types.TimeSpanFromDuration(tv))}, nil
	case string:
		return b.encodeString(ctx, KindString, tv, destructors)
	case types.XmlLanguage:
		return b.encodeString(ctx, KindXmlLanguage, string(tv), destructors)
	case types.Uri:
		return b.encodeUri(ctx, tv, destructors)
	case types.FontFamily:
		return b.encodeFontFamily(ctx, tv, destructors)
	case types.PropertyPath:
		return b.encodePropertyPath(ctx, tv, destructors)
	case types.Point:
		return encodeStruct(ctx, b, pointKind, tv, destructors)
	case types.Size:
		return encodeStruct(ctx, b, sizeKind, tv, destructors)
	case types.Rect:
		return encodeStruct(ctx, b, rectKind, tv, destructors)
	case types.Thickness:
		return encodeStruct(ctx, b, thicknessKind, tv, destructors)
	case types.CornerRadius:
		return encodeStruct(ctx, b, cornerRadiusKind, tv, destructors)
	case types.Color:
		return encodeStruct(ctx, b, colorKind, tv, destructors)
	case types.Duration:
		return encodeStruct(ctx, b, durationKind, tv, destructors)
	case types.KeyTime:
		return encodeStruct(ctx, b, keyTimeKind, tv, destructors)
	case types.GridLength:
		return encodeStruct(ctx, b, gridLengthKind, tv, destructors)
	case types.RepeatBehavior:
		return encodeStruct(ctx, b, repeatBehaviorKind, tv, destructors)
	case types.Matrix:
		return b.encodeMatrix(ctx, tv, destructors)
	case Int32Marshaler:
		return Value{K: KindInt32, U: uint64(uint32(tv.MarshalInt32()))}, nil
	case *PropertyDescriptor:
		return Value{K: KindDependencyProperty, U: uint64(tv.handle)}, nil
	case *ManagedType:
		return b.encodeManagedTypeInfo(ctx, tv, destructors)
	case Object:
		return b.encodeObject(ctx, tv, destructors)
	}

	if v == types.UnsetValue || !boxValueTypes {
		return Value{}, NewError(PhaseEncode, KindUnsupported).GoType(v).Detail("no value kind for this type").Build()
	}

	return b.encodeManaged(ctx, v, destructors), nil
}

// decode is a read-only view of v: it never frees or retains the payload.
// hint picks the managed type for kinds that several types share.
func (b *bridge) decode(ctx context.Context, v Value, hint *ManagedType) (any, error) {
	if v.IsNull() || v.K == KindInvalid {
		return nil, nil
	}

	switch PayloadOf(v.K) {
	case PayloadString:
		return b.decodeStringKind(v, hint)
	case PayloadStruct:
		if dec, ok := structDecoders[v.K]; ok {
			return dec.decodeAt(b, v.Ptr())
		}
		return b.decodeStringKind(v, hint)
	case PayloadManaged:
		return b.pins.get(int32(v.Ptr()))
	case PayloadProperty:
		return b.properties.fromHandle(PropertyHandle(v.Ptr()))
	case PayloadObject:
		if v.K == KindMatrix {
			return b.decodeMatrix(ctx, Handle(v.Ptr()))
		}
		return b.handles.wrapperFor(ctx, Handle(v.Ptr()))
	}

	switch v.K {
	case KindBool:
		return v.I32() != 0, nil
	case KindChar:
		return types.Char(v.U32()), nil
	case KindInt32:
		if hint != nil && hint.FromInt32 != nil {
			return hint.FromInt32(v.I32()), nil
		}
		return v.I32(), nil
	case KindUInt32:
		return v.U32(), nil
	case KindInt64:
		return v.I64(), nil
	case KindUInt64:
		return v.U, nil
	case KindDouble:
		return v.F64(), nil
	case KindTimeSpan:
		return types.TimeSpan(v.I64()), nil
	}

	return nil, NewError(PhaseDecode, KindUnsupported).Detail("no managed type for kind %s", v.K).Build()
}

// decodeAt decodes the Value stored at ptr. A zero address decodes to nil.
func (b *bridge) decodeAt(ctx context.Context, ptr uint32, hint *ManagedType) (any, error) {
	if ptr == 0 {
		return nil, nil
	}
	v, err := ReadValue(b.native.Memory(), ptr)
	if err != nil {
		return nil, err
	}
	return b.decode(ctx, v, hint)
}

// freeValue releases what v owns. Freeing the same payload twice is reported
// by the native heap.
func (b *bridge) freeValue(ctx context.Context, v Value) error {
	if v.IsNull() {
		return nil
	}

	switch PayloadOf(v.K) {
	case PayloadString:
		if v.Ptr() == 0 {
			return nil
		}
		return b.native.Free(ctx, v.Ptr())
	case PayloadStruct:
		if v.Ptr() == 0 {
			return nil
		}
		layout, _ := StructLayoutOf(v.K)
		for _, off := range layout.Strings {
			ptr, ok := b.native.Memory().ReadUint32Le(v.Ptr() + off)
			if !ok {
				return fmt.Errorf("could not read %s field at %d", v.K, v.Ptr()+off)
			}
			if ptr == 0 {
				continue
			}
			if err := b.native.Free(ctx, ptr); err != nil {
				return err
			}
		}
		return b.native.Free(ctx, v.Ptr())
	case PayloadObject:
		if v.Ptr() == 0 {
			return nil
		}
		return b.native.Release(ctx, Handle(v.Ptr()))
	case PayloadManaged:
		return b.pins.unpin(int32(v.Ptr()))
	}

	return nil
}

type equaler interface {
	Equal(other any) bool
}

// valuesEqual is reference equality for objects and structural equality for
// everything else.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if e, ok := a.(equaler); ok {
		return e.Equal(b)
	}
	// NaN is equal to itself here, a NaN to NaN write is not a change.
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
		}
		return false
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if reflect.ValueOf(a).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
