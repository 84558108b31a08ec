package moonbridge

import (
	"context"
	"fmt"
	"math"

	"github.com/jerbob92/wazero-moonbridge/types"
)

// encodeObject retains the native object so the Value co-owns it.
func (b *bridge) encodeObject(ctx context.Context, obj Object, destructors *[]*destructorFunc) (Value, error) {
	base := BaseOf(obj)
	if base == nil || base.handle == 0 {
		return NullValue(KindDependencyObject), nil
	}
	if base.bridge != b {
		return Value{}, NewError(PhaseEncode, KindContract).GoType(obj).Detail("object belongs to another bridge").Build()
	}

	if err := b.native.Retain(ctx, base.handle); err != nil {
		return Value{}, fmt.Errorf("could not retain object %d: %w", base.handle, err)
	}

	val := Value{K: base.kind, U: uint64(base.handle)}
	pushDestructor(destructors, "release "+base.kind.String(), func(ctx context.Context) error {
		return b.freeValue(ctx, val)
	})
	return val, nil
}

// encodeManaged pins v; the token is the payload.
func (b *bridge) encodeManaged(ctx context.Context, v any, destructors *[]*destructorFunc) Value {
	val := Value{K: KindManaged, U: uint64(uint32(b.pins.pin(v)))}
	pushDestructor(destructors, "unpin "+fmt.Sprintf("%T", v), func(ctx context.Context) error {
		return b.freeValue(ctx, val)
	})
	return val
}

var matrixComponents = [...]string{"M11", "M12", "M21", "M22", "OffsetX", "OffsetY"}

func matrixValues(m types.Matrix) [6]float64 {
	return [6]float64{m.M11, m.M12, m.M21, m.M22, m.OffsetX, m.OffsetY}
}

func (b *bridge) matrixProperties(ctx context.Context) ([6]PropertyHandle, error) {
	var props [6]PropertyHandle
	for i := range matrixComponents {
		prop, ok := b.native.LookupProperty(ctx, KindMatrix, matrixComponents[i])
		if !ok {
			return props, NewError(PhaseLookup, KindNotFound).Property(KindMatrix.String(), matrixComponents[i]).Build()
		}
		props[i] = prop
	}
	return props, nil
}

// encodeMatrix creates a native matrix object. The managed struct and the
// native object do not share a layout, so the components are copied one
// property at a time.
func (b *bridge) encodeMatrix(ctx context.Context, m types.Matrix, destructors *[]*destructorFunc) (Value, error) {
	props, err := b.matrixProperties(ctx)
	if err != nil {
		return Value{}, err
	}

	h, err := b.native.CreateObject(ctx, KindMatrix)
	if err != nil {
		return Value{}, fmt.Errorf("could not create matrix: %w", err)
	}

	values := matrixValues(m)
	for i := range props {
		component := Value{K: KindDouble, U: math.Float64bits(values[i])}
		if err := b.native.SetValue(ctx, h, props[i], &component); err != nil {
			_ = b.native.Release(ctx, h)
			return Value{}, fmt.Errorf("could not set matrix %s: %w", matrixComponents[i], err)
		}
	}

	val := Value{K: KindMatrix, U: uint64(h)}
	pushDestructor(destructors, "release MATRIX", func(ctx context.Context) error {
		return b.freeValue(ctx, val)
	})
	return val, nil
}

func (b *bridge) decodeMatrix(ctx context.Context, h Handle) (any, error) {
	if h == 0 {
		return types.IdentityMatrix, nil
	}

	props, err := b.matrixProperties(ctx)
	if err != nil {
		return nil, err
	}

	var values [6]float64
	for i := range props {
		v, err := b.native.GetValue(ctx, h, props[i])
		if err != nil {
			return nil, fmt.Errorf("could not get matrix %s: %w", matrixComponents[i], err)
		}
		values[i] = v.F64()
	}

	return types.Matrix{
		M11:     values[0],
		M12:     values[1],
		M21:     values[2],
		M22:     values[3],
		OffsetX: values[4],
		OffsetY: values[5],
	}, nil
}
