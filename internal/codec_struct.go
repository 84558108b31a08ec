package moonbridge

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/jerbob92/wazero-moonbridge/types"
)

// structKind copies a fixed size Go struct into and out of a heap block.
type structKind[T any] struct {
	kind Kind
	size uint32
	zero T
	put  func(buf []byte, v T)
	get  func(buf []byte) T
}

type structDecoder interface {
	decodeAt(b *bridge, ptr uint32) (any, error)
}

func (sk *structKind[T]) decodeAt(b *bridge, ptr uint32) (any, error) {
	if ptr == 0 {
		return sk.zero, nil
	}
	buf, ok := b.native.Memory().Read(ptr, sk.size)
	if !ok {
		return nil, fmt.Errorf("could not read %s payload at %d", sk.kind, ptr)
	}
	return sk.get(buf), nil
}

func encodeStruct[T any](ctx context.Context, b *bridge, sk *structKind[T], v T, destructors *[]*destructorFunc) (Value, error) {
	ptr, err := b.native.Malloc(ctx, sk.size)
	if err != nil {
		return Value{}, fmt.Errorf("could not allocate %s payload: %w", sk.kind, err)
	}

	buf := make([]byte, sk.size)
	sk.put(buf, v)
	if !b.native.Memory().Write(ptr, buf) {
		_ = b.native.Free(ctx, ptr)
		return Value{}, fmt.Errorf("could not write %s payload at %d", sk.kind, ptr)
	}

	val := Value{K: sk.kind, U: uint64(ptr)}
	pushDestructor(destructors, "free "+sk.kind.String(), func(ctx context.Context) error {
		return b.freeValue(ctx, val)
	})
	return val, nil
}

func putF64(buf []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(v))
}

func getF64(buf []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
}

func putI32(buf []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(buf[off:], uint32(v))
}

func getI32(buf []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[off:]))
}

func putI64(buf []byte, off int, v int64) {
	binary.LittleEndian.PutUint64(buf[off:], uint64(v))
}

func getI64(buf []byte, off int) int64 {
	return int64(binary.LittleEndian.Uint64(buf[off:]))
}

var pointKind = &structKind[types.Point]{
	kind: KindPoint,
	size: 16,
	put: func(buf []byte, v types.Point) {
		putF64(buf, 0, v.X)
		putF64(buf, 8, v.Y)
	},
	get: func(buf []byte) types.Point {
		return types.Point{X: getF64(buf, 0), Y: getF64(buf, 8)}
	},
}

var sizeKind = &structKind[types.Size]{
	kind: KindSize,
	size: 16,
	put: func(buf []byte, v types.Size) {
		putF64(buf, 0, v.Width)
		putF64(buf, 8, v.Height)
	},
	get: func(buf []byte) types.Size {
		return types.Size{Width: getF64(buf, 0), Height: getF64(buf, 8)}
	},
}

var rectKind = &structKind[types.Rect]{
	kind: KindRect,
	size: 32,
	put: func(buf []byte, v types.Rect) {
		putF64(buf, 0, v.X)
		putF64(buf, 8, v.Y)
		putF64(buf, 16, v.Width)
		putF64(buf, 24, v.Height)
	},
	get: func(buf []byte) types.Rect {
		return types.Rect{X: getF64(buf, 0), Y: getF64(buf, 8), Width: getF64(buf, 16), Height: getF64(buf, 24)}
	},
}

var thicknessKind = &structKind[types.Thickness]{
	kind: KindThickness,
	size: 32,
	put: func(buf []byte, v types.Thickness) {
		putF64(buf, 0, v.Left)
		putF64(buf, 8, v.Top)
		putF64(buf, 16, v.Right)
		putF64(buf, 24, v.Bottom)
	},
	get: func(buf []byte) types.Thickness {
		return types.Thickness{Left: getF64(buf, 0), Top: getF64(buf, 8), Right: getF64(buf, 16), Bottom: getF64(buf, 24)}
	},
}

var cornerRadiusKind = &structKind[types.CornerRadius]{
	kind: KindCornerRadius,
	size: 32,
	put: func(buf []byte, v types.CornerRadius) {
		putF64(buf, 0, v.TopLeft)
		putF64(buf, 8, v.TopRight)
		putF64(buf, 16, v.BottomRight)
		putF64(buf, 24, v.BottomLeft)
	},
	get: func(buf []byte) types.CornerRadius {
		return types.CornerRadius{TopLeft: getF64(buf, 0), TopRight: getF64(buf, 8), BottomRight: getF64(buf, 16), BottomLeft: getF64(buf, 24)}
	},
}

// Colors are stored natively as four doubles in r, g, b, a order.
var colorKind = &structKind[types.Color]{
	kind: KindColor,
	size: 32,
	put: func(buf []byte, v types.Color) {
		r, g, b, a := v.ScRgb()
		putF64(buf, 0, r)
		putF64(buf, 8, g)
		putF64(buf, 16, b)
		putF64(buf, 24, a)
	},
	get: func(buf []byte) types.Color {
		return types.ColorFromScRgb(getF64(buf, 24), getF64(buf, 0), getF64(buf, 8), getF64(buf, 16))
	},
}

var durationKind = &structKind[types.Duration]{
	kind: KindDuration,
	size: 16,
	zero: types.AutomaticDuration,
	put: func(buf []byte, v types.Duration) {
		putI32(buf, 0, int32(v.Kind))
		putI64(buf, 8, int64(v.TimeSpan))
	},
	get: func(buf []byte) types.Duration {
		return types.Duration{Kind: types.DurationKind(getI32(buf, 0)), TimeSpan: types.TimeSpan(getI64(buf, 8))}
	},
}

var keyTimeKind = &structKind[types.KeyTime]{
	kind: KindKeyTime,
	size: 24,
	zero: types.KeyTimeFromTimeSpan(0),
	put: func(buf []byte, v types.KeyTime) {
		putI32(buf, 0, int32(v.Type))
		putF64(buf, 8, v.Percent)
		putI64(buf, 16, int64(v.TimeSpan))
	},
	get: func(buf []byte) types.KeyTime {
		return types.KeyTime{Type: types.KeyTimeType(getI32(buf, 0)), Percent: getF64(buf, 8), TimeSpan: types.TimeSpan(getI64(buf, 16))}
	},
}

var gridLengthKind = &structKind[types.GridLength]{
	kind: KindGridLength,
	size: 16,
	put: func(buf []byte, v types.GridLength) {
		putF64(buf, 0, v.Value)
		putI32(buf, 8, int32(v.UnitType))
	},
	get: func(buf []byte) types.GridLength {
		return types.GridLength{Value: getF64(buf, 0), UnitType: types.GridUnitType(getI32(buf, 8))}
	},
}

var repeatBehaviorKind = &structKind[types.RepeatBehavior]{
	kind: KindRepeatBehavior,
	size: 24,
	put: func(buf []byte, v types.RepeatBehavior) {
		putI32(buf, 0, int32(v.Kind))
		putF64(buf, 8, v.Count)
		putI64(buf, 16, int64(v.Duration))
	},
	get: func(buf []byte) types.RepeatBehavior {
		return types.RepeatBehavior{Kind: types.RepeatKind(getI32(buf, 0)), Count: getF64(buf, 8), Duration: types.TimeSpan(getI64(buf, 16))}
	},
}

var structDecoders = map[Kind]structDecoder{
	KindPoint:          pointKind,
	KindSize:           sizeKind,
	KindRect:           rectKind,
	KindThickness:      thicknessKind,
	KindCornerRadius:   cornerRadiusKind,
	KindColor:          colorKind,
	KindDuration:       durationKind,
	KindKeyTime:        keyTimeKind,
	KindGridLength:     gridLengthKind,
	KindRepeatBehavior: repeatBehaviorKind,
}
