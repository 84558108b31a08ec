package moonbridge_test

import (
	"math"
	"time"

	moonbridge "github.com/jerbob92/wazero-moonbridge/internal"
	"github.com/jerbob92/wazero-moonbridge/native"
	"github.com/jerbob92/wazero-moonbridge/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type opaque struct {
	Name string
}

var _ = Describe("Encoding and decoding values", func() {
	var h *harness

	BeforeEach(func() {
		h = newHarness(nil)
	})

	AfterEach(func() {
		h.close()
	})

	DescribeTable("round trips",
		func(v any, kind moonbridge.Kind) {
			live := h.core.Heap().Live()

			val, err := h.bridge.Encode(h.ctx, v, false)
			Expect(err).To(BeNil())
			Expect(val.K).To(Equal(kind))

			decoded, err := h.bridge.Decode(h.ctx, val, nil)
			Expect(err).To(BeNil())
			Expect(decoded).To(Equal(v))

			again, err := h.bridge.Encode(h.ctx, decoded, false)
			Expect(err).To(BeNil())
			Expect(again.K).To(Equal(val.K))

			Expect(h.bridge.FreeValue(h.ctx, again)).To(Succeed())
			Expect(h.bridge.FreeValue(h.ctx, val)).To(Succeed())
			Expect(h.core.Heap().Live()).To(Equal(live))
		},
		Entry("bool", true, moonbridge.KindBool),
		Entry("int32", int32(-7), moonbridge.KindInt32),
		Entry("uint32", uint32(7), moonbridge.KindUInt32),
		Entry("int64", int64(-1)<<40, moonbridge.KindInt64),
		Entry("uint64", uint64(1)<<63, moonbridge.KindUInt64),
		Entry("double", 2.5, moonbridge.KindDouble),
		Entry("char", types.Char('x'), moonbridge.KindChar),
		Entry("time span", types.TimeSpan(12345678), moonbridge.KindTimeSpan),
		Entry("string", "text", moonbridge.KindString),
		Entry("xml language", types.XmlLanguage("nl-NL"), moonbridge.KindXmlLanguage),
		Entry("uri", types.Uri{OriginalString: "http://example.com/a.png"}, moonbridge.KindUri),
		Entry("font family", types.FontFamily{Source: "Arial"}, moonbridge.KindFontFamily),
		Entry("property path", types.PropertyPath{Path: "Margin.Left"}, moonbridge.KindPropertyPath),
		Entry("point", types.Point{X: 1, Y: -2}, moonbridge.KindPoint),
		Entry("size", types.Size{Width: 3, Height: 4}, moonbridge.KindSize),
		Entry("rect", types.Rect{X: 1, Y: 2, Width: 3, Height: 4}, moonbridge.KindRect),
		Entry("thickness", types.Thickness{Left: 1, Top: 2, Right: 3, Bottom: 4}, moonbridge.KindThickness),
		Entry("corner radius", types.UniformCornerRadius(5), moonbridge.KindCornerRadius),
		Entry("color", types.ColorFromArgb(0xff, 0x10, 0x20, 0x30), moonbridge.KindColor),
		Entry("duration", types.DurationFromTimeSpan(types.TicksPerSecond), moonbridge.KindDuration),
		Entry("forever duration", types.ForeverDuration, moonbridge.KindDuration),
		Entry("key time", types.KeyTimeFromTimeSpan(42), moonbridge.KindKeyTime),
		Entry("grid length", types.GridLength{Value: 2, UnitType: types.GridUnitStar}, moonbridge.KindGridLength),
		Entry("repeat behavior", types.RepeatBehaviorFromCount(3), moonbridge.KindRepeatBehavior),
		Entry("matrix", types.Matrix{M11: 2, M12: 0, M21: 0, M22: 2, OffsetX: 10, OffsetY: 20}, moonbridge.KindMatrix),
	)

	It("encodes doubles bit exactly", func() {
		val, err := h.bridge.Encode(h.ctx, 3.14, false)
		Expect(err).To(BeNil())
		Expect(val.K).To(Equal(moonbridge.KindDouble))
		Expect(val.U).To(Equal(math.Float64bits(3.14)))

		decoded, err := h.bridge.Decode(h.ctx, val, nil)
		Expect(err).To(BeNil())
		Expect(decoded).To(Equal(3.14))
	})

	It("owns string buffers exactly once", func() {
		val, err := h.bridge.Encode(h.ctx, "hello", false)
		Expect(err).To(BeNil())

		size, ok := h.core.Heap().SizeOf(val.Ptr())
		Expect(ok).To(BeTrue())
		Expect(size).To(Equal(uint32(6)))

		raw, ok := h.core.Memory().Read(val.Ptr(), 6)
		Expect(ok).To(BeTrue())
		Expect(raw).To(Equal([]byte("hello\x00")))

		decoded, err := h.bridge.Decode(h.ctx, val, nil)
		Expect(err).To(BeNil())
		Expect(decoded).To(Equal("hello"))

		Expect(h.bridge.FreeValue(h.ctx, val)).To(Succeed())
		Expect(h.bridge.FreeValue(h.ctx, val)).To(MatchError(native.ErrInvalidFree))
	})

	DescribeTable("refuses strings with a NUL byte",
		func(v any) {
			used := h.core.Heap().Live()
			_, err := h.bridge.Encode(h.ctx, v, false)
			Expect(err).To(MatchError(&moonbridge.Error{Phase: moonbridge.PhaseEncode, Kind: moonbridge.KindContract}))
			Expect(h.core.Heap().Live()).To(Equal(used))
		},
		Entry("string", "a\x00b"),
		Entry("xml language", types.XmlLanguage("en\x00US")),
		Entry("uri", types.Uri{OriginalString: "http://a\x00b"}),
		Entry("font family", types.FontFamily{Source: "Arial\x00"}),
	)

	It("encodes booleans as 0 and 1 and durations as ticks", func() {
		val, err := h.bridge.Encode(h.ctx, false, false)
		Expect(err).To(BeNil())
		Expect(val.I32()).To(Equal(int32(0)))

		val, err = h.bridge.Encode(h.ctx, true, false)
		Expect(err).To(BeNil())
		Expect(val.I32()).To(Equal(int32(1)))

		val, err = h.bridge.Encode(h.ctx, 2*time.Second, false)
		Expect(err).To(BeNil())
		Expect(val.K).To(Equal(moonbridge.KindTimeSpan))
		Expect(val.I64()).To(Equal(int64(2 * types.TicksPerSecond)))
	})

	It("picks the enumeration from the hint", func() {
		val, err := h.bridge.Encode(h.ctx, types.FontWeightBold, false)
		Expect(err).To(BeNil())
		Expect(val.K).To(Equal(moonbridge.KindInt32))

		plain, err := h.bridge.Decode(h.ctx, val, nil)
		Expect(err).To(BeNil())
		Expect(plain).To(Equal(int32(700)))

		weight, err := h.bridge.Decode(h.ctx, val, moonbridge.TypeFontWeight)
		Expect(err).To(BeNil())
		Expect(weight).To(Equal(types.FontWeightBold))

		cursor, err := h.bridge.Decode(h.ctx, moonbridge.Value{K: moonbridge.KindInt32, U: uint64(uint32(types.CursorHand))}, moonbridge.TypeCursorType)
		Expect(err).To(BeNil())
		Expect(cursor).To(Equal(types.CursorHand))
	})

	It("decodes a missing payload to the zero value", func() {
		v, err := h.bridge.Decode(h.ctx, moonbridge.Value{K: moonbridge.KindThickness}, nil)
		Expect(err).To(BeNil())
		Expect(v).To(Equal(types.Thickness{}))

		v, err = h.bridge.Decode(h.ctx, moonbridge.Value{K: moonbridge.KindMatrix}, nil)
		Expect(err).To(BeNil())
		Expect(v).To(Equal(types.IdentityMatrix))

		v, err = h.bridge.Decode(h.ctx, moonbridge.NullValue(moonbridge.KindThickness), nil)
		Expect(err).To(BeNil())
		Expect(v).To(BeNil())
	})

	It("uses the hint for plain strings", func() {
		val, err := h.bridge.Encode(h.ctx, "Courier", false)
		Expect(err).To(BeNil())
		defer h.bridge.FreeValue(h.ctx, val)

		v, err := h.bridge.Decode(h.ctx, val, moonbridge.TypeFontFamily)
		Expect(err).To(BeNil())
		Expect(v).To(Equal(types.FontFamily{Source: "Courier"}))
	})

	It("sends a native property path without its text", func() {
		val, err := h.bridge.Encode(h.ctx, types.PropertyPath{Path: "ignored", NativeProperty: 12}, false)
		Expect(err).To(BeNil())
		defer h.bridge.FreeValue(h.ctx, val)

		v, err := h.bridge.Decode(h.ctx, val, nil)
		Expect(err).To(BeNil())
		Expect(v).To(Equal(types.PropertyPath{NativeProperty: 12}))
	})

	It("encodes managed types by name", func() {
		_, err := h.bridge.FindType(h.ctx, typeGauge)
		Expect(err).To(BeNil())

		val, err := h.bridge.Encode(h.ctx, typeGauge, false)
		Expect(err).To(BeNil())
		Expect(val.K).To(Equal(moonbridge.KindManagedTypeInfo))
		defer h.bridge.FreeValue(h.ctx, val)

		v, err := h.bridge.Decode(h.ctx, val, nil)
		Expect(err).To(BeNil())
		Expect(v).To(BeIdenticalTo(typeGauge))
	})

	When("a value has no native kind", func() {
		It("fails without boxing", func() {
			_, err := h.bridge.Encode(h.ctx, opaque{Name: "a"}, false)
			Expect(err).To(MatchError(moonbridge.ErrUnsupportedValueKind))

			_, err = h.bridge.Encode(h.ctx, types.UnsetValue, true)
			Expect(err).To(MatchError(moonbridge.ErrUnsupportedValueKind))
		})

		It("pins it when boxing", func() {
			v := &opaque{Name: "a"}
			val, err := h.bridge.Encode(h.ctx, v, true)
			Expect(err).To(BeNil())
			Expect(val.K).To(Equal(moonbridge.KindManaged))

			token := int32(val.Ptr())
			Expect(h.bridge.PinCount(token)).To(Equal(1))

			decoded, err := h.bridge.Decode(h.ctx, val, nil)
			Expect(err).To(BeNil())
			Expect(decoded).To(BeIdenticalTo(v))

			Expect(h.bridge.FreeValue(h.ctx, val)).To(Succeed())
			Expect(h.bridge.PinCount(token)).To(BeZero())
			_, err = h.bridge.Pinned(token)
			Expect(err).ToNot(BeNil())
		})
	})

	When("values are pinned", func() {
		It("shares the token of equal values", func() {
			a := h.bridge.Pin(opaque{Name: "x"})
			b := h.bridge.Pin(opaque{Name: "x"})
			Expect(a).To(Equal(b))
			Expect(h.bridge.PinCount(a)).To(Equal(2))

			Expect(h.bridge.Unpin(a)).To(Succeed())
			Expect(h.bridge.PinCount(a)).To(Equal(1))
			Expect(h.bridge.Unpin(a)).To(Succeed())
			Expect(h.bridge.Unpin(a)).ToNot(Succeed())
		})

		It("reuses freed slots", func() {
			a := h.bridge.Pin(map[string]int{"a": 1})
			Expect(h.bridge.Unpin(a)).To(Succeed())

			b := h.bridge.Pin(map[string]int{"b": 2})
			Expect(b).To(Equal(a))
			v, err := h.bridge.Pinned(b)
			Expect(err).To(BeNil())
			Expect(v).To(Equal(map[string]int{"b": 2}))
			Expect(h.bridge.Unpin(b)).To(Succeed())
		})

		It("never hands out token 0", func() {
			Expect(h.bridge.Pin(1)).ToNot(BeZero())
			_, err := h.bridge.Pinned(0)
			Expect(err).ToNot(BeNil())
		})
	})
})
