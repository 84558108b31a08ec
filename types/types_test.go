package types_test

import (
	"fmt"
	"time"

	"github.com/jerbob92/wazero-moonbridge/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Color", func() {
	It("survives the trip through normalized channels", func() {
		for _, c := range []types.Color{
			types.ColorFromArgb(255, 0, 0, 0),
			types.ColorFromArgb(128, 12, 200, 255),
			types.ColorFromArgb(0, 1, 2, 3),
		} {
			r, g, b, a := c.ScRgb()
			Expect(types.ColorFromScRgb(a, r, g, b)).To(Equal(c))
		}
	})

	It("clamps out of range channels", func() {
		Expect(types.ColorFromScRgb(2, -1, 0.5, 1)).To(Equal(types.Color{A: 255, R: 0, G: 128, B: 255}))
	})

	It("prints as hex", func() {
		Expect(types.ColorFromArgb(255, 16, 32, 48).String()).To(Equal("#FF102030"))
	})
})

var _ = Describe("Matrix", func() {
	It("knows the identity", func() {
		Expect(types.IdentityMatrix.IsIdentity()).To(BeTrue())
		Expect(types.Matrix{}.IsIdentity()).To(BeFalse())
	})

	It("transforms points", func() {
		m := types.Matrix{M11: 2, M22: 3, OffsetX: 1, OffsetY: -1}
		Expect(m.Transform(types.Point{X: 1, Y: 1})).To(Equal(types.Point{X: 3, Y: 2}))
		Expect(types.IdentityMatrix.Transform(types.Point{X: 5, Y: 7})).To(Equal(types.Point{X: 5, Y: 7}))
	})
})

var _ = Describe("Geometry", func() {
	It("builds uniform values", func() {
		Expect(types.UniformThickness(2)).To(Equal(types.Thickness{Left: 2, Top: 2, Right: 2, Bottom: 2}))
		Expect(types.UniformCornerRadius(4).BottomLeft).To(Equal(4.0))
	})

	It("treats degenerate rects as empty", func() {
		Expect(types.Rect{Width: 1, Height: 0}.IsEmpty()).To(BeTrue())
		Expect(types.Rect{Width: 1, Height: 1}.IsEmpty()).To(BeFalse())
	})
})

var _ = Describe("Time", func() {
	It("converts between ticks and durations", func() {
		ts := types.TimeSpanFromDuration(1500 * time.Millisecond)
		Expect(ts).To(Equal(15 * types.TicksPerSecond / 10))
		Expect(ts.Duration()).To(Equal(1500 * time.Millisecond))
		Expect(ts.Seconds()).To(Equal(1.5))
	})

	It("names special durations", func() {
		Expect(types.AutomaticDuration.String()).To(Equal("Automatic"))
		Expect(types.ForeverDuration.String()).To(Equal("Forever"))
		Expect(types.ForeverDuration.HasTimeSpan()).To(BeFalse())

		d := types.DurationFromTimeSpan(types.TicksPerSecond)
		Expect(d.HasTimeSpan()).To(BeTrue())
		Expect(d.String()).To(Equal("1s"))
	})

	DescribeTable("key time percentages",
		func(p float64, valid bool) {
			kt, err := types.KeyTimeFromPercent(p)
			if valid {
				Expect(err).To(BeNil())
				Expect(kt.Type).To(Equal(types.KeyTimePercent))
				Expect(kt.Percent).To(Equal(p))
			} else {
				Expect(err).ToNot(BeNil())
			}
		},
		func(p float64, valid bool) string {
			return fmt.Sprintf("%v valid=%v", p, valid)
		},
		Entry(nil, 0.0, true),
		Entry(nil, 0.5, true),
		Entry(nil, 1.0, true),
		Entry(nil, -0.1, false),
		Entry(nil, 1.1, false),
	)

	It("builds repeat behaviors", func() {
		Expect(types.RepeatBehaviorFromCount(3)).To(Equal(types.RepeatBehavior{Kind: types.RepeatCount, Count: 3}))
		Expect(types.RepeatBehaviorFromDuration(10).Duration).To(Equal(types.TimeSpan(10)))
		Expect(types.ForeverRepeatBehavior.Kind).To(Equal(types.RepeatForever))
	})

	It("defaults grid lengths to auto", func() {
		Expect(types.GridLength{}.IsAuto()).To(BeTrue())
		Expect(types.GridLength{Value: 1, UnitType: types.GridUnitStar}.IsAuto()).To(BeFalse())
	})
})

var _ = Describe("Text", func() {
	It("detects absolute uris", func() {
		Expect(types.Uri{OriginalString: "https://example.com/a.png"}.IsAbsolute()).To(BeTrue())
		Expect(types.Uri{OriginalString: "images/a.png"}.IsAbsolute()).To(BeFalse())
	})

	It("prints the unset value", func() {
		Expect(fmt.Sprint(types.UnsetValue)).ToNot(BeEmpty())
	})

	It("marshals enums to their value", func() {
		Expect(types.FontWeightBold.MarshalInt32()).To(Equal(int32(types.FontWeightBold)))
		Expect(types.Collapsed.MarshalInt32()).To(Equal(int32(types.Collapsed)))
	})
})
