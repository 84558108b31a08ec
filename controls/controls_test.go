package controls_test

import (
	"context"
	"math"

	moonbridge "github.com/jerbob92/wazero-moonbridge"
	"github.com/jerbob92/wazero-moonbridge/controls"
	"github.com/jerbob92/wazero-moonbridge/native"
	"github.com/jerbob92/wazero-moonbridge/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Controls", func() {
	var core *native.Core
	var bridge moonbridge.Bridge

	BeforeEach(func() {
		var err error
		core, err = native.New(ctx)
		Expect(err).To(BeNil())

		bridge, err = moonbridge.CreateBridge(ctx, core, nil)
		Expect(err).To(BeNil())
		Expect(controls.Register(ctx, bridge)).To(Succeed())
	})

	AfterEach(func() {
		Expect(bridge.Close(ctx)).To(Succeed())
		Expect(core.Close(ctx)).To(Succeed())
	})

	newControl := func() *controls.Control {
		obj, err := bridge.NewObject(ctx, controls.TypeControl)
		Expect(err).To(BeNil())
		Expect(obj).To(BeAssignableToTypeOf(&controls.Control{}))
		return obj.(*controls.Control)
	}

	It("maps the builtin kinds to the control types", func() {
		Expect(bridge.KindToType(moonbridge.KindCanvas)).To(BeIdenticalTo(controls.TypeCanvas))
		Expect(bridge.KindToType(moonbridge.KindUIElement)).To(BeIdenticalTo(controls.TypeUIElement))
		Expect(core.RegisteredTypes()).To(ConsistOf("System.Windows.Controls.Primitives:RangeBase"))
	})

	It("reads the native defaults", func() {
		c := newControl()

		opacity, err := c.Opacity(ctx)
		Expect(err).To(BeNil())
		Expect(opacity).To(Equal(1.0))

		maxWidth, err := c.MaxWidth(ctx)
		Expect(err).To(BeNil())
		Expect(math.IsInf(maxWidth, 1)).To(BeTrue())

		weight, err := c.FontWeight(ctx)
		Expect(err).To(BeNil())
		Expect(weight).To(Equal(types.FontWeightNormal))

		cursor, err := c.Cursor(ctx)
		Expect(err).To(BeNil())
		Expect(cursor).To(Equal(types.CursorDefault))

		family, err := c.FontFamily(ctx)
		Expect(err).To(BeNil())
		Expect(family).To(Equal(types.FontFamily{Source: "Portable User Interface"}))

		language, err := c.Language(ctx)
		Expect(err).To(BeNil())
		Expect(language).To(Equal(types.XmlLanguage("en-US")))

		tag, err := c.Tag(ctx)
		Expect(err).To(BeNil())
		Expect(tag).To(BeNil())
	})

	It("writes values through the inherited accessors", func() {
		c := newControl()

		Expect(c.SetOpacity(ctx, 0.5)).To(Succeed())
		Expect(c.SetMargin(ctx, types.UniformThickness(4))).To(Succeed())
		Expect(c.SetIsEnabled(ctx, false)).To(Succeed())
		Expect(c.SetFontWeight(ctx, types.FontWeightBold)).To(Succeed())
		Expect(c.SetName(ctx, "submit")).To(Succeed())

		opacity, err := c.Opacity(ctx)
		Expect(err).To(BeNil())
		Expect(opacity).To(Equal(0.5))

		margin, err := c.Margin(ctx)
		Expect(err).To(BeNil())
		Expect(margin).To(Equal(types.UniformThickness(4)))

		enabled, err := c.IsEnabled(ctx)
		Expect(err).To(BeNil())
		Expect(enabled).To(BeFalse())

		weight, err := c.FontWeight(ctx)
		Expect(err).To(BeNil())
		Expect(weight).To(Equal(types.FontWeightBold))

		name, err := c.Name(ctx)
		Expect(err).To(BeNil())
		Expect(name).To(Equal("submit"))
	})

	It("keeps object identity through content", func() {
		obj, err := bridge.NewObject(ctx, controls.TypeUserControl)
		Expect(err).To(BeNil())
		uc := obj.(*controls.UserControl)

		obj, err = bridge.NewObject(ctx, controls.TypeCanvas)
		Expect(err).To(BeNil())
		canvas := obj.(*controls.Canvas)

		Expect(uc.SetContent(ctx, canvas)).To(Succeed())

		content, err := uc.Content(ctx)
		Expect(err).To(BeNil())
		Expect(content).To(BeIdenticalTo(canvas))

		Expect(uc.SetContent(ctx, nil)).To(Succeed())
		content, err = uc.Content(ctx)
		Expect(err).To(BeNil())
		Expect(content).To(BeNil())
	})

	It("wraps native objects with the control types", func() {
		h, err := core.CreateObject(bridge.Attach(ctx), moonbridge.KindCanvas)
		Expect(err).To(BeNil())

		obj, err := bridge.WrapperFor(ctx, h)
		Expect(err).To(BeNil())
		Expect(obj).To(BeAssignableToTypeOf(&controls.Canvas{}))
		Expect(core.Release(bridge.Attach(ctx), h)).To(Succeed())
	})

	When("using attached properties", func() {
		It("sets them on any element", func() {
			c := newControl()

			left, err := controls.GetCanvasLeft(ctx, c)
			Expect(err).To(BeNil())
			Expect(left).To(Equal(0.0))

			Expect(controls.SetCanvasLeft(ctx, c, 12)).To(Succeed())
			Expect(controls.SetCanvasZIndex(ctx, c, 3)).To(Succeed())

			left, err = controls.GetCanvasLeft(ctx, c)
			Expect(err).To(BeNil())
			Expect(left).To(Equal(12.0))

			z, err := controls.GetCanvasZIndex(ctx, c)
			Expect(err).To(BeNil())
			Expect(z).To(Equal(int32(3)))
		})

		It("refuses a nil target", func() {
			_, err := controls.GetCanvasLeft(ctx, nil)
			Expect(err).ToNot(BeNil())
		})
	})

	When("using a registered control", func() {
		var rb *controls.RangeBase

		BeforeEach(func() {
			obj, err := bridge.NewObject(ctx, controls.TypeRangeBase)
			Expect(err).To(BeNil())
			rb = obj.(*controls.RangeBase)
		})

		It("registers its properties", func() {
			value, err := rb.Value(ctx)
			Expect(err).To(BeNil())
			Expect(value).To(Equal(0.0))

			Expect(rb.SetMaximum(ctx, 100)).To(Succeed())
			Expect(rb.SetValue(ctx, 42)).To(Succeed())

			value, err = rb.Value(ctx)
			Expect(err).To(BeNil())
			Expect(value).To(Equal(42.0))

			// Inherited builtin properties keep working.
			size, err := rb.FontSize(ctx)
			Expect(err).To(BeNil())
			Expect(size).To(Equal(11.0))
		})

		It("raises its events to native listeners", func() {
			Expect(rb.RaiseValueChanged(ctx, 1.0)).To(Succeed())

			var got []float64
			attached := bridge.Attach(ctx)
			token, err := core.Subscribe(attached, moonbridge.BaseOf(rb).Handle(), "ValueChanged", func(ctx context.Context, args moonbridge.Value) error {
				got = append(got, args.F64())
				return nil
			})
			Expect(err).To(BeNil())

			Expect(rb.RaiseValueChanged(ctx, 2.5)).To(Succeed())
			Expect(got).To(Equal([]float64{2.5}))

			Expect(core.Unsubscribe(attached, moonbridge.BaseOf(rb).Handle(), "ValueChanged", token)).To(Succeed())
			Expect(rb.RaiseValueChanged(ctx, 3.0)).To(Succeed())
			Expect(got).To(HaveLen(1))
		})
	})
})
