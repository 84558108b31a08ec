package moonbridge_test

import (
	"context"
	"errors"

	moonbridge "github.com/jerbob92/wazero-moonbridge/internal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registering types", func() {
	var h *harness

	BeforeEach(func() {
		h = newHarness(nil)
	})

	AfterEach(func() {
		h.close()
	})

	It("returns the same descriptor every time", func() {
		a, err := h.bridge.FindType(h.ctx, typeGauge)
		Expect(err).To(BeNil())
		b, err := h.bridge.FindType(h.ctx, typeGauge)
		Expect(err).To(BeNil())
		Expect(a).To(BeIdenticalTo(b))
		Expect(h.core.RegisteredTypes()).To(Equal([]string{"Test:Gauge"}))
	})

	It("registers the ancestry and interfaces first", func() {
		focusable := &moonbridge.ManagedType{Name: "IFocusable", IsInterface: true}
		derived := &moonbridge.ManagedType{
			Name:       "DerivedControl",
			Base:       typeControl,
			Interfaces: []*moonbridge.ManagedType{focusable},
			New:        typeControl.New,
		}

		d, err := h.bridge.FindType(h.ctx, derived)
		Expect(err).To(BeNil())

		controlDesc, err := h.bridge.FindType(h.ctx, typeControl)
		Expect(err).To(BeNil())
		focusDesc, err := h.bridge.FindType(h.ctx, focusable)
		Expect(err).To(BeNil())

		Expect(d.Parent).To(BeIdenticalTo(controlDesc))
		Expect(d.Parent.Kind).To(Equal(moonbridge.KindControl))
		Expect(d.Interfaces).To(ContainElement(focusDesc.Kind))
		Expect(d.Implements(focusDesc.Kind)).To(BeTrue())
		Expect(h.core.RegisteredTypes()).To(Equal([]string{"IFocusable", "DerivedControl"}))

		order := map[*moonbridge.ManagedType]int{}
		for i, desc := range h.bridge.Types() {
			order[desc.Type] = i
		}
		Expect(order[typeControl]).To(BeNumerically("<", order[derived]))
		Expect(order[focusable]).To(BeNumerically("<", order[derived]))

		parent, ok := h.core.TypeParent(d.Kind)
		Expect(ok).To(BeTrue())
		Expect(parent).To(Equal(moonbridge.KindControl))
	})

	It("maps kinds back to types", func() {
		kind, err := h.bridge.TypeToKind(h.ctx, typeGauge)
		Expect(err).To(BeNil())
		Expect(h.bridge.KindToType(kind)).To(BeIdenticalTo(typeGauge))

		Expect(h.bridge.KindToType(moonbridge.KindDouble)).To(BeIdenticalTo(moonbridge.TypeDouble))
		Expect(h.bridge.KindToType(moonbridge.KindInt32)).To(BeIdenticalTo(moonbridge.TypeInt32))

		t, ok := h.bridge.FindTypeByName("Test:Gauge")
		Expect(ok).To(BeTrue())
		Expect(t).To(BeIdenticalTo(typeGauge))
	})

	It("shares one kind between a parameterized type and its definition", func() {
		list := &moonbridge.ManagedType{Name: "List`1", Base: moonbridge.TypeCollection}
		ofString := &moonbridge.ManagedType{Name: "List`1[String]", Base: moonbridge.TypeCollection, Definition: list}

		a, err := h.bridge.FindType(h.ctx, ofString)
		Expect(err).To(BeNil())
		b, err := h.bridge.FindType(h.ctx, list)
		Expect(err).To(BeNil())
		Expect(a.Kind).To(Equal(b.Kind))
		Expect(h.bridge.KindToType(a.Kind)).To(BeIdenticalTo(list))
		Expect(h.core.RegisteredTypes()).To(Equal([]string{"List`1"}))
	})

	It("collapses value type bases to object", func() {
		base := &moonbridge.ManagedType{Name: "BaseValue", IsValueType: true}
		value := &moonbridge.ManagedType{Name: "Value", IsValueType: true, Base: base}

		d, err := h.bridge.FindType(h.ctx, value)
		Expect(err).To(BeNil())
		Expect(d.Parent.Type).To(BeIdenticalTo(moonbridge.TypeObject))
	})

	It("walks the base chain for unregistered types", func() {
		abstract := &moonbridge.ManagedType{Name: "Abstract", Base: typeControl}
		Expect(h.bridge.TypeToNativeKind(abstract)).To(Equal(moonbridge.KindControl))
		Expect(h.bridge.TypeToNativeKind(&moonbridge.ManagedType{Name: "Loose"})).To(Equal(moonbridge.KindObject))
		Expect(h.core.RegisteredTypes()).To(BeEmpty())
	})

	It("runs Init after registration", func() {
		var seen *moonbridge.TypeDescriptor
		withInit := &moonbridge.ManagedType{
			Name: "WithInit",
			Base: typeControl,
			New:  typeControl.New,
		}
		withInit.Init = func(ctx context.Context, b moonbridge.IBridge, d *moonbridge.TypeDescriptor) error {
			seen = d
			_, err := b.RegisterProperty(ctx, "Extra", moonbridge.TypeString, withInit, nil)
			return err
		}

		d, err := h.bridge.FindType(h.ctx, withInit)
		Expect(err).To(BeNil())
		Expect(seen).To(BeIdenticalTo(d))

		prop, ok, err := h.bridge.TryLookupProperty(h.ctx, d.Kind, "Extra")
		Expect(err).To(BeNil())
		Expect(ok).To(BeTrue())
		Expect(prop.PropertyType).To(BeIdenticalTo(moonbridge.TypeString))
	})

	It("keeps reporting a failed Init", func() {
		calls := 0
		failing := &moonbridge.ManagedType{Name: "Failing", Base: typeControl, New: typeControl.New}
		failing.Init = func(ctx context.Context, b moonbridge.IBridge, d *moonbridge.TypeDescriptor) error {
			calls++
			return errors.New("boom")
		}
		derived := &moonbridge.ManagedType{Name: "FailingChild", Base: failing, New: typeControl.New}

		_, err := h.bridge.FindType(h.ctx, failing)
		Expect(err).To(MatchError(ContainSubstring("boom")))

		d, err := h.bridge.FindType(h.ctx, failing)
		Expect(err).To(MatchError(ContainSubstring("could not initialize type Failing")))
		Expect(d).To(BeNil())
		Expect(calls).To(Equal(1))

		_, err = h.bridge.FindType(h.ctx, derived)
		Expect(err).To(MatchError(ContainSubstring("boom")))
		Expect(calls).To(Equal(1))
	})

	It("rejects a nil type", func() {
		_, err := h.bridge.FindType(h.ctx, nil)
		Expect(err).ToNot(BeNil())
	})
})
