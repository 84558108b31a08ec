package moonbridge_test

import (
	"runtime"

	moonbridge "github.com/jerbob92/wazero-moonbridge/internal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Wrapping native objects", func() {
	var h *harness

	BeforeEach(func() {
		h = newHarness(nil)
	})

	AfterEach(func() {
		h.close()
	})

	It("returns one wrapper per handle", func() {
		obj, err := h.bridge.NewObject(h.ctx, typeControl)
		Expect(err).To(BeNil())
		Expect(obj).To(BeAssignableToTypeOf(&control{}))

		again, err := h.bridge.WrapperFor(h.ctx, moonbridge.BaseOf(obj).Handle())
		Expect(err).To(BeNil())
		Expect(again).To(BeIdenticalTo(obj))
		Expect(h.bridge.LiveWrappers()).To(Equal(1))
	})

	It("picks the constructor of the closest managed ancestor", func() {
		_, err := h.bridge.FindType(h.ctx, typeControl)
		Expect(err).To(BeNil())

		handle, err := h.core.CreateObject(h.ctx, moonbridge.KindUserControl)
		Expect(err).To(BeNil())

		obj, err := h.bridge.WrapperFor(h.ctx, handle)
		Expect(err).To(BeNil())
		Expect(obj).To(BeAssignableToTypeOf(&control{}))
		Expect(moonbridge.BaseOf(obj).NativeKind()).To(Equal(moonbridge.KindUserControl))
		Expect(h.core.Refs(handle)).To(Equal(2))
		Expect(h.core.Release(h.ctx, handle)).To(Succeed())

		canvas, err := h.core.CreateObject(h.ctx, moonbridge.KindCanvas)
		Expect(err).To(BeNil())
		obj, err = h.bridge.WrapperFor(h.ctx, canvas)
		Expect(err).To(BeNil())
		Expect(obj).To(BeAssignableToTypeOf(&moonbridge.DependencyObject{}))
		Expect(h.core.Release(h.ctx, canvas)).To(Succeed())
	})

	It("wraps handle 0 as nil", func() {
		obj, err := h.bridge.WrapperFor(h.ctx, 0)
		Expect(err).To(BeNil())
		Expect(obj).To(BeNil())
	})

	It("balances retains and releases across an encode and decode", func() {
		obj, err := h.bridge.NewObject(h.ctx, typeControl)
		Expect(err).To(BeNil())
		handle := moonbridge.BaseOf(obj).Handle()

		retains, releases := h.core.Retains(), h.core.Releases()

		val, err := h.bridge.Encode(h.ctx, obj, false)
		Expect(err).To(BeNil())
		Expect(val.K).To(Equal(moonbridge.KindControl))

		decoded, err := h.bridge.Decode(h.ctx, val, nil)
		Expect(err).To(BeNil())
		Expect(decoded).To(BeIdenticalTo(obj))
		Expect(h.bridge.FreeValue(h.ctx, val)).To(Succeed())

		Expect(h.core.Retains() - retains).To(Equal(h.core.Releases() - releases))
		Expect(h.core.Refs(handle)).To(Equal(1))
	})

	It("refuses objects of another bridge", func() {
		other := newHarness(nil)
		defer other.close()

		foreign, err := other.bridge.NewObject(other.ctx, typeControl)
		Expect(err).To(BeNil())

		_, err = h.bridge.Encode(h.ctx, foreign, false)
		Expect(err).ToNot(BeNil())
	})

	It("releases collected wrappers", func() {
		createAndDrop := func() moonbridge.Handle {
			obj, err := h.bridge.NewObject(h.ctx, typeControl)
			Expect(err).To(BeNil())
			return moonbridge.BaseOf(obj).Handle()
		}
		handle := createAndDrop()
		Expect(h.core.Refs(handle)).To(Equal(1))

		pruned := 0
		Eventually(func() int {
			runtime.GC()
			n, err := h.bridge.Prune(h.ctx)
			Expect(err).To(BeNil())
			pruned += n
			return pruned
		}).Should(Equal(1))

		Expect(h.core.ObjectCount()).To(BeZero())
		Expect(h.bridge.LiveWrappers()).To(BeZero())
	})

	It("replaces a collected wrapper on the next lookup", func() {
		handle, err := h.core.CreateObject(h.ctx, moonbridge.KindControl)
		Expect(err).To(BeNil())

		wrap := func() {
			obj, err := h.bridge.WrapperFor(h.ctx, handle)
			Expect(err).To(BeNil())
			Expect(obj).ToNot(BeNil())
		}
		wrap()
		Expect(h.core.Refs(handle)).To(Equal(2))

		for i := 0; i < 3; i++ {
			runtime.GC()
		}
		wrap()
		Expect(h.core.Refs(handle)).To(Equal(2))
		Expect(h.core.Release(h.ctx, handle)).To(Succeed())
	})

	It("releases everything on close", func() {
		for i := 0; i < 3; i++ {
			_, err := h.bridge.NewObject(h.ctx, typeControl)
			Expect(err).To(BeNil())
		}
		Expect(h.core.ObjectCount()).To(Equal(3))

		Expect(h.bridge.Close(h.ctx)).To(Succeed())
		Expect(h.core.ObjectCount()).To(BeZero())

		_, err := h.bridge.NewObject(h.ctx, typeControl)
		Expect(err).To(MatchError(moonbridge.ErrBridgeClosed))
	})
})
