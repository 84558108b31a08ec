package moonbridge_test

import (
	"context"
	"errors"

	moonbridge "github.com/jerbob92/wazero-moonbridge/internal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Calls from the native side", func() {
	var h *harness
	var obj moonbridge.Object
	var handle moonbridge.Handle

	BeforeEach(func() {
		h = newHarness(nil)

		var err error
		obj, err = h.bridge.NewObject(h.ctx, typeGauge)
		Expect(err).To(BeNil())
		handle = moonbridge.BaseOf(obj).Handle()
	})

	AfterEach(func() {
		h.close()
	})

	moonError := func(err error) *moonbridge.MoonError {
		var moonErr *moonbridge.MoonError
		Expect(errors.As(err, &moonErr)).To(BeTrue())
		return moonErr
	}

	When("a managed property is read or written", func() {
		It("reaches the accessors", func() {
			Expect(h.core.SetManagedProperty(h.ctx, handle, "Level", moonbridge.Value{K: moonbridge.KindDouble, U: 0x4010000000000000})).To(Succeed())
			Expect(obj.(*gauge).level).To(Equal(4.0))

			v, err := h.core.GetManagedProperty(h.ctx, handle, "Level")
			Expect(err).To(BeNil())
			Expect(v.K).To(Equal(moonbridge.KindDouble))
			Expect(v.F64()).To(Equal(4.0))
			Expect(h.core.FreeValue(h.ctx, v)).To(Succeed())
		})

		It("reports missing properties", func() {
			_, err := h.core.GetManagedProperty(h.ctx, handle, "Missing")
			Expect(moonError(err).Code).To(Equal(moonbridge.MoonErrorNotFound))
		})

		It("reports writes to read-only properties", func() {
			err := h.core.SetManagedProperty(h.ctx, handle, "Max", moonbridge.Value{K: moonbridge.KindDouble})
			Expect(moonError(err).Code).To(Equal(moonbridge.MoonErrorInvalidOperation))
		})

		It("turns panics into an error code", func() {
			live := h.core.Heap().Live()

			_, err := h.core.GetManagedProperty(h.ctx, handle, "Broken")
			moonErr := moonError(err)
			Expect(moonErr.Code).To(Equal(moonbridge.MoonErrorException))
			Expect(moonErr.Message).To(ContainSubstring("gauge is broken"))
			Expect(h.core.Heap().Live()).To(Equal(live))
		})

		It("fails without a bridge on the context", func() {
			_, err := h.core.GetManagedProperty(ctx, handle, "Level")
			Expect(moonError(err).Code).To(Equal(moonbridge.MoonErrorException))
		})
	})

	When("the native side listens to an event", func() {
		It("receives what managed code raises", func() {
			var received []float64
			token, err := h.core.Subscribe(h.ctx, handle, "LevelChanged", func(ctx context.Context, args moonbridge.Value) error {
				received = append(received, args.F64())
				return nil
			})
			Expect(err).To(BeNil())

			Expect(h.bridge.RaiseEvent(h.ctx, obj, "LevelChanged", 7.5)).To(Succeed())
			Expect(received).To(Equal([]float64{7.5}))

			Expect(h.core.Unsubscribe(h.ctx, handle, "LevelChanged", token)).To(Succeed())
			Expect(h.bridge.RaiseEvent(h.ctx, obj, "LevelChanged", 8.0)).To(Succeed())
			Expect(received).To(HaveLen(1))
		})

		It("calls every listener even if one fails", func() {
			calls := 0
			_, err := h.core.Subscribe(h.ctx, handle, "LevelChanged", func(ctx context.Context, args moonbridge.Value) error {
				calls++
				return errors.New("listener failed")
			})
			Expect(err).To(BeNil())
			_, err = h.core.Subscribe(h.ctx, handle, "LevelChanged", func(ctx context.Context, args moonbridge.Value) error {
				calls++
				return nil
			})
			Expect(err).To(BeNil())

			Expect(h.bridge.RaiseEvent(h.ctx, obj, "LevelChanged", "text")).ToNot(Succeed())
			Expect(calls).To(Equal(2))
		})

		It("releases the event arguments", func() {
			live := h.core.Heap().Live()
			_, err := h.core.Subscribe(h.ctx, handle, "LevelChanged", func(ctx context.Context, args moonbridge.Value) error {
				s, err := moonbridge.ReadCString(h.core.Memory(), args.Ptr())
				Expect(err).To(BeNil())
				Expect(s).To(Equal("payload"))
				return nil
			})
			Expect(err).To(BeNil())

			Expect(h.bridge.RaiseEvent(h.ctx, obj, "LevelChanged", "payload")).To(Succeed())
			Expect(h.core.Heap().Live()).To(Equal(live))
		})

		It("rejects unknown events", func() {
			_, err := h.core.Subscribe(h.ctx, handle, "Clicked", func(ctx context.Context, args moonbridge.Value) error {
				return nil
			})
			Expect(moonError(err).Code).To(Equal(moonbridge.MoonErrorNotFound))

			Expect(h.bridge.RaiseEvent(h.ctx, obj, "Clicked", nil)).To(MatchError(moonbridge.ErrPropertyNotFound))

			err = h.core.Unsubscribe(h.ctx, handle, "LevelChanged", 999)
			Expect(moonError(err).Code).To(Equal(moonbridge.MoonErrorNotFound))
		})
	})

	When("a managed value is stored natively", func() {
		It("keeps it pinned while the native side holds a copy", func() {
			tag, err := h.bridge.LookupProperty(h.ctx, moonbridge.KindControl, "Tag", nil)
			Expect(err).To(BeNil())

			payload := &opaque{Name: "tag"}
			Expect(h.bridge.SetValue(h.ctx, tag, obj, payload)).To(Succeed())

			v, err := h.bridge.GetValue(h.ctx, tag, obj)
			Expect(err).To(BeNil())
			Expect(v).To(BeIdenticalTo(payload))

			val, err := h.bridge.Encode(h.ctx, payload, true)
			Expect(err).To(BeNil())
			token := int32(val.Ptr())
			Expect(h.bridge.PinCount(token)).To(Equal(2))
			Expect(h.bridge.FreeValue(h.ctx, val)).To(Succeed())

			Expect(h.bridge.ClearValue(h.ctx, tag, obj)).To(Succeed())
			Expect(h.bridge.PinCount(token)).To(BeZero())
		})
	})
})
