package moonbridge_test

import (
	"errors"
	"fmt"

	moonbridge "github.com/jerbob92/wazero-moonbridge/internal"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Errors", func() {
	It("formats every field", func() {
		err := moonbridge.NewError(moonbridge.PhaseAccess, moonbridge.KindCoercion).
			Property("UIELEMENT", "Opacity").
			GoType("half").
			Detail("cannot convert %s", "it").
			Cause(errors.New("boom")).
			Build()
		Expect(err.Error()).To(Equal("[access] coercion at UIELEMENT.Opacity: Go type string - cannot convert it (caused by: boom)"))
	})

	It("formats a bare kind", func() {
		Expect(moonbridge.ErrBridgeClosed.Error()).To(Equal("closed"))
	})

	It("matches sentinels by kind", func() {
		err := moonbridge.NewError(moonbridge.PhaseLookup, moonbridge.KindNotFound).Build()
		wrapped := fmt.Errorf("outer: %w", err)
		Expect(errors.Is(wrapped, moonbridge.ErrPropertyNotFound)).To(BeTrue())
		Expect(errors.Is(wrapped, moonbridge.ErrReadOnly)).To(BeFalse())
	})

	It("matches on phase when asked to", func() {
		err := moonbridge.NewError(moonbridge.PhaseLookup, moonbridge.KindNotFound).Build()
		Expect(errors.Is(err, &moonbridge.Error{Phase: moonbridge.PhaseLookup, Kind: moonbridge.KindNotFound})).To(BeTrue())
		Expect(errors.Is(err, &moonbridge.Error{Phase: moonbridge.PhaseAccess, Kind: moonbridge.KindNotFound})).To(BeFalse())
	})

	It("unwraps its cause", func() {
		cause := errors.New("cause")
		err := moonbridge.NewError(moonbridge.PhaseStartup, moonbridge.KindABI).Cause(cause).Build()
		Expect(errors.Is(err, cause)).To(BeTrue())
	})

	DescribeTable("boundary codes",
		func(err error, code moonbridge.MoonErrorCode) {
			Expect(moonbridge.MoonErrorCodeFor(err)).To(Equal(code))
		},
		Entry("unsupported", moonbridge.ErrUnsupportedValueKind, moonbridge.MoonErrorArgument),
		Entry("coercion", moonbridge.ErrCoercionFailed, moonbridge.MoonErrorArgument),
		Entry("read only", moonbridge.ErrReadOnly, moonbridge.MoonErrorInvalidOperation),
		Entry("already attached", moonbridge.ErrCallbackAlreadyAttached, moonbridge.MoonErrorInvalidOperation),
		Entry("not found", fmt.Errorf("x: %w", moonbridge.ErrPropertyNotFound), moonbridge.MoonErrorNotFound),
		Entry("closed", moonbridge.ErrBridgeClosed, moonbridge.MoonErrorException),
		Entry("plain", errors.New("plain"), moonbridge.MoonErrorException),
	)

	It("describes boundary errors", func() {
		err := &moonbridge.MoonError{Code: moonbridge.MoonErrorNotFound, Message: "no such property"}
		Expect(err.Error()).To(Equal("moon error 4: no such property"))
	})
})
