package moonbridge

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// boundary runs fn on behalf of the native side. Errors and panics never
// leave this function: they are turned into a MoonErrorCode in stack[0] and
// a message written to the error record at errPtr.
func boundary(ctx context.Context, stack []uint64, errPtr uint32, name string, fn func(b *bridge) error) {
	raw, err := GetBridgeFromContext(ctx)
	if err != nil {
		stack[0] = api.EncodeI32(int32(MoonErrorException))
		return
	}
	b := raw.(*bridge)

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = NewError(PhaseBoundary, KindBoundary).Detail("%s panicked: %v", name, r).Build()
			}
		}()
		err = fn(b)
	}()

	code := MoonErrorNone
	if err != nil {
		code = moonErrorCodeFor(err)
		b.logger.Warn("boundary callback failed",
			zap.String("callback", name),
			zap.Int32("code", int32(code)),
			zap.Error(err))
		if werr := b.writeMoonError(ctx, errPtr, code, err.Error()); werr != nil {
			b.logger.Error("could not report boundary error", zap.String("callback", name), zap.Error(werr))
		}
	}

	stack[0] = api.EncodeI32(int32(code))
}

// writeMoonError fills the error record at errPtr. The message buffer is
// owned by the native side afterwards.
func (b *bridge) writeMoonError(ctx context.Context, errPtr uint32, code MoonErrorCode, message string) error {
	if errPtr == 0 {
		return nil
	}

	mem := b.native.Memory()
	msgPtr, err := WriteCString(ctx, b.native, mem, message)
	if err != nil {
		return err
	}

	if !mem.WriteUint32Le(errPtr, uint32(code)) || !mem.WriteUint32Le(errPtr+4, msgPtr) {
		_ = b.native.Free(ctx, msgPtr)
		return fmt.Errorf("could not write error record at %d", errPtr)
	}
	return nil
}

var PropertyChanged = api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
	obj := Handle(api.DecodeU32(stack[0]))
	prop := PropertyHandle(api.DecodeU32(stack[1]))
	oldPtr := api.DecodeU32(stack[2])
	newPtr := api.DecodeU32(stack[3])
	errPtr := api.DecodeU32(stack[4])

	boundary(ctx, stack, errPtr, "property_changed", func(b *bridge) error {
		return b.propertyChanged(ctx, obj, prop, oldPtr, newPtr)
	})
})

// GetProperty reads a managed property for the native side. The Value
// written at resultPtr is owned by the caller.
var GetProperty = api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
	obj := Handle(api.DecodeU32(stack[0]))
	namePtr := api.DecodeU32(stack[1])
	resultPtr := api.DecodeU32(stack[2])
	errPtr := api.DecodeU32(stack[3])

	boundary(ctx, stack, errPtr, "get_property", func(b *bridge) error {
		target, acc, name, err := b.managedAccessor(ctx, obj, namePtr)
		if err != nil {
			return err
		}
		if acc.Get == nil {
			return NewError(PhaseBoundary, KindContract).Property(BaseOf(target).typ.Name, name).Detail("property is write-only").Build()
		}

		v, err := acc.Get(ctx, target)
		if err != nil {
			return err
		}

		val, err := b.encode(ctx, v, true, nil)
		if err != nil {
			return err
		}
		if err := WriteValue(b.native.Memory(), resultPtr, val); err != nil {
			_ = b.freeValue(ctx, val)
			return err
		}
		return nil
	})
})

var SetProperty = api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
	obj := Handle(api.DecodeU32(stack[0]))
	namePtr := api.DecodeU32(stack[1])
	valuePtr := api.DecodeU32(stack[2])
	errPtr := api.DecodeU32(stack[3])

	boundary(ctx, stack, errPtr, "set_property", func(b *bridge) error {
		target, acc, name, err := b.managedAccessor(ctx, obj, namePtr)
		if err != nil {
			return err
		}
		if acc.Set == nil {
			return NewError(PhaseBoundary, KindReadOnly).Property(BaseOf(target).typ.Name, name).Detail("property is read-only").Build()
		}

		v, err := b.decodeAt(ctx, valuePtr, acc.Type)
		if err != nil {
			return err
		}
		return acc.Set(ctx, target, v)
	})
})

var AddEvent = api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
	obj := Handle(api.DecodeU32(stack[0]))
	namePtr := api.DecodeU32(stack[1])
	token := api.DecodeI32(stack[2])
	errPtr := api.DecodeU32(stack[3])

	boundary(ctx, stack, errPtr, "add_event", func(b *bridge) error {
		_, name, err := b.eventTarget(ctx, obj, namePtr)
		if err != nil {
			return err
		}
		b.events.add(obj, name, token)
		return nil
	})
})

var RemoveEvent = api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
	obj := Handle(api.DecodeU32(stack[0]))
	namePtr := api.DecodeU32(stack[1])
	token := api.DecodeI32(stack[2])
	errPtr := api.DecodeU32(stack[3])

	boundary(ctx, stack, errPtr, "remove_event", func(b *bridge) error {
		base, name, err := b.eventTarget(ctx, obj, namePtr)
		if err != nil {
			return err
		}
		if b.events.remove(obj, name, token) {
			return nil
		}
		return NewError(PhaseBoundary, KindNotFound).Property(base.typ.Name, name).Detail("no listener with token %d", token).Build()
	})
})

// RetainManaged and ReleaseManaged let the native side copy and drop
// MANAGED values.
var RetainManaged = api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
	b := MustGetBridgeFromContext(ctx).(*bridge)
	if err := b.pins.incref(api.DecodeI32(stack[0])); err != nil {
		b.logger.Error("could not retain managed value", zap.Error(err))
	}
})

var ReleaseManaged = api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
	b := MustGetBridgeFromContext(ctx).(*bridge)
	if err := b.pins.unpin(api.DecodeI32(stack[0])); err != nil {
		b.logger.Error("could not release managed value", zap.Error(err))
	}
})

func (b *bridge) managedAccessor(ctx context.Context, obj Handle, namePtr uint32) (Object, *PropertyAccessor, string, error) {
	name, err := ReadCString(b.native.Memory(), namePtr)
	if err != nil {
		return nil, nil, "", fmt.Errorf("could not read property name: %w", err)
	}

	target, err := b.handles.wrapperFor(ctx, obj)
	if err != nil {
		return nil, nil, name, err
	}
	if target == nil {
		return nil, nil, name, NewError(PhaseBoundary, KindContract).Property("", name).Detail("object handle is null").Build()
	}

	base := BaseOf(target)
	acc := base.typ.accessor(name)
	if acc == nil {
		return nil, nil, name, NewError(PhaseBoundary, KindNotFound).Property(base.typ.Name, name).Detail("managed type has no such property").Build()
	}
	return target, acc, name, nil
}

func (b *bridge) eventTarget(ctx context.Context, obj Handle, namePtr uint32) (*ObjectBase, string, error) {
	name, err := ReadCString(b.native.Memory(), namePtr)
	if err != nil {
		return nil, "", fmt.Errorf("could not read event name: %w", err)
	}

	target, err := b.handles.wrapperFor(ctx, obj)
	if err != nil {
		return nil, name, err
	}
	if target == nil {
		return nil, name, NewError(PhaseBoundary, KindContract).Property("", name).Detail("object handle is null").Build()
	}

	base := BaseOf(target)
	if !base.typ.hasEvent(name) {
		return nil, name, NewError(PhaseBoundary, KindNotFound).Property(base.typ.Name, name).Detail("managed type has no such event").Build()
	}
	return base, name, nil
}
