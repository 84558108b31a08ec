package moonbridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/jerbob92/wazero-moonbridge/types"
	"go.uber.org/zap"
)

// kindDerivesFrom walks the native parent chain of k.
func (b *bridge) kindDerivesFrom(k, ancestor Kind) bool {
	for k != KindInvalid {
		if k == ancestor {
			return true
		}
		parent, ok := b.native.TypeParent(k)
		if !ok {
			return false
		}
		k = parent
	}
	return false
}

// assignable reports whether a value of kind valueKind can be stored in a
// property of kind propertyKind.
func (b *bridge) assignable(valueKind, propertyKind Kind) bool {
	if valueKind == propertyKind || propertyKind == KindObject {
		return true
	}
	switch {
	case valueKind == KindManaged:
		return !propertyKind.IsBuiltin() && !b.native.TypeIsDependencyObject(propertyKind)
	case PayloadOf(valueKind) == PayloadObject && PayloadOf(propertyKind) == PayloadObject:
		return b.kindDerivesFrom(valueKind, propertyKind)
	}
	return false
}

// encodeAssignable encodes v for a property of propertyType, converting it
// with the type's Coerce when its kind does not fit.
func (b *bridge) encodeAssignable(ctx context.Context, v any, propertyType *ManagedType, propertyKind Kind, destructors *[]*destructorFunc) (Value, error) {
	box := b.config.GetBoxValueTypes()

	val, err := b.encode(ctx, v, box, destructors)
	if err == nil && b.assignable(val.K, propertyKind) {
		return val, nil
	}
	cause := err
	if cause == nil {
		cause = fmt.Errorf("%s is not assignable to %s", val.K, propertyKind)
	}

	if propertyType.Coerce != nil {
		coerced, err := propertyType.Coerce(v)
		if err != nil {
			cause = err
		} else {
			val, err = b.encode(ctx, coerced, box, destructors)
			if err == nil && b.assignable(val.K, propertyKind) {
				return val, nil
			}
			if err != nil {
				cause = err
			}
		}
	}

	return Value{}, NewError(PhaseAccess, KindCoercion).
		GoType(v).
		Detail("cannot convert to %s", propertyType).
		Cause(cause).
		Build()
}

func (b *bridge) checkTarget(prop *PropertyDescriptor, target Object) (*ObjectBase, error) {
	if prop == nil {
		return nil, NewError(PhaseAccess, KindContract).Detail("property is nil").Build()
	}
	base := BaseOf(target)
	if base == nil {
		return nil, NewError(PhaseAccess, KindContract).Property(prop.String(), "").Detail("target is nil").Build()
	}
	if base.bridge != b {
		return nil, NewError(PhaseAccess, KindContract).Property(prop.String(), "").Detail("target belongs to another bridge").Build()
	}

	// Attached properties live on any object; the others only on instances
	// of their declaring type.
	if prop.attached {
		if !b.native.TypeIsDependencyObject(base.kind) {
			return nil, NewError(PhaseAccess, KindContract).
				Property(prop.String(), "").
				Detail("%s is not a dependency object", b.native.TypeName(base.kind)).
				Build()
		}
	} else if !b.kindDerivesFrom(base.kind, prop.ownerKind) {
		return nil, NewError(PhaseAccess, KindContract).
			Property(prop.String(), "").
			Detail("%s is not a %s", b.native.TypeName(base.kind), b.native.TypeName(prop.ownerKind)).
			Build()
	}

	return base, nil
}

func (b *bridge) getValue(ctx context.Context, prop *PropertyDescriptor, target Object) (any, error) {
	base, err := b.checkTarget(prop, target)
	if err != nil {
		return nil, err
	}

	ctx = b.Attach(ctx)
	v, err := b.native.GetValue(ctx, base.handle, prop.handle)
	if err != nil {
		return nil, fmt.Errorf("could not get %s: %w", prop, err)
	}
	return b.decode(ctx, v, prop.PropertyType)
}

func (b *bridge) setValue(ctx context.Context, prop *PropertyDescriptor, target Object, v any) error {
	base, err := b.checkTarget(prop, target)
	if err != nil {
		return err
	}
	if prop.readOnly {
		return NewError(PhaseAccess, KindReadOnly).Property(prop.String(), "").Detail("property is read-only").Build()
	}
	if v == types.UnsetValue {
		return b.clearValue(ctx, prop, target)
	}
	if prop.validator != nil {
		if err := prop.validator(prop, v); err != nil {
			return NewError(PhaseAccess, KindContract).Property(prop.String(), "").Detail("invalid value").Cause(err).Build()
		}
	}

	ctx = b.Attach(ctx)
	destructors := &[]*destructorFunc{}
	val, err := b.encodeForProperty(ctx, prop, base, v, destructors)
	if err == nil {
		err = b.native.SetValue(ctx, base.handle, prop.handle, &val)
		if err != nil {
			err = fmt.Errorf("could not set %s: %w", prop, err)
		}
	}

	if derr := runDestructors(ctx, *destructors); derr != nil {
		b.logger.Warn("could not release value", zap.String("property", prop.String()), zap.Error(derr))
	}
	return err
}

func (b *bridge) encodeForProperty(ctx context.Context, prop *PropertyDescriptor, target *ObjectBase, v any, destructors *[]*destructorFunc) (Value, error) {
	if v == nil && (!prop.PropertyType.IsValueType || prop.nullable) {
		return NullValue(prop.propertyKind), nil
	}

	var val Value
	var err error = NewError(PhaseAccess, KindCoercion).Detail("nil is not a valid %s", prop.PropertyType).Build()
	if v != nil {
		val, err = b.encodeAssignable(ctx, v, prop.PropertyType, prop.propertyKind, destructors)
		if err == nil {
			return val, nil
		}
	}

	if b.config.GetCoercionPolicy() == CoercionStrict {
		var bridgeErr *Error
		if errors.As(err, &bridgeErr) {
			bridgeErr.Owner = prop.String()
		}
		return Value{}, err
	}

	// The value falls back to the property default. The returned Value is
	// borrowed from the native core, which copies it on set.
	b.logger.Warn("could not coerce property value, using the default value",
		zap.String("property", prop.String()),
		zap.String("type", fmt.Sprintf("%T", v)),
		zap.Error(err))

	def, derr := b.native.GetDefaultValue(ctx, prop.handle, target.kind)
	if derr != nil {
		return Value{}, fmt.Errorf("could not get default of %s: %w", prop, derr)
	}
	return def, nil
}

func (b *bridge) clearValue(ctx context.Context, prop *PropertyDescriptor, target Object) error {
	base, err := b.checkTarget(prop, target)
	if err != nil {
		return err
	}
	if prop.readOnly {
		return NewError(PhaseAccess, KindReadOnly).Property(prop.String(), "").Detail("property is read-only").Build()
	}

	if err := b.native.ClearValue(b.Attach(ctx), base.handle, prop.handle); err != nil {
		return fmt.Errorf("could not clear %s: %w", prop, err)
	}
	return nil
}

// getDefaultValue returns the default of prop for forType, or for the
// declaring type when forType is nil.
func (b *bridge) getDefaultValue(ctx context.Context, prop *PropertyDescriptor, forType *ManagedType) (any, error) {
	if prop == nil {
		return nil, NewError(PhaseAccess, KindContract).Detail("property is nil").Build()
	}

	kind := prop.ownerKind
	if forType != nil {
		kind = b.types.typeToNativeKind(forType)
	}
	return b.defaultForKind(ctx, prop, kind)
}

func (b *bridge) defaultForKind(ctx context.Context, prop *PropertyDescriptor, kind Kind) (any, error) {
	v, err := b.native.GetDefaultValue(ctx, prop.handle, kind)
	if err != nil {
		return nil, fmt.Errorf("could not get default of %s: %w", prop, err)
	}
	return b.decode(ctx, v, prop.PropertyType)
}
