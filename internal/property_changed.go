package moonbridge

import (
	"context"
	"fmt"
)

// propertyChanged handles a change notification from the native side. old
// and new are addresses of Values owned by the caller; either may be zero.
func (b *bridge) propertyChanged(ctx context.Context, obj Handle, handle PropertyHandle, oldPtr, newPtr uint32) error {
	prop, err := b.properties.fromHandle(handle)
	if err != nil {
		return err
	}

	cb := b.properties.changedCallback(prop)
	if cb == nil {
		return nil
	}

	target, err := b.handles.wrapperFor(ctx, obj)
	if err != nil {
		return fmt.Errorf("could not resolve object %d: %w", obj, err)
	}
	if target == nil {
		return NewError(PhaseBoundary, KindContract).Property(prop.String(), "").Detail("change notification without object").Build()
	}

	oldValue, err := b.decodeAt(ctx, oldPtr, prop.PropertyType)
	if err != nil {
		return fmt.Errorf("could not decode old value of %s: %w", prop, err)
	}
	newValue, err := b.decodeAt(ctx, newPtr, prop.PropertyType)
	if err != nil {
		return fmt.Errorf("could not decode new value of %s: %w", prop, err)
	}

	// A value type never reports a null old value, it had its default.
	if oldValue == nil && prop.PropertyType.IsValueType && !prop.nullable {
		oldValue, err = b.defaultForKind(ctx, prop, BaseOf(target).kind)
		if err != nil {
			return err
		}
	}

	if valuesEqual(oldValue, newValue) {
		return nil
	}

	return cb(ctx, target, prop, oldValue, newValue)
}
