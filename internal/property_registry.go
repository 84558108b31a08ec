package moonbridge

import (
	"context"
	"sort"
	"sync"

	"github.com/jerbob92/wazero-moonbridge/types"
	"go.uber.org/zap"
)

type propertyKey struct {
	owner Kind
	name  string
}

type propertyRegistry struct {
	bridge *bridge

	mu       sync.Mutex
	byHandle map[PropertyHandle]*PropertyDescriptor
	byName   map[propertyKey]*PropertyDescriptor
}

func newPropertyRegistry(b *bridge) *propertyRegistry {
	return &propertyRegistry{
		bridge:   b,
		byHandle: map[PropertyHandle]*PropertyDescriptor{},
		byName:   map[propertyKey]*PropertyDescriptor{},
	}
}

func (r *propertyRegistry) register(ctx context.Context, name string, propertyType, ownerType *ManagedType, metadata *PropertyMetadata, attached, readOnly bool) (*PropertyDescriptor, error) {
	if name == "" {
		return nil, NewError(PhaseRegister, KindContract).Detail("property name is empty").Build()
	}
	if propertyType == nil {
		return nil, NewError(PhaseRegister, KindContract).Property("", name).Detail("property type is nil").Build()
	}
	if ownerType == nil {
		return nil, NewError(PhaseRegister, KindContract).Property("", name).Detail("owner type is nil").Build()
	}

	// Resolve types before taking the lock: registering a type may run its
	// Init, which registers more properties.
	owner, err := r.bridge.types.find(ctx, ownerType)
	if err != nil {
		return nil, err
	}
	valueDesc, err := r.bridge.types.find(ctx, propertyType)
	if err != nil {
		return nil, err
	}

	if metadata == nil {
		metadata = &PropertyMetadata{}
	}

	defaultValue := metadata.DefaultValue
	if defaultValue == types.UnsetValue {
		defaultValue = nil
	}
	if defaultValue == nil && propertyType.IsValueType && !metadata.Nullable && propertyType.Zero != nil {
		defaultValue = propertyType.Zero()
	}

	destructors := &[]*destructorFunc{}
	defer func() {
		if err := runDestructors(ctx, *destructors); err != nil {
			r.bridge.logger.Warn("could not release default value", zap.String("property", name), zap.Error(err))
		}
	}()

	encoded := NullValue(valueDesc.Kind)
	if defaultValue != nil {
		encoded, err = r.bridge.encodeAssignable(ctx, defaultValue, propertyType, valueDesc.Kind, destructors)
		if err != nil {
			return nil, NewError(PhaseRegister, KindContract).Property(ownerType.Name, name).Detail("invalid default value").Cause(err).Build()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	handle, err := r.bridge.native.RegisterProperty(ctx, name, valueDesc.Kind, owner.Kind, &encoded, attached, readOnly, metadata.Nullable)
	if err != nil {
		return nil, NewError(PhaseRegister, KindRegistration).
			Property(ownerType.Name, name).
			Detail("native property table rejected the registration").
			Cause(err).
			Build()
	}

	prop := &PropertyDescriptor{
		Name:          name,
		PropertyType:  propertyType,
		DeclaringType: ownerType,
		handle:        handle,
		ownerKind:     owner.Kind,
		propertyKind:  valueDesc.Kind,
		attached:      attached,
		readOnly:      readOnly,
		nullable:      metadata.Nullable,
		validator:     metadata.Validator,
	}
	if metadata.PropertyChangedCallback != nil {
		if err := r.attachLocked(ctx, prop, metadata.PropertyChangedCallback); err != nil {
			return nil, err
		}
	}

	r.byHandle[handle] = prop
	r.byName[propertyKey{owner: owner.Kind, name: name}] = prop

	r.bridge.logger.Debug("registered property",
		zap.String("property", prop.String()),
		zap.Stringer("kind", prop.propertyKind),
		zap.Bool("attached", attached),
		zap.Bool("readOnly", readOnly))

	return prop, nil
}

// lookup is the throwing variant: a miss means the native and managed
// property tables were generated from different sources.
func (r *propertyRegistry) lookup(ctx context.Context, ownerKind Kind, name string, propertyType *ManagedType) (*PropertyDescriptor, error) {
	prop, ok, err := r.tryLookup(ctx, ownerKind, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		owner := r.bridge.native.TypeName(ownerKind)
		return nil, NewError(PhaseLookup, KindNotFound).
			Property(owner, name).
			Detail("%s lacks a %s property, the native and managed property tables are out of sync", owner, name).
			Build()
	}

	if propertyType != nil && prop.inferredType {
		r.mu.Lock()
		if prop.inferredType {
			prop.PropertyType = propertyType
			prop.inferredType = false
		}
		r.mu.Unlock()
	}

	return prop, nil
}

// tryLookup is the probing variant. The native side searches the ancestors
// of ownerKind.
func (r *propertyRegistry) tryLookup(ctx context.Context, ownerKind Kind, name string) (*PropertyDescriptor, bool, error) {
	key := propertyKey{owner: ownerKind, name: name}

	r.mu.Lock()
	if prop, ok := r.byName[key]; ok {
		r.mu.Unlock()
		return prop, true, nil
	}
	r.mu.Unlock()

	handle, ok := r.bridge.native.LookupProperty(ctx, ownerKind, name)
	if !ok {
		return nil, false, nil
	}

	prop, err := r.fromHandle(handle)
	if err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	r.byName[key] = prop
	r.mu.Unlock()

	return prop, true, nil
}

// fromHandle returns the descriptor of a native property handle,
// materializing it on first use.
func (r *propertyRegistry) fromHandle(handle PropertyHandle) (*PropertyDescriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prop, ok := r.byHandle[handle]; ok {
		return prop, nil
	}

	info, ok := r.bridge.native.PropertyInfo(handle)
	if !ok {
		return nil, NewError(PhaseLookup, KindNotFound).Detail("unknown property handle %d", handle).Build()
	}

	propertyType := r.bridge.types.kindToType(info.Kind)
	if propertyType == nil {
		propertyType = TypeObject
	}

	prop := &PropertyDescriptor{
		Name:          info.Name,
		PropertyType:  propertyType,
		DeclaringType: r.bridge.types.kindToType(info.OwnerKind),
		handle:        handle,
		ownerKind:     info.OwnerKind,
		propertyKind:  info.Kind,
		attached:      info.Attached,
		readOnly:      info.ReadOnly,
		nullable:      info.Nullable,
		inferredType:  true,
	}
	r.byHandle[handle] = prop
	r.byName[propertyKey{owner: info.OwnerKind, name: info.Name}] = prop

	return prop, nil
}

// attach sets the change callback of prop. A property takes one callback
// only.
func (r *propertyRegistry) attach(ctx context.Context, prop *PropertyDescriptor, cb PropertyChangedCallback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attachLocked(ctx, prop, cb)
}

func (r *propertyRegistry) attachLocked(ctx context.Context, prop *PropertyDescriptor, cb PropertyChangedCallback) error {
	if cb == nil {
		return NewError(PhaseRegister, KindContract).Property(prop.ownerKind.String(), prop.Name).Detail("callback is nil").Build()
	}
	if prop.changed != nil {
		return NewError(PhaseRegister, KindAlreadyAttached).
			Property(prop.ownerKind.String(), prop.Name).
			Detail("a property changed callback is already attached").
			Build()
	}

	if err := r.bridge.native.SetPropertyChangedCallback(ctx, prop.handle); err != nil {
		return NewError(PhaseRegister, KindRegistration).Property(prop.ownerKind.String(), prop.Name).Cause(err).Build()
	}
	prop.changed = cb
	return nil
}

func (r *propertyRegistry) changedCallback(prop *PropertyDescriptor) PropertyChangedCallback {
	r.mu.Lock()
	defer r.mu.Unlock()
	return prop.changed
}

// descriptors lists every known property ordered by handle.
func (r *propertyRegistry) descriptors() []*PropertyDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*PropertyDescriptor, 0, len(r.byHandle))
	for _, prop := range r.byHandle {
		out = append(out, prop)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].handle < out[j].handle
	})
	return out
}
