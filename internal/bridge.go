package moonbridge

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// IBridge is the complete surface consumed by markup loaders and generated
// accessor code.
type IBridge interface {
	Attach(ctx context.Context) context.Context
	Close(ctx context.Context) error

	Config() IBridgeConfig
	Logger() *zap.Logger
	Native() NativeCore
	Dispatcher() *Dispatcher

	// Encode converts v into a Value owned by the caller, who must release
	// it with FreeValue.
	Encode(ctx context.Context, v any, boxValueTypes bool) (Value, error)
	FreeValue(ctx context.Context, v Value) error
	Decode(ctx context.Context, v Value, hint *ManagedType) (any, error)
	DecodeAt(ctx context.Context, ptr uint32, hint *ManagedType) (any, error)

	FindType(ctx context.Context, t *ManagedType) (*TypeDescriptor, error)
	KindToType(kind Kind) *ManagedType
	TypeToKind(ctx context.Context, t *ManagedType) (Kind, error)
	TypeToNativeKind(t *ManagedType) Kind
	FindTypeByName(name string) (*ManagedType, bool)
	Types() []*TypeDescriptor

	RegisterProperty(ctx context.Context, name string, propertyType, ownerType *ManagedType, metadata *PropertyMetadata) (*PropertyDescriptor, error)
	RegisterReadOnlyProperty(ctx context.Context, name string, propertyType, ownerType *ManagedType, metadata *PropertyMetadata) (*PropertyDescriptor, error)
	RegisterAttachedProperty(ctx context.Context, name string, propertyType, ownerType *ManagedType, metadata *PropertyMetadata) (*PropertyDescriptor, error)
	RegisterPropertyFull(ctx context.Context, name string, propertyType, ownerType *ManagedType, metadata *PropertyMetadata, attached, readOnly bool) (*PropertyDescriptor, error)
	LookupProperty(ctx context.Context, ownerKind Kind, name string, propertyType *ManagedType) (*PropertyDescriptor, error)
	TryLookupProperty(ctx context.Context, ownerKind Kind, name string) (*PropertyDescriptor, bool, error)
	PropertyFromHandle(handle PropertyHandle) (*PropertyDescriptor, error)
	Properties() []*PropertyDescriptor
	AddPropertyChangeCallback(ctx context.Context, prop *PropertyDescriptor, cb PropertyChangedCallback) error

	GetValue(ctx context.Context, prop *PropertyDescriptor, target Object) (any, error)
	SetValue(ctx context.Context, prop *PropertyDescriptor, target Object, v any) error
	ClearValue(ctx context.Context, prop *PropertyDescriptor, target Object) error
	GetDefaultValue(ctx context.Context, prop *PropertyDescriptor, forType *ManagedType) (any, error)

	NewObject(ctx context.Context, t *ManagedType) (Object, error)
	WrapperFor(ctx context.Context, h Handle) (Object, error)
	RaiseEvent(ctx context.Context, obj Object, name string, args any) error
	Prune(ctx context.Context) (int, error)
	LiveWrappers() int

	Pin(v any) int32
	Unpin(token int32) error
	Pinned(token int32) (any, error)
	PinCount(token int32) int
}

type bridge struct {
	config     IBridgeConfig
	logger     *zap.Logger
	native     NativeCore
	dispatcher *Dispatcher
	types      *typeRegistry
	properties *propertyRegistry
	handles    *handleTable
	pins       *pinTable
	events     *eventTable
	closed     atomic.Bool
}

// BridgeKey is the context key the bridge is attached under. Boundary
// callbacks find their bridge through it.
type BridgeKey struct{}

func GetBridgeFromContext(ctx context.Context) (IBridge, error) {
	raw := ctx.Value(BridgeKey{})
	if raw == nil {
		return nil, fmt.Errorf("moonbridge bridge not found in context")
	}

	value, ok := raw.(IBridge)
	if !ok {
		return nil, fmt.Errorf("context value %v not of type %T", raw, new(IBridge))
	}

	return value, nil
}

func MustGetBridgeFromContext(ctx context.Context) IBridge {
	b, err := GetBridgeFromContext(ctx)
	if err != nil {
		panic(fmt.Errorf("could not get bridge from context: %w, make sure to create a bridge with moonbridge.CreateBridge() and to attach it to the context with \"ctx = bridge.Attach(ctx)\"", err))
	}
	return b
}

// CreateBridge checks the native ABI, installs the boundary callbacks and
// registers the builtin types. The calling thread becomes the dispatcher
// thread.
func CreateBridge(ctx context.Context, native NativeCore, config IBridgeConfig) (IBridge, error) {
	if config == nil {
		config = NewConfig()
	}

	if err := checkABI(native.ABIVersion(), config.GetABIConstraint()); err != nil {
		return nil, err
	}

	b := &bridge{
		config:     config,
		logger:     config.GetLogger(),
		native:     native,
		dispatcher: NewDispatcher(),
		pins:       newPinTable(),
		events:     newEventTable(),
	}
	b.types = newTypeRegistry(b)
	b.properties = newPropertyRegistry(b)
	b.handles = newHandleTable(b)

	ctx = b.Attach(ctx)
	err := native.SetCallbacks(ctx, Callbacks{
		PropertyChanged: PropertyChanged,
		GetProperty:     GetProperty,
		SetProperty:     SetProperty,
		AddEvent:        AddEvent,
		RemoveEvent:     RemoveEvent,
		RetainManaged:   RetainManaged,
		ReleaseManaged:  ReleaseManaged,
	})
	if err != nil {
		return nil, NewError(PhaseStartup, KindRegistration).Detail("could not install boundary callbacks").Cause(err).Build()
	}

	for i := range builtinTypes {
		if _, err := b.types.find(ctx, builtinTypes[i]); err != nil {
			return nil, err
		}
	}

	b.logger.Debug("bridge created",
		zap.String("abi", native.ABIVersion()),
		zap.Int("thread", b.dispatcher.ThreadID()))

	return b, nil
}

func (b *bridge) Attach(ctx context.Context) context.Context {
	if raw := ctx.Value(BridgeKey{}); raw == b {
		return ctx
	}
	return context.WithValue(ctx, BridgeKey{}, b)
}

func (b *bridge) checkOpen() error {
	if b.closed.Load() {
		return ErrBridgeClosed
	}
	return nil
}

// Close releases every native reference the bridge holds and drops all pins.
// Registries are unusable afterwards.
func (b *bridge) Close(ctx context.Context) error {
	if b.closed.Swap(true) {
		return nil
	}

	err := b.handles.close(b.Attach(ctx))
	b.pins.clear()
	b.events.clear()
	b.logger.Debug("bridge closed")
	return err
}

func (b *bridge) Config() IBridgeConfig {
	return b.config
}

func (b *bridge) Logger() *zap.Logger {
	return b.logger
}

func (b *bridge) Native() NativeCore {
	return b.native
}

func (b *bridge) Dispatcher() *Dispatcher {
	return b.dispatcher
}

func (b *bridge) Encode(ctx context.Context, v any, boxValueTypes bool) (Value, error) {
	if err := b.checkOpen(); err != nil {
		return Value{}, err
	}
	return b.encode(b.Attach(ctx), v, boxValueTypes, nil)
}

func (b *bridge) FreeValue(ctx context.Context, v Value) error {
	return b.freeValue(b.Attach(ctx), v)
}

func (b *bridge) Decode(ctx context.Context, v Value, hint *ManagedType) (any, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return b.decode(b.Attach(ctx), v, hint)
}

func (b *bridge) DecodeAt(ctx context.Context, ptr uint32, hint *ManagedType) (any, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return b.decodeAt(b.Attach(ctx), ptr, hint)
}

func (b *bridge) FindType(ctx context.Context, t *ManagedType) (*TypeDescriptor, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return b.types.find(b.Attach(ctx), t)
}

func (b *bridge) KindToType(kind Kind) *ManagedType {
	return b.types.kindToType(kind)
}

func (b *bridge) TypeToKind(ctx context.Context, t *ManagedType) (Kind, error) {
	if err := b.checkOpen(); err != nil {
		return KindInvalid, err
	}
	return b.types.typeToKind(b.Attach(ctx), t)
}

func (b *bridge) TypeToNativeKind(t *ManagedType) Kind {
	return b.types.typeToNativeKind(t)
}

func (b *bridge) FindTypeByName(name string) (*ManagedType, bool) {
	return b.types.findByName(name)
}

func (b *bridge) Types() []*TypeDescriptor {
	return b.types.descriptors()
}

func (b *bridge) RegisterProperty(ctx context.Context, name string, propertyType, ownerType *ManagedType, metadata *PropertyMetadata) (*PropertyDescriptor, error) {
	return b.RegisterPropertyFull(ctx, name, propertyType, ownerType, metadata, false, false)
}

func (b *bridge) RegisterReadOnlyProperty(ctx context.Context, name string, propertyType, ownerType *ManagedType, metadata *PropertyMetadata) (*PropertyDescriptor, error) {
	return b.RegisterPropertyFull(ctx, name, propertyType, ownerType, metadata, false, true)
}

func (b *bridge) RegisterAttachedProperty(ctx context.Context, name string, propertyType, ownerType *ManagedType, metadata *PropertyMetadata) (*PropertyDescriptor, error) {
	return b.RegisterPropertyFull(ctx, name, propertyType, ownerType, metadata, true, false)
}

func (b *bridge) RegisterPropertyFull(ctx context.Context, name string, propertyType, ownerType *ManagedType, metadata *PropertyMetadata, attached, readOnly bool) (*PropertyDescriptor, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return b.properties.register(b.Attach(ctx), name, propertyType, ownerType, metadata, attached, readOnly)
}

func (b *bridge) LookupProperty(ctx context.Context, ownerKind Kind, name string, propertyType *ManagedType) (*PropertyDescriptor, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return b.properties.lookup(b.Attach(ctx), ownerKind, name, propertyType)
}

func (b *bridge) TryLookupProperty(ctx context.Context, ownerKind Kind, name string) (*PropertyDescriptor, bool, error) {
	if err := b.checkOpen(); err != nil {
		return nil, false, err
	}
	return b.properties.tryLookup(b.Attach(ctx), ownerKind, name)
}

func (b *bridge) PropertyFromHandle(handle PropertyHandle) (*PropertyDescriptor, error) {
	return b.properties.fromHandle(handle)
}

func (b *bridge) Properties() []*PropertyDescriptor {
	return b.properties.descriptors()
}

func (b *bridge) AddPropertyChangeCallback(ctx context.Context, prop *PropertyDescriptor, cb PropertyChangedCallback) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if prop == nil {
		return NewError(PhaseRegister, KindContract).Detail("property is nil").Build()
	}
	return b.properties.attach(b.Attach(ctx), prop, cb)
}

func (b *bridge) GetValue(ctx context.Context, prop *PropertyDescriptor, target Object) (any, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return b.getValue(ctx, prop, target)
}

func (b *bridge) SetValue(ctx context.Context, prop *PropertyDescriptor, target Object, v any) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	return b.setValue(ctx, prop, target, v)
}

func (b *bridge) ClearValue(ctx context.Context, prop *PropertyDescriptor, target Object) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	return b.clearValue(ctx, prop, target)
}

func (b *bridge) GetDefaultValue(ctx context.Context, prop *PropertyDescriptor, forType *ManagedType) (any, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return b.getDefaultValue(b.Attach(ctx), prop, forType)
}

// NewObject creates a native object for t and wraps it.
func (b *bridge) NewObject(ctx context.Context, t *ManagedType) (Object, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	ctx = b.Attach(ctx)
	d, err := b.types.find(ctx, t)
	if err != nil {
		return nil, err
	}
	if !b.native.TypeIsDependencyObject(d.Kind) {
		return nil, NewError(PhaseAccess, KindContract).Detail("%s is not a dependency object type", t).Build()
	}

	h, err := b.native.CreateObject(ctx, d.Kind)
	if err != nil {
		return nil, fmt.Errorf("could not create %s: %w", t, err)
	}

	return b.handles.adopt(h, d.Kind, t), nil
}

func (b *bridge) WrapperFor(ctx context.Context, h Handle) (Object, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	return b.handles.wrapperFor(b.Attach(ctx), h)
}

// RaiseEvent delivers args to every native listener of the event. All
// listeners are called even if some of them fail.
func (b *bridge) RaiseEvent(ctx context.Context, obj Object, name string, args any) error {
	if err := b.checkOpen(); err != nil {
		return err
	}

	base := BaseOf(obj)
	if base == nil {
		return NewError(PhaseAccess, KindContract).Property("", name).Detail("target is nil").Build()
	}
	if !base.typ.hasEvent(name) {
		return NewError(PhaseAccess, KindNotFound).Property(base.typ.Name, name).Detail("managed type has no such event").Build()
	}

	tokens := b.events.tokens(base.handle, name)
	if len(tokens) == 0 {
		return nil
	}

	ctx = b.Attach(ctx)
	destructors := &[]*destructorFunc{}
	val, err := b.encode(ctx, args, true, destructors)
	if err != nil {
		return err
	}

	for i := range tokens {
		err = multierr.Append(err, b.native.EmitEvent(ctx, base.handle, tokens[i], &val))
	}
	return multierr.Append(err, runDestructors(ctx, *destructors))
}

func (b *bridge) Prune(ctx context.Context) (int, error) {
	return b.handles.prune(b.Attach(ctx))
}

func (b *bridge) LiveWrappers() int {
	return b.handles.len()
}

func (b *bridge) Pin(v any) int32 {
	return b.pins.pin(v)
}

func (b *bridge) Unpin(token int32) error {
	return b.pins.unpin(token)
}

func (b *bridge) Pinned(token int32) (any, error) {
	return b.pins.get(token)
}

func (b *bridge) PinCount(token int32) int {
	return b.pins.refCount(token)
}
