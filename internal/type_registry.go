package moonbridge

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type typeRegistry struct {
	bridge *bridge

	// mu guards the caches, regMu serializes registration.
	mu    sync.RWMutex
	regMu sync.Mutex

	byType map[*ManagedType]*TypeDescriptor
	byKind map[Kind]*ManagedType
	byName map[string]*ManagedType
	order  []*TypeDescriptor
}

func newTypeRegistry(b *bridge) *typeRegistry {
	return &typeRegistry{
		bridge: b,
		byType: map[*ManagedType]*TypeDescriptor{},
		byKind: map[Kind]*ManagedType{},
		byName: map[string]*ManagedType{},
	}
}

func (r *typeRegistry) cached(t *ManagedType) *TypeDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byType[t]
}

func (r *typeRegistry) store(d *TypeDescriptor, ownsKind bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byType[d.Type] = d
	if _, ok := r.byKind[d.Kind]; !ok && ownsKind {
		r.byKind[d.Kind] = d.Type
	}
	if _, ok := r.byName[d.Type.FullName()]; !ok {
		r.byName[d.Type.FullName()] = d.Type
	}
	r.order = append(r.order, d)
}

// find returns the descriptor of t, registering t and everything it derives
// from on first use. Init hooks of newly registered types run after the
// registration lock is released, parents first.
func (r *typeRegistry) find(ctx context.Context, t *ManagedType) (*TypeDescriptor, error) {
	if t == nil {
		return nil, NewError(PhaseRegister, KindContract).Detail("type is nil").Build()
	}

	if d := r.cached(t); d != nil {
		if err := r.initError(d); err != nil {
			return nil, err
		}
		return d, nil
	}

	var pending []*TypeDescriptor
	r.regMu.Lock()
	d, err := r.findLocked(ctx, t, &pending)
	r.regMu.Unlock()
	if err != nil {
		return nil, err
	}

	for i := range pending {
		if pending[i].Type.Init == nil {
			continue
		}
		if err := pending[i].Type.Init(ctx, r.bridge, pending[i]); err != nil {
			err = fmt.Errorf("could not initialize type %s: %w", pending[i].Type, err)
			r.failInit(pending[i:], err)
			return nil, err
		}
	}

	if err := r.initError(d); err != nil {
		return nil, err
	}
	return d, nil
}

// failInit marks descs as unusable. Init never runs twice for a type.
func (r *typeRegistry) failInit(descs []*TypeDescriptor, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range descs {
		descs[i].initErr = err
	}
}

func (r *typeRegistry) initError(d *TypeDescriptor) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for c := d; c != nil; c = c.Parent {
		if c.initErr != nil {
			return c.initErr
		}
	}
	return nil
}

func (r *typeRegistry) findLocked(ctx context.Context, t *ManagedType, pending *[]*TypeDescriptor) (*TypeDescriptor, error) {
	// Another caller may have registered t while we waited for the lock.
	if d := r.cached(t); d != nil {
		if err := r.initError(d); err != nil {
			return nil, err
		}
		return d, nil
	}

	if t.Definition != nil && t.Definition != t {
		def, err := r.findLocked(ctx, t.Definition, pending)
		if err != nil {
			return nil, err
		}
		d := &TypeDescriptor{
			Type:       t,
			Kind:       def.Kind,
			Parent:     def.Parent,
			Interfaces: def.Interfaces,
		}
		d.token = r.bridge.pins.pin(d)
		r.store(d, false)
		return d, nil
	}

	base := t.Base
	if t.IsValueType || (base == nil && t != TypeObject && !t.IsInterface) {
		base = TypeObject
	}
	if t == TypeObject {
		base = nil
	}

	var parent *TypeDescriptor
	if base != nil {
		var err error
		parent, err = r.findLocked(ctx, base, pending)
		if err != nil {
			return nil, err
		}
	}

	interfaces := make([]Kind, 0, len(t.Interfaces))
	for i := range t.Interfaces {
		id, err := r.findLocked(ctx, t.Interfaces[i], pending)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, id.Kind)
	}

	kind := t.BuiltinKind
	if kind == KindInvalid {
		parentKind := KindInvalid
		if parent != nil {
			parentKind = parent.Kind
		}

		var err error
		kind, err = r.bridge.native.RegisterType(ctx, t.FullName(), parentKind, interfaces, t.IsInterface, t.DefaultConstructible || t.New != nil)
		if err != nil {
			return nil, NewError(PhaseRegister, KindRegistration).Detail("could not register type %s", t).Cause(err).Build()
		}
	}

	d := &TypeDescriptor{
		Type:       t,
		Kind:       kind,
		Parent:     parent,
		Interfaces: interfaces,
	}
	d.token = r.bridge.pins.pin(d)
	r.store(d, true)
	*pending = append(*pending, d)

	r.bridge.logger.Debug("registered type",
		zap.String("type", t.FullName()),
		zap.Stringer("kind", kind),
		zap.Int("interfaces", len(interfaces)))

	return d, nil
}

func (r *typeRegistry) kindToType(k Kind) *ManagedType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKind[k]
}

func (r *typeRegistry) typeToKind(ctx context.Context, t *ManagedType) (Kind, error) {
	d, err := r.find(ctx, t)
	if err != nil {
		return KindInvalid, err
	}
	return d.Kind, nil
}

// typeToNativeKind walks the base chain of t until it reaches a type with a
// native kind. Nothing is registered.
func (r *typeRegistry) typeToNativeKind(t *ManagedType) Kind {
	for c := t; c != nil; c = c.Base {
		if d := r.cached(c); d != nil && d.Kind != KindInvalid {
			return d.Kind
		}
		if c.BuiltinKind != KindInvalid {
			return c.BuiltinKind
		}
	}
	return KindObject
}

func (r *typeRegistry) findByName(name string) (*ManagedType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// nearestType returns the managed type of kind or of its closest native
// ancestor that has one.
func (r *typeRegistry) nearestType(kind Kind, match func(t *ManagedType) bool) *ManagedType {
	for k := kind; k != KindInvalid; {
		if t := r.kindToType(k); t != nil && (match == nil || match(t)) {
			return t
		}
		parent, ok := r.bridge.native.TypeParent(k)
		if !ok {
			break
		}
		k = parent
	}
	return nil
}

// constructorFor picks the type used to wrap a native object of kind.
func (r *typeRegistry) constructorFor(kind Kind) *ManagedType {
	t := r.nearestType(kind, func(t *ManagedType) bool {
		return t.New != nil
	})
	if t == nil {
		return TypeDependencyObject
	}
	return t
}

func (r *typeRegistry) descriptors() []*TypeDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*TypeDescriptor, len(r.order))
	copy(out, r.order)
	return out
}
