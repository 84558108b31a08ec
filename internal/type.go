package moonbridge

import (
	"context"
)

// PropertyAccessor exposes a managed property to the native side, which
// reaches it through the get/set property boundary callbacks.
type PropertyAccessor struct {
	Type *ManagedType
	Get  func(ctx context.Context, obj Object) (any, error)
	Set  func(ctx context.Context, obj Object, v any) error
}

// ManagedType describes a managed type once, up front. It is the only place
// the bridge looks for constructors, enum conversions and property
// accessors, so nothing is discovered through reflection.
type ManagedType struct {
	Name     string
	Assembly string

	Base       *ManagedType
	Interfaces []*ManagedType

	// Definition is the unparameterized type of a parameterized type. Both
	// share one native kind.
	Definition *ManagedType

	IsInterface          bool
	IsValueType          bool
	DefaultConstructible bool

	// BuiltinKind maps the type to a pre-existing native kind. Types with a
	// builtin kind are never registered with the native core.
	BuiltinKind Kind

	// New wraps a native object. Only set for dependency object types.
	New func(base *ObjectBase) Object

	// Zero returns the value used when a value type property has no default.
	Zero func() any

	// FromInt32 turns an INT32 payload into this type, for enumerations.
	FromInt32 func(v int32) any

	// Coerce converts a value of another type into this type.
	Coerce func(v any) (any, error)

	Properties map[string]*PropertyAccessor
	Events     []string

	// Init runs once after the type has been registered.
	Init func(ctx context.Context, b IBridge, d *TypeDescriptor) error
}

func (t *ManagedType) FullName() string {
	if t.Assembly == "" {
		return t.Name
	}
	return t.Assembly + ":" + t.Name
}

func (t *ManagedType) String() string {
	return t.FullName()
}

// IsSubclassOf reports whether other is t or one of its base types.
func (t *ManagedType) IsSubclassOf(other *ManagedType) bool {
	for c := t; c != nil; c = c.Base {
		if c == other {
			return true
		}
	}
	return false
}

func (t *ManagedType) accessor(name string) *PropertyAccessor {
	for c := t; c != nil; c = c.Base {
		if acc, ok := c.Properties[name]; ok {
			return acc
		}
	}
	return nil
}

func (t *ManagedType) hasEvent(name string) bool {
	for c := t; c != nil; c = c.Base {
		for i := range c.Events {
			if c.Events[i] == name {
				return true
			}
		}
	}
	return false
}

// TypeDescriptor is the registered form of a ManagedType.
type TypeDescriptor struct {
	Type       *ManagedType
	Kind       Kind
	Parent     *TypeDescriptor
	Interfaces []Kind

	token   int32
	initErr error
}

func (d *TypeDescriptor) Token() int32 {
	return d.token
}

func (d *TypeDescriptor) Implements(kind Kind) bool {
	for i := range d.Interfaces {
		if d.Interfaces[i] == kind {
			return true
		}
	}
	return false
}

// Object is implemented by every wrapper of a native object. Wrappers embed
// *ObjectBase to satisfy it.
type Object interface {
	getObjectBase() *ObjectBase
}

type ObjectBase struct {
	bridge *bridge
	handle Handle
	kind   Kind
	typ    *ManagedType
	outer  Object
}

func (o *ObjectBase) getObjectBase() *ObjectBase {
	return o
}

func (o *ObjectBase) Bridge() IBridge {
	return o.bridge
}

func (o *ObjectBase) Handle() Handle {
	return o.handle
}

func (o *ObjectBase) NativeKind() Kind {
	return o.kind
}

func (o *ObjectBase) ManagedType() *ManagedType {
	return o.typ
}

// Outer returns the wrapper that embeds this base.
func (o *ObjectBase) Outer() Object {
	if o.outer == nil {
		return o
	}
	return o.outer
}

// BaseOf returns the ObjectBase embedded in obj, or nil.
func BaseOf(obj Object) *ObjectBase {
	if obj == nil {
		return nil
	}
	return obj.getObjectBase()
}
