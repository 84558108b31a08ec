package moonbridge

import (
	"context"
)

// PropertyChangedCallback is invoked when the native side reports that the
// effective value of a property changed.
type PropertyChangedCallback func(ctx context.Context, obj Object, prop *PropertyDescriptor, oldValue, newValue any) error

// PropertyValidator rejects values before they are set.
type PropertyValidator func(prop *PropertyDescriptor, v any) error

type PropertyMetadata struct {
	// DefaultValue of nil or types.UnsetValue means no explicit default.
	DefaultValue            any
	PropertyChangedCallback PropertyChangedCallback
	Validator               PropertyValidator
	Nullable                bool
}

func NewPropertyMetadata(defaultValue any) *PropertyMetadata {
	return &PropertyMetadata{DefaultValue: defaultValue}
}

func (m *PropertyMetadata) WithChangedCallback(cb PropertyChangedCallback) *PropertyMetadata {
	m.PropertyChangedCallback = cb
	return m
}

func (m *PropertyMetadata) WithValidator(v PropertyValidator) *PropertyMetadata {
	m.Validator = v
	return m
}

// PropertyDescriptor is the managed side of a native property. There is one
// descriptor per native property handle for the lifetime of a bridge.
type PropertyDescriptor struct {
	Name          string
	PropertyType  *ManagedType
	DeclaringType *ManagedType

	handle       PropertyHandle
	ownerKind    Kind
	propertyKind Kind
	attached     bool
	readOnly     bool
	nullable     bool

	// inferredType is set when PropertyType came from the native kind rather
	// than from a caller.
	inferredType bool

	changed   PropertyChangedCallback
	validator PropertyValidator
}

func (p *PropertyDescriptor) Handle() PropertyHandle {
	return p.handle
}

func (p *PropertyDescriptor) OwnerKind() Kind {
	return p.ownerKind
}

func (p *PropertyDescriptor) Kind() Kind {
	return p.propertyKind
}

func (p *PropertyDescriptor) IsAttached() bool {
	return p.attached
}

func (p *PropertyDescriptor) IsReadOnly() bool {
	return p.readOnly
}

func (p *PropertyDescriptor) IsNullable() bool {
	return p.nullable
}

func (p *PropertyDescriptor) HasChangedCallback() bool {
	return p.changed != nil
}

func (p *PropertyDescriptor) String() string {
	owner := p.ownerKind.String()
	if p.DeclaringType != nil {
		owner = p.DeclaringType.Name
	}
	return owner + "." + p.Name
}
