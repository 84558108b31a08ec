package moonbridge

import (
	"context"

	"github.com/tetratelabs/wazero/api"
)

// Handle is an opaque reference to a native object.
type Handle uint32

// PropertyHandle is an opaque reference to a native property.
type PropertyHandle uint32

// PropertyInfo is what the native core knows about a property.
type PropertyInfo struct {
	Name      string
	Kind      Kind
	OwnerKind Kind
	Attached  bool
	ReadOnly  bool
	Nullable  bool
}

// Callbacks are the boundary entry points the native core calls into. All of
// them use the wazero stack ABI and report failures as a MoonErrorCode.
type Callbacks struct {
	PropertyChanged api.GoModuleFunction
	GetProperty     api.GoModuleFunction
	SetProperty     api.GoModuleFunction
	AddEvent        api.GoModuleFunction
	RemoveEvent     api.GoModuleFunction
	RetainManaged   api.GoModuleFunction
	ReleaseManaged  api.GoModuleFunction
}

// NativeCore is the set of native entry points the bridge consumes.
//
// Values returned by GetValue and GetDefaultValue are borrowed: their payload
// stays owned by the native core. Values passed to RegisterProperty and
// SetValue are copied; the caller keeps ownership of its own payload.
type NativeCore interface {
	Allocator

	ABIVersion() string
	Memory() api.Memory

	RegisterType(ctx context.Context, name string, parent Kind, interfaces []Kind, isInterface, defaultConstructible bool) (Kind, error)
	TypeParent(kind Kind) (Kind, bool)
	TypeName(kind Kind) string
	TypeIsDependencyObject(kind Kind) bool

	RegisterProperty(ctx context.Context, name string, propertyKind, ownerKind Kind, defaultValue *Value, attached, readOnly, nullable bool) (PropertyHandle, error)
	LookupProperty(ctx context.Context, ownerKind Kind, name string) (PropertyHandle, bool)
	PropertyInfo(prop PropertyHandle) (PropertyInfo, bool)
	SetPropertyChangedCallback(ctx context.Context, prop PropertyHandle) error

	GetValue(ctx context.Context, obj Handle, prop PropertyHandle) (Value, error)
	SetValue(ctx context.Context, obj Handle, prop PropertyHandle, v *Value) error
	ClearValue(ctx context.Context, obj Handle, prop PropertyHandle) error
	GetDefaultValue(ctx context.Context, prop PropertyHandle, kind Kind) (Value, error)

	CreateObject(ctx context.Context, kind Kind) (Handle, error)
	ObjectKind(obj Handle) (Kind, error)
	Retain(ctx context.Context, obj Handle) error
	Release(ctx context.Context, obj Handle) error

	// EmitEvent delivers an event raised by managed code to the native
	// listener registered under token.
	EmitEvent(ctx context.Context, obj Handle, token int32, args *Value) error

	SetCallbacks(ctx context.Context, callbacks Callbacks) error
}
