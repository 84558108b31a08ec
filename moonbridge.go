package moonbridge

import (
	"context"
	"fmt"
	"io"

	internal "github.com/jerbob92/wazero-moonbridge/internal"
)

type Object = internal.Object

type ObjectBase = internal.ObjectBase

type DependencyObject = internal.DependencyObject

type ManagedType = internal.ManagedType

type PropertyAccessor = internal.PropertyAccessor

type TypeDescriptor = internal.TypeDescriptor

type PropertyDescriptor = internal.PropertyDescriptor

type PropertyMetadata = internal.PropertyMetadata

type PropertyChangedCallback = internal.PropertyChangedCallback

type PropertyValidator = internal.PropertyValidator

type Kind = internal.Kind

type Handle = internal.Handle

type PropertyHandle = internal.PropertyHandle

type Value = internal.Value

type NativeCore = internal.NativeCore

type Callbacks = internal.Callbacks

type IBridge = internal.IBridge

type Config = internal.IBridgeConfig

type CoercionPolicy = internal.CoercionPolicy

type Error = internal.Error

type MoonError = internal.MoonError

type MoonErrorCode = internal.MoonErrorCode

type Int32Marshaler = internal.Int32Marshaler

type BridgeKey = internal.BridgeKey

// Native kinds of the builtin object types.
const (
	KindInvalid          = internal.KindInvalid
	KindObject           = internal.KindObject
	KindEventObject      = internal.KindEventObject
	KindDependencyObject = internal.KindDependencyObject
	KindCollection       = internal.KindCollection
	KindUIElement        = internal.KindUIElement
	KindFrameworkElement = internal.KindFrameworkElement
	KindControl          = internal.KindControl
	KindUserControl      = internal.KindUserControl
	KindPanel            = internal.KindPanel
	KindCanvas           = internal.KindCanvas
	KindManaged          = internal.KindManaged
)

const (
	CoercionFallback = internal.CoercionFallback
	CoercionStrict   = internal.CoercionStrict
)

var (
	ErrUnsupportedValueKind    = internal.ErrUnsupportedValueKind
	ErrCallbackAlreadyAttached = internal.ErrCallbackAlreadyAttached
	ErrPropertyNotFound        = internal.ErrPropertyNotFound
	ErrReadOnly                = internal.ErrReadOnly
	ErrCoercionFailed          = internal.ErrCoercionFailed
	ErrBridgeClosed            = internal.ErrBridgeClosed
	ErrABIMismatch             = internal.ErrABIMismatch
)

var (
	TypeObject              = internal.TypeObject
	TypeBool                = internal.TypeBool
	TypeChar                = internal.TypeChar
	TypeInt32               = internal.TypeInt32
	TypeUInt32              = internal.TypeUInt32
	TypeInt64               = internal.TypeInt64
	TypeUInt64              = internal.TypeUInt64
	TypeDouble              = internal.TypeDouble
	TypeTimeSpan            = internal.TypeTimeSpan
	TypeString              = internal.TypeString
	TypePoint               = internal.TypePoint
	TypeSize                = internal.TypeSize
	TypeRect                = internal.TypeRect
	TypeThickness           = internal.TypeThickness
	TypeCornerRadius        = internal.TypeCornerRadius
	TypeColor               = internal.TypeColor
	TypeDuration            = internal.TypeDuration
	TypeKeyTime             = internal.TypeKeyTime
	TypeGridLength          = internal.TypeGridLength
	TypeRepeatBehavior      = internal.TypeRepeatBehavior
	TypeMatrix              = internal.TypeMatrix
	TypeUri                 = internal.TypeUri
	TypeXmlLanguage         = internal.TypeXmlLanguage
	TypeFontFamily          = internal.TypeFontFamily
	TypePropertyPath        = internal.TypePropertyPath
	TypeDependencyProperty  = internal.TypeDependencyProperty
	TypeManagedTypeInfo     = internal.TypeManagedTypeInfo
	TypeFontWeight          = internal.TypeFontWeight
	TypeFontStyle           = internal.TypeFontStyle
	TypeFontStretch         = internal.TypeFontStretch
	TypeCursorType          = internal.TypeCursorType
	TypeTextDecorations     = internal.TypeTextDecorations
	TypeVisibility          = internal.TypeVisibility
	TypeHorizontalAlignment = internal.TypeHorizontalAlignment
	TypeEventObject         = internal.TypeEventObject
	TypeDependencyObject    = internal.TypeDependencyObject
	TypeCollection          = internal.TypeCollection
)

func NewConfig() Config {
	return internal.NewConfig()
}

func LoadConfig(r io.Reader) (Config, error) {
	return internal.LoadConfig(r)
}

func NewPropertyMetadata(defaultValue any) *PropertyMetadata {
	return internal.NewPropertyMetadata(defaultValue)
}

func BaseOf(obj Object) *ObjectBase {
	return internal.BaseOf(obj)
}

// GetValue reads prop from target and asserts the result to T. A nil value
// yields the zero T.
func GetValue[T any](ctx context.Context, prop *PropertyDescriptor, target Object) (T, error) {
	var zero T
	base := BaseOf(target)
	if base == nil {
		return zero, fmt.Errorf("cannot read %s from a nil object", prop)
	}

	v, err := base.Bridge().GetValue(ctx, prop, target)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("value of %s is %T, not %T", prop, v, zero)
	}
	return typed, nil
}

func SetValue(ctx context.Context, prop *PropertyDescriptor, target Object, v any) error {
	base := BaseOf(target)
	if base == nil {
		return fmt.Errorf("cannot write %s on a nil object", prop)
	}
	return base.Bridge().SetValue(ctx, prop, target, v)
}
