package moonbridge

import (
	"fmt"
	"math"
	"strconv"

	"github.com/jerbob92/wazero-moonbridge/types"
)

// DependencyObject is the wrapper used for native objects whose kind has no
// more specific managed type registered.
type DependencyObject struct {
	*ObjectBase
}

func newDependencyObject(base *ObjectBase) Object {
	return &DependencyObject{ObjectBase: base}
}

var TypeObject = &ManagedType{
	Name:                 "Object",
	BuiltinKind:          KindObject,
	DefaultConstructible: true,
}

var (
	TypeBool = &ManagedType{
		Name:        "Boolean",
		BuiltinKind: KindBool,
		IsValueType: true,
		Zero:        func() any { return false },
		Coerce:      coerceBool,
	}
	TypeChar = &ManagedType{
		Name:        "Char",
		BuiltinKind: KindChar,
		IsValueType: true,
		Zero:        func() any { return types.Char(0) },
		FromInt32:   func(v int32) any { return types.Char(v) },
	}
	TypeInt32 = &ManagedType{
		Name:        "Int32",
		BuiltinKind: KindInt32,
		IsValueType: true,
		Zero:        func() any { return int32(0) },
		Coerce:      coerceInt32,
	}
	TypeUInt32 = &ManagedType{
		Name:        "UInt32",
		BuiltinKind: KindUInt32,
		IsValueType: true,
		Zero:        func() any { return uint32(0) },
	}
	TypeInt64 = &ManagedType{
		Name:        "Int64",
		BuiltinKind: KindInt64,
		IsValueType: true,
		Zero:        func() any { return int64(0) },
		Coerce:      coerceInt64,
	}
	TypeUInt64 = &ManagedType{
		Name:        "UInt64",
		BuiltinKind: KindUInt64,
		IsValueType: true,
		Zero:        func() any { return uint64(0) },
	}
	TypeDouble = &ManagedType{
		Name:        "Double",
		BuiltinKind: KindDouble,
		IsValueType: true,
		Zero:        func() any { return float64(0) },
		Coerce:      coerceDouble,
	}
	TypeTimeSpan = &ManagedType{
		Name:        "TimeSpan",
		BuiltinKind: KindTimeSpan,
		IsValueType: true,
		Zero:        func() any { return types.TimeSpan(0) },
	}
	TypeString = &ManagedType{
		Name:        "String",
		BuiltinKind: KindString,
		Coerce:      coerceString,
	}
)

var (
	TypePoint          = valueType("Point", KindPoint, types.Point{})
	TypeSize           = valueType("Size", KindSize, types.Size{})
	TypeRect           = valueType("Rect", KindRect, types.Rect{})
	TypeThickness      = valueType("Thickness", KindThickness, types.Thickness{})
	TypeCornerRadius   = valueType("CornerRadius", KindCornerRadius, types.CornerRadius{})
	TypeColor          = valueType("Color", KindColor, types.Color{})
	TypeDuration       = valueType("Duration", KindDuration, types.Duration{})
	TypeKeyTime        = valueType("KeyTime", KindKeyTime, types.KeyTime{})
	TypeGridLength     = valueType("GridLength", KindGridLength, types.GridLength{})
	TypeRepeatBehavior = valueType("RepeatBehavior", KindRepeatBehavior, types.RepeatBehavior{})
	TypeMatrix         = valueType("Matrix", KindMatrix, types.IdentityMatrix)
)

var (
	TypeUri = &ManagedType{
		Name:        "Uri",
		BuiltinKind: KindUri,
		Coerce: func(v any) (any, error) {
			if s, ok := v.(string); ok {
				return types.Uri{OriginalString: s}, nil
			}
			return nil, fmt.Errorf("cannot convert %T to Uri", v)
		},
	}
	TypeXmlLanguage = &ManagedType{
		Name:        "XmlLanguage",
		BuiltinKind: KindXmlLanguage,
		Coerce: func(v any) (any, error) {
			if s, ok := v.(string); ok {
				return types.XmlLanguage(s), nil
			}
			return nil, fmt.Errorf("cannot convert %T to XmlLanguage", v)
		},
	}
	TypeFontFamily = &ManagedType{
		Name:        "FontFamily",
		BuiltinKind: KindFontFamily,
		Coerce: func(v any) (any, error) {
			if s, ok := v.(string); ok {
				return types.FontFamily{Source: s}, nil
			}
			return nil, fmt.Errorf("cannot convert %T to FontFamily", v)
		},
	}
	TypePropertyPath = &ManagedType{
		Name:        "PropertyPath",
		BuiltinKind: KindPropertyPath,
		Coerce: func(v any) (any, error) {
			if s, ok := v.(string); ok {
				return types.PropertyPath{Path: s}, nil
			}
			return nil, fmt.Errorf("cannot convert %T to PropertyPath", v)
		},
	}
	TypeDependencyProperty = &ManagedType{
		Name:        "DependencyProperty",
		BuiltinKind: KindDependencyProperty,
	}
	TypeManagedTypeInfo = &ManagedType{
		Name:        "Type",
		BuiltinKind: KindManagedTypeInfo,
	}
)

// Enumerations share the INT32 kind and are told apart by FromInt32.
var (
	TypeFontWeight          = enumType("FontWeight", types.FontWeightNormal)
	TypeFontStyle           = enumType("FontStyle", types.FontStyleNormal)
	TypeFontStretch         = enumType("FontStretch", types.FontStretchNormal)
	TypeCursorType          = enumType("CursorType", types.CursorDefault)
	TypeTextDecorations     = enumType("TextDecorations", types.TextDecorationsNone)
	TypeVisibility          = enumType("Visibility", types.Visible)
	TypeHorizontalAlignment = enumType("HorizontalAlignment", types.HorizontalAlignmentLeft)
)

var (
	TypeEventObject = &ManagedType{
		Name:        "EventObject",
		Base:        TypeObject,
		BuiltinKind: KindEventObject,
		New:         newDependencyObject,
	}
	TypeDependencyObject = &ManagedType{
		Name:                 "DependencyObject",
		Base:                 TypeEventObject,
		BuiltinKind:          KindDependencyObject,
		DefaultConstructible: true,
		New:                  newDependencyObject,
	}
	TypeCollection = &ManagedType{
		Name:        "Collection",
		Base:        TypeDependencyObject,
		BuiltinKind: KindCollection,
		New:         newDependencyObject,
	}
)

// builtinTypes are registered when a bridge is created. Order matters: the
// first type registered for a kind is the one KindToType returns.
var builtinTypes = []*ManagedType{
	TypeObject,
	TypeBool,
	TypeChar,
	TypeInt32,
	TypeUInt32,
	TypeInt64,
	TypeUInt64,
	TypeDouble,
	TypeTimeSpan,
	TypeString,
	TypePoint,
	TypeSize,
	TypeRect,
	TypeThickness,
	TypeCornerRadius,
	TypeColor,
	TypeDuration,
	TypeKeyTime,
	TypeGridLength,
	TypeRepeatBehavior,
	TypeMatrix,
	TypeUri,
	TypeXmlLanguage,
	TypeFontFamily,
	TypePropertyPath,
	TypeDependencyProperty,
	TypeManagedTypeInfo,
	TypeFontWeight,
	TypeFontStyle,
	TypeFontStretch,
	TypeCursorType,
	TypeTextDecorations,
	TypeVisibility,
	TypeHorizontalAlignment,
	TypeEventObject,
	TypeDependencyObject,
	TypeCollection,
}

func valueType[T any](name string, kind Kind, zero T) *ManagedType {
	return &ManagedType{
		Name:        name,
		BuiltinKind: kind,
		IsValueType: true,
		Zero:        func() any { return zero },
	}
}

func enumType[T ~int32](name string, zero T) *ManagedType {
	return &ManagedType{
		Name:        name,
		BuiltinKind: KindInt32,
		IsValueType: true,
		Zero:        func() any { return zero },
		FromInt32:   func(v int32) any { return T(v) },
		Coerce: func(v any) (any, error) {
			i, err := coerceInt32(v)
			if err != nil {
				return nil, err
			}
			return T(i.(int32)), nil
		},
	}
}

func coerceBool(v any) (any, error) {
	switch tv := v.(type) {
	case bool:
		return tv, nil
	case string:
		return strconv.ParseBool(tv)
	}
	return nil, fmt.Errorf("cannot convert %T to bool", v)
}

func coerceDouble(v any) (any, error) {
	switch tv := v.(type) {
	case float64:
		return tv, nil
	case float32:
		return float64(tv), nil
	case int:
		return float64(tv), nil
	case int32:
		return float64(tv), nil
	case int64:
		return float64(tv), nil
	case uint32:
		return float64(tv), nil
	case uint64:
		return float64(tv), nil
	case string:
		return strconv.ParseFloat(tv, 64)
	}
	return nil, fmt.Errorf("cannot convert %T to double", v)
}

func coerceInt64(v any) (any, error) {
	switch tv := v.(type) {
	case int64:
		return tv, nil
	case int:
		return int64(tv), nil
	case int32:
		return int64(tv), nil
	case uint32:
		return int64(tv), nil
	case string:
		return strconv.ParseInt(tv, 10, 64)
	}
	return nil, fmt.Errorf("cannot convert %T to int64", v)
}

func coerceInt32(v any) (any, error) {
	if m, ok := v.(Int32Marshaler); ok {
		return m.MarshalInt32(), nil
	}
	if f, ok := v.(float64); ok {
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("cannot convert %v to int32 without losing precision", f)
		}
		v = int64(f)
	}
	i, err := coerceInt64(v)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %T to int32", v)
	}
	i64 := i.(int64)
	if i64 < math.MinInt32 || i64 > math.MaxInt32 {
		return nil, fmt.Errorf("%d overflows int32", i64)
	}
	return int32(i64), nil
}

func coerceString(v any) (any, error) {
	switch tv := v.(type) {
	case string:
		return tv, nil
	case fmt.Stringer:
		return tv.String(), nil
	case int, int32, int64, uint32, uint64:
		return fmt.Sprint(tv), nil
	case float64:
		return strconv.FormatFloat(tv, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(tv), nil
	}
	return nil, fmt.Errorf("cannot convert %T to string", v)
}
