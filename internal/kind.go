package moonbridge

import "fmt"

// Kind is the native type tag. The numbering is shared verbatim with the
// native core and must never be reordered.
type Kind int32

const (
	KindInvalid Kind = iota
	KindBool
	KindCanvas
	KindChar
	KindCollection
	KindColor
	KindControl
	KindCornerRadius
	KindDependencyObject
	KindDependencyProperty
	KindDouble
	KindDuration
	KindEventObject
	KindFontFamily
	KindFrameworkElement
	KindGridLength
	KindInt32
	KindInt64
	KindKeyTime
	KindManaged
	KindManagedTypeInfo
	KindMatrix
	KindObject
	KindPanel
	KindPoint
	KindPropertyPath
	KindRect
	KindRepeatBehavior
	KindSize
	KindString
	KindThickness
	KindTimeSpan
	KindUIElement
	KindUInt32
	KindUInt64
	KindUri
	KindUserControl
	KindXmlLanguage

	// KindLastBuiltin is the first tag available to types registered at
	// run time.
	KindLastBuiltin
)

var kindNames = [...]string{
	KindInvalid:            "INVALID",
	KindBool:               "BOOL",
	KindCanvas:             "CANVAS",
	KindChar:               "CHAR",
	KindCollection:         "COLLECTION",
	KindColor:              "COLOR",
	KindControl:            "CONTROL",
	KindCornerRadius:       "CORNERRADIUS",
	KindDependencyObject:   "DEPENDENCY_OBJECT",
	KindDependencyProperty: "DEPENDENCYPROPERTY",
	KindDouble:             "DOUBLE",
	KindDuration:           "DURATION",
	KindEventObject:        "EVENTOBJECT",
	KindFontFamily:         "FONTFAMILY",
	KindFrameworkElement:   "FRAMEWORKELEMENT",
	KindGridLength:         "GRIDLENGTH",
	KindInt32:              "INT32",
	KindInt64:              "INT64",
	KindKeyTime:            "KEYTIME",
	KindManaged:            "MANAGED",
	KindManagedTypeInfo:    "MANAGEDTYPEINFO",
	KindMatrix:             "MATRIX",
	KindObject:             "OBJECT",
	KindPanel:              "PANEL",
	KindPoint:              "POINT",
	KindPropertyPath:       "PROPERTYPATH",
	KindRect:               "RECT",
	KindRepeatBehavior:     "REPEATBEHAVIOR",
	KindSize:               "SIZE",
	KindString:             "STRING",
	KindThickness:          "THICKNESS",
	KindTimeSpan:           "TIMESPAN",
	KindUIElement:          "UIELEMENT",
	KindUInt32:             "UINT32",
	KindUInt64:             "UINT64",
	KindUri:                "URI",
	KindUserControl:        "USERCONTROL",
	KindXmlLanguage:        "XMLLANGUAGE",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for i := range kindNames {
		m[kindNames[i]] = Kind(i)
	}
	return m
}()

// KindFromName resolves a native enumeration name such as "DEPENDENCY_OBJECT".
func KindFromName(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

func (k Kind) IsBuiltin() bool {
	return k > KindInvalid && k < KindLastBuiltin
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("KIND(%d)", int32(k))
}
