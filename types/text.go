package types

import "strings"

// Char is a single UTF-16 code unit on the native side. It is a distinct
// type so it does not collide with int32 when encoded.
type Char rune

// Uri keeps the string it was created from, relative or absolute.
type Uri struct {
	OriginalString string
}

func (u Uri) IsAbsolute() bool {
	return strings.Contains(u.OriginalString, "://")
}

func (u Uri) String() string {
	return u.OriginalString
}

// XmlLanguage is an IETF language tag.
type XmlLanguage string

type FontFamily struct {
	Source string
}

// PropertyPath refers either to a textual path or to a native property
// handle. When NativeProperty is set the path is not sent.
type PropertyPath struct {
	Path           string
	NativeProperty uint32
}
