package types

// The enumerations below all travel as int32. They implement MarshalInt32 so
// the encoder can send them without knowing their Go type.

type FontWeight int32

const (
	FontWeightThin       FontWeight = 100
	FontWeightExtraLight FontWeight = 200
	FontWeightLight      FontWeight = 300
	FontWeightNormal     FontWeight = 400
	FontWeightMedium     FontWeight = 500
	FontWeightSemiBold   FontWeight = 600
	FontWeightBold       FontWeight = 700
	FontWeightExtraBold  FontWeight = 800
	FontWeightBlack      FontWeight = 900
	FontWeightExtraBlack FontWeight = 950
)

func (fw FontWeight) MarshalInt32() int32 { return int32(fw) }

type FontStyle int32

const (
	FontStyleNormal FontStyle = iota
	FontStyleOblique
	FontStyleItalic
)

func (fs FontStyle) MarshalInt32() int32 { return int32(fs) }

type FontStretch int32

const (
	FontStretchUltraCondensed FontStretch = iota + 1
	FontStretchExtraCondensed
	FontStretchCondensed
	FontStretchSemiCondensed
	FontStretchNormal
	FontStretchSemiExpanded
	FontStretchExpanded
	FontStretchExtraExpanded
	FontStretchUltraExpanded
)

func (fs FontStretch) MarshalInt32() int32 { return int32(fs) }

type CursorType int32

const (
	CursorDefault CursorType = iota - 1
	CursorArrow
	CursorHand
	CursorWait
	CursorIBeam
	CursorStylus
	CursorEraser
	CursorNone
)

func (c CursorType) MarshalInt32() int32 { return int32(c) }

// TextDecorations only has an underline on the native side; None is the
// absence of a collection.
type TextDecorations int32

const (
	TextDecorationsNone TextDecorations = iota
	TextDecorationsUnderline
)

func (td TextDecorations) MarshalInt32() int32 { return int32(td) }

type Visibility int32

const (
	Visible Visibility = iota
	Collapsed
)

func (v Visibility) MarshalInt32() int32 { return int32(v) }

type HorizontalAlignment int32

const (
	HorizontalAlignmentLeft HorizontalAlignment = iota
	HorizontalAlignmentCenter
	HorizontalAlignmentRight
	HorizontalAlignmentStretch
)

func (ha HorizontalAlignment) MarshalInt32() int32 { return int32(ha) }
