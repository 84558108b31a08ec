package types

import (
	"fmt"
	"math"
)

type Point struct {
	X float64
	Y float64
}

type Size struct {
	Width  float64
	Height float64
}

type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

type Thickness struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// UniformThickness returns a Thickness with the same length on every side.
func UniformThickness(v float64) Thickness {
	return Thickness{Left: v, Top: v, Right: v, Bottom: v}
}

type CornerRadius struct {
	TopLeft     float64
	TopRight    float64
	BottomRight float64
	BottomLeft  float64
}

func UniformCornerRadius(v float64) CornerRadius {
	return CornerRadius{TopLeft: v, TopRight: v, BottomRight: v, BottomLeft: v}
}

// Color is an sRGB color with 8 bits per channel. The native side stores
// colors as four doubles in the 0..1 range.
type Color struct {
	A uint8
	R uint8
	G uint8
	B uint8
}

func ColorFromArgb(a, r, g, b uint8) Color {
	return Color{A: a, R: r, G: g, B: b}
}

// ColorFromScRgb converts normalized channel values back into a Color.
func ColorFromScRgb(a, r, g, b float64) Color {
	return Color{
		A: channelToByte(a),
		R: channelToByte(r),
		G: channelToByte(g),
		B: channelToByte(b),
	}
}

// ScRgb returns the normalized channels in native order (r, g, b, a).
func (c Color) ScRgb() (r, g, b, a float64) {
	return float64(c.R) / 255.0, float64(c.G) / 255.0, float64(c.B) / 255.0, float64(c.A) / 255.0
}

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

func channelToByte(v float64) uint8 {
	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Matrix is an affine 2D transform. Unlike the other structs it has no
// struct-compatible native layout: the native Matrix is an object.
type Matrix struct {
	M11     float64
	M12     float64
	M21     float64
	M22     float64
	OffsetX float64
	OffsetY float64
}

var IdentityMatrix = Matrix{M11: 1, M22: 1}

func (m Matrix) IsIdentity() bool {
	return m == IdentityMatrix
}

func (m Matrix) Transform(p Point) Point {
	return Point{
		X: p.X*m.M11 + p.Y*m.M21 + m.OffsetX,
		Y: p.X*m.M12 + p.Y*m.M22 + m.OffsetY,
	}
}
