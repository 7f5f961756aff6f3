package glyphs

import (
	"fmt"
	"image/color"
)

// Padding is the number of transparent pixels around a glyph.
type Padding struct {
	Top, Right, Bottom, Left int
}

// UniformPadding returns a padding of p pixels on every side.
func UniformPadding(p int) Padding {
	return Padding{Top: p, Right: p, Bottom: p, Left: p}
}

// String formats the padding the way BMFont does, "top,right,bottom,left".
func (p Padding) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", p.Top, p.Right, p.Bottom, p.Left)
}

// Style collects the rendering options for glyphs.
//
// BorderWidth, CharSpacing and LineSpacing are given for BaseSize and are
// scaled to each rendered size. A BaseSize of 0 leaves them unscaled.
// Padding is never scaled.
type Style struct {
	Foreground  color.NRGBA
	Border      color.NRGBA
	Background  color.NRGBA
	BorderWidth int
	CharSpacing int
	LineSpacing int
	Padding     Padding
	BaseSize    int
}

// Scale scales value from baseSize to size, rounding half up.
// A baseSize ≤ 0 means "same as size".
func Scale(value, size, baseSize int) int {
	if baseSize <= 0 {
		baseSize = size
	}
	if baseSize == 0 {
		return value
	}
	return int(float64(value)*float64(size)/float64(baseSize) + 0.5)
}

// Scaled holds the style values scaled to one pixel size.
type Scaled struct {
	Size        int
	BorderWidth int
	CharSpacing int
	LineSpacing int
}

// ScaledTo scales the style's sizes to a pixel size.
func (st Style) ScaledTo(size int) Scaled {
	return Scaled{
		Size:        size,
		BorderWidth: Scale(st.BorderWidth, size, st.BaseSize),
		CharSpacing: Scale(st.CharSpacing, size, st.BaseSize),
		LineSpacing: Scale(st.LineSpacing, size, st.BaseSize),
	}
}
