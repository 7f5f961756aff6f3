package glyphs

import (
	"image"
	"image/color"
	"math"

	"github.com/npillmayer/fontatlas/core/colour"
	xdraw "golang.org/x/image/draw"
)

// DiscOffsets returns the stamp offsets for a border of the given width:
// every (a,b) with −width ≤ a,b ≤ width+1 and √(a²+b²) < width, in row-major
// order. Width ≤ 0 yields no offsets.
func DiscOffsets(width int) []image.Point {
	if width <= 0 {
		return nil
	}
	var offsets []image.Point
	for b := 0; b < 2*width+2; b++ {
		for a := 0; a < 2*width+2; a++ {
			x, y := a-width, b-width
			if math.Sqrt(float64(x*x+y*y)) < float64(width) {
				offsets = append(offsets, image.Pt(x, y))
			}
		}
	}
	return offsets
}

// Composite creates the border layer of a glyph bitmap of size w×h.
// glyph has to be rendered in the (opaque) border colour; it is stamped
// at origin plus every offset of the disc for width. Afterwards, the alpha of
// border is applied over the whole layer. The caller draws the glyph layer
// on top of the result.
func Composite(glyph *image.NRGBA, w, h int, origin image.Point, border color.NRGBA, width int) *image.NRGBA {
	return compositeWith(glyph, w, h, origin, border, DiscOffsets(width))
}

func compositeWith(glyph *image.NRGBA, w, h int, origin image.Point, border color.NRGBA,
	offsets []image.Point) *image.NRGBA {
	//
	layer := image.NewNRGBA(image.Rect(0, 0, w, h))
	if glyph == nil || glyph.Bounds().Empty() {
		return layer
	}
	gb := glyph.Bounds()
	for _, off := range offsets {
		at := origin.Add(off)
		r := image.Rectangle{Min: at, Max: at.Add(gb.Size())}
		xdraw.Draw(layer, r, glyph, gb.Min, xdraw.Over)
	}
	colour.MultiplyAlpha(layer, border.A)
	return layer
}
