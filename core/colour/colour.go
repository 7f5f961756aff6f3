/*
Package colour parses colour arguments and applies the alpha operations
needed for glyph bitmaps and texture pages.

Colours are given as hex strings of the form RRGGBB or RRGGBBAA. Six digits
imply full opacity. All images handled here are *image.NRGBA, i.e. they
carry straight (non-premultiplied) alpha until Premultiply is called
explicitly.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package colour

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/npillmayer/fontatlas/core"
)

// ErrInvalidColour is returned for colour strings not matching RRGGBB or RRGGBBAA.
var ErrInvalidColour = errors.New("colour: invalid colour (use RRGGBB or RRGGBBAA)")

// Parse converts a hex colour string to a colour value. A leading '#' is
// tolerated.
func Parse(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(s) {
	case 6:
		s += "ff"
	case 8:
	default:
		return color.NRGBA{}, core.WrapError(ErrInvalidColour, core.EINVALID,
			"invalid colour: %q (use RRGGBB or RRGGBBAA)", hex)
	}
	val, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, core.WrapError(ErrInvalidColour, core.EINVALID,
			"invalid colour: %q (use RRGGBB or RRGGBBAA)", hex)
	}
	return color.NRGBA{
		R: uint8(val >> 24),
		G: uint8(val >> 16),
		B: uint8(val >> 8),
		A: uint8(val),
	}, nil
}

// MustParse is like Parse, but panics on invalid input. Intended for
// constants and tests.
func MustParse(hex string) color.NRGBA {
	c, err := Parse(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as RRGGBBAA.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Transparent returns c with alpha set to zero.
func Transparent(c color.NRGBA) color.NRGBA {
	c.A = 0
	return c
}

// MultiplyAlpha scales the alpha channel of every pixel by a/255.
// Colour channels are left untouched, as alpha is straight. For a == 255
// the image is not modified.
func MultiplyAlpha(img *image.NRGBA, a uint8) {
	if img == nil || a == 0xff {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			img.Pix[i+3] = mul8(img.Pix[i+3], a)
		}
	}
}

// Premultiply multiplies the colour channels of every pixel by its alpha,
// leaving alpha unchanged. After this call the image's pixel values are
// premultiplied, even though the type still claims NRGBA.
func Premultiply(img *image.NRGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			a := img.Pix[i+3]
			img.Pix[i+0] = mul8(img.Pix[i+0], a)
			img.Pix[i+1] = mul8(img.Pix[i+1], a)
			img.Pix[i+2] = mul8(img.Pix[i+2], a)
		}
	}
}

// Fill sets every pixel of img to c.
func Fill(img *image.NRGBA, c color.NRGBA) {
	if img == nil {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
}

// mul8 computes round(x*y/255).
func mul8(x, y uint8) uint8 {
	v := uint32(x)*uint32(y) + 0x80
	return uint8((v + v>>8) >> 8)
}
