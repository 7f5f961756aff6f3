/*
Package fonttest provides a synthetic rasterizer with fixed, predictable
metrics. It lets the atlas engine be tested without any font file.

Glyphs are solid blocks. At pixel size s a glyph is s/2 + (r mod 4) pixels
wide. Glyphs for code-points in Descenders extend s/4 pixels below the
baseline, all others sit on it. Glyphs are s*3/4 pixels high. Space has no
bitmap but an advance of s/3.
*/
package fonttest

import (
	"image"
	"image/color"
	"strings"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/font"
	"golang.org/x/image/math/fixed"
)

// Descenders lists the characters with a descender.
const Descenders = "gjpqy"

// Pair is an ordered pair of characters.
type Pair struct {
	First, Second rune
}

// Rasterizer is a fake font.Rasterizer.
type Rasterizer struct {
	Name        string       // face name, defaults to "Synthetic"
	Unsupported string       // characters the "font" does not have
	Kerning     map[Pair]int // pixel adjustment when a pair is set together
	Renders     int          // counts calls to Render
}

var _ font.Rasterizer = (*Rasterizer)(nil)

// New creates a synthetic rasterizer lacking the characters in unsupported.
func New(unsupported string) *Rasterizer {
	return &Rasterizer{Unsupported: unsupported}
}

// FaceName returns the synthetic face name.
func (fr *Rasterizer) FaceName() string {
	if fr.Name == "" {
		return "Synthetic"
	}
	return fr.Name
}

func (fr *Rasterizer) supports(r rune) bool {
	return !strings.ContainsRune(fr.Unsupported, r)
}

// Metrics returns the synthetic metrics of r.
func (fr *Rasterizer) Metrics(size int, r rune) (font.GlyphMetrics, bool) {
	if !fr.supports(r) {
		return font.GlyphMetrics{}, false
	}
	if r == ' ' {
		return font.GlyphMetrics{XAdvance: float64(size) / 3}, true
	}
	w := size/2 + int(r%4)
	h := size * 3 / 4
	m := font.GlyphMetrics{MinX: 1, MaxX: 1 + w, MinY: 0, MaxY: h, XAdvance: float64(w + 2)}
	if strings.ContainsRune(Descenders, r) {
		m.MinY, m.MaxY = -size/4, h-size/4
	}
	return m, true
}

// Render produces a solid block of colour fg.
func (fr *Rasterizer) Render(size int, r rune, fg color.NRGBA) (*image.NRGBA, error) {
	m, ok := fr.Metrics(size, r)
	if !ok {
		return nil, core.WrapError(font.ErrUnsupportedGlyph, core.EMISSING, "synthetic font has no %q", r)
	}
	fr.Renders++
	img := image.NewNRGBA(image.Rect(0, 0, m.Width(), m.Height()))
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			img.SetNRGBA(x, y, fg)
		}
	}
	return img, nil
}

// Advance sums the advances of text plus the configured pair adjustments.
func (fr *Rasterizer) Advance(size int, text []rune) fixed.Int26_6 {
	var w fixed.Int26_6
	for i, r := range text {
		m, _ := fr.Metrics(size, r)
		w += fixed.Int26_6(m.XAdvance * 64)
		if i > 0 {
			w += fixed.I(fr.Kerning[Pair{text[i-1], r}])
		}
	}
	return w
}

// LineHeight is 5/4 of the size.
func (fr *Rasterizer) LineHeight(size int) int {
	return size * 5 / 4
}

// Ascender is 3/4 of the size.
func (fr *Rasterizer) Ascender(size int) int {
	return size * 3 / 4
}
