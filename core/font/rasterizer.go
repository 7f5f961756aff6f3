package font

import (
	"image"
	"image/color"

	"github.com/npillmayer/fontatlas/core"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// GlyphMetrics are the metrics of a rendered glyph at a pixel size.
// Bearings are relative to the pen position on the baseline, with y
// pointing upwards, i.e. MinY is negative for glyphs with a descender.
// MaxX-MinX and MaxY-MinY are the dimensions of the rendered bitmap.
type GlyphMetrics struct {
	MinX, MaxX int
	MinY, MaxY int
	XAdvance   float64 // horizontal pen movement in pixels
}

// Width of the rendered glyph in pixels.
func (m GlyphMetrics) Width() int {
	return m.MaxX - m.MinX
}

// Height of the rendered glyph in pixels.
func (m GlyphMetrics) Height() int {
	return m.MaxY - m.MinY
}

// Rasterizer is the capability the atlas engine needs from a font.
//
// All sizes are in pixels. Implementations are not required to be safe for
// concurrent use.
type Rasterizer interface {
	// FaceName is the name of the font face, as written to metrics files.
	FaceName() string
	// Metrics returns the metrics for a character, or false if the font
	// does not support it.
	Metrics(size int, r rune) (GlyphMetrics, bool)
	// Render rasterizes a character in colour fg on a fully transparent
	// background. The resulting bitmap has straight alpha and the dimensions
	// given by Metrics. Unsupported characters yield ErrUnsupportedGlyph.
	Render(size int, r rune, fg color.NRGBA) (*image.NRGBA, error)
	// Advance measures the pen movement for a run of characters set
	// together, including kerning if the rasterizer has been asked to apply it.
	Advance(size int, text []rune) fixed.Int26_6
	// LineHeight is the recommended distance between two baselines.
	LineHeight(size int) int
	// Ascender is the distance from the top of a line to its baseline.
	Ascender(size int) int
}

// Options control rasterization.
type Options struct {
	DPI         float64 // resolution; 72 (the default) makes points equal pixels
	Antialiased bool    // if false, glyph coverage is thresholded to 0 or 1
	Kerning     bool    // apply the font's kerning when measuring runs
	Hinting     xfont.Hinting
}

func (opts Options) dpi() float64 {
	if opts.DPI <= 0 {
		return 72
	}
	return opts.DPI
}

// SFNTRasterizer rasterizes glyphs of an OpenType/TrueType font with the
// vector rasterizer of golang.org/x/image.
type SFNTRasterizer struct {
	font      *ScalableFont
	opts      Options
	typecases map[int]*TypeCase
	buf       sfnt.Buffer
}

var _ Rasterizer = (*SFNTRasterizer)(nil)

// NewRasterizer creates a rasterizer for a scalable font.
func NewRasterizer(f *ScalableFont, opts Options) *SFNTRasterizer {
	tracer().Infof("rasterizer for %s: antialiased=%v, kerning=%v", f.Fontname, opts.Antialiased, opts.Kerning)
	return &SFNTRasterizer{
		font:      f,
		opts:      opts,
		typecases: make(map[int]*TypeCase),
	}
}

// Font returns the scalable font of the rasterizer.
func (sr *SFNTRasterizer) Font() *ScalableFont {
	return sr.font
}

// FaceName is the font's family name.
func (sr *SFNTRasterizer) FaceName() string {
	return sr.font.Fontname
}

// TypeCase returns the (cached) typecase at a pixel size.
func (sr *SFNTRasterizer) TypeCase(size int) (*TypeCase, error) {
	if tc, ok := sr.typecases[size]; ok {
		return tc, nil
	}
	tc, err := sr.font.PrepareCase(size, sr.opts)
	if err != nil {
		return nil, err
	}
	sr.typecases[size] = tc
	return tc, nil
}

// Supports is a predicate: does the font have a glyph for r?
func (sr *SFNTRasterizer) Supports(r rune) bool {
	gid, err := sr.font.SFNT.GlyphIndex(&sr.buf, r)
	return err == nil && gid != 0
}

// Metrics returns the metrics of r at a pixel size.
func (sr *SFNTRasterizer) Metrics(size int, r rune) (GlyphMetrics, bool) {
	if !sr.Supports(r) {
		return GlyphMetrics{}, false
	}
	tc, err := sr.TypeCase(size)
	if err != nil {
		tracer().Errorf(err.Error())
		return GlyphMetrics{}, false
	}
	dr, _, _, advance, ok := tc.face.Glyph(fixed.Point26_6{}, r)
	if !ok { // glyph without outline, e.g. space
		if advance, ok = tc.face.GlyphAdvance(r); !ok {
			return GlyphMetrics{}, false
		}
		dr = image.Rectangle{}
	}
	if dr.Empty() {
		dr = image.Rectangle{}
	}
	return GlyphMetrics{
		MinX:     dr.Min.X,
		MaxX:     dr.Max.X,
		MinY:     -dr.Max.Y,
		MaxY:     -dr.Min.Y,
		XAdvance: float64(advance) / 64,
	}, true
}

// Render rasterizes r at a pixel size, in colour fg.
func (sr *SFNTRasterizer) Render(size int, r rune, fg color.NRGBA) (*image.NRGBA, error) {
	if !sr.Supports(r) {
		return nil, core.WrapError(ErrUnsupportedGlyph, core.EMISSING, "font has no glyph for %q", r)
	}
	tc, err := sr.TypeCase(size)
	if err != nil {
		return nil, err
	}
	dr, mask, maskp, _, ok := tc.face.Glyph(fixed.Point26_6{}, r)
	if !ok || dr.Empty() {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			_, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA()
			coverage := uint8(a >> 8)
			if !sr.opts.Antialiased {
				if coverage >= 0x80 {
					coverage = 0xff
				} else {
					coverage = 0
				}
			}
			img.SetNRGBA(x, y, color.NRGBA{R: fg.R, G: fg.G, B: fg.B, A: coverage})
		}
	}
	return img, nil
}

// Advance measures a run of characters. Kerning between adjacent characters
// is applied if the rasterizer has been created with option Kerning.
func (sr *SFNTRasterizer) Advance(size int, text []rune) fixed.Int26_6 {
	tc, err := sr.TypeCase(size)
	if err != nil {
		tracer().Errorf(err.Error())
		return 0
	}
	var w fixed.Int26_6
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 && sr.opts.Kerning {
			w += tc.face.Kern(prev, r)
		}
		a, ok := tc.face.GlyphAdvance(r)
		if !ok {
			tracer().Debugf("no advance for %q", r)
		}
		w += a
		prev = r
	}
	return w
}

// LineHeight is the font's line height at a pixel size.
func (sr *SFNTRasterizer) LineHeight(size int) int {
	tc, err := sr.TypeCase(size)
	if err != nil {
		return 0
	}
	return tc.face.Metrics().Height.Round()
}

// Ascender is the font's ascent at a pixel size.
func (sr *SFNTRasterizer) Ascender(size int) int {
	tc, err := sr.TypeCase(size)
	if err != nil {
		return 0
	}
	return tc.face.Metrics().Ascent.Round()
}

// Close releases all faces created by the rasterizer.
func (sr *SFNTRasterizer) Close() error {
	var err error
	for size, tc := range sr.typecases {
		if e := tc.Close(); e != nil && err == nil {
			err = e
		}
		delete(sr.typecases, size)
	}
	return err
}
