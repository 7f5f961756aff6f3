package glyphs

import (
	"image"
	"image/color"
	"sort"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/colour"
	"github.com/npillmayer/fontatlas/core/font"
	"github.com/npillmayer/fontatlas/engine/atlas"
	xdraw "golang.org/x/image/draw"
)

// Bitmap is a rendered glyph, including padding and border. Images have
// straight alpha. Bitmaps are not modified after they have been produced.
type Bitmap struct {
	Key     atlas.Key
	Image   *image.NRGBA
	Metrics font.GlyphMetrics
	Origin  image.Point // top-left corner of the glyph proper within Image
}

// W is the width of the bitmap.
func (bm *Bitmap) W() int {
	return bm.Image.Bounds().Dx()
}

// H is the height of the bitmap.
func (bm *Bitmap) H() int {
	return bm.Image.Bounds().Dy()
}

// Ascent is the number of bitmap rows above the baseline.
func (bm *Bitmap) Ascent() int {
	return bm.Metrics.MaxY + bm.Origin.Y
}

// Inset is the number of bitmap rows below the glyph proper.
func (bm *Bitmap) Inset() int {
	return bm.H() - bm.Origin.Y - bm.Metrics.Height()
}

// Rect returns the rectangle to pack for bm.
func (bm *Bitmap) Rect() atlas.Rect {
	return atlas.Rect{Key: bm.Key, W: bm.W(), H: bm.H(), Ascent: bm.Ascent()}
}

// Store renders and holds glyph bitmaps for a set of pixel sizes.
// A Store is not safe for concurrent use.
type Store struct {
	r       font.Rasterizer
	style   Style
	bitmaps map[int]map[rune]*Bitmap
}

// NewStore creates a glyph store rendering glyphs of r in a given style.
func NewStore(r font.Rasterizer, style Style) *Store {
	return &Store{
		r:       r,
		style:   style,
		bitmaps: make(map[int]map[rune]*Bitmap),
	}
}

// Metrics returns the raw rasterizer metrics for a character.
func (st *Store) Metrics(size int, r rune) (font.GlyphMetrics, bool) {
	return st.r.Metrics(size, r)
}

// Render renders chars at a pixel size. Bitmaps are kept in the store and
// returned as a map. If the font does not support one of
// the characters, Render fails with an error wrapping font.ErrUnsupportedGlyph
// (error code EMISSING); no bitmaps are stored in this case.
func (st *Store) Render(size int, chars []rune) (map[rune]*Bitmap, error) {
	scaled := st.style.ScaledTo(size)
	tracer().Debugf("rendering %d glyphs at %dpx, border=%d", len(chars), size, scaled.BorderWidth)
	offsets := DiscOffsets(scaled.BorderWidth)
	result := make(map[rune]*Bitmap, len(chars))
	for _, c := range chars {
		bm, err := st.render(size, c, scaled.BorderWidth, offsets)
		if err != nil {
			return nil, err
		}
		result[c] = bm
	}
	if prev, ok := st.bitmaps[size]; ok {
		for c, bm := range result {
			prev[c] = bm
		}
	} else {
		st.bitmaps[size] = result
	}
	return result, nil
}

func (st *Store) render(size int, c rune, bw int, offsets []image.Point) (*Bitmap, error) {
	m, ok := st.Metrics(size, c)
	if !ok {
		return nil, core.WrapError(font.ErrUnsupportedGlyph, core.EMISSING,
			"font %s does not support %s at %dpx", st.r.FaceName(), describe(c), size)
	}
	glyph, err := st.r.Render(size, c, opaque(st.style.Foreground))
	if err != nil {
		return nil, err
	}
	colour.MultiplyAlpha(glyph, st.style.Foreground.A)
	pad := st.style.Padding
	gw, gh := glyph.Bounds().Dx(), glyph.Bounds().Dy()
	w := max1(gw + pad.Left + pad.Right + 2*bw)
	h := max1(gh + pad.Top + pad.Bottom + 2*bw)
	origin := image.Pt(pad.Left+bw, pad.Top+bw)
	var canvas *image.NRGBA
	if bw > 0 {
		bglyph, err := st.r.Render(size, c, opaque(st.style.Border))
		if err != nil {
			return nil, err
		}
		canvas = compositeWith(bglyph, w, h, origin, st.style.Border, offsets)
	} else {
		canvas = image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	if gw > 0 && gh > 0 {
		r := image.Rectangle{Min: origin, Max: origin.Add(glyph.Bounds().Size())}
		xdraw.Draw(canvas, r, glyph, glyph.Bounds().Min, xdraw.Over)
	}
	return &Bitmap{
		Key:     atlas.Key{Size: size, Char: c},
		Image:   canvas,
		Metrics: m,
		Origin:  origin,
	}, nil
}

// Bitmaps returns the bitmaps rendered so far for a size.
func (st *Store) Bitmaps(size int) map[rune]*Bitmap {
	return st.bitmaps[size]
}

// Sizes returns the pixel sizes rendered so far, ascending.
func (st *Store) Sizes() []int {
	sizes := make([]int, 0, len(st.bitmaps))
	for s := range st.bitmaps {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)
	return sizes
}

// All returns every bitmap of the store, keyed by size and character.
func (st *Store) All() map[atlas.Key]*Bitmap {
	all := make(map[atlas.Key]*Bitmap)
	for _, bitmaps := range st.bitmaps {
		for _, bm := range bitmaps {
			all[bm.Key] = bm
		}
	}
	return all
}

// Rects returns the rectangles to pack for all bitmaps, ordered by size and
// character.
func (st *Store) Rects() []atlas.Rect {
	var rects []atlas.Rect
	for _, size := range st.Sizes() {
		bitmaps := st.bitmaps[size]
		chars := make([]rune, 0, len(bitmaps))
		for c := range bitmaps {
			chars = append(chars, c)
		}
		sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
		for _, c := range chars {
			rects = append(rects, bitmaps[c].Rect())
		}
	}
	return rects
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xff
	return c
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
