package glyphs

import (
	"image"
	"image/color"
	"testing"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/charset"
	"github.com/npillmayer/fontatlas/core/font"
	"github.com/npillmayer/fontatlas/core/font/fonttest"
	"github.com/npillmayer/fontatlas/engine/atlas"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.NRGBA{R: 0xff, A: 0xff}
	black = color.NRGBA{A: 0xff}
)

func TestScale(t *testing.T) {
	assert.Equal(t, 4, Scale(2, 32, 16))
	assert.Equal(t, 2, Scale(3, 20, 32)) // 1.875 rounds up
	assert.Equal(t, 5, Scale(5, 12, 0))
	assert.Equal(t, 0, Scale(0, 12, 24))
	sc := Style{BorderWidth: 2, CharSpacing: 1, LineSpacing: 3, BaseSize: 16}.ScaledTo(32)
	assert.Equal(t, Scaled{Size: 32, BorderWidth: 4, CharSpacing: 2, LineSpacing: 6}, sc)
}

func TestDiscOffsets(t *testing.T) {
	assert.Empty(t, DiscOffsets(0))
	assert.Equal(t, []image.Point{{0, 0}}, DiscOffsets(1))
	d2 := DiscOffsets(2)
	assert.Len(t, d2, 9)
	assert.Contains(t, d2, image.Pt(1, 1))
	assert.Contains(t, d2, image.Pt(-1, -1))
	assert.NotContains(t, d2, image.Pt(2, 0))
	for _, p := range DiscOffsets(5) {
		assert.Less(t, p.X*p.X+p.Y*p.Y, 25)
	}
}

func TestRenderDimensions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontatlas.glyphs")
	defer teardown()
	//
	style := Style{Foreground: red, Padding: Padding{Top: 1, Right: 2, Bottom: 3, Left: 4}}
	st := NewStore(fonttest.New(""), style)
	bitmaps, err := st.Render(32, []rune("Ab"))
	require.NoError(t, err)
	require.Len(t, bitmaps, 2)
	a := bitmaps['A'] // 17×24 in the synthetic font
	assert.Equal(t, atlas.Key{Size: 32, Char: 'A'}, a.Key)
	assert.Equal(t, 17+6, a.W())
	assert.Equal(t, 24+4, a.H())
	assert.Equal(t, image.Pt(4, 1), a.Origin)
	assert.Equal(t, 25, a.Ascent())
	assert.Equal(t, 3, a.Inset())
	assert.Equal(t, uint8(0), a.Image.NRGBAAt(0, 0).A, "padding is transparent")
	assert.Equal(t, red, a.Image.NRGBAAt(4, 1))
	assert.Equal(t, []int{32}, st.Sizes())
	assert.Equal(t, []atlas.Rect{a.Rect(), bitmaps['b'].Rect()}, st.Rects())
	m, ok := st.Metrics(32, 'A')
	require.True(t, ok)
	assert.Equal(t, m, a.Metrics, "bitmaps keep the raw metrics")
	_, ok = NewStore(fonttest.New("A"), style).Metrics(32, 'A')
	assert.False(t, ok)
}

func TestRenderEmptyGlyph(t *testing.T) {
	st := NewStore(fonttest.New(""), Style{Foreground: red})
	bitmaps, err := st.Render(12, []rune(" "))
	require.NoError(t, err)
	assert.Equal(t, 1, bitmaps[' '].W())
	assert.Equal(t, 1, bitmaps[' '].H())
}

func TestForegroundAlpha(t *testing.T) {
	fg := color.NRGBA{R: 0xff, A: 0x80}
	st := NewStore(fonttest.New(""), Style{Foreground: fg})
	bitmaps, err := st.Render(16, []rune("H"))
	require.NoError(t, err)
	c := bitmaps['H'].Image.NRGBAAt(2, 2)
	assert.Equal(t, uint8(0x80), c.A)
	assert.Equal(t, uint8(0xff), c.R)
}

func TestRenderUnsupported(t *testing.T) {
	st := NewStore(fonttest.New("☃"), Style{Foreground: red})
	_, err := st.Render(12, []rune("a☃"))
	assert.ErrorIs(t, err, font.ErrUnsupportedGlyph)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Empty(t, st.Sizes())
}

func footprint(img *image.NRGBA) map[image.Point]bool {
	fp := make(map[image.Point]bool)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A > 0 {
				fp[image.Pt(x, y)] = true
			}
		}
	}
	return fp
}

func checkBorderSuperset(t *testing.T, r font.Rasterizer, size int, c rune, bw int) {
	plain, err := NewStore(r, Style{Foreground: red}).Render(size, []rune{c})
	require.NoError(t, err)
	bordered, err := NewStore(r, Style{Foreground: red, Border: black, BorderWidth: bw}).Render(size, []rune{c})
	require.NoError(t, err)
	p, b := plain[c], bordered[c]
	assert.Equal(t, p.W()+2*bw, b.W())
	assert.Equal(t, p.H()+2*bw, b.H())
	pfp, bfp := footprint(p.Image), footprint(b.Image)
	require.NotEmpty(t, pfp)
	for pt := range pfp {
		assert.True(t, bfp[pt.Add(b.Origin)], "bordered footprint misses %v", pt)
		if p.Image.NRGBAAt(pt.X, pt.Y).A == 0xff {
			assert.Equal(t, red, b.Image.NRGBAAt(pt.X+b.Origin.X, pt.Y+b.Origin.Y),
				"glyph is drawn on top of the border")
		}
	}
	assert.Greater(t, len(bfp), len(pfp), "bordered footprint must be a strict superset")
	// border margin is bounded by the border width: every pixel lies within
	// the bitmap, which extends the glyph by exactly bw on each side
	for pt := range bfp {
		assert.True(t, pt.In(b.Image.Bounds()))
	}
}

func TestBorderSupersetSynthetic(t *testing.T) {
	checkBorderSuperset(t, fonttest.New(""), 24, 'H', 2)
}

func TestBorderSupersetOutline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontatlas.glyphs")
	defer teardown()
	//
	r := font.NewRasterizer(font.FallbackFont(), font.Options{Antialiased: false})
	defer r.Close()
	checkBorderSuperset(t, r, 32, 'o', 2)
}

func TestBorderAlpha(t *testing.T) {
	border := color.NRGBA{B: 0xff, A: 0x40}
	st := NewStore(fonttest.New(""), Style{Foreground: red, Border: border, BorderWidth: 2})
	bitmaps, err := st.Render(16, []rune("H"))
	require.NoError(t, err)
	bm := bitmaps['H']
	// left of the glyph, inside the disc, only border is present
	c := bm.Image.NRGBAAt(bm.Origin.X-1, bm.Origin.Y+2)
	assert.Equal(t, uint8(0xff), c.B)
	assert.Equal(t, uint8(0x40), c.A)
}

// gappy has no 'b' at 24px.
type gappy struct {
	*fonttest.Rasterizer
}

func (g gappy) Metrics(size int, r rune) (font.GlyphMetrics, bool) {
	if r == 'b' && size == 24 {
		return font.GlyphMetrics{}, false
	}
	return g.Rasterizer.Metrics(size, r)
}

func TestNarrowIsGlobal(t *testing.T) {
	r := gappy{fonttest.New("x")}
	cs := charset.New("abcx")
	visible, dropped := Narrow(r, []int{12, 24, 36}, cs)
	assert.Equal(t, []rune("ac"), visible.Runes())
	assert.Equal(t, []rune("bx"), dropped)
	assert.Equal(t, 4, cs.Len(), "narrowing does not modify its input")
	visible, dropped = Narrow(r, []int{12}, cs)
	assert.Equal(t, []rune("abc"), visible.Runes())
	assert.Equal(t, []rune("x"), dropped)
	visible, dropped = Narrow(fonttest.New(""), []int{12}, cs)
	assert.Same(t, cs, visible)
	assert.Empty(t, dropped)
}
