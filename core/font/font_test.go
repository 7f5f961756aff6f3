package font

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/math/fixed"
)

func TestFallbackFont(t *testing.T) {
	f := FallbackFont()
	require.NotNil(t, f)
	assert.Equal(t, "Go", f.Fontname)
	assert.Same(t, f, FallbackFont())
}

func TestParseFont(t *testing.T) {
	f, err := ParseOpenTypeFont(gobold.TTF)
	require.NoError(t, err)
	assert.Contains(t, f.Fontname, "Go")
	_, err = ParseOpenTypeFont([]byte("no font"))
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestFontStyle(t *testing.T) {
	bold, italic := FallbackFont().Style()
	assert.False(t, bold)
	assert.False(t, italic)
	f, err := ParseOpenTypeFont(gobolditalic.TTF)
	require.NoError(t, err)
	bold, italic = f.Style()
	assert.True(t, bold)
	assert.True(t, italic)
}

func TestLoadMissingFont(t *testing.T) {
	_, err := LoadOpenTypeFont(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)
	assert.Equal(t, core.EIO, core.Code(err))
}

func TestNormalizeFontname(t *testing.T) {
	assert.Equal(t, "go-bold", NormalizeFontname(" Go-Bold.ttf "))
	assert.Equal(t, "gentium_plus", NormalizeFontname("Gentium Plus"))
}

func TestPrepareCaseSize(t *testing.T) {
	_, err := FallbackFont().PrepareCase(0, Options{})
	assert.ErrorIs(t, err, ErrInvalidSize)
	tc, err := FallbackFont().PrepareCase(12, Options{})
	require.NoError(t, err)
	assert.Equal(t, 12, tc.Size())
	assert.NoError(t, tc.Close())
}

func TestRasterizerMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontatlas.fonts")
	defer teardown()
	//
	r := NewRasterizer(FallbackFont(), Options{Antialiased: true})
	defer r.Close()
	m, ok := r.Metrics(32, 'A')
	require.True(t, ok)
	t.Logf("metrics for 'A' = %+v", m)
	assert.Greater(t, m.Width(), 0)
	assert.Greater(t, m.Height(), 0)
	assert.GreaterOrEqual(t, m.MinY, -1, "'A' has no descender")
	assert.Greater(t, m.XAdvance, 0.0)
	g, ok := r.Metrics(32, 'g')
	require.True(t, ok)
	assert.Less(t, g.MinY, 0, "'g' has a descender")
	sp, ok := r.Metrics(32, ' ')
	require.True(t, ok)
	assert.Equal(t, 0, sp.Width())
	assert.Greater(t, sp.XAdvance, 0.0)
	_, ok = r.Metrics(32, 0x1F600)
	assert.False(t, ok, "Go font has no emoji")
	assert.Equal(t, "Go", r.FaceName())
	assert.Greater(t, r.Ascender(32), 0)
	assert.Greater(t, r.LineHeight(32), r.Ascender(32))
}

func TestRasterizerRender(t *testing.T) {
	r := NewRasterizer(FallbackFont(), Options{Antialiased: false})
	fg := color.NRGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}
	img, err := r.Render(24, 'W', fg)
	require.NoError(t, err)
	m, _ := r.Metrics(24, 'W')
	assert.Equal(t, m.Width(), img.Bounds().Dx())
	assert.Equal(t, m.Height(), img.Bounds().Dy())
	opaque := 0
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			c := img.NRGBAAt(x, y)
			assert.Contains(t, []uint8{0, 0xff}, c.A, "without antialiasing coverage is binary")
			assert.Equal(t, fg.R, c.R)
			if c.A == 0xff {
				opaque++
			}
		}
	}
	assert.Greater(t, opaque, 0)
	_, err = r.Render(24, 0x1F600, fg)
	assert.ErrorIs(t, err, ErrUnsupportedGlyph)
}

func TestRasterizerAdvance(t *testing.T) {
	r := NewRasterizer(FallbackFont(), Options{})
	a := r.Advance(20, []rune("A"))
	b := r.Advance(20, []rune("B"))
	ab := r.Advance(20, []rune("AB"))
	assert.Equal(t, a+b, ab, "no kerning requested")
	assert.Equal(t, fixed.Int26_6(0), r.Advance(20, nil))
}
