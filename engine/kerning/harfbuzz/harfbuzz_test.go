package harfbuzz

import (
	"fmt"
	"testing"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/font"
	"github.com/npillmayer/fontatlas/engine/kerning"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestHBScript(t *testing.T) {
	id := "Plrd"
	script := language.MustParseScript(id)
	hstr := fmt.Sprintf("%x", uint32(Script4HB(script)))
	assert.Equal(t, "706c7264", hstr)
}

func TestScriptOf(t *testing.T) {
	assert.Equal(t, "Latn", ScriptOf([]rune("AV")).String())
	assert.Equal(t, "Cyrl", ScriptOf([]rune("Жж")).String())
	assert.Equal(t, "Latn", ScriptOf([]rune(".a")).String())
	assert.Equal(t, "Zyyy", ScriptOf([]rune("!?")).String())
}

func TestAdvanceMatchesFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontatlas.kerning")
	defer teardown()
	//
	for _, dpi := range []float64{72, 144} {
		m, err := NewMeasurer(font.FallbackFont(), dpi)
		require.NoError(t, err)
		r := font.NewRasterizer(font.FallbackFont(), font.Options{DPI: dpi})
		for _, c := range "AVTo" {
			hbw := m.Advance(32, []rune{c})
			xw := r.Advance(32, []rune{c})
			t.Logf("advance of %q at %v dpi: HarfBuzz=%v, x/image=%v", c, dpi, hbw, xw)
			assert.InDelta(t, xw.Round(), hbw.Round(), 1, "%q at %v dpi", c, dpi)
		}
		assert.Zero(t, m.Advance(32, nil))
		r.Close()
	}
}

func TestDefaultResolution(t *testing.T) {
	m72, err := NewMeasurer(font.FallbackFont(), 72)
	require.NoError(t, err)
	m0, err := NewMeasurer(font.FallbackFont(), 0)
	require.NoError(t, err)
	m144, err := NewMeasurer(font.FallbackFont(), 144)
	require.NoError(t, err)
	text := []rune("Wo")
	assert.Equal(t, m72.Advance(24, text), m0.Advance(24, text))
	assert.InDelta(t, float64(2*m72.Advance(24, text)), float64(m144.Advance(24, text)), 1)
}

func TestPairAdvances(t *testing.T) {
	m, err := NewMeasurer(font.FallbackFont(), 72)
	require.NoError(t, err)
	chars := []rune("AVTo.")
	table := kerning.Estimate(m, 48, chars)
	for _, c1 := range chars {
		for _, c2 := range chars {
			pair := m.Advance(48, []rune{c1, c2})
			sum := m.Advance(48, []rune{c1}) + m.Advance(48, []rune{c2})
			assert.Equal(t, (pair - sum).Round(), table[kerning.Pair{First: c1, Second: c2}],
				"pair %q%q", c1, c2)
		}
	}
	assert.Empty(t, table, "Go Regular has no pair adjustments of half a pixel or more")
}

func TestEstimateAgreesWithKernTable(t *testing.T) {
	chars := []rune("AVTo.")
	m, err := NewMeasurer(font.FallbackFont(), 72)
	require.NoError(t, err)
	r := font.NewRasterizer(font.FallbackFont(), font.Options{Kerning: true})
	defer r.Close()
	hbTable := kerning.Estimate(m, 32, chars)
	faceTable := kerning.Estimate(kerning.FaceMeasurer(r), 32, chars)
	assert.Equal(t, faceTable, hbTable)
}

func TestInvalidFont(t *testing.T) {
	bad := &font.ScalableFont{Fontname: "bad", Binary: []byte("no font")}
	_, err := NewMeasurer(bad, 72)
	assert.Equal(t, core.EINVALID, core.Code(err))
}
