/*
Package harfbuzz measures runs of characters with the HarfBuzz shaper.

Unlike the kern table lookup of golang.org/x/image, HarfBuzz applies GPOS
kerning, which is what most contemporary OpenType fonts use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/font"
	"github.com/npillmayer/fontatlas/engine/kerning"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

// tracer traces with key 'fontatlas.kerning'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.kerning")
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// scripts we distinguish for shaping pairs; everything else is shaped as
// 'Zyyy' (common).
var scripts = []struct {
	table *unicode.RangeTable
	tag   string
}{
	{unicode.Latin, "Latn"},
	{unicode.Cyrillic, "Cyrl"},
	{unicode.Greek, "Grek"},
	{unicode.Armenian, "Armn"},
	{unicode.Georgian, "Geor"},
}

// ScriptOf returns the script of the first character of text with a
// specific script.
func ScriptOf(text []rune) language.Script {
	for _, r := range text {
		for _, s := range scripts {
			if unicode.Is(s.table, r) {
				return language.MustParseScript(s.tag)
			}
		}
	}
	return language.MustParseScript("Zyyy")
}

// Measurer measures runs with HarfBuzz. It implements kerning.Measurer.
type Measurer struct {
	font *hb.Font
	upem float64
	dpi  float64
}

var _ kerning.Measurer = (*Measurer)(nil)

// NewMeasurer prepares a HarfBuzz font for f. Sizes are converted to pixels
// at resolution dpi, as for font.Options; dpi ≤ 0 means 72.
func NewMeasurer(f *font.ScalableFont, dpi float64) (*Measurer, error) {
	face, err := hbtt.Parse(bytes.NewReader(f.Binary), true)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "HarfBuzz cannot parse font %s", f.Fontname)
	}
	upem := float64(f.SFNT.UnitsPerEm())
	if upem <= 0 {
		return nil, core.Error(core.EINVALID, "font %s has no valid units per em", f.Fontname)
	}
	if dpi <= 0 {
		dpi = 72
	}
	tracer().Debugf("HarfBuzz measurer for %s, %v units/em at %v dpi", f.Fontname, upem, dpi)
	return &Measurer{font: hb.NewFont(face), upem: upem, dpi: dpi}, nil
}

// Advance shapes text left-to-right and returns the sum of the glyph
// advances, scaled to a pixel size.
func (m *Measurer) Advance(size int, text []rune) fixed.Int26_6 {
	if len(text) == 0 {
		return 0
	}
	m.font.Ptem = float32(size)
	buf := hb.NewBuffer()
	buf.Props = hb.SegmentProperties{
		Direction: hb.LeftToRight,
		Script:    Script4HB(ScriptOf(text)),
	}
	buf.AddRunes(text, 0, len(text))
	buf.Shape(m.font, nil)
	var units int32
	for i := range buf.Pos {
		units += int32(buf.Pos[i].XAdvance)
	}
	// positions are in font units, as the font is not scaled
	ppem := float64(size) * m.dpi / 72
	return fixed.Int26_6(float64(units)*ppem*64/m.upem + 0.5)
}
