/*
Package bmfont creates the metrics files of a bitmap font in BMFont format.

A Descriptor describes one pixel size of an atlas: the font, the texture
pages, per-character placements and positioning, and optional kerning
pairs. Descriptors are written either as XML or in the BMFont text format.
Characters are ordered by code, kerning pairs by first, then second code.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bmfont

import (
	"encoding/xml"
	"math"
	"sort"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/engine/atlas"
	"github.com/npillmayer/fontatlas/engine/glyphs"
	"github.com/npillmayer/fontatlas/engine/kerning"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontatlas.bmfont'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.bmfont")
}

// AllChannels is the channel mask of a glyph present in all channels.
const AllChannels = 15

// Descriptor is a BMFont font descriptor.
type Descriptor struct {
	XMLName  xml.Name  `xml:"font"`
	Info     Info      `xml:"info"`
	Common   Common    `xml:"common"`
	Pages    []Page    `xml:"pages>page"`
	Chars    Chars     `xml:"chars"`
	Kernings *Kernings `xml:"kernings"`
}

// Info describes how the font was generated.
type Info struct {
	Face     string `xml:"face,attr"`
	Size     int    `xml:"size,attr"`
	Bold     int    `xml:"bold,attr"`
	Italic   int    `xml:"italic,attr"`
	Charset  string `xml:"charset,attr"`
	Unicode  int    `xml:"unicode,attr"`
	StretchH int    `xml:"stretchH,attr"`
	Smooth   int    `xml:"smooth,attr"`
	AA       int    `xml:"aa,attr"`
	Padding  string `xml:"padding,attr"`
	Spacing  string `xml:"spacing,attr"`
	Outline  int    `xml:"outline,attr"`
}

// Common holds the information common to all characters.
type Common struct {
	LineHeight int `xml:"lineHeight,attr"`
	Base       int `xml:"base,attr"`
	ScaleW     int `xml:"scaleW,attr"`
	ScaleH     int `xml:"scaleH,attr"`
	Pages      int `xml:"pages,attr"`
	Packed     int `xml:"packed,attr"`
}

// Page names a texture page.
type Page struct {
	ID   int    `xml:"id,attr"`
	File string `xml:"file,attr"`
}

// Chars is the list of characters.
type Chars struct {
	Count int    `xml:"count,attr"`
	List  []Char `xml:"char"`
}

// Char describes one character.
type Char struct {
	ID       int `xml:"id,attr"`
	X        int `xml:"x,attr"`
	Y        int `xml:"y,attr"`
	Width    int `xml:"width,attr"`
	Height   int `xml:"height,attr"`
	XOffset  int `xml:"xoffset,attr"`
	YOffset  int `xml:"yoffset,attr"`
	XAdvance int `xml:"xadvance,attr"`
	Page     int `xml:"page,attr"`
	Chnl     int `xml:"chnl,attr"`
}

// Kernings is the list of kerning pairs.
type Kernings struct {
	Count int       `xml:"count,attr"`
	List  []Kerning `xml:"kerning"`
}

// Kerning is an advance adjustment for a pair of characters.
type Kerning struct {
	First  int `xml:"first,attr"`
	Second int `xml:"second,attr"`
	Amount int `xml:"amount,attr"`
}

// Input collects everything to build the descriptor for a pixel size.
type Input struct {
	Face       string
	Size       int
	Smooth     bool
	Bold       bool
	Italic     bool
	Padding    glyphs.Padding
	Scaled     glyphs.Scaled // border and spacings at Size
	LineHeight int           // font line height at Size
	Ascender   int           // font ascender at Size
	Layout     *atlas.Layout
	PageFiles  []string
	Bitmaps    map[rune]*glyphs.Bitmap
	Kerning    kerning.Table // nil if kerning is disabled
}

// Build creates the descriptor for one pixel size.
//
// Offsets locate the top-left corner of the bitmap, not of the glyph inside
// it. xoffset is the distance from the pen position to the left edge of the
// bitmap, and yoffset the distance from the top of a line to its top edge:
//
//    xoffset = minX − padLeft − border
//    yoffset = ascender + lineSpacing − bitmapHeight − minY + inset
//
// where inset is the number of bitmap rows below the glyph proper (bottom
// padding plus border). Both put the glyph at its bearings from the pen
// position on the baseline.
func Build(in Input) (*Descriptor, error) {
	d := &Descriptor{
		Info: Info{
			Face:     in.Face,
			Size:     in.Size,
			Bold:     bool2int(in.Bold),
			Italic:   bool2int(in.Italic),
			Unicode:  1,
			StretchH: 100,
			Smooth:   bool2int(in.Smooth),
			AA:       1,
			Padding:  in.Padding.String(),
			Spacing:  "0,0",
			Outline:  in.Scaled.BorderWidth,
		},
		Common: Common{
			LineHeight: in.LineHeight + in.Scaled.LineSpacing,
			Base:       in.Ascender,
			ScaleW:     in.Layout.Width,
			ScaleH:     in.Layout.Height,
			Pages:      len(in.PageFiles),
		},
	}
	for i, f := range in.PageFiles {
		d.Pages = append(d.Pages, Page{ID: i, File: f})
	}
	chars := make([]rune, 0, len(in.Bitmaps))
	for c := range in.Bitmaps {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	for _, c := range chars {
		bm := in.Bitmaps[c]
		p, ok := in.Layout.Placements[atlas.Key{Size: in.Size, Char: c}]
		if !ok {
			return nil, core.Error(core.EINTERNAL, "no placement for %q at size %d", c, in.Size)
		}
		m := bm.Metrics
		d.Chars.List = append(d.Chars.List, Char{
			ID:       int(c),
			X:        p.X,
			Y:        p.Y,
			Width:    p.W,
			Height:   p.H,
			XOffset:  m.MinX - bm.Origin.X,
			YOffset:  in.Ascender + in.Scaled.LineSpacing - bm.H() - m.MinY + bm.Inset(),
			XAdvance: roundHalfUp(m.XAdvance + float64(in.Scaled.CharSpacing)),
			Page:     p.Page,
			Chnl:     AllChannels,
		})
	}
	d.Chars.Count = len(d.Chars.List)
	if in.Kerning != nil {
		d.Kernings = &Kernings{}
		for _, pair := range in.Kerning.Pairs() {
			d.Kernings.List = append(d.Kernings.List, Kerning{
				First:  int(pair.First),
				Second: int(pair.Second),
				Amount: in.Kerning[pair],
			})
		}
		d.Kernings.Count = len(d.Kernings.List)
	}
	tracer().Debugf("descriptor for %s at %d: %d chars", in.Face, in.Size, d.Chars.Count)
	return d, nil
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func bool2int(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Char returns the record for a character code.
func (d *Descriptor) Char(id int) (Char, bool) {
	i := sort.Search(len(d.Chars.List), func(i int) bool { return d.Chars.List[i].ID >= id })
	if i < len(d.Chars.List) && d.Chars.List[i].ID == id {
		return d.Chars.List[i], true
	}
	return Char{}, false
}
