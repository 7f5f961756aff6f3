package bmfont

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/font/fonttest"
	"github.com/npillmayer/fontatlas/engine/atlas"
	"github.com/npillmayer/fontatlas/engine/glyphs"
	"github.com/npillmayer/fontatlas/engine/kerning"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInput(t *testing.T, chars string, kern kerning.Table) Input {
	r := fonttest.New("")
	style := glyphs.Style{
		Padding:     glyphs.Padding{Top: 1, Right: 2, Bottom: 3, Left: 4},
		CharSpacing: 2,
		LineSpacing: 1,
	}
	st := glyphs.NewStore(r, style)
	bitmaps, err := st.Render(32, []rune(chars))
	require.NoError(t, err)
	layout, err := atlas.Pack(st.Rects(), atlas.Options{MaxSize: 1024})
	require.NoError(t, err)
	return Input{
		Face:       r.FaceName(),
		Size:       32,
		Smooth:     true,
		Padding:    style.Padding,
		Scaled:     style.ScaledTo(32),
		LineHeight: r.LineHeight(32),
		Ascender:   r.Ascender(32),
		Layout:     layout,
		PageFiles:  []string{"atlas_0.png"},
		Bitmaps:    bitmaps,
		Kerning:    kern,
	}
}

func TestBuild(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontatlas.bmfont")
	defer teardown()
	//
	in := buildInput(t, "gA", nil)
	d, err := Build(in)
	require.NoError(t, err)
	assert.Equal(t, "Synthetic", d.Info.Face)
	assert.Equal(t, 1, d.Info.Smooth)
	assert.Equal(t, "1,2,3,4", d.Info.Padding)
	assert.Equal(t, 40+1, d.Common.LineHeight)
	assert.Equal(t, 24, d.Common.Base)
	assert.Equal(t, in.Layout.Width, d.Common.ScaleW)
	assert.Equal(t, []Page{{ID: 0, File: "atlas_0.png"}}, d.Pages)
	require.Equal(t, 2, d.Chars.Count)
	assert.Equal(t, int('A'), d.Chars.List[0].ID, "chars are sorted by code")
	assert.Equal(t, int('g'), d.Chars.List[1].ID)
	a, ok := d.Char('A')
	require.True(t, ok)
	p := in.Layout.Placements[atlas.Key{Size: 32, Char: 'A'}]
	assert.Equal(t, p.X, a.X)
	assert.Equal(t, p.Y, a.Y)
	assert.Equal(t, 23, a.Width)
	assert.Equal(t, 28, a.Height)
	assert.Equal(t, 1-4, a.XOffset, "minX minus left padding")
	// glyph top = baseline − maxY: 24 + 1 − 24 − 1 (top padding)
	assert.Equal(t, 0, a.YOffset)
	assert.Equal(t, 17+2+2, a.XAdvance)
	assert.Equal(t, AllChannels, a.Chnl)
	g, _ := d.Char('g')
	assert.Equal(t, 24+1-16-1, g.YOffset, "descender")
	assert.Nil(t, d.Kernings)
	_, ok = d.Char('x')
	assert.False(t, ok)
}

func TestBuildOffsetsWithBorder(t *testing.T) {
	r := fonttest.New("")
	style := glyphs.Style{
		Padding:     glyphs.Padding{Top: 2, Right: 0, Bottom: 5, Left: 3},
		BorderWidth: 2,
	}
	st := glyphs.NewStore(r, style)
	bitmaps, err := st.Render(32, []rune("Ag"))
	require.NoError(t, err)
	layout, err := atlas.Pack(st.Rects(), atlas.Options{MaxSize: 256})
	require.NoError(t, err)
	d, err := Build(Input{
		Face:       r.FaceName(),
		Size:       32,
		Padding:    style.Padding,
		Scaled:     style.ScaledTo(32),
		LineHeight: r.LineHeight(32),
		Ascender:   r.Ascender(32),
		Layout:     layout,
		PageFiles:  []string{"atlas_0.png"},
		Bitmaps:    bitmaps,
	})
	require.NoError(t, err)
	for _, c := range "Ag" {
		ch, ok := d.Char(int(c))
		require.True(t, ok)
		bm := bitmaps[c]
		// the glyph proper starts at the bitmap origin and must land on its bearings
		assert.Equal(t, bm.Metrics.MinX, ch.XOffset+bm.Origin.X, "%q horizontal", c)
		assert.Equal(t, r.Ascender(32)-bm.Metrics.MaxY, ch.YOffset+bm.Origin.Y, "%q vertical", c)
		assert.Equal(t, 2, d.Info.Outline)
	}
	a, _ := d.Char('A')
	assert.Equal(t, 1-3-2, a.XOffset)
}

func TestBuildMissingPlacement(t *testing.T) {
	in := buildInput(t, "A", nil)
	in.Layout.Placements = map[atlas.Key]atlas.Placement{}
	_, err := Build(in)
	assert.Equal(t, core.EINTERNAL, core.Code(err))
}

func kerningInput(t *testing.T) Input {
	return buildInput(t, "AVTo", kerning.Table{{First: 'V', Second: 'A'}: -2, {First: 'A', Second: 'V'}: -3, {First: 'T', Second: 'o'}: -1})
}

func TestXMLKerningsAreNested(t *testing.T) {
	d, err := Build(kerningInput(t))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, d, false))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<kernings count="3"><kerning first="65" second="86" amount="-3"></kerning>`)
	assert.True(t, strings.HasSuffix(out, "</kernings></font>\n"))
	assert.Equal(t, []Kerning{{65, 86, -3}, {84, 111, -1}, {86, 65, -2}}, d.Kernings.List)
}

func TestXMLRoundTrip(t *testing.T) {
	d, err := Build(kerningInput(t))
	require.NoError(t, err)
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer
		require.NoError(t, WriteXML(&buf, d, pretty))
		back, err := Decode(&buf)
		require.NoError(t, err)
		back.XMLName = d.XMLName
		assert.Empty(t, cmp.Diff(d, back))
	}
}

func TestTextRoundTrip(t *testing.T) {
	d, err := Build(kerningInput(t))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, d))
	assert.True(t, strings.HasPrefix(buf.String(), `info face="Synthetic" size=32 `))
	assert.Contains(t, buf.String(), "\nkerning first=65 second=86 amount=-3\n")
	back, err := DecodeText(&buf)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(d, back))
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("<font><info size=\"x\"/></font>"))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = DecodeText(strings.NewReader("char id=ten\n"))
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = DecodeText(strings.NewReader("info face=\"unterminated\n"))
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestWriteFile(t *testing.T) {
	d, err := Build(buildInput(t, "Ab", nil))
	require.NoError(t, err)
	dir := t.TempDir()
	path := filepath.Join(dir, FileName("atlas", 32, false))
	require.NoError(t, WriteFile(path, d, XML, true))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left")
	assert.Equal(t, "atlas.fnt", entries[0].Name())
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	back, err := Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, back.Chars.Count)
	err = WriteFile(filepath.Join(dir, "missing", "atlas.fnt"), d, Text, false)
	assert.Equal(t, core.EIO, core.Code(err))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "font.fnt", FileName("font", 32, false))
	assert.Equal(t, "font.32.fnt", FileName("font", 32, true))
	f, err := ParseFormat("Text")
	assert.NoError(t, err)
	assert.Equal(t, Text, f)
	_, err = ParseFormat("json")
	assert.Equal(t, core.EINVALID, core.Code(err))
}
