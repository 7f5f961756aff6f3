/*
Package bmfgen generates bitmap font atlases.

Run executes the phases of a generation strictly in sequence:

   narrow    drop characters the font does not support at every size
   render    render glyph bitmaps for all sizes (plus kerning, if enabled)
   pack      pack the bitmaps of all sizes into pages
   compose   draw the pages and build a metrics descriptor per size
   write     encode pages and metrics files

Packing needs every bitmap of every size, so all bitmaps are held in memory
until the pages are composed. Nothing is written before packing succeeded;
a failure in any phase aborts the run.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bmfgen

import (
	"image"
	"path/filepath"
	"sort"
	"strings"

	"github.com/npillmayer/fontatlas/backend/bmfont"
	"github.com/npillmayer/fontatlas/backend/pages"
	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/charset"
	"github.com/npillmayer/fontatlas/core/font"
	"github.com/npillmayer/fontatlas/engine/atlas"
	"github.com/npillmayer/fontatlas/engine/glyphs"
	"github.com/npillmayer/fontatlas/engine/kerning"
	"github.com/npillmayer/fontatlas/engine/kerning/harfbuzz"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontatlas.run'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.run")
}

// Result describes the output of a run.
type Result struct {
	Pages       []string // paths of page images
	Metrics     []string // paths of metrics files, one per size
	Dropped     []rune   // characters not supported by the font, ascending
	Layout      *atlas.Layout
	Descriptors map[int]*bmfont.Descriptor // descriptor per size
}

// NewRasterizer creates a rasterizer for f configured by cfg.
func NewRasterizer(cfg Config, f *font.ScalableFont) *font.SFNTRasterizer {
	return font.NewRasterizer(f, cfg.RasterizerOptions())
}

// Run generates an atlas for the glyphs of r.
func Run(cfg Config, r font.Rasterizer) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sizes := uniqueSizes(cfg.Sizes)
	res := &Result{Descriptors: make(map[int]*bmfont.Descriptor, len(sizes))}
	// narrow
	visible, dropped := glyphs.Narrow(r, sizes, charset.New(cfg.Chars))
	if len(dropped) > 0 {
		tracer().Infof("removed unsupported characters: %s", charset.Describe(dropped))
		res.Dropped = dropped
	}
	if visible.Len() == 0 {
		return nil, core.Error(core.EINVALID, "font %s supports none of the requested characters",
			r.FaceName())
	}
	chars := visible.Runes()
	// render
	var measurer kerning.Measurer
	if cfg.Kerning {
		var err error
		if measurer, err = measurerFor(cfg, r); err != nil {
			return nil, err
		}
	}
	style := cfg.style()
	store := glyphs.NewStore(r, style)
	tables := make(map[int]kerning.Table, len(sizes))
	for _, size := range sizes {
		tracer().Infof("rendering %d characters at %dpx", len(chars), size)
		if _, err := store.Render(size, chars); err != nil {
			return nil, err
		}
		if measurer != nil {
			tables[size] = kerning.Estimate(measurer, size, chars)
		}
	}
	// pack
	rects := store.Rects()
	opts := cfg.packing()
	tracer().Infof("packing %d glyphs, max size %d, %s", len(rects), opts.MaxSize, opts.Strategy)
	layout, err := atlas.Pack(rects, opts)
	if err != nil {
		return nil, err
	}
	if err = layout.Verify(rects); err != nil {
		return nil, err
	}
	res.Layout = layout
	// compose
	codec, _ := pages.CodecFor(cfg.ImageFormat)
	format, _ := bmfont.ParseFormat(cfg.Format)
	dir, base := outputLocation(cfg.Output)
	all := store.All()
	bitmaps := make(map[atlas.Key]*image.NRGBA, len(all))
	for k, bm := range all {
		bitmaps[k] = bm.Image
	}
	rasters, err := pages.Compose(layout, bitmaps, style.Background, cfg.Premultiply)
	if err != nil {
		return nil, err
	}
	pageFiles := make([]string, len(rasters))
	for i := range rasters {
		pageFiles[i] = pages.FileName(base, i, codec.Ext())
	}
	bold, italic := faceStyle(r)
	for _, size := range sizes {
		d, err := bmfont.Build(bmfont.Input{
			Face:       r.FaceName(),
			Size:       size,
			Smooth:     cfg.Antialiasing,
			Bold:       bold,
			Italic:     italic,
			Padding:    style.Padding,
			Scaled:     style.ScaledTo(size),
			LineHeight: r.LineHeight(size),
			Ascender:   r.Ascender(size),
			Layout:     layout,
			PageFiles:  pageFiles,
			Bitmaps:    store.Bitmaps(size),
			Kerning:    tables[size],
		})
		if err != nil {
			return nil, err
		}
		res.Descriptors[size] = d
	}
	// write
	if _, err = pages.Write(dir, base, rasters, codec); err != nil {
		return nil, err
	}
	for _, f := range pageFiles {
		res.Pages = append(res.Pages, filepath.Join(dir, f))
	}
	for _, size := range sizes {
		path := filepath.Join(dir, bmfont.FileName(base, size, len(sizes) > 1))
		if err = bmfont.WriteFile(path, res.Descriptors[size], format, cfg.PrettyPrint); err != nil {
			return nil, err
		}
		res.Metrics = append(res.Metrics, path)
	}
	tracer().Infof("wrote %d page(s) and %d metrics file(s)", len(res.Pages), len(res.Metrics))
	return res, nil
}

// measurerFor selects the kerning measurer. HarfBuzz needs the font's
// binary data, i.e. a rasterizer which exposes its scalable font.
func measurerFor(cfg Config, r font.Rasterizer) (kerning.Measurer, error) {
	if cfg.KerningShaper != ShaperHarfBuzz {
		return kerning.FaceMeasurer(r), nil
	}
	sr, ok := r.(interface{ Font() *font.ScalableFont })
	if !ok {
		return nil, core.Error(core.EINVALID, "HarfBuzz kerning needs an OpenType rasterizer")
	}
	return harfbuzz.NewMeasurer(sr.Font(), cfg.RasterizerOptions().DPI)
}

// faceStyle reports bold and italic for rasterizers of scalable fonts.
func faceStyle(r font.Rasterizer) (bold, italic bool) {
	if sr, ok := r.(interface{ Font() *font.ScalableFont }); ok {
		return sr.Font().Style()
	}
	return false, false
}

// outputLocation splits an output path into directory and base name,
// ignoring any extension.
func outputLocation(output string) (dir, base string) {
	dir = filepath.Dir(output)
	base = filepath.Base(output)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return dir, base
}

func uniqueSizes(sizes []int) []int {
	seen := make(map[int]bool, len(sizes))
	var unique []int
	for _, s := range sizes {
		if !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}
	sort.Ints(unique)
	return unique
}
