/*
Package pages composes and writes the texture pages of a font atlas.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pages

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/fontatlas/core/colour"
	"github.com/npillmayer/fontatlas/engine/atlas"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// tracer traces with key 'fontatlas.bmfont'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.bmfont")
}

// Compose creates one raster per page of layout, filled with background,
// and draws every bitmap at its placement. If premultiply is set, colour
// channels are multiplied by alpha afterwards.
func Compose(layout *atlas.Layout, bitmaps map[atlas.Key]*image.NRGBA, background color.NRGBA,
	premultiply bool) ([]*image.NRGBA, error) {
	//
	pages := make([]*image.NRGBA, layout.Pages)
	for i := range pages {
		pages[i] = image.NewNRGBA(image.Rect(0, 0, layout.Width, layout.Height))
		colour.Fill(pages[i], background)
	}
	for _, key := range layout.Keys() {
		p := layout.Placements[key]
		bm, ok := bitmaps[key]
		if !ok {
			return nil, core.Error(core.EINTERNAL, "no bitmap for glyph %v", key)
		}
		if p.Page < 0 || p.Page >= len(pages) {
			return nil, core.Error(core.EINTERNAL, "glyph %v placed on non-existing page %d", key, p.Page)
		}
		xdraw.Draw(pages[p.Page], p.Rectangle(), bm, bm.Bounds().Min, xdraw.Over)
	}
	if premultiply {
		for _, page := range pages {
			colour.Premultiply(page)
		}
	}
	return pages, nil
}

// Codec encodes page rasters.
type Codec interface {
	Ext() string
	Encode(w io.Writer, img image.Image) error
}

type pngCodec struct{}

func (pngCodec) Ext() string { return "png" }

func (pngCodec) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

type bmpCodec struct{}

func (bmpCodec) Ext() string { return "bmp" }

func (bmpCodec) Encode(w io.Writer, img image.Image) error {
	return bmp.Encode(w, img)
}

type tiffCodec struct{}

func (tiffCodec) Ext() string { return "tiff" }

func (tiffCodec) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// Codecs are the supported image formats.
var Codecs = map[string]Codec{
	"png":  pngCodec{},
	"bmp":  bmpCodec{},
	"tiff": tiffCodec{},
}

// CodecFor returns the codec for a format name.
func CodecFor(format string) (Codec, error) {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if format == "tif" {
		format = "tiff"
	}
	if c, ok := Codecs[format]; ok {
		return c, nil
	}
	return nil, core.Error(core.EINVALID, "unsupported image format %q", format)
}

// FileName returns the file name of page index for a base name.
func FileName(base string, index int, ext string) string {
	return fmt.Sprintf("%s_%d.%s", base, index, ext)
}

// Write encodes pages to files {dir}/{base}_{i}.{ext} and returns the file
// names, without directory.
func Write(dir, base string, pages []*image.NRGBA, codec Codec) ([]string, error) {
	names := make([]string, len(pages))
	for i, page := range pages {
		names[i] = FileName(base, i, codec.Ext())
		path := filepath.Join(dir, names[i])
		tracer().Infof("writing page %s", path)
		if err := writeFile(path, page, codec); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func writeFile(path string, img image.Image, codec Codec) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return core.WrapError(err, core.EIO, "cannot create page %s", path)
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = core.WrapError(e, core.EIO, "cannot write page %s", path)
		}
	}()
	if err = codec.Encode(f, img); err != nil {
		return core.WrapError(err, core.EIO, "cannot encode page %s", path)
	}
	return nil
}
