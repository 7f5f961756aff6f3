/*
Package font is for loading scalable fonts and rasterizing their glyphs.

We will stick to the following definitions:

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain pixel size.
The name is reminiscent of the wooden boxes of typesetters in the era of
metal type.

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

The atlas engine does not know about any of this. It talks to fonts
through the Rasterizer interface, which is implemented by SFNTRasterizer
for OpenType/TrueType fonts (using golang.org/x/image), and by a synthetic
fixed-metrics rasterizer in package fonttest.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/fontatlas/core"
	"github.com/npillmayer/schuko/tracing"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'fontatlas.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.fonts")
}

// Errors of package font.
var (
	// ErrUnsupportedGlyph is signalled for characters the font has no glyph for.
	ErrUnsupportedGlyph = errors.New("font: unsupported glyph")

	// ErrInvalidSize is returned for pixel sizes outside of [MinSize…MaxSize].
	ErrInvalidSize = errors.New("font: invalid font size")
)

// Limits for pixel sizes of typecases.
const (
	MinSize = 1
	MaxSize = 4096
)

// ScalableFont is an OpenType or TrueType font, loaded into memory.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// TypeCase is a scalable font at a given pixel size.
type TypeCase struct {
	face xfont.Face // Go uses 'face' and 'font' in an inverse manner
	size int
}

// LoadOpenTypeFont loads a font from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot open font %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	if f.Fontname == "" {
		f.Fontname = strings.TrimSuffix(filepath.Base(fontfile), filepath.Ext(fontfile))
	}
	return f, nil
}

// ParseOpenTypeFont creates a scalable font from binary font data.
// The font name is taken from the font's family name entry.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font data")
	}
	if f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFamily); f.Fontname == "" {
		f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	}
	return
}

// Style reports whether the font's subfamily name marks it as bold or italic.
func (sf *ScalableFont) Style() (bold, italic bool) {
	sub, _ := sf.SFNT.Name(nil, sfnt.NameIDSubfamily)
	sub = strings.ToLower(sub)
	return strings.Contains(sub, "bold"), strings.Contains(sub, "italic") || strings.Contains(sub, "oblique")
}

// PrepareCase creates a typecase for a pixel size.
func (sf *ScalableFont) PrepareCase(size int, opts Options) (*TypeCase, error) {
	if size < MinSize || size > MaxSize {
		return nil, core.WrapError(ErrInvalidSize, core.EINVALID,
			"font size must be %d ≤ size ≤ %d, is %d", MinSize, MaxSize, size)
	}
	options := &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     opts.dpi(),
		Hinting: opts.Hinting,
	}
	face, err := opentype.NewFace(sf.SFNT, options)
	if err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot create face for %s at %d", sf.Fontname, size)
	}
	tracer().Debugf("prepared typecase %s at %dpx", sf.Fontname, size)
	return &TypeCase{
		face: face,
		size: size,
	}, nil
}

// Size is the pixel size of tc.
func (tc *TypeCase) Size() int {
	return tc.size
}

// Close releases the face of tc.
func (tc *TypeCase) Close() error {
	if tc.face == nil {
		return nil
	}
	return tc.face.Close()
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
// Currently we use Go Sans.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}

// NormalizeFontname creates a lookup key from a font name or a font file name.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	return fname
}
