/*
Package glyphs renders the glyph bitmaps of a font atlas.

A Store holds, per pixel size, one bitmap per visible character, with
padding and an optional border baked in, plus the raw metrics of the
rasterizer which are needed later for positioning. Borders are produced by
stamping the border-coloured glyph at every offset inside a disc
(see Composite), which approximates a dilation of the glyph's silhouette.

Before rendering, the set of visible characters has to be narrowed to the
characters the font supports at every requested size (see Narrow).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphs

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontatlas.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.glyphs")
}
