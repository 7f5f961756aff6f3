/*
Package atlas packs glyph rectangles into texture pages.

Two strategies are supported. Growing searches page sizes from 128×128
upwards, alternately doubling width and height, and stops at the first page
size which holds every rectangle on a single page. If even the maximum page
size is too small, rectangles are distributed over multiple pages of the
maximum size. Each candidate size is an independent packing attempt; the
search is a plain loop.

RowFill lays out the glyphs of every pixel size in a grid of equally sized,
baseline-aligned cells, one page (or more) per size. It is meant for atlases
which will be post-edited manually.

Rectangles are never rotated.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package atlas

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontatlas.atlas'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.atlas")
}
