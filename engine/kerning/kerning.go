/*
Package kerning estimates kerning pairs for a bitmap font.

For every ordered pair of characters (c1, c2), including a character paired
with itself, the advance of the pair set together is compared to the sum of
the individual advances. A difference is recorded as the pair's kerning
delta: negative if c1c2 is set narrower, positive if it is set wider.
Estimation is O(n²) in the number of characters and may be slow for large
character sets.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package kerning

import (
	"sort"

	"github.com/npillmayer/fontatlas/core/font"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'fontatlas.kerning'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.kerning")
}

// Measurer measures the pen advance of a run of characters at a pixel size.
type Measurer interface {
	Advance(size int, text []rune) fixed.Int26_6
}

// FaceMeasurer measures with a rasterizer. For the rasterizers of package
// font the kern table of the font is applied only if they have been created
// with kerning switched on.
func FaceMeasurer(r font.Rasterizer) Measurer {
	return r
}

// Pair is an ordered pair of characters.
type Pair struct {
	First, Second rune
}

// Table maps character pairs to kerning deltas in pixels.
type Table map[Pair]int

// Pairs returns the pairs of t ordered by first, then second character.
func (t Table) Pairs() []Pair {
	pairs := make([]Pair, 0, len(t))
	for p := range t {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].First != pairs[j].First {
			return pairs[i].First < pairs[j].First
		}
		return pairs[i].Second < pairs[j].Second
	})
	return pairs
}

// Estimate measures every ordered pair of chars at a pixel size and returns
// the pairs with a non-zero delta.
func Estimate(m Measurer, size int, chars []rune) Table {
	single := make(map[rune]fixed.Int26_6, len(chars))
	for _, c := range chars {
		if _, ok := single[c]; !ok {
			single[c] = m.Advance(size, []rune{c})
		}
	}
	table := make(Table)
	pair := make([]rune, 2)
	for _, c1 := range chars {
		for _, c2 := range chars {
			pair[0], pair[1] = c1, c2
			wc := m.Advance(size, pair)
			if delta := (wc - single[c1] - single[c2]).Round(); delta != 0 {
				table[Pair{c1, c2}] = delta
			}
		}
	}
	tracer().Infof("%d kerning pairs at %dpx", len(table), size)
	return table
}
