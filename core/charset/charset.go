/*
Package charset holds the set of characters to put into a bitmap font.

A Charset is a sorted set of code-points. Iteration order is always ascending
by code-point, which makes every downstream step (rendering, packing,
serialization) deterministic.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package charset

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/unicode/runenames"
)

// tracer traces with key 'fontatlas.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("fontatlas.glyphs")
}

// Default is the character set used if none is given: printable ASCII,
// the Russian alphabet and a few accented letters.
const Default = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~АаБбВвГгДдЕеËëЖжЗзИиЙйКкЛлМмНнОоПпРрСсТтУуФфХхЦцЧчШшЩщЪъЫыЬьЭэЮюЯя"

// Charset is an ordered set of code-points.
type Charset struct {
	set *treeset.Set
}

// New creates a character set from the code-points of s, removing
// duplicates. The input is taken as is: a combining mark is a character of
// its own and gets a glyph of its own.
func New(s string) *Charset {
	cs := &Charset{set: treeset.NewWith(utils.Int32Comparator)}
	for _, r := range s {
		cs.set.Add(r)
	}
	tracer().Debugf("character set of %d code-points from %d bytes of input", cs.set.Size(), len(s))
	return cs
}

// FromRunes creates a character set from a slice of code-points.
func FromRunes(runes []rune) *Charset {
	cs := &Charset{set: treeset.NewWith(utils.Int32Comparator)}
	for _, r := range runes {
		cs.set.Add(r)
	}
	return cs
}

// Len returns the number of code-points in the set.
func (cs *Charset) Len() int {
	if cs == nil || cs.set == nil {
		return 0
	}
	return cs.set.Size()
}

// Contains is a predicate.
func (cs *Charset) Contains(r rune) bool {
	if cs.Len() == 0 {
		return false
	}
	return cs.set.Contains(r)
}

// Runes returns the code-points in ascending order.
func (cs *Charset) Runes() []rune {
	if cs.Len() == 0 {
		return nil
	}
	runes := make([]rune, 0, cs.set.Size())
	it := cs.set.Iterator()
	for it.Next() {
		runes = append(runes, it.Value().(rune))
	}
	return runes
}

// Without returns a new set with all code-points of drop removed.
// cs is not modified.
func (cs *Charset) Without(drop []rune) *Charset {
	narrowed := FromRunes(cs.Runes())
	for _, r := range drop {
		narrowed.set.Remove(r)
	}
	return narrowed
}

// String returns the characters of the set as a string, in ascending order.
func (cs *Charset) String() string {
	return string(cs.Runes())
}

// Describe returns a human readable listing of code-points, e.g. for
// reporting characters a font does not support:
//
//     U+00E9 'é' LATIN SMALL LETTER E WITH ACUTE
//
func Describe(runes []rune) string {
	var b strings.Builder
	for i, r := range runes {
		if i > 0 {
			b.WriteString(", ")
		}
		name := runenames.Name(r)
		if name == "" {
			name = "<unnamed>"
		}
		fmt.Fprintf(&b, "U+%04X %q %s", r, r, name)
	}
	return b.String()
}
