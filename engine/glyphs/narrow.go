package glyphs

import (
	"github.com/npillmayer/fontatlas/core/charset"
	"github.com/npillmayer/fontatlas/core/font"
)

// Narrow removes every character from cs which r does not support at one or
// more of the given sizes. The visible set is global: a character missing at
// any size is dropped for all sizes. Narrow returns the narrowed set and the
// dropped characters in ascending order; cs is not modified.
func Narrow(r font.Rasterizer, sizes []int, cs *charset.Charset) (*charset.Charset, []rune) {
	var dropped []rune
	for _, c := range cs.Runes() {
		for _, size := range sizes {
			if _, ok := r.Metrics(size, c); !ok {
				dropped = append(dropped, c)
				break
			}
		}
	}
	if len(dropped) == 0 {
		return cs, nil
	}
	tracer().Infof("dropping %d unsupported characters", len(dropped))
	return cs.Without(dropped), dropped
}

func describe(c rune) string {
	return charset.Describe([]rune{c})
}
