package atlas

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/npillmayer/fontatlas/core"
)

// Key identifies a glyph at a pixel size.
type Key struct {
	Size int
	Char rune
}

// Less orders keys by size, then by character.
func (k Key) Less(other Key) bool {
	if k.Size != other.Size {
		return k.Size < other.Size
	}
	return k.Char < other.Char
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%q", k.Size, k.Char)
}

// Rect is a rectangle to pack.
type Rect struct {
	Key
	W, H   int
	Ascent int // rows above the baseline, used by RowFill only
}

// Placement is the location of a rectangle within the atlas.
type Placement struct {
	Page int
	X, Y int
	W, H int
}

// Rectangle returns the area of p on its page.
func (p Placement) Rectangle() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.W, p.Y+p.H)
}

// Layout is the result of packing. All pages share the same dimensions.
type Layout struct {
	Width, Height int
	Pages         int
	Placements    map[Key]Placement
}

// Keys returns the keys of all placements, ordered.
func (l *Layout) Keys() []Key {
	keys := make([]Key, 0, len(l.Placements))
	for k := range l.Placements {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// PageKeys returns the ordered keys of placements on a page.
func (l *Layout) PageKeys(page int) []Key {
	var keys []Key
	for _, k := range l.Keys() {
		if l.Placements[k].Page == page {
			keys = append(keys, k)
		}
	}
	return keys
}

// Strategy selects the packing strategy.
type Strategy int

// Packing strategies.
const (
	Growing Strategy = iota // search for the smallest power-of-two page size
	RowFill                 // grid of cells per pixel size
)

func (s Strategy) String() string {
	switch s {
	case Growing:
		return "growing"
	case RowFill:
		return "row-fill"
	}
	return "unknown"
}

// Algorithm selects the rectangle packing algorithm used by Growing.
type Algorithm int

// Packing algorithms.
const (
	MaxRects Algorithm = iota // maximal rectangles, best short side fit
	Shelf                     // shelves of rectangles
)

func (a Algorithm) String() string {
	switch a {
	case MaxRects:
		return "maxrects"
	case Shelf:
		return "shelf"
	}
	return "unknown"
}

// ParseAlgorithm returns the algorithm for a name as produced by String.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "maxrects", "":
		return MaxRects, nil
	case "shelf":
		return Shelf, nil
	}
	return MaxRects, &OptionsError{Field: "Algorithm", Reason: "unknown algorithm " + name}
}

// Options control packing.
type Options struct {
	MaxSize   int // maximum width and height of a page
	Strategy  Strategy
	Algorithm Algorithm
	Square    bool // force page height to equal page width
	MaxPages  int  // maximum number of pages, 0 for no limit
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.MaxSize < 1 {
		return &OptionsError{Field: "MaxSize", Reason: "must be at least 1"}
	}
	if o.MaxPages < 0 {
		return &OptionsError{Field: "MaxPages", Reason: "must be non-negative"}
	}
	if o.Strategy != Growing && o.Strategy != RowFill {
		return &OptionsError{Field: "Strategy", Reason: "unknown strategy"}
	}
	if o.Algorithm != MaxRects && o.Algorithm != Shelf {
		return &OptionsError{Field: "Algorithm", Reason: "unknown algorithm"}
	}
	return nil
}

// Pack assigns a placement to every rectangle. Rectangles must have
// distinct keys and a width and height of at least 1.
//
// If the rectangles cannot be packed within the limits of opts, Pack returns
// an error wrapping ErrPackingOverflow, with error code EOVERFLOW.
// Pack is deterministic: equal input yields an equal layout.
func Pack(rects []Rect, opts Options) (*Layout, error) {
	if err := opts.Validate(); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid packing options")
	}
	seen := make(map[Key]bool, len(rects))
	for _, r := range rects {
		if r.W < 1 || r.H < 1 {
			return nil, core.Error(core.EINVALID, "rectangle %v has invalid size %d×%d", r.Key, r.W, r.H)
		}
		if seen[r.Key] {
			return nil, core.Error(core.EINVALID, "duplicate rectangle %v", r.Key)
		}
		seen[r.Key] = true
	}
	tracer().Debugf("packing %d rectangles, strategy %s, max size %d", len(rects), opts.Strategy, opts.MaxSize)
	var layout *Layout
	var err error
	if opts.Strategy == RowFill {
		layout, err = packRowFill(rects, opts)
	} else {
		layout, err = packGrowing(rects, opts)
	}
	if err != nil {
		return nil, err
	}
	if opts.Square && layout.Height < layout.Width {
		layout.Height = layout.Width
	}
	tracer().Infof("packed %d glyphs into %d page(s) of %d×%d", len(rects), layout.Pages,
		layout.Width, layout.Height)
	return layout, nil
}

func overflow(format string, v ...interface{}) error {
	return core.WrapError(ErrPackingOverflow, core.EOVERFLOW, format, v...)
}

// Verify checks that l holds exactly one placement per rectangle, of the
// rectangle's size, within the page bounds, and that no two placements on
// a page overlap.
func (l *Layout) Verify(rects []Rect) error {
	invalid := func(format string, v ...interface{}) error {
		return core.WrapError(ErrInvalidLayout, core.EINTERNAL, format, v...)
	}
	if len(l.Placements) != len(rects) {
		return invalid("layout has %d placements for %d rectangles", len(l.Placements), len(rects))
	}
	byPage := make(map[int][]Key)
	for _, r := range rects {
		p, ok := l.Placements[r.Key]
		if !ok {
			return invalid("no placement for %v", r.Key)
		}
		if p.W != r.W || p.H != r.H {
			return invalid("placement of %v has size %d×%d, should be %d×%d", r.Key, p.W, p.H, r.W, r.H)
		}
		if p.Page < 0 || p.Page >= l.Pages {
			return invalid("placement of %v on page %d (of %d)", r.Key, p.Page, l.Pages)
		}
		if !p.Rectangle().In(image.Rect(0, 0, l.Width, l.Height)) {
			return invalid("placement of %v at %v out of bounds", r.Key, p.Rectangle())
		}
		byPage[p.Page] = append(byPage[p.Page], r.Key)
	}
	for page, keys := range byPage {
		for i := 0; i < len(keys); i++ {
			a := l.Placements[keys[i]].Rectangle()
			for j := i + 1; j < len(keys); j++ {
				if a.Overlaps(l.Placements[keys[j]].Rectangle()) {
					return invalid("placements of %v and %v overlap on page %d", keys[i], keys[j], page)
				}
			}
		}
	}
	return nil
}
