package atlas

import (
	"image"
	"sort"
)

// MinPageSize is the smallest page size the growing search starts from.
const MinPageSize = 128

// PowerOfTwoFloor returns the largest power of two ≤ n, or 0 for n < 1.
func PowerOfTwoFloor(n int) int {
	if n < 1 {
		return 0
	}
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

// Candidates returns the page sizes the growing search tries, in order:
// 128×128, 256×128, 256×256, 512×256, … up to the largest power of two
// ≤ maxSize in both dimensions. For maxSize < 128 the only candidate is a
// square page of the largest power of two ≤ maxSize.
func Candidates(maxSize int) []image.Point {
	limit := PowerOfTwoFloor(maxSize)
	start := MinPageSize
	if limit <= start {
		return []image.Point{{limit, limit}}
	}
	var sizes []image.Point
	w, h := start, start/2
	for h < limit {
		if h < w {
			h *= 2
		} else {
			w *= 2
		}
		sizes = append(sizes, image.Pt(w, h))
	}
	return sizes
}

// packingOrder sorts rectangles for offline packing: larger area first,
// then longer side, then by key.
func packingOrder(rects []Rect) []Rect {
	sorted := make([]Rect, len(rects))
	copy(sorted, rects)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.W*a.H != b.W*b.H {
			return a.W*a.H > b.W*b.H
		}
		if max(a.W, a.H) != max(b.W, b.H) {
			return max(a.W, a.H) > max(b.W, b.H)
		}
		return a.Key.Less(b.Key)
	})
	return sorted
}

func newAllocator(algo Algorithm, w, h int) allocator {
	if algo == Shelf {
		return NewShelfBin(w, h)
	}
	return NewMaxRectsBin(w, h)
}

// packPages packs sorted rectangles onto pages of w×h, opening a new page
// whenever no open page can take a rectangle. A rectangle goes to the open
// page with the best score; ties go to the lower page index.
func packPages(sorted []Rect, w, h, maxPages int, algo Algorithm) (map[Key]Placement, int, bool) {
	placements := make(map[Key]Placement, len(sorted))
	var pages []allocator
	for _, r := range sorted {
		best, bestScore := -1, worst
		for i, page := range pages {
			if s, ok := page.Fit(r.W, r.H); ok && (best < 0 || s.Better(bestScore)) {
				best, bestScore = i, s
			}
		}
		if best < 0 {
			if maxPages > 0 && len(pages) >= maxPages {
				return nil, len(pages), false
			}
			page := newAllocator(algo, w, h)
			if _, ok := page.Fit(r.W, r.H); !ok {
				return nil, len(pages), false
			}
			pages = append(pages, page)
			best = len(pages) - 1
		}
		x, y, ok := pages[best].Place(r.W, r.H)
		if !ok {
			return nil, len(pages), false
		}
		placements[r.Key] = Placement{Page: best, X: x, Y: y, W: r.W, H: r.H}
	}
	for i, page := range pages {
		tracer().Debugf("page %d of %d×%d: %.1f%% occupied", i, w, h, 100*page.Occupancy())
	}
	return placements, len(pages), true
}

func packGrowing(rects []Rect, opts Options) (*Layout, error) {
	candidates := Candidates(opts.MaxSize)
	limit := candidates[len(candidates)-1]
	for _, r := range rects {
		if r.W > limit.X || r.H > limit.Y {
			return nil, overflow("glyph %v of %d×%d does not fit into a page of %d×%d",
				r.Key, r.W, r.H, limit.X, limit.Y)
		}
	}
	sorted := packingOrder(rects)
	for _, c := range candidates {
		placements, _, ok := packPages(sorted, c.X, c.Y, 1, opts.Algorithm)
		tracer().Debugf("trying page size %d×%d: %v", c.X, c.Y, ok)
		if ok {
			return &Layout{Width: c.X, Height: c.Y, Pages: min(1, len(rects)), Placements: placements}, nil
		}
	}
	placements, n, ok := packPages(sorted, limit.X, limit.Y, opts.MaxPages, opts.Algorithm)
	if !ok {
		return nil, overflow("glyphs do not fit into %d page(s) of %d×%d", n, limit.X, limit.Y)
	}
	tracer().Infof("glyphs need %d pages of maximum size %d×%d", n, limit.X, limit.Y)
	return &Layout{Width: limit.X, Height: limit.Y, Pages: n, Placements: placements}, nil
}
