package atlas

import (
	"image"
	"math"
)

// allocator places rectangles on a single page.
type allocator interface {
	// Fit scores the placement of a w×h rectangle; lower scores are better.
	// It returns false if the rectangle does not fit.
	Fit(w, h int) (score Score, ok bool)
	// Place allocates space for a w×h rectangle.
	Place(w, h int) (x, y int, ok bool)
	// Occupancy is the ratio of used area to page area.
	Occupancy() float64
}

// Score rates a candidate position. Primary is compared first.
type Score struct {
	Primary, Secondary int
}

// Better is a predicate: is s a better score than other?
func (s Score) Better(other Score) bool {
	if s.Primary != other.Primary {
		return s.Primary < other.Primary
	}
	return s.Secondary < other.Secondary
}

var worst = Score{math.MaxInt32, math.MaxInt32}

// MaxRectsBin implements the maximal rectangles algorithm with the best
// short side fit heuristic. The bin tracks the list of maximal free
// rectangles; each placement splits the free rectangles it intersects.
type MaxRectsBin struct {
	width, height int
	free          []image.Rectangle
	used          int // used area
}

// NewMaxRectsBin creates an empty bin of the given dimensions.
func NewMaxRectsBin(width, height int) *MaxRectsBin {
	return &MaxRectsBin{
		width:  width,
		height: height,
		free:   []image.Rectangle{image.Rect(0, 0, width, height)},
	}
}

func (b *MaxRectsBin) find(w, h int) (image.Rectangle, Score, bool) {
	best, bestScore, found := image.Rectangle{}, worst, false
	for _, r := range b.free {
		if r.Dx() < w || r.Dy() < h {
			continue
		}
		ldx, ldy := r.Dx()-w, r.Dy()-h
		s := Score{Primary: min(ldx, ldy), Secondary: max(ldx, ldy)}
		if s.Better(bestScore) {
			best = image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Min.Y+h)
			bestScore, found = s, true
		}
	}
	return best, bestScore, found
}

// Fit scores a w×h rectangle by its best short side fit.
func (b *MaxRectsBin) Fit(w, h int) (Score, bool) {
	_, s, ok := b.find(w, h)
	return s, ok
}

// Place allocates a w×h rectangle at its best short side fit position.
func (b *MaxRectsBin) Place(w, h int) (x, y int, ok bool) {
	node, _, ok := b.find(w, h)
	if !ok {
		return -1, -1, false
	}
	var free []image.Rectangle
	for _, r := range b.free {
		if !r.Overlaps(node) {
			free = append(free, r)
			continue
		}
		free = append(free, split(r, node)...)
	}
	b.free = prune(free)
	b.used += w * h
	return node.Min.X, node.Min.Y, true
}

// split returns the maximal parts of r not covered by node.
func split(r, node image.Rectangle) []image.Rectangle {
	var parts []image.Rectangle
	if node.Min.X > r.Min.X {
		parts = append(parts, image.Rect(r.Min.X, r.Min.Y, node.Min.X, r.Max.Y))
	}
	if node.Max.X < r.Max.X {
		parts = append(parts, image.Rect(node.Max.X, r.Min.Y, r.Max.X, r.Max.Y))
	}
	if node.Min.Y > r.Min.Y {
		parts = append(parts, image.Rect(r.Min.X, r.Min.Y, r.Max.X, node.Min.Y))
	}
	if node.Max.Y < r.Max.Y {
		parts = append(parts, image.Rect(r.Min.X, node.Max.Y, r.Max.X, r.Max.Y))
	}
	return parts
}

// prune removes free rectangles contained in another one. Of two equal
// rectangles the first is kept.
func prune(free []image.Rectangle) []image.Rectangle {
	pruned := make([]image.Rectangle, 0, len(free))
	for i, r := range free {
		contained := false
		for j, o := range free {
			if i == j || !r.In(o) {
				continue
			}
			if r != o || j < i {
				contained = true
				break
			}
		}
		if !contained {
			pruned = append(pruned, r)
		}
	}
	return pruned
}

// Occupancy returns the ratio of used area to total area.
func (b *MaxRectsBin) Occupancy() float64 {
	if b.width <= 0 || b.height <= 0 {
		return 0
	}
	return float64(b.used) / float64(b.width*b.height)
}

var _ allocator = (*MaxRectsBin)(nil)
