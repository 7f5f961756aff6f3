package atlas

// ShelfBin implements shelf-based rectangle packing.
//
// Rectangles are organized in horizontal shelves. Each shelf has the height
// of the tallest rectangle placed on it so far; the last shelf may grow if
// there is room below. New rectangles are placed left-to-right on the first
// shelf with room, otherwise a new shelf is started below the last one.
type ShelfBin struct {
	width, height int
	shelves       []shelf
	used          int
}

type shelf struct {
	y      int // top of shelf
	height int // tallest rectangle so far
	x      int // next free position
}

// NewShelfBin creates an empty shelf bin of the given dimensions.
func NewShelfBin(width, height int) *ShelfBin {
	return &ShelfBin{
		width:   width,
		height:  height,
		shelves: make([]shelf, 0, 16),
	}
}

// locate returns the shelf index for a w×h rectangle, len(shelves) for
// a new shelf, or -1.
func (b *ShelfBin) locate(w, h int) int {
	if w > b.width || h > b.height {
		return -1
	}
	for i := range b.shelves {
		s := &b.shelves[i]
		if s.x+w > b.width {
			continue
		}
		if h <= s.height {
			return i
		}
		if i == len(b.shelves)-1 && s.y+h <= b.height {
			return i // grow last shelf
		}
	}
	newY := 0
	if n := len(b.shelves); n > 0 {
		newY = b.shelves[n-1].y + b.shelves[n-1].height
	}
	if newY+h > b.height {
		return -1
	}
	return len(b.shelves)
}

// Fit scores every fitting rectangle equally, which makes packing across
// pages first-fit.
func (b *ShelfBin) Fit(w, h int) (Score, bool) {
	if b.locate(w, h) < 0 {
		return worst, false
	}
	return Score{}, true
}

// Place allocates a w×h rectangle.
func (b *ShelfBin) Place(w, h int) (x, y int, ok bool) {
	i := b.locate(w, h)
	if i < 0 {
		return -1, -1, false
	}
	if i == len(b.shelves) {
		newY := 0
		if i > 0 {
			newY = b.shelves[i-1].y + b.shelves[i-1].height
		}
		b.shelves = append(b.shelves, shelf{y: newY})
	}
	s := &b.shelves[i]
	if h > s.height {
		s.height = h
	}
	x, y = s.x, s.y
	s.x += w
	b.used += w * h
	return x, y, true
}

// Occupancy returns the ratio of used area to total area.
func (b *ShelfBin) Occupancy() float64 {
	if b.width <= 0 || b.height <= 0 {
		return 0
	}
	return float64(b.used) / float64(b.width*b.height)
}

var _ allocator = (*ShelfBin)(nil)
