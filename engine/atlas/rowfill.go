package atlas

import "sort"

// packRowFill lays out the glyphs of each pixel size in a grid. A cell is as
// wide as the widest glyph of the size. Its height is the largest ascent plus
// the largest descent, measured with signed bearings, thus every glyph in a
// row shares the same baseline. Glyphs are centered horizontally.
// Every size starts a new page, as does a grid which would exceed the
// maximum size vertically. The resulting page size is the tight extent
// of all placements.
func packRowFill(rects []Rect, opts Options) (*Layout, error) {
	bySize := make(map[int][]Rect)
	for _, r := range rects {
		bySize[r.Size] = append(bySize[r.Size], r)
	}
	sizes := make([]int, 0, len(bySize))
	for s := range bySize {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)
	layout := &Layout{Placements: make(map[Key]Placement, len(rects))}
	page := 0
	for _, size := range sizes {
		group := bySize[size]
		sort.Slice(group, func(i, j int) bool { return group[i].Char < group[j].Char })
		cellW, ascent, descent := 0, group[0].Ascent, group[0].H-group[0].Ascent
		for _, r := range group {
			cellW = max(cellW, r.W)
			ascent = max(ascent, r.Ascent)
			descent = max(descent, r.H-r.Ascent)
		}
		cellH := ascent + descent
		if cellW > opts.MaxSize || cellH > opts.MaxSize {
			return nil, overflow("glyph cell of %d×%d at size %d exceeds maximum size %d",
				cellW, cellH, size, opts.MaxSize)
		}
		x, y := 0, 0
		for _, r := range group {
			if x+cellW > opts.MaxSize {
				x, y = 0, y+cellH
			}
			if y+cellH > opts.MaxSize {
				x, y = 0, 0
				page++
			}
			p := Placement{
				Page: page,
				X:    x + (cellW-r.W)/2,
				Y:    y + ascent - r.Ascent,
				W:    r.W,
				H:    r.H,
			}
			layout.Placements[r.Key] = p
			layout.Width = max(layout.Width, p.X+p.W)
			layout.Height = max(layout.Height, p.Y+p.H)
			x += cellW
		}
		page++
		tracer().Debugf("row-fill: size %d in cells of %d×%d", size, cellW, cellH)
	}
	layout.Pages = page
	if opts.MaxPages > 0 && page > opts.MaxPages {
		return nil, overflow("row-fill needs %d pages, maximum is %d", page, opts.MaxPages)
	}
	if opts.Square {
		side := max(layout.Width, layout.Height)
		layout.Width, layout.Height = side, side
	}
	return layout, nil
}
