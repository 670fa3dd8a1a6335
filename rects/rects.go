// Package rects decomposes a pixel grid into axis-aligned, monochrome,
// non-overlapping rectangles.
//
// The decomposition is a greedy two-pass heuristic: every row is first split
// into maximal runs of identical colour (strips), then strips that share the
// same start column and width are stacked vertically while they stay
// contiguous and keep the same colour. Fully transparent pixels are never
// covered.
package rects

import (
	"cmp"
	"fmt"
	"image/color"
	"slices"
)

// Strip is a horizontal run of identical, non-transparent pixels in one row.
type Strip struct {
	X, Y  int
	Width int
	Color color.NRGBA
}

// Rectangle is the output unit of the decomposition, in source pixel units.
type Rectangle struct {
	X, Y          int
	Width, Height int
	Color         color.NRGBA
}

func (s Strip) Rectangle() Rectangle {
	return Rectangle{X: s.X, Y: s.Y, Width: s.Width, Height: 1, Color: s.Color}
}

// Area returns the number of pixels covered by r.
func (r Rectangle) Area() int {
	return r.Width * r.Height
}

// Contains reports whether pixel (x, y) lies inside r.
func (r Rectangle) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Overlaps reports whether r and o share at least one pixel.
func (r Rectangle) Overlaps(o Rectangle) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// ConsistencyError reports two strips with the same start column, width and
// row. ExtractStrips never produces such input, so this signals a bug in
// whatever produced the strips.
type ConsistencyError struct {
	X, Width, Y int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("duplicate strip at x=%d y=%d width=%d", e.X, e.Y, e.Width)
}

// ExtractStrips scans g row by row, left to right, and returns one strip per
// maximal run of identical non-transparent pixels, in row-major order.
func ExtractStrips(g *Grid) []Strip {
	var strips []Strip
	for y := range g.Height {
		row := g.Pix[y*g.Width : (y+1)*g.Width]
		for x := 0; x < len(row); {
			c := row[x]
			if c.A == 0 {
				x++
				continue
			}

			start := x
			for x < len(row) && row[x] == c {
				x++
			}
			strips = append(strips, Strip{X: start, Y: y, Width: x - start, Color: c})
		}
	}
	return strips
}

type column struct {
	x, width int
}

// MergeVertical stacks strips that share start column and width into taller
// rectangles when they are in consecutive rows and have the same colour.
//
// Groups are visited in the order their (x, width) key is first seen in
// strips, and each group is stably sorted by row, so the result only depends
// on the input order.
func MergeVertical(strips []Strip) ([]Rectangle, error) {
	index := make(map[column]int)
	var groups [][]Strip
	for _, s := range strips {
		key := column{s.X, s.Width}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], s)
	}

	res := make([]Rectangle, 0, len(strips))
	for _, group := range groups {
		slices.SortStableFunc(group, func(a, b Strip) int {
			return cmp.Compare(a.Y, b.Y)
		})

		var cur Rectangle
		open := false
		for i, s := range group {
			if i > 0 && group[i-1].Y == s.Y {
				return nil, &ConsistencyError{X: s.X, Width: s.Width, Y: s.Y}
			}

			if open && s.Y == cur.Y+cur.Height && s.Color == cur.Color {
				cur.Height++
				continue
			}
			if open {
				res = append(res, cur)
			}
			cur, open = s.Rectangle(), true
		}
		if open {
			res = append(res, cur)
		}
	}
	return res, nil
}
