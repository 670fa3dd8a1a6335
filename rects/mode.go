package rects

import "fmt"

// Mode selects how far the decomposition goes.
type Mode string

const (
	// ModePixel emits one 1x1 rectangle per non-transparent pixel.
	ModePixel Mode = "pixel"
	// ModeStrip emits the horizontal strips without vertical merging.
	ModeStrip Mode = "strip"
	// ModeRect runs strip extraction followed by vertical merging.
	ModeRect Mode = "rect"
)

// Decompose returns the rectangles covering every non-transparent pixel of g.
func Decompose(g *Grid, mode Mode) ([]Rectangle, error) {
	switch mode {
	case ModePixel:
		return pixels(g), nil
	case ModeStrip:
		strips := ExtractStrips(g)
		res := make([]Rectangle, len(strips))
		for i, s := range strips {
			res[i] = s.Rectangle()
		}
		return res, nil
	case ModeRect, "":
		return MergeVertical(ExtractStrips(g))
	default:
		return nil, fmt.Errorf("unsupported decomposition mode: %s", mode)
	}
}

func pixels(g *Grid) []Rectangle {
	var res []Rectangle
	for y := range g.Height {
		for x := range g.Width {
			if c := g.At(x, y); c.A != 0 {
				res = append(res, Rectangle{X: x, Y: y, Width: 1, Height: 1, Color: c})
			}
		}
	}
	return res
}
