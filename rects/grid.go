package rects

import (
	"image"
	"image/color"
)

// Grid is a dense, row-major matrix of non-premultiplied pixels with its
// origin at the top-left corner.
type Grid struct {
	// Pix holds the pixels. The pixel at (x, y) is Pix[y*Width+x].
	Pix    []color.NRGBA
	Width  int
	Height int
}

func NewGrid(width, height int) *Grid {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Grid{
		Pix:    make([]color.NRGBA, width*height),
		Width:  width,
		Height: height,
	}
}

// GridFromNRGBA copies img into a new Grid, shifting its bounds to the origin.
func GridFromNRGBA(img *image.NRGBA) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	if g.Empty() {
		return g
	}
	for y := range g.Height {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := range g.Width {
			p := row[x*4 : x*4+4 : x*4+4]
			g.Pix[y*g.Width+x] = color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
	return g
}

func (g *Grid) At(x, y int) color.NRGBA {
	return g.Pix[y*g.Width+x]
}

func (g *Grid) Set(x, y int, c color.NRGBA) {
	g.Pix[y*g.Width+x] = c
}

func (g *Grid) Empty() bool {
	return g.Width == 0 || g.Height == 0
}
