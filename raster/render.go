package raster

import (
	"fmt"
	"image"
	"image/color"

	"px2svg/rects"

	"github.com/disintegration/imaging"
)

// Render paints rs, in order, onto a transparent width x height canvas.
// Rectangle colours replace the canvas pixels rather than blending with them.
func Render(width, height int, rs []rects.Rectangle) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	for _, r := range rs {
		fill := r.Color
		area := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height).Intersect(dst.Rect)
		for y := area.Min.Y; y < area.Max.Y; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				dst.SetNRGBA(x, y, fill)
			}
		}
	}
	return dst
}

// MismatchError describes the first pixel where a rendering differs from
// its grid.
type MismatchError struct {
	X, Y int
	Want color.NRGBA
	Got  color.NRGBA
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("pixel (%d,%d) renders as %v, want %v", e.X, e.Y, e.Got, e.Want)
}

// Compare checks img against g pixel by pixel in row-major order and returns
// a *MismatchError for the first difference. Transparent pixels compare equal
// whatever their colour channels.
func Compare(g *rects.Grid, img *image.NRGBA) error {
	b := img.Bounds()
	if b.Dx() != g.Width || b.Dy() != g.Height {
		return fmt.Errorf("rendering is %dx%d, want %dx%d", b.Dx(), b.Dy(), g.Width, g.Height)
	}

	for y := range g.Height {
		for x := range g.Width {
			want := g.At(x, y)
			got := img.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			if want.A == 0 && got.A == 0 {
				continue
			}
			if want != got {
				return &MismatchError{X: x, Y: y, Want: want, Got: got}
			}
		}
	}
	return nil
}

// Preview scales img by an integer factor without interpolation, so every
// source pixel becomes a scale x scale block.
func Preview(img image.Image, scale int) *image.NRGBA {
	b := img.Bounds()
	if scale <= 1 {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
}
