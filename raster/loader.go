// Package raster bridges decoded raster images and rectangle grids: it loads
// image files into a rects.Grid and paints rectangles back into pixels.
package raster

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"px2svg/rects"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Extensions lists the lower-case file extensions picked up in directory mode.
var Extensions = []string{".png", ".gif", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

// Supported reports whether name carries a recognised raster extension,
// ignoring case.
func Supported(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// DecodeError reports an input that could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode image %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Load opens and decodes the image at path. The returned format is the name
// the decoder registered under, e.g. "png".
func Load(path string) (*rects.Grid, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	g, format, err := Decode(f)
	if err != nil {
		return nil, "", &DecodeError{Path: path, Err: err}
	}
	return g, format, nil
}

// Decode reads an image in any registered format and converts it to a grid
// of non-premultiplied pixels.
func Decode(r io.Reader) (*rects.Grid, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return rects.GridFromNRGBA(toNRGBA(img)), format, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
