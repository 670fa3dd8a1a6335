package convert

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"px2svg/raster"
	"px2svg/rects"
	"px2svg/svg"

	"github.com/disintegration/imaging"
)

const previewSuffix = ".preview.png"

// Options control the conversion of a single image.
type Options struct {
	Scale   int
	Mode    rects.Mode
	Verify  bool
	Preview bool
	Force   bool
}

// Result summarizes a successful conversion.
type Result struct {
	Source     string
	Output     string
	Format     string
	Width      int
	Height     int
	Rectangles int
}

// OutputName returns the SVG file name for src: its base name with the
// extension replaced.
func OutputName(src string) string {
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
}

func isPreview(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), previewSuffix)
}

func previewName(dest string) string {
	return strings.TrimSuffix(dest, filepath.Ext(dest)) + previewSuffix
}

// File converts the image at src into an SVG document at dest.
func File(logger *slog.Logger, src, dest string, opts Options) (Result, error) {
	grid, format, err := raster.Load(src)
	if err != nil {
		return Result{}, err
	}

	rs, err := rects.Decompose(grid, opts.Mode)
	if err != nil {
		return Result{}, fmt.Errorf("could not decompose %q: %w", src, err)
	}
	logger.Debug("decomposed", "mode", opts.Mode, "width", grid.Width, "height", grid.Height, "rectangles", len(rs))

	var rendered *image.NRGBA
	if opts.Verify || opts.Preview {
		rendered = raster.Render(grid.Width, grid.Height, rs)
	}

	if opts.Verify {
		if err := raster.Compare(grid, rendered); err != nil {
			return Result{}, fmt.Errorf("rectangles do not reproduce %q: %w", src, err)
		}
	}

	scale := max(opts.Scale, 1)
	err = save(dest, opts.Force, func(w io.Writer) error {
		return svg.Encode(w, grid.Width, grid.Height, scale, rs)
	})
	if err != nil {
		return Result{}, err
	}

	if opts.Preview {
		if grid.Empty() {
			logger.Warn("skipping preview of empty image")
		} else {
			name := previewName(dest)
			err = save(name, opts.Force, func(w io.Writer) error {
				return imaging.Encode(w, raster.Preview(rendered, scale), imaging.PNG)
			})
			if err != nil {
				return Result{}, err
			}
			logger.Debug("wrote preview", "to", name)
		}
	}

	res := Result{
		Source:     src,
		Output:     dest,
		Format:     format,
		Width:      grid.Width,
		Height:     grid.Height,
		Rectangles: len(rs),
	}
	logger.Info("converted", "to", dest, "format", format, "pixels", grid.Width*grid.Height, "rectangles", len(rs))
	return res, nil
}
