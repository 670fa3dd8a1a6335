// Package svg serializes rectangle decompositions as SVG documents.
//
// Rectangles keep source pixel coordinates; the document's viewBox spans the
// source image while its width and height carry the requested scale.
package svg

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"px2svg/rects"

	"github.com/lucasb-eyer/go-colorful"
)

const header = `<?xml version="1.0" encoding="utf-8" ?>` + "\n"

// Encode writes an SVG document for a width x height image covered by rs.
// Rectangles are emitted in the order given.
func Encode(w io.Writer, width, height, scale int, rs []rects.Rectangle) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("invalid canvas size: %dx%d", width, height)
	}
	if scale < 1 {
		return fmt.Errorf("invalid scale: %d", scale)
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(header)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		width*scale, height*scale, width, height)
	bw.WriteByte('\n')

	buf := make([]byte, 0, 128)
	for _, r := range rs {
		buf = AppendRect(buf[:0], r)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("could not write rectangle: %w", err)
		}
	}

	bw.WriteString("</svg>\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not flush document: %w", err)
	}
	return nil
}

// AppendRect appends the <rect> element for r to b. Opaque colours get a
// plain fill; translucent ones add a fill-opacity of alpha/255.
func AppendRect(b []byte, r rects.Rectangle) []byte {
	b = append(b, `<rect x="`...)
	b = strconv.AppendInt(b, int64(r.X), 10)
	b = append(b, `" y="`...)
	b = strconv.AppendInt(b, int64(r.Y), 10)
	b = append(b, `" width="`...)
	b = strconv.AppendInt(b, int64(r.Width), 10)
	b = append(b, `" height="`...)
	b = strconv.AppendInt(b, int64(r.Height), 10)
	b = append(b, `" fill="`...)
	b = append(b, Hex(r.Color)...)
	if r.Color.A < 0xff {
		b = append(b, `" fill-opacity="`...)
		b = append(b, Opacity(r.Color.A)...)
	}
	return append(b, `"/>`...)
}

// Hex returns the "#rrggbb" triplet of c, ignoring alpha.
func Hex(c color.NRGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// Opacity formats a / 255 with the shortest representation that reads back
// as the same float64.
func Opacity(a uint8) string {
	return strconv.FormatFloat(float64(a)/255, 'f', -1, 64)
}
