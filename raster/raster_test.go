package raster

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"px2svg/rects"

	"golang.org/x/image/bmp"
)

// writeImage encodes img as PNG into dir and returns the file path.
func writeImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode %s: %v", name, err)
	}
	return path
}

func randomNRGBA(r *rand.Rand, w, h int) *image.NRGBA {
	colors := []color.NRGBA{
		{255, 0, 0, 255},
		{0, 0, 255, 255},
		{10, 20, 30, 128},
		{0, 0, 0, 0},
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, colors[r.IntN(len(colors))])
		}
	}
	return img
}

func TestLoad_PNGKeepsStraightAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{17, 34, 51, 128})
	img.SetNRGBA(2, 1, color.NRGBA{200, 100, 50, 1})
	path := writeImage(t, t.TempDir(), "in.png", img)

	g, format, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if format != "png" {
		t.Errorf("format: got %q, want png", format)
	}
	if g.Width != 3 || g.Height != 2 {
		t.Fatalf("dimensions: got %dx%d, want 3x2", g.Width, g.Height)
	}
	for _, p := range []image.Point{{0, 0}, {1, 0}, {2, 1}} {
		if got, want := g.At(p.X, p.Y), img.NRGBAAt(p.X, p.Y); got != want {
			t.Errorf("pixel %v: got %v, want %v", p, got, want)
		}
	}
}

func TestLoad_Paletted(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), palette.Plan9)
	img.SetColorIndex(1, 1, 3)
	path := filepath.Join(t.TempDir(), "in.gif")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create gif: %v", err)
	}
	if err := gif.Encode(f, img, nil); err != nil {
		t.Fatalf("failed to encode gif: %v", err)
	}
	f.Close()

	g, format, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if format != "gif" {
		t.Errorf("format: got %q, want gif", format)
	}
	want := color.NRGBAModel.Convert(palette.Plan9[3]).(color.NRGBA)
	if got := g.At(1, 1); got != want {
		t.Errorf("pixel (1,1): got %v, want %v", got, want)
	}
}

func TestLoad_BMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	for x := range 4 {
		img.Set(x, 0, color.White)
	}
	img.Set(2, 0, color.RGBA{1, 2, 3, 255})
	path := filepath.Join(t.TempDir(), "in.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create bmp: %v", err)
	}
	if err := bmp.Encode(f, img); err != nil {
		t.Fatalf("failed to encode bmp: %v", err)
	}
	f.Close()

	g, format, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if format != "bmp" {
		t.Errorf("format: got %q, want bmp", format)
	}
	if got := g.At(2, 0); got != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("pixel (2,0): got %v", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.png")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write junk file: %v", err)
	}

	for _, path := range []string{junk, filepath.Join(dir, "missing.png")} {
		_, _, err := Load(path)
		var derr *DecodeError
		if !errors.As(err, &derr) {
			t.Fatalf("Load(%s): expected DecodeError, got %v", path, err)
		}
		if derr.Path != path {
			t.Errorf("DecodeError.Path: got %q, want %q", derr.Path, path)
		}
	}

	_, _, err := Load(filepath.Join(dir, "missing.png"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error should unwrap to fs.ErrNotExist: %v", err)
	}
}

func TestSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.png", true},
		{"A.PNG", true},
		{"b.jpeg", true},
		{"c.webp", true},
		{"d.tiff", true},
		{"e.svg", false},
		{"png", false},
		{"f.png.txt", false},
	}
	for _, tt := range tests {
		if got := Supported(tt.name); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRender_ReproducesGrid(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := range 50 {
		img := randomNRGBA(r, 1+r.IntN(9), 1+r.IntN(9))
		g := rects.GridFromNRGBA(img)

		for _, mode := range []rects.Mode{rects.ModePixel, rects.ModeStrip, rects.ModeRect} {
			rs, err := rects.Decompose(g, mode)
			if err != nil {
				t.Fatalf("image %d: Decompose(%s) failed: %v", i, mode, err)
			}
			if err := Compare(g, Render(g.Width, g.Height, rs)); err != nil {
				t.Fatalf("image %d, mode %s: %v", i, mode, err)
			}
		}
	}
}

func TestCompare_Mismatch(t *testing.T) {
	g := rects.NewGrid(2, 1)
	g.Set(1, 0, color.NRGBA{1, 1, 1, 255})
	g.Set(0, 0, color.NRGBA{5, 5, 5, 0})

	err := Compare(g, Render(2, 1, nil))
	var merr *MismatchError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if merr.X != 1 || merr.Y != 0 {
		t.Errorf("mismatch at (%d,%d), want (1,0)", merr.X, merr.Y)
	}

	if err := Compare(g, Render(3, 1, nil)); err == nil {
		t.Error("Compare should fail on size mismatch")
	}
}

func TestRender_ClipsToCanvas(t *testing.T) {
	c := color.NRGBA{9, 8, 7, 255}
	img := Render(2, 2, []rects.Rectangle{{X: 1, Y: 1, Width: 5, Height: 5, Color: c}})
	if got := img.NRGBAAt(1, 1); got != c {
		t.Errorf("pixel (1,1): got %v, want %v", got, c)
	}
	if got := img.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("pixel (0,0) should stay transparent, got %v", got)
	}
}

func TestPreview_NearestNeighbour(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 255, 100})

	out := Preview(img, 3)
	if b := out.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Fatalf("dimensions: got %dx%d, want 6x3", b.Dx(), b.Dy())
	}
	for y := range 3 {
		for x := range 6 {
			want := img.NRGBAAt(x/3, 0)
			if got := out.NRGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}

	if same := Preview(img, 1); same.Bounds().Dx() != 2 {
		t.Errorf("scale 1 should keep the size, got %v", same.Bounds())
	}
}
