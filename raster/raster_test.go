package raster

import (
	"image"
	"image/color"
	"testing"
)

func fill(w, h int, c color.RGBA) *Image {
	m := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			m.Pix[i] = c.R
			m.Pix[i+1] = c.G
			m.Pix[i+2] = c.B
			m.Pix[i+3] = c.A
		}
	}
	return m
}

func TestFromImageRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	m := FromImage(src)
	if m.Width != 3 || m.Height != 2 {
		t.Fatalf("unexpected dimensions: %dx%d", m.Width, m.Height)
	}
	if got := m.At(1, 1); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("unexpected pixel: %+v", got)
	}
	back := m.ToImage()
	if got := back.RGBAAt(1, 1); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("unexpected pixel after ToImage: %+v", got)
	}
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	src.SetRGBA(5, 5, color.RGBA{R: 9, A: 255})

	m := FromImage(src)
	if m.Width != 3 || m.Height != 2 {
		t.Fatalf("unexpected dimensions: %dx%d", m.Width, m.Height)
	}
	if got := m.At(0, 0); got != (color.RGBA{R: 9, A: 255}) {
		t.Fatalf("origin pixel not translated: %+v", got)
	}
}

func TestAtOutOfBounds(t *testing.T) {
	m := fill(2, 2, color.RGBA{R: 1, A: 255})
	if got := m.At(-1, 0); got != (color.RGBA{}) {
		t.Fatalf("expected zero pixel, got %+v", got)
	}
	if got := m.At(0, 2); got != (color.RGBA{}) {
		t.Fatalf("expected zero pixel, got %+v", got)
	}
	if m.In(0, 2) || m.In(-1, 0) {
		t.Fatalf("In() reported out-of-bounds coordinates inside")
	}
}

func TestPaintClipsAndOverwrites(t *testing.T) {
	dst := fill(4, 4, color.RGBA{R: 100, A: 255})
	src := fill(3, 3, color.RGBA{G: 200, A: 255})

	dst.Paint(src, 2, 2)
	if got := dst.At(2, 2); got.G != 200 {
		t.Fatalf("pixel not painted: %+v", got)
	}
	if got := dst.At(1, 1); got.R != 100 {
		t.Fatalf("untouched pixel changed: %+v", got)
	}
	// The part of src hanging past the canvas is discarded.
	if got := dst.At(3, 3); got.G != 200 {
		t.Fatalf("in-bounds painted pixel wrong: %+v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := fill(2, 2, color.RGBA{R: 5, A: 255})
	c := m.Clone()
	c.Pix[0] = 99
	if m.Pix[0] == 99 {
		t.Fatalf("clone shares pixel buffer with original")
	}
}

func TestScaleToWidth(t *testing.T) {
	m := fill(10, 20, color.RGBA{R: 50, G: 60, B: 70, A: 255})
	scaled := ScaleToWidth(m, 5)
	if scaled.Width != 5 || scaled.Height != 10 {
		t.Fatalf("unexpected scaled dimensions: %dx%d", scaled.Width, scaled.Height)
	}
	// Uniform input stays uniform under bilinear scaling.
	if got := scaled.At(2, 5); got != (color.RGBA{R: 50, G: 60, B: 70, A: 255}) {
		t.Fatalf("unexpected scaled pixel: %+v", got)
	}
	if same := ScaleToWidth(m, 10); same != m {
		t.Fatalf("expected identity for matching width")
	}
}

func TestNormalizeWidths(t *testing.T) {
	a := fill(10, 10, color.RGBA{R: 1, A: 255})
	b := fill(20, 10, color.RGBA{R: 2, A: 255})

	out := NormalizeWidths([]*Image{a, b})
	if len(out) != 2 {
		t.Fatalf("unexpected result length: %d", len(out))
	}
	if out[0].Width != 20 || out[1].Width != 20 {
		t.Fatalf("widths not normalized: %d, %d", out[0].Width, out[1].Width)
	}
	if out[1] != b {
		t.Fatalf("image already at max width should pass through")
	}
	if out[0].Height != 20 {
		t.Fatalf("aspect ratio not preserved: height %d", out[0].Height)
	}
}
