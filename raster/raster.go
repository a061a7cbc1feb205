// Package raster provides the pixel-buffer representation shared by the
// stitching pipeline. Buffers are row-major RGBA and are treated as
// immutable once constructed: every compositing operation allocates a new
// buffer rather than writing into its inputs.
package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const channels = 4

// Image is a decoded raster buffer. Pix holds width*height RGBA pixels in
// row-major order. Callers must not modify Pix after handing the image to
// the pipeline.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed image of the given dimensions.
func New(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{Width: width, Height: height, Pix: make([]uint8, width*height*channels)}
}

// FromImage converts any decoded stdlib image into a raster buffer.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return &Image{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// ToImage returns a stdlib view of the buffer. The returned image shares
// the pixel slice; callers that need an independent copy should use Clone
// first.
func (m *Image) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    m.Pix,
		Stride: m.Width * channels,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	pix := make([]uint8, len(m.Pix))
	copy(pix, m.Pix)
	return &Image{Width: m.Width, Height: m.Height, Pix: pix}
}

// At returns the RGBA value at (x, y). Out-of-bounds coordinates return
// transparent black.
func (m *Image) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return color.RGBA{}
	}
	i := (y*m.Width + x) * channels
	return color.RGBA{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2], A: m.Pix[i+3]}
}

// In reports whether (x, y) lies inside the image bounds.
func (m *Image) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// Paint copies src into m with src's top-left corner at (x, y). Pixels
// falling outside m are discarded. Source pixels overwrite the
// destination unconditionally.
func (m *Image) Paint(src *Image, x, y int) {
	for sy := 0; sy < src.Height; sy++ {
		dy := y + sy
		if dy < 0 || dy >= m.Height {
			continue
		}
		for sx := 0; sx < src.Width; sx++ {
			dx := x + sx
			if dx < 0 || dx >= m.Width {
				continue
			}
			si := (sy*src.Width + sx) * channels
			di := (dy*m.Width + dx) * channels
			copy(m.Pix[di:di+channels], src.Pix[si:si+channels])
		}
	}
}

// NormalizeWidths scales every image to the maximum width in the list so
// captures taken at slightly different zoom levels line up before
// stitching. Images already at the target width pass through unchanged.
func NormalizeWidths(images []*Image) []*Image {
	maxWidth := 0
	for _, m := range images {
		if m.Width > maxWidth {
			maxWidth = m.Width
		}
	}
	out := make([]*Image, len(images))
	for i, m := range images {
		out[i] = ScaleToWidth(m, maxWidth)
	}
	return out
}

// ScaleToWidth resizes the image to the given width, preserving aspect
// ratio, using bilinear interpolation. Images already at the target width
// are returned unchanged.
func ScaleToWidth(m *Image, width int) *Image {
	if width <= 0 || m.Width == width {
		return m
	}
	height := m.Height * width / m.Width
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), m.ToImage(), image.Rect(0, 0, m.Width, m.Height), draw.Src, nil)
	return &Image{Width: width, Height: height, Pix: dst.Pix}
}
