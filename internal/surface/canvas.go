// Package surface draws the calibration visuals: the reference object scaled
// by the current ratio and the gray contrast ramp.
//
// Drawing targets a Canvas addressed in device pixels. ImageCanvas keeps an
// RGBA image that can be exported as PNG; CellCanvas maps the same pixels onto
// terminal cells.
package surface

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// ErrSurfaceNotFound is returned when the ramp is drawn without a canvas.
var ErrSurfaceNotFound = errors.New("drawing surface not found")

// Canvas is a drawing surface in device pixels.
type Canvas interface {
	Resize(width, height int)
	Size() (width, height int)
	Clear()
	FillRect(r image.Rectangle, c color.Color)
	DrawImage(dst image.Rectangle, src image.Image)
}

// ImageCanvas is an in-memory RGBA canvas.
type ImageCanvas struct {
	img *image.RGBA
}

// NewImageCanvas creates a transparent canvas.
func NewImageCanvas(width, height int) *ImageCanvas {
	c := &ImageCanvas{}
	c.Resize(width, height)
	return c
}

// Resize replaces the backing image. Contents are discarded.
func (c *ImageCanvas) Resize(width, height int) {
	c.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// Size returns the canvas size in pixels.
func (c *ImageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear makes every pixel transparent.
func (c *ImageCanvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// FillRect paints r, clipped to the canvas.
func (c *ImageCanvas) FillRect(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), image.NewUniform(col), image.Point{}, draw.Src)
}

// DrawImage scales src into dst.
func (c *ImageCanvas) DrawImage(dst image.Rectangle, src image.Image) {
	if dst.Empty() || src == nil {
		return
	}
	draw.CatmullRom.Scale(c.img, dst, src, src.Bounds(), draw.Over, nil)
}

// Image returns the backing image.
func (c *ImageCanvas) Image() *image.RGBA {
	return c.img
}

// EncodePNG writes the canvas as PNG.
func (c *ImageCanvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}
