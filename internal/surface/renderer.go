package surface

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mark3labs/screencal/internal/calibration"
)

// Options holds the ramp and layout constants. Zero values use the defaults.
// A negative Margin means no margin and a negative MaxSwatchWidth means no cap.
type Options struct {
	SwatchCount    int // Ramp swatches, at least 2 (default 12)
	DefaultHeight  int // Surface height outside the object step (default 200)
	Margin         int // Space added below the tallest object and around the ramp (default 20)
	SwatchHeight   int // Height of each swatch (default 100)
	MaxSwatchWidth int // Widest a swatch may get (default 100)
}

// DefaultOptions returns the shipped ramp layout.
func DefaultOptions() Options {
	return Options{
		SwatchCount:    calibration.DefaultSwatchCount,
		DefaultHeight:  200,
		Margin:         20,
		SwatchHeight:   100,
		MaxSwatchWidth: 100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SwatchCount < 2 {
		o.SwatchCount = d.SwatchCount
	}
	if o.DefaultHeight <= 0 {
		o.DefaultHeight = d.DefaultHeight
	}
	switch {
	case o.Margin == 0:
		o.Margin = d.Margin
	case o.Margin < 0:
		o.Margin = 0
	}
	if o.SwatchHeight <= 0 || o.SwatchHeight > o.DefaultHeight {
		o.SwatchHeight = min(d.SwatchHeight, o.DefaultHeight)
	}
	switch {
	case o.MaxSwatchWidth == 0:
		o.MaxSwatchWidth = d.MaxSwatchWidth
	case o.MaxSwatchWidth < 0:
		o.MaxSwatchWidth = 0
	}
	return o
}

// Renderer draws onto a Canvas. It holds no canvas state of its own.
type Renderer struct {
	opts   Options
	assets *Assets
}

// NewRenderer creates a renderer. A nil assets set draws procedural images.
func NewRenderer(opts Options, assets *Assets) *Renderer {
	if assets == nil {
		assets = ProceduralAssets()
	}
	return &Renderer{opts: opts.withDefaults(), assets: assets}
}

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// ObjectSurfaceHeight is the surface height for the object step: the
// object's tallest drawable height plus the margin.
func (r *Renderer) ObjectSurfaceHeight(o calibration.ReferenceObject) int {
	return o.MaxHeightPx() + r.opts.Margin
}

// ObjectRect is where the object lands on a surface of the given size.
func ObjectRect(width, height int, o calibration.ReferenceObject, ratio float64) image.Rectangle {
	w := int(roundHalfUp(calibration.ScaledObjectWidthPx(o, ratio)))
	h := int(roundHalfUp(calibration.ScaledObjectHeightPx(o, ratio)))
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	x := (width - w) / 2
	y := (height - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// DrawObject resizes the canvas to containerWidth by the object surface
// height, clears it and draws the object scaled by ratio and centered.
// A nil canvas is ignored.
func (r *Renderer) DrawObject(c Canvas, containerWidth int, o calibration.ReferenceObject, ratio float64) error {
	if c == nil {
		return nil
	}
	height := r.ObjectSurfaceHeight(o)
	c.Resize(containerWidth, height)
	c.Clear()

	dst := ObjectRect(containerWidth, height, o, ratio)
	if dst.Empty() {
		return nil
	}
	c.DrawImage(dst, r.assets.Image(o))
	return nil
}

// Swatch is one box of the gray ramp.
type Swatch struct {
	Rect  image.Rectangle
	Level uint8
}

// RampLevels returns n luminosity levels spread evenly over 0..255.
func RampLevels(n int) []uint8 {
	if n < 2 {
		return []uint8{0}
	}
	levels := make([]uint8, n)
	for i := range levels {
		levels[i] = uint8(roundHalfUp(float64(i) * 255 / float64(n-1)))
	}
	return levels
}

// RampLayout computes the swatches for a surface width. Swatches are equal
// width, centered, with fractional edges rounded to whole pixels.
func (r *Renderer) RampLayout(width int) []Swatch {
	n := r.opts.SwatchCount
	usable := width - 2*r.opts.Margin
	if usable <= 0 {
		usable = width
	}
	sw := float64(usable) / float64(n)
	if r.opts.MaxSwatchWidth > 0 && sw > float64(r.opts.MaxSwatchWidth) {
		sw = float64(r.opts.MaxSwatchWidth)
	}
	offset := (float64(width) - sw*float64(n)) / 2
	y0 := (r.opts.DefaultHeight - r.opts.SwatchHeight) / 2

	levels := RampLevels(n)
	swatches := make([]Swatch, n)
	for i := range swatches {
		x0 := int(roundHalfUp(offset + float64(i)*sw))
		x1 := int(roundHalfUp(offset + float64(i+1)*sw))
		swatches[i] = Swatch{
			Rect:  image.Rect(x0, y0, x1, y0+r.opts.SwatchHeight),
			Level: levels[i],
		}
	}
	return swatches
}

// DrawRamp resizes the canvas to containerWidth by the default height,
// clears it and draws the gray ramp. The brightness step cannot work
// without a surface, so a nil canvas is an error.
func (r *Renderer) DrawRamp(c Canvas, containerWidth int) error {
	if c == nil {
		return ErrSurfaceNotFound
	}
	c.Resize(containerWidth, r.opts.DefaultHeight)
	c.Clear()
	for _, s := range r.RampLayout(containerWidth) {
		c.FillRect(s.Rect, Gray(s.Level))
	}
	return nil
}

// Gray returns the opaque gray of a luminosity level.
func Gray(level uint8) color.Color {
	v := float64(level) / 255
	rr, gg, bb := colorful.Color{R: v, G: v, B: v}.Clamped().RGB255()
	return color.RGBA{R: rr, G: gg, B: bb, A: 255}
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
