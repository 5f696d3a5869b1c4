package calibration

import (
	"math"
)

const (
	CmPerInch          = 2.54
	MaxDiagonalInches  = 60.0 // Exclusive upper bound for a diagonal
	DefaultScaleRatio  = 0.5
	DefaultDistanceCm  = 50.0
	DefaultSwatchCount = 12
)

// Resolution is the device screen size in pixels.
type Resolution struct {
	Width  int
	Height int
}

// DiagonalPx is the screen diagonal in pixels.
func (r Resolution) DiagonalPx() float64 {
	return math.Hypot(float64(r.Width), float64(r.Height))
}

// Valid reports whether both dimensions are positive.
func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// ValidDiagonal reports whether d lies in (0, MaxDiagonalInches).
func ValidDiagonal(d float64) bool {
	return d > 0 && d < MaxDiagonalInches
}

// ScaledObjectWidthPx is the on-screen width of o at ratio.
func ScaledObjectWidthPx(o ReferenceObject, ratio float64) float64 {
	return float64(o.BaseWidthPx) * o.MaxScale * ratio
}

// ScaledObjectHeightPx is the on-screen height of o at ratio.
func ScaledObjectHeightPx(o ReferenceObject, ratio float64) float64 {
	return float64(o.BaseHeightPx) * o.MaxScale * ratio
}

// DeriveDiagonalInches converts an on-screen object width into a screen
// diagonal: the object's pixels per inch scaled up to the pixel diagonal.
// A ratio of zero or less yields 0.
func DeriveDiagonalInches(diagonalPx float64, o ReferenceObject, ratio float64) float64 {
	scaled := ScaledObjectWidthPx(o, ratio)
	if scaled <= 0 {
		return 0
	}
	return diagonalPx / (scaled / o.PhysicalWidthIn())
}

// PixelsPerDegree is the angular pixel density of a screen widthPx wide with
// pixelsPerCm density, viewed from distanceCm.
func PixelsPerDegree(widthPx int, pixelsPerCm, distanceCm float64) float64 {
	w := float64(widthPx)
	widthCm := w / pixelsPerCm
	degrees := 180 / math.Pi * 2 * math.Atan(widthCm/(2*distanceCm))
	return w / degrees
}

// SizeSource records which acquisition path set the diagonal.
type SizeSource int

const (
	SourceNone   SizeSource = iota
	SourceManual            // Typed by the user
	SourceObject            // Derived from a reference object comparison
)

// SizeModel holds the screen-size state of one session. Derived values are
// computed on every read and never stored.
type SizeModel struct {
	resolution Resolution
	distanceCm float64

	diagonal   *float64
	source     SizeSource
	selected   *ReferenceObject
	scaleRatio float64
}

// NewSizeModel creates a model for a device. A non-positive distance uses
// DefaultDistanceCm.
func NewSizeModel(res Resolution, distanceCm float64) *SizeModel {
	if distanceCm <= 0 {
		distanceCm = DefaultDistanceCm
	}
	return &SizeModel{
		resolution: res,
		distanceCm: distanceCm,
		scaleRatio: DefaultScaleRatio,
	}
}

// Resolution returns the device resolution.
func (m *SizeModel) Resolution() Resolution { return m.resolution }

// DistanceCm returns the viewing distance.
func (m *SizeModel) DistanceCm() float64 { return m.distanceCm }

// DiagonalPx depends on the device resolution only.
func (m *SizeModel) DiagonalPx() float64 { return m.resolution.DiagonalPx() }

// SetDiagonalInches stores a manually entered diagonal. Values outside
// (0, 60) are rejected and the previous value is kept.
func (m *SizeModel) SetDiagonalInches(d float64) error {
	if !ValidDiagonal(d) {
		return ErrSizeOutOfRange
	}
	m.diagonal = &d
	m.source = SourceManual
	return nil
}

// DiagonalInches returns the diagonal and whether it is known.
func (m *SizeModel) DiagonalInches() (float64, bool) {
	if m.diagonal == nil {
		return 0, false
	}
	return *m.diagonal, true
}

// Source reports which path set the diagonal.
func (m *SizeModel) Source() SizeSource { return m.source }

// ScaleRatio returns the slider position in [0, 1].
func (m *SizeModel) ScaleRatio() float64 { return m.scaleRatio }

// SetScaleRatio clamps r into [0, 1]. NaN is ignored.
func (m *SizeModel) SetScaleRatio(r float64) {
	if math.IsNaN(r) {
		return
	}
	m.scaleRatio = math.Max(0, math.Min(1, r))
}

// SelectObject binds the comparison object.
func (m *SizeModel) SelectObject(o ReferenceObject) {
	m.selected = &o
}

// Selected returns the bound comparison object.
func (m *SizeModel) Selected() (ReferenceObject, bool) {
	if m.selected == nil {
		return ReferenceObject{}, false
	}
	return *m.selected, true
}

// DeriveFromObject recomputes the diagonal from the selected object and the
// current ratio. A result outside (0, 60) leaves the diagonal unknown.
// Returns the raw derived value and whether it was accepted.
func (m *SizeModel) DeriveFromObject() (float64, bool) {
	o, ok := m.Selected()
	if !ok {
		return 0, false
	}
	d := DeriveDiagonalInches(m.DiagonalPx(), o, m.scaleRatio)
	if !ValidDiagonal(d) {
		m.diagonal = nil
		m.source = SourceNone
		return d, false
	}
	m.diagonal = &d
	m.source = SourceObject
	return d, true
}

// DiagonalCm is the diagonal in centimeters.
func (m *SizeModel) DiagonalCm() (float64, bool) {
	d, ok := m.DiagonalInches()
	if !ok {
		return 0, false
	}
	return d * CmPerInch, true
}

// PixelsPerInch is defined exactly when the diagonal is known.
func (m *SizeModel) PixelsPerInch() (float64, bool) {
	d, ok := m.DiagonalInches()
	if !ok {
		return 0, false
	}
	return m.DiagonalPx() / d, true
}

// PixelsPerCm is defined exactly when the diagonal is known.
func (m *SizeModel) PixelsPerCm() (float64, bool) {
	ppi, ok := m.PixelsPerInch()
	if !ok {
		return 0, false
	}
	return ppi / CmPerInch, true
}

// PixelsPerDegree is defined exactly when the diagonal is known.
func (m *SizeModel) PixelsPerDegree() (float64, bool) {
	ppcm, ok := m.PixelsPerCm()
	if !ok {
		return 0, false
	}
	return PixelsPerDegree(m.resolution.Width, ppcm, m.distanceCm), true
}

// ScaledObjectSize is the on-screen size of the selected object.
func (m *SizeModel) ScaledObjectSize() (width, height float64, ok bool) {
	o, ok := m.Selected()
	if !ok {
		return 0, 0, false
	}
	return ScaledObjectWidthPx(o, m.scaleRatio), ScaledObjectHeightPx(o, m.scaleRatio), true
}

// roundHalfUp rounds halves towards positive infinity, matching integer
// pixel addressing.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
