package calibration

import (
	"encoding/json"
	"fmt"
)

// Status tells how a session ended.
type Status int

const (
	StatusDismissed Status = 0
	StatusConfirmed Status = 1
)

func (s Status) String() string {
	if s == StatusConfirmed {
		return "confirmed"
	}
	return "dismissed"
}

// Result is the completion payload. Every size-derived field is nil unless a
// valid diagonal was established.
type Result struct {
	Status                 Status   `json:"status"`
	DiagonalSize           *float64 `json:"diagonalSize"`
	DiagonalSizeInPx       float64  `json:"diagonalSizeInPx"`
	DistanceFromScreenInCm *float64 `json:"distanceFromScreenInCm"`
	PixelsPerInch          *float64 `json:"pixelsPerInch"`
	PixelsPerDegree        *float64 `json:"pixelsPerDegree"`
}

// Result snapshots the model.
func (m *SizeModel) Result(status Status) Result {
	r := Result{
		Status:           status,
		DiagonalSizeInPx: m.DiagonalPx(),
	}
	d, ok := m.DiagonalInches()
	if !ok {
		return r
	}
	ppi, _ := m.PixelsPerInch()
	ppd, _ := m.PixelsPerDegree()
	dist := m.distanceCm
	r.DiagonalSize = &d
	r.DistanceFromScreenInCm = &dist
	r.PixelsPerInch = &ppi
	r.PixelsPerDegree = &ppd
	return r
}

// Known reports whether the result carries derived sizes.
func (r Result) Known() bool {
	return r.DiagonalSize != nil
}

// JSON returns the indented JSON form of the result.
func (r Result) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return data, nil
}

const unknown = "unknown"

// FormatInches formats a diagonal for display.
func FormatInches(d float64, ok bool) string {
	if !ok {
		return unknown
	}
	return fmt.Sprintf("%.1f in", d)
}

// FormatValue formats a derived metric with two decimals and a unit.
func FormatValue(v float64, ok bool, unit string) string {
	if !ok {
		return unknown
	}
	if unit == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, unit)
}

// FormatRatio formats a scale ratio as a percentage.
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.0f%%", r*100)
}
