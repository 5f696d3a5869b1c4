package testfixtures

import (
	"time"

	"github.com/mark3labs/screencal/internal/calibration"
)

// Fixed test values for consistent output
const (
	FixedSession  = "6f1c1f64-2b8e-4d43-9d0c-3c8f8e3b1a77"
	FixedDiagonal = 24.0
)

var (
	FixedTime       = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	FixedResolution = calibration.Resolution{Width: 1920, Height: 1080}
)

// SizedModel returns a model for FixedResolution with a manual diagonal.
func SizedModel(diagonal float64) *calibration.SizeModel {
	m := calibration.NewSizeModel(FixedResolution, calibration.DefaultDistanceCm)
	_ = m.SetDiagonalInches(diagonal)
	return m
}

// DismissedResult is the payload of a session dismissed before any size was set.
func DismissedResult() calibration.Result {
	return calibration.NewSizeModel(FixedResolution, 0).Result(calibration.StatusDismissed)
}

// ConfirmedResult is the payload of a confirmed session with FixedDiagonal.
func ConfirmedResult() calibration.Result {
	return SizedModel(FixedDiagonal).Result(calibration.StatusConfirmed)
}
