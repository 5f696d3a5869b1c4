package calibration

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullHD = Resolution{Width: 1920, Height: 1080}

func creditCard(t *testing.T) ReferenceObject {
	t.Helper()
	o, ok := DefaultCatalog().Get(CreditCard)
	require.True(t, ok)
	return o
}

func TestResolution_DiagonalPx(t *testing.T) {
	assert.InDelta(t, 2202.907, fullHD.DiagonalPx(), 0.001)
	assert.InDelta(t, 5.0, Resolution{Width: 3, Height: 4}.DiagonalPx(), 1e-9)
	assert.False(t, Resolution{Width: 0, Height: 1080}.Valid())
}

func TestSetDiagonalInches(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		ok    bool
	}{
		{"small positive", 0.01, true},
		{"typical", 24, true},
		{"just below max", 59.99, true},
		{"zero", 0, false},
		{"negative", -3, false},
		{"max", 60, false},
		{"above max", 75, false},
		{"nan", math.NaN(), false},
		{"inf", math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSizeModel(fullHD, 0)
			require.NoError(t, m.SetDiagonalInches(13.3))

			err := m.SetDiagonalInches(tt.value)
			d, known := m.DiagonalInches()
			require.True(t, known)
			if tt.ok {
				require.NoError(t, err)
				require.Equal(t, tt.value, d)
				require.Equal(t, SourceManual, m.Source())
			} else {
				require.ErrorIs(t, err, ErrSizeOutOfRange)
				require.Equal(t, 13.3, d, "previous value preserved")
			}
		})
	}

	t.Run("rejected first value stays unknown", func(t *testing.T) {
		m := NewSizeModel(fullHD, 0)
		require.Error(t, m.SetDiagonalInches(80))
		_, known := m.DiagonalInches()
		require.False(t, known)
	})
}

func TestDerivedMetrics_ManualEntry(t *testing.T) {
	m := NewSizeModel(fullHD, 0)
	require.Equal(t, DefaultDistanceCm, m.DistanceCm())
	require.NoError(t, m.SetDiagonalInches(24))

	ppi, ok := m.PixelsPerInch()
	require.True(t, ok)
	assert.InDelta(t, 91.79, ppi, 0.01)

	ppcm, ok := m.PixelsPerCm()
	require.True(t, ok)
	assert.InDelta(t, ppi/2.54, ppcm, 1e-9)

	ppd, ok := m.PixelsPerDegree()
	require.True(t, ok)
	assert.InDelta(t, 34.31, ppd, 0.01)

	cm, ok := m.DiagonalCm()
	require.True(t, ok)
	assert.InDelta(t, 60.96, cm, 1e-9)
}

func TestDerivedMetrics_UndefinedWithoutDiagonal(t *testing.T) {
	m := NewSizeModel(fullHD, 0)

	_, ok := m.PixelsPerInch()
	assert.False(t, ok)
	_, ok = m.PixelsPerCm()
	assert.False(t, ok)
	_, ok = m.PixelsPerDegree()
	assert.False(t, ok)
	_, ok = m.DiagonalCm()
	assert.False(t, ok)

	// Diagonal px is available regardless
	assert.InDelta(t, 2202.907, m.DiagonalPx(), 0.001)
}

func TestDeriveDiagonalInches(t *testing.T) {
	card := creditCard(t)
	diag := fullHD.DiagonalPx()

	assert.Equal(t, 0.0, DeriveDiagonalInches(diag, card, 0))
	assert.Equal(t, 0.0, DeriveDiagonalInches(diag, card, -1))
	assert.InDelta(t, 8.6729, DeriveDiagonalInches(diag, card, 1), 0.0001)
	assert.InDelta(t, 17.3457, DeriveDiagonalInches(diag, card, 0.5), 0.0001)
	assert.InDelta(t, 34.6915, DeriveDiagonalInches(diag, card, 0.25), 0.0001)

	disk, ok := DefaultCatalog().Get(CompactDisk)
	require.True(t, ok)
	assert.InDelta(t, 17.3457, DeriveDiagonalInches(diag, disk, 0.5), 0.0001)

	// Deterministic and decreasing in the ratio
	prev := math.Inf(1)
	for r := 0.05; r <= 1.0; r += 0.05 {
		d := DeriveDiagonalInches(diag, card, r)
		require.Equal(t, d, DeriveDiagonalInches(diag, card, r))
		require.Less(t, d, prev)
		prev = d
	}
}

func TestDeriveFromObject(t *testing.T) {
	m := NewSizeModel(fullHD, 0)

	_, ok := m.DeriveFromObject()
	require.False(t, ok, "no object selected")

	m.SelectObject(creditCard(t))
	d, ok := m.DeriveFromObject()
	require.True(t, ok)
	assert.InDelta(t, 17.3457, d, 0.0001)
	assert.Equal(t, SourceObject, m.Source())

	ppi, ok := m.PixelsPerInch()
	require.True(t, ok)
	assert.InDelta(t, 127.0, ppi, 1e-6)

	w, h, ok := m.ScaledObjectSize()
	require.True(t, ok)
	assert.Equal(t, 428.0, w)
	assert.Equal(t, 270.0, h)

	m.SetScaleRatio(0)
	d, ok = m.DeriveFromObject()
	require.False(t, ok)
	assert.Equal(t, 0.0, d)
	_, known := m.DiagonalInches()
	assert.False(t, known, "derived zero leaves the diagonal unknown")
	_, ok = m.PixelsPerDegree()
	assert.False(t, ok)
}

func TestDiagonalPxInvariant(t *testing.T) {
	m := NewSizeModel(fullHD, 70)
	want := m.DiagonalPx()

	require.NoError(t, m.SetDiagonalInches(15))
	m.SelectObject(creditCard(t))
	m.SetScaleRatio(0.8)
	m.DeriveFromObject()

	require.Equal(t, want, m.DiagonalPx())
}

func TestSetScaleRatio_Clamps(t *testing.T) {
	m := NewSizeModel(fullHD, 0)
	require.Equal(t, DefaultScaleRatio, m.ScaleRatio())

	m.SetScaleRatio(1.7)
	require.Equal(t, 1.0, m.ScaleRatio())
	m.SetScaleRatio(-0.2)
	require.Equal(t, 0.0, m.ScaleRatio())
	m.SetScaleRatio(0.3)
	m.SetScaleRatio(math.NaN())
	require.Equal(t, 0.3, m.ScaleRatio())
}

func TestResult(t *testing.T) {
	m := NewSizeModel(fullHD, 0)

	r := m.Result(StatusDismissed)
	require.False(t, r.Known())
	require.Nil(t, r.DiagonalSize)
	require.Nil(t, r.DistanceFromScreenInCm)
	require.Nil(t, r.PixelsPerInch)
	require.Nil(t, r.PixelsPerDegree)
	require.InDelta(t, 2202.907, r.DiagonalSizeInPx, 0.001)

	data, err := r.JSON()
	require.NoError(t, err)
	require.JSONEq(t, `{
		"status": 0,
		"diagonalSize": null,
		"diagonalSizeInPx": 2202.9071700822983,
		"distanceFromScreenInCm": null,
		"pixelsPerInch": null,
		"pixelsPerDegree": null
	}`, string(data))

	require.NoError(t, m.SetDiagonalInches(24))
	r = m.Result(StatusConfirmed)
	require.True(t, r.Known())
	require.Equal(t, 24.0, *r.DiagonalSize)
	require.Equal(t, 50.0, *r.DistanceFromScreenInCm)
	require.InDelta(t, 91.79, *r.PixelsPerInch, 0.01)
	require.InDelta(t, 34.31, *r.PixelsPerDegree, 0.01)
}

func TestFormatting(t *testing.T) {
	require.Equal(t, "24.0 in", FormatInches(24, true))
	require.Equal(t, "unknown", FormatInches(0, false))
	require.Equal(t, "91.79", FormatValue(91.7878, true, ""))
	require.Equal(t, "50.00 cm", FormatValue(50, true, "cm"))
	require.Equal(t, "unknown", FormatValue(1, false, "px"))
	require.Equal(t, "50%", FormatRatio(0.5))
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()
	objects := c.Objects()
	require.Len(t, objects, 2)
	require.Equal(t, CreditCard, objects[0].Kind)
	require.Equal(t, CompactDisk, objects[1].Kind)
	require.Equal(t, 540, objects[0].MaxHeightPx())
	require.InDelta(t, 3.370, objects[0].PhysicalWidthIn(), 0.001)

	_, err := NewCatalog(ReferenceObject{Kind: CreditCard, BaseWidthPx: 0, BaseHeightPx: 1, PhysicalWidthCm: 1, MaxScale: 1})
	require.Error(t, err)

	var nilCatalog *Catalog
	_, ok := nilCatalog.Get(CreditCard)
	require.False(t, ok)

	kind, err := ParseObjectKind("cd")
	require.NoError(t, err)
	require.Equal(t, CompactDisk, kind)
	_, err = ParseObjectKind("banana")
	require.ErrorIs(t, err, ErrUnknownObject)
}
