package projection

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMercatorCenterMapsToTranslate(t *testing.T) {
	m := NewMercator(orb.Point{104, 37.5}, 80, [2]float64{10, -5})
	x, y := m.Project(orb.Point{104, 37.5})
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, -5, y, 1e-9)
}

func TestMercatorOrientation(t *testing.T) {
	m := NewMercator(orb.Point{104, 37.5}, 80, [2]float64{})
	xe, _ := m.Project(orb.Point{110, 37.5})
	_, yn := m.Project(orb.Point{104, 45})
	assert.Greater(t, xe, 0.0, "east is +x")
	assert.Less(t, yn, 0.0, "north is -y before the flip")

	// one radian of longitude spans Scale units
	x, _ := m.Project(orb.Point{104 + 180/math.Pi, 37.5})
	assert.InDelta(t, 80, x, 1e-6)
}

func TestAdapterFlipsY(t *testing.T) {
	a := NewAdapter(Func(func(p orb.Point) (float64, float64) { return p[0] * 2, p[1] * 3 }))
	x, y, err := a.ToPlane(orb.Point{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2.0, x)
	assert.Equal(t, -6.0, y)
}

func TestAdapterRejectsNonFinite(t *testing.T) {
	a := NewAdapter(NewMercator(orb.Point{}, 1, [2]float64{}))
	_, _, err := a.ToPlane(orb.Point{0, 90})
	assert.ErrorIs(t, err, ErrNonFinite)

	nan := NewAdapter(Func(func(orb.Point) (float64, float64) { return math.NaN(), 0 }))
	_, _, err = nan.ToPlane(orb.Point{1, 1})
	assert.ErrorIs(t, err, ErrNonFinite)
}
