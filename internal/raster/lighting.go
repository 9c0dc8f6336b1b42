package raster

import (
	"math"

	"geoscene/internal/mathutil"
)

// LightConfig is a directional light plus ambient term.
type LightConfig struct {
	LightDir mathutil.Vec3
	Ambient  float64
	Direct   float64
}

// DefaultLightConfig lights the map from above and slightly south.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		LightDir: mathutil.Vec3{0.3, -0.4, 1}.Normalize(),
		Ambient:  0.45,
		Direct:   0.65,
	}
}

// Shade returns the lighting scalar for a face normal. Faces are double
// sided.
func (lc LightConfig) Shade(normal mathutil.Vec3) float64 {
	return lc.Ambient + math.Abs(normal.Dot(lc.LightDir))*lc.Direct
}
