package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Material is a surface description consumed by renderers.
type Material interface {
	Props() *MaterialBase
	Clone() Material
}

// MaterialBase holds what every material has.
type MaterialBase struct {
	Color       colorful.Color
	Opacity     float64
	Transparent bool
	DepthTest   bool
}

// Props returns m itself.
func (m *MaterialBase) Props() *MaterialBase { return m }

func base(c colorful.Color) MaterialBase {
	return MaterialBase{Color: c, Opacity: 1, DepthTest: true}
}

// PhongMaterial is a shiny lit surface.
type PhongMaterial struct {
	MaterialBase
	Shininess float64
}

func NewPhong(c colorful.Color) *PhongMaterial {
	return &PhongMaterial{MaterialBase: base(c), Shininess: 30}
}

func (m *PhongMaterial) Clone() Material {
	c := *m
	return &c
}

// StandardMaterial is a physically based surface.
type StandardMaterial struct {
	MaterialBase
	Metalness float64
	Roughness float64
}

func NewStandard(c colorful.Color, metalness, roughness float64) *StandardMaterial {
	return &StandardMaterial{MaterialBase: base(c), Metalness: metalness, Roughness: roughness}
}

func (m *StandardMaterial) Clone() Material {
	c := *m
	return &c
}

// LambertMaterial is a matte lit surface.
type LambertMaterial struct {
	MaterialBase
}

func NewLambert(c colorful.Color) *LambertMaterial {
	return &LambertMaterial{MaterialBase: base(c)}
}

func (m *LambertMaterial) Clone() Material {
	c := *m
	return &c
}

// BasicMaterial ignores lighting.
type BasicMaterial struct {
	MaterialBase
}

func NewBasic(c colorful.Color) *BasicMaterial {
	return &BasicMaterial{MaterialBase: base(c)}
}

func (m *BasicMaterial) Clone() Material {
	c := *m
	return &c
}

// LineMaterial strokes line geometry.
type LineMaterial struct {
	MaterialBase
	LineWidth float64
}

func NewLineMaterial(c colorful.Color, width float64) *LineMaterial {
	m := &LineMaterial{MaterialBase: base(c), LineWidth: width}
	m.Transparent = true
	return m
}

func (m *LineMaterial) Clone() Material {
	c := *m
	return &c
}

// GradientMaterial fades along the u texture coordinate: opaque around
// Center and nearly clear at both ends, boosted by GlowIntensity.
type GradientMaterial struct {
	MaterialBase
	Center        float64
	GlowIntensity float64
}

func NewGradient(c colorful.Color) *GradientMaterial {
	m := &GradientMaterial{MaterialBase: base(c), Center: 0.5, GlowIntensity: 3}
	m.Transparent = true
	return m
}

func (m *GradientMaterial) Clone() Material {
	c := *m
	return &c
}

// Alpha returns the opacity at u: (mix(1, 0.02, |u-center|))^2 * 0.8.
func (m *GradientMaterial) Alpha(u float64) float64 {
	d := math.Abs(u - m.Center)
	a := 1 + (0.02-1)*d
	return a * a * 0.8
}

// Glow returns the emitted color, the base color scaled by GlowIntensity
// and clamped.
func (m *GradientMaterial) Glow() colorful.Color {
	return colorful.Color{
		R: math.Min(1, m.Color.R*m.GlowIntensity),
		G: math.Min(1, m.Color.G*m.GlowIntensity),
		B: math.Min(1, m.Color.B*m.GlowIntensity),
	}
}

// CloneAll copies every material of ms.
func CloneAll(ms []Material) []Material {
	out := make([]Material, len(ms))
	for i, m := range ms {
		out[i] = m.Clone()
	}
	return out
}
