package mapbuild

import (
	"geoscene/internal/scene"
	"geoscene/internal/shape"

	"github.com/lucasb-eyer/go-colorful"
)

// Outliner derives glowing edge lines from solids.
//
// All outlines share Material unless PerOutlineMaterial is set. Every
// Extract call writes its color and opacity into the material it uses, so
// with sharing the last call decides how every outline looks.
type Outliner struct {
	Material           *scene.LineMaterial
	Default            colorful.Color
	Width              float64
	PerOutlineMaterial bool
}

func NewOutliner(def colorful.Color) *Outliner {
	return &Outliner{
		Material: scene.NewLineMaterial(def, OutlineWidth),
		Default:  def,
		Width:    OutlineWidth,
	}
}

// Extract returns the feature edges of m sharper than thresholdDeg as a
// line that copies the world transform m has right now. A nil color uses
// the default outline color, a nil opacity means 1. It returns nil when m
// has no geometry or no edge passes the threshold.
func (o *Outliner) Extract(m *scene.Mesh, thresholdDeg float64, color *colorful.Color, opacity *float64) *scene.Line {
	if m == nil || m.Geometry.Empty() {
		return nil
	}
	pts := shape.Edges(m.Geometry, thresholdDeg)
	if len(pts) == 0 {
		return nil
	}
	c := o.Default
	if color != nil {
		c = *color
	}
	alpha := 1.0
	if opacity != nil {
		alpha = *opacity
	}
	mat := o.Material
	if o.PerOutlineMaterial {
		mat = mat.Clone().(*scene.LineMaterial)
	}
	mat.Color = c
	mat.Opacity = alpha

	line := scene.NewLine(m.Name+"-outline", &scene.LineGeometry{Points: pts, Width: o.Width}, mat)
	line.Transform = m.World()
	line.Passes.Add(scene.PassBloom)
	return line
}
