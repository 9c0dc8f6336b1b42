package raster

import (
	"image"
	"math"

	"geoscene/internal/mathutil"
	"geoscene/internal/scene"

	"github.com/lucasb-eyer/go-colorful"
)

// Options control Render.
type Options struct {
	Width      int
	Height     int
	Margin     int
	Background colorful.Color
	Light      LightConfig

	BloomStrength float64
	BloomRadius   int
	// BloomOnly draws just the objects tagged for the bloom pass.
	BloomOnly bool
	Labels    bool
}

// DefaultOptions returns a 960x720 render with bloom and labels.
func DefaultOptions() Options {
	return Options{
		Width:         960,
		Height:        720,
		Margin:        24,
		Background:    colorful.Color{R: 0.02, G: 0.05, B: 0.1},
		Light:         DefaultLightConfig(),
		BloomStrength: 1.5,
		BloomRadius:   8,
		Labels:        true,
	}
}

// view maps the scene plane onto pixels, looking down the -Z axis.
type view struct {
	cx, cy float64
	scale  float64
	w, h   float64
}

func fit(sc *scene.Scene, o Options) view {
	v := view{scale: 1, w: float64(o.Width), h: float64(o.Height)}
	lo, hi, ok := sc.Bound()
	if !ok {
		return v
	}
	v.cx, v.cy = (lo[0]+hi[0])/2, (lo[1]+hi[1])/2
	spanX := math.Max(hi[0]-lo[0], 1e-3)
	spanY := math.Max(hi[1]-lo[1], 1e-3)
	usableW := math.Max(float64(o.Width-2*o.Margin), 1)
	usableH := math.Max(float64(o.Height-2*o.Margin), 1)
	v.scale = math.Min(usableW/spanX, usableH/spanY)
	return v
}

func (v view) project(p mathutil.Vec3) mathutil.Vec3 {
	return mathutil.Vec3{
		(p[0]-v.cx)*v.scale + v.w/2,
		v.h/2 - (p[1]-v.cy)*v.scale,
		p[2],
	}
}

// face is one screen space triangle ready to fill.
type face struct {
	p           [3]mathutil.Vec3
	color       [3]float64
	alpha       float64
	transparent bool
	bloom       bool
}

// Render draws sc into a new image of o.Width x o.Height. The camera is
// orthographic, straight down, framed on the scene bounds.
func Render(sc *scene.Scene, o Options) *image.NRGBA {
	if o.Width <= 0 || o.Height <= 0 {
		d := DefaultOptions()
		o.Width, o.Height = d.Width, d.Height
	}
	if o.Light == (LightConfig{}) {
		o.Light = DefaultLightConfig()
	}
	v := fit(sc, o)

	var (
		faces   []face
		strokes []stroke
	)
	walk(sc.Children(), func(obj scene.Object) {
		n := obj.Base()
		world := n.WorldMatrix()
		switch obj := obj.(type) {
		case *scene.Mesh:
			faces = appendFaces(faces, obj, world, v, o.Light)
		case *scene.Line:
			if s, ok := lineStroke(obj, world, v, o.Width, o.Height); ok {
				strokes = append(strokes, s)
			}
		}
	})

	base := NewFrameBuffer(o.Width, o.Height, o.Background)
	glow := NewFrameBuffer(o.Width, o.Height, colorful.Color{})
	drawFaces(base, faces, false)
	drawFaces(glow, faces, true)
	for _, s := range strokes {
		base.Fill(s.mask, s.color, s.alpha)
		if s.bloom {
			glow.Fill(s.mask, s.color, s.alpha)
		}
	}

	target := base
	if o.BloomOnly {
		target = glow
	}
	if o.BloomStrength > 0 {
		AddScaled(target, Blur(glow.RGBA(), o.BloomRadius), o.BloomStrength)
	}

	rgba := target.RGBA()
	img := &image.NRGBA{Pix: rgba.Pix, Stride: rgba.Stride, Rect: rgba.Rect}
	if o.Labels && !o.BloomOnly {
		drawLabels(img, sc, v)
	}
	return img
}

// walk visits visible objects depth first. Hidden nodes hide their
// subtree.
func walk(objs []scene.Object, fn func(scene.Object)) {
	for _, o := range objs {
		n := o.Base()
		if !n.Visible {
			continue
		}
		fn(o)
		walk(n.Children(), fn)
	}
}

func appendFaces(faces []face, m *scene.Mesh, world mathutil.Mat4, v view, light LightConfig) []face {
	g := m.Geometry
	if g.Empty() {
		return faces
	}
	bloom := m.Passes.Has(scene.PassBloom)
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		if max(a, b, c) >= len(g.Positions) {
			continue
		}
		wa := world.MulPoint(g.Positions[a])
		wb := world.MulPoint(g.Positions[b])
		wc := world.MulPoint(g.Positions[c])
		mat := m.Material(g.MaterialAt(i))
		if mat == nil {
			continue
		}
		u := 0.5
		if max(a, b, c) < len(g.UVs) {
			u = (g.UVs[a][0] + g.UVs[b][0] + g.UVs[c][0]) / 3
		}
		n := wc.Sub(wb).Cross(wa.Sub(wb)).Normalize()
		col, alpha := surface(mat, u, n, light)
		if alpha <= 0 {
			continue
		}
		faces = append(faces, face{
			p:           [3]mathutil.Vec3{v.project(wa), v.project(wb), v.project(wc)},
			color:       col,
			alpha:       alpha,
			transparent: mat.Props().Transparent,
			bloom:       bloom,
		})
	}
	return faces
}

// surface returns the flat color and alpha of a face.
func surface(mat scene.Material, u float64, n mathutil.Vec3, light LightConfig) ([3]float64, float64) {
	p := mat.Props()
	alpha := 1.0
	if p.Transparent {
		alpha = p.Opacity
	}
	switch m := mat.(type) {
	case *scene.GradientMaterial:
		return rgb(m.Glow(), 1), m.Alpha(u) * p.Opacity
	case *scene.BasicMaterial, *scene.LineMaterial:
		return rgb(p.Color, 1), alpha
	}
	return rgb(p.Color, light.Shade(n)), alpha
}

func rgb(c colorful.Color, shade float64) [3]float64 {
	return [3]float64{
		math.Min(1, c.R*shade),
		math.Min(1, c.G*shade),
		math.Min(1, c.B*shade),
	}
}

// drawFaces fills opaque faces first, then translucent ones without
// writing depth. For the glow pass, untagged opaque faces are drawn black
// so they still hide glowing objects behind them.
func drawFaces(fb *FrameBuffer, faces []face, glowPass bool) {
	var black [3]float64
	for _, f := range faces {
		if f.transparent {
			continue
		}
		c := f.color
		if glowPass && !f.bloom {
			c = black
		}
		fb.FillTriangle(f.p[0], f.p[1], f.p[2], c, 1, true)
	}
	for _, f := range faces {
		if !f.transparent || (glowPass && !f.bloom) {
			continue
		}
		fb.FillTriangle(f.p[0], f.p[1], f.p[2], f.color, f.alpha, false)
	}
}
