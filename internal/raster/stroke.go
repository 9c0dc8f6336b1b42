package raster

import (
	"image"
	"math"

	"geoscene/internal/mathutil"
	"geoscene/internal/scene"

	"golang.org/x/image/vector"
)

// stroke is a line object rasterized to a coverage mask.
type stroke struct {
	mask  *image.Alpha
	color [3]float64
	alpha float64
	bloom bool
}

func lineStroke(l *scene.Line, world mathutil.Mat4, v view, w, h int) (stroke, bool) {
	if l.Geometry == nil || l.Geometry.Segments() == 0 || l.Material == nil {
		return stroke{}, false
	}
	width := l.Geometry.Width
	if width <= 0 {
		width = l.Material.LineWidth
	}
	half := math.Max(0.5, width*v.scale/2)

	r := vector.NewRasterizer(w, h)
	pts := l.Geometry.Points
	drawn := false
	for i := 0; i+1 < len(pts); i += 2 {
		a := v.project(world.MulPoint(pts[i]))
		b := v.project(world.MulPoint(pts[i+1]))
		dx, dy := b[0]-a[0], b[1]-a[1]
		length := math.Hypot(dx, dy)
		if length < 1e-9 {
			continue
		}
		nx, ny := -dy/length*half, dx/length*half
		r.MoveTo(float32(a[0]+nx), float32(a[1]+ny))
		r.LineTo(float32(b[0]+nx), float32(b[1]+ny))
		r.LineTo(float32(b[0]-nx), float32(b[1]-ny))
		r.LineTo(float32(a[0]-nx), float32(a[1]-ny))
		r.ClosePath()
		drawn = true
	}
	if !drawn {
		return stroke{}, false
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	p := l.Material.Props()
	alpha := 1.0
	if p.Transparent {
		alpha = p.Opacity
	}
	return stroke{
		mask:  mask,
		color: rgb(p.Color, 1),
		alpha: alpha,
		bloom: l.Passes.Has(scene.PassBloom),
	}, true
}
