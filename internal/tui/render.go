package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"geoscene/internal/mapbuild"
	"geoscene/internal/mathutil"
	"geoscene/internal/scene"
)

// viewBound widens the scene bound to the aspect of a w x h cell map so
// the map is not stretched. Braille micro pixels are roughly square.
func (m Model) viewBound(w, h int) (orb.Bound, bool) {
	b := m.bound
	dx, dy := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]
	if !(dx > 0 || dy > 0) || w <= 1 || h <= 1 {
		return b, false
	}
	aspect := float64(w*2) / float64(h*4)
	c := b.Center()
	if dx < dy*aspect {
		dx = dy * aspect
	} else {
		dy = dx / aspect
	}
	return orb.Bound{
		Min: orb.Point{c[0] - dx/2, c[1] - dy/2},
		Max: orb.Point{c[0] + dx/2, c[1] + dy/2},
	}, true
}

// cellToPlane converts a map cell coordinate back to the scene plane using bound, zoom, and pan.
func (m Model) cellToPlane(cx, cy, w, h int) (float64, float64, bool) {
	b, ok := m.viewBound(w, h)
	if !ok {
		return 0, 0, false
	}
	zx := float64(cx*2-m.offsetX*2) / float64(w*2-1)
	zy := 1.0 - float64(cy*4-m.offsetY*4)/float64(h*4-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	return b.Min[0] + nx*(b.Max[0]-b.Min[0]), b.Min[1] + ny*(b.Max[1]-b.Min[1]), true
}

// screenXYMicro maps a scene plane point into a 2x4 microgrid per cell for braille rendering.
func (m Model) screenXYMicro(x, y float64, w, h int) (int, int, bool) {
	b, ok := m.viewBound(w, h)
	if !ok {
		return 0, 0, false
	}
	nx := (x - b.Min[0]) / (b.Max[0] - b.Min[0])
	ny := (y - b.Min[1]) / (b.Max[1] - b.Min[1])
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}

// visible reports whether n is drawn in the current view mode.
func (m Model) visible(n *scene.Node) bool {
	return n.Visible && (!m.bloomOnly || n.Passes.Has(scene.PassBloom))
}

func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)
	if m.mi == nil {
		return strings.Join(br.toLines(), "\n")
	}

	// Region footprints, filled with the region color.
	if m.showRegions {
		for _, r := range m.mi.Regions {
			c := termColor(r.Color)
			if r == m.hoverRegion {
				c = hoverFg
			}
			for i, poly := range r.Footprint {
				if i < len(r.Meshes) && !m.visible(&r.Meshes[i].Node) {
					continue
				}
				br.fillRing(m.microRing(poly[0], w, h), c)
			}
		}
	}

	// Outline overlays, drawn through their own world transform.
	if m.showOutlines {
		for _, o := range m.mi.LineGroup.Children() {
			l, ok := o.(*scene.Line)
			if !ok || !m.visible(&l.Node) || l.Geometry == nil {
				continue
			}
			c := termColor(l.Material.Color)
			world := l.WorldMatrix()
			pts := l.Geometry.Points
			for i := 0; i+1 < len(pts); i += 2 {
				a := world.MulPoint(pts[i])
				b := world.MulPoint(pts[i+1])
				ax, ay, ok1 := m.screenXYMicro(a[0], a[1], w, h)
				bx, by, ok2 := m.screenXYMicro(b[0], b[1], w, h)
				if ok1 && ok2 {
					br.drawLineMicro(ax, ay, bx, by, c)
				}
			}
		}
	}

	// Route arcs and their travelling points.
	if m.showRoutes {
		for _, arc := range m.mi.Routes {
			if m.visible(&arc.Tube.Node) {
				c := termColor(arc.Tube.Materials[0].Props().Color)
				var prev *[2]int
				for _, p := range arc.Curve.Points(mapbuild.TubeSegments) {
					mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
					if !ok {
						continue
					}
					if prev != nil {
						br.drawLineMicro(prev[0], prev[1], mx, my, c)
					}
					prev = &[2]int{mx, my}
				}
			}
			if m.visible(&arc.Point.Node) {
				pos := arc.Point.Position
				if mx, my, ok := m.screenXYMicro(pos[0], pos[1], w, h); ok {
					br.putGlyph(mx, my, '●', termColor(arc.Point.Materials[0].Props().Color))
				}
			}
		}
	}

	// Cones with their labels one row above. The glyph follows the bob.
	if m.showMarkers {
		for _, mk := range m.mi.Cones.All() {
			m.drawMarker(br, mk, w, h)
		}
	}

	// Hover highlight: draw an orange circle at the hovered cell
	if m.hovering && m.hoverRegion == nil {
		br.putText(m.hoverCellX, m.hoverCellY, "◯", hoverFg)
	}
	return strings.Join(br.toLines(), "\n")
}

func (m Model) drawMarker(br *brailleBuf, mk *mapbuild.Marker, w, h int) {
	cone := mk.Object
	if m.visible(&cone.Node) {
		pos := cone.Position
		if mx, my, ok := m.screenXYMicro(pos[0], pos[1], w, h); ok {
			g := '△'
			if pos[2]-mk.Base >= mapbuild.BobAmplitude/2 {
				g = '▲'
			}
			br.putGlyph(mx, my, g, termColor(cone.Materials[0].Props().Color))
		}
	}
	l := mk.Label
	if l == nil || !m.visible(&l.Node) {
		return
	}
	at := l.WorldMatrix().MulPoint(mathutil.Vec3{})
	mx, my, ok := m.screenXYMicro(at[0], at[1], w, h)
	if !ok {
		return
	}
	el := l.Element
	cx := mx/2 - lipgloss.Width(el.Text)/2
	br.putText(cx, my/4-1, el.Text, termColor(el.Accent.Color))
}

// microRing projects a footprint ring to micro coordinates.
func (m Model) microRing(ring orb.Ring, w, h int) [][2]int {
	out := make([][2]int, 0, len(ring))
	for _, p := range ring {
		mx, my, ok := m.screenXYMicro(p[0], p[1], w, h)
		if !ok {
			continue
		}
		out = append(out, [2]int{mx, my})
	}
	return out
}

// inspectRegion returns the hovered region, or the one under the viewport
// center.
func (m Model) inspectRegion() *mapbuild.Region {
	if m.hoverRegion != nil {
		return m.hoverRegion
	}
	if m.mi == nil {
		return nil
	}
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	x, y, ok := m.cellToPlane(w/2, h/2, w, h)
	if !ok {
		return nil
	}
	return m.mi.RegionAt(orb.Point{x, y})
}
