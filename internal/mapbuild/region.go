package mapbuild

import (
	"context"
	"fmt"

	"geoscene/internal/geom"
	"geoscene/internal/logging"
	"geoscene/internal/projection"
	"geoscene/internal/scene"
	"geoscene/internal/shape"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Region is the solid of one feature: a group holding one extruded mesh
// per accepted ring.
type Region struct {
	*scene.Group
	Name       string
	Center     orb.Point
	Index      int
	Color      colorful.Color
	Properties geojson.Properties

	Meshes   []*scene.Mesh
	Outlines []*scene.Line

	// Footprint holds the projected rings, in scene plane coordinates.
	Footprint orb.MultiPolygon
}

// Highlight shows the region with its original opaque materials, or puts
// the translucent override back.
func (r *Region) Highlight(on bool) {
	for _, m := range r.Meshes {
		if on {
			m.RestoreMaterials()
		} else {
			applyTranslucency(m)
		}
	}
}

// Builder turns feature rings into extruded solids.
type Builder struct {
	Proj      projection.Adapter
	Palette   []colorful.Color
	Extrude   shape.ExtrudeOptions
	Simplify  float64
	Threshold float64
	Outliner  *Outliner

	// Lines receives the outline of every built mesh. Nil skips outlines.
	Lines *scene.Group
	Log   logging.Logger
}

// NewBuilder returns a Builder with the default palette, extrusion and
// outline settings.
func NewBuilder(p projection.Projector, lines *scene.Group) *Builder {
	return &Builder{
		Proj:      projection.NewAdapter(p),
		Palette:   DefaultPalette,
		Extrude:   shape.DefaultExtrudeOptions(),
		Threshold: OutlineAngle,
		Outliner:  NewOutliner(DefaultOutlineColor),
		Lines:     lines,
		Log:       logging.Noop(),
	}
}

// ColorAt returns the palette color for a region index.
func (b *Builder) ColorAt(index int) colorful.Color {
	p := b.Palette
	if len(p) == 0 {
		p = DefaultPalette
	}
	if index < 0 {
		index = -index
	}
	return p[index%len(p)]
}

// BuildRing projects and extrudes one ring. Rings with a non-finite
// projection or fewer than three distinct points fail with
// geom.ErrMalformedRing.
func (b *Builder) BuildRing(ring orb.Ring, color colorful.Color, index int) (*scene.Mesh, error) {
	m, _, err := b.buildRing(ring, color, index)
	return m, err
}

func (b *Builder) buildRing(ring orb.Ring, color colorful.Color, index int) (*scene.Mesh, orb.Ring, error) {
	if len(ring) == 0 {
		return nil, nil, fmt.Errorf("%w: empty ring", geom.ErrMalformedRing)
	}
	s := &shape.Shape{}
	plane := make(orb.Ring, 0, len(ring))
	for i, p := range ring {
		x, y, err := b.Proj.ToPlane(p)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: vertex %d: %w", geom.ErrMalformedRing, i, err)
		}
		if i == 0 {
			s.MoveTo(x, y)
		} else {
			s.LineTo(x, y)
		}
		plane = append(plane, orb.Point{x, y})
	}
	g, err := shape.Extrude(s, b.Extrude)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", geom.ErrMalformedRing, err)
	}

	m := scene.NewMesh(fmt.Sprintf("region-%d", index), g,
		scene.NewPhong(color),
		scene.NewStandard(color, 1, 1),
	)
	if index%2 == 0 {
		m.Scale[2] = EvenScaleZ
	}
	// back to region space
	m.ResetTransform()
	m.CastShadow = true
	m.ReceiveShadow = true
	m.Passes.Add(scene.PassBloom)
	return m, plane, nil
}

// BuildRegion builds every ring of f. A failing ring is logged and
// skipped; its siblings are still built. Holes are extruded as solids of
// their own.
func (b *Builder) BuildRegion(ctx context.Context, f geom.Feature, index int) (*Region, []error) {
	log := b.Log
	if log == nil {
		log = logging.Noop()
	}
	color := b.ColorAt(index)
	r := &Region{
		Group:      scene.NewGroup(f.Name),
		Name:       f.Name,
		Center:     f.Center,
		Index:      index,
		Color:      color,
		Properties: f.Properties,
	}
	var errs []error
	geom.WalkRings(f.Geometry, func(path geom.RingPath, ring orb.Ring) {
		ring = geom.Simplify(ring, b.Simplify)
		m, plane, err := b.buildRing(ring, color, index)
		if err != nil {
			err = fmt.Errorf("region %q %s: %w", f.Name, path, err)
			log.Warn(ctx, "ring skipped", logging.String("region", f.Name),
				logging.String("ring", path.String()), logging.Err(err))
			errs = append(errs, err)
			return
		}
		r.Add(m)
		r.Meshes = append(r.Meshes, m)
		r.Footprint = append(r.Footprint, orb.Polygon{plane})

		if b.Lines != nil && b.Outliner != nil {
			if line := b.Outliner.Extract(m, b.Threshold, nil, nil); line != nil {
				b.Lines.Add(line)
				r.Outlines = append(r.Outlines, line)
			}
		}
		m.SnapshotMaterials()
		applyTranslucency(m)
	})
	return r, errs
}

// applyTranslucency makes the lit surface materials of m see-through.
func applyTranslucency(m *scene.Mesh) {
	for _, mat := range m.Materials {
		switch mat := mat.(type) {
		case *scene.PhongMaterial:
			mat.Transparent = true
			mat.Opacity = RegionOpacity
		case *scene.StandardMaterial:
			mat.Transparent = true
			mat.Opacity = RegionOpacity
		}
	}
}
