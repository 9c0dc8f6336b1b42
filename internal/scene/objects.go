package scene

import (
	"geoscene/internal/mathutil"
	"geoscene/internal/shape"
)

// Group only holds children.
type Group struct {
	Node
}

func NewGroup(name string) *Group {
	return &Group{Node: newNode(name)}
}

// Mesh is triangle geometry drawn with one material per geometry group.
// Original, when set, is the snapshot of Materials taken before any
// override so the surface can be restored.
type Mesh struct {
	Node
	Geometry  *shape.Geometry
	Materials []Material
	Original  []Material
}

func NewMesh(name string, g *shape.Geometry, materials ...Material) *Mesh {
	return &Mesh{Node: newNode(name), Geometry: g, Materials: materials}
}

// Material returns the material used by geometry group index i, falling
// back to the first material.
func (m *Mesh) Material(i int) Material {
	if i >= 0 && i < len(m.Materials) {
		return m.Materials[i]
	}
	if len(m.Materials) > 0 {
		return m.Materials[0]
	}
	return nil
}

// SnapshotMaterials stores copies of the current materials in Original.
// Later calls keep the first snapshot.
func (m *Mesh) SnapshotMaterials() {
	if m.Original != nil {
		return
	}
	m.Original = CloneAll(m.Materials)
}

// RestoreMaterials puts the snapshot back.
func (m *Mesh) RestoreMaterials() {
	if m.Original == nil {
		return
	}
	m.Materials = CloneAll(m.Original)
}

// LineGeometry is a list of segments: points 2i and 2i+1 form segment i.
type LineGeometry struct {
	Points []mathutil.Vec3
	Width  float64
}

// Segments returns the number of segments.
func (g *LineGeometry) Segments() int { return len(g.Points) / 2 }

// Line strokes a LineGeometry.
type Line struct {
	Node
	Geometry *LineGeometry
	Material *LineMaterial
}

func NewLine(name string, g *LineGeometry, m *LineMaterial) *Line {
	return &Line{Node: newNode(name), Geometry: g, Material: m}
}

// LabelElement is the text box a label layer renders.
type LabelElement struct {
	Class      string
	Text       string
	Accent     CSSColor
	Background CSSColor
}

// Label anchors a LabelElement in the scene. Labels face the viewer.
type Label struct {
	Node
	Element LabelElement
}

func NewLabel(name string, el LabelElement) *Label {
	return &Label{Node: newNode(name), Element: el}
}

// Scene is the root of the graph.
type Scene struct {
	Node
}

func New() *Scene {
	return &Scene{Node: newNode("scene")}
}

// Meshes returns every mesh in the scene, depth first.
func (s *Scene) Meshes() []*Mesh {
	var out []*Mesh
	s.Traverse(func(o Object) {
		if m, ok := o.(*Mesh); ok {
			out = append(out, m)
		}
	})
	return out
}

// Lines returns every line in the scene, depth first.
func (s *Scene) Lines() []*Line {
	var out []*Line
	s.Traverse(func(o Object) {
		if l, ok := o.(*Line); ok {
			out = append(out, l)
		}
	})
	return out
}

// Labels returns every label in the scene, depth first.
func (s *Scene) Labels() []*Label {
	var out []*Label
	s.Traverse(func(o Object) {
		if l, ok := o.(*Label); ok {
			out = append(out, l)
		}
	})
	return out
}

// Bound returns the world space bounds of every visible mesh and line.
func (s *Scene) Bound() (min, max mathutil.Vec3, ok bool) {
	grow := func(p mathutil.Vec3) {
		if !ok {
			min, max, ok = p, p, true
			return
		}
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	s.Traverse(func(o Object) {
		n := o.Base()
		if !n.Visible {
			return
		}
		switch o := o.(type) {
		case *Mesh:
			if o.Geometry == nil {
				return
			}
			w := n.WorldMatrix()
			for _, p := range o.Geometry.Positions {
				grow(w.MulPoint(p))
			}
		case *Line:
			w := n.WorldMatrix()
			for _, p := range o.Geometry.Points {
				grow(w.MulPoint(p))
			}
		}
	})
	return min, max, ok
}
