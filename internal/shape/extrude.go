package shape

import (
	"fmt"
	"math"

	"geoscene/internal/mathutil"
)

// ExtrudeOptions control Extrude.
type ExtrudeOptions struct {
	Depth          float64
	Steps          int
	BevelEnabled   bool
	BevelThickness float64
	BevelSize      float64
	BevelOffset    float64
	BevelSegments  int
}

// DefaultExtrudeOptions are the settings used for region solids.
func DefaultExtrudeOptions() ExtrudeOptions {
	return ExtrudeOptions{
		Depth:          4,
		Steps:          1,
		BevelEnabled:   true,
		BevelThickness: 0.2,
		BevelSize:      0.1,
		BevelSegments:  1,
	}
}

// Material groups of an extruded solid.
const (
	GroupCaps  = 0
	GroupSides = 1
)

// Extrude sweeps s along +Z. The contour is forced clockwise, the bevel
// grows it outward by BevelSize and adds BevelThickness below z=0 and
// above Depth. Caps use material group 0 and side walls group 1. The
// result is non-indexed with flat normals.
func Extrude(s *Shape, o ExtrudeOptions) (*Geometry, error) {
	contour := s.contour()
	if len(contour) < 3 {
		return nil, fmt.Errorf("%w: %d distinct points", ErrDegenerate, len(contour))
	}
	if !IsClockwise(contour) {
		for i, j := 0, len(contour)-1; i < j; i, j = i+1, j-1 {
			contour[i], contour[j] = contour[j], contour[i]
		}
	}
	faces, err := Triangulate(contour)
	if err != nil {
		return nil, err
	}
	if o.Steps < 1 {
		o.Steps = 1
	}
	if !o.BevelEnabled {
		o.BevelSegments, o.BevelThickness, o.BevelSize, o.BevelOffset = 0, 0, 0, 0
	}

	moves := make([]mathutil.Vec2, len(contour))
	for i := range contour {
		prev := contour[(i+len(contour)-1)%len(contour)]
		next := contour[(i+1)%len(contour)]
		moves[i] = bevelVec(contour[i], prev, next)
	}

	vlen := len(contour)
	var layers []mathutil.Vec3
	layer := func(bs, z float64) {
		for i, p := range contour {
			v := p.Add(moves[i].Scale(bs))
			layers = append(layers, mathutil.Vec3{v[0], v[1], z})
		}
	}
	for b := 0; b < o.BevelSegments; b++ {
		t := float64(b) / float64(o.BevelSegments)
		z := o.BevelThickness * math.Cos(t*math.Pi/2)
		bs := o.BevelSize*math.Sin(t*math.Pi/2) + o.BevelOffset
		layer(bs, -z)
	}
	bs := o.BevelSize + o.BevelOffset
	layer(bs, 0)
	for st := 1; st <= o.Steps; st++ {
		layer(bs, o.Depth/float64(o.Steps)*float64(st))
	}
	for b := o.BevelSegments - 1; b >= 0; b-- {
		t := float64(b) / float64(o.BevelSegments)
		z := o.BevelThickness * math.Cos(t*math.Pi/2)
		bs := o.BevelSize*math.Sin(t*math.Pi/2) + o.BevelOffset
		layer(bs, o.Depth+z)
	}

	g := &Geometry{}
	tri := func(a, b, c int) {
		g.Positions = append(g.Positions, layers[a], layers[b], layers[c])
	}

	// caps
	start := len(g.Positions)
	top := vlen * (o.Steps + o.BevelSegments*2)
	for _, f := range faces {
		tri(f[2], f[1], f[0])
	}
	for _, f := range faces {
		tri(f[0]+top, f[1]+top, f[2]+top)
	}
	g.addGroup(start, len(g.Positions)-start, GroupCaps)

	// side walls
	start = len(g.Positions)
	sl := o.Steps + o.BevelSegments*2
	for i := 0; i < vlen; i++ {
		j, k := i, i-1
		if k < 0 {
			k = vlen - 1
		}
		for st := 0; st < sl; st++ {
			s1, s2 := vlen*st, vlen*(st+1)
			a, b, c, d := j+s1, k+s1, k+s2, j+s2
			tri(a, b, d)
			tri(b, c, d)
		}
	}
	g.addGroup(start, len(g.Positions)-start, GroupSides)

	g.computeFlatNormals()
	g.UVs = make([]mathutil.Vec2, len(g.Positions))
	for i, p := range g.Positions {
		g.UVs[i] = mathutil.Vec2{p[0], p[1]}
	}
	for i := start; i+2 < len(g.Positions); i += 3 {
		a, b := g.Positions[i], g.Positions[i+1]
		useX := math.Abs(a[1]-b[1]) < math.Abs(a[0]-b[0])
		for k := i; k < i+3; k++ {
			p := g.Positions[k]
			if useX {
				g.UVs[k] = mathutil.Vec2{p[0], 1 - p[2]}
			} else {
				g.UVs[k] = mathutil.Vec2{p[1], 1 - p[2]}
			}
		}
	}
	return g, nil
}

// bevelVec returns the offset direction of pt so that both adjacent edges
// of a clockwise contour move outward by one unit.
func bevelVec(pt, prev, next mathutil.Vec2) mathutil.Vec2 {
	in := pt.Sub(prev)
	out := next.Sub(pt)
	if in.Len() < 1e-12 || out.Len() < 1e-12 {
		return mathutil.Vec2{}
	}
	// left normals point outward on a clockwise contour
	n1 := mathutil.Vec2{-in[1], in[0]}.Normalize()
	n2 := mathutil.Vec2{-out[1], out[0]}.Normalize()
	d := 1 + n1.Dot(n2)
	if d < 1e-3 {
		// edge folds back on itself
		return n1
	}
	v := n1.Add(n2).Scale(1 / d)
	if l := v.Len(); l > 2 {
		// clamp spikes at very sharp corners
		v = v.Scale(2 / l)
	}
	return v
}
