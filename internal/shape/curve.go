package shape

import (
	"math"
	"sort"

	"geoscene/internal/mathutil"
)

// arcDivisions is the sampling resolution of the arc length table.
const arcDivisions = 200

// QuadraticBezier3 is a 3D quadratic Bezier curve. PointAt moves along it
// at constant speed using a cached arc length table.
type QuadraticBezier3 struct {
	V0, V1, V2 mathutil.Vec3

	lengths []float64
}

// NewQuadraticBezier3 returns the curve through v0 and v2 pulled toward v1.
func NewQuadraticBezier3(v0, v1, v2 mathutil.Vec3) *QuadraticBezier3 {
	return &QuadraticBezier3{V0: v0, V1: v1, V2: v2}
}

// Point evaluates the curve at parameter t in [0, 1].
func (c *QuadraticBezier3) Point(t float64) mathutil.Vec3 {
	k := 1 - t
	return c.V0.Scale(k * k).Add(c.V1.Scale(2 * k * t)).Add(c.V2.Scale(t * t))
}

// Tangent returns the unit derivative at parameter t.
func (c *QuadraticBezier3) Tangent(t float64) mathutil.Vec3 {
	d := c.V1.Sub(c.V0).Scale(2 * (1 - t)).Add(c.V2.Sub(c.V1).Scale(2 * t))
	if d.Len() < 1e-12 {
		return c.V2.Sub(c.V0).Normalize()
	}
	return d.Normalize()
}

// Lengths returns the cumulative arc length table.
func (c *QuadraticBezier3) Lengths() []float64 {
	if len(c.lengths) == arcDivisions+1 {
		return c.lengths
	}
	c.lengths = make([]float64, arcDivisions+1)
	last := c.Point(0)
	for p := 1; p <= arcDivisions; p++ {
		cur := c.Point(float64(p) / arcDivisions)
		c.lengths[p] = c.lengths[p-1] + cur.Distance(last)
		last = cur
	}
	return c.lengths
}

// Length returns the approximate arc length.
func (c *QuadraticBezier3) Length() float64 {
	l := c.Lengths()
	return l[len(l)-1]
}

// UToT maps a fraction u of the arc length to the curve parameter t.
func (c *QuadraticBezier3) UToT(u float64) float64 {
	l := c.Lengths()
	n := len(l)
	target := u * l[n-1]
	if target <= 0 {
		return 0
	}
	// last index whose length is below target
	i := sort.Search(n, func(k int) bool { return l[k] >= target }) - 1
	if i < 0 {
		i = 0
	}
	if i >= n-1 {
		return 1
	}
	if l[i] == target {
		return float64(i) / float64(n-1)
	}
	seg := l[i+1] - l[i]
	frac := 0.0
	if seg > 0 {
		frac = (target - l[i]) / seg
	}
	return (float64(i) + frac) / float64(n-1)
}

// PointAt evaluates the curve at a fraction u of its arc length.
func (c *QuadraticBezier3) PointAt(u float64) mathutil.Vec3 {
	return c.Point(c.UToT(u))
}

// TangentAt returns the unit tangent at a fraction u of the arc length.
func (c *QuadraticBezier3) TangentAt(u float64) mathutil.Vec3 {
	return c.Tangent(c.UToT(u))
}

// Points samples divisions+1 points evenly in t.
func (c *QuadraticBezier3) Points(divisions int) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, 0, divisions+1)
	for i := 0; i <= divisions; i++ {
		out = append(out, c.Point(float64(i)/float64(divisions)))
	}
	return out
}

// Frames holds Frenet frames sampled along a curve.
type Frames struct {
	Tangents, Normals, Binormals []mathutil.Vec3
}

// FrenetFrames computes segments+1 parallel-transported frames.
func (c *QuadraticBezier3) FrenetFrames(segments int) Frames {
	f := Frames{
		Tangents:  make([]mathutil.Vec3, segments+1),
		Normals:   make([]mathutil.Vec3, segments+1),
		Binormals: make([]mathutil.Vec3, segments+1),
	}
	for i := 0; i <= segments; i++ {
		f.Tangents[i] = c.TangentAt(float64(i) / float64(segments))
	}

	// initial normal along the smallest tangent component
	t0 := f.Tangents[0]
	least := math.MaxFloat64
	var n mathutil.Vec3
	if a := math.Abs(t0[0]); a <= least {
		least, n = a, mathutil.Vec3{1, 0, 0}
	}
	if a := math.Abs(t0[1]); a <= least {
		least, n = a, mathutil.Vec3{0, 1, 0}
	}
	if a := math.Abs(t0[2]); a <= least {
		n = mathutil.Vec3{0, 0, 1}
	}
	v := t0.Cross(n).Normalize()
	f.Normals[0] = t0.Cross(v)
	f.Binormals[0] = t0.Cross(f.Normals[0])

	for i := 1; i <= segments; i++ {
		f.Normals[i] = f.Normals[i-1]
		axis := f.Tangents[i-1].Cross(f.Tangents[i])
		if axis.Len() > 1e-9 {
			axis = axis.Normalize()
			theta := math.Acos(math.Max(-1, math.Min(1, f.Tangents[i-1].Dot(f.Tangents[i]))))
			f.Normals[i] = mathutil.QuatFromAxisAngle(axis, theta).Rotate(f.Normals[i])
		}
		f.Binormals[i] = f.Tangents[i].Cross(f.Normals[i])
	}
	return f
}
