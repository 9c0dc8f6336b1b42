package shape

import (
	"math"

	"geoscene/internal/mathutil"
)

// Tube builds an indexed tube of the given radius around curve, sampled
// at tubularSegments points evenly spaced by arc length.
func Tube(curve *QuadraticBezier3, tubularSegments int, radius float64, radialSegments int, closed bool) *Geometry {
	frames := curve.FrenetFrames(tubularSegments)
	g := &Geometry{}
	for i := 0; i <= tubularSegments; i++ {
		at := i
		if closed && i == tubularSegments {
			// last ring repeats the first
			at = 0
		}
		appendTubeRing(g, curve, frames, i, at, tubularSegments, radius, radialSegments)
	}
	for j := 1; j <= tubularSegments; j++ {
		for i := 1; i <= radialSegments; i++ {
			a := (radialSegments+1)*(j-1) + (i - 1)
			b := (radialSegments+1)*j + (i - 1)
			c := (radialSegments+1)*j + i
			d := (radialSegments+1)*(j-1) + i
			g.Indices = append(g.Indices, uint32(a), uint32(b), uint32(d), uint32(b), uint32(c), uint32(d))
		}
	}
	g.addGroup(0, len(g.Indices), 0)
	return g
}

func appendTubeRing(g *Geometry, curve *QuadraticBezier3, frames Frames, i, at, segments int, radius float64, radialSegments int) {
	p := curve.PointAt(float64(at) / float64(segments))
	n, b := frames.Normals[at], frames.Binormals[at]
	for j := 0; j <= radialSegments; j++ {
		v := float64(j) / float64(radialSegments) * math.Pi * 2
		sin, cos := math.Sin(v), -math.Cos(v)
		normal := n.Scale(cos).Add(b.Scale(sin)).Normalize()
		g.Normals = append(g.Normals, normal)
		g.Positions = append(g.Positions, p.Add(normal.Scale(radius)))
		g.UVs = append(g.UVs, mathutil.Vec2{float64(i) / float64(segments), float64(j) / float64(radialSegments)})
	}
}
