// Package shape generates triangle meshes: extruded 2D shapes, edge
// overlays, tubes along curves and a few primitives.
package shape

import (
	"errors"
	"math"

	"geoscene/internal/mathutil"
)

// ErrDegenerate is returned when an input cannot produce any triangle.
var ErrDegenerate = errors.New("shape: degenerate input")

// Group is a range of the draw order rendered with one material.
// Start and Count are in index entries for indexed geometry and in
// vertices otherwise.
type Group struct {
	Start         int
	Count         int
	MaterialIndex int
}

// Geometry is a triangle mesh. When Indices is nil every three
// consecutive positions form a triangle.
type Geometry struct {
	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3
	UVs       []mathutil.Vec2
	Indices   []uint32
	Groups    []Group
}

// Empty reports whether g has no triangle.
func (g *Geometry) Empty() bool { return g == nil || g.TriangleCount() == 0 }

func (g *Geometry) drawCount() int {
	if g.Indices != nil {
		return len(g.Indices)
	}
	return len(g.Positions)
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int { return g.drawCount() / 3 }

// Triangle returns the vertex indices of triangle i.
func (g *Geometry) Triangle(i int) (a, b, c int) {
	if g.Indices != nil {
		return int(g.Indices[3*i]), int(g.Indices[3*i+1]), int(g.Indices[3*i+2])
	}
	return 3 * i, 3*i + 1, 3*i + 2
}

// MaterialAt returns the material index used by triangle i; 0 when the
// geometry has no groups.
func (g *Geometry) MaterialAt(i int) int {
	at := 3 * i
	for _, gr := range g.Groups {
		if at >= gr.Start && at < gr.Start+gr.Count {
			return gr.MaterialIndex
		}
	}
	return 0
}

// Bound returns the axis aligned bounds of all positions.
func (g *Geometry) Bound() (min, max mathutil.Vec3, ok bool) {
	if g == nil || len(g.Positions) == 0 {
		return min, max, false
	}
	min = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range g.Positions {
		for k := 0; k < 3; k++ {
			min[k] = math.Min(min[k], p[k])
			max[k] = math.Max(max[k], p[k])
		}
	}
	return min, max, true
}

func (g *Geometry) addGroup(start, count, mat int) {
	g.Groups = append(g.Groups, Group{Start: start, Count: count, MaterialIndex: mat})
}

// faceNormal is the unit normal of the counter clockwise triangle a, b, c.
func faceNormal(a, b, c mathutil.Vec3) mathutil.Vec3 {
	return c.Sub(b).Cross(a.Sub(b)).Normalize()
}

// computeFlatNormals gives every vertex of a non-indexed geometry the
// normal of its face.
func (g *Geometry) computeFlatNormals() {
	g.Normals = make([]mathutil.Vec3, len(g.Positions))
	for i := 0; i+2 < len(g.Positions); i += 3 {
		n := faceNormal(g.Positions[i], g.Positions[i+1], g.Positions[i+2])
		g.Normals[i], g.Normals[i+1], g.Normals[i+2] = n, n, n
	}
}
