package shape

import (
	"fmt"
	"math"

	"geoscene/internal/mathutil"
)

const edgePrecision = 1e4

type edgeData struct {
	i0, i1 int
	normal mathutil.Vec3
	open   bool
}

// Edges returns line segments (pairs of points) for the feature edges of
// g: edges shared by two faces whose normals differ by more than
// thresholdDeg, plus every boundary edge. Vertices are matched by
// position rounded to 1e-4; degenerate triangles are skipped. An empty
// result means g has no edge worth drawing.
func Edges(g *Geometry, thresholdDeg float64) []mathutil.Vec3 {
	if g.Empty() {
		return nil
	}
	thresholdDot := math.Cos(mathutil.Deg2Rad(thresholdDeg))

	edges := make(map[string]*edgeData)
	var order []string
	var out []mathutil.Vec3
	for t := 0; t < g.TriangleCount(); t++ {
		a, b, c := g.Triangle(t)
		ids := [3]int{a, b, c}
		pts := [3]mathutil.Vec3{g.Positions[a], g.Positions[b], g.Positions[c]}
		normal := faceNormal(pts[0], pts[1], pts[2])
		var hashes [3]string
		for j, p := range pts {
			hashes[j] = vertexHash(p)
		}
		if hashes[0] == hashes[1] || hashes[1] == hashes[2] || hashes[2] == hashes[0] {
			continue
		}
		for j := 0; j < 3; j++ {
			jn := (j + 1) % 3
			hash := hashes[j] + "_" + hashes[jn]
			reverse := hashes[jn] + "_" + hashes[j]
			if e, ok := edges[reverse]; ok && e.open {
				if normal.Dot(e.normal) <= thresholdDot {
					out = append(out, pts[j], pts[jn])
				}
				e.open = false
				continue
			}
			if _, ok := edges[hash]; !ok {
				edges[hash] = &edgeData{i0: ids[j], i1: ids[jn], normal: normal, open: true}
				order = append(order, hash)
			}
		}
	}
	for _, k := range order {
		if e := edges[k]; e.open {
			out = append(out, g.Positions[e.i0], g.Positions[e.i1])
		}
	}
	return out
}

func vertexHash(p mathutil.Vec3) string {
	return fmt.Sprintf("%d,%d,%d",
		int64(math.Round(p[0]*edgePrecision)),
		int64(math.Round(p[1]*edgePrecision)),
		int64(math.Round(p[2]*edgePrecision)))
}
