package shape

import (
	"fmt"
	"math"

	"geoscene/internal/mathutil"
)

// Shape is a closed 2D contour built with MoveTo and LineTo.
type Shape struct {
	Points []mathutil.Vec2
}

// MoveTo starts the contour at x, y, discarding earlier points.
func (s *Shape) MoveTo(x, y float64) *Shape {
	s.Points = append(s.Points[:0], mathutil.Vec2{x, y})
	return s
}

// LineTo extends the contour.
func (s *Shape) LineTo(x, y float64) *Shape {
	s.Points = append(s.Points, mathutil.Vec2{x, y})
	return s
}

// contour returns the points without the closing duplicate and without
// consecutive repeats.
func (s *Shape) contour() []mathutil.Vec2 {
	out := make([]mathutil.Vec2, 0, len(s.Points))
	for _, p := range s.Points {
		if n := len(out); n > 0 && samePoint(out[n-1], p) {
			continue
		}
		out = append(out, p)
	}
	if n := len(out); n > 1 && samePoint(out[0], out[n-1]) {
		out = out[:n-1]
	}
	return out
}

func samePoint(a, b mathutil.Vec2) bool {
	return math.Abs(a[0]-b[0]) <= 1e-10 && math.Abs(a[1]-b[1]) <= 1e-10
}

// Area returns the signed area of the contour, positive when counter
// clockwise.
func Area(pts []mathutil.Vec2) float64 {
	var a float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		a += p.Cross(q)
	}
	return a / 2
}

// IsClockwise reports whether pts wind clockwise.
func IsClockwise(pts []mathutil.Vec2) bool { return Area(pts) < 0 }

// Triangulate ear-clips a polygon and returns counter clockwise triangles
// as indices into pts. A ring that touches itself is split at every
// repeated vertex into simple loops; loops wound against the ring and
// loops of fewer than 3 points are dropped. A loop with no ear left after
// its flat corners are removed is not simple and fails with ErrDegenerate.
func Triangulate(pts []mathutil.Vec2) ([][3]int, error) {
	n := len(pts)
	if n < 3 {
		return nil, fmt.Errorf("%w: %d points", ErrDegenerate, n)
	}
	area := Area(pts)
	if math.Abs(area) < 1e-12 {
		return nil, fmt.Errorf("%w: zero area", ErrDegenerate)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	tris := make([][3]int, 0, n-2)
	for _, loop := range splitLoops(pts, idx) {
		la := loopArea(pts, loop)
		if math.Abs(la) < 1e-12 || (la > 0) != (area > 0) {
			continue
		}
		if la < 0 {
			for i, j := 0, len(loop)-1; i < j; i, j = i+1, j-1 {
				loop[i], loop[j] = loop[j], loop[i]
			}
		}
		t, err := clipEars(pts, loop)
		if err != nil {
			return nil, err
		}
		tris = append(tris, t...)
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("%w: no fillable loop", ErrDegenerate)
	}
	return tris, nil
}

// splitLoops cuts loop at the first repeated vertex and recurses on both
// halves until every loop is free of repeats.
func splitLoops(pts []mathutil.Vec2, loop []int) [][]int {
	seen := make(map[mathutil.Vec2]int, len(loop))
	for j, k := range loop {
		i, ok := seen[pts[k]]
		if !ok {
			seen[pts[k]] = j
			continue
		}
		inner := append([]int(nil), loop[i:j]...)
		outer := append(append([]int(nil), loop[:i]...), loop[j:]...)
		return append(splitLoops(pts, inner), splitLoops(pts, outer)...)
	}
	if len(loop) < 3 {
		return nil
	}
	return [][]int{loop}
}

func loopArea(pts []mathutil.Vec2, loop []int) float64 {
	var a float64
	for i, k := range loop {
		a += pts[k].Cross(pts[loop[(i+1)%len(loop)]])
	}
	return a / 2
}

// clipEars triangulates a simple counter clockwise loop.
func clipEars(pts []mathutil.Vec2, idx []int) ([][3]int, error) {
	tris := make([][3]int, 0, len(idx)-2)
	for i, stall := 0, 0; len(idx) > 3; {
		m := len(idx)
		if stall >= m {
			k := flatCorner(pts, idx)
			if k < 0 {
				return nil, fmt.Errorf("%w: ring is not simple", ErrDegenerate)
			}
			idx = append(idx[:k], idx[k+1:]...)
			i, stall = 0, 0
			continue
		}
		k := i % m
		prev, cur, next := idx[(k+m-1)%m], idx[k], idx[(k+1)%m]
		if isEar(pts, idx, prev, cur, next) {
			tris = append(tris, [3]int{prev, cur, next})
			idx = append(idx[:k], idx[k+1:]...)
			i, stall = max(k-1, 0), 0
			continue
		}
		i = (k + 1) % m
		stall++
	}
	a, b, c := pts[idx[0]], pts[idx[1]], pts[idx[2]]
	if b.Sub(a).Cross(c.Sub(b)) > 0 {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris, nil
}

// flatCorner returns the position in idx of a vertex whose corner has no
// area (collinear run or spike), or -1.
func flatCorner(pts []mathutil.Vec2, idx []int) int {
	m := len(idx)
	for k := range idx {
		a, b, c := pts[idx[(k+m-1)%m]], pts[idx[k]], pts[idx[(k+1)%m]]
		if math.Abs(b.Sub(a).Cross(c.Sub(b))) < 1e-12 {
			return k
		}
	}
	return -1
}

func isEar(pts []mathutil.Vec2, idx []int, prev, cur, next int) bool {
	a, b, c := pts[prev], pts[cur], pts[next]
	if b.Sub(a).Cross(c.Sub(b)) <= 0 {
		return false
	}
	for _, k := range idx {
		if k == prev || k == cur || k == next {
			continue
		}
		if inTriangle(pts[k], a, b, c) {
			return false
		}
	}
	return true
}

func inTriangle(p, a, b, c mathutil.Vec2) bool {
	d1 := b.Sub(a).Cross(p.Sub(a))
	d2 := c.Sub(b).Cross(p.Sub(b))
	d3 := a.Sub(c).Cross(p.Sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}
