package geom

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// ErrMalformedRing marks a ring that cannot be turned into a solid: too
// few usable points, non-numeric coordinates or a non-finite projection.
var ErrMalformedRing = errors.New("geom: malformed ring")

// RingPath locates a ring inside a geometry. Ring 0 is the outer ring of
// its polygon; higher indices are holes.
type RingPath struct {
	Polygon int
	Ring    int
}

func (p RingPath) String() string { return fmt.Sprintf("polygon %d ring %d", p.Polygon, p.Ring) }

// WalkRings visits every ring of g depth-first in input order, exactly
// once. Holes are visited like any other ring; callers decide what to do
// with them.
func WalkRings(g orb.Geometry, fn func(RingPath, orb.Ring)) {
	poly := 0
	var walk func(g orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Ring:
			fn(RingPath{Polygon: poly}, g)
			poly++
		case orb.Polygon:
			for i, r := range g {
				fn(RingPath{Polygon: poly, Ring: i}, r)
			}
			poly++
		case orb.MultiPolygon:
			for _, p := range g {
				walk(p)
			}
		case orb.Collection:
			for _, c := range g {
				walk(c)
			}
		}
	}
	walk(g)
}

// Rings flattens g into its rings.
func Rings(g orb.Geometry) []orb.Ring {
	var out []orb.Ring
	WalkRings(g, func(_ RingPath, r orb.Ring) { out = append(out, r) })
	return out
}

// Simplify reduces a ring with Douglas-Peucker. A tolerance <= 0 returns
// the ring unchanged.
func Simplify(r orb.Ring, tolerance float64) orb.Ring {
	if tolerance <= 0 || len(r) <= 4 {
		return r
	}
	if s, ok := simplify.DouglasPeucker(tolerance).Simplify(r.Clone()).(orb.Ring); ok {
		return s
	}
	return r
}

// DecodeCoordinates turns a raw JSON coordinate payload of unknown depth
// into a MultiPolygon. Every array is classified by its own depth, taken
// from the first child whose depth is known, so an empty or broken first
// ring does not hide its siblings. Rings that fail to decode are reported
// and skipped, siblings survive.
func DecodeCoordinates(raw any) (orb.MultiPolygon, []error) {
	var (
		mp   orb.MultiPolygon
		errs []error
	)
	ring := func(v any, poly *orb.Polygon) {
		arr, ok := v.([]any)
		if !ok || len(arr) == 0 {
			errs = append(errs, fmt.Errorf("%w: empty or non-array ring", ErrMalformedRing))
			return
		}
		r, err := decodeRing(arr)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*poly = append(*poly, r)
	}
	var visit func(v any)
	visit = func(v any) {
		arr, ok := v.([]any)
		if !ok || len(arr) == 0 {
			errs = append(errs, fmt.Errorf("%w: empty or non-array payload", ErrMalformedRing))
			return
		}
		switch d := depth(v); {
		case d >= depthMultiPolygon:
			for _, c := range arr {
				visit(c)
			}
		case d == depthPolygon:
			var p orb.Polygon
			for _, c := range arr {
				ring(c, &p)
			}
			if len(p) > 0 {
				mp = append(mp, p)
			}
		default:
			var p orb.Polygon
			ring(v, &p)
			if len(p) > 0 {
				mp = append(mp, p)
			}
		}
	}
	visit(raw)
	return mp, errs
}

const (
	depthPosition = 1 + iota
	depthRing
	depthPolygon
	depthMultiPolygon
)

// depth returns 0 for a scalar, 1 for a position, 2 for a ring and so on.
// Arrays with no child of known depth return -1.
func depth(v any) int {
	arr, ok := v.([]any)
	if !ok {
		return 0
	}
	for _, c := range arr {
		if d := depth(c); d >= 0 {
			return d + 1
		}
	}
	return -1
}

func decodeRing(arr []any) (orb.Ring, error) {
	r := make(orb.Ring, 0, len(arr))
	for i, v := range arr {
		pos, ok := v.([]any)
		if !ok || len(pos) < 2 {
			return nil, fmt.Errorf("%w: position %d is not a pair", ErrMalformedRing, i)
		}
		lon, lok := pos[0].(float64)
		lat, aok := pos[1].(float64)
		if !lok || !aok {
			return nil, fmt.Errorf("%w: position %d is not numeric", ErrMalformedRing, i)
		}
		r = append(r, orb.Point{lon, lat})
	}
	if len(r) < 3 {
		return nil, fmt.Errorf("%w: %d points", ErrMalformedRing, len(r))
	}
	return r, nil
}
