package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"
)

type indexItem struct {
	ID   int
	Geom orb.Geometry
}

// Index answers "which region is under this point" queries. Geometries are
// stored in whatever plane the caller inserts them in.
type Index struct {
	tree *rtree.RTreeG[indexItem]
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{tree: &rtree.RTreeG[indexItem]{}}
}

// Insert adds g under id, keyed by its bound.
func (ix *Index) Insert(id int, g orb.Geometry) {
	if g == nil {
		return
	}
	b := g.Bound()
	ix.tree.Insert([2]float64(b.Min), [2]float64(b.Max), indexItem{ID: id, Geom: g})
}

// Len returns the number of indexed geometries.
func (ix *Index) Len() int { return ix.tree.Len() }

// Search returns ids whose bounds intersect b.
func (ix *Index) Search(b orb.Bound) []int {
	out := make([]int, 0)
	ix.tree.Search([2]float64(b.Min), [2]float64(b.Max),
		func(_, _ [2]float64, it indexItem) bool {
			out = append(out, it.ID)
			return true
		})
	return out
}

// At returns ids whose geometry contains p. Bounds prefilter through the
// tree, containment is exact.
func (ix *Index) At(p orb.Point) []int {
	out := make([]int, 0)
	ix.tree.Search([2]float64(p), [2]float64(p),
		func(_, _ [2]float64, it indexItem) bool {
			if contains(it.Geom, p) {
				out = append(out, it.ID)
			}
			return true
		})
	return out
}

func contains(g orb.Geometry, p orb.Point) bool {
	switch g := g.(type) {
	case orb.Ring:
		return planar.RingContains(g, p)
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	case orb.Collection:
		for _, c := range g {
			if contains(c, p) {
				return true
			}
		}
	}
	return false
}
