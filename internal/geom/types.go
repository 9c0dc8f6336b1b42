package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is one administrative region: a name, a reference center and a
// Ring, Polygon or MultiPolygon geometry.
type Feature struct {
	Name       string
	Center     orb.Point
	Geometry   orb.Geometry
	Properties geojson.Properties
}

// Collection is the set of regions consumed once at initialization.
type Collection struct {
	Features []Feature
	Bound    orb.Bound

	// Problems lists rings dropped while decoding.
	Problems []error

	bounded bool
}

// Add appends f and grows the collection bound.
func (c *Collection) Add(f Feature) {
	if f.Geometry == nil {
		c.Features = append(c.Features, f)
		return
	}
	b := f.Geometry.Bound()
	if !c.bounded {
		c.Bound = b
		c.bounded = true
	} else {
		c.Bound = c.Bound.Union(b)
	}
	c.Features = append(c.Features, f)
}

// Route is a two-endpoint flight path. Color is a CSS color string and may
// be empty to use the default route colors.
type Route struct {
	From  orb.Point
	To    orb.Point
	Color string
}

// Place is a label record anchored at a position. Color is the accent of
// the label and its cone marker, Background the label fill.
type Place struct {
	Name       string
	Pos        orb.Point
	Color      string
	Background string
}
