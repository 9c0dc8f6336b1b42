package geom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ParseWKT turns a pasted POLYGON or MULTIPOLYGON into a region feature
// called name. Other geometry types are rejected.
func ParseWKT(s, name string) (Feature, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Feature{}, errors.New("wkt: empty input")
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return Feature{}, fmt.Errorf("wkt: %w", err)
	}
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return Feature{}, fmt.Errorf("wkt: unsupported type %s", g.GeoJSONType())
	}
	if len(Rings(g)) == 0 {
		return Feature{}, errors.New("wkt: no coordinates parsed")
	}
	center, _ := planar.CentroidArea(g)
	return Feature{
		Name:       name,
		Center:     center,
		Geometry:   g,
		Properties: geojson.Properties{"name": name, "source": "wkt"},
	}, nil
}
