package geom

import (
	"encoding/xml"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

type kmlRing struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

type kmlPolygon struct {
	Outer kmlRing   `xml:"outerBoundaryIs"`
	Inner []kmlRing `xml:"innerBoundaryIs"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPlacemark struct {
	Name    string       `xml:"name"`
	Point   *kmlPoint    `xml:"Point"`
	Polygon []kmlPolygon `xml:"Polygon"`
	Multi   []kmlPolygon `xml:"MultiGeometry>Polygon"`
}

// LoadKML reads a KML file. Point placemarks become labels, Polygon and
// MultiGeometry placemarks become regions.
func LoadKML(path string) (Collection, []Place, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Collection{}, nil, err
	}
	return ParseKML(data)
}

// ParseKML decodes placemarks anywhere in the document tree.
func ParseKML(data []byte) (Collection, []Place, error) {
	var doc struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Document   struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
			Folders    []struct {
				Placemarks []kmlPlacemark `xml:"Placemark"`
			} `xml:"Folder"`
		} `xml:"Document"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Collection{}, nil, err
	}
	pms := append([]kmlPlacemark{}, doc.Placemarks...)
	pms = append(pms, doc.Document.Placemarks...)
	for _, f := range doc.Document.Folders {
		pms = append(pms, f.Placemarks...)
	}

	var (
		c      Collection
		places []Place
	)
	for _, pm := range pms {
		if pm.Point != nil {
			pts := parseKMLCoords(pm.Point.Coordinates)
			if len(pts) > 0 {
				places = append(places, Place{Name: pm.Name, Pos: pts[0]})
			}
		}
		var mp orb.MultiPolygon
		for _, kp := range append(pm.Polygon, pm.Multi...) {
			outer := orb.Ring(parseKMLCoords(kp.Outer.Coordinates))
			if len(outer) < 3 {
				continue
			}
			p := orb.Polygon{outer}
			for _, in := range kp.Inner {
				if r := orb.Ring(parseKMLCoords(in.Coordinates)); len(r) >= 3 {
					p = append(p, r)
				}
			}
			mp = append(mp, p)
		}
		if len(mp) == 0 {
			continue
		}
		var g orb.Geometry = mp
		if len(mp) == 1 {
			g = mp[0]
		}
		center, _ := planar.CentroidArea(g)
		c.Add(Feature{
			Name:       pm.Name,
			Center:     center,
			Geometry:   g,
			Properties: geojson.Properties{"name": pm.Name},
		})
	}
	if len(c.Features) == 0 && len(places) == 0 {
		return Collection{}, nil, errors.New("kml: no placemarks found")
	}
	return c, places, nil
}

// parseKMLCoords splits "lon,lat[,alt]" tuples separated by whitespace.
// Altitude is ignored.
func parseKMLCoords(s string) []orb.Point {
	var out []orb.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, orb.Point{lon, lat})
	}
	return out
}
