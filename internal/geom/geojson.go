package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// ErrNoFeatures is returned when a payload holds no polygonal region.
var ErrNoFeatures = errors.New("geom: no polygonal features found")

// LoadGeo reads a GeoJSON file of regions.
func LoadGeo(path string) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Collection{}, err
	}
	return ParseGeo(data)
}

// ParseGeo decodes a FeatureCollection, a single Feature or a bare
// geometry. Only Polygon and MultiPolygon geometries become regions. When
// the strict decoder rejects the payload, a tolerant pass decodes every
// ring on its own and records per-ring problems on the collection.
func ParseGeo(data []byte) (Collection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Collection{}, fmt.Errorf("geom: parse geojson: %w", err)
	}
	var c Collection
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return parseLenient(data)
		}
		for _, f := range fc.Features {
			if ft, ok := newFeature(f.Geometry, f.Properties); ok {
				c.Add(ft)
			}
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return parseLenient(data)
		}
		if ft, ok := newFeature(f.Geometry, f.Properties); ok {
			c.Add(ft)
		}
	case "":
		return Collection{}, errors.New("geom: invalid geojson: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return Collection{}, fmt.Errorf("geom: parse geometry: %w", err)
		}
		if ft, ok := newFeature(g.Geometry(), nil); ok {
			c.Add(ft)
		}
	}
	if len(c.Features) == 0 {
		return Collection{}, ErrNoFeatures
	}
	return c, nil
}

type rawGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type rawFeature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   *rawGeometry   `json:"geometry"`
}

func parseLenient(data []byte) (Collection, error) {
	var raw struct {
		Type     string       `json:"type"`
		Features []rawFeature `json:"features"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Collection{}, fmt.Errorf("geom: parse geojson: %w", err)
	}
	if raw.Type == "Feature" {
		var f rawFeature
		if err := json.Unmarshal(data, &f); err != nil {
			return Collection{}, fmt.Errorf("geom: parse feature: %w", err)
		}
		raw.Features = []rawFeature{f}
	}
	var c Collection
	for i, f := range raw.Features {
		if f.Geometry == nil {
			continue
		}
		if f.Geometry.Type != "Polygon" && f.Geometry.Type != "MultiPolygon" {
			continue
		}
		mp, errs := DecodeCoordinates(f.Geometry.Coordinates)
		for _, err := range errs {
			c.Problems = append(c.Problems, fmt.Errorf("feature %d: %w", i, err))
		}
		if len(mp) == 0 {
			continue
		}
		var g orb.Geometry = mp
		if f.Geometry.Type == "Polygon" && len(mp) == 1 {
			g = mp[0]
		}
		if ft, ok := newFeature(g, geojson.Properties(f.Properties)); ok {
			c.Add(ft)
		}
	}
	if len(c.Features) == 0 {
		return Collection{}, ErrNoFeatures
	}
	return c, nil
}

func newFeature(g orb.Geometry, props geojson.Properties) (Feature, bool) {
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
	default:
		return Feature{}, false
	}
	f := Feature{Geometry: g, Properties: props}
	if props != nil {
		f.Name = props.MustString("name", "")
	}
	if c, ok := propPoint(props, "center", "centroid", "cp"); ok {
		f.Center = c
	} else {
		f.Center, _ = planar.CentroidArea(g)
	}
	return f, true
}

// propPoint returns the first [lng, lat] property among keys.
func propPoint(props geojson.Properties, keys ...string) (orb.Point, bool) {
	for _, k := range keys {
		a, ok := props[k].([]any)
		if !ok || len(a) < 2 {
			continue
		}
		lon, lok := a[0].(float64)
		lat, aok := a[1].(float64)
		if lok && aok {
			return orb.Point{lon, lat}, true
		}
	}
	return orb.Point{}, false
}
