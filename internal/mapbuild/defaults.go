// Package mapbuild turns regions, routes and labels into scene objects:
// extruded region solids with glowing outlines, animated route arcs and
// label markers.
package mapbuild

import (
	"time"

	"geoscene/internal/geom"
	"geoscene/internal/scene"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
)

// Scene layout constants.
const (
	ArcBaseZ      = 4.0
	ArcApexZ      = 20.0
	ArcDuration   = 3 * time.Second
	TubeSegments  = 32
	TubeRadius    = 0.5
	TubeRadial    = 8
	PointRadius   = 0.5
	LabelZ        = 12.0
	ConeZ         = 7.0
	ConeStep      = 0.04
	BobAmplitude  = 1.0
	OutlineWidth  = 0.3
	OutlineAngle  = 30.0
	RegionOpacity = 0.4
	EvenScaleZ    = 1.2
)

// Default route colors by position in the route list.
const (
	FirstRouteColor = "rgb(255 ,99, 71)"
	RouteColor      = "rgb(255, 215, 0)"
)

// DefaultOutlineColor is the outline stroke when none is given.
var DefaultOutlineColor = scene.MustColor("#0fb1fb").Color

// DefaultPalette colors regions by index.
var DefaultPalette = mustPalette("#FF5733", "#33FF57", "#3357FF", "#FF33A1", "#A1FF33")

// DefaultRoutes are Beijing to Shanghai and Xi'an to Jinan.
var DefaultRoutes = []geom.Route{
	{From: orb.Point{116.405285, 39.904989}, To: orb.Point{121.473701, 31.230416}},
	{From: orb.Point{108.5545, 34.1524}, To: orb.Point{117.0052, 36.430416}},
}

// DefaultLabels mark Beijing and Xi'an.
var DefaultLabels = []geom.Place{
	{
		Name:       "北京市",
		Pos:        orb.Point{116.405285, 39.904989},
		Color:      "rgb(255 ,99, 71)",
		Background: "rgba(255 ,99, 71, 0.3)",
	},
	{
		Name:       "西安市",
		Pos:        orb.Point{108.5545, 34.1524},
		Color:      "rgb(255, 215, 0)",
		Background: "rgba(255, 215,0, 0.3)",
	},
}

func mustPalette(hex ...string) []colorful.Color {
	out := make([]colorful.Color, len(hex))
	for i, h := range hex {
		out[i] = scene.MustColor(h).Color
	}
	return out
}

// ParsePalette parses CSS colors into a palette.
func ParsePalette(colors []string) ([]colorful.Color, error) {
	out := make([]colorful.Color, 0, len(colors))
	for _, s := range colors {
		c, err := scene.ParseCSSColor(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c.Color)
	}
	return out, nil
}
