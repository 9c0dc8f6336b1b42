// Package projection maps geographic positions onto the drawing plane
// shared by every scene primitive.
package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// ErrNonFinite is returned when a position projects to NaN or ±Inf.
var ErrNonFinite = errors.New("projection: non-finite result")

// Projector is a deterministic map from (lng, lat) to screen-style (x, y),
// where y grows southward. Out-of-domain input yields a non-finite result.
type Projector interface {
	Project(p orb.Point) (x, y float64)
}

// Func adapts a plain function to a Projector.
type Func func(p orb.Point) (x, y float64)

func (f Func) Project(p orb.Point) (float64, float64) { return f(p) }

// earthRadius is the sphere radius orb uses for web mercator.
const earthRadius = 6378137.0

// Default mercator framing, centered on China.
var DefaultCenter = orb.Point{104.0, 37.5}

const DefaultScale = 80.0

// Mercator is a spherical mercator projection with a d3-style center,
// scale and translate: Center lands on Translate, one radian spans Scale
// units.
type Mercator struct {
	Center    orb.Point
	Scale     float64
	Translate [2]float64
}

// NewMercator returns a projection centered on c.
func NewMercator(c orb.Point, scale float64, translate [2]float64) Mercator {
	return Mercator{Center: c, Scale: scale, Translate: translate}
}

func (m Mercator) Project(p orb.Point) (float64, float64) {
	if math.Abs(p.Lat()) >= 90 {
		return math.NaN(), math.NaN()
	}
	pm := project.WGS84.ToMercator(p)
	cm := project.WGS84.ToMercator(m.Center)
	k := m.Scale / earthRadius
	x := m.Translate[0] + (pm[0]-cm[0])*k
	y := m.Translate[1] - (pm[1]-cm[1])*k
	return x, y
}

// Adapter applies the vertical-axis flip used everywhere in the scene:
// the drawing plane is (x, -y) of the projector output so north is +Y.
type Adapter struct {
	P Projector
}

// NewAdapter wraps p.
func NewAdapter(p Projector) Adapter { return Adapter{P: p} }

// ToPlane projects a position onto the drawing plane.
func (a Adapter) ToPlane(p orb.Point) (x, y float64, err error) {
	px, py := a.P.Project(p)
	if !finite(px) || !finite(py) {
		return 0, 0, fmt.Errorf("projection: [%g, %g]: %w", p.Lon(), p.Lat(), ErrNonFinite)
	}
	return px, -py, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
