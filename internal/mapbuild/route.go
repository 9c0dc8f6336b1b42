package mapbuild

import (
	"errors"
	"fmt"
	"time"

	"geoscene/internal/mathutil"
	"geoscene/internal/projection"
	"geoscene/internal/scene"
	"geoscene/internal/shape"
	"geoscene/internal/tween"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
)

// ErrInvalidRoute is returned for routes that are not two projectable
// endpoints.
var ErrInvalidRoute = errors.New("mapbuild: invalid route")

// RouteArc is a glowing tube between two places with a point travelling
// along it.
type RouteArc struct {
	From, To orb.Point
	Curve    *shape.QuadraticBezier3
	Tube     *scene.Mesh
	Point    *scene.Mesh
	Handle   *tween.Handle

	// T is the current curve parameter of the point, reset to 0 on every
	// completed cycle.
	T float64
}

// Cancel stops the point animation after its current position.
func (a *RouteArc) Cancel() {
	if a.Handle != nil {
		a.Handle.Cancel()
	}
}

// Animator adds route arcs to a scene and loops their point animation on
// a scheduler.
type Animator struct {
	Proj      projection.Adapter
	Scene     *scene.Scene
	Scheduler *tween.Scheduler
	Duration  time.Duration
}

func NewAnimator(p projection.Projector, sc *scene.Scene, s *tween.Scheduler) *Animator {
	return &Animator{Proj: projection.NewAdapter(p), Scene: sc, Scheduler: s, Duration: ArcDuration}
}

// Arc returns the lifted curve between two projected points.
func Arc(x0, y0, x1, y1 float64) *shape.QuadraticBezier3 {
	return shape.NewQuadraticBezier3(
		mathutil.Vec3{x0, y0, ArcBaseZ},
		mathutil.Vec3{(x0 + x1) * 0.5, (y0 + y1) * 0.5, ArcApexZ},
		mathutil.Vec3{x1, y1, ArcBaseZ},
	)
}

// AddRoute adds a tube along the arc between the two endpoints plus a
// point that runs the arc every Duration until the handle is cancelled.
func (a *Animator) AddRoute(endpoints []orb.Point, color colorful.Color) (*RouteArc, error) {
	if len(endpoints) != 2 {
		return nil, fmt.Errorf("%w: %d endpoints", ErrInvalidRoute, len(endpoints))
	}
	var xy [2][2]float64
	for i, p := range endpoints {
		x, y, err := a.Proj.ToPlane(p)
		if err != nil {
			return nil, fmt.Errorf("%w: endpoint %d: %w", ErrInvalidRoute, i, err)
		}
		xy[i] = [2]float64{x, y}
	}
	curve := Arc(xy[0][0], xy[0][1], xy[1][0], xy[1][1])

	arc := &RouteArc{
		From:  endpoints[0],
		To:    endpoints[1],
		Curve: curve,
		Tube: scene.NewMesh("route-tube",
			shape.Tube(curve, TubeSegments, TubeRadius, TubeRadial, false),
			scene.NewGradient(color)),
		Point: scene.NewMesh("route-point", shape.Sphere(PointRadius, 16, 16), scene.NewBasic(color)),
	}
	arc.Point.Position = curve.PointAt(0)

	if a.Scheduler != nil {
		d := a.Duration
		if d <= 0 {
			d = ArcDuration
		}
		arc.Handle = a.Scheduler.Add(tween.Tween{
			From:     0,
			To:       1,
			Duration: d,
			OnUpdate: func(t float64) {
				arc.T = t
				arc.Point.Position = curve.PointAt(t)
			},
			OnComplete: func(h *tween.Handle) {
				arc.T = 0
				h.Restart()
			},
		})
	}
	a.Scene.Add(arc.Point, arc.Tube)
	return arc, nil
}
