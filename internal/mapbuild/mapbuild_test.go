package mapbuild

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"geoscene/internal/geom"
	"geoscene/internal/mathutil"
	"geoscene/internal/projection"
	"geoscene/internal/scene"
	"geoscene/internal/tween"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flat maps lng/lat straight onto the plane.
var flat = projection.Func(func(p orb.Point) (float64, float64) { return p[0], p[1] })

var china = projection.NewMercator(orb.Point{104, 37.5}, 80, [2]float64{0, 0})

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func square(x, y, size float64) orb.Ring {
	return orb.Ring{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}
}

func TestBuildRingColorFromPalette(t *testing.T) {
	b := NewBuilder(flat, scene.NewGroup("lines"))
	for _, index := range []int{0, 1, 7, 12} {
		want := DefaultPalette[index%len(DefaultPalette)]
		m, err := b.BuildRing(square(0, 0, 1), b.ColorAt(index), index)
		require.NoError(t, err)
		assert.False(t, m.Geometry.Empty())
		require.Len(t, m.Materials, 2)
		phong, ok := m.Materials[0].(*scene.PhongMaterial)
		require.True(t, ok)
		std, ok := m.Materials[1].(*scene.StandardMaterial)
		require.True(t, ok)
		assert.Equal(t, want, phong.Color)
		assert.Equal(t, want, std.Color)
		assert.Equal(t, 1.0, std.Metalness)
		assert.Equal(t, 1.0, std.Roughness)

		assert.Equal(t, scene.Identity(), m.Transform, "index %d", index)
		assert.True(t, m.Passes.Has(scene.PassBloom))
		assert.True(t, m.CastShadow)
		assert.True(t, m.ReceiveShadow)
	}
}

func TestBuildRingRejectsMalformed(t *testing.T) {
	nan := projection.Func(func(p orb.Point) (float64, float64) {
		if p[0] > 50 {
			return math.NaN(), 0
		}
		return p[0], p[1]
	})
	b := NewBuilder(nan, nil)

	_, err := b.BuildRing(orb.Ring{{0, 0}, {60, 0}, {0, 1}}, DefaultPalette[0], 0)
	assert.True(t, errors.Is(err, geom.ErrMalformedRing))
	assert.True(t, errors.Is(err, projection.ErrNonFinite))

	_, err = b.BuildRing(orb.Ring{{0, 0}, {1, 1}, {0, 0}}, DefaultPalette[0], 0)
	assert.True(t, errors.Is(err, geom.ErrMalformedRing))

	_, err = b.BuildRing(nil, DefaultPalette[0], 0)
	assert.True(t, errors.Is(err, geom.ErrMalformedRing))
}

func TestBuildRegionSkipsBadRing(t *testing.T) {
	lines := scene.NewGroup("lines")
	b := NewBuilder(flat, lines)
	f := geom.Feature{
		Name: "A",
		Geometry: orb.MultiPolygon{
			{square(0, 0, 1)},
			{orb.Ring{{5, 5}, {6, 6}, {5, 5}}},
			{square(10, 10, 2), square(10.5, 10.5, 0.5)},
		},
	}
	r, errs := b.BuildRegion(context.Background(), f, 3)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], geom.ErrMalformedRing))
	assert.Contains(t, errs[0].Error(), "polygon 1 ring 0")

	assert.Equal(t, "A", r.Name)
	assert.Equal(t, DefaultPalette[3], r.Color)
	require.Len(t, r.Meshes, 3, "hole is its own solid")
	assert.Len(t, r.Children(), 3)
	assert.Len(t, r.Footprint, 3)
	assert.Len(t, r.Outlines, 3)
	assert.Len(t, lines.Children(), 3)

	for _, m := range r.Meshes {
		for i, mat := range m.Materials {
			assert.Equal(t, RegionOpacity, mat.Props().Opacity)
			assert.True(t, mat.Props().Transparent)
			assert.Equal(t, 1.0, m.Original[i].Props().Opacity, "snapshot taken before the override")
		}
	}

	r.Highlight(true)
	assert.Equal(t, 1.0, r.Meshes[0].Materials[0].Props().Opacity)
	r.Highlight(false)
	assert.Equal(t, RegionOpacity, r.Meshes[0].Materials[0].Props().Opacity)
}

func TestBuildRegionSimplify(t *testing.T) {
	b := NewBuilder(flat, nil)
	b.Simplify = 0.1
	ring := orb.Ring{{0, 0}, {0.5, 0.001}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	r, errs := b.BuildRegion(context.Background(), geom.Feature{Geometry: orb.Polygon{ring}}, 0)
	assert.Empty(t, errs)
	require.Len(t, r.Meshes, 1)
	assert.Len(t, r.Footprint[0][0], 5)
	assert.Empty(t, r.Outlines, "no line group, no outlines")
}

func TestOutlineEmptyGeometry(t *testing.T) {
	o := NewOutliner(DefaultOutlineColor)
	assert.Nil(t, o.Extract(nil, 30, nil, nil))
	assert.Nil(t, o.Extract(scene.NewMesh("empty", nil), 30, nil, nil))
}

func TestOutlineCopiesWorldTransform(t *testing.T) {
	b := NewBuilder(flat, nil)
	m, err := b.BuildRing(square(0, 0, 1), DefaultPalette[0], 1)
	require.NoError(t, err)
	parent := scene.NewGroup("parent")
	parent.Position = mathutil.Vec3{3, 4, 5}
	parent.Scale = mathutil.Vec3{2, 2, 2}
	m.SetRotation(0, 0, math.Pi/4)
	parent.Add(m)

	line := NewOutliner(DefaultOutlineColor).Extract(m, OutlineAngle, nil, nil)
	require.NotNil(t, line)
	w := m.World()
	assert.True(t, line.Position.ApproxEqual(w.Position, 1e-9))
	assert.True(t, line.Scale.ApproxEqual(w.Scale, 1e-9))
	assert.True(t, line.Quaternion.ApproxEqual(w.Quaternion, 1e-9))
	assert.True(t, line.Passes.Has(scene.PassBloom))
	assert.Equal(t, OutlineWidth, line.Geometry.Width)
	assert.Zero(t, len(line.Geometry.Points)%2)
}

func TestOutlineSharedMaterialLastWriteWins(t *testing.T) {
	b := NewBuilder(flat, nil)
	m, err := b.BuildRing(square(0, 0, 1), DefaultPalette[0], 1)
	require.NoError(t, err)
	o := NewOutliner(DefaultOutlineColor)

	red, blue := colorful.Color{R: 1}, colorful.Color{B: 1}
	half := 0.5
	first := o.Extract(m, 30, &red, &half)
	second := o.Extract(m, 30, &blue, nil)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Same(t, first.Material, second.Material)
	assert.Equal(t, blue, first.Material.Color)
	assert.Equal(t, 1.0, first.Material.Opacity)

	third := o.Extract(m, 30, nil, nil)
	assert.Equal(t, DefaultOutlineColor, third.Material.Color, "nil color resets to the default")

	o.PerOutlineMaterial = true
	a := o.Extract(m, 30, &red, nil)
	c := o.Extract(m, 30, &blue, nil)
	assert.NotSame(t, a.Material, c.Material)
	assert.Equal(t, red, a.Material.Color)
	assert.Equal(t, blue, c.Material.Color)
}

func TestRouteArcEndpoints(t *testing.T) {
	sc := scene.New()
	a := NewAnimator(china, sc, nil)
	from, to := orb.Point{116.405285, 39.904989}, orb.Point{121.473701, 31.230416}
	arc, err := a.AddRoute([]orb.Point{from, to}, colorful.Color{R: 1})
	require.NoError(t, err)

	ad := projection.NewAdapter(china)
	x0, y0, _ := ad.ToPlane(from)
	x1, y1, _ := ad.ToPlane(to)
	assert.True(t, arc.Curve.PointAt(0).ApproxEqual(mathutil.Vec3{x0, y0, ArcBaseZ}, 1e-9))
	assert.True(t, arc.Curve.PointAt(1).ApproxEqual(mathutil.Vec3{x1, y1, ArcBaseZ}, 1e-9))
	assert.Greater(t, arc.Curve.PointAt(0.5)[2], ArcBaseZ)
	assert.Greater(t, arc.Curve.Point(0.5)[2], ArcBaseZ)

	assert.Equal(t, []scene.Object{arc.Point, arc.Tube}, sc.Children())
	_, ok := arc.Tube.Materials[0].(*scene.GradientMaterial)
	assert.True(t, ok)
	assert.Nil(t, arc.Handle, "no scheduler, no animation")
}

func TestRouteArcLoopsUntilCancelled(t *testing.T) {
	clk := tween.NewFakeClock(epoch)
	s := tween.NewScheduler(clk)
	a := NewAnimator(flat, scene.New(), s)
	arc, err := a.AddRoute([]orb.Point{{0, 0}, {10, 0}}, colorful.Color{G: 1})
	require.NoError(t, err)
	require.NotNil(t, arc.Handle)

	s.Update(clk.Advance(1500 * time.Millisecond))
	assert.InDelta(t, 0.5, arc.T, 1e-9)
	assert.True(t, arc.Point.Position.ApproxEqual(arc.Curve.PointAt(0.5), 1e-9))

	s.Update(clk.Advance(1500 * time.Millisecond))
	assert.Equal(t, 0.0, arc.T, "completion resets the parameter")
	assert.True(t, arc.Handle.Active(), "and re-arms")

	s.Update(clk.Advance(750 * time.Millisecond))
	assert.InDelta(t, 0.25, arc.T, 1e-9)

	arc.Cancel()
	s.Update(clk.Advance(time.Second))
	assert.InDelta(t, 0.25, arc.T, 1e-9)
	assert.False(t, arc.Handle.Active())
	assert.Zero(t, s.Len())
}

func TestRouteInvalid(t *testing.T) {
	a := NewAnimator(flat, scene.New(), nil)
	_, err := a.AddRoute([]orb.Point{{0, 0}}, colorful.Color{})
	assert.True(t, errors.Is(err, ErrInvalidRoute))

	_, err = a.AddRoute([]orb.Point{{0, 0}, {math.Inf(1), 0}}, colorful.Color{})
	assert.True(t, errors.Is(err, ErrInvalidRoute))
	assert.True(t, errors.Is(err, projection.ErrNonFinite))
}

func TestLabelPlacement(t *testing.T) {
	sc := scene.New()
	cones := &Registry{}
	p := NewPlacer(china, sc, cones)
	m, err := p.AddLabel(DefaultLabels[0])
	require.NoError(t, err)

	assert.Equal(t, m.Label.Position[0], m.Object.Position[0])
	assert.Equal(t, m.Label.Position[1], m.Object.Position[1])
	assert.Equal(t, LabelZ, m.Label.Position[2])
	assert.Equal(t, ConeZ, m.Object.Position[2])

	x, y, err := projection.NewAdapter(china).ToPlane(DefaultLabels[0].Pos)
	require.NoError(t, err)
	assert.Equal(t, x, m.Label.Position[0])
	assert.Equal(t, y, m.Label.Position[1])

	// the cone apex (+Y in model space) points down at the map
	apex := m.Object.Quaternion.Rotate(mathutil.Vec3{0, 1, 0})
	assert.True(t, apex.ApproxEqual(mathutil.Vec3{0, 0, -1}, 1e-9), "%v", apex)

	el := m.Label.Element
	assert.Equal(t, "label", el.Class)
	assert.Equal(t, "北京市", el.Text)
	assert.Equal(t, "rgba(255, 99, 71, 0.3)", el.Background.String())
	assert.Equal(t, ConeStep, m.Step)
	assert.Equal(t, 1, cones.Len())
	assert.Len(t, sc.Children(), 2)
}

func TestLabelInvalidAndDefaults(t *testing.T) {
	p := NewPlacer(flat, scene.New(), &Registry{})
	_, err := p.AddLabel(geom.Place{Name: "x", Color: "nope"})
	assert.True(t, errors.Is(err, ErrInvalidLabel))
	_, err = p.AddLabel(geom.Place{Name: "x", Background: "rgb(1)"})
	assert.True(t, errors.Is(err, ErrInvalidLabel))
	_, err = p.AddLabel(geom.Place{Name: "x", Pos: orb.Point{math.NaN(), 0}})
	assert.True(t, errors.Is(err, ErrInvalidLabel))

	m, err := p.AddLabel(geom.Place{Name: "plain", Pos: orb.Point{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, 0.3, m.Label.Element.Background.Alpha)
	assert.Equal(t, m.Label.Element.Accent.Color, m.Label.Element.Background.Color)
}

func TestBobberStaysInBounds(t *testing.T) {
	cones := &Registry{}
	p := NewPlacer(flat, scene.New(), cones)
	m, err := p.AddLabel(geom.Place{Name: "a", Pos: orb.Point{1, 1}})
	require.NoError(t, err)
	b := NewBobber(cones)

	flips := 0
	last := m.Step
	for i := 0; i < 200; i++ {
		b.Step()
		z := m.Object.Position[2]
		assert.GreaterOrEqual(t, z, ConeZ)
		assert.LessOrEqual(t, z, ConeZ+BobAmplitude)
		if (m.Step > 0) != (last > 0) {
			flips++
		}
		last = m.Step
	}
	assert.GreaterOrEqual(t, flips, 2)
}

func TestInitializeEndToEnd(t *testing.T) {
	sc := scene.New()
	clk := tween.NewFakeClock(epoch)
	mi := New(sc, china, Options{
		Routes:    []geom.Route{{From: orb.Point{116.4, 39.9}, To: orb.Point{121.5, 31.2}}},
		Labels:    []geom.Place{},
		Scheduler: tween.NewScheduler(clk),
	})
	coll := geom.Collection{}
	coll.Add(geom.Feature{
		Name:     "one",
		Geometry: orb.Polygon{{{100, 30}, {101, 30}, {101, 31}, {100, 31}}},
	})
	rep := mi.Initialize(context.Background(), coll)

	assert.Equal(t, 1, rep.Regions)
	assert.Equal(t, 1, rep.Meshes)
	assert.LessOrEqual(t, rep.Outlines, 1)
	assert.Zero(t, rep.SkippedRings)
	assert.Empty(t, rep.Errors)

	assert.Len(t, mi.MapGroup.Children(), 1)
	assert.LessOrEqual(t, len(mi.LineGroup.Children()), 1)
	require.Len(t, mi.Routes, 1)

	var groups, meshes int
	for _, o := range sc.Children() {
		switch o.(type) {
		case *scene.Group:
			groups++
		case *scene.Mesh:
			meshes++
		}
	}
	assert.Equal(t, 2, groups)
	assert.Equal(t, 2, meshes, "tube and point")
	assert.Len(t, sc.Children(), 4)
	assert.Equal(t, 1, mi.Scheduler().Len())

	mi.Stop()
	mi.Scheduler().Update(clk.Advance(time.Millisecond))
	assert.Zero(t, mi.Scheduler().Len())
}

func TestNewUsesDefaults(t *testing.T) {
	sc := scene.New()
	mi := New(sc, china, Options{})
	require.Len(t, mi.Routes, 2)
	require.Len(t, mi.Markers, 2)
	assert.Equal(t, 2, mi.Cones.Len())
	assert.Empty(t, mi.Errors())

	first := mi.Routes[0].Point.Materials[0].Props().Color
	second := mi.Routes[1].Point.Materials[0].Props().Color
	assert.Equal(t, scene.MustColor(FirstRouteColor).Color, first)
	assert.Equal(t, scene.MustColor(RouteColor).Color, second)
}

func TestNewSkipsInvalidRecords(t *testing.T) {
	mi := New(scene.New(), flat, Options{
		Routes: []geom.Route{{From: orb.Point{0, 0}, To: orb.Point{1, 1}, Color: "bogus"}},
		Labels: []geom.Place{{Name: "bad", Color: "bogus"}},
	})
	assert.Empty(t, mi.Routes)
	assert.Empty(t, mi.Markers)
	require.Len(t, mi.Errors(), 2)
	assert.True(t, errors.Is(mi.Errors()[0], ErrInvalidRoute))
	assert.True(t, errors.Is(mi.Errors()[1], ErrInvalidLabel))

	rep := mi.Initialize(context.Background(), geom.Collection{})
	assert.Len(t, rep.Errors, 2)
}

func TestInitializeReportsBadRingsAndPicks(t *testing.T) {
	mi := New(scene.New(), flat, Options{Routes: []geom.Route{}, Labels: []geom.Place{}})
	var coll geom.Collection
	coll.Add(geom.Feature{Name: "a", Geometry: orb.Polygon{square(0, 0, 2)}})
	coll.Add(geom.Feature{Name: "b", Geometry: orb.MultiPolygon{
		{square(10, 0, 2)},
		{orb.Ring{{0, 0}, {1, 1}}},
	}})
	coll.Problems = append(coll.Problems, geom.ErrMalformedRing)
	rep := mi.Initialize(context.Background(), coll)

	assert.Equal(t, 2, rep.Regions)
	assert.Equal(t, 2, rep.Meshes)
	assert.Equal(t, 2, rep.SkippedRings)
	assert.Equal(t, 2, mi.RegionIndex().Len())

	// plane y is flipped
	r := mi.RegionAt(orb.Point{11, -1})
	require.NotNil(t, r)
	assert.Equal(t, "b", r.Name)
	assert.Nil(t, mi.RegionAt(orb.Point{5, -1}))
}

func TestInitializeHonoursCancelledContext(t *testing.T) {
	mi := New(scene.New(), flat, Options{Routes: []geom.Route{}, Labels: []geom.Place{}})
	var coll geom.Collection
	coll.Add(geom.Feature{Name: "a", Geometry: orb.Polygon{square(0, 0, 2)}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep := mi.Initialize(ctx, coll)
	assert.Zero(t, rep.Regions)
	require.Len(t, rep.Errors, 1)
	assert.True(t, errors.Is(rep.Errors[0], context.Canceled))
}

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette([]string{"#FF5733", "rgb(0, 0, 255)"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPalette[0], p[0])
	_, err = ParsePalette([]string{"nah"})
	assert.Error(t, err)
}
