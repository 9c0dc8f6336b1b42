package mapbuild

import (
	"context"
	"fmt"

	"geoscene/internal/geom"
	"geoscene/internal/logging"
	"geoscene/internal/projection"
	"geoscene/internal/scene"
	"geoscene/internal/tween"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
)

// Options configure a MapInitializer. Nil Routes or Labels fall back to
// DefaultRoutes and DefaultLabels; an empty non-nil slice means none.
type Options struct {
	Routes    []geom.Route
	Labels    []geom.Place
	Palette   []colorful.Color
	Scheduler *tween.Scheduler
	Logger    logging.Logger

	Simplify         float64
	OutlineThreshold float64

	// OutlineColor overrides DefaultOutlineColor when set.
	OutlineColor       *colorful.Color
	PerOutlineMaterial bool
}

// Report summarizes Initialize.
type Report struct {
	Regions      int
	Meshes       int
	Outlines     int
	SkippedRings int
	Errors       []error
}

// MapInitializer builds the whole map scene. Routes and labels are added
// on construction, regions on Initialize.
type MapInitializer struct {
	Scene     *scene.Scene
	MapGroup  *scene.Group
	LineGroup *scene.Group
	Regions   []*Region
	Routes    []*RouteArc
	Markers   []*Marker
	Cones     *Registry
	Bobber    *Bobber

	builder  *Builder
	animator *Animator
	placer   *Placer
	log      logging.Logger
	index    *geom.Index
	setup    []error
}

// New adds the configured routes and labels to sc right away. Invalid
// records are logged and skipped; see Errors.
func New(sc *scene.Scene, proj projection.Projector, opts Options) *MapInitializer {
	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}
	cones := &Registry{}
	mi := &MapInitializer{
		Scene:     sc,
		MapGroup:  scene.NewGroup("map"),
		LineGroup: scene.NewGroup("lines"),
		Cones:     cones,
		Bobber:    NewBobber(cones),
		log:       log,
		index:     geom.NewIndex(),
	}

	b := NewBuilder(proj, mi.LineGroup)
	if len(opts.Palette) > 0 {
		b.Palette = opts.Palette
	}
	if opts.OutlineThreshold > 0 {
		b.Threshold = opts.OutlineThreshold
	}
	if opts.OutlineColor != nil {
		b.Outliner = NewOutliner(*opts.OutlineColor)
	}
	b.Outliner.PerOutlineMaterial = opts.PerOutlineMaterial
	b.Simplify = opts.Simplify
	b.Log = log
	mi.builder = b

	sched := opts.Scheduler
	if sched == nil {
		sched = tween.NewScheduler(nil)
	}
	mi.animator = NewAnimator(proj, sc, sched)
	mi.placer = NewPlacer(proj, sc, cones)

	routes := opts.Routes
	if routes == nil {
		routes = DefaultRoutes
	}
	labels := opts.Labels
	if labels == nil {
		labels = DefaultLabels
	}
	ctx := context.Background()
	for i, r := range routes {
		if _, err := mi.AddRoute(r, i); err != nil {
			log.Warn(ctx, "route skipped", logging.Int("route", i), logging.Err(err))
			mi.setup = append(mi.setup, err)
		}
	}
	for i, l := range labels {
		if _, err := mi.AddLabel(l); err != nil {
			log.Warn(ctx, "label skipped", logging.Int("label", i), logging.Err(err))
			mi.setup = append(mi.setup, err)
		}
	}
	return mi
}

// Errors returns the routes and labels rejected by New.
func (mi *MapInitializer) Errors() []error { return mi.setup }

// Scheduler returns the scheduler driving route animations.
func (mi *MapInitializer) Scheduler() *tween.Scheduler { return mi.animator.Scheduler }

// Outliner returns the outline extractor used for region solids.
func (mi *MapInitializer) Outliner() *Outliner { return mi.builder.Outliner }

// AddRoute adds a route arc. The color comes from r.Color or, when empty,
// from the position of the route in the list.
func (mi *MapInitializer) AddRoute(r geom.Route, position int) (*RouteArc, error) {
	src := r.Color
	if src == "" {
		src = RouteColor
		if position == 0 {
			src = FirstRouteColor
		}
	}
	c, err := scene.ParseCSSColor(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoute, err)
	}
	arc, err := mi.animator.AddRoute([]orb.Point{r.From, r.To}, c.Color)
	if err != nil {
		return nil, err
	}
	mi.Routes = append(mi.Routes, arc)
	return arc, nil
}

// AddLabel adds a label marker and registers its cone for bobbing.
func (mi *MapInitializer) AddLabel(p geom.Place) (*Marker, error) {
	m, err := mi.placer.AddLabel(p)
	if err != nil {
		return nil, err
	}
	mi.Markers = append(mi.Markers, m)
	return m, nil
}

// Initialize builds one region per feature into the map group and adds
// the line group and the map group to the scene. Bad rings never abort
// the build; they are counted and reported.
func (mi *MapInitializer) Initialize(ctx context.Context, c geom.Collection) Report {
	var rep Report
	rep.Errors = append(rep.Errors, mi.setup...)
	for _, p := range c.Problems {
		rep.SkippedRings++
		rep.Errors = append(rep.Errors, p)
		mi.log.Warn(ctx, "ring dropped while decoding", logging.Err(p))
	}
	for _, f := range c.Features {
		if err := ctx.Err(); err != nil {
			rep.Errors = append(rep.Errors, err)
			break
		}
		r, errs := mi.AddRegion(ctx, f)
		rep.SkippedRings += len(errs)
		rep.Errors = append(rep.Errors, errs...)
		rep.Regions++
		rep.Meshes += len(r.Meshes)
		rep.Outlines += len(r.Outlines)
	}
	mi.Scene.Add(mi.LineGroup, mi.MapGroup)
	mi.log.Info(ctx, "map initialized",
		logging.Int("regions", rep.Regions),
		logging.Int("meshes", rep.Meshes),
		logging.Int("outlines", rep.Outlines),
		logging.Int("skipped_rings", rep.SkippedRings))
	return rep
}

// AddRegion builds f as the next region and indexes its footprint.
func (mi *MapInitializer) AddRegion(ctx context.Context, f geom.Feature) (*Region, []error) {
	index := len(mi.Regions)
	r, errs := mi.builder.BuildRegion(ctx, f, index)
	mi.MapGroup.Add(r)
	mi.Regions = append(mi.Regions, r)
	if len(r.Footprint) > 0 {
		mi.index.Insert(index, r.Footprint)
	}
	return r, errs
}

// RegionIndex returns the spatial index of region footprints in scene
// plane coordinates. Ids are indices into Regions.
func (mi *MapInitializer) RegionIndex() *geom.Index { return mi.index }

// RegionAt returns the region whose footprint contains the scene plane
// point p, or nil.
func (mi *MapInitializer) RegionAt(p orb.Point) *Region {
	ids := mi.index.At(p)
	if len(ids) == 0 {
		return nil
	}
	return mi.Regions[ids[0]]
}

// Stop cancels every route animation.
func (mi *MapInitializer) Stop() {
	for _, r := range mi.Routes {
		r.Cancel()
	}
}
