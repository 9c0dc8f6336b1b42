package mapbuild

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"geoscene/internal/geom"
	"geoscene/internal/projection"
	"geoscene/internal/scene"
	"geoscene/internal/shape"
)

// ErrInvalidLabel is returned for label records with an unusable color or
// position.
var ErrInvalidLabel = errors.New("mapbuild: invalid label")

// Marker is a cone under a label, bobbed by a Bobber.
type Marker struct {
	Object *scene.Mesh
	Label  *scene.Label
	// Step is the signed z change per frame.
	Step float64
	// Base is the lowest z of the bob.
	Base float64
}

// Registry is the shared list of bobbing markers.
type Registry struct {
	mu      sync.Mutex
	markers []*Marker
}

func (r *Registry) Add(m *Marker) {
	r.mu.Lock()
	r.markers = append(r.markers, m)
	r.mu.Unlock()
}

// All returns a snapshot of the registered markers.
func (r *Registry) All() []*Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Marker(nil), r.markers...)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.markers)
}

// Placer adds labels with cone markers.
type Placer struct {
	Proj  projection.Adapter
	Scene *scene.Scene
	Cones *Registry
	Step  float64
}

func NewPlacer(p projection.Projector, sc *scene.Scene, cones *Registry) *Placer {
	return &Placer{Proj: projection.NewAdapter(p), Scene: sc, Cones: cones, Step: ConeStep}
}

// AddLabel places rec's label at LabelZ and a cone pointing at the map at
// ConeZ over the same projected point. An empty Color uses RouteColor and
// an empty Background the accent at 30% alpha.
func (p *Placer) AddLabel(rec geom.Place) (*Marker, error) {
	accentSrc := rec.Color
	if accentSrc == "" {
		accentSrc = RouteColor
	}
	accent, err := scene.ParseCSSColor(accentSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q color: %w", ErrInvalidLabel, rec.Name, err)
	}
	bg := scene.CSSColor{Color: accent.Color, Alpha: 0.3}
	if rec.Background != "" {
		if bg, err = scene.ParseCSSColor(rec.Background); err != nil {
			return nil, fmt.Errorf("%w: %q background: %w", ErrInvalidLabel, rec.Name, err)
		}
	}
	x, y, err := p.Proj.ToPlane(rec.Pos)
	if err != nil {
		return nil, fmt.Errorf("%w: %q position: %w", ErrInvalidLabel, rec.Name, err)
	}

	label := scene.NewLabel(rec.Name, scene.LabelElement{
		Class:      "label",
		Text:       rec.Name,
		Accent:     accent,
		Background: bg,
	})
	label.Position[0], label.Position[1], label.Position[2] = x, y, LabelZ

	cone := scene.NewMesh(rec.Name+"-cone", shape.Cone(1, 2, 4, 1), scene.NewLambert(accent.Color))
	cone.Position[0], cone.Position[1], cone.Position[2] = x, y, ConeZ
	cone.SetRotation(-math.Pi/2, 0, 0)

	m := &Marker{Object: cone, Label: label, Step: p.Step, Base: ConeZ}
	if p.Cones != nil {
		p.Cones.Add(m)
	}
	p.Scene.Add(cone, label)
	return m, nil
}

// Bobber moves every registered cone up and down between its Base and
// Base+Amplitude. The frame loop of whoever renders the scene must call
// Step once per frame; nothing moves otherwise.
type Bobber struct {
	Cones     *Registry
	Amplitude float64
}

func NewBobber(cones *Registry) *Bobber {
	return &Bobber{Cones: cones, Amplitude: BobAmplitude}
}

// Step advances every cone by its step, reversing direction at the bounds.
func (b *Bobber) Step() {
	for _, m := range b.Cones.All() {
		z := m.Object.Position[2] + m.Step
		top := m.Base + b.Amplitude
		switch {
		case z >= top:
			z = top
			m.Step = -math.Abs(m.Step)
		case z <= m.Base:
			z = m.Base
			m.Step = math.Abs(m.Step)
		}
		m.Object.Position[2] = z
	}
}
