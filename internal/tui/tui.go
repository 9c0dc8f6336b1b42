// Package tui is a terminal viewer for generated map scenes: a top-down
// braille rendering driven by a frame loop that runs the route animations
// and bobs the label cones.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"geoscene/internal/logging"
	"geoscene/internal/mapbuild"
	"geoscene/internal/projection"
	"geoscene/internal/raster"
)

// Options configure the viewer.
type Options struct {
	// Path is loaded at start when set.
	Path      string
	Projector projection.Projector
	Build     mapbuild.Options
	Render    raster.Options
	Snapshot  string
	FPS       int
	Logger    logging.Logger
}

func (o Options) withDefaults() Options {
	if o.Projector == nil {
		o.Projector = projection.NewMercator(projection.DefaultCenter, projection.DefaultScale, [2]float64{})
	}
	if o.Render.Width == 0 {
		o.Render = raster.DefaultOptions()
	}
	if o.Snapshot == "" {
		o.Snapshot = "geoscene.webp"
	}
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.Logger == nil {
		o.Logger = logging.Noop()
	}
	return o
}

// Run starts the viewer on the alternate screen and blocks until it quits
// or ctx is done.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

type frameMsg time.Time

// frame schedules the next animation frame.
func frame(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
