package tui

import (
	"context"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"geoscene/internal/geom"
	"geoscene/internal/logging"
	"geoscene/internal/mapbuild"
	"geoscene/internal/scene"
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Scene
	opts   Options
	ctx    context.Context
	log    logging.Logger
	coll   geom.Collection
	places []geom.Place
	sc     *scene.Scene
	mi     *mapbuild.MapInitializer
	bound  orb.Bound

	// last rendered map size (for inspect)
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showRegions  bool
	showOutlines bool
	showRoutes   bool
	showMarkers  bool
	bloomOnly    bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasPos bool
	hoverX      float64
	hoverY      float64
	hoverRegion *mapbuild.Region

	// attributes table
	showAttrs bool
	tbl       table.Model
}

// New returns a viewer showing the default routes and labels, plus the
// file at opts.Path when set.
func New(opts Options) Model {
	opts = opts.withDefaults()
	m := Model{
		showSidebar:  false,
		helpVisible:  true,
		zoom:         1.0,
		status:       "geoscene ready",
		opts:         opts,
		ctx:          context.Background(),
		log:          opts.Logger,
		showRegions:  true,
		showOutlines: true,
		showRoutes:   true,
		showMarkers:  true,
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POLYGON, MULTIPOLYGON). Press Enter to add a region; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// attributes table setup (columns are inferred from region properties)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	m.rebuild()
	if opts.Path != "" {
		m.loadPath(opts.Path)
	}
	return m
}

func (m Model) Init() tea.Cmd { return frame(m.opts.FPS) }
