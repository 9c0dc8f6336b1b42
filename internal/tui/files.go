package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/paulmach/orb"

	"geoscene/internal/geom"
	"geoscene/internal/logging"
	"geoscene/internal/mapbuild"
	"geoscene/internal/scene"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".geojson" || ext == ".json" || ext == ".csv" || ext == ".kml" || ext == ".wkt" {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads supported formats into the scene. Region files replace
// the map, CSV places replace the labels, WKT adds one region.
func (m *Model) loadPath(p string) {
	m.selPath = p
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".geojson", ".json":
		c, err := geom.LoadGeo(p)
		if err != nil {
			m.loadFailed(p, err)
			return
		}
		m.coll = c
		m.rebuild()
	case ".csv":
		places, err := geom.LoadPlacesCSV(p)
		if err != nil {
			m.loadFailed(p, err)
			return
		}
		m.places = places
		m.rebuild()
	case ".kml":
		c, places, err := geom.LoadKML(p)
		if err != nil {
			m.loadFailed(p, err)
			return
		}
		m.coll = c
		if len(places) > 0 {
			m.places = places
		}
		m.rebuild()
	case ".wkt":
		data, err := os.ReadFile(p)
		if err != nil {
			m.loadFailed(p, err)
			return
		}
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		f, err := geom.ParseWKT(string(data), name)
		if err != nil {
			m.loadFailed(p, err)
			return
		}
		m.addRegion(f)
	default:
		m.status = "unsupported file: " + ext
		return
	}
	m.status = "loaded: " + filepath.Base(p) + "  " + m.status
	// If attributes are currently shown, verify availability for the new dataset
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

func (m *Model) loadFailed(p string, err error) {
	m.status = "load error: " + err.Error()
	m.log.Error(m.ctx, "load failed", logging.String("path", p), logging.Err(err))
}

// rebuild replaces the scene with one built from the current regions and
// places. Nil places keep the default labels.
func (m *Model) rebuild() {
	if m.mi != nil {
		m.mi.Stop()
	}
	opts := m.opts.Build
	opts.Scheduler = nil
	opts.Logger = m.log
	if m.places != nil {
		opts.Labels = m.places
	}
	m.sc = scene.New()
	m.mi = mapbuild.New(m.sc, m.opts.Projector, opts)
	rep := m.mi.Initialize(m.ctx, m.coll)

	m.hoverRegion = nil
	m.zoom, m.offsetX, m.offsetY = 1.0, 0, 0
	m.fitBound()
	m.status = fmt.Sprintf("regions=%d meshes=%d outlines=%d routes=%d labels=%d skipped=%d",
		rep.Regions, rep.Meshes, rep.Outlines, len(m.mi.Routes), len(m.mi.Markers), rep.SkippedRings)
}

// addRegion builds f into the current scene.
func (m *Model) addRegion(f geom.Feature) {
	r, errs := m.mi.AddRegion(m.ctx, f)
	m.coll.Add(f)
	m.fitBound()
	m.status = fmt.Sprintf("region %q: meshes=%d outlines=%d skipped=%d", r.Name, len(r.Meshes), len(r.Outlines), len(errs))
}

// fitBound frames the view on everything in the scene plane.
func (m *Model) fitBound() {
	lo, hi, ok := m.sc.Bound()
	if !ok {
		m.bound = orb.Bound{}
		return
	}
	m.bound = orb.Bound{Min: orb.Point{lo[0], lo[1]}, Max: orb.Point{hi[0], hi[1]}}
}
