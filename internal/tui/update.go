package tui

import (
	"fmt"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"geoscene/internal/geom"
	"geoscene/internal/logging"
	"geoscene/internal/mapbuild"
	"geoscene/internal/raster"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.mi != nil {
			m.mi.Scheduler().Update(time.Time(msg))
			m.mi.Bobber.Step()
		}
		return m, frame(m.opts.FPS)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-1-2) // provisional; will be refined in View
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				w := strings.TrimSpace(m.ta.Value())
				if w == "" {
					m.status = "paste: empty"
					return m, nil
				}
				f, err := geom.ParseWKT(w, fmt.Sprintf("pasted-%d", len(m.mi.Regions)+1))
				if err != nil {
					m.status = "wkt error: " + err.Error()
					return m, nil
				}
				m.addRegion(f)
				m.selPath = ""
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			if m.mi != nil {
				m.mi.Stop()
			}
			return m, tea.Quit
		case "1":
			m.showRegions = !m.showRegions
			m.status = fmt.Sprintf("regions: %v", m.showRegions)
		case "2":
			m.showOutlines = !m.showOutlines
			m.status = fmt.Sprintf("outlines: %v", m.showOutlines)
		case "3":
			m.showRoutes = !m.showRoutes
			m.status = fmt.Sprintf("routes: %v", m.showRoutes)
		case "4":
			m.showMarkers = !m.showMarkers
			m.status = fmt.Sprintf("markers: %v", m.showMarkers)
		case "b":
			m.bloomOnly = !m.bloomOnly
			m.status = fmt.Sprintf("bloom only: %v", m.bloomOnly)
		case "s":
			m.snapshot()
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.height-1-2)
			}
		case "p":
			m.pasteMode = !m.pasteMode
			if m.pasteMode {
				m.ta.SetValue("")
				m.status = "paste mode"
				m.ta.Focus()
			} else {
				m.status = "view mode"
				m.ta.Blur()
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "i":
			if r := m.inspectRegion(); r != nil {
				meta := []string{
					fmt.Sprintf("region: %s", r.Name),
					fmt.Sprintf("index: %d  color: %s", r.Index, r.Color.Hex()),
					fmt.Sprintf("center: lon=%.6f lat=%.6f", r.Center.Lon(), r.Center.Lat()),
					fmt.Sprintf("meshes: %d  outlines: %d", len(r.Meshes), len(r.Outlines)),
					fmt.Sprintf("properties: %d", len(r.Properties)),
				}
				m.inspectPopup = strings.Join(meta, "\n")
				m.status = "inspect popup"
			} else {
				m.inspectPopup = "no region here"
				m.status = m.inspectPopup
			}
		case "esc":
			m.inspectPopup = ""
		case "l":
			// toggle all layers
			all := m.showRegions && m.showOutlines && m.showRoutes && m.showMarkers
			m.showRegions = !all
			m.showOutlines = !all
			m.showRoutes = !all
			m.showMarkers = !all
			m.status = fmt.Sprintf("layers: regions=%v outlines=%v routes=%v markers=%v",
				m.showRegions, m.showOutlines, m.showRoutes, m.showMarkers)
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		mapOriginX, mapOriginY, mapWidth, mapHeight := m.layout()
		// Update list size with accurate content height when sidebar visible
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, mapHeight-2)
		}
		cx, cy := msg.X, msg.Y
		if cx >= mapOriginX && cx < mapOriginX+mapWidth && cy >= mapOriginY && cy < mapOriginY+mapHeight {
			m.hovering = true
			m.hoverCellX = cx - mapOriginX
			m.hoverCellY = cy - mapOriginY
			if x, y, ok := m.cellToPlane(m.hoverCellX, m.hoverCellY, mapWidth, mapHeight); ok {
				m.hoverHasPos = true
				m.hoverX, m.hoverY = x, y
				m.hover(m.mi.RegionAt(orb.Point{x, y}))
			} else {
				m.hoverHasPos = false
				m.hover(nil)
			}
		} else {
			m.hovering = false
			m.hover(nil)
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// hover moves the highlight to r, restoring the previous region.
func (m *Model) hover(r *mapbuild.Region) {
	if r == m.hoverRegion {
		return
	}
	if m.hoverRegion != nil {
		m.hoverRegion.Highlight(false)
	}
	if r != nil {
		r.Highlight(true)
	}
	m.hoverRegion = r
}

// snapshot renders the scene to a WebP file.
func (m *Model) snapshot() {
	o := m.opts.Render
	o.BloomOnly = m.bloomOnly
	img := raster.Render(m.sc, o)
	if err := raster.SaveWebP(m.opts.Snapshot, img); err != nil {
		m.status = "snapshot error: " + err.Error()
		m.log.Error(m.ctx, "snapshot failed", logging.String("path", m.opts.Snapshot), logging.Err(err))
		return
	}
	m.status = "snapshot: " + m.opts.Snapshot
	m.log.Info(m.ctx, "snapshot written", logging.String("path", m.opts.Snapshot),
		logging.Int("width", img.Bounds().Dx()), logging.Int("height", img.Bounds().Dy()))
}
