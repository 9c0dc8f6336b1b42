package tui

import (
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshAttrsFromCurrent rebuilds the table columns/rows from the current scene
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	// If there are no columns or rows, disable attributes view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		// Do not touch table internals here to avoid re-render during SetColumns
		m.showAttrs = false
		m.status = "no attributes for current scene"
		return
	}
	// map to bubbles table columns/rows
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for _, c := range cols {
		w := len(c) + 2
		for _, r := range rows {
			if i := len(tcols) - 1; i < len(r) {
				w = max(w, len(r[i])+2)
			}
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		cells := make([]string, 0, len(tcols))
		cells = append(cells, fmt.Sprintf("%d", i+1))
		cells = append(cells, r...)
		// Normalize each row to match the number of table columns
		if len(cells) < len(tcols) {
			cells = append(cells, make([]string, len(tcols)-len(cells))...)
		} else if len(cells) > len(tcols) {
			cells = cells[:len(tcols)]
		}
		trows = append(trows, table.Row(cells))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes lists one row per region with the union of the
// property keys, or one row per label when no region is loaded.
func (m *Model) buildAttributes() ([]string, [][]string) {
	if m.mi == nil {
		return nil, nil
	}
	if len(m.mi.Regions) == 0 {
		cols := []string{"label", "x", "y", "color"}
		var rows [][]string
		for _, mk := range m.mi.Markers {
			el := mk.Label.Element
			rows = append(rows, []string{
				el.Text,
				fmt.Sprintf("%.2f", mk.Label.Position[0]),
				fmt.Sprintf("%.2f", mk.Label.Position[1]),
				el.Accent.String(),
			})
		}
		return cols, rows
	}

	// union property keys, sorted per region for a stable order
	order := []string{"name", "meshes", "center"}
	seen := map[string]bool{"name": true, "meshes": true, "center": true}
	for _, r := range m.mi.Regions {
		keys := make([]string, 0, len(r.Properties))
		for k := range r.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}
	rows := make([][]string, 0, len(m.mi.Regions))
	for _, r := range m.mi.Regions {
		vals := []string{
			r.Name,
			fmt.Sprintf("%d", len(r.Meshes)),
			fmt.Sprintf("%.4f,%.4f", r.Center.Lon(), r.Center.Lat()),
		}
		for _, k := range order[3:] {
			vals = append(vals, formatValue(r.Properties[k]))
		}
		rows = append(rows, vals)
	}
	return order, rows
}
