package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"meshview/internal/mesh"
	"meshview/internal/session"
)

// refreshAttrsFromCurrent rebuilds the value table for the association of
// the active field.
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := m.buildAttributes()
	// If there are no columns or rows, disable the table view to avoid rendering panics
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.canvas.SetStatus("no field values for current mesh")
		return
	}
	tcols := make([]table.Column, 0, len(cols))
	maxColW := 24
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(maxColW, max(len(c)+2, 10))})
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		trows = append(trows, table.Row(r))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes lists one row per unit with every field sharing the
// active field's association. Vector fields expand to one column per
// component; the last column is the unit colour.
func (m *Model) buildAttributes() ([]string, [][]string) {
	model := m.sess.Model()
	active, ok := model.Field(m.sess.ActiveFieldType())
	if !ok {
		return nil, nil
	}
	unit := "zone"
	if active.Association == mesh.Vertex {
		unit = "node"
	}
	var fields []*mesh.Field
	cols := []string{unit}
	for _, name := range model.Associations()[active.Association] {
		f, _ := model.Field(name)
		fields = append(fields, f)
		if !f.Vector() {
			cols = append(cols, name)
			continue
		}
		for _, c := range f.Components {
			cols = append(cols, name+"."+c.Name)
		}
	}
	cols = append(cols, "colour")

	n := model.UnitCount(active.Association)
	rows := make([][]string, 0, n)
	for id := range n {
		row := make([]string, 0, len(cols))
		row = append(row, fmt.Sprintf("%d", id))
		for _, f := range fields {
			if !f.Vector() {
				row = append(row, fmt.Sprintf("%g", f.Values[id]))
				continue
			}
			for _, c := range f.Components {
				row = append(row, fmt.Sprintf("%g", c.Values[id]))
			}
		}
		color, err := m.sess.ColorOf(active.Name, id)
		if err != nil {
			color = session.NeutralColor
		}
		rows = append(rows, append(row, color))
	}
	return cols, rows
}
