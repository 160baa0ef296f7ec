package session

import (
	"fmt"
	"strings"

	"meshview/internal/geom"
	"meshview/internal/mesh"
)

// VelocityField is shown in every tooltip when present.
const VelocityField = "vel"

// Tooltip assembles the hover text of a unit in the current mode: its id,
// its coordinates, the active field value and the velocity components.
func (s *Session) Tooltip(id int) (string, bool) {
	m := s.model
	if !m.Loaded() || id < 0 {
		return "", false
	}
	assoc := mesh.Element
	if s.mode.Mode() == VertexCentered {
		assoc = mesh.Vertex
	}
	if id >= m.UnitCount(assoc) {
		return "", false
	}

	var lines []string
	if assoc == mesh.Element {
		lines = append(lines, fmt.Sprintf("Zone: %d", id))
		for _, n := range m.ZoneNodes(id) {
			lines = append(lines, fmt.Sprintf("  %d: %s", n, s.formatCoord(m.Coord(n))))
		}
	} else {
		lines = append(lines, fmt.Sprintf("Node: %d", id), "  "+s.formatCoord(m.Coord(id)))
	}
	active := m.ActiveFieldType()
	if f, ok := m.Field(active); ok && f.Association == assoc {
		lines = append(lines, active+": "+formatValue(f, id))
	}
	if active != VelocityField {
		if f, ok := m.Field(VelocityField); ok && f.Vector() && f.Association == assoc {
			lines = append(lines, VelocityField+": "+formatValue(f, id))
		}
	}
	return strings.Join(lines, "\n"), true
}

// Pick returns the unit at data position pt: the zone whose shrunk polygon
// contains it, or in vertex mode the nearest node within tol (any distance
// when tol <= 0). It returns -1 when nothing is there.
func (s *Session) Pick(pt [2]float64, tol float64) int {
	m := s.model
	if !m.Loaded() {
		return -1
	}
	if s.mode.Mode() == ElementCentered {
		for z := range m.NumZones() {
			if geom.Contains(m.ZonePolygon(z), pt) {
				return z
			}
		}
		return -1
	}
	pts := make([][2]float64, m.NumNodes())
	for i, v := range m.Vertices() {
		pts[i] = v.Pos
	}
	i, d := geom.Nearest(pts, pt)
	if i >= 0 && tol > 0 && d > tol*tol {
		return -1
	}
	return i
}

func (s *Session) formatCoord(p [2]float64) string {
	dims := s.model.Dims()
	return fmt.Sprintf("%s=%g %s=%g", dims[0], p[0], dims[1], p[1])
}

func formatValue(f *mesh.Field, id int) string {
	if !f.Vector() {
		return fmt.Sprintf("%g", f.Values[id])
	}
	parts := make([]string, len(f.Components))
	for i, c := range f.Components {
		parts[i] = fmt.Sprintf("%s=%g", c.Name, c.Values[id])
	}
	return strings.Join(parts, " ")
}
