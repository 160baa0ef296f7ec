package mesh

import "meshview/internal/geom"

// DefaultShrink leaves a visible gap between neighbouring zones.
const DefaultShrink = 0.9

func (m *Model) Shrink() float64 { return m.shrink }

// Centroid returns the mean position of zone z's nodes. It is cached until
// connectivity or coordinates change.
func (m *Model) Centroid(z int) [2]float64 {
	c := &m.cache[z]
	if !c.ok {
		c.mid = geom.Centroid(m.zonePoints(z))
		c.ok = true
	}
	return c.mid
}

// ZonePolygon returns zone z's nodes pulled towards its centroid, in
// connectivity order. The polygon is closed: the last point joins the first.
func (m *Model) ZonePolygon(z int) [][2]float64 {
	mid := m.Centroid(z)
	pts := m.zonePoints(z)
	for i, p := range pts {
		pts[i] = geom.ShrinkVertex(mid, p, m.shrink)
	}
	return pts
}

// VertexPosition returns the raw position of a node.
func (m *Model) VertexPosition(node int) [2]float64 { return m.vertices[node].Pos }

// Bounds scans the current node coordinates.
func (m *Model) Bounds() geom.BBox { return geom.Bounds(m.coords[0], m.coords[1]) }

func (m *Model) zonePoints(z int) [][2]float64 {
	ids := m.ZoneNodes(z)
	pts := make([][2]float64, len(ids))
	for i, id := range ids {
		pts[i] = m.vertices[id].Pos
	}
	return pts
}
