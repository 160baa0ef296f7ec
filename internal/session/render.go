package session

import "meshview/internal/geom"

// ZoneShape is one shrunk zone polygon ready for drawing. Path is the closed
// polyline in SVG syntax; Points carries the same vertices.
type ZoneShape struct {
	ID     int
	Path   string
	Points [][2]float64
	Color  string
}

// VertexShape is one node drawn as a disc of radius R.
type VertexShape struct {
	ID    int
	X, Y  float64
	R     float64
	Color string
}

// Renderer draws what the session derives. Clear tears down everything
// drawn so far; Draw calls replace the previous set of the same kind.
type Renderer interface {
	Clear()
	DrawZones(zones []ZoneShape)
	DrawVertices(verts []VertexShape)
	SetViewBox(vb geom.ViewBox)
	ShowTooltip(text string)
}

// Status receives one-line status and error reports.
type Status interface {
	SetStatus(msg string)
}
