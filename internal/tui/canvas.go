package tui

import (
	"meshview/internal/geom"
	"meshview/internal/session"
)

// Canvas records what the session last drew. View rasterises it on every
// frame, so it is shared by pointer between copies of Model.
type Canvas struct {
	zones   []session.ZoneShape
	verts   []session.VertexShape
	vb      geom.ViewBox
	tooltip string
	status  string
}

func (c *Canvas) Clear() {
	c.zones = nil
	c.verts = nil
}

func (c *Canvas) DrawZones(zones []session.ZoneShape) { c.zones = zones }

func (c *Canvas) DrawVertices(verts []session.VertexShape) { c.verts = verts }

func (c *Canvas) SetViewBox(vb geom.ViewBox) { c.vb = vb }

func (c *Canvas) ShowTooltip(text string) { c.tooltip = text }

func (c *Canvas) SetStatus(msg string) { c.status = msg }

// Empty reports whether nothing can be projected yet.
func (c *Canvas) Empty() bool {
	return c.vb[2] <= 0 || c.vb[3] <= 0 || (len(c.zones) == 0 && len(c.verts) == 0)
}
