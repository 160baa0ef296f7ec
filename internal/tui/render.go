package tui

import (
	"math"
	"strings"

	"meshview/internal/session"
)

// project maps a data point into the 2x4 microgrid of a w x h cell map. The
// view box is in screen orientation, so data y is negated before
// normalising. Zoom is applied around the map centre, then the pan offset.
func (m Model) project(p [2]float64, w, h int) (int, int, bool) {
	vb := m.canvas.vb
	if vb[2] <= 0 || vb[3] <= 0 || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	nx := (p[0] - vb[0]) / vb[2]
	ny := (-p[1] - vb[1]) / vb[3]
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic, hMic := w*2, h*4
	sx := int(math.Round(zx*float64(wMic-1))) + m.offsetX*2
	sy := int(math.Round(zy*float64(hMic-1))) + m.offsetY*4
	return sx, sy, true
}

// unproject is the inverse of project for a microgrid position.
func (m Model) unproject(mx, my, w, h int) ([2]float64, bool) {
	vb := m.canvas.vb
	if vb[2] <= 0 || vb[3] <= 0 || w <= 1 || h <= 1 {
		return [2]float64{}, false
	}
	wMic, hMic := w*2, h*4
	zx := float64(mx-m.offsetX*2) / float64(wMic-1)
	zy := float64(my-m.offsetY*4) / float64(hMic-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	return [2]float64{vb[0] + nx*vb[2], -(vb[1] + ny*vb[3])}, true
}

// cellToData converts a map cell to the data position under its centre.
func (m Model) cellToData(cx, cy, w, h int) ([2]float64, bool) {
	return m.unproject(cx*2+1, cy*4+2, w, h)
}

// cellTolerance is the data distance spanned by one map cell.
func (m Model) cellTolerance(w int) float64 {
	if w <= 1 {
		return 0
	}
	return 2 * m.canvas.vb[2] / (float64(w*2-1) * m.zoom)
}

func (m Model) microRadius(r float64, w int) int {
	if m.canvas.vb[2] <= 0 {
		return 0
	}
	return int(math.Round(r / m.canvas.vb[2] * float64(w*2-1) * m.zoom))
}

func (m Model) projectRing(pts [][2]float64, w, h int) [][2]int {
	ring := make([][2]int, 0, len(pts))
	for _, p := range pts {
		if x, y, ok := m.project(p, w, h); ok {
			ring = append(ring, [2]int{x, y})
		}
	}
	return ring
}

// renderMesh rasterises the canvas: zones filled then outlined in their
// colour, vertices as discs, the hovered unit in the highlight colour and
// the tooltip box on top.
func (m Model) renderMesh(w, h int) string {
	br := newBrailleBuf(w, h)
	c := m.canvas
	if c.Empty() {
		return strings.Join(br.toLines(), "\n")
	}

	for _, z := range c.zones {
		ring := m.projectRing(z.Points, w, h)
		br.fillPolygon(ring, z.Color)
		br.drawRing(ring, z.Color)
	}
	for _, v := range c.verts {
		if x, y, ok := m.project([2]float64{v.X, v.Y}, w, h); ok {
			br.fillDisc(x, y, m.microRadius(v.R, w), v.Color)
		}
	}

	if id := m.sess.Hovered(); id >= 0 {
		switch m.sess.Mode() {
		case session.ElementCentered:
			if id < len(c.zones) {
				br.drawRing(m.projectRing(c.zones[id].Points, w, h), hoverColor)
			}
		case session.VertexCentered:
			if id < len(c.verts) {
				v := c.verts[id]
				if x, y, ok := m.project([2]float64{v.X, v.Y}, w, h); ok {
					br.fillDisc(x, y, m.microRadius(v.R, w)+1, hoverColor)
				}
			}
		}
	}

	if c.tooltip != "" {
		box := boxLines(c.tooltip)
		bw, bh := len([]rune(box[0])), len(box)
		ax, ay := w/2, h/2
		if m.hovering {
			ax, ay = m.hoverCellX, m.hoverCellY
		}
		x := clamp(ax-bw/2, 0, max(0, w-bw))
		y := ay - bh - 1
		if y < 0 {
			y = ay + 2
		}
		y = clamp(y, 0, max(0, h-bh))
		br.overlay(x, y, box)
	}
	return strings.Join(br.toLines(), "\n")
}
