package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type brailleBuf struct {
	w, h int        // in cells
	m    [][]uint8  // per-cell 8-bit mask
	c    [][]string // per-cell colour, last writer wins
	text [][]rune   // overlay text, drawn over the dots
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	c := make([][]string, h)
	text := make([][]rune, h)
	for i := range m {
		m[i] = make([]uint8, w)
		c[i] = make([]string, w)
		text[i] = make([]rune, w)
	}
	return &brailleBuf{w: w, h: h, m: m, c: c, text: text}
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, color string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	b.m[cy][cx] |= bit
	b.c[cy][cx] = color
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, color string) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawRing outlines a closed polyline. One point is a dot, two a segment.
func (b *brailleBuf) drawRing(pts [][2]int, color string) {
	switch len(pts) {
	case 0:
		return
	case 1:
		b.setPixel(pts[0][0], pts[0][1], color)
		return
	case 2:
		b.drawLineMicro(pts[0][0], pts[0][1], pts[1][0], pts[1][1], color)
		return
	}
	for i := range pts {
		a := pts[i]
		c := pts[(i+1)%len(pts)]
		b.drawLineMicro(a[0], a[1], c[0], c[1], color)
	}
}

// fillPolygon fills a ring using the even-odd rule per micro scanline.
func (b *brailleBuf) fillPolygon(ring [][2]int, color string) {
	if len(ring) < 3 {
		return
	}
	yMin, yMax := ring[0][1], ring[0][1]
	for _, p := range ring {
		yMin = min(yMin, p[1])
		yMax = max(yMax, p[1])
	}
	yMin = max(yMin, 0)
	yMax = min(yMax, b.h*4-1)
	var xs []int
	for yMic := yMin; yMic <= yMax; yMic++ {
		xs = xs[:0]
		for i := range ring {
			a := ring[i]
			c := ring[(i+1)%len(ring)]
			if a[1] == c[1] { // horizontal edge: skip
				continue
			}
			y0, y1 := a[1], c[1]
			x0, x1 := a[0], c[0]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				t := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(x0)+t*float64(x1-x0)))
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= min(xs[i+1], b.w*2-1); xMic++ {
				b.setPixel(xMic, yMic, color)
			}
		}
	}
}

// fillDisc sets every micro-pixel within r of (cx, cy).
func (b *brailleBuf) fillDisc(cx, cy, r int, color string) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				b.setPixel(cx+dx, cy+dy, color)
			}
		}
	}
}

// overlay writes text lines with their top-left corner at cell (x, y).
func (b *brailleBuf) overlay(x, y int, lines []string) {
	for i, line := range lines {
		row := y + i
		if row < 0 || row >= b.h {
			continue
		}
		col := x
		for _, r := range line {
			if col >= 0 && col < b.w {
				b.text[row][col] = r
			}
			col++
		}
	}
}

func (b *brailleBuf) toLines() []string {
	styles := map[string]lipgloss.Style{}
	paint := func(sb *strings.Builder, run []rune, color string) {
		if len(run) == 0 {
			return
		}
		if color == "" {
			sb.WriteString(string(run))
			return
		}
		st, ok := styles[color]
		if !ok {
			st = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			styles[color] = st
		}
		sb.WriteString(st.Render(string(run)))
	}

	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		var run []rune
		runColor := ""
		for x := 0; x < b.w; x++ {
			ch, color := ' ', ""
			switch {
			case b.text[y][x] != 0:
				ch, color = b.text[y][x], overlayColor
			case b.m[y][x] != 0:
				ch, color = rune(0x2800+int(b.m[y][x])), b.c[y][x]
			}
			if color != runColor {
				paint(&sb, run, runColor)
				run, runColor = run[:0], color
			}
			run = append(run, ch)
		}
		paint(&sb, run, runColor)
		out[y] = sb.String()
	}
	return out
}
