package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	// Header
	header := titleStyle.Render(" meshview ─ live unstructured mesh viewer ")
	header = lipgloss.NewStyle().Width(l.contentW).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, l.contentW-6)
		}
		maxW := min(l.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(l.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(l.mapW, l.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(l.mapW)
		m.ta.SetHeight(min(l.mapH, 12))
		mapView = lipgloss.NewStyle().Width(l.mapW).Height(l.mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(l.mapW).Height(l.mapH).Render(m.renderMesh(l.mapW, l.mapH))
	}

	// Body row
	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	footer := m.renderStatusLine(l.contentW)
	if m.helpVisible {
		help := lipgloss.NewStyle().Width(l.contentW).MaxHeight(m.footerHeight() - 1).Render(" " + m.help.View(keys))
		footer = lipgloss.JoinVertical(lipgloss.Left, footer, help)
	}

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(l.contentW).Height(m.height).Render(ui)
}

// renderStatusLine shows the gate, the status message and the field list on
// the left, the hovered data position on the right.
func (m Model) renderStatusLine(width int) string {
	gate := liveStyle.Render(" LIVE ")
	if m.sess.Paused() {
		gate = pausedStyle.Render(" PAUSED ")
	}
	status := dimStyle.Render(" " + m.canvas.status + " ")

	var fields []string
	active := m.sess.ActiveFieldType()
	for i, name := range m.sess.ListFieldTypes() {
		label := fmt.Sprintf("%d:%s", i+1, name)
		if name == active {
			label = activeStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		fields = append(fields, label)
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, gate, status, strings.Join(fields, " "))

	coords := ""
	if m.hoverHasPos {
		dims := m.sess.Model().Dims()
		coords = dimStyle.Render(fmt.Sprintf("  %s=%.4g %s=%.4g  ", dims[0], m.hoverPos[0], dims[1], m.hoverPos[1]))
	}
	spacerW := max(0, width-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	return lipgloss.NewStyle().Width(width).MaxHeight(1).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))
}
