package tui

import (
	"fmt"
	"strings"

	key "github.com/charmbracelet/bubbles/key"
	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"meshview/internal/feed"
	"meshview/internal/session"
)

const (
	sidebarWidth = 28
	headerHeight = 1

	minZoom = 0.5
	maxZoom = 50
)

// FeedMsg carries one transport message into the program.
type FeedMsg feed.Message

// FeedDoneMsg reports that the source stopped, with its error if any.
type FeedDoneMsg struct{ Err error }

type layout struct {
	originX, originY int
	mapW, mapH       int
	contentW         int
	contentH         int
}

// layout computes the map rectangle. View and mouse handling must agree on
// it.
func (m Model) layout() layout {
	contentH := max(4, m.height-headerHeight-m.footerHeight())
	contentW := max(10, m.width)
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth + 1
	}
	return layout{
		originX:  sw,
		originY:  headerHeight,
		mapW:     max(10, contentW-sw-1),
		mapH:     contentH,
		contentW: contentW,
		contentH: contentH,
	}
}

// footerHeight is the status line plus the help block.
func (m Model) footerHeight() int {
	switch {
	case !m.helpVisible:
		return 1
	case m.help.ShowAll:
		rows := 0
		for _, col := range keys.FullHelp() {
			rows = max(rows, len(col))
		}
		return 1 + rows
	}
	return 2
}

// resize tells the session the map rectangle in microgrid pixels, which are
// square on a typical terminal font.
func (m *Model) resize() {
	l := m.layout()
	m.mapW, m.mapH = l.mapW, l.mapH
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, l.contentH-2)
	}
	m.sess.Handle(session.Resize{Width: float64(l.mapW * 2), Height: float64(l.mapH * 4)})
}

func eventOf(msg feed.Message) session.Event {
	switch {
	case msg.Err != nil:
		return session.Fault{Err: msg.Err}
	case msg.Load != nil:
		return session.Load{Msg: msg.Load}
	case msg.Delta != nil:
		return session.Delta{Msg: msg.Delta}
	}
	return nil
}

func (m *Model) handleFeed(msg feed.Message) {
	ev := eventOf(msg)
	if ev == nil {
		return
	}
	_ = m.sess.Handle(ev)
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
	case FeedMsg:
		m.handleFeed(feed.Message(msg))
		return m, nil
	case FeedDoneMsg:
		if msg.Err != nil {
			m.canvas.SetStatus("feed stopped: " + msg.Err.Error())
		} else {
			m.canvas.SetStatus("feed ended")
		}
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.showAttrs && msg.String() != "a" && msg.String() != "q" && msg.String() != "ctrl+c" {
			if msg.String() == "esc" {
				m.showAttrs = false
				return m, nil
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			m.sess.Handle(session.TogglePause{})
		case key.Matches(msg, keys.Field):
			m.cycleField()
		case key.Matches(msg, keys.Pick):
			m.pickField(int(msg.String()[0] - '1'))
		case key.Matches(msg, keys.ZoomIn):
			if m.zoom < maxZoom {
				m.zoom = min(maxZoom, m.zoom*1.2)
				m.canvas.SetStatus(fmt.Sprintf("zoom: %.2fx", m.zoom))
			}
		case key.Matches(msg, keys.ZoomOut):
			if m.zoom > minZoom {
				m.zoom = max(minZoom, m.zoom/1.2)
				m.canvas.SetStatus(fmt.Sprintf("zoom: %.2fx", m.zoom))
			}
		case key.Matches(msg, keys.Reset):
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.canvas.SetStatus("view reset")
		case key.Matches(msg, keys.Sidebar):
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
			}
			m.resize()
		case key.Matches(msg, keys.Paste):
			m.pasteMode = true
			m.ta.SetValue("")
			m.ta.Focus()
			m.canvas.SetStatus("paste mode")
		case key.Matches(msg, keys.Help):
			// short -> full -> hidden
			switch {
			case !m.helpVisible:
				m.helpVisible = true
			case !m.help.ShowAll:
				m.help.ShowAll = true
			default:
				m.helpVisible, m.help.ShowAll = false, false
			}
			m.resize()
		case key.Matches(msg, keys.Attrs):
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case key.Matches(msg, keys.Inspect):
			m.inspectCentre()
		case key.Matches(msg, keys.Open):
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case key.Matches(msg, keys.Up):
			m.offsetY -= 1
		case key.Matches(msg, keys.Down):
			m.offsetY += 1
		case key.Matches(msg, keys.Left):
			m.offsetX -= 2
		case key.Matches(msg, keys.Right):
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m.updateHover(msg.X, msg.Y)
		return m, nil
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.canvas.SetStatus("view mode")
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.ta.Value())
		if text == "" {
			m.canvas.SetStatus("paste: empty")
			return m, nil
		}
		if err := m.applyPasted([]byte(text)); err != nil {
			m.canvas.SetStatus("paste error: " + err.Error())
			return m, nil
		}
		m.selPath = ""
		m.zoom = 1.0
		m.offsetX, m.offsetY = 0, 0
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// applyPasted feeds a pasted update straight to the session; anything else
// must parse as a snapshot, legacy layout included.
func (m *Model) applyPasted(data []byte) error {
	msg, err := feed.Decode(data)
	if err == nil && msg.Delta != nil {
		m.handleFeed(msg)
		return nil
	}
	load, err := feed.ParseSnapshot(data)
	if err != nil {
		return err
	}
	m.handleFeed(feed.Message{Load: load})
	return nil
}

func (m *Model) cycleField() {
	names := m.sess.ListFieldTypes()
	if len(names) == 0 {
		m.canvas.SetStatus("no fields")
		return
	}
	next := 0
	for i, n := range names {
		if n == m.sess.ActiveFieldType() {
			next = (i + 1) % len(names)
			break
		}
	}
	m.sess.Handle(session.SwitchField{Name: names[next]})
}

func (m *Model) pickField(i int) {
	names := m.sess.ListFieldTypes()
	if i < 0 || i >= len(names) {
		m.canvas.SetStatus(fmt.Sprintf("no field %d", i+1))
		return
	}
	m.sess.Handle(session.SwitchField{Name: names[i]})
}

// inspectCentre shows the tooltip of the unit under the map centre.
func (m *Model) inspectCentre() {
	m.hovering = false
	p, ok := m.cellToData(m.mapW/2, m.mapH/2, m.mapW, m.mapH)
	if !ok {
		m.canvas.SetStatus("nothing to inspect")
		return
	}
	id := m.sess.Pick(p, 0)
	m.sess.Handle(session.Hover{Unit: id})
	if id < 0 {
		m.canvas.SetStatus("no unit at centre")
	}
}

func (m *Model) updateHover(x, y int) {
	l := m.layout()
	cx, cy := x-l.originX, y-l.originY
	if m.pasteMode || m.showAttrs || cx < 0 || cx >= l.mapW || cy < 0 || cy >= l.mapH {
		if m.hovering {
			m.hovering = false
			m.hoverHasPos = false
			m.sess.Handle(session.Hover{Unit: -1})
		}
		return
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx, cy
	p, ok := m.cellToData(cx, cy, l.mapW, l.mapH)
	m.hoverHasPos = ok
	if !ok {
		return
	}
	m.hoverPos = p
	id := m.sess.Pick(p, m.cellTolerance(l.mapW))
	if id != m.sess.Hovered() {
		m.sess.Handle(session.Hover{Unit: id})
	}
}
