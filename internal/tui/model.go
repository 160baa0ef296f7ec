package tui

import (
	"os"

	help "github.com/charmbracelet/bubbles/help"
	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"meshview/internal/session"
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	sess   *session.Session
	canvas *Canvas
	help   help.Model

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// last laid out map size, in cells
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasPos bool
	hoverPos    [2]float64

	// field table
	showAttrs bool
	tbl       table.Model
}

func New(opts session.Options) Model {
	c := &Canvas{status: "meshview ready"}
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		canvas:      c,
		sess:        session.New(c, c, opts),
		help:        help.New(),
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Snapshots"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste a snapshot or update message (JSON). Press Enter to apply; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a snapshot file at launch.
func NewWithPath(opts session.Options, path string) Model {
	m := New(opts)
	m.loadPath(path)
	return m
}

// Session exposes the underlying session, mainly for tests.
func (m Model) Session() *session.Session { return m.sess }

func (m Model) Init() tea.Cmd { return nil }
