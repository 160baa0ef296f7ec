package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"meshview/internal/feed"
	"meshview/internal/session"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.canvas.SetStatus("read dir error: " + err.Error())
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := strings.ToLower(filepath.Ext(name)); ext == ".json" {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.canvas.SetStatus("no snapshots in current directory")
	}
}

// loadPath loads a snapshot file, blueprint or legacy, as a full load.
func (m *Model) loadPath(p string) {
	load, err := feed.ReadFile(p)
	if err != nil {
		m.canvas.SetStatus("load error: " + err.Error())
		return
	}
	if err := m.sess.Handle(session.Load{Msg: load}); err != nil {
		return
	}
	m.selPath = p
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.canvas.SetStatus(filepath.Base(p) + ": " + m.canvas.status)
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}
