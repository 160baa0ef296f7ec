// Package session ties one mesh model to one renderer. All state changes go
// through Handle, one event at a time.
package session

import (
	"errors"
	"fmt"
	"log"
	"math"

	"meshview/internal/colormap"
	"meshview/internal/geom"
	"meshview/internal/mesh"
)

// NeutralColor paints units of fields that have no colour map.
const NeutralColor = "#E6E6E6"

// DefaultVertexRadius is the vertex disc radius as a fraction of the larger
// side of the mesh bounds.
const DefaultVertexRadius = 0.005

type Options struct {
	Shrink         float64
	Palette        []string
	NonNegativeMin bool
	VertexRadius   float64
}

// Session owns the model and everything derived from it for one mesh view.
type Session struct {
	model  *mesh.Model
	mode   ViewMode
	colors *colormap.Mapper
	view   geom.Viewport

	rectW, rectH float64
	vertexRadius float64

	render Renderer
	status Status

	hover   int
	updates int
}

func New(r Renderer, st Status, opts Options) *Session {
	if opts.VertexRadius <= 0 {
		opts.VertexRadius = DefaultVertexRadius
	}
	return &Session{
		model:        mesh.NewModel(nil, opts.Shrink),
		colors:       colormap.NewMapper(opts.Palette, opts.NonNegativeMin),
		vertexRadius: opts.VertexRadius,
		render:       r,
		status:       st,
		hover:        -1,
	}
}

// Handle applies one event. Errors are reported to the status line and the
// log before being returned.
func (s *Session) Handle(ev Event) error {
	var err error
	switch ev := ev.(type) {
	case Load:
		err = s.load(ev.Msg)
	case Delta:
		err = s.delta(ev.Msg)
	case SwitchField:
		err = s.switchField(ev.Name)
	case TogglePause:
		s.togglePause()
	case Resize:
		s.resize(ev.Width, ev.Height)
	case Hover:
		s.hoverUnit(ev.Unit)
	case Fault:
		err = ev.Err
	default:
		err = fmt.Errorf("unhandled event %T", ev)
	}
	if err != nil {
		s.report(err)
	}
	return err
}

func (s *Session) Model() *mesh.Model { return s.model }

func (s *Session) Mode() Mode { return s.mode.Mode() }

func (s *Session) ListFieldTypes() []string { return s.model.FieldTypes() }

func (s *Session) ActiveFieldType() string { return s.model.ActiveFieldType() }

func (s *Session) Paused() bool { return s.model.Gate().Paused() }

func (s *Session) ViewBox() geom.ViewBox { return s.view.Box() }

// Updates counts the deltas applied since the last full load.
func (s *Session) Updates() int { return s.updates }

// Hovered is the unit last reported by a Hover event, -1 for none.
func (s *Session) Hovered() int { return s.hover }

// ColorOf evaluates the colour map of field name at unit id.
func (s *Session) ColorOf(name string, id int) (string, error) {
	return s.colors.ColorOf(name, id)
}

func (s *Session) load(msg *mesh.Load) error {
	if err := s.model.LoadFull(msg); err != nil {
		return err
	}
	s.mode.Init(s.model)
	s.view.Reset()
	s.hover = -1
	s.updates = 0
	s.render.Clear()
	s.render.ShowTooltip("")
	if err := s.computeColor(); err != nil {
		return err
	}
	s.draw()
	s.fit()
	s.status.SetStatus(fmt.Sprintf("loaded: %d nodes, %d %s zones, field %s",
		s.model.NumNodes(), s.model.NumZones(), s.model.Shape(), s.describeActive()))
	return nil
}

func (s *Session) delta(msg *mesh.Delta) error {
	applied, err := s.model.ApplyDelta(msg)
	if err != nil || !applied {
		return err
	}
	s.updates++
	if err := s.computeColor(); err != nil {
		return err
	}
	s.draw()
	s.fit()
	if s.hover >= 0 {
		s.hoverUnit(s.hover)
	}
	s.status.SetStatus(fmt.Sprintf("live: update %d", s.updates))
	return nil
}

func (s *Session) switchField(name string) error {
	if err := s.mode.Switch(s.model, name); err != nil {
		return err
	}
	s.render.Clear()
	s.hover = -1
	s.render.ShowTooltip("")
	s.draw()
	s.fit()
	s.status.SetStatus("field " + s.describeActive())
	return nil
}

func (s *Session) togglePause() {
	if s.model.Gate().Toggle() {
		s.status.SetStatus("updates paused")
	} else {
		s.status.SetStatus("updates live")
	}
}

func (s *Session) resize(w, h float64) {
	s.rectW, s.rectH = w, h
	if s.model.Loaded() {
		s.render.SetViewBox(s.view.Resize(w, h))
	}
}

func (s *Session) hoverUnit(id int) {
	s.hover = id
	text, ok := s.Tooltip(id)
	if !ok {
		s.hover = -1
	}
	s.render.ShowTooltip(text)
}

// computeColor rebuilds the map of every scalar field.
func (s *Session) computeColor() error {
	s.colors.Reset()
	for _, name := range s.model.FieldTypes() {
		f, _ := s.model.Field(name)
		if f.Vector() {
			continue
		}
		if err := s.colors.Build(name, f.Values); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) draw() {
	active := s.model.ActiveFieldType()
	switch s.mode.Mode() {
	case ElementCentered:
		zones := make([]ZoneShape, s.model.NumZones())
		for z := range zones {
			pts := s.model.ZonePolygon(z)
			zones[z] = ZoneShape{
				ID:     z,
				Path:   geom.PathData(pts),
				Points: pts,
				Color:  s.unitColor(active, z),
			}
		}
		s.render.DrawZones(zones)
	case VertexCentered:
		b := s.model.Bounds()
		r := s.vertexRadius * math.Max(b.Width(), b.Height())
		verts := make([]VertexShape, s.model.NumNodes())
		for i := range verts {
			p := s.model.VertexPosition(i)
			verts[i] = VertexShape{ID: i, X: p[0], Y: p[1], R: r, Color: s.unitColor(active, i)}
		}
		s.render.DrawVertices(verts)
	}
}

func (s *Session) unitColor(field string, id int) string {
	c, err := s.colors.ColorOf(field, id)
	if err != nil {
		return NeutralColor
	}
	return c
}

func (s *Session) fit() {
	s.render.SetViewBox(s.view.Fit(s.model.Bounds(), s.rectW, s.rectH))
}

func (s *Session) describeActive() string {
	name := s.model.ActiveFieldType()
	if name == "" {
		return "<none>"
	}
	return fmt.Sprintf("%s (%s)", name, s.mode.Mode())
}

func (s *Session) report(err error) {
	var prefix string
	switch {
	case errors.Is(err, mesh.ErrPrematureUpdate), errors.Is(err, mesh.ErrSchemaDrift):
		prefix = "update dropped"
	case errors.Is(err, mesh.ErrUnsupportedField):
		prefix = "switch rejected"
	case errors.Is(err, mesh.ErrUnknownShape),
		errors.Is(err, mesh.ErrMalformedConnectivity),
		errors.Is(err, mesh.ErrMalformedCoordinates),
		errors.Is(err, mesh.ErrMalformedField):
		prefix = "load error"
	default:
		prefix = "error"
	}
	msg := prefix + ": " + err.Error()
	log.Print(msg)
	s.status.SetStatus(msg)
}
