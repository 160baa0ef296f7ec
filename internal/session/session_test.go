package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"meshview/internal/geom"
	"meshview/internal/mesh"
)

type fakeRenderer struct {
	zones   []ZoneShape
	verts   []VertexShape
	vb      geom.ViewBox
	tooltip string
	clears  int
	status  string
}

func (f *fakeRenderer) Clear() {
	f.clears++
	f.zones, f.verts = nil, nil
}
func (f *fakeRenderer) DrawZones(z []ZoneShape)      { f.zones = z }
func (f *fakeRenderer) DrawVertices(v []VertexShape) { f.verts = v }
func (f *fakeRenderer) SetViewBox(vb geom.ViewBox)   { f.vb = vb }
func (f *fakeRenderer) ShowTooltip(text string)      { f.tooltip = text }
func (f *fakeRenderer) SetStatus(msg string)         { f.status = msg }

// twoQuads is a 3x2 node grid split into two unit quads, with an element
// field "pressure" and vertex fields "temp" and "vel".
func twoQuads() *mesh.Load {
	var fields mesh.FieldSet
	fields.Add("pressure", mesh.FieldSpec{Association: mesh.Element, Values: mesh.Scalar(1, 3)})
	fields.Add("temp", mesh.FieldSpec{Association: mesh.Vertex, Values: mesh.Scalar(0, 1, 2, 3, 4, 5)})
	fields.Add("vel", mesh.FieldSpec{Association: mesh.Vertex, Values: mesh.FieldValues{Components: []mesh.Component{
		{Name: "x", Values: []float64{1, 1, 1, 1, 1, 1}},
		{Name: "y", Values: []float64{0, 0, 0, 0, 0, 0}},
	}}})
	return mesh.NewLoad(map[string][]float64{
		"x": {0, 1, 2, 0, 1, 2},
		"y": {0, 0, 0, 1, 1, 1},
	}, "quad", []int{0, 1, 4, 3, 1, 2, 5, 4}, fields)
}

func newTestSession(t *testing.T) (*Session, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{}
	s := New(r, r, Options{})
	if err := s.Handle(Resize{Width: 200, Height: 100}); err != nil {
		t.Fatal(err)
	}
	return s, r
}

func load(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Handle(Load{Msg: twoQuads()}); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoadDrawsActiveField(t *testing.T) {
	s, r := newTestSession(t)
	load(t, s)

	if s.Mode() != ElementCentered || s.ActiveFieldType() != "pressure" {
		t.Fatalf("mode %v, active %q", s.Mode(), s.ActiveFieldType())
	}
	if len(r.zones) != 2 || len(r.verts) != 0 {
		t.Fatalf("drew %d zones and %d vertices", len(r.zones), len(r.verts))
	}
	if got := []string{r.zones[0].Color, r.zones[1].Color}; !cmp.Equal(got, []string{"#FA8383", "#FFE4B3"}) {
		t.Errorf("zone colours = %v, want palette ends", got)
	}
	if z := r.zones[0]; z.ID != 0 || len(z.Points) != 4 || !strings.HasPrefix(z.Path, "M") || !strings.HasSuffix(z.Path, "Z") {
		t.Errorf("zone 0 = %+v", r.zones[0])
	}
	// 2x1 mesh in a 2:1 display fills it exactly
	if diff := cmp.Diff(geom.ViewBox{0, -1, 2, 1}, r.vb); diff != "" {
		t.Errorf("view box mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(r.status, "loaded:") {
		t.Errorf("status = %q", r.status)
	}
}

func TestSwitchField(t *testing.T) {
	s, r := newTestSession(t)
	load(t, s)
	clears := r.clears

	if err := s.Handle(SwitchField{Name: "temp"}); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != VertexCentered || len(r.verts) != 6 || len(r.zones) != 0 {
		t.Fatalf("mode %v with %d vertices and %d zones", s.Mode(), len(r.verts), len(r.zones))
	}
	if r.clears != clears+1 {
		t.Errorf("switch cleared %d times, want 1", r.clears-clears)
	}
	if r.verts[0].Color != "#FA8383" || r.verts[5].Color != "#FFE4B3" {
		t.Errorf("vertex colours %s..%s", r.verts[0].Color, r.verts[5].Color)
	}
	if r.verts[0].R != DefaultVertexRadius*2 {
		t.Errorf("vertex radius = %g, want %g", r.verts[0].R, DefaultVertexRadius*2)
	}

	if err := s.Handle(SwitchField{Name: "vel"}); err != nil {
		t.Fatal(err)
	}
	for _, v := range r.verts {
		if v.Color != NeutralColor {
			t.Fatalf("vector field vertex coloured %s", v.Color)
		}
	}
}

func TestSwitchFieldRejected(t *testing.T) {
	s, r := newTestSession(t)
	load(t, s)
	clears := r.clears

	err := s.Handle(SwitchField{Name: "density"})
	if !errors.Is(err, mesh.ErrUnsupportedField) {
		t.Fatalf("error = %v, want ErrUnsupportedField", err)
	}
	if s.ActiveFieldType() != "pressure" || s.Mode() != ElementCentered || r.clears != clears {
		t.Errorf("rejected switch changed state")
	}
	if !strings.HasPrefix(r.status, "switch rejected:") {
		t.Errorf("status = %q", r.status)
	}
}

func TestDeltaRecolours(t *testing.T) {
	s, r := newTestSession(t)
	load(t, s)

	var fields mesh.FieldSet
	fields.Add("pressure", mesh.FieldSpec{Association: mesh.Element, Values: mesh.Scalar(5, 4)})
	if err := s.Handle(Delta{Msg: &mesh.Delta{Fields: &fields}}); err != nil {
		t.Fatal(err)
	}
	if r.zones[0].Color != "#FFE4B3" || r.zones[1].Color != "#FA8383" {
		t.Errorf("colours after delta = %s, %s", r.zones[0].Color, r.zones[1].Color)
	}
	if s.Updates() != 1 || r.status != "live: update 1" {
		t.Errorf("updates %d, status %q", s.Updates(), r.status)
	}
}

func TestPremature(t *testing.T) {
	s, r := newTestSession(t)
	err := s.Handle(Delta{Msg: &mesh.Delta{}})
	if !errors.Is(err, mesh.ErrPrematureUpdate) {
		t.Fatalf("error = %v", err)
	}
	if !strings.HasPrefix(r.status, "update dropped:") {
		t.Errorf("status = %q", r.status)
	}
}

func TestPauseDropsDeltas(t *testing.T) {
	s, r := newTestSession(t)
	load(t, s)
	if err := s.Handle(TogglePause{}); err != nil {
		t.Fatal(err)
	}
	if !s.Paused() || r.status != "updates paused" {
		t.Fatalf("paused %v, status %q", s.Paused(), r.status)
	}

	var fields mesh.FieldSet
	fields.Add("pressure", mesh.FieldSpec{Association: mesh.Element, Values: mesh.Scalar(5, 4)})
	if err := s.Handle(Delta{Msg: &mesh.Delta{Fields: &fields}}); err != nil {
		t.Fatal(err)
	}
	if s.Updates() != 0 || r.zones[0].Color != "#FA8383" {
		t.Error("paused session applied a delta")
	}

	s.Handle(TogglePause{})
	if s.Paused() || r.status != "updates live" {
		t.Errorf("paused %v, status %q", s.Paused(), r.status)
	}
}

func TestFailedLoadKeepsState(t *testing.T) {
	s, r := newTestSession(t)
	load(t, s)

	bad := twoQuads()
	bad.Topologies.Mesh.Elements.Shape = "blob"
	err := s.Handle(Load{Msg: bad})
	if !errors.Is(err, mesh.ErrUnknownShape) {
		t.Fatalf("error = %v", err)
	}
	if len(r.zones) != 2 || s.Model().NumZones() != 2 {
		t.Error("failed load discarded the previous mesh")
	}
	if !strings.HasPrefix(r.status, "load error:") {
		t.Errorf("status = %q", r.status)
	}
}

func TestHoverTooltip(t *testing.T) {
	s, r := newTestSession(t)
	load(t, s)

	id := s.Pick([2]float64{1.5, 0.5}, 0)
	if id != 1 {
		t.Fatalf("Pick = %d, want zone 1", id)
	}
	s.Handle(Hover{Unit: id})
	want := strings.Join([]string{
		"Zone: 1",
		"  1: x=1 y=0",
		"  2: x=2 y=0",
		"  5: x=2 y=1",
		"  4: x=1 y=1",
		"pressure: 3",
	}, "\n")
	if r.tooltip != want {
		t.Errorf("tooltip = %q\nwant %q", r.tooltip, want)
	}
	// the gap between shrunk zones belongs to neither
	if got := s.Pick([2]float64{1, 0.5}, 0); got != -1 {
		t.Errorf("Pick(gap) = %d, want -1", got)
	}

	s.Handle(SwitchField{Name: "temp"})
	id = s.Pick([2]float64{1.9, 0.1}, 0.5)
	if id != 2 {
		t.Fatalf("vertex Pick = %d, want 2", id)
	}
	s.Handle(Hover{Unit: id})
	want = "Node: 2\n  x=2 y=0\ntemp: 2\nvel: x=1 y=0"
	if r.tooltip != want {
		t.Errorf("tooltip = %q\nwant %q", r.tooltip, want)
	}
	if got := s.Pick([2]float64{10, 10}, 0.5); got != -1 {
		t.Errorf("far Pick = %d, want -1", got)
	}

	s.Handle(Hover{Unit: -1})
	if r.tooltip != "" || s.Hovered() != -1 {
		t.Errorf("tooltip %q after leaving", r.tooltip)
	}
}

func TestFaultReachesStatus(t *testing.T) {
	s, r := newTestSession(t)
	err := s.Handle(Fault{Err: errors.New("connection lost")})
	if err == nil || r.status != "error: connection lost" {
		t.Errorf("err %v, status %q", err, r.status)
	}
}
