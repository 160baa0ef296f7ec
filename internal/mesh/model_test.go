package mesh

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Three unit quads in a row over a 4x2 node grid. Fields arrive in
// non-alphabetical order.
const stripJSON = `{
  "coordsets": {"coords": {"type": "explicit", "values": {
    "x": [0, 1, 2, 3, 0, 1, 2, 3],
    "y": [0, 0, 0, 0, 1, 1, 1, 1]}}},
  "topologies": {"mesh": {"type": "unstructured", "coordset": "coords",
    "elements": {"shape": "quad", "connectivity": [0,1,5,4, 1,2,6,5, 2,3,7,6]}}},
  "fields": {
    "vel": {"association": "vertex", "topology": "mesh",
      "values": {"y": [0,0,0,0,1,1,1,1], "x": [1,1,1,1,1,1,1,1]}},
    "pressure": {"association": "element", "topology": "mesh", "values": [1, 2, 3]},
    "temp": {"association": "vertex", "topology": "mesh", "values": [0,1,2,3,4,5,6,7]}
  }
}`

func stripLoad(t *testing.T) *Load {
	t.Helper()
	var l Load
	if err := json.Unmarshal([]byte(stripJSON), &l); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return &l
}

func loadedStrip(t *testing.T) *Model {
	t.Helper()
	m := NewModel(nil, 0)
	if err := m.LoadFull(stripLoad(t)); err != nil {
		t.Fatalf("LoadFull: %v", err)
	}
	return m
}

func TestArityOf(t *testing.T) {
	tests := []struct {
		shape string
		want  int
	}{
		{"point", 1}, {"line", 2}, {"tri", 3}, {"quad", 4}, {"tet", 4}, {"hex", 8},
	}
	for _, tt := range tests {
		got, err := ArityOf(tt.shape)
		if err != nil || got != tt.want {
			t.Errorf("ArityOf(%q) = %d, %v; want %d", tt.shape, got, err, tt.want)
		}
	}
	if _, err := ArityOf("pyramid"); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("ArityOf(pyramid) error = %v, want ErrUnknownShape", err)
	}
}

func TestLoadFull(t *testing.T) {
	m := loadedStrip(t)

	if m.NumNodes() != 8 || m.NumZones() != 3 || m.Arity() != 4 || m.Shape() != "quad" {
		t.Fatalf("got %d nodes, %d %s zones of arity %d", m.NumNodes(), m.NumZones(), m.Shape(), m.Arity())
	}
	if diff := cmp.Diff([]int{1, 2, 6, 5}, m.ZoneNodes(1)); diff != "" {
		t.Errorf("ZoneNodes(1) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"vel", "pressure", "temp"}, m.FieldTypes()); diff != "" {
		t.Errorf("FieldTypes mismatch (-want +got):\n%s", diff)
	}
	if got := m.ActiveFieldType(); got != "vel" {
		t.Errorf("ActiveFieldType = %q, want first delivered field", got)
	}
	assoc := m.Associations()
	if diff := cmp.Diff([]string{"vel", "temp"}, assoc[Vertex]); diff != "" {
		t.Errorf("vertex fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"pressure"}, assoc[Element]); diff != "" {
		t.Errorf("element fields mismatch (-want +got):\n%s", diff)
	}

	vel, _ := m.Field("vel")
	if !vel.Vector() || vel.Components[0].Name != "y" || vel.Components[1].Name != "x" {
		t.Errorf("vel components = %+v, want y then x", vel.Components)
	}
	if m.Coord(5) != [2]float64{1, 1} {
		t.Errorf("Coord(5) = %v, want [1 1]", m.Coord(5))
	}
	nodes := m.Vertices()
	if len(nodes) != 8 || nodes[5] != (Node{ID: 5, Pos: [2]float64{1, 1}}) {
		t.Errorf("node list = %+v", nodes)
	}
}

func TestLoadFullCopiesInput(t *testing.T) {
	l := stripLoad(t)
	m := NewModel(nil, 0)
	if err := m.LoadFull(l); err != nil {
		t.Fatal(err)
	}
	l.Coordsets.Coords.Values["x"][0] = 100
	l.Topologies.Mesh.Elements.Connectivity[0] = 7
	if m.Coord(0) != [2]float64{0, 0} || m.ZoneNodes(0)[0] != 0 {
		t.Error("model shares memory with the load message")
	}
}

func TestNormalizeDims(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		want    [2]string
		wantErr bool
	}{
		{"rz", []string{"r", "z"}, [2]string{"z", "r"}, false},
		{"xy", []string{"y", "x"}, [2]string{"x", "y"}, false},
		{"one axis", []string{"x"}, [2]string{}, true},
		{"three axes", []string{"x", "y", "z"}, [2]string{}, true},
		{"unknown axes", []string{"a", "b"}, [2]string{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := map[string][]float64{}
			for _, k := range tt.keys {
				values[k] = []float64{0}
			}
			got, err := normalizeDims(values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeDims error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedCoordinates) {
				t.Errorf("error %v is not ErrMalformedCoordinates", err)
			}
			if got != tt.want {
				t.Errorf("normalizeDims = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadFullRZ(t *testing.T) {
	l := NewLoad(map[string][]float64{
		"r": {0, 0, 1},
		"z": {0, 2, 0},
	}, "tri", []int{0, 1, 2}, FieldSet{})
	m := NewModel(nil, 0)
	if err := m.LoadFull(l); err != nil {
		t.Fatal(err)
	}
	if m.Dims() != [2]string{"z", "r"} {
		t.Errorf("Dims = %v, want [z r]", m.Dims())
	}
	// first dimension is z
	if m.Coord(1) != [2]float64{2, 0} {
		t.Errorf("Coord(1) = %v, want [2 0]", m.Coord(1))
	}
	if m.ActiveFieldType() != "" || len(m.FieldTypes()) != 0 {
		t.Errorf("fieldless mesh has active field %q", m.ActiveFieldType())
	}
	if m.Snapshot().Coordsets.Coords.System != "rz" {
		t.Errorf("snapshot system = %q, want rz", m.Snapshot().Coordsets.Coords.System)
	}
}

func TestLoadFullRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *Load)
		want   error
	}{
		{"unknown shape", func(l *Load) { l.Topologies.Mesh.Elements.Shape = "pyramid" }, ErrUnknownShape},
		{"partial element", func(l *Load) {
			c := &l.Topologies.Mesh.Elements.Connectivity
			*c = (*c)[:11]
		}, ErrMalformedConnectivity},
		{"node out of range", func(l *Load) { l.Topologies.Mesh.Elements.Connectivity[3] = 8 }, ErrMalformedConnectivity},
		{"negative node", func(l *Load) { l.Topologies.Mesh.Elements.Connectivity[0] = -1 }, ErrMalformedConnectivity},
		{"axis length mismatch", func(l *Load) { l.Coordsets.Coords.Values["y"] = []float64{0} }, ErrMalformedCoordinates},
		{"short element field", func(l *Load) {
			l.Fields.Add("pressure", FieldSpec{Association: Element, Values: Scalar(1, 2)})
		}, ErrMalformedField},
		{"short component", func(l *Load) {
			l.Fields.Add("vel", FieldSpec{Association: Vertex, Values: FieldValues{Components: []Component{{Name: "x", Values: []float64{1}}}}})
		}, ErrMalformedField},
		{"bad association", func(l *Load) {
			l.Fields.Add("temp", FieldSpec{Association: "face", Values: Scalar(0, 1, 2, 3, 4, 5, 6, 7)})
		}, ErrMalformedField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadedStrip(t)
			l := stripLoad(t)
			l.Coordsets.Coords.Values["x"][0] = -50
			tt.mutate(l)
			err := m.LoadFull(l)
			if !errors.Is(err, tt.want) {
				t.Fatalf("LoadFull error = %v, want %v", err, tt.want)
			}
			// previous state is intact
			if m.NumZones() != 3 || m.Coord(0) != [2]float64{0, 0} {
				t.Errorf("model changed by failed load: %d zones, node 0 at %v", m.NumZones(), m.Coord(0))
			}
		})
	}
}

func TestApplyDeltaBeforeLoad(t *testing.T) {
	m := NewModel(nil, 0)
	applied, err := m.ApplyDelta(&Delta{Connectivity: []int{0}})
	if applied || !errors.Is(err, ErrPrematureUpdate) {
		t.Errorf("ApplyDelta = %v, %v; want ErrPrematureUpdate", applied, err)
	}
}

func TestApplyDeltaPartial(t *testing.T) {
	m := loadedStrip(t)
	var fields FieldSet
	fields.Add("pressure", FieldSpec{Association: Element, Values: Scalar(10, 20, 30)})

	applied, err := m.ApplyDelta(&Delta{Fields: &fields})
	if err != nil || !applied {
		t.Fatalf("ApplyDelta = %v, %v", applied, err)
	}
	p, _ := m.Field("pressure")
	if diff := cmp.Diff([]float64{10, 20, 30}, p.Values); diff != "" {
		t.Errorf("pressure mismatch (-want +got):\n%s", diff)
	}
	temp, _ := m.Field("temp")
	if temp.Values[7] != 7 {
		t.Errorf("absent field changed: temp[7] = %g", temp.Values[7])
	}
	if m.Coord(3) != [2]float64{3, 0} {
		t.Errorf("absent coordinates changed: node 3 at %v", m.Coord(3))
	}
}

func TestApplyDeltaMovesNodes(t *testing.T) {
	m := loadedStrip(t)
	before := m.Centroid(0)
	if before != [2]float64{0.5, 0.5} {
		t.Fatalf("Centroid(0) = %v, want [0.5 0.5]", before)
	}

	xs := []float64{2, 3, 4, 5, 2, 3, 4, 5}
	if _, err := m.ApplyDelta(&Delta{Coords: map[string][]float64{"x": xs}}); err != nil {
		t.Fatal(err)
	}
	if got := m.Centroid(0); got != [2]float64{2.5, 0.5} {
		t.Errorf("Centroid(0) after move = %v, want [2.5 0.5]", got)
	}
	if got := m.Vertices()[4].Pos; got != [2]float64{2, 1} {
		t.Errorf("vertex 4 at %v, want [2 1]", got)
	}
	xs[0] = 99
	if m.Coord(0)[0] != 2 {
		t.Error("model shares memory with the delta")
	}

	if _, err := m.ApplyDelta(&Delta{Connectivity: []int{1, 2, 6, 5, 0, 1, 5, 4, 2, 3, 7, 6}}); err != nil {
		t.Fatal(err)
	}
	if got := m.Centroid(0); got != [2]float64{3.5, 0.5} {
		t.Errorf("Centroid(0) after reconnect = %v, want [3.5 0.5]", got)
	}
}

func TestApplyDeltaSchemaDrift(t *testing.T) {
	newField := func() *FieldSet {
		var fs FieldSet
		fs.Add("density", FieldSpec{Association: Element, Values: Scalar(1, 1, 1)})
		return &fs
	}
	kindChange := func() *FieldSet {
		var fs FieldSet
		fs.Add("pressure", FieldSpec{Association: Vertex, Values: Scalar(0, 0, 0, 0, 0, 0, 0, 0)})
		return &fs
	}
	vectorToScalar := func() *FieldSet {
		var fs FieldSet
		fs.Add("vel", FieldSpec{Association: Vertex, Values: Scalar(0, 0, 0, 0, 0, 0, 0, 0)})
		return &fs
	}
	tests := []struct {
		name  string
		delta *Delta
	}{
		{"fewer elements", &Delta{Connectivity: []int{0, 1, 5, 4}}},
		{"node out of range", &Delta{Connectivity: []int{0, 1, 5, 4, 1, 2, 6, 5, 2, 3, 7, 9}}},
		{"fewer nodes", &Delta{Coords: map[string][]float64{"x": {0, 1}}}},
		{"new axis", &Delta{Coords: map[string][]float64{"z": {0, 0, 0, 0, 0, 0, 0, 0}}}},
		{"new field", &Delta{Fields: newField()}},
		{"association change", &Delta{Fields: kindChange()}},
		{"vector to scalar", &Delta{Fields: vectorToScalar()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loadedStrip(t)
			// a valid part riding along must not be applied either
			tt.delta.Coords = mergeCoords(tt.delta.Coords, "y", []float64{5, 5, 5, 5, 6, 6, 6, 6})
			applied, err := m.ApplyDelta(tt.delta)
			if applied || !errors.Is(err, ErrSchemaDrift) {
				t.Fatalf("ApplyDelta = %v, %v; want ErrSchemaDrift", applied, err)
			}
			if m.Coord(0) != [2]float64{0, 0} {
				t.Errorf("rejected delta moved node 0 to %v", m.Coord(0))
			}
			if diff := cmp.Diff([]string{"vel", "pressure", "temp"}, m.FieldTypes()); diff != "" {
				t.Errorf("catalog changed (-want +got):\n%s", diff)
			}
		})
	}
}

func mergeCoords(c map[string][]float64, dim string, vals []float64) map[string][]float64 {
	if c == nil {
		c = map[string][]float64{}
	}
	if _, ok := c[dim]; !ok {
		c[dim] = vals
	}
	return c
}

func TestApplyDeltaPaused(t *testing.T) {
	gate := &Gate{}
	m := NewModel(gate, 0)
	if err := m.LoadFull(stripLoad(t)); err != nil {
		t.Fatal(err)
	}
	if !gate.Toggle() || gate.String() != "paused" {
		t.Fatalf("gate not paused after Toggle")
	}
	applied, err := m.ApplyDelta(&Delta{Coords: map[string][]float64{"x": {9, 9, 9, 9, 9, 9, 9, 9}}})
	if applied || err != nil {
		t.Errorf("paused ApplyDelta = %v, %v; want false, nil", applied, err)
	}
	if m.Coord(0)[0] != 0 {
		t.Error("paused model changed")
	}
	// pausing never hides a premature update
	if _, err := NewModel(gate, 0).ApplyDelta(&Delta{}); !errors.Is(err, ErrPrematureUpdate) {
		t.Errorf("paused premature update error = %v", err)
	}
	gate.Toggle()
	if applied, err := m.ApplyDelta(&Delta{Coords: map[string][]float64{"x": {9, 9, 9, 9, 9, 9, 9, 9}}}); !applied || err != nil {
		t.Errorf("live ApplyDelta = %v, %v", applied, err)
	}
}

func TestZonePolygon(t *testing.T) {
	m := loadedStrip(t)
	got := m.ZonePolygon(0)
	want := [][2]float64{{0.05, 0.05}, {0.95, 0.05}, {0.95, 0.95}, {0.05, 0.95}}
	approx := cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("ZonePolygon(0) mismatch (-want +got):\n%s", diff)
	}

	full := NewModel(nil, 1)
	if err := full.LoadFull(stripLoad(t)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][2]float64{{1, 0}, {2, 0}, {2, 1}, {1, 1}}, full.ZonePolygon(1)); diff != "" {
		t.Errorf("unshrunk ZonePolygon(1) mismatch (-want +got):\n%s", diff)
	}
}

func TestSetActiveField(t *testing.T) {
	m := loadedStrip(t)
	if err := m.SetActiveField("pressure"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetActiveField("nope"); !errors.Is(err, ErrUnsupportedField) {
		t.Errorf("SetActiveField(nope) error = %v", err)
	}
	if m.ActiveFieldType() != "pressure" {
		t.Errorf("rejected switch changed active field to %q", m.ActiveFieldType())
	}
}

func TestSnapshotReloads(t *testing.T) {
	m := loadedStrip(t)
	data, err := json.Marshal(m.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var l Load
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatal(err)
	}
	again := NewModel(nil, 0)
	if err := again.LoadFull(&l); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m.FieldTypes(), again.FieldTypes()); diff != "" {
		t.Errorf("field order lost (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m.Connectivity(), again.Connectivity()); diff != "" {
		t.Errorf("connectivity mismatch (-want +got):\n%s", diff)
	}
	v1, _ := m.Field("vel")
	v2, _ := again.Field("vel")
	if diff := cmp.Diff(v1, v2); diff != "" {
		t.Errorf("vector field mismatch (-want +got):\n%s", diff)
	}
	if NewModel(nil, 0).Snapshot().Fields.Len() != 0 {
		t.Error("empty model snapshot has fields")
	}
}
