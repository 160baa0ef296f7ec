package mesh

import (
	"fmt"
	"slices"
)

// Association tells whether a field is indexed by zone or by node.
type Association string

const (
	Element Association = "element"
	Vertex  Association = "vertex"
)

// Field is one named quantity carried by the mesh. Vector fields carry
// Components and no Values.
type Field struct {
	Name        string
	Association Association
	Values      []float64
	Components  []Component
}

func (f *Field) Vector() bool { return f.Components != nil }

// Component returns the named vector component.
func (f *Field) Component(name string) ([]float64, bool) {
	for _, c := range f.Components {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// Node is a mesh node together with its position. Deltas update Pos in place.
type Node struct {
	ID  int
	Pos [2]float64
}

type zoneCache struct {
	mid [2]float64
	ok  bool
}

// Model is the authoritative mesh state of one viewing session.
type Model struct {
	gate   *Gate
	shrink float64

	loaded bool
	shape  string
	arity  int
	dims   [2]string

	coords   [2][]float64
	conn     []int
	cache    []zoneCache
	vertices []Node

	fields  map[string]*Field
	catalog []string
	assoc   map[Association][]string
	active  string
}

// NewModel returns an empty model. A nil gate gets a fresh live gate; a
// shrink outside (0,1] falls back to DefaultShrink.
func NewModel(gate *Gate, shrink float64) *Model {
	if gate == nil {
		gate = &Gate{}
	}
	if shrink <= 0 || shrink > 1 {
		shrink = DefaultShrink
	}
	return &Model{gate: gate, shrink: shrink}
}

// LoadFull replaces the whole model with the snapshot. On error nothing is
// changed.
func (m *Model) LoadFull(l *Load) error {
	if l == nil {
		return fmt.Errorf("%w: empty snapshot", ErrMalformedCoordinates)
	}
	raw := l.Coordsets.Coords.Values
	dims, err := normalizeDims(raw)
	if err != nil {
		return err
	}
	c0, c1 := raw[dims[0]], raw[dims[1]]
	if len(c0) != len(c1) {
		return fmt.Errorf("%w: %s has %d values, %s has %d", ErrMalformedCoordinates, dims[0], len(c0), dims[1], len(c1))
	}
	n := len(c0)

	el := l.Topologies.Mesh.Elements
	arity, err := ArityOf(el.Shape)
	if err != nil {
		return err
	}
	if len(el.Connectivity)%arity != 0 {
		return fmt.Errorf("%w: length %d is not a multiple of %s arity %d", ErrMalformedConnectivity, len(el.Connectivity), el.Shape, arity)
	}
	if i, id, ok := outOfRange(el.Connectivity, n); ok {
		return fmt.Errorf("%w: entry %d references node %d of %d", ErrMalformedConnectivity, i, id, n)
	}
	nz := len(el.Connectivity) / arity

	fields := make(map[string]*Field, l.Fields.Len())
	assoc := map[Association][]string{}
	catalog := l.Fields.Names()
	for _, name := range catalog {
		spec, _ := l.Fields.Get(name)
		f, err := buildField(name, spec, n, nz)
		if err != nil {
			return err
		}
		fields[name] = f
		assoc[f.Association] = append(assoc[f.Association], name)
	}

	m.loaded = true
	m.shape = el.Shape
	m.arity = arity
	m.dims = dims
	m.coords = [2][]float64{slices.Clone(c0), slices.Clone(c1)}
	m.conn = slices.Clone(el.Connectivity)
	m.cache = make([]zoneCache, nz)
	m.vertices = make([]Node, n)
	for i := range m.vertices {
		m.vertices[i] = Node{ID: i, Pos: [2]float64{c0[i], c1[i]}}
	}
	m.fields = fields
	m.catalog = catalog
	m.assoc = assoc
	m.active = ""
	if len(catalog) > 0 {
		m.active = catalog[0]
	}
	return nil
}

// ApplyDelta merges a partial update. It reports whether the model changed.
// A paused gate discards the delta without error. A delta that would change
// node count, element count or the field catalog is rejected whole.
func (m *Model) ApplyDelta(d *Delta) (bool, error) {
	if !m.loaded {
		return false, ErrPrematureUpdate
	}
	if m.gate.Paused() || d == nil {
		return false, nil
	}
	n, nz := m.NumNodes(), m.NumZones()

	if d.Connectivity != nil {
		if len(d.Connectivity) != len(m.conn) {
			return false, fmt.Errorf("%w: connectivity length %d, want %d", ErrSchemaDrift, len(d.Connectivity), len(m.conn))
		}
		if i, id, ok := outOfRange(d.Connectivity, n); ok {
			return false, fmt.Errorf("%w: connectivity entry %d references node %d of %d", ErrSchemaDrift, i, id, n)
		}
	}
	for dim, vals := range d.Coords {
		if m.dimIndex(dim) < 0 {
			return false, fmt.Errorf("%w: unknown dimension %q", ErrSchemaDrift, dim)
		}
		if len(vals) != n {
			return false, fmt.Errorf("%w: %s has %d values, want %d", ErrSchemaDrift, dim, len(vals), n)
		}
	}
	var staged []*Field
	if d.Fields != nil {
		for _, name := range d.Fields.Names() {
			old, ok := m.fields[name]
			if !ok {
				return false, fmt.Errorf("%w: field %q not in catalog", ErrSchemaDrift, name)
			}
			spec, _ := d.Fields.Get(name)
			f, err := buildField(name, spec, n, nz)
			if err != nil {
				return false, fmt.Errorf("%w: %v", ErrSchemaDrift, err)
			}
			if f.Association != old.Association || f.Vector() != old.Vector() {
				return false, fmt.Errorf("%w: field %q changed kind", ErrSchemaDrift, name)
			}
			staged = append(staged, f)
		}
	}

	moved := false
	if d.Connectivity != nil {
		copy(m.conn, d.Connectivity)
		moved = true
	}
	for dim, vals := range d.Coords {
		k := m.dimIndex(dim)
		copy(m.coords[k], vals)
		for i := range m.vertices {
			m.vertices[i].Pos[k] = vals[i]
		}
		moved = true
	}
	if moved {
		clear(m.cache)
	}
	for _, f := range staged {
		m.fields[f.Name] = f
	}
	return true, nil
}

func (m *Model) Loaded() bool { return m.loaded }

func (m *Model) Gate() *Gate { return m.gate }

func (m *Model) Shape() string { return m.shape }

func (m *Model) Arity() int { return m.arity }

func (m *Model) Dims() [2]string { return m.dims }

func (m *Model) NumNodes() int { return len(m.coords[0]) }

func (m *Model) NumZones() int { return len(m.cache) }

// UnitCount is the number of values a field of the given association holds.
func (m *Model) UnitCount(a Association) int {
	if a == Vertex {
		return m.NumNodes()
	}
	return m.NumZones()
}

// ZoneNodes returns the node ids of zone i. The slice aliases model state and
// must not be modified.
func (m *Model) ZoneNodes(i int) []int {
	lo, hi := i*m.arity, (i+1)*m.arity
	return m.conn[lo:hi:hi]
}

// Coords returns the coordinate array of dimension k (0 or 1).
func (m *Model) Coords(k int) []float64 { return m.coords[k] }

func (m *Model) Coord(node int) [2]float64 { return m.vertices[node].Pos }

func (m *Model) Vertices() []Node { return m.vertices }

func (m *Model) Field(name string) (*Field, bool) {
	f, ok := m.fields[name]
	return f, ok
}

// FieldTypes lists field names in delivery order.
func (m *Model) FieldTypes() []string { return slices.Clone(m.catalog) }

// Associations groups field names by association.
func (m *Model) Associations() map[Association][]string {
	out := make(map[Association][]string, len(m.assoc))
	for k, v := range m.assoc {
		out[k] = slices.Clone(v)
	}
	return out
}

func (m *Model) ActiveFieldType() string { return m.active }

// SetActiveField makes name the active field.
func (m *Model) SetActiveField(name string) error {
	if !slices.Contains(m.catalog, name) {
		return fmt.Errorf("%w: %q", ErrUnsupportedField, name)
	}
	m.active = name
	return nil
}

func (m *Model) dimIndex(dim string) int {
	switch dim {
	case m.dims[0]:
		return 0
	case m.dims[1]:
		return 1
	}
	return -1
}

// normalizeDims orders the raw axis keys: r selects (z, r), y selects (x, y).
func normalizeDims(values map[string][]float64) ([2]string, error) {
	has := func(k string) bool { _, ok := values[k]; return ok }
	switch {
	case len(values) != 2:
		return [2]string{}, fmt.Errorf("%w: want 2 dimensions, got %d", ErrMalformedCoordinates, len(values))
	case has("r") && has("z"):
		return [2]string{"z", "r"}, nil
	case has("x") && has("y"):
		return [2]string{"x", "y"}, nil
	}
	return [2]string{}, fmt.Errorf("%w: unsupported axes", ErrMalformedCoordinates)
}

func outOfRange(conn []int, n int) (i, id int, bad bool) {
	for i, id := range conn {
		if id < 0 || id >= n {
			return i, id, true
		}
	}
	return 0, 0, false
}

func buildField(name string, spec FieldSpec, n, nz int) (*Field, error) {
	var count int
	switch spec.Association {
	case Element:
		count = nz
	case Vertex:
		count = n
	default:
		return nil, fmt.Errorf("%w: %q has association %q", ErrMalformedField, name, spec.Association)
	}
	f := &Field{Name: name, Association: spec.Association}
	v := spec.Values
	switch {
	case v.Components != nil:
		f.Components = make([]Component, 0, len(v.Components))
		for _, c := range v.Components {
			if len(c.Values) != count {
				return nil, fmt.Errorf("%w: %q component %q has %d values, want %d", ErrMalformedField, name, c.Name, len(c.Values), count)
			}
			f.Components = append(f.Components, Component{Name: c.Name, Values: slices.Clone(c.Values)})
		}
	case len(v.Scalar) == count:
		f.Values = slices.Clone(v.Scalar)
		if f.Values == nil {
			f.Values = []float64{}
		}
	default:
		return nil, fmt.Errorf("%w: %q has %d values, want %d", ErrMalformedField, name, len(v.Scalar), count)
	}
	return f, nil
}
