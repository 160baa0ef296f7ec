package mesh

import "slices"

// Connectivity returns a copy of the flat connectivity array.
func (m *Model) Connectivity() []int { return slices.Clone(m.conn) }

// Snapshot exports the current state as a full load message. The result
// shares no memory with the model. An unloaded model yields an empty load.
func (m *Model) Snapshot() *Load {
	if !m.loaded {
		return &Load{}
	}
	var fields FieldSet
	for _, name := range m.catalog {
		f := m.fields[name]
		spec := FieldSpec{Association: f.Association, Topology: "mesh"}
		if f.Vector() {
			comps := make([]Component, len(f.Components))
			for i, c := range f.Components {
				comps[i] = Component{Name: c.Name, Values: slices.Clone(c.Values)}
			}
			spec.Values = FieldValues{Components: comps}
		} else {
			spec.Values = Scalar(slices.Clone(f.Values)...)
		}
		fields.Add(name, spec)
	}
	coords := map[string][]float64{
		m.dims[0]: slices.Clone(m.coords[0]),
		m.dims[1]: slices.Clone(m.coords[1]),
	}
	l := NewLoad(coords, m.shape, m.Connectivity(), fields)
	if m.dims[0] == "z" {
		l.Coordsets.Coords.System = "rz"
	} else {
		l.Coordsets.Coords.System = "xy"
	}
	return l
}
