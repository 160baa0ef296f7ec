package session

import "meshview/internal/mesh"

// Mode is the renderable unit: zones or vertices.
type Mode int

const (
	ElementCentered Mode = iota
	VertexCentered
)

func (m Mode) String() string {
	if m == VertexCentered {
		return "vertex"
	}
	return "element"
}

func modeOf(a mesh.Association) Mode {
	if a == mesh.Vertex {
		return VertexCentered
	}
	return ElementCentered
}

// ViewMode follows the association of the model's active field.
type ViewMode struct {
	mode Mode
}

func (v *ViewMode) Mode() Mode { return v.mode }

// Init derives the mode from the active field. A model without fields is
// element centred.
func (v *ViewMode) Init(m *mesh.Model) {
	v.mode = ElementCentered
	if f, ok := m.Field(m.ActiveFieldType()); ok {
		v.mode = modeOf(f.Association)
	}
}

// Switch activates name. An unknown name leaves both model and mode as they
// were.
func (v *ViewMode) Switch(m *mesh.Model, name string) error {
	if err := m.SetActiveField(name); err != nil {
		return err
	}
	v.Init(m)
	return nil
}
