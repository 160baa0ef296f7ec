package colormap

import "fmt"

// Mapper keeps one colour map per scalar field. Maps are rebuilt from
// scratch whenever field values change.
type Mapper struct {
	palette        []string
	nonNegativeMin bool

	maps   map[string]*Map
	values map[string][]float64
}

// NewMapper uses DefaultPalette when palette is empty.
func NewMapper(palette []string, nonNegativeMin bool) *Mapper {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Mapper{
		palette:        palette,
		nonNegativeMin: nonNegativeMin,
		maps:           map[string]*Map{},
		values:         map[string][]float64{},
	}
}

func (m *Mapper) Palette() []string { return m.palette }

// Reset drops every map.
func (m *Mapper) Reset() {
	clear(m.maps)
	clear(m.values)
}

// Build computes the map of a scalar field over its current values.
func (m *Mapper) Build(name string, values []float64) error {
	lo, hi := Extent(values, m.nonNegativeMin)
	cm, err := New(Linspace(lo, hi, len(m.palette)), m.palette)
	if err != nil {
		return err
	}
	m.maps[name] = cm
	m.values[name] = values
	return nil
}

// ColorOf evaluates the map of field name at unit id.
func (m *Mapper) ColorOf(name string, id int) (string, error) {
	cm, ok := m.maps[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotColorable, name)
	}
	vals := m.values[name]
	if id < 0 || id >= len(vals) {
		return "", fmt.Errorf("colormap: %q has no unit %d", name, id)
	}
	return cm.At(vals[id]), nil
}
