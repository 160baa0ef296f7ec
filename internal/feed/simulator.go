package feed

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"meshview/internal/mesh"
)

const (
	DefaultSimSize     = 20
	DefaultSimInterval = time.Second
	DefaultSimShift    = 4.0
)

// Simulator plays a relay locally: one snapshot, then an update per
// interval. Each update moves the mesh one step along a 16-step square path
// and grows the middle third of the first field by 5%, every component of
// it when the field is a vector.
type Simulator struct {
	Interval time.Duration
	Shift    float64

	model *mesh.Model
	step  int
}

// NewSimulator starts from load, or from a Braid mesh of DefaultSimSize when
// load is nil.
func NewSimulator(load *mesh.Load) (*Simulator, error) {
	if load == nil {
		load = Braid(DefaultSimSize)
	}
	m := mesh.NewModel(nil, 0)
	if err := m.LoadFull(load); err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	return &Simulator{Interval: DefaultSimInterval, Shift: DefaultSimShift, model: m}, nil
}

// Snapshot returns the current state as a full load.
func (s *Simulator) Snapshot() *mesh.Load { return s.model.Snapshot() }

// Step advances the simulation and returns the update that describes it.
func (s *Simulator) Step() (*mesh.Delta, error) {
	m := s.model
	dims := m.Dims()
	c0, c1 := slices.Clone(m.Coords(0)), slices.Clone(m.Coords(1))
	switch (s.step / 4) % 4 {
	case 0:
		shift(c0, -s.Shift)
	case 1:
		shift(c1, s.Shift)
	case 2:
		shift(c0, s.Shift)
	case 3:
		shift(c1, -s.Shift)
	}

	var fields mesh.FieldSet
	for k, name := range m.FieldTypes() {
		f, _ := m.Field(name)
		grow := k == 0
		spec := mesh.FieldSpec{Association: f.Association, Topology: "mesh"}
		if f.Vector() {
			comps := make([]mesh.Component, len(f.Components))
			for i, c := range f.Components {
				comps[i] = mesh.Component{Name: c.Name, Values: middleThird(c.Values, grow)}
			}
			spec.Values = mesh.FieldValues{Components: comps}
		} else {
			spec.Values = mesh.Scalar(middleThird(f.Values, grow)...)
		}
		fields.Add(name, spec)
	}

	d := &mesh.Delta{
		Connectivity: m.Connectivity(),
		Coords:       map[string][]float64{dims[0]: c0, dims[1]: c1},
		Fields:       &fields,
	}
	if _, err := m.ApplyDelta(d); err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	s.step++
	return d, nil
}

func (s *Simulator) Run(ctx context.Context, emit func(Message)) error {
	emit(Message{Load: s.Snapshot()})
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultSimInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			d, err := s.Step()
			if err != nil {
				emit(Message{Err: err})
				continue
			}
			emit(Message{Delta: d})
		}
	}
}

// middleThird copies vals, scaling the middle third by 1.05 when grow is set.
func middleThird(vals []float64, grow bool) []float64 {
	out := slices.Clone(vals)
	if !grow {
		return out
	}
	third := float64(len(out)) / 3
	for i := range out {
		if float64(i) >= third && float64(i) <= 2*third {
			out[i] *= 1.05
		}
	}
	return out
}

func shift(vals []float64, by float64) {
	for i := range vals {
		vals[i] += by
	}
}

// Braid builds an n x n node grid of quads over [-10, 10]² with a vertex
// field "braid", an element field "radial" and a vertex vector field "vel".
func Braid(n int) *mesh.Load {
	n = max(n, 2)
	nodes := n * n
	xs, ys := make([]float64, nodes), make([]float64, nodes)
	braid := make([]float64, nodes)
	vx, vy := make([]float64, nodes), make([]float64, nodes)
	for j := range n {
		for i := range n {
			k := j*n + i
			x := -10 + 20*float64(i)/float64(n-1)
			y := -10 + 20*float64(j)/float64(n-1)
			xs[k], ys[k] = x, y
			braid[k] = 10 * math.Sin(x*math.Pi/10) * math.Cos(y*math.Pi/10)
			vx[k], vy[k] = -y/10, x/10
		}
	}
	conn := make([]int, 0, 4*(n-1)*(n-1))
	radial := make([]float64, 0, (n-1)*(n-1))
	for j := range n - 1 {
		for i := range n - 1 {
			a := j*n + i
			conn = append(conn, a, a+1, a+1+n, a+n)
			cx := (xs[a] + xs[a+1]) / 2
			cy := (ys[a] + ys[a+n]) / 2
			radial = append(radial, math.Hypot(cx, cy))
		}
	}

	var fields mesh.FieldSet
	fields.Add("braid", mesh.FieldSpec{Association: mesh.Vertex, Topology: "mesh", Values: mesh.Scalar(braid...)})
	fields.Add("radial", mesh.FieldSpec{Association: mesh.Element, Topology: "mesh", Values: mesh.Scalar(radial...)})
	fields.Add("vel", mesh.FieldSpec{Association: mesh.Vertex, Topology: "mesh", Values: mesh.FieldValues{
		Components: []mesh.Component{{Name: "x", Values: vx}, {Name: "y", Values: vy}},
	}})
	l := mesh.NewLoad(map[string][]float64{"x": xs, "y": ys}, "quad", conn, fields)
	l.Coordsets.Coords.System = "xy"
	return l
}
