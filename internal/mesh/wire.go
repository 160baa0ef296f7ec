package mesh

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Load is a full mesh snapshot in blueprint layout.
type Load struct {
	Coordsets  Coordsets  `json:"coordsets"`
	Topologies Topologies `json:"topologies"`
	Fields     FieldSet   `json:"fields"`
}

type Coordsets struct {
	Coords CoordSet `json:"coords"`
}

type CoordSet struct {
	Type   string               `json:"type,omitempty"`
	System string               `json:"system,omitempty"`
	Values map[string][]float64 `json:"values"`
}

type Topologies struct {
	Mesh Topology `json:"mesh"`
}

type Topology struct {
	Type     string   `json:"type,omitempty"`
	Coordset string   `json:"coordset,omitempty"`
	Elements Elements `json:"elements"`
}

type Elements struct {
	Shape        string `json:"shape"`
	Connectivity []int  `json:"connectivity"`
}

// NewLoad assembles a snapshot from its parts.
func NewLoad(coords map[string][]float64, shape string, conn []int, fields FieldSet) *Load {
	l := &Load{Fields: fields}
	l.Coordsets.Coords = CoordSet{Type: "explicit", Values: coords}
	l.Topologies.Mesh = Topology{
		Type:     "unstructured",
		Coordset: "coords",
		Elements: Elements{Shape: shape, Connectivity: conn},
	}
	return l
}

// Delta is a partial update. A nil member leaves that part of the model
// untouched.
type Delta struct {
	Connectivity []int               `json:"conn_value,omitempty"`
	Coords       map[string][]float64 `json:"coords,omitempty"`
	Fields       *FieldSet            `json:"fields,omitempty"`
}

// FieldSpec is one entry of the fields object.
type FieldSpec struct {
	Association Association `json:"association"`
	Topology    string      `json:"topology,omitempty"`
	Values      FieldValues `json:"values"`
}

// Component is one named series of a vector field.
type Component struct {
	Name   string
	Values []float64
}

// FieldValues holds either a scalar series or an ordered set of vector
// components.
type FieldValues struct {
	Scalar     []float64
	Components []Component
}

func Scalar(vals ...float64) FieldValues { return FieldValues{Scalar: vals} }

func (v FieldValues) MarshalJSON() ([]byte, error) {
	if v.Components == nil {
		if v.Scalar == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Scalar)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range v.Components {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(c.Name)
		buf.Write(k)
		buf.WriteByte(':')
		vals, err := json.Marshal(c.Values)
		if err != nil {
			return nil, err
		}
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v *FieldValues) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = FieldValues{}
		return nil
	case data[0] == '[':
		var s []float64
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FieldValues{Scalar: s}
		return nil
	case data[0] == '{':
		var comps []Component
		err := decodeObject(data, func(key string, raw json.RawMessage) error {
			var s []float64
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("component %q: %w", key, err)
			}
			comps = append(comps, Component{Name: key, Values: s})
			return nil
		})
		if err != nil {
			return err
		}
		if comps == nil {
			comps = []Component{}
		}
		*v = FieldValues{Components: comps}
		return nil
	}
	return errors.New("field values: expected array or object")
}

// FieldSet is the fields object with its delivery order preserved.
type FieldSet struct {
	names []string
	specs map[string]FieldSpec
}

// Add appends a field, replacing any earlier field of the same name in
// place.
func (s *FieldSet) Add(name string, spec FieldSpec) {
	if s.specs == nil {
		s.specs = make(map[string]FieldSpec)
	}
	if _, ok := s.specs[name]; !ok {
		s.names = append(s.names, name)
	}
	s.specs[name] = spec
}

func (s *FieldSet) Names() []string { return append([]string(nil), s.names...) }

func (s *FieldSet) Len() int { return len(s.names) }

func (s *FieldSet) Get(name string) (FieldSpec, bool) {
	spec, ok := s.specs[name]
	return spec, ok
}

func (s FieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(name)
		buf.Write(k)
		buf.WriteByte(':')
		spec, err := json.Marshal(s.specs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(spec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *FieldSet) UnmarshalJSON(data []byte) error {
	*s = FieldSet{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	return decodeObject(data, func(key string, raw json.RawMessage) error {
		var spec FieldSpec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		s.Add(key, spec)
		return nil
	})
}

// decodeObject walks a JSON object in document order.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
