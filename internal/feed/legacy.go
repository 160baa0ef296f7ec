package feed

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"meshview/internal/mesh"
)

// legacyShapes names the element shape of a legacy zone by its node count.
var legacyShapes = map[int]string{1: "point", 2: "line", 3: "tri", 4: "quad", 8: "hex"}

// ConvertLegacy turns the older {coord:{id:{pos:{r,z}}}, zones:{id:{nids}}}
// layout into a blueprint snapshot. Missing node ids become (-1, -1) nodes so
// that every zone keeps pointing at the right index.
func ConvertLegacy(data []byte) (*mesh.Load, error) {
	var raw struct {
		Coord map[string]struct {
			Pos map[string]float64 `json:"pos"`
		} `json:"coord"`
		Zones map[string]struct {
			NIDs []int `json:"nids"`
		} `json:"zones"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("legacy mesh: %w", err)
	}

	nodeIDs, err := numericKeys(raw.Coord)
	if err != nil {
		return nil, fmt.Errorf("legacy mesh: coord %w", err)
	}
	axes := [2]string{"r", "z"}
	if len(nodeIDs) > 0 {
		if _, ok := raw.Coord[strconv.Itoa(nodeIDs[0])].Pos["x"]; ok {
			axes = [2]string{"x", "y"}
		}
	}
	n := 0
	if len(nodeIDs) > 0 {
		n = nodeIDs[len(nodeIDs)-1] + 1
	}
	a0, a1 := make([]float64, n), make([]float64, n)
	for i := range n {
		a0[i], a1[i] = -1, -1
	}
	for _, id := range nodeIDs {
		pos := raw.Coord[strconv.Itoa(id)].Pos
		a0[id], a1[id] = pos[axes[0]], pos[axes[1]]
	}

	zoneIDs, err := numericKeys(raw.Zones)
	if err != nil {
		return nil, fmt.Errorf("legacy mesh: zones %w", err)
	}
	var conn []int
	arity := 0
	for _, id := range zoneIDs {
		nids := raw.Zones[strconv.Itoa(id)].NIDs
		if arity == 0 {
			arity = len(nids)
		} else if len(nids) != arity {
			return nil, fmt.Errorf("legacy mesh: zone %d has %d nodes, want %d", id, len(nids), arity)
		}
		conn = append(conn, nids...)
	}
	shape := "quad"
	if arity > 0 {
		var ok bool
		if shape, ok = legacyShapes[arity]; !ok {
			return nil, fmt.Errorf("legacy mesh: no shape with %d nodes", arity)
		}
	}
	if conn == nil {
		conn = []int{}
	}
	coords := map[string][]float64{axes[0]: a0, axes[1]: a1}
	return mesh.NewLoad(coords, shape, conn, mesh.FieldSet{}), nil
}

// numericKeys returns the keys of m as sorted integers.
func numericKeys[V any](m map[string]V) ([]int, error) {
	ids := make([]int, 0, len(m))
	for k := range m {
		id, err := strconv.Atoi(k)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("key %q is not a node index", k)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
