package mesh

import "fmt"

// arities maps blueprint element shape names to their vertex count.
var arities = map[string]int{
	"point": 1,
	"line":  2,
	"tri":   3,
	"quad":  4,
	"tet":   4,
	"hex":   8,
}

// ArityOf returns the number of nodes per element for the named shape.
func ArityOf(shape string) (int, error) {
	n, ok := arities[shape]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}
	return n, nil
}
