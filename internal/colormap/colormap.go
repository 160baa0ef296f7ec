// Package colormap turns scalar field values into colours with a
// piecewise-linear map over a fixed palette.
package colormap

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette is the three-stop palette of the viewer.
var DefaultPalette = []string{"#FA8383", "#9DD3CC", "#FFE4B3"}

var ErrNotColorable = errors.New("field has no colour map")

// Linspace returns n evenly spaced values from a to b inclusive.
func Linspace(a, b float64, n int) []float64 {
	switch {
	case n < 1:
		return []float64{}
	case n == 1:
		return []float64{a}
	}
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}

// Extent scans values for their minimum and maximum. With nonNegativeMin
// the minimum ignores negative values unless every value is negative.
func Extent(values []float64, nonNegativeMin bool) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	nonNeg, seen := 0.0, false
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		if v >= 0 && (!seen || v < nonNeg) {
			nonNeg, seen = v, true
		}
	}
	if nonNegativeMin && seen {
		lo = nonNeg
	}
	return lo, hi
}

// Map is a piecewise-linear colour scale.
type Map struct {
	domain []float64
	hex    []string
	colors []colorful.Color
}

// New builds a map whose i-th control point domain[i] takes palette[i].
func New(domain []float64, palette []string) (*Map, error) {
	if len(palette) == 0 || len(domain) != len(palette) {
		return nil, fmt.Errorf("colormap: %d control points for %d colours", len(domain), len(palette))
	}
	m := &Map{domain: domain, hex: make([]string, len(palette)), colors: make([]colorful.Color, len(palette))}
	for i, s := range palette {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("colormap: colour %q: %w", s, err)
		}
		m.colors[i] = c
		m.hex[i] = hexOf(c)
	}
	return m, nil
}

// hexOf formats c as upper-case #RRGGBB.
func hexOf(c colorful.Color) string { return strings.ToUpper(c.Hex()) }

// At evaluates the map. Values outside the domain clamp to the end colours.
func (m *Map) At(v float64) string {
	d := m.domain
	last := len(d) - 1
	if math.IsNaN(v) || v <= d[0] {
		return m.hex[0]
	}
	if v >= d[last] {
		return m.hex[last]
	}
	for i := 0; i < last; i++ {
		lo, hi := d[i], d[i+1]
		switch {
		case v > hi:
			continue
		case v == lo:
			return m.hex[i]
		case v == hi:
			return m.hex[i+1]
		}
		t := (v - lo) / (hi - lo)
		return hexOf(m.colors[i].BlendRgb(m.colors[i+1], t).Clamped())
	}
	return m.hex[last]
}
