package geom

import (
	"strconv"
	"strings"
)

// PathData encodes pts as a closed polyline in SVG path syntax,
// "M x,y L x,y ... Z". An empty input yields "".
func PathData(pts [][2]float64) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(strconv.FormatFloat(p[0], 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(p[1], 'f', -1, 64))
	}
	b.WriteByte('Z')
	return b.String()
}
