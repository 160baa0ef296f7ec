package geom

// Contains reports whether pt lies inside the closed polygon using the
// even-odd rule.
func Contains(poly [][2]float64, pt [2]float64) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a[1] > pt[1]) != (b[1] > pt[1]) {
			x := a[0] + (pt[1]-a[1])*(b[0]-a[0])/(b[1]-a[1])
			if pt[0] < x {
				in = !in
			}
		}
	}
	return in
}

// Nearest returns the index of the point closest to pt and the squared
// distance to it, or -1 for an empty set.
func Nearest(pts [][2]float64, pt [2]float64) (int, float64) {
	best, bestD := -1, 0.0
	for i, p := range pts {
		dx := p[0] - pt[0]
		dy := p[1] - pt[1]
		d := dx*dx + dy*dy
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}
