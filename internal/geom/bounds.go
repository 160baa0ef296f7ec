package geom

// Bounds scans paired coordinate arrays for their extrema. Extra values in
// the longer array are ignored.
func Bounds(xs, ys []float64) BBox {
	n := min(len(xs), len(ys))
	if n == 0 {
		return BBox{}
	}
	bbox := BBox{MinX: xs[0], MinY: ys[0], MaxX: xs[0], MaxY: ys[0]}
	for i := 1; i < n; i++ {
		x, y := xs[i], ys[i]
		if x < bbox.MinX {
			bbox.MinX = x
		}
		if y < bbox.MinY {
			bbox.MinY = y
		}
		if x > bbox.MaxX {
			bbox.MaxX = x
		}
		if y > bbox.MaxY {
			bbox.MaxY = y
		}
	}
	return bbox
}
