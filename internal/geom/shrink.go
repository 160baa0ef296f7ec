package geom

// Centroid is the arithmetic mean of the points.
func Centroid(pts [][2]float64) [2]float64 {
	if len(pts) == 0 {
		return [2]float64{}
	}
	var c [2]float64
	for _, p := range pts {
		c[0] += p[0]
		c[1] += p[1]
	}
	n := float64(len(pts))
	return [2]float64{c[0] / n, c[1] / n}
}

// ShrinkVertex interpolates between mid and p: shrink=1 returns p, smaller
// values pull p towards mid.
func ShrinkVertex(mid, p [2]float64, shrink float64) [2]float64 {
	inv := 1 - shrink
	return [2]float64{
		shrink*p[0] + inv*mid[0],
		shrink*p[1] + inv*mid[1],
	}
}
