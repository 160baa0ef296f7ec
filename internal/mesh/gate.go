package mesh

// Gate decides whether incoming deltas reach the model. The zero value is
// live.
type Gate struct {
	paused bool
}

func (g *Gate) Paused() bool { return g.paused }

// Toggle flips the gate and reports whether it is now paused.
func (g *Gate) Toggle() bool {
	g.paused = !g.paused
	return g.paused
}

func (g *Gate) String() string {
	if g.paused {
		return "paused"
	}
	return "live"
}
