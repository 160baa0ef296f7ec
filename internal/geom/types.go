package geom

// BBox is an axis-aligned extent. X is the first mesh dimension, Y the
// second.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// ViewBox is the region of data space shown on the display, [x, y, w, h],
// with the second axis flipped so y = -MaxY.
type ViewBox [4]float64
