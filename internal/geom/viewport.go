package geom

// Viewport fits mesh bounds into a display rectangle. The first fit corrects
// the aspect ratio and caches the resulting data units per display unit;
// later fits and resizes scale with the display at that resolution, so the
// zoom level of the first fit persists.
type Viewport struct {
	box   ViewBox
	res   float64
	rectW float64
	rectH float64
}

// Reset forgets the cached resolution. The next fit is a first fit again.
func (v *Viewport) Reset() { v.res = 0 }

func (v *Viewport) Box() ViewBox { return v.box }

// Resolution is the cached data units per display unit, 0 before the first
// fit against a non-empty display.
func (v *Viewport) Resolution() float64 { return v.res }

// Fit places b in a display of w x h units.
func (v *Viewport) Fit(b BBox, w, h float64) ViewBox {
	// flip so that increasing y goes up
	v.box = ViewBox{b.MinX, -b.MaxY, b.Width(), b.Height()}
	if v.box[2] == 0 && v.box[3] == 0 {
		v.box = ViewBox{b.MinX - 0.5, -b.MaxY - 0.5, 1, 1}
	}
	v.rectW, v.rectH = w, h
	v.apply()
	return v.box
}

// Resize updates the display rectangle without moving the origin.
func (v *Viewport) Resize(w, h float64) ViewBox {
	v.rectW, v.rectH = w, h
	v.apply()
	return v.box
}

func (v *Viewport) apply() {
	w, h := v.rectW, v.rectH
	if w <= 0 || h <= 0 {
		return
	}
	if v.res != 0 {
		v.box[2] = w * v.res
		v.box[3] = h * v.res
		return
	}
	rectAR := w / h
	boxAR := v.box[2] / v.box[3]
	if rectAR < boxAR {
		v.box[3] = v.box[2] / rectAR // keep width, grow height
	} else if rectAR > boxAR {
		v.box[2] = v.box[3] * rectAR // keep height, grow width
	}
	v.res = v.box[2] / w
}
