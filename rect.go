package atlaspack

// Size is an integer width and height.
type Size struct {
	W, H int
}

// Rect is an axis-aligned rectangle in atlas pixel coordinates.
type Rect struct {
	Left, Top     int
	Width, Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Fits reports whether a rectangle of size s fits inside r.
func (r Rect) Fits(s Size) bool {
	return s.W <= r.Width && s.H <= r.Height
}

// Overlaps reports whether r and o share any pixel.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Left < o.Right() && o.Left < r.Right() &&
		r.Top < o.Bottom() && o.Top < r.Bottom()
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.Left >= r.Left && o.Top >= r.Top &&
		o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}
