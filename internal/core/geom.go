// Package core provides platform-neutral types shared by the game and its
// front-ends. It has no Bubble Tea dependency so game code stays testable.
package core

// Rect is an axis-aligned area on the screen. X and Y are the top-left corner.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// CenteredRect returns a w*h rectangle centered inside an area of areaW*areaH.
// The rectangle is pinned to the top-left corner when it does not fit.
func CenteredRect(areaW, areaH, w, h int) Rect {
	return Rect{
		X: max((areaW-w)/2, 0),
		Y: max((areaH-h)/2, 0),
		W: w,
		H: h,
	}
}

// Offset returns r moved by dx, dy.
func (r Rect) Offset(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Right is the first column past the rectangle.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom is the first row past the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.H
}
