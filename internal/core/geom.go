// Package core provides the terminal-independent pieces of the marble front
// end: a character screen buffer, world-to-screen mapping and tilt input.
// It does not depend on Bubble Tea.
package core

import "math"

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rectangle by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(r.W-2*n, 0), H: max(r.H-2*n, 0)}
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}

// CellAspect is how many columns make a square in a typical terminal font.
const CellAspect = 2

// Viewport maps world coordinates (meters, origin at the center, y up) onto
// a screen rectangle (cells, y down).
type Viewport struct {
	Area   Rect
	Width  float64 // World width shown in Area
	Height float64 // World height shown in Area
}

// FitViewport returns the largest viewport inside avail that shows a
// width x height world with square meters, centered in avail.
func FitViewport(avail Rect, width, height float64) Viewport {
	rows := float64(avail.H)
	cols := rows * width / height * CellAspect
	if cols > float64(avail.W) {
		cols = float64(avail.W)
		rows = cols / CellAspect * height / width
	}
	w, h := int(cols), int(rows)
	return Viewport{
		Area:   NewRect(avail.X+(avail.W-w)/2, avail.Y+(avail.H-h)/2, w, h),
		Width:  width,
		Height: height,
	}
}

// ToScreen converts a world point to the cell containing it.
func (v Viewport) ToScreen(x, y float64) (int, int) {
	sx := (x + v.Width/2) / v.Width * float64(v.Area.W)
	sy := (v.Height/2 - y) / v.Height * float64(v.Area.H)
	return v.Area.X + int(math.Floor(sx)), v.Area.Y + int(math.Floor(sy))
}

// Span converts a world-space box given by its center and half extents to
// the screen cells it covers. The result is never empty.
func (v Viewport) Span(cx, cy, hw, hh float64) Rect {
	x0, y0 := v.ToScreen(cx-hw, cy+hh)
	x1, y1 := v.ToScreen(cx+hw, cy-hh)
	return NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}
