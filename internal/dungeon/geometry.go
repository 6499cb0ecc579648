package dungeon

import "fmt"

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect is an axis-aligned block of cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Center returns the centre of r, floored to a cell.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Right returns the first column past r.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past r.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns the number of cells covered by r.
func (r Rect) Area() int { return r.Width * r.Height }

// Contains reports whether the cell p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Overlaps reports whether r and o share at least one cell.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.Width, r.Height, r.X, r.Y)
}
