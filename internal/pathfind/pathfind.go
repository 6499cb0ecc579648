// Package pathfind finds shortest 8-connected paths over walkability grids.
package pathfind

import (
	"math"

	"github.com/zyedidia/generic/heap"
)

// Point is a grid cell.
type Point struct {
	X, Y int
}

// Grid answers walkability queries for a width x height area.
type Grid interface {
	Width() int
	Height() int
	Walkable(x, y int) bool
}

// Mask is a Grid backed by a boolean slice.
type Mask struct {
	W, H  int
	Cells []bool
}

// NewMask returns a mask with every cell blocked.
func NewMask(width, height int) *Mask {
	return &Mask{W: width, H: height, Cells: make([]bool, width*height)}
}

func (m *Mask) Width() int  { return m.W }
func (m *Mask) Height() int { return m.H }

// Walkable reports false for cells outside the mask.
func (m *Mask) Walkable(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Cells[y*m.W+x]
}

// Set marks (x, y) walkable or blocked. Out of bounds cells are ignored.
func (m *Mask) Set(x, y int, walkable bool) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.Cells[y*m.W+x] = walkable
}

// Diagonal is the cost of a diagonal step.
var Diagonal = math.Sqrt2

// neighbours is the fixed visiting order: N, NE, E, SE, S, SW, W, NW.
var neighbours = []struct{ dx, dy int }{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Octile is the exact cost between two cells on an empty 8-connected grid.
func Octile(a, b Point) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return dx + dy + (Diagonal-2)*math.Min(dx, dy)
}

type entry struct {
	cell int
	f, g float64
	seq  int
}

// FindPath returns a shortest path from start to goal inclusive, or nil when
// the goal cannot be reached. Diagonal moves may not cut a blocked corner.
// Equal-cost frontiers are expanded in insertion order, so the result only
// depends on the grid and the endpoints.
func FindPath(g Grid, start, goal Point) []Point {
	if !g.Walkable(start.X, start.Y) || !g.Walkable(goal.X, goal.Y) {
		return nil
	}
	if start == goal {
		return []Point{start}
	}

	w, h := g.Width(), g.Height()
	index := func(p Point) int { return p.Y*w + p.X }
	point := func(i int) Point { return Point{X: i % w, Y: i / w} }

	cost := make([]float64, w*h)
	for i := range cost {
		cost[i] = math.Inf(1)
	}
	from := make([]int, w*h)
	closed := make([]bool, w*h)

	open := heap.New(func(a, b entry) bool {
		if a.f != b.f {
			return a.f < b.f
		}
		return a.seq < b.seq
	})
	seq := 0
	push := func(cell int, sofar float64, p Point) {
		open.Push(entry{cell: cell, f: sofar + Octile(p, goal), g: sofar, seq: seq})
		seq++
	}

	s := index(start)
	cost[s] = 0
	from[s] = -1
	push(s, 0, start)

	target := index(goal)
	for open.Size() > 0 {
		cur, _ := open.Pop()
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true
		if cur.cell == target {
			return trace(from, target, point)
		}

		p := point(cur.cell)
		for _, n := range neighbours {
			nx, ny := p.X+n.dx, p.Y+n.dy
			if !g.Walkable(nx, ny) {
				continue
			}
			step := 1.0
			if n.dx != 0 && n.dy != 0 {
				if !g.Walkable(p.X+n.dx, p.Y) || !g.Walkable(p.X, p.Y+n.dy) {
					continue
				}
				step = Diagonal
			}
			next := Point{X: nx, Y: ny}
			ni := index(next)
			if closed[ni] {
				continue
			}
			if ng := cur.g + step; ng < cost[ni] {
				cost[ni] = ng
				from[ni] = cur.cell
				push(ni, ng, next)
			}
		}
	}
	return nil
}

func trace(from []int, end int, point func(int) Point) []Point {
	var path []Point
	for i := end; i != -1; i = from[i] {
		path = append(path, point(i))
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// Length returns the movement cost of walking path.
func Length(path []Point) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		if path[i].X != path[i-1].X && path[i].Y != path[i-1].Y {
			total += Diagonal
		} else {
			total++
		}
	}
	return total
}
