package stream

import (
	"math"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/pathfind"
)

// placeNext returns the world origin of a width x height chunk placed against
// from on side d.
func placeNext(from *live, width, height int, d dungeon.Direction) dungeon.Point {
	o := from.origin
	switch d {
	case dungeon.Right:
		return dungeon.Point{X: o.X + from.chunk.Width, Y: o.Y}
	case dungeon.Left:
		return dungeon.Point{X: o.X - width, Y: o.Y}
	case dungeon.Up:
		return dungeon.Point{X: o.X, Y: o.Y - height}
	default:
		return dungeon.Point{X: o.X, Y: o.Y + from.chunk.Height}
	}
}

// mergedGrid is the bounding grid of two or more placed chunks. A cell is
// walkable when it is not a hole; the stitch carves whatever rock the path
// crosses.
type mergedGrid struct {
	bounds dungeon.Rect
	parts  []*live
	mask   *pathfind.Mask
}

func merge(parts ...*live) *mergedGrid {
	b := parts[0].bounds()
	for _, p := range parts[1:] {
		pb := p.bounds()
		x0, y0 := min(b.X, pb.X), min(b.Y, pb.Y)
		x1, y1 := max(b.Right(), pb.Right()), max(b.Bottom(), pb.Bottom())
		b = dungeon.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	}

	m := &mergedGrid{bounds: b, parts: parts, mask: pathfind.NewMask(b.Width, b.Height)}
	for _, p := range parts {
		tiles := p.chunk.Tiles
		for y := 0; y < tiles.Height; y++ {
			for x := 0; x < tiles.Width; x++ {
				g := m.fromWorld(p.toWorld(dungeon.Point{X: x, Y: y}))
				m.mask.Set(g.X, g.Y, !dungeon.IsHole(tiles.At(x, y)))
			}
		}
	}
	return m
}

func (m *mergedGrid) fromWorld(p dungeon.Point) pathfind.Point {
	return pathfind.Point{X: p.X - m.bounds.X, Y: p.Y - m.bounds.Y}
}

func (m *mergedGrid) toWorld(p pathfind.Point) dungeon.Point {
	return dungeon.Point{X: p.X + m.bounds.X, Y: p.Y + m.bounds.Y}
}

// owner returns the chunk covering the world cell p.
func (m *mergedGrid) owner(p dungeon.Point) *live {
	for _, part := range m.parts {
		if part.bounds().Contains(p) {
			return part
		}
	}
	return nil
}

// path returns the world cells of a route between two world cells.
func (m *mergedGrid) path(from, to dungeon.Point) []dungeon.Point {
	cells := pathfind.FindPath(m.mask, m.fromWorld(from), m.fromWorld(to))
	if len(cells) == 0 {
		return nil
	}
	out := make([]dungeon.Point, len(cells))
	for i, c := range cells {
		out[i] = m.toWorld(c)
	}
	return out
}

// nearestDoor returns the world cell of the door of l closest to the world
// cell p. Ties go to the first door in row-major order.
func nearestDoor(l *live, p dungeon.Point) (dungeon.Point, bool) {
	best, bestDist, found := dungeon.Point{}, math.Inf(1), false
	for _, d := range l.chunk.Doors() {
		if l.consumed.Has(d) {
			continue
		}
		w := l.toWorld(d)
		if dist := math.Hypot(float64(w.X-p.X), float64(w.Y-p.Y)); dist < bestDist {
			best, bestDist, found = w, dist, true
		}
	}
	return best, found
}

// corridor returns path with the orthogonal corner of every diagonal step
// inserted, so the carved cells connect without diagonal moves through rock.
func corridor(path []dungeon.Point) []dungeon.Point {
	out := make([]dungeon.Point, 0, 2*len(path))
	for i, p := range path {
		if i > 0 {
			prev := path[i-1]
			if prev.X != p.X && prev.Y != p.Y {
				out = append(out, dungeon.Point{X: p.X, Y: prev.Y})
			}
		}
		out = append(out, p)
	}
	return out
}

// carve floors the cells of the corridor along path in whichever chunk owns
// each one and returns the resulting updates per chunk.
func carve(m *mergedGrid, path []dungeon.Point) map[*live][]dungeon.CellUpdate {
	local := make(map[*live][]dungeon.Point)
	for _, p := range corridor(path) {
		if owner := m.owner(p); owner != nil {
			local[owner] = append(local[owner], owner.toLocal(p))
		}
	}

	out := make(map[*live][]dungeon.CellUpdate, len(local))
	for _, part := range m.parts {
		if cells, ok := local[part]; ok {
			out[part] = part.chunk.Carve(cells)
		}
	}
	return out
}
