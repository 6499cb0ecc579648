package stream

import (
	"fmt"
	"testing"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/pathfind"
)

func floorGrid(w, h int) [][]int {
	rows := make([][]int, h)
	for y := range rows {
		rows[y] = make([]int, w)
	}
	return rows
}

func testCatalog(t *testing.T) *dungeon.Catalog {
	t.Helper()
	var templates []*dungeon.RoomTemplate
	for _, spec := range []struct {
		id   string
		typ  dungeon.RoomType
		w, h int
	}{
		{"entrance", dungeon.RoomEntrance, 4, 4},
		{"heal", dungeon.RoomHeal, 3, 3},
		{"treasure", dungeon.RoomTreasure, 3, 3},
		{"boss", dungeon.RoomBoss, 4, 4},
		{"monsters-a", dungeon.RoomMonsters, 4, 4},
		{"monsters-b", dungeon.RoomMonsters, 3, 3},
	} {
		templates = append(templates, &dungeon.RoomTemplate{
			ID:       spec.id,
			Type:     spec.typ,
			Width:    spec.w,
			Height:   spec.h,
			Tiles:    floorGrid(spec.w, spec.h),
			Props:    floorGrid(spec.w, spec.h),
			Monsters: floorGrid(spec.w, spec.h),
		})
	}
	c, err := dungeon.NewCatalog(templates)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func testGenConfig(t *testing.T) dungeon.Config {
	t.Helper()
	return dungeon.DefaultConfig("5ML3875MwgFzyejjoFV9i", testCatalog(t))
}

type recorder struct {
	emitted  map[int][]dungeon.CellUpdate
	disposed []int
	anchors  map[int]dungeon.Point
}

func newRecorder() *recorder {
	return &recorder{emitted: make(map[int][]dungeon.CellUpdate), anchors: make(map[int]dungeon.Point)}
}

func (r *recorder) Emit(id int, updates []dungeon.CellUpdate) {
	r.emitted[id] = append(r.emitted[id], updates...)
}

func (r *recorder) Dispose(id int) {
	r.disposed = append(r.disposed, id)
}

func (r *recorder) Anchor(id int, origin dungeon.Point) {
	r.anchors[id] = origin
}

// doorsToward returns the doors of ch whose nearest edge is d.
func doorsToward(ch *dungeon.Chunk, d dungeon.Direction) []dungeon.Point {
	var out []dungeon.Point
	for _, p := range ch.Doors() {
		if dungeon.NearestEdge(p.X, p.Y, ch.Width, ch.Height) == d {
			out = append(out, p)
		}
	}
	return out
}

// seedWithDoor finds a seed whose chunk has a door toward d.
func seedWithDoor(t *testing.T, gen dungeon.Config, d dungeon.Direction) string {
	t.Helper()
	for i := 0; i < 200; i++ {
		seed := fmt.Sprintf("seed-%d", i)
		ch, err := dungeon.Generate(gen.WithSeed(seed))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(doorsToward(ch, d)) > 0 {
			return seed
		}
	}
	t.Fatalf("no seed with a %s door", d)
	return ""
}

// handmade builds a chunk of floor with walls on its border and doors at the
// given cells.
func handmade(seed string, w, h int, doors ...dungeon.Point) *dungeon.Chunk {
	tiles := dungeon.NewLayer(w, h, dungeon.Floor)
	for x := 0; x < w; x++ {
		tiles.Set(x, 0, dungeon.WallAllSides)
		tiles.Set(x, h-1, dungeon.WallAllSides)
	}
	for y := 0; y < h; y++ {
		tiles.Set(0, y, dungeon.WallAllSides)
		tiles.Set(w-1, y, dungeon.WallAllSides)
	}
	for _, d := range doors {
		tiles.Set(d.X, d.Y, dungeon.Door)
	}
	return &dungeon.Chunk{
		Seed:      seed,
		Width:     w,
		Height:    h,
		Tiles:     tiles,
		Props:     dungeon.NewLayer(w, h, dungeon.PropNone),
		Monsters:  dungeon.NewLayer(w, h, 0),
		NearSeeds: [4]string{seed + "-up", seed + "-right", seed + "-down", seed + "-left"},
	}
}

// walkable finds a route between two world cells of m that only crosses
// floor and door cells, as an agent would walk it.
func walkable(t *testing.T, m *mergedGrid, from, to dungeon.Point) []pathfind.Point {
	t.Helper()
	mask := pathfind.NewMask(m.bounds.Width, m.bounds.Height)
	for _, part := range m.parts {
		tiles := part.chunk.Tiles
		for y := 0; y < tiles.Height; y++ {
			for x := 0; x < tiles.Width; x++ {
				g := m.fromWorld(part.toWorld(dungeon.Point{X: x, Y: y}))
				mask.Set(g.X, g.Y, dungeon.IsWalkable(tiles.At(x, y)))
			}
		}
	}
	return pathfind.FindPath(mask, m.fromWorld(from), m.fromWorld(to))
}
