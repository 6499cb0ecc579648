package dungeon

import "sort"

// Tile ids in the tiles layer.
const (
	DeepHole = -2 // hole with another hole directly above it
	Hole     = -1
	Floor    = 0
	Wall     = 1 // raw wall, before appearance masking
)

// Neighbour bits of a wall mask. A bit is set when that neighbour is a wall.
const (
	MaskNorthWest uint8 = 1 << iota
	MaskNorth
	MaskNorthEast
	MaskWest
	MaskEast
	MaskSouthWest
	MaskSouth
	MaskSouthEast
)

// MaskAll has every neighbour set.
const MaskAll uint8 = 0xFF

// Masks that receive a torch: the inner top corners of a room cut into solid
// rock, where only the diagonal towards the room interior is open.
const (
	MaskTopLeftCorner  = MaskAll &^ MaskSouthEast
	MaskTopRightCorner = MaskAll &^ MaskSouthWest
)

// Wall appearance ids. Every canonical mask maps to one id in
// [WallIsolated, WallAllSides]; Door sits just above that range.
const (
	WallIsolated = Wall
	WallAllSides = Wall + 46
	Door         = WallAllSides + 1
)

// Prop ids set by the compositor.
const (
	PropNone  = 0
	PropTorch = 9
)

// wallTiles is the fixed mask -> appearance lookup table. It holds exactly the
// 47 masks canonicalMask can produce.
var wallTiles = buildWallTiles()

func buildWallTiles() map[uint8]int {
	seen := make(map[uint8]bool)
	for m := 0; m <= 0xFF; m++ {
		seen[canonicalMask(uint8(m))] = true
	}
	masks := make([]int, 0, len(seen))
	for m := range seen {
		masks = append(masks, int(m))
	}
	sort.Ints(masks)

	table := make(map[uint8]int, len(masks))
	for i, m := range masks {
		table[uint8(m)] = WallIsolated + i
	}
	return table
}

// canonicalMask drops diagonal bits whose two orthogonal neighbours are not
// both walls, so concave corners do not leak into the appearance.
func canonicalMask(m uint8) uint8 {
	keep := func(diag, a, b uint8) {
		if m&a == 0 || m&b == 0 {
			m &^= diag
		}
	}
	keep(MaskNorthWest, MaskNorth, MaskWest)
	keep(MaskNorthEast, MaskNorth, MaskEast)
	keep(MaskSouthWest, MaskSouth, MaskWest)
	keep(MaskSouthEast, MaskSouth, MaskEast)
	return m
}

// WallTileID returns the appearance id for a wall mask.
func WallTileID(mask uint8) (int, bool) {
	id, ok := wallTiles[canonicalMask(mask)]
	return id, ok
}

// WallTileCount returns the number of entries in the appearance table.
func WallTileCount() int {
	return len(wallTiles)
}

// IsHole reports whether id is a hole of either depth.
func IsHole(id int) bool {
	return id < 0
}

// IsWall reports whether id is wall-class: any positive id other than a door.
func IsWall(id int) bool {
	return id > 0 && id != Door
}

// IsWalkable reports whether an agent can stand on id.
func IsWalkable(id int) bool {
	return id == Floor || id == Door
}
