package dungeon

// Compose rasterises a partitioned, furnished chunk into its tiles, props and
// monsters layers. Each stage reads one layer and returns a new one.
func Compose(width, height int, tree *Tree, rooms []*Room) (tiles, props, monsters *Layer) {
	tiles = NewLayer(width, height, Wall)
	tiles = carveCorridors(tiles, tree.Corridors())
	tiles = stampRooms(tiles, rooms, func(t *RoomTemplate) [][]int { return t.Tiles })
	tiles = maskWalls(tiles)

	markEdgeRooms(rooms)
	tiles = placeDoors(tiles, rooms)

	props = NewLayer(width, height, PropNone)
	props = stampRooms(props, rooms, func(t *RoomTemplate) [][]int { return t.Props })
	props = placeTorches(props, tiles)

	monsters = NewLayer(width, height, 0)
	monsters = stampRooms(monsters, rooms, func(t *RoomTemplate) [][]int { return t.Monsters })
	return tiles, props, monsters
}

func carveCorridors(src *Layer, corridors []Corridor) *Layer {
	out := src.Clone()
	for _, c := range corridors {
		out.Fill(c.Rect, Floor)
	}
	return out
}

func stampRooms(src *Layer, rooms []*Room, grid func(*RoomTemplate) [][]int) *Layer {
	out := src.Clone()
	for _, room := range rooms {
		out.Stamp(room.Position.X, room.Position.Y, grid(room.Template))
	}
	return out
}

// maskWalls replaces every wall-class id with its appearance id and deepens
// holes that sit under another hole.
func maskWalls(src *Layer) *Layer {
	out := src.Clone()
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if id, ok := maskedID(src, x, y); ok {
				out.Set(x, y, id)
			}
		}
	}
	return out
}

// maskedID computes the id the cell at (x, y) should carry given its
// neighbours in l. ok is false for cells the mask pass leaves alone.
func maskedID(l *Layer, x, y int) (int, bool) {
	v := l.At(x, y)
	switch {
	case IsWall(v):
		id, _ := WallTileID(wallMask(l, x, y))
		return id, true
	case IsHole(v):
		if y > 0 && IsHole(l.At(x, y-1)) {
			return DeepHole, true
		}
		return Hole, true
	}
	return 0, false
}

var maskNeighbours = []struct {
	dx, dy int
	bit    uint8
}{
	{-1, -1, MaskNorthWest},
	{0, -1, MaskNorth},
	{1, -1, MaskNorthEast},
	{-1, 0, MaskWest},
	{1, 0, MaskEast},
	{-1, 1, MaskSouthWest},
	{0, 1, MaskSouth},
	{1, 1, MaskSouthEast},
}

// wallMask builds the raw 8-bit mask of (x, y). Cells outside the layer count
// as wall.
func wallMask(l *Layer, x, y int) uint8 {
	var m uint8
	for _, n := range maskNeighbours {
		nx, ny := x+n.dx, y+n.dy
		if !l.InBounds(nx, ny) || IsWall(l.At(nx, ny)) {
			m |= n.bit
		}
	}
	return m
}

// markEdgeRooms sets Edge on every room lying within EdgeThreshold of the
// bounding box of all rooms.
func markEdgeRooms(rooms []*Room) {
	if len(rooms) == 0 {
		return
	}
	extent := rooms[0].Bounds()
	minX, minY := extent.X, extent.Y
	maxX, maxY := extent.Right(), extent.Bottom()
	for _, room := range rooms[1:] {
		b := room.Bounds()
		minX, minY = min(minX, b.X), min(minY, b.Y)
		maxX, maxY = max(maxX, b.Right()), max(maxY, b.Bottom())
	}

	for _, room := range rooms {
		b := room.Bounds()
		room.Edge = edgeDirection(b.X-minX, maxX-b.Right(), b.Y-minY, maxY-b.Bottom(), EdgeThreshold)
	}
}

// DoorCell returns the midpoint of the room wall facing d.
func DoorCell(b Rect, d Direction) Point {
	switch d {
	case Left:
		return Point{X: b.X, Y: b.Y + b.Height/2}
	case Right:
		return Point{X: b.Right() - 1, Y: b.Y + b.Height/2}
	case Up:
		return Point{X: b.X + b.Width/2, Y: b.Y}
	default:
		return Point{X: b.X + b.Width/2, Y: b.Bottom() - 1}
	}
}

func placeDoors(src *Layer, rooms []*Room) *Layer {
	out := src.Clone()
	for _, room := range rooms {
		if room.Edge == NoDirection {
			continue
		}
		p := DoorCell(room.Bounds(), room.Edge)
		out.Set(p.X, p.Y, Door)
	}
	return out
}

// torchTiles are the appearance ids of the two inner top corners.
var torchTiles = func() map[int]bool {
	left, _ := WallTileID(MaskTopLeftCorner)
	right, _ := WallTileID(MaskTopRightCorner)
	return map[int]bool{left: true, right: true}
}()

// IsTorchWall reports whether a wall appearance id carries a torch.
func IsTorchWall(id int) bool {
	return torchTiles[id]
}

func placeTorches(src, tiles *Layer) *Layer {
	out := src.Clone()
	for i, id := range tiles.Cells {
		if IsTorchWall(id) {
			out.Cells[i] = PropTorch
		}
	}
	return out
}
