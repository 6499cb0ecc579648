package dungeon

import (
	"sort"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/logger"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/pathfind"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/rng"
	"github.com/zyedidia/generic/mapset"
)

// LayerKind names one of a chunk's three layers.
type LayerKind int

const (
	LayerTiles LayerKind = iota
	LayerProps
	LayerMonsters
)

func (k LayerKind) String() string {
	switch k {
	case LayerTiles:
		return "tiles"
	case LayerProps:
		return "props"
	case LayerMonsters:
		return "monsters"
	default:
		return "unknown"
	}
}

// AllLayers lists the layers in emission order.
func AllLayers() []LayerKind {
	return []LayerKind{LayerTiles, LayerProps, LayerMonsters}
}

// CellUpdate is one (layer, x, y, id) value handed to a renderer.
type CellUpdate struct {
	Layer LayerKind
	X, Y  int
	ID    int
}

// Chunk is one generated dungeon area.
type Chunk struct {
	Config        Config
	Seed          string
	Width, Height int
	Tree          *Tree
	Rooms         []*Room

	Tiles    *Layer
	Props    *Layer
	Monsters *Layer

	// NearSeeds holds the neighbour seeds indexed by Direction.
	NearSeeds [4]string
}

// Generate builds the chunk described by cfg. The result is a pure function
// of cfg: the same seed, size and catalog always give identical layers.
func Generate(cfg Config) (*Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Catalog.Require(AllRoomTypes...); err != nil {
		return nil, err
	}

	r := rng.New(cfg.Seed)
	tree := Partition(r, cfg.Inset(), cfg.Iterations, cfg)
	rooms, err := PlaceRooms(r, tree, cfg.Catalog)
	if err != nil {
		return nil, err
	}
	tiles, props, monsters := Compose(cfg.Width, cfg.Height, tree, rooms)

	c := &Chunk{
		Config:    cfg,
		Seed:      cfg.Seed,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Tree:      tree,
		Rooms:     rooms,
		Tiles:     tiles,
		Props:     props,
		Monsters:  monsters,
		NearSeeds: rng.DeriveSeeds(cfg.Seed),
	}

	if lost := c.Unreachable(); len(lost) > 0 {
		logger.Debug("Chunk has rooms unreachable from its entrance", "seed", c.Seed, "rooms", len(lost))
	}
	logger.Debug("Chunk generated",
		"seed", c.Seed,
		"leaves", len(tree.Leaves()),
		"rooms", len(rooms),
		"doors", len(c.Doors()))
	return c, nil
}

// NearSeed returns the seed of the neighbour in direction d.
func (c *Chunk) NearSeed(d Direction) string {
	return c.NearSeeds[d]
}

// Layer returns the layer of the given kind.
func (c *Chunk) Layer(kind LayerKind) *Layer {
	switch kind {
	case LayerProps:
		return c.Props
	case LayerMonsters:
		return c.Monsters
	default:
		return c.Tiles
	}
}

// Cells returns every cell of every layer, tiles first, each in row-major order.
func (c *Chunk) Cells() []CellUpdate {
	out := make([]CellUpdate, 0, 3*c.Width*c.Height)
	for _, kind := range AllLayers() {
		l := c.Layer(kind)
		for i, id := range l.Cells {
			out = append(out, CellUpdate{Layer: kind, X: i % l.Width, Y: i / l.Width, ID: id})
		}
	}
	return out
}

// Doors returns the door cells in row-major order.
func (c *Chunk) Doors() []Point {
	return c.Tiles.Find(Door)
}

// EdgeRooms returns the rooms that received a door.
func (c *Chunk) EdgeRooms() []*Room {
	var out []*Room
	for _, room := range c.Rooms {
		if room.Edge != NoDirection {
			out = append(out, room)
		}
	}
	return out
}

// RoomsOf returns the placed rooms of type t.
func (c *Chunk) RoomsOf(t RoomType) []*Room {
	var out []*Room
	for _, room := range c.Rooms {
		if room.Type() == t {
			out = append(out, room)
		}
	}
	return out
}

// walkGrid exposes the floor and door cells of a layer to the pathfinder.
type walkGrid struct {
	l *Layer
}

func (g walkGrid) Width() int  { return g.l.Width }
func (g walkGrid) Height() int { return g.l.Height }

func (g walkGrid) Walkable(x, y int) bool {
	return g.l.InBounds(x, y) && IsWalkable(g.l.At(x, y))
}

// Path returns a walking route between two cells of the chunk, or nil.
func (c *Chunk) Path(from, to Point) []Point {
	path := pathfind.FindPath(walkGrid{c.Tiles}, pathfind.Point(from), pathfind.Point(to))
	out := make([]Point, len(path))
	for i, p := range path {
		out[i] = Point(p)
	}
	return out
}

// Unreachable returns the rooms no walking route joins to the entrance.
func (c *Chunk) Unreachable() []*Room {
	entrances := c.RoomsOf(RoomEntrance)
	if len(entrances) == 0 {
		return nil
	}
	origin, ok := c.firstWalkable(entrances[0].Bounds())
	if !ok {
		return nil
	}

	var lost []*Room
	for _, room := range c.Rooms {
		if room == entrances[0] {
			continue
		}
		target, ok := c.firstWalkable(room.Bounds())
		if !ok {
			continue
		}
		if len(c.Path(origin, target)) == 0 {
			lost = append(lost, room)
		}
	}
	return lost
}

func (c *Chunk) firstWalkable(r Rect) (Point, bool) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if c.Tiles.InBounds(x, y) && IsWalkable(c.Tiles.At(x, y)) {
				return Point{X: x, Y: y}, true
			}
		}
	}
	return Point{}, false
}

// Carve forces cells to floor, keeping doors, then refreshes the wall
// appearance, hole depth and torches around them. It returns every cell
// whose id changed, tiles before props, each in row-major order.
func (c *Chunk) Carve(cells []Point) []CellUpdate {
	before := c.Tiles.Clone()
	var tiles []CellUpdate

	touched := mapset.New[Point]()
	var around []Point
	for _, p := range cells {
		if !c.Tiles.InBounds(p.X, p.Y) {
			continue
		}
		if v := c.Tiles.At(p.X, p.Y); v == Floor || v == Door {
			continue
		}
		c.Tiles.Set(p.X, p.Y, Floor)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := Point{X: p.X + dx, Y: p.Y + dy}
				if c.Tiles.InBounds(n.X, n.Y) && !touched.Has(n) {
					touched.Put(n)
					around = append(around, n)
				}
			}
		}
	}
	sort.Slice(around, func(i, j int) bool {
		if around[i].Y != around[j].Y {
			return around[i].Y < around[j].Y
		}
		return around[i].X < around[j].X
	})

	carved := c.Tiles.Clone()
	for _, p := range around {
		if id, ok := maskedID(carved, p.X, p.Y); ok {
			c.Tiles.Set(p.X, p.Y, id)
		}
	}

	var props []CellUpdate
	for _, p := range around {
		old, now := before.At(p.X, p.Y), c.Tiles.At(p.X, p.Y)
		if old != now {
			tiles = append(tiles, CellUpdate{Layer: LayerTiles, X: p.X, Y: p.Y, ID: now})
		}

		prop := c.Props.At(p.X, p.Y)
		switch {
		case IsTorchWall(now) && prop != PropTorch:
			c.Props.Set(p.X, p.Y, PropTorch)
		case !IsTorchWall(now) && IsTorchWall(old) && prop == PropTorch:
			c.Props.Set(p.X, p.Y, PropNone)
		default:
			continue
		}
		props = append(props, CellUpdate{Layer: LayerProps, X: p.X, Y: p.Y, ID: c.Props.At(p.X, p.Y)})
	}
	return append(tiles, props...)
}
