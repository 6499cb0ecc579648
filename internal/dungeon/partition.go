package dungeon

import "math/rand"

// NodeID indexes a node in a Tree.
type NodeID int

// NoNode is the child id of a leaf.
const NoNode NodeID = -1

// Corridor is the floor strip joining the centres of two sibling containers.
type Corridor struct {
	Rect
}

// Horizontal reports whether the corridor runs left to right.
func (c Corridor) Horizontal() bool {
	return c.Width > c.Height
}

// Node is one container of the partition tree. A node has either two
// children or none; only internal nodes carry a corridor and only leaves can
// hold a room.
type Node struct {
	Container   Rect
	Left, Right NodeID
	Corridor    *Corridor
	Room        *Room
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == NoNode
}

// Tree is a binary space partition stored as an arena: children are indices
// into the node slice, so the tree holds no pointers between nodes.
type Tree struct {
	nodes []Node
	root  NodeID
}

// Partition recursively splits region into a tree of containers.
func Partition(r *rand.Rand, region Rect, iterations int, cfg Config) *Tree {
	t := &Tree{}
	t.root = t.split(r, region, iterations, cfg)
	return t
}

func (t *Tree) add(container Rect) NodeID {
	t.nodes = append(t.nodes, Node{Container: container, Left: NoNode, Right: NoNode})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) split(r *rand.Rand, region Rect, iterations int, cfg Config) NodeID {
	id := t.add(region)
	if iterations <= 0 || !canSplit(region, cfg.MinimumSize) {
		return id
	}

	a, b, ok := splitContainer(r, region, cfg)
	if !ok {
		// Out of retries: the container stays a leaf.
		return id
	}

	left := t.split(r, a, iterations-1, cfg)
	right := t.split(r, b, iterations-1, cfg)

	node := &t.nodes[id]
	node.Left = left
	node.Right = right
	node.Corridor = newCorridor(a, b, cfg.CorridorWidth)
	return id
}

// canSplit reports whether region has room for two containers of minSize
// along at least one axis.
func canSplit(region Rect, minSize int) bool {
	return region.Width >= 2*minSize || region.Height >= 2*minSize
}

// splitContainer draws a random axis and offset until both halves respect
// the minimum size and ratio, giving up after cfg.SplitRetries retries.
func splitContainer(r *rand.Rand, region Rect, cfg Config) (Rect, Rect, bool) {
	for attempt := 0; attempt <= cfg.SplitRetries; attempt++ {
		if r.Intn(2) == 0 {
			// Vertical cut: children sit side by side.
			if region.Width < 2 {
				continue
			}
			offset := 1 + r.Intn(region.Width-1)
			a := Rect{X: region.X, Y: region.Y, Width: offset, Height: region.Height}
			b := Rect{X: region.X + offset, Y: region.Y, Width: region.Width - offset, Height: region.Height}
			if a.Width < cfg.MinimumSize || b.Width < cfg.MinimumSize {
				continue
			}
			if ratio(a.Width, a.Height) < cfg.MinimumRatio || ratio(b.Width, b.Height) < cfg.MinimumRatio {
				continue
			}
			return a, b, true
		}

		// Horizontal cut: children are stacked.
		if region.Height < 2 {
			continue
		}
		offset := 1 + r.Intn(region.Height-1)
		a := Rect{X: region.X, Y: region.Y, Width: region.Width, Height: offset}
		b := Rect{X: region.X, Y: region.Y + offset, Width: region.Width, Height: region.Height - offset}
		if a.Height < cfg.MinimumSize || b.Height < cfg.MinimumSize {
			continue
		}
		if ratio(a.Height, a.Width) < cfg.MinimumRatio || ratio(b.Height, b.Width) < cfg.MinimumRatio {
			continue
		}
		return a, b, true
	}
	return Rect{}, Rect{}, false
}

func ratio(a, b int) float64 {
	return float64(a) / float64(b)
}

// corridorCenter rounds odd sizes up.
func corridorCenter(r Rect) Point {
	return Point{X: r.X + (r.Width+1)/2, Y: r.Y + (r.Height+1)/2}
}

// newCorridor joins the centres of a and b with a strip width cells thick.
func newCorridor(a, b Rect, width int) *Corridor {
	ca, cb := corridorCenter(a), corridorCenter(b)
	if ca.X == cb.X {
		return &Corridor{Rect{
			X:      ca.X - width/2,
			Y:      min(ca.Y, cb.Y),
			Width:  width,
			Height: abs(cb.Y - ca.Y),
		}}
	}
	return &Corridor{Rect{
		X:      min(ca.X, cb.X),
		Y:      ca.Y - width/2,
		Width:  abs(cb.X - ca.X),
		Height: width,
	}}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Root returns the id of the root node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Leaves returns the leaf ids in left-to-right (in-order) order.
func (t *Tree) Leaves() []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(id NodeID) {
		n := &t.nodes[id]
		if n.IsLeaf() {
			out = append(out, id)
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	if len(t.nodes) > 0 {
		walk(t.root)
	}
	return out
}

// Corridors returns every corridor in pre-order.
func (t *Tree) Corridors() []Corridor {
	var out []Corridor
	var walk func(NodeID)
	walk = func(id NodeID) {
		n := &t.nodes[id]
		if n.Corridor != nil {
			out = append(out, *n.Corridor)
		}
		if !n.IsLeaf() {
			walk(n.Left)
			walk(n.Right)
		}
	}
	if len(t.nodes) > 0 {
		walk(t.root)
	}
	return out
}

// Rooms returns the rooms held by leaves, in leaf order.
func (t *Tree) Rooms() []*Room {
	var out []*Room
	for _, id := range t.Leaves() {
		if room := t.nodes[id].Room; room != nil {
			out = append(out, room)
		}
	}
	return out
}
