package dungeon

import (
	"fmt"
	"math/rand"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/logger"
	"github.com/zyedidia/generic/mapset"
)

// Room is a template instantiated inside a leaf container.
type Room struct {
	ID        int // placement order, unique within a chunk
	Template  *RoomTemplate
	Position  Point // top-left cell
	Container Rect
	Edge      Direction // outward side for edge rooms, NoDirection otherwise
}

// Bounds returns the cells the room covers.
func (r *Room) Bounds() Rect {
	return Rect{X: r.Position.X, Y: r.Position.Y, Width: r.Template.Width, Height: r.Template.Height}
}

// Type returns the room's template type.
func (r *Room) Type() RoomType {
	return r.Template.Type
}

// fillRemaining asks the placer to use every container still empty.
const fillRemaining = -1

// placementOrder is the order room types claim containers in.
var placementOrder = []struct {
	Type  RoomType
	Count int
}{
	{RoomBoss, 1},
	{RoomEntrance, 1},
	{RoomHeal, 1},
	{RoomTreasure, 1},
	{RoomMonsters, fillRemaining},
}

// PlaceRooms assigns templates from catalog to the leaves of tree and returns
// the placed rooms in placement order. A container no template fits is left
// empty and logged; only a catalog missing a required type is an error.
func PlaceRooms(r *rand.Rand, tree *Tree, catalog *Catalog) ([]*Room, error) {
	if err := catalog.Require(AllRoomTypes...); err != nil {
		return nil, err
	}

	empty := tree.Leaves()
	used := mapset.New[string]()
	var rooms []*Room

	for _, step := range placementOrder {
		target := step.Count
		if target == fillRemaining {
			target = len(empty)
		}

		candidates := append([]NodeID(nil), empty...)
		placed := 0
		for placed < target && len(candidates) > 0 {
			i := r.Intn(len(candidates))
			id := candidates[i]
			candidates = append(candidates[:i], candidates[i+1:]...)

			node := tree.Node(id)
			tpl := chooseTemplate(catalog.ByType(step.Type), node.Container, used)
			if tpl == nil {
				logger.Warning("Room placement skipped",
					"error", fmt.Errorf("%w: %s in %s", ErrPlacementSkipped, step.Type, node.Container))
				continue
			}

			used.Put(tpl.ID)
			room := &Room{
				ID:        len(rooms),
				Template:  tpl,
				Position:  centerIn(node.Container, tpl),
				Container: node.Container,
				Edge:      NoDirection,
			}
			node.Room = room
			rooms = append(rooms, room)
			empty = removeNode(empty, id)
			placed++
		}
	}
	return rooms, nil
}

// chooseTemplate returns the largest fitting template not used yet, falling
// back to reuse when every fitting template has been placed.
func chooseTemplate(templates []*RoomTemplate, container Rect, used mapset.Set[string]) *RoomTemplate {
	if tpl := largestFitting(templates, container, func(t *RoomTemplate) bool { return !used.Has(t.ID) }); tpl != nil {
		return tpl
	}
	return largestFitting(templates, container, func(*RoomTemplate) bool { return true })
}

// largestFitting orders by width then height, keeping catalog order on ties.
func largestFitting(templates []*RoomTemplate, container Rect, ok func(*RoomTemplate) bool) *RoomTemplate {
	var best *RoomTemplate
	for _, t := range templates {
		if !ok(t) || !t.Fits(container) {
			continue
		}
		if best == nil || t.Width > best.Width || (t.Width == best.Width && t.Height > best.Height) {
			best = t
		}
	}
	return best
}

// centerIn centres tpl on the container centre, flooring odd halves.
func centerIn(container Rect, tpl *RoomTemplate) Point {
	c := container.Center()
	return Point{X: c.X - tpl.Width/2, Y: c.Y - tpl.Height/2}
}

func removeNode(ids []NodeID, id NodeID) []NodeID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
