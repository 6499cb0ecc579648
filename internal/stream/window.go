package stream

import (
	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
	"github.com/zyedidia/generic/mapset"
)

// live is a chunk placed in the world.
type live struct {
	id       int
	chunk    *dungeon.Chunk
	origin   dungeon.Point
	consumed mapset.Set[dungeon.Point] // local door cells that no longer trigger
}

func newLive(id int, chunk *dungeon.Chunk, origin dungeon.Point) *live {
	return &live{id: id, chunk: chunk, origin: origin, consumed: mapset.New[dungeon.Point]()}
}

// bounds returns the world cells the chunk covers.
func (l *live) bounds() dungeon.Rect {
	return dungeon.Rect{X: l.origin.X, Y: l.origin.Y, Width: l.chunk.Width, Height: l.chunk.Height}
}

func (l *live) toWorld(p dungeon.Point) dungeon.Point {
	return dungeon.Point{X: p.X + l.origin.X, Y: p.Y + l.origin.Y}
}

func (l *live) toLocal(p dungeon.Point) dungeon.Point {
	return dungeon.Point{X: p.X - l.origin.X, Y: p.Y - l.origin.Y}
}

func (l *live) info() *SlotInfo {
	if l == nil {
		return nil
	}
	return &SlotInfo{ID: l.id, Seed: l.chunk.Seed, Origin: l.origin, Doors: len(l.chunk.Doors())}
}

type slot int

const (
	slotCurrent slot = iota
	slotPrevious
	slotTransient
)

// window holds the three chunk slots. Every change goes through one of its
// transitions so slots are never reassigned piecemeal.
type window [3]*live

func (w *window) get(s slot) *live { return w[s] }

// push makes next current, demoting current to previous and previous to
// transient.
func (w *window) push(next *live) {
	w[slotTransient], w[slotPrevious], w[slotCurrent] = w[slotPrevious], w[slotCurrent], next
}

// swap exchanges current and previous.
func (w *window) swap() {
	w[slotCurrent], w[slotPrevious] = w[slotPrevious], w[slotCurrent]
}

// evict empties the transient slot and returns what it held.
func (w *window) evict() *live {
	out := w[slotTransient]
	w[slotTransient] = nil
	return out
}
