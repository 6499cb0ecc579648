package stream

import (
	"fmt"
	"math"
	"sync"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/logger"
)

// CellCenter returns the world position of the centre of world cell p.
func (cfg Config) CellCenter(p dungeon.Point) Position {
	return Position{X: (float64(p.X) + 0.5) * cfg.CellSize, Z: (float64(p.Y) + 0.5) * cfg.CellSize}
}

// Controller owns the current, previous and transient chunks and reacts to the
// agent reaching a door. It processes at most one crossing per tick.
type Controller struct {
	mu       sync.Mutex
	gen      dungeon.Config
	cfg      Config
	renderer Renderer
	placer   Placer

	slots    window
	nextID   int
	started  bool
	position Position
}

// NewController returns an idle controller. A nil renderer or placer
// discards its events.
func NewController(gen dungeon.Config, cfg Config, renderer Renderer, placer Placer) *Controller {
	if renderer == nil {
		renderer = NopRenderer{}
	}
	if placer == nil {
		placer = NopRenderer{}
	}
	return &Controller{gen: gen, cfg: cfg, renderer: renderer, placer: placer}
}

// Start generates the first chunk from seed at the world origin.
func (c *Controller) Start(seed string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return ErrAlreadyStarted
	}
	chunk, err := dungeon.Generate(c.gen.WithSeed(seed))
	if err != nil {
		return err
	}

	first := c.newLive(chunk, dungeon.Point{})
	c.slots.push(first)
	c.started = true
	c.show(first)

	logger.Info("Stream started", "seed", seed, "chunk", first.id, "doors", len(chunk.Doors()))
	return nil
}

func (c *Controller) newLive(chunk *dungeon.Chunk, origin dungeon.Point) *live {
	l := newLive(c.nextID, chunk, origin)
	c.nextID++
	return l
}

// show anchors l and sends its full contents to the renderer.
func (c *Controller) show(l *live) {
	c.placer.Anchor(l.id, l.origin)
	c.renderer.Emit(l.id, l.chunk.Cells())
}

// Tick feeds the agent's position to the controller.
func (c *Controller) Tick(pos Position) (TickResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return TickResult{}, ErrNotStarted
	}
	c.position = pos

	current, previous := c.slots.get(slotCurrent), c.slots.get(slotPrevious)
	if door, ok := c.reachedDoor(current, pos); ok {
		return c.cross(TriggerCurrent, current, previous, door)
	}
	if previous != nil {
		if door, ok := c.reachedDoor(previous, pos); ok {
			return c.cross(TriggerPrevious, previous, current, door)
		}
	}
	return idle(), nil
}

func idle() TickResult {
	return TickResult{Trigger: TriggerNone, Direction: dungeon.NoDirection}
}

// reachedDoor returns the unconsumed door of l closest to pos within the snap
// distance, in chunk-local cells.
func (c *Controller) reachedDoor(l *live, pos Position) (dungeon.Point, bool) {
	best, bestDist, found := dungeon.Point{}, math.Inf(1), false
	for _, d := range l.chunk.Doors() {
		if l.consumed.Has(d) {
			continue
		}
		center := c.cfg.CellCenter(l.toWorld(d))
		dist := math.Hypot(pos.X-center.X, pos.Z-center.Z)
		if dist <= c.cfg.SnapDistance && dist < bestDist {
			best, bestDist, found = d, dist, true
		}
	}
	return best, found
}

// cross generates the chunk behind door of from and stitches it on. other is
// the remaining live chunk, if any.
func (c *Controller) cross(trigger Trigger, from, other *live, door dungeon.Point) (TickResult, error) {
	d := dungeon.NearestEdge(door.X, door.Y, from.chunk.Width, from.chunk.Height)
	origin := placeNext(from, c.gen.Width, c.gen.Height, d)
	if other != nil && other.origin == origin {
		// The door leads back into the chunk that is already there.
		return idle(), nil
	}

	seed := from.chunk.NearSeed(d)
	chunk, err := dungeon.Generate(c.gen.WithSeed(seed))
	if err != nil {
		return TickResult{}, fmt.Errorf("failed to generate %s neighbour of %q: %w", d, from.chunk.Seed, err)
	}

	if trigger == TriggerPrevious {
		c.slots.swap()
	}
	next := c.newLive(chunk, origin)
	c.slots.push(next)
	if gone := c.slots.evict(); gone != nil {
		c.renderer.Dispose(gone.id)
		logger.Debug("Chunk disposed", "chunk", gone.id, "seed", gone.chunk.Seed)
	}
	c.show(next)
	from.consumed.Put(door)

	result := TickResult{
		Trigger:   trigger,
		Direction: d,
		ChunkID:   next.id,
		Seed:      seed,
		Origin:    origin,
		From:      from.toWorld(door),
	}
	c.stitch(from, next, &result)

	if result.Warning != nil {
		logger.Warning("Chunks left unconnected",
			"trigger", trigger.String(),
			"direction", d.String(),
			"seed", seed,
			"error", result.Warning)
	} else {
		logger.Info("Chunk stitched",
			"trigger", trigger.String(),
			"direction", d.String(),
			"chunk", next.id,
			"seed", seed,
			"origin", origin.String(),
			"path", len(result.Path))
	}
	return result, nil
}

// stitch carves a corridor from the arrival door in from to the nearest door
// of next and reports the changed cells to the renderer.
func (c *Controller) stitch(from, next *live, result *TickResult) {
	target, ok := nearestDoor(next, result.From)
	if !ok {
		result.Warning = fmt.Errorf("%w: %q", ErrNoDoor, next.chunk.Seed)
		return
	}
	result.To = target
	next.consumed.Put(next.toLocal(target))

	m := merge(from, next)
	path := m.path(result.From, target)
	if path == nil {
		result.Warning = fmt.Errorf("%w: %s to %s", ErrPathNotFound, result.From, target)
		return
	}
	result.Path = path

	updates := carve(m, path)
	for _, part := range []*live{from, next} {
		if u := updates[part]; len(u) > 0 {
			c.renderer.Emit(part.id, u)
			logger.Debug("Stitch carved cells", "chunk", part.id, "cells", len(u))
		}
	}
}

// Snapshot reports slot occupancy and the last agent position.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Started:   c.started,
		Current:   c.slots.get(slotCurrent).info(),
		Previous:  c.slots.get(slotPrevious).info(),
		Transient: c.slots.get(slotTransient).info(),
		Position:  c.position,
	}
}

// Current returns the current chunk and its world origin, or nil before Start.
func (c *Controller) Current() (*dungeon.Chunk, dungeon.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return chunkOf(c.slots.get(slotCurrent))
}

// Previous returns the previous chunk and its world origin, or nil.
func (c *Controller) Previous() (*dungeon.Chunk, dungeon.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return chunkOf(c.slots.get(slotPrevious))
}

func chunkOf(l *live) (*dungeon.Chunk, dungeon.Point) {
	if l == nil {
		return nil, dungeon.Point{}
	}
	return l.chunk, l.origin
}
