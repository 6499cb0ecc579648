// Package stream keeps a window of generated chunks around a moving agent and
// stitches each new chunk to the one the agent is leaving.
package stream

import (
	"errors"
	"fmt"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
)

var (
	ErrNotStarted     = errors.New("stream: controller not started")
	ErrAlreadyStarted = errors.New("stream: controller already started")
	ErrPathNotFound   = errors.New("stream: no path between chunks")
	ErrNoDoor         = errors.New("stream: new chunk has no door")
)

// Position is the agent's world-space position. Only X and Z are used; Y is
// the vertical axis.
type Position struct {
	X, Y, Z float64
}

func (p Position) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
}

// Renderer turns cell updates into whatever the client draws. Chunk ids are
// unique for the lifetime of a controller.
type Renderer interface {
	Emit(chunkID int, updates []dungeon.CellUpdate)
	Dispose(chunkID int)
}

// Placer anchors a chunk's tile origin in world space, in cells.
type Placer interface {
	Anchor(chunkID int, origin dungeon.Point)
}

// PositionSource reports the latest agent position, if any has been seen.
type PositionSource interface {
	Position() (Position, bool)
}

// NopRenderer discards everything.
type NopRenderer struct{}

func (NopRenderer) Emit(int, []dungeon.CellUpdate) {}
func (NopRenderer) Dispose(int)                    {}
func (NopRenderer) Anchor(int, dungeon.Point)      {}

// Config holds the stream parameters that do not affect generation.
type Config struct {
	CellSize     float64 // world units per cell
	SnapDistance float64 // world distance at which a door triggers
}

// DefaultConfig returns one world unit per cell and a one-cell snap radius.
func DefaultConfig() Config {
	return Config{CellSize: 1, SnapDistance: 1}
}

// Trigger identifies what a tick did.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerCurrent
	TriggerPrevious
)

func (t Trigger) String() string {
	switch t {
	case TriggerCurrent:
		return "current"
	case TriggerPrevious:
		return "previous"
	default:
		return "none"
	}
}

// TickResult reports the structural change a tick made.
type TickResult struct {
	Trigger   Trigger
	Direction dungeon.Direction
	ChunkID   int           // id of the chunk generated by this tick
	Seed      string        // its seed
	Origin    dungeon.Point // its world origin in cells
	From      dungeon.Point // world cell of the door the agent reached
	To        dungeon.Point // world cell of the door the stitch ended on
	Path      []dungeon.Point
	// Warning is ErrPathNotFound or ErrNoDoor when the chunks were left
	// adjacent but unconnected.
	Warning error
}

// SlotInfo describes an occupied slot.
type SlotInfo struct {
	ID     int
	Seed   string
	Origin dungeon.Point
	Doors  int
}

// Snapshot is a point-in-time view of the controller.
type Snapshot struct {
	Started   bool
	Current   *SlotInfo
	Previous  *SlotInfo
	Transient *SlotInfo
	Position  Position
}
