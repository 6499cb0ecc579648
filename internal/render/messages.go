package render

import "github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"

// Outbound message types.
const (
	TypeAnchor  = "anchor"
	TypeTile    = "tile"
	TypeDispose = "dispose"
)

// TypePosition is the only message clients send.
const TypePosition = "position"

// Cell is one (layer, x, y, id) tuple on the wire.
type Cell struct {
	Layer string `json:"layer"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	ID    int    `json:"id"`
}

// Origin is a chunk's world offset in cells.
type Origin struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Message is sent to every connected client.
type Message struct {
	Type   string  `json:"type"`
	Chunk  int     `json:"chunk"`
	Origin *Origin `json:"origin,omitempty"`
	Cells  []Cell  `json:"cells,omitempty"`
}

// Inbound is read from clients.
type Inbound struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

func toCells(updates []dungeon.CellUpdate) []Cell {
	cells := make([]Cell, len(updates))
	for i, u := range updates {
		cells[i] = Cell{Layer: u.Layer.String(), X: u.X, Y: u.Y, ID: u.ID}
	}
	return cells
}
