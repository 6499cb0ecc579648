package testclient

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/render"
)

// TestClient represents an agent connected to the dungeon render hub. It
// records every message the hub sends and mirrors the tiles layer of each
// chunk so scenarios can look for doors.
type TestClient struct {
	Name     string
	conn     *websocket.Conn
	messages []render.Message
	chunks   map[int]*ChunkView
	mu       sync.Mutex
	writeMu  sync.Mutex
	done     chan struct{}
}

// ChunkView is the client's picture of one chunk.
type ChunkView struct {
	ID       int
	Origin   dungeon.Point
	Anchored bool
	Tiles    map[dungeon.Point]int // chunk-local cell -> tile id
}

// Doors returns the world cells of the chunk's doors in row-major order.
func (v *ChunkView) Doors() []dungeon.Point {
	var out []dungeon.Point
	for p, id := range v.Tiles {
		if id == dungeon.Door {
			out = append(out, dungeon.Point{X: v.Origin.X + p.X, Y: v.Origin.Y + p.Y})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// NewTestClient connects to the hub at address, a ws:// URL. The Origin header
// is set to the address host so same-origin servers accept the client.
func NewTestClient(name, address string) (*TestClient, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}
	header := http.Header{}
	header.Set("Origin", "http://"+u.Host)

	conn, _, err := websocket.DefaultDialer.Dial(address, header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client := &TestClient{
		Name:     name,
		conn:     conn,
		messages: make([]render.Message, 0),
		chunks:   make(map[int]*ChunkView),
		done:     make(chan struct{}),
	}

	go client.readMessages()

	return client, nil
}

// readMessages continuously reads messages from the hub
func (c *TestClient) readMessages() {
	for {
		var msg render.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.mu.Lock()
		c.messages = append(c.messages, msg)
		c.apply(msg)
		c.mu.Unlock()
	}
}

// apply folds msg into the chunk mirror. Callers hold c.mu.
func (c *TestClient) apply(msg render.Message) {
	if msg.Type == render.TypeDispose {
		delete(c.chunks, msg.Chunk)
		return
	}

	view, ok := c.chunks[msg.Chunk]
	if !ok {
		view = &ChunkView{ID: msg.Chunk, Tiles: make(map[dungeon.Point]int)}
		c.chunks[msg.Chunk] = view
	}
	switch msg.Type {
	case render.TypeAnchor:
		if msg.Origin != nil {
			view.Origin = dungeon.Point{X: msg.Origin.X, Y: msg.Origin.Y}
			view.Anchored = true
		}
	case render.TypeTile:
		for _, cell := range msg.Cells {
			if cell.Layer == dungeon.LayerTiles.String() {
				view.Tiles[dungeon.Point{X: cell.X, Y: cell.Y}] = cell.ID
			}
		}
	}
}

// SendPosition reports the agent's world position to the hub.
func (c *TestClient) SendPosition(x, y, z float64) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	return c.conn.WriteJSON(render.Inbound{Type: render.TypePosition, X: x, Y: y, Z: z})
}

// GetMessages returns all messages received so far
func (c *TestClient) GetMessages() []render.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]render.Message, len(c.messages))
	copy(result, c.messages)
	return result
}

// ClearMessages clears the message buffer. The chunk mirror is kept.
func (c *TestClient) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = make([]render.Message, 0)
}

// Chunk returns a copy of the client's view of chunk id.
func (c *TestClient) Chunk(id int) (*ChunkView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	view, ok := c.chunks[id]
	if !ok {
		return nil, false
	}
	cp := *view
	cp.Tiles = make(map[dungeon.Point]int, len(view.Tiles))
	for p, tile := range view.Tiles {
		cp.Tiles[p] = tile
	}
	return &cp, true
}

// ChunkIDs returns the ids of every chunk the client currently knows about.
func (c *TestClient) ChunkIDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int, 0, len(c.chunks))
	for id := range c.chunks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// WaitForMessage waits for a message matching match (with timeout)
func (c *TestClient) WaitForMessage(match func(render.Message) bool, timeout time.Duration) (render.Message, bool) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		for _, msg := range c.GetMessages() {
			if match(msg) {
				return msg, true
			}
		}
		time.Sleep(20 * time.Millisecond)
	}

	return render.Message{}, false
}

// WaitForType waits for a message of type typ about chunk (with timeout)
func (c *TestClient) WaitForType(typ string, chunk int, timeout time.Duration) bool {
	_, ok := c.WaitForMessage(func(m render.Message) bool {
		return m.Type == typ && m.Chunk == chunk
	}, timeout)
	return ok
}

// HasMessage checks if any message of type typ has been received
func (c *TestClient) HasMessage(typ string) bool {
	for _, msg := range c.GetMessages() {
		if msg.Type == typ {
			return true
		}
	}
	return false
}

// PrintMessages prints a summary of all messages (for debugging)
func (c *TestClient) PrintMessages() {
	messages := c.GetMessages()
	fmt.Printf("\n=== Messages for %s ===\n", c.Name)
	for i, msg := range messages {
		fmt.Printf("[%d] %s chunk=%d cells=%d\n", i, msg.Type, msg.Chunk, len(msg.Cells))
	}
	fmt.Println("======================")
}

// Close closes the client connection
func (c *TestClient) Close() error {
	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}

	c.writeMu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}
