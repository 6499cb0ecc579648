// Package render streams chunk contents to browser clients over WebSocket
// and collects the agent position they report.
package render

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/webaverse-studios/raid-party-app-sub002/internal/dungeon"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/logger"
	"github.com/webaverse-studios/raid-party-app-sub002/internal/stream"
)

const (
	writeTimeout = 5 * time.Second

	// defaultSendBuffer is the number of messages queued per client before a
	// client that cannot keep up is dropped.
	defaultSendBuffer = 256
)

// Options configures a Hub.
type Options struct {
	// OriginAllowed decides whether a browser origin may connect. Nil allows
	// every origin.
	OriginAllowed func(origin, host string) bool

	// MaxMessageSize caps inbound messages in bytes. Zero means no limit.
	MaxMessageSize int64

	// SendBuffer is the per-client outbound queue length. Zero uses 256.
	SendBuffer int
}

// client is one connected renderer. Messages are queued on send and written
// by the client's own writer goroutine.
type client struct {
	conn *websocket.Conn
	addr string
	send chan []byte
}

func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Debug("Render client write failed", "remote_addr", c.addr, "error", err)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(time.Second))
}

type cellKey struct {
	layer dungeon.LayerKind
	x, y  int
}

// replica mirrors what has been sent for one chunk so late joiners can be
// brought up to date.
type replica struct {
	origin   dungeon.Point
	anchored bool
	cells    map[cellKey]int
}

// Hub implements stream.Renderer and stream.Placer by broadcasting JSON
// messages to every connected client.
type Hub struct {
	opts     Options
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]struct{}
	chunks   map[int]*replica
	position stream.Position
	reported bool
}

// NewHub returns a hub with no clients.
func NewHub(opts Options) *Hub {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	h := &Hub{
		opts:    opts,
		clients: make(map[*client]struct{}),
		chunks:  make(map[int]*replica),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if opts.OriginAllowed == nil {
				return true
			}
			origin := r.Header.Get("Origin")
			allowed := opts.OriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	return h
}

func (h *Hub) replica(id int) *replica {
	r, ok := h.chunks[id]
	if !ok {
		r = &replica{cells: make(map[cellKey]int)}
		h.chunks[id] = r
	}
	return r
}

// Anchor records and broadcasts a chunk's world origin.
func (h *Hub) Anchor(chunkID int, origin dungeon.Point) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r := h.replica(chunkID)
	r.origin, r.anchored = origin, true
	h.broadcast(Message{Type: TypeAnchor, Chunk: chunkID, Origin: &Origin{X: origin.X, Y: origin.Y}})
}

// Emit records and broadcasts cell updates.
func (h *Hub) Emit(chunkID int, updates []dungeon.CellUpdate) {
	if len(updates) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	r := h.replica(chunkID)
	for _, u := range updates {
		r.cells[cellKey{u.Layer, u.X, u.Y}] = u.ID
	}
	h.broadcast(Message{Type: TypeTile, Chunk: chunkID, Cells: toCells(updates)})
}

// Dispose forgets a chunk and tells clients to drop it.
func (h *Hub) Dispose(chunkID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.chunks, chunkID)
	h.broadcast(Message{Type: TypeDispose, Chunk: chunkID})
}

// broadcast queues msg for every client without waiting on the network. It
// must be called with h.mu held so every queue sees messages in the order they
// were produced. A client whose queue is full is dropped.
func (h *Hub) broadcast(msg Message) {
	if len(h.clients) == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to encode render message", "type", msg.Type, "error", err)
		return
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			logger.Warning("Dropping render client that is not keeping up",
				"remote_addr", c.addr,
				"queued", len(c.send))
			h.drop(c)
		}
	}
}

// drop removes c and closes its queue; its writer then closes the
// connection. Callers hold h.mu.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// snapshot returns the messages that rebuild the current replica, ordered by
// chunk id and then by layer and cell. Callers hold h.mu.
func (h *Hub) snapshot() []Message {
	ids := make([]int, 0, len(h.chunks))
	for id := range h.chunks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []Message
	for _, id := range ids {
		r := h.chunks[id]
		if r.anchored {
			out = append(out, Message{Type: TypeAnchor, Chunk: id, Origin: &Origin{X: r.origin.X, Y: r.origin.Y}})
		}
		if len(r.cells) == 0 {
			continue
		}
		keys := make([]cellKey, 0, len(r.cells))
		for k := range r.cells {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := keys[i], keys[j]
			if a.layer != b.layer {
				return a.layer < b.layer
			}
			if a.y != b.y {
				return a.y < b.y
			}
			return a.x < b.x
		})
		cells := make([]Cell, len(keys))
		for i, k := range keys {
			cells[i] = Cell{Layer: k.layer.String(), X: k.x, Y: k.y, ID: r.cells[k]}
		}
		out = append(out, Message{Type: TypeTile, Chunk: id, Cells: cells})
	}
	return out
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	if h.opts.MaxMessageSize > 0 {
		conn.SetReadLimit(h.opts.MaxMessageSize)
	}

	c, err := h.register(conn, r.RemoteAddr)
	if err != nil {
		logger.Error("Failed to encode render snapshot", "remote_addr", r.RemoteAddr, "error", err)
		conn.Close()
		return
	}
	logger.Info("Render client connected", "remote_addr", r.RemoteAddr)
	go c.writePump()

	h.readLoop(conn)

	h.unregister(c)
	logger.Info("Render client disconnected", "remote_addr", r.RemoteAddr)
}

// register queues the replica for conn and adds it to the broadcast set
// atomically, so no update falls between the snapshot and the live feed.
func (h *Hub) register(conn *websocket.Conn, addr string) (*client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	snapshot := h.snapshot()
	c := &client{conn: conn, addr: addr, send: make(chan []byte, len(snapshot)+h.opts.SendBuffer)}
	for _, msg := range snapshot {
		data, err := json.Marshal(msg)
		if err != nil {
			return nil, err
		}
		c.send <- data
	}
	h.clients[c] = struct{}{}
	return c, nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		var in Inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Render client read failed", "error", err)
			}
			return
		}
		switch in.Type {
		case TypePosition:
			h.mu.Lock()
			h.position = stream.Position{X: in.X, Y: in.Y, Z: in.Z}
			h.reported = true
			h.mu.Unlock()
		default:
			logger.Debug("Ignoring render client message", "type", in.Type)
		}
	}
}

// Position returns the last position any client reported.
func (h *Hub) Position() (stream.Position, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position, h.reported
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client once its queued messages are written.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.drop(c)
	}
}

var (
	_ stream.Renderer = (*Hub)(nil)
	_ stream.Placer   = (*Hub)(nil)
)
