package http

import (
	"sync"

	"github.com/google/uuid"
)

// Client is one live websocket connection. Messages are pushed through the
// buffered send channel; a per-connection writer goroutine drains it so the
// hub never writes to the socket concurrently.
type Client struct {
	ID     string
	GameID string
	UserID string
	IsHost bool
	send   chan []byte
}

func newClient() *Client {
	return &Client{
		ID:   uuid.NewString(),
		send: make(chan []byte, 16),
	}
}

// Hub is the in-process broadcast group registry: game id -> set of live
// connections. join_room/disconnect mutate the set; a broadcast iterates it.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

// Register adds a connection to the global set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister drops the connection from the global set and its room, and
// closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	h.removeFromRoomLocked(c)
	close(c.send)
}

// Subscribe adds the connection to a game's broadcast group, moving it out
// of any previous room first.
func (h *Hub) Subscribe(c *Client, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoomLocked(c)
	c.GameID = gameID
	if h.rooms[gameID] == nil {
		h.rooms[gameID] = make(map[*Client]struct{})
	}
	h.rooms[gameID][c] = struct{}{}
}

// Leave removes the connection from its room without dropping the connection.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoomLocked(c)
}

func (h *Hub) removeFromRoomLocked(c *Client) {
	if c.GameID == "" {
		return
	}
	if room, ok := h.rooms[c.GameID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.GameID)
		}
	}
	c.GameID = ""
}

// BroadcastRoom sends data to every connection in the game's room. A non-nil
// except is skipped (sender exclusion per event semantics).
func (h *Hub) BroadcastRoom(gameID string, data []byte, except *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[gameID] {
		if c == except {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Slow consumer; drop rather than block the room.
		}
	}
}

// BroadcastAll sends data to every live connection, optionally skipping one.
func (h *Hub) BroadcastAll(data []byte, except *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c == except {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
}

// Send delivers data to a single connection, if it is still registered.
func (h *Hub) Send(c *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
