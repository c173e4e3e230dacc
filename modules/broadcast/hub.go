package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/go-monolith/mono/pkg/types"
)

// sendQueueSize bounds each connection's outbox. A connection that falls
// this far behind starts losing broadcasts instead of stalling the room.
const sendQueueSize = 256

// RosterSource resolves a room name to the connection IDs currently in it.
// The chat directory implements this; membership is snapshotted once per
// broadcast, so connections joining mid-broadcast may miss that broadcast.
type RosterSource interface {
	ConnectionsInRoom(room string) []string
}

// Client is one attached connection's delivery endpoint. The transport
// drains Outbox from a dedicated writer goroutine, so hub fan-out never
// performs network I/O and a stalled socket cannot block unrelated rooms.
type Client struct {
	ID   string
	send chan []byte
}

// Outbox returns the stream of marshaled frames to write to the connection.
// It is closed when the client is detached.
func (c *Client) Outbox() <-chan []byte {
	return c.send
}

// Envelope is the wire frame for every outbound event.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Hub fans events out to live connections by room. It keeps no room state
// of its own; every broadcast reads membership from the roster source, so
// there is exactly one place that knows who is where.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	source  RosterSource
	logger  types.Logger
}

// NewHub creates a hub over the given roster source.
func NewHub(source RosterSource, logger types.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		source:  source,
		logger:  logger,
	}
}

// Attach registers a connection and returns its delivery endpoint.
func (h *Hub) Attach(connID string) *Client {
	client := &Client{
		ID:   connID,
		send: make(chan []byte, sendQueueSize),
	}

	h.mu.Lock()
	h.clients[connID] = client
	h.mu.Unlock()

	h.logger.Debug("client attached", "connID", connID)
	return client
}

// Detach removes a connection and closes its outbox. Detaching an unknown
// ID is a no-op. Closing happens under the write lock while all enqueues
// happen under the read lock, so a close can never race a send.
func (h *Hub) Detach(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	delete(h.clients, connID)
	close(client.send)
	h.logger.Debug("client detached", "connID", connID)
}

// SendTo delivers an event to a single connection.
func (h *Hub) SendTo(connID, event string, payload any) {
	data, err := h.marshal(event, payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.clients[connID]; ok {
		h.enqueue(client, data)
	}
}

// SendError delivers an error acknowledgement to a single connection.
func (h *Hub) SendError(connID, message string) {
	data, err := json.Marshal(Envelope{Type: "error", Error: message})
	if err != nil {
		h.logger.Error("failed to marshal error envelope", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, ok := h.clients[connID]; ok {
		h.enqueue(client, data)
	}
}

// BroadcastToRoom delivers an event to every live connection in a room.
func (h *Hub) BroadcastToRoom(room, event string, payload any) {
	h.broadcast(room, "", event, payload)
}

// BroadcastToRoomExcept delivers an event to every live connection in a
// room except one, so a sender does not receive its own join confirmation.
func (h *Hub) BroadcastToRoomExcept(room, exceptConnID, event string, payload any) {
	h.broadcast(room, exceptConnID, event, payload)
}

func (h *Hub) broadcast(room, except, event string, payload any) {
	data, err := h.marshal(event, payload)
	if err != nil {
		return
	}

	// Snapshot membership before taking the hub lock; the directory lock is
	// never held while frames are enqueued.
	ids := h.source.ConnectionsInRoom(room)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range ids {
		if id == except {
			continue
		}
		if client, ok := h.clients[id]; ok {
			h.enqueue(client, data)
		}
	}
}

// enqueue hands a frame to one client without blocking. Delivery to a full
// outbox is dropped; one slow connection must not hold up the rest.
func (h *Hub) enqueue(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn("dropping frame for slow client", "connID", client.ID)
	}
}

func (h *Hub) marshal(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal payload", "event", event, "error", err)
		return nil, err
	}
	data, err := json.Marshal(Envelope{Type: event, Payload: raw})
	if err != nil {
		h.logger.Error("failed to marshal envelope", "event", event, "error", err)
		return nil, err
	}
	return data, nil
}

// CloseAll detaches every connection. Used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[string]*Client)
}

// ClientCount returns the number of attached connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
