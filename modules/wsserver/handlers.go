package wsserver

import (
	"encoding/json"
	"errors"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/rob-vincent/chat-app/modules/broadcast"
	"github.com/rob-vincent/chat-app/modules/chat"
	"github.com/rob-vincent/chat-app/modules/presence"
)

// Handlers contains the HTTP and WebSocket handlers. The transport assigns
// each connection an opaque identity and translates coordinator errors into
// acknowledgement frames; all chat semantics live in the coordinator.
type Handlers struct {
	coordinator *chat.Coordinator
	hub         *broadcast.Hub
	stats       presence.StatsPort
	logger      types.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(coordinator *chat.Coordinator, hub *broadcast.Hub, stats presence.StatsPort, logger types.Logger) *Handlers {
	return &Handlers{
		coordinator: coordinator,
		hub:         hub,
		stats:       stats,
		logger:      logger,
	}
}

// HandleWebSocket owns one connection for its lifetime: a read loop here
// plus a writer goroutine draining the hub outbox. The directory entry is
// removed before the hub detach, so departure broadcasts never target the
// leaving connection.
func (h *Handlers) HandleWebSocket(c *websocket.Conn) {
	connID := uuid.New().String()
	client := h.hub.Attach(connID)

	done := make(chan struct{})
	go h.writePump(c, client, done)

	defer func() {
		h.coordinator.Disconnect(connID)
		h.hub.Detach(connID)
		<-done
		_ = c.Close()
	}()

	h.logger.Info("WebSocket connected", "connID", connID)

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read failed", "connID", connID, "error", err)
			}
			break
		}

		var msg InboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.hub.SendError(connID, "Invalid message format")
			continue
		}

		if drop := h.dispatch(connID, msg); drop {
			break
		}
	}

	h.logger.Info("WebSocket disconnected", "connID", connID)
}

// dispatch routes one inbound message. The returned flag asks the read loop
// to drop the connection, which only happens on the bug-class double join.
func (h *Handlers) dispatch(connID string, msg InboundMessage) bool {
	switch msg.Type {
	case TypeJoin:
		var p JoinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.hub.SendError(connID, "Invalid join payload")
			return false
		}
		if err := h.coordinator.Join(connID, p.Username, p.Room); err != nil {
			h.hub.SendError(connID, joinErrorText(err))
			return errors.Is(err, chat.ErrConnectionExists)
		}

	case TypeSendMessage:
		var p TextPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.hub.SendError(connID, "Invalid message payload")
			return false
		}
		if err := h.coordinator.SendText(connID, p.Text); err != nil {
			h.hub.SendError(connID, sendErrorText(err))
		}

	case TypeSendLocation:
		var p LocationPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			h.hub.SendError(connID, "Invalid location payload")
			return false
		}
		if err := h.coordinator.ShareLocation(connID, p.Latitude, p.Longitude); err != nil {
			h.hub.SendError(connID, sendErrorText(err))
		}

	default:
		h.hub.SendError(connID, "Unknown message type: "+msg.Type)
	}
	return false
}

// writePump writes outbox frames to the socket until the client is
// detached. On a write failure it keeps draining so Detach can complete.
func (h *Handlers) writePump(c *websocket.Conn, client *broadcast.Client, done chan struct{}) {
	defer close(done)

	for data := range client.Outbox() {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("WebSocket write failed", "connID", client.ID, "error", err)
			for range client.Outbox() {
			}
			return
		}
	}
}

// joinErrorText maps join errors to the client-facing acknowledgement.
func joinErrorText(err error) string {
	switch {
	case errors.Is(err, chat.ErrMissingField):
		return "Username and room are required!"
	case errors.Is(err, chat.ErrDuplicateUser):
		return "Username is in use!"
	default:
		return "Unable to join room"
	}
}

// sendErrorText maps send errors to the client-facing acknowledgement.
func sendErrorText(err error) string {
	switch {
	case errors.Is(err, chat.ErrContentRejected):
		return "Profanity is not allowed!"
	case errors.Is(err, chat.ErrUnknownUser):
		return "Join a room first"
	default:
		return "Unable to deliver message"
	}
}

// REST Handlers

// GetStats handles activity snapshot requests (GET /stats).
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	summary, err := h.stats.Snapshot(c.Context())
	if err != nil {
		h.logger.Error("Failed to fetch presence snapshot", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "stats unavailable",
		})
	}
	return c.JSON(summary)
}

// HealthCheck handles health check requests (GET /health).
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "chat-app",
	})
}
