package chat

import (
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	domain "github.com/rob-vincent/chat-app/domain/chat"
	"github.com/rob-vincent/chat-app/events"
)

// Router delivers payloads to live connections. The broadcast hub implements
// it; fakes stand in during tests. Delivery is best-effort fire-and-forget
// per connection.
type Router interface {
	SendTo(connID, event string, payload any)
	BroadcastToRoom(room, event string, payload any)
	BroadcastToRoomExcept(room, exceptConnID, event string, payload any)
}

// Outbound event names on the transport.
const (
	EventMessage         = "message"
	EventLocationMessage = "locationMessage"
	EventRoomData        = "roomData"
)

// Coordinator owns the per-connection lifecycle: join, message fan-out and
// disconnect cleanup. Each connection moves through unjoined -> joined ->
// disconnected; a directory record exists exactly while the connection is
// joined. The directory is mutated before any broadcast, so every roster a
// room receives reflects the completed transition.
type Coordinator struct {
	directory *Directory
	router    Router
	moderator Moderator
	clock     Clock
	logger    types.Logger
	bus       mono.EventBus
}

// NewCoordinator creates a coordinator over the given directory. The router
// is wired separately because the hub needs the directory first.
func NewCoordinator(directory *Directory, moderator Moderator, clock Clock, logger types.Logger) *Coordinator {
	return &Coordinator{
		directory: directory,
		moderator: moderator,
		clock:     clock,
		logger:    logger,
	}
}

// SetRouter wires the delivery capability.
func (c *Coordinator) SetRouter(router Router) {
	c.router = router
}

// SetEventBus wires the event bus. Event emission is observability only;
// delivery ordering is carried entirely by the direct router path.
func (c *Coordinator) SetEventBus(bus mono.EventBus) {
	c.bus = bus
}

// Join moves a connection from unjoined to joined. On success the joiner
// gets a private welcome, the rest of the room gets a join announcement, and
// the whole room including the joiner gets the updated roster, in that
// order. On failure nothing is broadcast and the error is returned for the
// transport to acknowledge.
func (c *Coordinator) Join(connID, username, room string) error {
	user, err := c.directory.Add(connID, username, room)
	if err != nil {
		return err
	}

	c.router.SendTo(connID, EventMessage,
		NewTextMessage(c.clock, systemSender, "Welcome!"))
	c.router.BroadcastToRoomExcept(user.Room, connID, EventMessage,
		NewTextMessage(c.clock, systemSender, user.Username+" has joined!"))
	c.router.BroadcastToRoom(user.Room, EventRoomData, domain.RoomData{
		Room:  user.Room,
		Users: c.directory.Usernames(user.Room),
	})

	c.publishJoined(user)
	c.logger.Info("user joined", "connID", connID, "username", user.Username, "room", user.Room)
	return nil
}

// SendText broadcasts a text message to the sender's room, including the
// sender: the sending client renders its own message from the echo. Text is
// checked against the moderation predicate first; rejected content is not
// broadcast.
func (c *Coordinator) SendText(connID, text string) error {
	user, ok := c.directory.Get(connID)
	if !ok {
		return ErrUnknownUser
	}
	if !c.moderator.Allow(text) {
		return ErrContentRejected
	}

	c.router.BroadcastToRoom(user.Room, EventMessage,
		NewTextMessage(c.clock, user.Username, text))

	c.publishMessage(user, domain.KindText)
	return nil
}

// ShareLocation broadcasts a map link for the given coordinates to the
// sender's room, including the sender. Locations bypass moderation.
func (c *Coordinator) ShareLocation(connID string, latitude, longitude float64) error {
	user, ok := c.directory.Get(connID)
	if !ok {
		return ErrUnknownUser
	}

	c.router.BroadcastToRoom(user.Room, EventLocationMessage,
		NewLocationMessage(c.clock, user.Username, latitude, longitude))

	c.publishMessage(user, domain.KindLocation)
	return nil
}

// Disconnect moves a connection to its terminal state. If the connection had
// joined, the remaining room members get a departure announcement and the
// reduced roster; a connection that never joined leaves silently. Safe to
// call more than once for the same connection.
func (c *Coordinator) Disconnect(connID string) {
	user, ok := c.directory.Remove(connID)
	if !ok {
		return
	}

	c.router.BroadcastToRoom(user.Room, EventMessage,
		NewTextMessage(c.clock, systemSender, user.Username+" has left!"))
	c.router.BroadcastToRoom(user.Room, EventRoomData, domain.RoomData{
		Room:  user.Room,
		Users: c.directory.Usernames(user.Room),
	})

	c.publishLeft(user)
	c.logger.Info("user left", "connID", connID, "username", user.Username, "room", user.Room)
}

func (c *Coordinator) publishJoined(user domain.User) {
	if c.bus == nil {
		return
	}
	event := events.UserJoinedEvent{
		ConnectionID: user.ID,
		Room:         user.Room,
		Username:     user.Username,
		Timestamp:    c.clock(),
	}
	if err := events.UserJoinedV1.Publish(c.bus, event, nil); err != nil {
		c.logger.Warn("failed to publish UserJoined event", "error", err)
	}
}

func (c *Coordinator) publishLeft(user domain.User) {
	if c.bus == nil {
		return
	}
	event := events.UserLeftEvent{
		ConnectionID: user.ID,
		Room:         user.Room,
		Username:     user.Username,
		Timestamp:    c.clock(),
	}
	if err := events.UserLeftV1.Publish(c.bus, event, nil); err != nil {
		c.logger.Warn("failed to publish UserLeft event", "error", err)
	}
}

func (c *Coordinator) publishMessage(user domain.User, kind domain.Kind) {
	if c.bus == nil {
		return
	}
	event := events.MessageSentEvent{
		ConnectionID: user.ID,
		Room:         user.Room,
		Username:     user.Username,
		Kind:         string(kind),
		Timestamp:    c.clock(),
	}
	if err := events.MessageSentV1.Publish(c.bus, event, nil); err != nil {
		c.logger.Warn("failed to publish MessageSent event", "error", err)
	}
}
