package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// UserJoinedEvent is emitted after a connection successfully joins a room.
type UserJoinedEvent struct {
	ConnectionID string    `json:"connection_id"`
	Room         string    `json:"room"`
	Username     string    `json:"username"`
	Timestamp    time.Time `json:"timestamp"`
}

// UserLeftEvent is emitted after a joined connection disconnects.
type UserLeftEvent struct {
	ConnectionID string    `json:"connection_id"`
	Room         string    `json:"room"`
	Username     string    `json:"username"`
	Timestamp    time.Time `json:"timestamp"`
}

// MessageSentEvent is emitted for every delivered text or location message.
type MessageSentEvent struct {
	ConnectionID string    `json:"connection_id"`
	Room         string    `json:"room"`
	Username     string    `json:"username"`
	Kind         string    `json:"kind"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event definitions for the chat domain.
var (
	UserJoinedV1 = helper.EventDefinition[UserJoinedEvent](
		"chat",
		"UserJoined",
		"v1",
	)

	UserLeftV1 = helper.EventDefinition[UserLeftEvent](
		"chat",
		"UserLeft",
		"v1",
	)

	MessageSentV1 = helper.EventDefinition[MessageSentEvent](
		"chat",
		"MessageSent",
		"v1",
	)
)
