package chat

import (
	"fmt"
	"time"

	domain "github.com/rob-vincent/chat-app/domain/chat"
)

// Clock supplies message timestamps. Injected so tests can pin time.
type Clock func() time.Time

// systemSender is the username attached to server-generated messages.
const systemSender = "Admin"

// NewTextMessage builds an immutable text message stamped from the clock.
func NewTextMessage(clock Clock, username, text string) domain.Message {
	return domain.Message{
		Kind:      domain.KindText,
		Username:  username,
		Text:      text,
		CreatedAt: clock(),
	}
}

// NewLocationMessage builds a location message whose payload is a map link
// for the given coordinates.
func NewLocationMessage(clock Clock, username string, latitude, longitude float64) domain.Message {
	return domain.Message{
		Kind:      domain.KindLocation,
		Username:  username,
		URL:       fmt.Sprintf("https://www.google.com/maps?q=%v,%v", latitude, longitude),
		CreatedAt: clock(),
	}
}
