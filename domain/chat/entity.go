package chat

import "time"

// Kind discriminates the two message shapes the coordinator produces.
type Kind string

const (
	KindText     Kind = "text"
	KindLocation Kind = "location"
)

// User ties one live connection to a username and room. Exactly one User
// exists per connection; the record is created on join, removed on
// disconnect and never mutated in between.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Room     string `json:"room"`
}

// Message is an immutable chat payload. Text messages carry Text, location
// messages carry URL. Messages are not retained after delivery.
type Message struct {
	Kind      Kind      `json:"-"`
	Username  string    `json:"username"`
	Text      string    `json:"text,omitempty"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomData is the membership roster broadcast to a room after every join
// and departure.
type RoomData struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}
