package wsserver

import "encoding/json"

// Inbound message types.
const (
	TypeJoin         = "join"
	TypeSendMessage  = "sendMessage"
	TypeSendLocation = "sendLocation"
)

// InboundMessage is the envelope clients send over the WebSocket.
type InboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload carries a join request.
type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// TextPayload carries a text message.
type TextPayload struct {
	Text string `json:"text"`
}

// LocationPayload carries a location share.
type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
