package websocket

import "encoding/json"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventResult Event = "result"
	EventError  Event = "error"
	EventPing   Event = "ping"
)

// ResultMessage wraps one live submission result for the quiz owner. Payload
// is the JSON published by the submit path, forwarded untouched.
type ResultMessage struct {
	Event   Event           `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type ErrorMessage struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PingMessage struct {
	Event Event `json:"event"`
}
