package gateway

import (
	"encoding/json"

	"github.com/G17aurav/Word-Guess/internal/game"
)

// inbound is one client frame: {"type": "...", "payload": {...}}.
type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func encodeEvent(e game.Event) ([]byte, error) {
	return json.Marshal(outbound{Type: e.Type, Payload: e.Payload})
}

// clientActions lists what a client may send. Disconnects come from the
// connection itself, never from a frame.
var clientActions = map[string]struct{}{
	game.ActionCreateRoom:  {},
	game.ActionJoinRoom:    {},
	game.ActionStartGame:   {},
	game.ActionSelectWord:  {},
	game.ActionDraw:        {},
	game.ActionClear:       {},
	game.ActionChatMessage: {},
}
