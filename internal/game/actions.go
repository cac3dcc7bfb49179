package game

import "encoding/json"

// Inbound action types.
const (
	ActionCreateRoom  = "create_room"
	ActionJoinRoom    = "join_room"
	ActionStartGame   = "start_game"
	ActionSelectWord  = "select_word"
	ActionDraw        = "draw"
	ActionClear       = "clear"
	ActionChatMessage = "chat_message"
	ActionDisconnect  = "disconnect"
)

// Action is one client request addressed to the engine. The room is resolved
// from the client's session, never from the payload.
type Action struct {
	ClientID string
	Type     string
	Payload  json.RawMessage
}

type createRoomPayload struct {
	Name string `json:"name"`
}

type joinRoomPayload struct {
	Name     string `json:"name"`
	RoomCode string `json:"roomCode"`
}

type selectWordPayload struct {
	Word string `json:"word"`
}

type chatMessagePayload struct {
	Message string `json:"message"`
}

// decodePayload tolerates a missing payload; the zero value then goes through
// the usual validation.
func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
