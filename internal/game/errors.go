package game

import "errors"

var (
	ErrInvalidName  = errors.New("invalid-name")
	ErrRoomNotFound = errors.New("room-not-found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid-state")
)

var ErrEngineStopped = errors.New("engine-stopped")

// roomErrorMessage maps the errors surfaced to clients as room_error.
// Everything else is dropped silently.
func roomErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrInvalidName):
		return "Name is required.", true
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found.", true
	default:
		return "", false
	}
}
