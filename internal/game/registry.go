package game

import (
	"fmt"
	"strings"
)

// Registry owns every room of the process, keyed by room code. It is not
// safe for concurrent use; the engine loop is its only caller.
type Registry struct {
	rooms map[string]*Room
	idgen UniqueIdGenerator
}

func NewRegistry(idgen UniqueIdGenerator) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		idgen: idgen,
	}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Create builds a room with the creator as its only player and host.
func (reg *Registry) Create(hostID, hostName string) (*Room, error) {
	name, err := normalizeName(hostName)
	if err != nil {
		return nil, err
	}

	code := reg.idgen.Generate()
	for {
		if _, taken := reg.rooms[code]; !taken {
			break
		}
		code = reg.idgen.Generate()
	}

	room := newRoom(code, newPlayer(hostID, name))
	reg.rooms[code] = room
	return room, nil
}

func (reg *Registry) Join(code, playerID, name string) (*Room, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	room, ok := reg.Get(code)
	if !ok {
		return nil, fmt.Errorf("join %q: %w", normalizeCode(code), ErrRoomNotFound)
	}
	if _, already := room.players[playerID]; already {
		return nil, fmt.Errorf("join %q: player %s already in room: %w", room.code, playerID, ErrInvalidState)
	}
	room.addPlayer(newPlayer(playerID, name))
	return room, nil
}

func (reg *Registry) Get(code string) (*Room, bool) {
	room, ok := reg.rooms[normalizeCode(code)]
	return room, ok
}

// RemovePlayer deletes the player and, once the roster is empty, the room
// itself after cancelling its pending timer. deleted reports the latter.
func (reg *Registry) RemovePlayer(code, playerID string) (room *Room, deleted bool) {
	room, ok := reg.Get(code)
	if !ok {
		return nil, false
	}
	if !room.removePlayer(playerID) {
		return room, false
	}
	if !room.empty() {
		return room, false
	}

	room.cancelDeadline()
	delete(reg.rooms, room.code)
	reg.idgen.Dispose(room.code)
	return room, true
}

func (reg *Registry) Len() int {
	return len(reg.rooms)
}
