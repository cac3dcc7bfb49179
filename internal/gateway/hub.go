package gateway

import (
	"errors"
	"slices"
	"sync"

	"github.com/G17aurav/Word-Guess/internal/game"
	"github.com/rs/zerolog"
)

// Hub maps client ids to connections and room codes to their members. It
// implements game.Gateway; every method is safe to call from the engine loop
// because delivery never waits on a socket.
type Hub struct {
	locker  sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]struct{}
	log     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]struct{}),
		log:     logger.With().Str("component", "hub").Logger(),
	}
}

func (h *Hub) Register(c *Client) {
	h.locker.Lock()
	h.clients[c.id] = c
	h.locker.Unlock()
}

// Unregister forgets the client and its room memberships.
func (h *Hub) Unregister(c *Client) {
	h.locker.Lock()
	defer h.locker.Unlock()
	if h.clients[c.id] == c {
		delete(h.clients, c.id)
	}
	for code, members := range h.rooms {
		delete(members, c.id)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
}

func (h *Hub) Subscribe(clientID, roomCode string) {
	h.locker.Lock()
	defer h.locker.Unlock()
	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[roomCode] = members
	}
	members[clientID] = struct{}{}
}

func (h *Hub) Unsubscribe(clientID, roomCode string) {
	h.locker.Lock()
	defer h.locker.Unlock()
	members, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	delete(members, clientID)
	if len(members) == 0 {
		delete(h.rooms, roomCode)
	}
}

func (h *Hub) Send(clientID string, e game.Event) {
	data, err := encodeEvent(e)
	if err != nil {
		h.log.Error().Err(err).Str("type", e.Type).Msg("could not encode event")
		return
	}

	h.locker.RLock()
	c, ok := h.clients[clientID]
	h.locker.RUnlock()
	if ok {
		h.deliver(c, data)
	}
}

func (h *Hub) Broadcast(roomCode string, e game.Event, except ...string) {
	data, err := encodeEvent(e)
	if err != nil {
		h.log.Error().Err(err).Str("type", e.Type).Msg("could not encode event")
		return
	}

	h.locker.RLock()
	targets := make([]*Client, 0, len(h.rooms[roomCode]))
	for id := range h.rooms[roomCode] {
		if slices.Contains(except, id) {
			continue
		}
		if c, ok := h.clients[id]; ok {
			targets = append(targets, c)
		}
	}
	h.locker.RUnlock()

	for _, c := range targets {
		h.deliver(c, data)
	}
}

func (h *Hub) deliver(c *Client, data []byte) {
	err := c.Enqueue(data)
	if err == nil {
		return
	}
	if errors.Is(err, ErrSendBufferFull) {
		h.log.Warn().Str("client", c.id).Msg("client too slow, disconnecting")
		go c.Close("too slow")
	}
}

func (h *Hub) Len() int {
	h.locker.RLock()
	defer h.locker.RUnlock()
	return len(h.clients)
}

func (h *Hub) members(roomCode string) int {
	h.locker.RLock()
	defer h.locker.RUnlock()
	return len(h.rooms[roomCode])
}
