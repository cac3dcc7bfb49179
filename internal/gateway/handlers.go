package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/G17aurav/Word-Guess/internal/game"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type Options struct {
	Limits     Limits
	SendBuffer int
	PingPeriod time.Duration
}

func DefaultOptions() Options {
	return Options{
		Limits:     Limits{ChatRate: 2, ChatBurst: 5, DrawRate: 120, DrawBurst: 240},
		SendBuffer: 256,
		PingPeriod: pingPeriod,
	}
}

type GameHandler struct {
	dispatcher Dispatcher
	hub        *Hub
	upgrader   websocket.Upgrader
	options    Options
	log        zerolog.Logger
}

func NewGameHandler(dispatcher Dispatcher, hub *Hub, options Options, logger zerolog.Logger) *GameHandler {
	return &GameHandler{
		dispatcher: dispatcher,
		hub:        hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are vetted by the router middleware before the upgrade
			CheckOrigin: func(*http.Request) bool { return true },
		},
		options: options,
		log:     logger.With().Str("component", "gateway").Logger(),
	}
}

// WebsocketHandler upgrades the request and serves the connection until it
// drops. The player is bound to a room later, by create_room or join_room.
func (h *GameHandler) WebsocketHandler(ctx *gin.Context) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Debug().Err(err).Str("ip", ctx.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(uuid.NewString(), NewWebsocketConnection(conn), h.options.Limits, h.options.SendBuffer, h.log)
	h.hub.Register(client)
	h.log.Info().Str("client", client.id).Str("ip", ctx.ClientIP()).Msg("client connected")

	go client.WritePump(h.options.PingPeriod)
	go h.serve(client)
}

func (h *GameHandler) serve(client *Client) {
	client.ReadPump(h.dispatcher)
	h.hub.Unregister(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := h.dispatcher.Submit(ctx, game.Action{ClientID: client.id, Type: game.ActionDisconnect})
	if err != nil {
		h.log.Warn().Err(err).Str("client", client.id).Msg("could not report disconnect")
	}
	h.log.Info().Str("client", client.id).Msg("client disconnected")
}

// RoomHandler serves a read-only preview of a room, for join screens.
func (h *GameHandler) RoomHandler(ctx *gin.Context) {
	preview, err := h.dispatcher.Lookup(ctx.Request.Context(), ctx.Param("code"))
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, preview)
	case errors.Is(err, game.ErrRoomNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "room-not-found"})
	default:
		h.log.Error().Err(err).Msg("room lookup failed")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable"})
	}
}
