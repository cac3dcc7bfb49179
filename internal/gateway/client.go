package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/G17aurav/Word-Guess/internal/game"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var ErrSendBufferFull = errors.New("send-buffer-full")

// Dispatcher is the engine as seen from the network edge.
type Dispatcher interface {
	Submit(ctx context.Context, a game.Action) error
	Lookup(ctx context.Context, code string) (game.RoomPreview, error)
}

type Limits struct {
	ChatRate  rate.Limit
	ChatBurst int
	DrawRate  rate.Limit
	DrawBurst int
}

// Client is one websocket connection. Its id doubles as the player id.
type Client struct {
	id     string
	socket WebsocketConnection
	outbox chan []byte

	chatLimiter *rate.Limiter
	drawLimiter *rate.Limiter

	ctx       context.Context
	cancelCtx context.CancelFunc
	closeOnce sync.Once
	log       zerolog.Logger
}

func NewClient(id string, socket WebsocketConnection, limits Limits, sendBuffer int, logger zerolog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:          id,
		socket:      socket,
		outbox:      make(chan []byte, sendBuffer),
		chatLimiter: rate.NewLimiter(limits.ChatRate, limits.ChatBurst),
		drawLimiter: rate.NewLimiter(limits.DrawRate, limits.DrawBurst),
		ctx:         ctx,
		cancelCtx:   cancel,
		log:         logger.With().Str("client", id).Logger(),
	}
}

func (c *Client) ID() string { return c.id }

// ReadPump decodes frames and hands them to the dispatcher until the socket
// fails or the client is closed.
func (c *Client) ReadPump(dispatcher Dispatcher) {
	defer c.Close("")

	for {
		data, err := c.socket.Read()
		if err != nil {
			c.log.Debug().Err(err).Msg("read failed")
			return
		}

		var frame inbound
		if err := json.Unmarshal(data, &frame); err != nil {
			c.log.Debug().Err(err).Msg("malformed frame dropped")
			continue
		}
		if _, ok := clientActions[frame.Type]; !ok {
			c.log.Debug().Str("type", frame.Type).Msg("unknown frame dropped")
			continue
		}
		if !c.allow(frame.Type) {
			c.log.Debug().Str("type", frame.Type).Msg("rate limited")
			continue
		}

		err = dispatcher.Submit(c.ctx, game.Action{ClientID: c.id, Type: frame.Type, Payload: frame.Payload})
		if err != nil {
			c.log.Debug().Err(err).Msg("submit failed")
			return
		}
	}
}

func (c *Client) allow(actionType string) bool {
	switch actionType {
	case game.ActionChatMessage:
		return c.chatLimiter.Allow()
	case game.ActionDraw, game.ActionClear:
		return c.drawLimiter.Allow()
	default:
		return true
	}
}

// WritePump owns every write to the socket, pings included.
func (c *Client) WritePump(pingEvery time.Duration) {
	defer c.Close("")

	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.outbox:
			if err := c.socket.Write(data); err != nil {
				c.log.Debug().Err(err).Msg("write failed")
				return
			}
		case <-ticker.C:
			if err := c.socket.Ping(); err != nil {
				c.log.Debug().Err(err).Msg("ping failed")
				return
			}
		}
	}
}

// Enqueue never blocks; a client that cannot keep up gets ErrSendBufferFull.
func (c *Client) Enqueue(data []byte) error {
	select {
	case <-c.ctx.Done():
		return context.Canceled
	default:
	}
	select {
	case c.outbox <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Client) Close(reason string) {
	c.closeOnce.Do(func() {
		c.cancelCtx()
		c.socket.Close(reason)
	})
}
