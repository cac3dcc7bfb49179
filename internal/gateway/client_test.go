package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/G17aurav/Word-Guess/internal/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(socket WebsocketConnection, limits Limits, buffer int) *Client {
	return NewClient("c1", socket, limits, buffer, zerolog.Nop())
}

var generousLimits = Limits{ChatRate: rate.Inf, ChatBurst: 1, DrawRate: rate.Inf, DrawBurst: 1}

func TestReadPump(t *testing.T) {
	t.Parallel()

	t.Run("read error releases the pump", func(t *testing.T) {
		t.Parallel()
		socket := &MockWebsocketConnection{}
		socket.On("Read").Return([]byte{}, assert.AnError)
		socket.On("Close", "").Return().Once()
		dispatcher := &MockDispatcher{}
		c := newTestClient(socket, generousLimits, 4)

		c.ReadPump(dispatcher)

		socket.AssertExpectations(t)
		dispatcher.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
		select {
		case <-c.Done():
		default:
			t.Fatal("client context still live")
		}
	})

	t.Run("frames are filtered then forwarded", func(t *testing.T) {
		t.Parallel()
		socket := &MockWebsocketConnection{}
		socket.On("Read").Return([]byte(`{garbage`), nil).Once()
		socket.On("Read").Return([]byte(`{"type":"fly"}`), nil).Once()
		socket.On("Read").Return([]byte(`{"type":"disconnect"}`), nil).Once()
		socket.On("Read").Return([]byte(`{"type":"join_room","payload":{"name":"Bob","roomCode":"abc123"}}`), nil).Once()
		socket.On("Read").Return([]byte{}, assert.AnError).Once()
		socket.On("Close", "").Return()

		dispatcher := &MockDispatcher{}
		dispatcher.On("Submit", mock.Anything, mock.MatchedBy(func(a game.Action) bool {
			return a.ClientID == "c1" &&
				a.Type == game.ActionJoinRoom &&
				string(a.Payload) == `{"name":"Bob","roomCode":"abc123"}`
		})).Return(nil).Once()

		newTestClient(socket, generousLimits, 4).ReadPump(dispatcher)

		dispatcher.AssertExpectations(t)
		socket.AssertExpectations(t)
	})

	t.Run("chat is rate limited", func(t *testing.T) {
		t.Parallel()
		chat, err := json.Marshal(map[string]any{"type": "chat_message", "payload": map[string]string{"message": "hi"}})
		require.NoError(t, err)

		socket := &MockWebsocketConnection{}
		socket.On("Read").Return(chat, nil).Times(3)
		socket.On("Read").Return([]byte(`{"type":"start_game"}`), nil).Once()
		socket.On("Read").Return([]byte{}, assert.AnError).Once()
		socket.On("Close", "").Return()

		dispatcher := &MockDispatcher{}
		dispatcher.On("Submit", mock.Anything, mock.MatchedBy(func(a game.Action) bool {
			return a.Type == game.ActionChatMessage
		})).Return(nil).Once()
		dispatcher.On("Submit", mock.Anything, mock.MatchedBy(func(a game.Action) bool {
			return a.Type == game.ActionStartGame
		})).Return(nil).Once()

		limits := Limits{ChatRate: rate.Every(time.Hour), ChatBurst: 1, DrawRate: rate.Inf, DrawBurst: 1}
		newTestClient(socket, limits, 4).ReadPump(dispatcher)

		dispatcher.AssertExpectations(t)
	})

	t.Run("stopped engine releases the pump", func(t *testing.T) {
		t.Parallel()
		socket := &MockWebsocketConnection{}
		socket.On("Read").Return([]byte(`{"type":"start_game"}`), nil)
		socket.On("Close", "").Return().Once()
		dispatcher := &MockDispatcher{}
		dispatcher.On("Submit", mock.Anything, mock.Anything).Return(game.ErrEngineStopped).Once()

		newTestClient(socket, generousLimits, 4).ReadPump(dispatcher)

		dispatcher.AssertExpectations(t)
		socket.AssertExpectations(t)
	})
}

func TestWritePump(t *testing.T) {
	t.Parallel()

	t.Run("writes queued frames until closed", func(t *testing.T) {
		t.Parallel()
		socket := &MockWebsocketConnection{}
		written := make(chan []byte, 2)
		socket.On("Write", mock.Anything).Run(func(args mock.Arguments) {
			written <- args.Get(0).([]byte)
		}).Return(nil)
		socket.On("Close", "bye").Return().Once()
		c := newTestClient(socket, generousLimits, 4)

		done := make(chan struct{})
		go func() {
			c.WritePump(time.Hour)
			close(done)
		}()

		require.NoError(t, c.Enqueue([]byte("one")))
		require.NoError(t, c.Enqueue([]byte("two")))
		assert.Equal(t, []byte("one"), <-written)
		assert.Equal(t, []byte("two"), <-written)

		c.Close("bye")
		<-done
		assert.Error(t, c.Enqueue([]byte("three")))
		socket.AssertExpectations(t)
	})

	t.Run("ping failure releases the pump", func(t *testing.T) {
		t.Parallel()
		socket := &MockWebsocketConnection{}
		socket.On("Ping").Return(assert.AnError).Once()
		socket.On("Close", "").Return().Once()
		c := newTestClient(socket, generousLimits, 4)

		c.WritePump(time.Millisecond)

		socket.AssertExpectations(t)
	})
}

func TestEnqueue_FullBuffer(t *testing.T) {
	t.Parallel()
	c := newTestClient(&MockWebsocketConnection{}, generousLimits, 1)

	require.NoError(t, c.Enqueue([]byte("a")))
	assert.ErrorIs(t, c.Enqueue([]byte("b")), ErrSendBufferFull)
}
