package gateway

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = time.Minute
	pingPeriod     = 25 * time.Second
	maxMessageSize = 16 << 10
)

type WebsocketConnection interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close(reason string)
}

type websocketConnection struct {
	socket *websocket.Conn
}

func (wc *websocketConnection) Write(data []byte) error {
	wc.socket.SetWriteDeadline(time.Now().Add(writeWait))
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConnection) Ping() error {
	return wc.socket.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (wc *websocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

// Close may run concurrently with Write; control frames are safe for that.
func (wc *websocketConnection) Close(reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	wc.socket.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	wc.socket.Close()
}

func NewWebsocketConnection(conn *websocket.Conn) WebsocketConnection {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &websocketConnection{conn}
}
