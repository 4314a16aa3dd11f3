package websocket

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

type client struct {
	server *Server
	conn   *websocket.Conn
	addr   string

	send chan []byte
}

func newClient(server *Server, conn *websocket.Conn, addr string) *client {
	return &client{
		server: server,
		conn:   conn,
		addr:   addr,
		send:   make(chan []byte, sendBuffer),
	}
}

// readPump - client frames carry nothing, reading only keeps pong and close handling alive.
func (that *client) readPump() {
	log := that.server.logger.With("method", "readPump", "addr", that.addr)

	defer func() {
		that.server.leave(that)
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := that.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}
	}
}

// writePump - the only goroutine writing to conn.
func (that *client) writePump() {
	log := that.server.logger.With("method", "writePump", "addr", that.addr)

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closed the feed"))
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
