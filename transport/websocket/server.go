package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const broadcastBuffer = 16

var ErrServerStopped = errors.New("websocket server is stopped")

type gameState interface {
	State() entity.GameState
}

// Server - fan-out of board snapshots to every connected browser.
// Run owns the client set, every other goroutine talks to it through channels.
type Server struct {
	logger *slog.Logger
	game   gameState

	upgrader websocket.Upgrader

	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan frame

	// newest board version sent to any client, owned by Run
	latest uint64

	done chan struct{}
}

func New(logger *slog.Logger, game gameState) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		game:   game,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},

		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan frame, broadcastBuffer),

		done: make(chan struct{}),
	}
}

// Run - serves registrations and broadcasts until ctx is canceled, then closes every client.
func (that *Server) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	defer close(that.done)

	for {
		select {
		case <-ctx.Done():
			for c := range that.clients {
				that.drop(c)
			}
			log.Info("websocket server stopped")
			return

		case c := <-that.register:
			that.clients[c] = struct{}{}

			// the first frame is the current board, queued before any later broadcast
			state := that.game.State()
			if message, err := encodeBoard(state); err == nil {
				that.advance(state.Version)
				that.send(c, message)
			} else {
				log.Error("failed to encode board", "error", err)
			}

			log.Info("client connected", "addr", c.addr, "clients", len(that.clients))

		case c := <-that.unregister:
			if _, ok := that.clients[c]; ok {
				that.drop(c)
				log.Info("client disconnected", "addr", c.addr, "clients", len(that.clients))
			}

		case f := <-that.broadcast:
			if f.version < that.latest {
				log.Debug("dropping stale board", "version", f.version, "latest", that.latest)
				continue
			}

			that.advance(f.version)
			for c := range that.clients {
				that.send(c, f.payload)
			}
		}
	}
}

func (that *Server) advance(version uint64) {
	if version > that.latest {
		that.latest = version
	}
}

// send - a client whose buffer is full is too slow to follow the game and gets dropped.
func (that *Server) send(c *client, message []byte) {
	select {
	case c.send <- message:
	default:
		that.logger.Warn("dropping slow client", "addr", c.addr)
		that.drop(c)
	}
}

func (that *Server) drop(c *client) {
	if _, ok := that.clients[c]; !ok {
		return
	}

	delete(that.clients, c)
	close(c.send)
}

// NotifyBoard - queues a snapshot for every connected client. Run skips it if a newer board was already sent.
func (that *Server) NotifyBoard(ctx context.Context, state entity.GameState) error {
	message, err := encodeBoard(state)
	if err != nil {
		return fmt.Errorf("failed to encode board: %w", err)
	}

	select {
	case <-that.done:
		return ErrServerStopped
	default:
	}

	select {
	case that.broadcast <- frame{version: state.Version, payload: message}:
		return nil
	case <-that.done:
		return ErrServerStopped
	case <-ctx.Done():
		return fmt.Errorf("failed to queue board: %w", ctx.Err())
	}
}

// ServeHTTP - upgrades the request and hands the connection to Run.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		// Upgrade has already written the error response
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(that, conn, req.RemoteAddr)

	select {
	case that.register <- c:
	case <-that.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (that *Server) leave(c *client) {
	select {
	case that.unregister <- c:
	case <-that.done:
	}
}
