package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 30 * time.Second

	maxBodyBytes = 1 << 10
)

type uGame interface {
	MakeMove(ctx context.Context, cell int, symbol string) (entity.MoveResult, string, error)
	GetBoard() entity.Board
	GetState() entity.GameState
	Reset(ctx context.Context)
}

type Server struct {
	logger *slog.Logger
	router *chi.Mux

	uGame uGame
}

// New - builds the router. liveFeed is mounted at /ws when it is not nil.
func New(logger *slog.Logger, uGame uGame, liveFeed http.Handler) *Server {
	that := &Server{
		logger: logger.With("component", "rest"),
		router: chi.NewRouter(),
		uGame:  uGame,
	}

	that.router.Use(chimw.RequestID)
	that.router.Use(chimw.RealIP)
	that.router.Use(requestLogging(that.logger))
	that.router.Use(chimw.Recoverer)

	that.router.Get("/", that.handlePage)
	that.router.Get("/ping", handlePing)

	that.router.Get("/board", that.handleBoard)
	that.router.Get("/state", that.handleState)
	that.router.Post("/move", that.handleMove)
	that.router.Post("/reset", that.handleReset)

	if liveFeed != nil {
		that.router.Method(http.MethodGet, "/ws", liveFeed)
	}

	that.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	that.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return that
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - serves addr until ctx is canceled, then drains in-flight requests within shutdownTimeout.
func (that *Server) Start(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	log := that.logger.With("method", "Start")

	srv := &http.Server{
		Addr:         addr,
		Handler:      that.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	log.Info("HTTP server stopped")

	return nil
}
