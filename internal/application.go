package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-board/internal/config"
	"github.com/rocketscienceinc/tictactoe-board/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-board/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-board/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-board/transport/rest"
	"github.com/rocketscienceinc/tictactoe-board/transport/websocket"
)

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	game := tictactoe.NewGameController()

	liveFeed := websocket.New(logger, game)
	notifiers := []usecase.BoardNotifier{liveFeed}

	if conf.Redis.Enabled {
		publisher, err := redis.New(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Channel)
		if err != nil {
			return fmt.Errorf("could not connect to redis: %w", err)
		}

		defer func() {
			if err = publisher.Close(); err != nil {
				log.Error("could not close redis client", "error", err)
			}
		}()

		log.Info("Publishing board events", "addr", conf.Redis.GetRedisAddr(), "channel", conf.Redis.Channel)
		notifiers = append(notifiers, publisher)
	}

	gameUseCase := usecase.NewGameUseCase(logger, game, conf.Game.AnySymbol, notifiers...)
	restServer := rest.New(logger, gameUseCase, liveFeed)

	var wg sync.WaitGroup

	// run websocket hub
	wg.Add(1)
	go func() {
		defer wg.Done()
		liveFeed.Run(ctx)
	}()

	// run HTTP server
	err := restServer.Start(ctx, conf.GetHTTPAddr(), conf.ShutdownTimeout)

	// a failed listen leaves the hub running
	cancel()
	wg.Wait()

	if err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application stopped")

	return nil
}
