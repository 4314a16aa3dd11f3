package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

type gameController interface {
	MakeMove(cell int, symbol string) (entity.MoveResult, error)
	State() entity.GameState
	Reset() entity.GameState
}

// BoardNotifier receives a snapshot after every accepted move or reset.
type BoardNotifier interface {
	NotifyBoard(ctx context.Context, state entity.GameState) error
}

type GameUseCase struct {
	logger *slog.Logger

	game      gameController
	notifiers []BoardNotifier
	anySymbol bool
}

func NewGameUseCase(logger *slog.Logger, game gameController, anySymbol bool, notifiers ...BoardNotifier) *GameUseCase {
	return &GameUseCase{
		logger:    logger.With("component", "usecase"),
		game:      game,
		notifiers: notifiers,
		anySymbol: anySymbol,
	}
}

// MakeMove - validates the symbol and plays it on the board.
func (that *GameUseCase) MakeMove(ctx context.Context, cell int, symbol string) (entity.MoveResult, string, error) {
	log := that.logger.With("method", "MakeMove", "cell", cell)

	symbol, err := that.normalizeSymbol(symbol)
	if err != nil {
		log.Debug("rejected symbol", "error", err)
		return entity.MoveResult{}, symbol, err
	}

	result, err := that.game.MakeMove(cell, symbol)
	if err != nil {
		log.Debug("rejected move", "symbol", symbol, "error", err)
		return result, symbol, fmt.Errorf("failed to make move: %w", err)
	}

	log.Info("move accepted", "symbol", symbol, "won", result.Won)

	that.notify(ctx, stateAfterMove(result, symbol))

	return result, symbol, nil
}

// stateAfterMove - an accepted move means there was no winner before it.
func stateAfterMove(result entity.MoveResult, symbol string) entity.GameState {
	state := entity.GameState{
		Board:   result.Board,
		Full:    result.Board.IsFull(),
		Version: result.Version,
	}
	if result.Won {
		state.Winner = symbol
	}

	return state
}

func (that *GameUseCase) GetBoard() entity.Board {
	return that.game.State().Board
}

func (that *GameUseCase) GetState() entity.GameState {
	return that.game.State()
}

func (that *GameUseCase) Reset(ctx context.Context) {
	state := that.game.Reset()

	that.logger.Info("game reset")

	that.notify(ctx, state)
}

// normalizeSymbol - only X and O pass, in any case, unless anySymbol is set.
// Then the symbol goes to the board as is.
func (that *GameUseCase) normalizeSymbol(symbol string) (string, error) {
	if that.anySymbol {
		return symbol, nil
	}

	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	if normalized != entity.PlayerX && normalized != entity.PlayerO {
		return symbol, fmt.Errorf("%w: %q", apperror.ErrInvalidSymbol, symbol)
	}

	return normalized, nil
}

// notify - a failing notifier never fails the move, the board is already updated.
// Snapshots may arrive out of order across concurrent requests, receivers keep the highest version.
func (that *GameUseCase) notify(ctx context.Context, state entity.GameState) {
	log := that.logger.With("method", "notify", "version", state.Version)

	// the change is committed, a client hanging up must not stop the broadcast
	ctx = context.WithoutCancel(ctx)

	for _, notifier := range that.notifiers {
		if err := notifier.NotifyBoard(ctx, state); err != nil {
			log.Error("failed to notify board change", "error", err)
		}
	}
}
