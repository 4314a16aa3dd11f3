package tictactoe

import (
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

// GameController owns the single board of the server. All methods are safe for concurrent use.
type GameController struct {
	mu sync.Mutex

	board   entity.Board
	winner  string
	version uint64
}

func NewGameController() *GameController {
	return &GameController{
		board: entity.NewBoard(),
	}
}

// MakeMove - places symbol on cell and checks the win combos for that symbol.
// The symbol is written verbatim, only blank symbols are refused.
func (that *GameController) MakeMove(cell int, symbol string) (entity.MoveResult, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.winner != "" {
		return entity.MoveResult{Board: that.board, Version: that.version}, apperror.ErrGameOver
	}

	if err := that.validateMove(cell, symbol); err != nil {
		return entity.MoveResult{Board: that.board, Version: that.version}, err
	}

	that.board[cell] = symbol
	that.version++

	won := that.board.HasLine(symbol)
	if won {
		that.winner = symbol
	}

	return entity.MoveResult{Board: that.board, Won: won, Version: that.version}, nil
}

// validateMove - checks if the move is valid.
func (that *GameController) validateMove(cell int, symbol string) error {
	if !that.board.InRange(cell) {
		return fmt.Errorf("%w: cell %d is out of range", apperror.ErrInvalidMove, cell)
	}

	if !that.board.IsEmptyCell(cell) {
		return fmt.Errorf("%w: cell %d is occupied", apperror.ErrInvalidMove, cell)
	}

	if entity.IsBlankSymbol(symbol) {
		return fmt.Errorf("%w: blank symbol", apperror.ErrInvalidMove)
	}

	return nil
}

func (that *GameController) Board() entity.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.board
}

// State - board, winner and version taken under one lock.
func (that *GameController) State() entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return entity.GameState{
		Board:   that.board,
		Winner:  that.winner,
		Full:    that.board.IsFull(),
		Version: that.version,
	}
}

// Reset - starts a fresh game on the same controller. The version keeps counting.
func (that *GameController) Reset() entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.board = entity.NewBoard()
	that.winner = ""
	that.version++

	return entity.GameState{Board: that.board, Version: that.version}
}
