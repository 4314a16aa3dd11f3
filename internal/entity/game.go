package entity

import "strings"

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = " "

	BoardSize = 9
)

// WinCombos - every row, column and diagonal of the 3x3 grid, row-major indexes.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is a value type, so assigning or returning it always copies the cells.
type Board [BoardSize]string

func NewBoard() Board {
	var board Board
	for i := range board {
		board[i] = EmptyCell
	}

	return board
}

func (that Board) InRange(cell int) bool {
	return cell >= 0 && cell < len(that)
}

func (that Board) IsEmptyCell(cell int) bool {
	return that.InRange(cell) && that[cell] == EmptyCell
}

// HasLine - reports whether any win combo is filled entirely with symbol.
func (that Board) HasLine(symbol string) bool {
	for _, combo := range WinCombos {
		if that[combo[0]] == symbol && that[combo[1]] == symbol && that[combo[2]] == symbol {
			return true
		}
	}

	return false
}

// IsFull - no empty cell left. A full board is not a draw, the game simply has no legal move.
func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// IsBlankSymbol - symbols that would be indistinguishable from an empty cell.
func IsBlankSymbol(symbol string) bool {
	return strings.TrimSpace(symbol) == ""
}

type MoveResult struct {
	Board   Board
	Won     bool
	Version uint64
}

// GameState - Version grows with every accepted move and every reset, a higher version is a newer board.
type GameState struct {
	Board   Board  `json:"board"`
	Winner  string `json:"winner"`
	Full    bool   `json:"full"`
	Version uint64 `json:"version"`
}

// NewerThan - false for a snapshot that was overtaken by a later move or reset.
func (that GameState) NewerThan(other GameState) bool {
	return that.Version > other.Version
}

func (that GameState) HasWinner() bool {
	return that.Winner != ""
}
