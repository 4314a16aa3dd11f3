package apperror

import "errors"

var (
	ErrGameOver      = errors.New("game already has a winner")
	ErrInvalidMove   = errors.New("invalid move")
	ErrInvalidSymbol = errors.New("invalid symbol")
)
