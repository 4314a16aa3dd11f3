package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const (
	messageMoved = "Move successful!"
	messageWins  = "Player %s wins!"
	messageReset = "Game has been reset!"

	detailGameOver      = "Game already has a winner!"
	detailInvalidMove   = "Invalid move. Try again."
	detailInvalidSymbol = "Invalid symbol! Enter X or O."
	detailInternal      = "Internal Server Error"
)

var (
	errMissingIndex  = errors.New("field index is required")
	errMissingSymbol = errors.New("field symbol is required")
)

// moveRequest - pointer fields tell a missing field apart from index 0 or an empty symbol.
type moveRequest struct {
	Index  *int    `json:"index"`
	Symbol *string `json:"symbol"`
}

type boardResponse struct {
	Board entity.Board `json:"board"`
}

type moveResponse struct {
	Message string       `json:"message"`
	Board   entity.Board `json:"board"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func (that *Server) handleBoard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, boardResponse{Board: that.uGame.GetBoard()})
}

func (that *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, that.uGame.GetState())
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleMove")

	req, err := decodeMove(w, r)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, symbol, err := that.uGame.MakeMove(r.Context(), *req.Index, *req.Symbol)
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrInvalidSymbol):
		writeDetail(w, http.StatusBadRequest, detailInvalidSymbol)
		return
	case errors.Is(err, apperror.ErrGameOver):
		writeDetail(w, http.StatusBadRequest, detailGameOver)
		return
	case errors.Is(err, apperror.ErrInvalidMove):
		writeDetail(w, http.StatusBadRequest, detailInvalidMove)
		return
	default:
		log.Error("failed to make move", "error", err)
		writeDetail(w, http.StatusInternalServerError, detailInternal)
		return
	}

	message := messageMoved
	if result.Won {
		message = fmt.Sprintf(messageWins, symbol)
	}

	writeJSON(w, http.StatusOK, moveResponse{Message: message, Board: result.Board})
}

func (that *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	that.uGame.Reset(r.Context())

	writeJSON(w, http.StatusOK, messageResponse{Message: messageReset})
}

func decodeMove(w http.ResponseWriter, r *http.Request) (moveRequest, error) {
	var req moveRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}

	if req.Index == nil {
		return req, errMissingIndex
	}

	if req.Symbol == nil {
		return req, errMissingSymbol
	}

	return req, nil
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
