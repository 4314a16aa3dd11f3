package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-board/internal/usecase"
)

func newTestHandler(t *testing.T, anySymbol bool) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	uGame := usecase.NewGameUseCase(logger, tictactoe.NewGameController(), anySymbol)

	return New(logger, uGame, nil).Handler()
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var body T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func move(t *testing.T, handler http.Handler, index int, symbol string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]any{"index": index, "symbol": symbol})
	require.NoError(t, err)

	return do(t, handler, http.MethodPost, "/move", string(body))
}

func TestHandlers_RowWinScenario(t *testing.T) {
	// Given: a fresh game
	handler := newTestHandler(t, false)

	// When: X fills the top row
	for _, cell := range []int{0, 1} {
		rec := move(t, handler, cell, "X")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, messageMoved, decode[moveResponse](t, rec).Message)
	}

	rec := move(t, handler, 2, "X")

	// Then: X wins and the board is returned
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[moveResponse](t, rec)
	assert.Equal(t, "Player X wins!", body.Message)
	assert.Equal(t, entity.Board{"X", "X", "X", " ", " ", " ", " ", " ", " "}, body.Board)

	// Then: the next move is refused
	rec = move(t, handler, 3, "O")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, detailGameOver, decode[detailResponse](t, rec).Detail)

	// Then: the board did not change
	rec = do(t, handler, http.MethodGet, "/board", "")
	assert.Equal(t, body.Board, decode[boardResponse](t, rec).Board)
}

func TestHandlers_OccupiedCellScenario(t *testing.T) {
	// Given: X played the center
	handler := newTestHandler(t, false)
	require.Equal(t, http.StatusOK, move(t, handler, 4, "X").Code)

	// When: O plays the same cell
	rec := move(t, handler, 4, "O")

	// Then: the move is invalid and the cell keeps X
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, detailInvalidMove, decode[detailResponse](t, rec).Detail)

	board := decode[boardResponse](t, do(t, handler, http.MethodGet, "/board", "")).Board
	assert.Equal(t, entity.PlayerX, board[4])
}

func TestHandlers_Move(t *testing.T) {
	t.Run("Out of range cell", func(t *testing.T) {
		handler := newTestHandler(t, false)

		for _, cell := range []int{-1, 9} {
			rec := move(t, handler, cell, "X")

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, detailInvalidMove, decode[detailResponse](t, rec).Detail)
		}
	})

	t.Run("Lower case symbol", func(t *testing.T) {
		handler := newTestHandler(t, false)

		rec := move(t, handler, 0, "o")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, entity.PlayerO, decode[moveResponse](t, rec).Board[0])
	})

	t.Run("Unknown symbol", func(t *testing.T) {
		handler := newTestHandler(t, false)

		rec := move(t, handler, 0, "Z")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, detailInvalidSymbol, decode[detailResponse](t, rec).Detail)
	})

	t.Run("Any symbol allowed", func(t *testing.T) {
		handler := newTestHandler(t, true)

		rec := move(t, handler, 0, "Z")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Z", decode[moveResponse](t, rec).Board[0])
	})

	t.Run("Blank symbol with any symbol allowed", func(t *testing.T) {
		handler := newTestHandler(t, true)

		rec := move(t, handler, 0, " ")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, detailInvalidMove, decode[detailResponse](t, rec).Detail)
	})

	t.Run("Malformed requests", func(t *testing.T) {
		handler := newTestHandler(t, false)

		tests := map[string]string{
			"broken json":     `{"index":`,
			"string index":    `{"index":"3","symbol":"X"}`,
			"float index":     `{"index":1.5,"symbol":"X"}`,
			"missing index":   `{"symbol":"X"}`,
			"missing symbol":  `{"index":3}`,
			"null body":       `null`,
			"index overflows": `{"index":99999999999999999999,"symbol":"X"}`,
			"exponent index":  `{"index":1e20,"symbol":"X"}`,
		}

		for name, body := range tests {
			t.Run(name, func(t *testing.T) {
				rec := do(t, handler, http.MethodPost, "/move", body)

				require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
				assert.NotEmpty(t, decode[detailResponse](t, rec).Detail)
			})
		}

		// Then: nothing reached the board
		board := decode[boardResponse](t, do(t, handler, http.MethodGet, "/board", "")).Board
		assert.Equal(t, entity.NewBoard(), board)
	})
}

func TestHandlers_Reset(t *testing.T) {
	// Given: a won game
	handler := newTestHandler(t, false)
	for _, cell := range []int{0, 4, 8} {
		require.Equal(t, http.StatusOK, move(t, handler, cell, "O").Code)
	}

	// When: the game is reset
	rec := do(t, handler, http.MethodPost, "/reset", "")

	// Then: the board is empty and moves are accepted again
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, messageReset, decode[messageResponse](t, rec).Message)

	state := decode[entity.GameState](t, do(t, handler, http.MethodGet, "/state", ""))
	assert.Equal(t, entity.GameState{Board: entity.NewBoard(), Version: 4}, state)

	assert.Equal(t, http.StatusOK, move(t, handler, 0, "X").Code)
}

func TestHandlers_Board(t *testing.T) {
	handler := newTestHandler(t, false)

	rec := do(t, handler, http.MethodGet, "/board", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"board":[" "," "," "," "," "," "," "," "," "]}`, rec.Body.String())
}

func TestHandlers_State(t *testing.T) {
	// Given: O won on the anti-diagonal
	handler := newTestHandler(t, false)
	for _, cell := range []int{2, 4, 6} {
		require.Equal(t, http.StatusOK, move(t, handler, cell, "O").Code)
	}

	// When: the state is read
	rec := do(t, handler, http.MethodGet, "/state", "")

	// Then: the winner is reported
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"board":[" "," ","O"," ","O"," ","O"," "," "],"winner":"O","full":false,"version":3}`, rec.Body.String())
}

func TestHandlers_Surface(t *testing.T) {
	handler := newTestHandler(t, false)

	t.Run("Page", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "<title>Tic-Tac-Toe</title>")
	})

	t.Run("Ping", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/ping", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "pong", rec.Body.String())
	})

	t.Run("Unknown route", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/nope", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())
	})

	t.Run("Wrong method", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/move", "")

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, rec.Body.String())
	})

	t.Run("Live feed absent", func(t *testing.T) {
		rec := do(t, handler, http.MethodGet, "/ws", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
