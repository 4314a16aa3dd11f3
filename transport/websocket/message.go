package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

const messageTypeBoard = "board"

// BoardMessage is the only frame the server sends.
type BoardMessage struct {
	Type string `json:"type"`
	entity.GameState
}

type frame struct {
	version uint64
	payload []byte
}

func encodeBoard(state entity.GameState) ([]byte, error) {
	return json.Marshal(BoardMessage{
		Type:      messageTypeBoard,
		GameState: state,
	})
}
