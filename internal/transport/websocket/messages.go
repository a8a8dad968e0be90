package websocket

import (
	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
)

const (
	MsgDrop    = "drop"
	MsgKey     = "key"
	MsgNewGame = "new_game"
	MsgSync    = "sync"

	MsgState    = "state"
	MsgError    = "error"
	MsgMoveMade = string(game.UpdateMoveMade)
	MsgGameOver = string(game.UpdateGameOver)
	MsgClosed   = string(game.UpdateClosed)
)

type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
	Key    string `json:"key,omitempty"`
}

type ServerMessage struct {
	Type    string             `json:"type"`
	GameID  string             `json:"gameId,omitempty"`
	Move    *domain.MoveResult `json:"move,omitempty"`
	Cue     game.Cue           `json:"cue,omitempty"`
	State   *game.Snapshot     `json:"state,omitempty"`
	Reason  string             `json:"reason,omitempty"`
	Message string             `json:"message,omitempty"`
}

func messageFromUpdate(u game.Update) ServerMessage {
	msg := ServerMessage{
		Type:   string(u.Type),
		GameID: u.GameID,
		Move:   u.Move,
		Cue:    u.Cue,
	}
	if u.Type != game.UpdateClosed {
		state := u.State
		msg.State = &state
	}
	return msg
}

func errorMessage(gameID, reason, message string, state *game.Snapshot) ServerMessage {
	return ServerMessage{
		Type:    MsgError,
		GameID:  gameID,
		Cue:     game.CueError,
		State:   state,
		Reason:  reason,
		Message: message,
	}
}
