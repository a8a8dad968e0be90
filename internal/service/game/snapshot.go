package game

import (
	"time"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
)

// Snapshot is the read model sent to clients.
type Snapshot struct {
	GameID        string            `json:"gameId"`
	Board         [][]int           `json:"board"`
	CurrentPlayer domain.PlayerID   `json:"currentPlayer"`
	Status        domain.GameStatus `json:"status"`
	Winner        domain.PlayerID   `json:"winner,omitempty"`
	WinnerName    string            `json:"winnerName,omitempty"`
	WinningLine   []domain.Position `json:"winningLine,omitempty"`
	LastMove      *domain.Move      `json:"lastMove,omitempty"`
	MoveCount     int               `json:"moveCount"`
	ValidColumns  []int             `json:"validColumns"`
	Player1Name   string            `json:"player1"`
	Player2Name   string            `json:"player2"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// caller must hold gs.mu
func (gs *GameSession) snapshotLocked() Snapshot {
	board := gs.game.Board()
	s := Snapshot{
		GameID:        gs.GameID,
		Board:         board.Ints(),
		CurrentPlayer: gs.game.CurrentPlayer(),
		Status:        gs.game.Status(),
		Winner:        gs.game.Winner(),
		WinningLine:   gs.game.WinningLine(),
		MoveCount:     gs.game.MoveCount(),
		ValidColumns:  board.ValidColumns(),
		Player1Name:   gs.Player1Name,
		Player2Name:   gs.Player2Name,
		CreatedAt:     gs.CreatedAt,
	}
	if gs.game.IsFinished() {
		s.ValidColumns = []int{}
	}
	if s.Winner != domain.Empty {
		s.WinnerName = gs.nameLocked(s.Winner)
	}
	if last, ok := gs.game.LastMove(); ok {
		s.LastMove = &last
	}
	return s
}
