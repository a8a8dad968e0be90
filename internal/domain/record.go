package domain

import "time"

// GameRecord is a finished game as it is kept in the history.
type GameRecord struct {
	GameID          string     `json:"id"`
	OwnerID         string     `json:"-"`
	Player1Name     string     `json:"player1"`
	Player2Name     string     `json:"player2"`
	Winner          PlayerID   `json:"winner"`
	WinnerName      string     `json:"winnerName,omitempty"`
	Reason          string     `json:"reason"`
	TotalMoves      int        `json:"totalMoves"`
	DurationSeconds int        `json:"durationSeconds"`
	CreatedAt       time.Time  `json:"createdAt"`
	FinishedAt      time.Time  `json:"finishedAt"`
	Board           [][]int    `json:"board,omitempty"`
	Moves           []Move     `json:"moves,omitempty"`
	WinningLine     []Position `json:"winningLine,omitempty"`
}

const (
	ReasonConnectFour = "connect_four"
	ReasonDraw        = "draw"
)
