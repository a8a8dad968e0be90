package domain

import "errors"

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other player. Empty has no opponent.
func (p PlayerID) Opponent() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// to represent the game status (phase)
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

func (s GameStatus) IsTerminal() bool {
	return s == StatusWon || s == StatusDraw
}

// Position addresses a single cell; row 0 is the top of the board.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"col"`
}

// Move is one placed piece in the move log.
type Move struct {
	Row    int      `json:"row"`
	Column int      `json:"col"`
	Player PlayerID `json:"player"`
}

func (m Move) Position() Position {
	return Position{Row: m.Row, Column: m.Column}
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidColumn Error = "invalid column"
	ErrColumnFull    Error = "column is full"
	ErrGameOver      Error = "game is over"
)

// Reason returns the machine readable name of a rejection, or "" if err is
// not one of the engine errors.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidColumn):
		return "invalid_column"
	case errors.Is(err, ErrColumnFull):
		return "column_full"
	case errors.Is(err, ErrGameOver):
		return "game_over"
	}
	return ""
}
