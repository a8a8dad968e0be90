// Package keymap translates keyboard input into board columns. Players see
// columns numbered 1 to 7; the engine counts from 0.
package keymap

import "github.com/lfriedrich2/4gewinnt/internal/domain"

const (
	KeySpace = " "
	KeyEnter = "Enter"
)

// MiddleColumn is where Space and Enter drop a piece.
const MiddleColumn = domain.Columns / 2

// ColumnForKey maps '1'..'7' to columns 0..6 and Space/Enter to the middle
// column.
func ColumnForKey(key string) (int, bool) {
	switch key {
	case KeySpace, KeyEnter:
		return MiddleColumn, true
	}
	if len(key) == 1 {
		return ColumnForRune(rune(key[0]))
	}
	return -1, false
}

func ColumnForRune(r rune) (int, bool) {
	if r >= '1' && r < '1'+domain.Columns {
		return int(r - '1'), true
	}
	if r == ' ' {
		return MiddleColumn, true
	}
	return -1, false
}

// Label is the number shown to players for column.
func Label(column int) int {
	return column + 1
}
