package domain

import "strings"

// Board is the grid; board[0] represents the top row (0 -> top and 5 -> bottom).
type Board [Rows][Columns]PlayerID

func InBounds(row, column int) bool {
	return row >= 0 && row < Rows && column >= 0 && column < Columns
}

// CanDrop reports why a piece cannot go into column, or nil if it can.
func (b *Board) CanDrop(column int) error {
	if column < 0 || column >= Columns {
		return ErrInvalidColumn
	}
	if b[0][column] != Empty {
		return ErrColumnFull
	}
	return nil
}

// Drop lets the disk fall from the top until it reaches the bottom or another
// disk, and returns the row it landed on.
func (b *Board) Drop(column int, player PlayerID) (int, error) {
	if err := b.CanDrop(column); err != nil {
		return -1, err
	}
	for row := Rows - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			b[row][column] = player
			return row, nil
		}
	}
	return -1, ErrColumnFull
}

// IsFull only needs the top row: gravity fills every column bottom up.
func (b *Board) IsFull() bool {
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

// ValidColumns lists the columns that still accept a piece.
func (b *Board) ValidColumns() []int {
	cols := make([]int, 0, Columns)
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			cols = append(cols, c)
		}
	}
	return cols
}

// Ints converts the board for JSON and database storage.
func (b *Board) Ints() [][]int {
	out := make([][]int, Rows)
	for r := range b {
		out[r] = make([]int, Columns)
		for c := range b[r] {
			out[r][c] = int(b[r][c])
		}
	}
	return out
}

// BoardFromInts is the inverse of Ints. Cells outside 0..2 are rejected.
func BoardFromInts(cells [][]int) (Board, error) {
	var b Board
	if len(cells) != Rows {
		return b, ErrInvalidBoard
	}
	for r := range cells {
		if len(cells[r]) != Columns {
			return b, ErrInvalidBoard
		}
		for c, v := range cells[r] {
			p := PlayerID(v)
			if p != Empty && !p.Valid() {
				return b, ErrInvalidBoard
			}
			b[r][c] = p
		}
	}
	return b, nil
}

const ErrInvalidBoard Error = "invalid board"

// String renders the board top row first, using '.', 'X' and 'O'.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		for c := 0; c < Columns; c++ {
			switch b[r][c] {
			case Player1:
				sb.WriteByte('X')
			case Player2:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
