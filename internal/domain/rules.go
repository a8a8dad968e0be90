package domain

// axes are checked in this order; the first one that connects ToWin pieces is
// the one reported, even if the same move completes another line.
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{-1, 1}, // diagonal /
}

// CheckWin only looks at lines passing through (row, column), so the cost does
// not depend on how full the board is. It returns the connected cells ordered
// from one end of the line to the other.
func CheckWin(board *Board, row, column int, player PlayerID) ([]Position, bool) {
	for _, axis := range axes {
		line := ConnectedCells(board, row, column, axis[0], axis[1], player)
		if len(line) >= ToWin {
			return line, true
		}
	}
	return nil, false
}

// ConnectedCells walks backwards first so the result is spatially ordered,
// then forwards. Each side is scanned at most ToWin-1 cells.
func ConnectedCells(board *Board, row, column, deltaRow, deltaCol int, player PlayerID) []Position {
	back := CountDiskInDirection(board, row, column, -deltaRow, -deltaCol, player)
	forward := CountDiskInDirection(board, row, column, deltaRow, deltaCol, player)

	cells := make([]Position, 0, back+forward+1)
	for i := back; i >= 1; i-- {
		cells = append(cells, Position{Row: row - deltaRow*i, Column: column - deltaCol*i})
	}
	cells = append(cells, Position{Row: row, Column: column})
	for i := 1; i <= forward; i++ {
		cells = append(cells, Position{Row: row + deltaRow*i, Column: column + deltaCol*i})
	}
	return cells
}

// this counts the number of disks in a specific direction, not including the
// starting cell
func CountDiskInDirection(board *Board, row, column, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for count < ToWin-1 && InBounds(r, c) && board[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// ContainsPosition is used for highlighting winning cells.
func ContainsPosition(line []Position, row, column int) bool {
	for _, p := range line {
		if p.Row == row && p.Column == column {
			return true
		}
	}
	return false
}
