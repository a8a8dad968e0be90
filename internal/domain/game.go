package domain

// Game is one Connect Four engine instance. It is not safe for concurrent use;
// the owner serializes calls.
type Game struct {
	board         Board
	currentPlayer PlayerID
	status        GameStatus
	winner        PlayerID
	winningLine   []Position
	moves         []Move
}

// MoveResult describes an accepted drop.
type MoveResult struct {
	Row         int        `json:"row"`
	Column      int        `json:"col"`
	Player      PlayerID   `json:"player"`
	Status      GameStatus `json:"status"`
	Winner      PlayerID   `json:"winner,omitempty"`
	WinningLine []Position `json:"winningLine,omitempty"`
}

func NewGame() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// Reset starts a new game on the same instance.
func (g *Game) Reset() {
	g.board = Board{}
	g.currentPlayer = Player1
	g.status = StatusActive
	g.winner = Empty
	g.winningLine = nil
	g.moves = nil
}

// DropPiece plays the current player's piece into column. A rejected move
// returns ErrGameOver, ErrInvalidColumn or ErrColumnFull and leaves the game
// untouched. Winning and drawing are successful results.
func (g *Game) DropPiece(column int) (MoveResult, error) {
	if g.status != StatusActive {
		return MoveResult{}, ErrGameOver
	}

	player := g.currentPlayer
	row, err := g.board.Drop(column, player)
	if err != nil {
		return MoveResult{}, err
	}
	g.moves = append(g.moves, Move{Row: row, Column: column, Player: player})

	if line, won := CheckWin(&g.board, row, column, player); won {
		g.status = StatusWon
		g.winner = player
		g.winningLine = line
	} else if g.board.IsFull() {
		g.status = StatusDraw
	} else {
		g.currentPlayer = player.Opponent()
	}

	return MoveResult{
		Row:         row,
		Column:      column,
		Player:      player,
		Status:      g.status,
		Winner:      g.winner,
		WinningLine: g.WinningLine(),
	}, nil
}

// Board returns a copy of the grid.
func (g *Game) Board() Board {
	return g.board
}

func (g *Game) Cell(row, column int) PlayerID {
	if !InBounds(row, column) {
		return Empty
	}
	return g.board[row][column]
}

func (g *Game) CurrentPlayer() PlayerID {
	return g.currentPlayer
}

func (g *Game) Status() GameStatus {
	return g.status
}

// Winner is Empty unless the status is StatusWon.
func (g *Game) Winner() PlayerID {
	return g.winner
}

func (g *Game) WinningLine() []Position {
	if g.winningLine == nil {
		return nil
	}
	line := make([]Position, len(g.winningLine))
	copy(line, g.winningLine)
	return line
}

func (g *Game) MoveCount() int {
	return len(g.moves)
}

func (g *Game) Moves() []Move {
	moves := make([]Move, len(g.moves))
	copy(moves, g.moves)
	return moves
}

// LastMove returns the most recently placed piece, used for highlighting.
func (g *Game) LastMove() (Move, bool) {
	if len(g.moves) == 0 {
		return Move{}, false
	}
	return g.moves[len(g.moves)-1], true
}

func (g *Game) IsFinished() bool {
	return g.status.IsTerminal()
}
