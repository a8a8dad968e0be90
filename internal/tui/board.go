package tui

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/pkg/keymap"
)

const (
	cellWidth = 4
	// left padding inside the border
	boardInset = 1
	pieceRune  = '●'
)

var playerColors = map[domain.PlayerID]tcell.Color{
	domain.Player1: tcell.ColorRed,
	domain.Player2: tcell.ColorYellow,
}

// color tags for tview text, matching playerColors
var playerTags = map[domain.PlayerID]string{
	domain.Player1: "red",
	domain.Player2: "yellow",
}

// BoardView draws the grid with a cursor row above and column labels below.
type BoardView struct {
	Box  *tview.Box
	ctrl *Controller
}

func NewBoardView(ctrl *Controller) *BoardView {
	b := &BoardView{Box: tview.NewBox(), ctrl: ctrl}
	b.Box.SetBorder(true)
	b.Box.SetTitle(" 4 gewinnt ")
	b.Box.SetDrawFunc(b.draw)
	return b
}

// Width is the room the board needs including the border.
func (b *BoardView) Width() int {
	return domain.Columns*cellWidth + 2*boardInset + 2
}

func (b *BoardView) draw(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
	g := b.ctrl.Game()
	line := g.WinningLine()
	last, hasLast := g.LastMove()
	left, top := x+1+boardInset, y+1

	if !g.IsFinished() {
		arrowX := left + b.ctrl.Cursor()*cellWidth + cellWidth/2
		screen.SetContent(arrowX, top, '▼', nil, tcell.StyleDefault.Foreground(playerColors[g.CurrentPlayer()]))
	}

	for row := 0; row < domain.Rows; row++ {
		for col := 0; col < domain.Columns; col++ {
			style := tcell.StyleDefault.Background(tcell.ColorNavy)
			piece := ' '
			if p := g.Cell(row, col); p != domain.Empty {
				piece = pieceRune
				style = style.Foreground(playerColors[p])
			}
			if domain.ContainsPosition(line, row, col) {
				style = style.Background(tcell.ColorGreen)
			} else if hasLast && last.Row == row && last.Column == col {
				style = style.Background(tcell.ColorBlue).Bold(true)
			}

			cx, cy := left+col*cellWidth, top+1+row
			for i := 0; i < cellWidth; i++ {
				screen.SetContent(cx+i, cy, ' ', nil, style)
			}
			screen.SetContent(cx+cellWidth/2, cy, piece, nil, style)
		}
	}

	labelY := top + 1 + domain.Rows
	for col := 0; col < domain.Columns; col++ {
		label := strconv.Itoa(keymap.Label(col))
		tview.Print(screen, label, left+col*cellWidth+cellWidth/2, labelY, 1, tview.AlignLeft, tcell.ColorWhite)
	}

	return x + 1, y + 1, width - 2, height - 2
}
