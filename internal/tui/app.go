package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
	"github.com/lfriedrich2/4gewinnt/pkg/keymap"
)

const keyHelp = `[::b]Keys[::-]
1-7       drop into column
Space/⏎   drop into the middle
←/→       move cursor
↓         drop at cursor
n         new game
r         reset scores
s         toggle sound
q         quit`

// action is what a key press asks the app to do besides redrawing.
type action int

const (
	actionNone action = iota
	actionQuit
)

// handleKey applies one key press to ctrl. cue is empty when no piece was
// played.
func handleKey(ctrl *Controller, event *tcell.EventKey) (game.Cue, action) {
	switch event.Key() {
	case tcell.KeyLeft:
		ctrl.MoveCursor(-1)
	case tcell.KeyRight:
		ctrl.MoveCursor(1)
	case tcell.KeyDown:
		return ctrl.DropAtCursor(), actionNone
	case tcell.KeyEnter:
		col, _ := keymap.ColumnForKey(keymap.KeyEnter)
		return ctrl.Drop(col), actionNone
	case tcell.KeyEscape:
		return "", actionQuit
	case tcell.KeyRune:
		r := event.Rune()
		if col, ok := keymap.ColumnForRune(r); ok {
			return ctrl.Drop(col), actionNone
		}
		switch r {
		case 'n':
			ctrl.NewGame()
		case 'r':
			ctrl.ResetScores()
		case 's':
			ctrl.ToggleSound()
		case 'q':
			return "", actionQuit
		}
	}
	return "", actionNone
}

// rings reports whether cue rings the terminal bell.
func rings(cue game.Cue) bool {
	return cue == game.CueError || cue == game.CueWin || cue == game.CueDraw
}

func renderInfo(ctrl *Controller) string {
	var sb strings.Builder
	settings, stats := ctrl.Settings(), ctrl.Stats()

	fmt.Fprintf(&sb, "[::b]%s[::-]\n\n", tview.Escape(ctrl.Status()))
	for _, p := range []domain.PlayerID{domain.Player1, domain.Player2} {
		marker := " "
		if !ctrl.Game().IsFinished() && ctrl.Game().CurrentPlayer() == p {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s [%s]●[-] %s: %d\n", marker, playerTags[p], tview.Escape(ctrl.Name(p)), settings.Player(p).Score)
	}
	fmt.Fprintf(&sb, "\nGames: %d  Draws: %d\n", stats.GamesPlayed, stats.Draws)

	sound := "off"
	if ctrl.SoundOn() {
		sound = "on"
	}
	fmt.Fprintf(&sb, "Sound: %s\n", sound)

	if msg := ctrl.Message(); msg != "" {
		fmt.Fprintf(&sb, "\n[red]%s[-]\n", tview.Escape(msg))
	}
	sb.WriteString("\n" + keyHelp)
	return sb.String()
}

// Run starts the terminal UI and blocks until the player quits.
func Run(ctrl *Controller) error {
	app := tview.NewApplication()
	board := NewBoardView(ctrl)

	info := tview.NewTextView()
	info.SetDynamicColors(true)
	info.SetBorder(true)
	info.SetBorderPadding(0, 0, 1, 1)
	info.SetTitle(" Status ")
	info.SetTitleAlign(tview.AlignLeft)
	info.SetText(renderInfo(ctrl))

	layout := tview.NewFlex().
		AddItem(board.Box, board.Width(), 0, true).
		AddItem(info, 0, 1, false)

	var screen tcell.Screen
	app.SetBeforeDrawFunc(func(s tcell.Screen) bool {
		screen = s
		return false
	})

	layout.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		cue, act := handleKey(ctrl, event)
		if act == actionQuit {
			app.Stop()
			return nil
		}
		if rings(cue) && ctrl.SoundOn() && screen != nil {
			screen.Beep()
		}
		info.SetText(renderInfo(ctrl))
		return nil
	})

	return app.SetRoot(layout, true).Run()
}
